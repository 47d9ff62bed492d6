package types

import "time"

// DetailedMetrics are the raw features the enhanced scorer derives from a resume
type DetailedMetrics struct {
	WordCount            int     `json:"wordCount" yaml:"wordCount"`
	KeywordDensity       float64 `json:"keywordDensity" yaml:"keywordDensity"`
	ActionVerbUsage      float64 `json:"actionVerbUsage" yaml:"actionVerbUsage"`
	QuantificationScore  float64 `json:"quantificationScore" yaml:"quantificationScore"`
	SectionCompleteness  float64 `json:"sectionCompleteness" yaml:"sectionCompleteness"`
	ProfessionalLanguage float64 `json:"professionalLanguage" yaml:"professionalLanguage"`
	TechnicalTerms       float64 `json:"technicalTerms" yaml:"technicalTerms"`
	IndustryAlignment    float64 `json:"industryAlignment" yaml:"industryAlignment"`
}

// ScoreBreakdown holds the seven bounded sub-scores
type ScoreBreakdown struct {
	Structure     float64 `json:"structure" yaml:"structure"`         // 0-50
	Content       float64 `json:"content" yaml:"content"`             // 0-50
	Keywords      float64 `json:"keywords" yaml:"keywords"`           // 0-35
	Formatting    float64 `json:"formatting" yaml:"formatting"`       // 0-30
	Readability   float64 `json:"readability" yaml:"readability"`     // 0-45
	Impact        float64 `json:"impact" yaml:"impact"`               // 0-100
	Modernization float64 `json:"modernization" yaml:"modernization"` // 0-75
}

// Recommendations groups suggestions by priority
type Recommendations struct {
	High   []string `json:"high" yaml:"high"`
	Medium []string `json:"medium" yaml:"medium"`
	Low    []string `json:"low" yaml:"low"`
}

// EnhancedATSEvaluation is the full output of the enhanced scorer
type EnhancedATSEvaluation struct {
	Score           int             `json:"score" yaml:"score"`
	Breakdown       ScoreBreakdown  `json:"breakdown" yaml:"breakdown"`
	DetailedMetrics DetailedMetrics `json:"detailedMetrics" yaml:"detailedMetrics"`
	MatchedKeywords []string        `json:"matchedKeywords" yaml:"matchedKeywords"`
	MissingKeywords []string        `json:"missingKeywords" yaml:"missingKeywords"`
	Strengths       []string        `json:"strengths" yaml:"strengths"`
	CriticalIssues  []string        `json:"criticalIssues" yaml:"criticalIssues"`
	Improvements    []string        `json:"improvements" yaml:"improvements"`
	Recommendations Recommendations `json:"recommendations" yaml:"recommendations"`
}

// ResumeScore is the flattened enhanced result consumed by dashboards
type ResumeScore struct {
	Overall         int             `json:"overall" yaml:"overall"`
	Completeness    float64         `json:"completeness" yaml:"completeness"`
	ATS             float64         `json:"ats" yaml:"ats"`
	Impact          float64         `json:"impact" yaml:"impact"`
	Suggestions     []string        `json:"suggestions" yaml:"suggestions"`
	Breakdown       ScoreBreakdown  `json:"breakdown" yaml:"breakdown"`
	DetailedMetrics DetailedMetrics `json:"detailedMetrics" yaml:"detailedMetrics"`
	Strengths       []string        `json:"strengths" yaml:"strengths"`
	CriticalIssues  []string        `json:"criticalIssues" yaml:"criticalIssues"`
	Recommendations Recommendations `json:"recommendations" yaml:"recommendations"`
}

// BasicBreakdown is the four-part breakdown of the basic scorer, each 0-100
type BasicBreakdown struct {
	Structure   float64 `json:"structure" yaml:"structure"`
	Keywords    float64 `json:"keywords" yaml:"keywords"`
	Impact      float64 `json:"impact" yaml:"impact"`
	Readability float64 `json:"readability" yaml:"readability"`
}

// BasicMetrics are the counters reported by the basic scorer
type BasicMetrics struct {
	ActionVerbCount        int      `json:"actionVerbCount" yaml:"actionVerbCount"`
	QuantifiedAchievements int      `json:"quantifiedAchievements" yaml:"quantifiedAchievements"`
	SoftSkillCount         int      `json:"softSkillCount" yaml:"softSkillCount"`
	SectionsFound          []string `json:"sectionsFound" yaml:"sectionsFound"`
}

// BasicResumeScore is the output of the real-time basic scorer
type BasicResumeScore struct {
	Overall     int            `json:"overall" yaml:"overall"`
	Breakdown   BasicBreakdown `json:"breakdown" yaml:"breakdown"`
	Metrics     BasicMetrics   `json:"metrics" yaml:"metrics"`
	Suggestions []string       `json:"suggestions" yaml:"suggestions"`
}

// BatchResult is one file's entry in a batch report
type BatchResult struct {
	File         string  `json:"file" yaml:"file"`
	Overall      int     `json:"overall" yaml:"overall"`
	ATS          float64 `json:"ats" yaml:"ats"`
	Completeness float64 `json:"completeness" yaml:"completeness"`
	Error        string  `json:"error,omitempty" yaml:"error,omitempty"`
}

// BatchReport summarises scoring of several resume files
type BatchReport struct {
	ID             string        `json:"id" yaml:"id"`
	GeneratedAt    time.Time     `json:"generatedAt" yaml:"generatedAt"`
	Results        []BatchResult `json:"results" yaml:"results"`
	Scored         int           `json:"scored" yaml:"scored"`
	Failed         int           `json:"failed" yaml:"failed"`
	AverageOverall float64       `json:"averageOverall" yaml:"averageOverall"`
}
