package ats

import (
	"strings"

	"hireall/internal/types"
)

// Critical issue messages. Callers and tests match on these.
const (
	IssueMissingContact = "Missing contact information (name or email)"
	IssueMissingSummary = "Missing professional summary"
	IssueNoExperience   = "No work experience listed"
	IssueNoSkills       = "No skills section"
)

// KeywordAnalysis is the result of matching target keywords against a resume
type KeywordAnalysis struct {
	Targets []string
	Matched []string
	Missing []string
}

// contentAnalysis carries the rule-derived strings for one resume
type contentAnalysis struct {
	strengths      []string
	criticalIssues []string
	improvements   []string
}

// analyzeKeywords builds the industry + role target list and splits it by
// case-insensitive substring presence in the full text
func (c *compiledLexicon) analyzeKeywords(text string, opts types.ScoreOptions) KeywordAnalysis {
	lower := strings.ToLower(text)

	var targets []string
	seen := make(map[string]struct{})
	for _, list := range [][]string{c.industryKeywords(opts.Industry), c.roleKeywords(opts.TargetRole)} {
		for _, kw := range list {
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			targets = append(targets, kw)
		}
	}

	result := KeywordAnalysis{
		Targets: targets,
		Matched: []string{},
		Missing: []string{},
	}
	for _, kw := range targets {
		if strings.Contains(lower, kw) {
			result.Matched = append(result.Matched, kw)
		} else {
			result.Missing = append(result.Missing, kw)
		}
	}
	return result
}

func analyzeContent(resume *types.ResumeData, m types.DetailedMetrics, industry string) contentAnalysis {
	a := contentAnalysis{
		strengths:      []string{},
		criticalIssues: []string{},
		improvements:   []string{},
	}

	var p types.PersonalInfo
	var hasExperience, hasEducation, hasSkills, hasProjects, hasCerts bool
	if resume != nil {
		p = resume.PersonalInfo
		hasExperience = len(resume.Experience) > 0
		hasEducation = len(resume.Education) > 0
		hasSkills = len(resume.Skills) > 0
		hasProjects = len(resume.Projects) > 0
		hasCerts = len(resume.Certifications) > 0
	}

	if m.ActionVerbUsage >= 50 {
		a.strengths = append(a.strengths, "Strong use of action verbs")
	}
	if m.QuantificationScore >= 60 {
		a.strengths = append(a.strengths, "Achievements are well quantified")
	}
	if m.SectionCompleteness == 100 {
		a.strengths = append(a.strengths, "All essential sections are present")
	}
	if m.WordCount >= 400 && m.WordCount <= 600 {
		a.strengths = append(a.strengths, "Resume length is in the optimal range")
	}
	if present(industry) && m.KeywordDensity >= 2 && m.KeywordDensity <= 5 {
		a.strengths = append(a.strengths, "Industry keyword density is well balanced")
	}
	if m.TechnicalTerms >= 10 {
		a.strengths = append(a.strengths, "Solid technical vocabulary")
	}
	if m.ProfessionalLanguage >= 5 {
		a.strengths = append(a.strengths, "Confident professional language")
	}
	if present(p.LinkedIn) {
		a.strengths = append(a.strengths, "LinkedIn profile included")
	}

	if !present(p.FullName) || !present(p.Email) {
		a.criticalIssues = append(a.criticalIssues, IssueMissingContact)
	}
	if !present(p.Summary) {
		a.criticalIssues = append(a.criticalIssues, IssueMissingSummary)
	}
	if !hasExperience {
		a.criticalIssues = append(a.criticalIssues, IssueNoExperience)
	}
	if !hasSkills {
		a.criticalIssues = append(a.criticalIssues, IssueNoSkills)
	}

	switch {
	case m.WordCount < 300:
		a.improvements = append(a.improvements, "Expand your resume content; aim for 400-600 words")
	case m.WordCount > 800:
		a.improvements = append(a.improvements, "Condense your resume; aim for 400-600 words")
	}
	if m.ActionVerbUsage < 30 {
		a.improvements = append(a.improvements, "Start more statements with strong action verbs")
	}
	if m.QuantificationScore < 40 {
		a.improvements = append(a.improvements, "Quantify achievements with numbers, percentages or dollar amounts")
	}
	if m.ProfessionalLanguage < 1 {
		a.improvements = append(a.improvements, "Use more results-oriented professional language")
	}
	if present(industry) && m.KeywordDensity < 1 {
		a.improvements = append(a.improvements, "Include more keywords used in your industry")
	}
	if !hasEducation {
		a.improvements = append(a.improvements, "Add your education history")
	}
	if !hasProjects {
		a.improvements = append(a.improvements, "Add projects that show practical experience")
	}
	if !hasCerts {
		a.improvements = append(a.improvements, "List relevant certifications")
	}

	return a
}
