package ats

import (
	"math"
	"strings"

	"hireall/internal/types"
)

// Weights of each sub-score in the overall score. The sub-scores have
// different ceilings, so the result is a scale-mixed heuristic, not a percentage.
var overallWeights = struct {
	Structure, Content, Keywords, Formatting, Readability, Impact, Modernization float64
}{0.15, 0.20, 0.25, 0.10, 0.15, 0.10, 0.05}

// assessment is everything the enhanced pipeline derives for one resume
type assessment struct {
	metrics   types.DetailedMetrics
	breakdown types.ScoreBreakdown
	overall   int
	keywords  KeywordAnalysis
	content   contentAnalysis
	recs      types.Recommendations
}

func (c *compiledLexicon) assess(resume *types.ResumeData, opts types.ScoreOptions) assessment {
	text := ExtractFullText(resume)
	tokens := Tokenize(text)
	lower := strings.ToLower(text)

	m := c.detailedMetrics(resume, text, tokens, opts.Industry)
	b := types.ScoreBreakdown{
		Structure:     scoreStructure(resume),
		Content:       scoreContent(m, opts.Industry),
		Keywords:      scoreKeywords(m),
		Formatting:    scoreFormatting(text),
		Readability:   scoreReadability(text),
		Impact:        scoreImpact(m, lower, c.achievementVerbs),
		Modernization: scoreModernization(resume, lower, c.modernTerms, opts.Industry),
	}

	kw := c.analyzeKeywords(text, opts)
	content := analyzeContent(resume, m, opts.Industry)

	return assessment{
		metrics:   m,
		breakdown: b,
		overall:   aggregateOverall(b),
		keywords:  kw,
		content:   content,
		recs:      generateRecommendations(resume, b, m, content.criticalIssues, kw.Missing),
	}
}

// aggregateOverall is the weighted sum of the sub-scores, rounded and clamped to 0-100
func aggregateOverall(b types.ScoreBreakdown) int {
	w := overallWeights
	sum := b.Structure*w.Structure +
		b.Content*w.Content +
		b.Keywords*w.Keywords +
		b.Formatting*w.Formatting +
		b.Readability*w.Readability +
		b.Impact*w.Impact +
		b.Modernization*w.Modernization

	return int(math.Max(0, math.Min(100, math.Round(sum))))
}

func (a assessment) evaluation() *types.EnhancedATSEvaluation {
	return &types.EnhancedATSEvaluation{
		Score:           a.overall,
		Breakdown:       a.breakdown,
		DetailedMetrics: a.metrics,
		MatchedKeywords: a.keywords.Matched,
		MissingKeywords: a.keywords.Missing,
		Strengths:       a.content.strengths,
		CriticalIssues:  a.content.criticalIssues,
		Improvements:    a.content.improvements,
		Recommendations: a.recs,
	}
}

func (a assessment) resumeScore(suggestionLimit int) *types.ResumeScore {
	b := a.breakdown
	return &types.ResumeScore{
		Overall:         a.overall,
		Completeness:    a.metrics.SectionCompleteness,
		ATS:             (b.Structure + b.Keywords + b.Formatting + b.Readability) / 4,
		Impact:          b.Impact,
		Suggestions:     topSuggestions(a.recs, suggestionLimit),
		Breakdown:       b,
		DetailedMetrics: a.metrics,
		Strengths:       a.content.strengths,
		CriticalIssues:  a.content.criticalIssues,
		Recommendations: a.recs,
	}
}
