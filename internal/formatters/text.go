package formatters

import (
	"fmt"
	"strings"

	"hireall/internal/ats"
	"hireall/internal/types"
)

// ScoreTextFormatter renders a ResumeScore for terminals
type ScoreTextFormatter struct{}

func (f *ScoreTextFormatter) Format(data any) (string, error) {
	score, ok := data.(types.ResumeScore)
	if !ok {
		return "", fmt.Errorf("expected ResumeScore, got %T", data)
	}

	var out strings.Builder
	out.WriteString("=== RESUME SCORE ===\n")
	fmt.Fprintf(&out, "Overall:      %3d/100 %s\n", score.Overall, scoreBar(float64(score.Overall), 100))
	fmt.Fprintf(&out, "ATS:          %5.1f\n", score.ATS)
	fmt.Fprintf(&out, "Completeness: %5.1f%%\n", score.Completeness)
	fmt.Fprintf(&out, "Impact:       %5.1f\n\n", score.Impact)

	writeBreakdownText(&out, score.Breakdown)
	writeMetricsText(&out, score.DetailedMetrics)
	writeListText(&out, "STRENGTHS", score.Strengths)
	writeListText(&out, "CRITICAL ISSUES", score.CriticalIssues)
	writeListText(&out, "SUGGESTIONS", score.Suggestions)

	return out.String(), nil
}

func (f *ScoreTextFormatter) SupportedType() string {
	return typeResumeScore
}

// EvaluationTextFormatter renders the full enhanced evaluation
type EvaluationTextFormatter struct{}

func (f *EvaluationTextFormatter) Format(data any) (string, error) {
	eval, ok := data.(types.EnhancedATSEvaluation)
	if !ok {
		return "", fmt.Errorf("expected EnhancedATSEvaluation, got %T", data)
	}

	var out strings.Builder
	out.WriteString("=== ATS EVALUATION ===\n")
	fmt.Fprintf(&out, "Score: %d/100 %s\n\n", eval.Score, scoreBar(float64(eval.Score), 100))

	writeBreakdownText(&out, eval.Breakdown)
	writeMetricsText(&out, eval.DetailedMetrics)
	writeListText(&out, "MATCHED KEYWORDS", eval.MatchedKeywords)
	writeListText(&out, "MISSING KEYWORDS", eval.MissingKeywords)
	writeListText(&out, "STRENGTHS", eval.Strengths)
	writeListText(&out, "CRITICAL ISSUES", eval.CriticalIssues)
	writeListText(&out, "IMPROVEMENTS", eval.Improvements)
	writeListText(&out, "HIGH PRIORITY", eval.Recommendations.High)
	writeListText(&out, "MEDIUM PRIORITY", eval.Recommendations.Medium)
	writeListText(&out, "LOW PRIORITY", eval.Recommendations.Low)

	return out.String(), nil
}

func (f *EvaluationTextFormatter) SupportedType() string {
	return typeEvaluation
}

// BasicTextFormatter renders the quick score
type BasicTextFormatter struct{}

func (f *BasicTextFormatter) Format(data any) (string, error) {
	score, ok := data.(types.BasicResumeScore)
	if !ok {
		return "", fmt.Errorf("expected BasicResumeScore, got %T", data)
	}

	var out strings.Builder
	out.WriteString("=== QUICK SCORE ===\n")
	fmt.Fprintf(&out, "Overall: %d/100 %s\n\n", score.Overall, scoreBar(float64(score.Overall), 100))

	out.WriteString("BREAKDOWN\n")
	for _, row := range []struct {
		name  string
		value float64
	}{
		{"Structure", score.Breakdown.Structure},
		{"Keywords", score.Breakdown.Keywords},
		{"Impact", score.Breakdown.Impact},
		{"Readability", score.Breakdown.Readability},
	} {
		fmt.Fprintf(&out, "  %-12s %5.1f/100 %s\n", row.name, row.value, scoreBar(row.value, 100))
	}
	out.WriteString("\n")

	m := score.Metrics
	out.WriteString("METRICS\n")
	fmt.Fprintf(&out, "  Action verbs:            %d\n", m.ActionVerbCount)
	fmt.Fprintf(&out, "  Quantified achievements: %d\n", m.QuantifiedAchievements)
	fmt.Fprintf(&out, "  Soft skills:             %d\n", m.SoftSkillCount)
	fmt.Fprintf(&out, "  Sections found:          %s\n\n", joinOrNone(m.SectionsFound))

	writeListText(&out, "SUGGESTIONS", score.Suggestions)
	return out.String(), nil
}

func (f *BasicTextFormatter) SupportedType() string {
	return typeBasicScore
}

// BatchTextFormatter renders a batch report as an aligned table
type BatchTextFormatter struct{}

func (f *BatchTextFormatter) Format(data any) (string, error) {
	report, ok := data.(types.BatchReport)
	if !ok {
		return "", fmt.Errorf("expected BatchReport, got %T", data)
	}

	width := len("FILE")
	for _, r := range report.Results {
		width = max(width, len(r.File))
	}

	var out strings.Builder
	fmt.Fprintf(&out, "=== BATCH REPORT %s ===\n", report.ID)
	fmt.Fprintf(&out, "Generated: %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&out, "Scored: %d  Failed: %d  Average overall: %.1f\n\n", report.Scored, report.Failed, report.AverageOverall)

	fmt.Fprintf(&out, "%-*s  %7s  %6s  %12s\n", width, "FILE", "OVERALL", "ATS", "COMPLETENESS")
	for _, r := range report.Results {
		if r.Error != "" {
			fmt.Fprintf(&out, "%-*s  ERROR: %s\n", width, r.File, r.Error)
			continue
		}
		fmt.Fprintf(&out, "%-*s  %7d  %6.1f  %11.1f%%\n", width, r.File, r.Overall, r.ATS, r.Completeness)
	}

	return out.String(), nil
}

func (f *BatchTextFormatter) SupportedType() string {
	return typeBatchReport
}

// CoachTextFormatter renders a coach review, with the score when present
type CoachTextFormatter struct{}

func (f *CoachTextFormatter) Format(data any) (string, error) {
	var score *types.ResumeScore
	var review *types.CoachReviewOutput

	switch v := data.(type) {
	case types.CoachReport:
		score, review = v.Score, v.Review
	case types.CoachReviewOutput:
		review = &v
	default:
		return "", fmt.Errorf("expected CoachReport, got %T", data)
	}

	var out strings.Builder
	if score != nil {
		fmt.Fprintf(&out, "=== RESUME SCORE: %d/100 ===\n\n", score.Overall)
	}
	if review == nil {
		out.WriteString("No coach review available.\n")
		return out.String(), nil
	}

	out.WriteString("=== COACH REVIEW ===\n")
	out.WriteString(review.Summary)
	out.WriteString("\n\n")

	if review.RewrittenSummary != "" {
		out.WriteString("SUGGESTED SUMMARY\n")
		out.WriteString(review.RewrittenSummary)
		out.WriteString("\n\n")
	}

	if len(review.BulletRewrites) > 0 {
		out.WriteString("BULLET REWRITES\n")
		for i, br := range review.BulletRewrites {
			fmt.Fprintf(&out, "%d. Before: %s\n   After:  %s\n   Why:    %s\n", i+1, br.Original, br.Improved, br.Reason)
		}
		out.WriteString("\n")
	}

	writeListText(&out, "PRIORITY ACTIONS", review.PriorityActions)
	return out.String(), nil
}

func (f *CoachTextFormatter) SupportedType() string {
	return typeCoachReport
}

func writeBreakdownText(out *strings.Builder, b types.ScoreBreakdown) {
	out.WriteString("BREAKDOWN\n")
	for _, row := range breakdownRows(b) {
		fmt.Fprintf(out, "  %-14s %5.1f/%-3.0f %s\n", row.name, row.value, row.max, scoreBar(row.value, row.max))
	}
	out.WriteString("\n")
}

func writeMetricsText(out *strings.Builder, m types.DetailedMetrics) {
	out.WriteString("METRICS\n")
	fmt.Fprintf(out, "  Word count:            %d\n", m.WordCount)
	fmt.Fprintf(out, "  Keyword density:       %.2f%%\n", m.KeywordDensity)
	fmt.Fprintf(out, "  Action verb usage:     %.1f\n", m.ActionVerbUsage)
	fmt.Fprintf(out, "  Quantification:        %.1f\n", m.QuantificationScore)
	fmt.Fprintf(out, "  Section completeness:  %.1f%%\n", m.SectionCompleteness)
	fmt.Fprintf(out, "  Professional language: %.0f\n", m.ProfessionalLanguage)
	fmt.Fprintf(out, "  Technical terms:       %.0f\n", m.TechnicalTerms)
	fmt.Fprintf(out, "  Industry alignment:    %.1f%%\n\n", m.IndustryAlignment)
}

func writeListText(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	out.WriteString(title)
	out.WriteString("\n")
	for _, item := range items {
		out.WriteString("  - ")
		out.WriteString(item)
		out.WriteString("\n")
	}
	out.WriteString("\n")
}

type breakdownRow struct {
	name  string
	value float64
	max   float64
}

func breakdownRows(b types.ScoreBreakdown) []breakdownRow {
	return []breakdownRow{
		{"Structure", b.Structure, ats.MaxStructure},
		{"Content", b.Content, ats.MaxContent},
		{"Keywords", b.Keywords, ats.MaxKeywords},
		{"Formatting", b.Formatting, ats.MaxFormatting},
		{"Readability", b.Readability, ats.MaxReadability},
		{"Impact", b.Impact, ats.MaxImpact},
		{"Modernization", b.Modernization, ats.MaxModernization},
	}
}

// scoreBar draws value/ceiling as a fixed-width bar
func scoreBar(value, ceiling float64) string {
	if ceiling <= 0 {
		return ""
	}
	filled := int(value / ceiling * scoreBarSegments)
	filled = max(0, min(scoreBarSegments, filled))
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", scoreBarSegments-filled) + "]"
}

func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
