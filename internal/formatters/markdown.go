package formatters

import (
	"fmt"
	"strings"

	"hireall/internal/types"
)

// ScoreMarkdownFormatter renders a ResumeScore as markdown
type ScoreMarkdownFormatter struct{}

func (f *ScoreMarkdownFormatter) Format(data any) (string, error) {
	score, ok := data.(types.ResumeScore)
	if !ok {
		return "", fmt.Errorf("expected ResumeScore, got %T", data)
	}

	var out strings.Builder
	out.WriteString("# Resume Score\n\n")
	fmt.Fprintf(&out, "**Overall:** %d/100  \n", score.Overall)
	fmt.Fprintf(&out, "**ATS:** %.1f  \n", score.ATS)
	fmt.Fprintf(&out, "**Completeness:** %.1f%%  \n", score.Completeness)
	fmt.Fprintf(&out, "**Impact:** %.1f\n\n", score.Impact)

	writeBreakdownMarkdown(&out, score.Breakdown)
	writeListMarkdown(&out, "Strengths", score.Strengths)
	writeListMarkdown(&out, "Critical Issues", score.CriticalIssues)
	writeListMarkdown(&out, "Suggestions", score.Suggestions)

	return out.String(), nil
}

func (f *ScoreMarkdownFormatter) SupportedType() string {
	return typeResumeScore
}

// EvaluationMarkdownFormatter renders the full enhanced evaluation as markdown
type EvaluationMarkdownFormatter struct{}

func (f *EvaluationMarkdownFormatter) Format(data any) (string, error) {
	eval, ok := data.(types.EnhancedATSEvaluation)
	if !ok {
		return "", fmt.Errorf("expected EnhancedATSEvaluation, got %T", data)
	}

	var out strings.Builder
	out.WriteString("# ATS Evaluation\n\n")
	fmt.Fprintf(&out, "**Score:** %d/100\n\n", eval.Score)

	writeBreakdownMarkdown(&out, eval.Breakdown)

	out.WriteString("## Keywords\n\n")
	fmt.Fprintf(&out, "- Matched: %s\n", codeList(eval.MatchedKeywords))
	fmt.Fprintf(&out, "- Missing: %s\n\n", codeList(eval.MissingKeywords))

	writeListMarkdown(&out, "Strengths", eval.Strengths)
	writeListMarkdown(&out, "Critical Issues", eval.CriticalIssues)
	writeListMarkdown(&out, "Improvements", eval.Improvements)

	out.WriteString("## Recommendations\n\n")
	for _, group := range []struct {
		label string
		items []string
	}{
		{"High", eval.Recommendations.High},
		{"Medium", eval.Recommendations.Medium},
		{"Low", eval.Recommendations.Low},
	} {
		for _, item := range group.items {
			fmt.Fprintf(&out, "- **%s:** %s\n", group.label, item)
		}
	}
	out.WriteString("\n")

	return out.String(), nil
}

func (f *EvaluationMarkdownFormatter) SupportedType() string {
	return typeEvaluation
}

// BasicMarkdownFormatter renders the quick score as markdown
type BasicMarkdownFormatter struct{}

func (f *BasicMarkdownFormatter) Format(data any) (string, error) {
	score, ok := data.(types.BasicResumeScore)
	if !ok {
		return "", fmt.Errorf("expected BasicResumeScore, got %T", data)
	}

	var out strings.Builder
	out.WriteString("# Quick Score\n\n")
	fmt.Fprintf(&out, "**Overall:** %d/100\n\n", score.Overall)

	out.WriteString("| Category | Score |\n|---|---|\n")
	fmt.Fprintf(&out, "| Structure | %.1f |\n", score.Breakdown.Structure)
	fmt.Fprintf(&out, "| Keywords | %.1f |\n", score.Breakdown.Keywords)
	fmt.Fprintf(&out, "| Impact | %.1f |\n", score.Breakdown.Impact)
	fmt.Fprintf(&out, "| Readability | %.1f |\n\n", score.Breakdown.Readability)

	fmt.Fprintf(&out, "Sections found: %s\n\n", joinOrNone(score.Metrics.SectionsFound))
	writeListMarkdown(&out, "Suggestions", score.Suggestions)

	return out.String(), nil
}

func (f *BasicMarkdownFormatter) SupportedType() string {
	return typeBasicScore
}

// BatchMarkdownFormatter renders a batch report as a markdown table
type BatchMarkdownFormatter struct{}

func (f *BatchMarkdownFormatter) Format(data any) (string, error) {
	report, ok := data.(types.BatchReport)
	if !ok {
		return "", fmt.Errorf("expected BatchReport, got %T", data)
	}

	var out strings.Builder
	out.WriteString("# Batch Report\n\n")
	fmt.Fprintf(&out, "- **ID:** `%s`\n", report.ID)
	fmt.Fprintf(&out, "- **Generated:** %s\n", report.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&out, "- **Scored:** %d, **Failed:** %d\n", report.Scored, report.Failed)
	fmt.Fprintf(&out, "- **Average overall:** %.1f\n\n", report.AverageOverall)

	out.WriteString("| File | Overall | ATS | Completeness | Error |\n|---|---|---|---|---|\n")
	for _, r := range report.Results {
		if r.Error != "" {
			fmt.Fprintf(&out, "| %s | - | - | - | %s |\n", r.File, escapePipes(r.Error))
			continue
		}
		fmt.Fprintf(&out, "| %s | %d | %.1f | %.1f%% | |\n", r.File, r.Overall, r.ATS, r.Completeness)
	}

	return out.String(), nil
}

func (f *BatchMarkdownFormatter) SupportedType() string {
	return typeBatchReport
}

// CoachMarkdownFormatter renders a coach review as markdown
type CoachMarkdownFormatter struct{}

func (f *CoachMarkdownFormatter) Format(data any) (string, error) {
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
	out.WriteString("# Resume Coach Review\n\n")
	if score != nil {
		fmt.Fprintf(&out, "**Score:** %d/100\n\n", score.Overall)
	}
	if review == nil {
		out.WriteString("_No coach review available._\n")
		return out.String(), nil
	}

	out.WriteString("## Summary\n\n")
	out.WriteString(review.Summary)
	out.WriteString("\n\n")

	if review.RewrittenSummary != "" {
		out.WriteString("## Suggested Summary\n\n> ")
		out.WriteString(strings.ReplaceAll(review.RewrittenSummary, "\n", "\n> "))
		out.WriteString("\n\n")
	}

	if len(review.BulletRewrites) > 0 {
		out.WriteString("## Bullet Rewrites\n\n| Before | After | Why |\n|---|---|---|\n")
		for _, br := range review.BulletRewrites {
			fmt.Fprintf(&out, "| %s | %s | %s |\n", escapePipes(br.Original), escapePipes(br.Improved), escapePipes(br.Reason))
		}
		out.WriteString("\n")
	}

	writeListMarkdown(&out, "Priority Actions", review.PriorityActions)
	return out.String(), nil
}

func (f *CoachMarkdownFormatter) SupportedType() string {
	return typeCoachReport
}

func writeBreakdownMarkdown(out *strings.Builder, b types.ScoreBreakdown) {
	out.WriteString("## Breakdown\n\n| Category | Score | Max |\n|---|---|---|\n")
	for _, row := range breakdownRows(b) {
		fmt.Fprintf(out, "| %s | %.1f | %.0f |\n", row.name, row.value, row.max)
	}
	out.WriteString("\n")
}

func writeListMarkdown(out *strings.Builder, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(out, "## %s\n\n", title)
	for _, item := range items {
		fmt.Fprintf(out, "- %s\n", item)
	}
	out.WriteString("\n")
}

func codeList(items []string) string {
	if len(items) == 0 {
		return "_none_"
	}
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "`" + item + "`"
	}
	return strings.Join(quoted, ", ")
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
