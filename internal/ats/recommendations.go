package ats

import (
	"strings"

	"hireall/internal/types"
)

// MaxSuggestions is how many recommendations the flattened score carries
const MaxSuggestions = 8

const missingKeywordHint = 5

// generateRecommendations buckets advice by priority. Critical issues lead the high bucket.
func generateRecommendations(resume *types.ResumeData, b types.ScoreBreakdown, m types.DetailedMetrics, criticalIssues, missing []string) types.Recommendations {
	recs := types.Recommendations{
		High:   append([]string{}, criticalIssues...),
		Medium: []string{},
		Low:    []string{},
	}

	if b.Structure < 30 {
		recs.High = append(recs.High, "Complete the core sections: contact details, summary, experience, education and skills")
	}
	if b.Impact < 40 {
		recs.High = append(recs.High, "Show impact by quantifying results and opening bullets with achievement verbs")
	}

	if b.Keywords < 20 {
		recs.Medium = append(recs.Medium, "Work more role and industry keywords into your experience")
	}
	if b.Content < 30 {
		recs.Medium = append(recs.Medium, "Strengthen content with professional language and relevant technical terms")
	}
	if b.Readability < 30 {
		recs.Medium = append(recs.Medium, "Vary sentence length and aim for 10-20 words per sentence")
	}
	if b.Formatting < 20 {
		recs.Medium = append(recs.Medium, "Remove tables, pipes, tabs and unusual symbols so ATS parsers can read the resume")
	}
	if m.QuantificationScore < 40 && b.Impact >= 40 {
		recs.Medium = append(recs.Medium, "Add more measurable outcomes such as percentages or revenue figures")
	}

	if b.Modernization < 30 {
		recs.Low = append(recs.Low, "Mention current tools and practices relevant to your field")
	}
	if resume == nil || !present(resume.PersonalInfo.LinkedIn) {
		recs.Low = append(recs.Low, "Add a LinkedIn profile URL")
	}
	if len(missing) > 0 {
		hint := missing
		if len(hint) > missingKeywordHint {
			hint = hint[:missingKeywordHint]
		}
		recs.Low = append(recs.Low, "Consider adding these keywords: "+strings.Join(hint, ", "))
	}

	return recs
}

// topSuggestions concatenates high, medium and low and keeps the first limit entries
func topSuggestions(recs types.Recommendations, limit int) []string {
	all := make([]string, 0, len(recs.High)+len(recs.Medium)+len(recs.Low))
	all = append(all, recs.High...)
	all = append(all, recs.Medium...)
	all = append(all, recs.Low...)
	if len(all) > limit {
		all = all[:limit]
	}
	return all
}
