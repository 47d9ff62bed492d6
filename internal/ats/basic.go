package ats

import (
	"math"
	"slices"
	"strings"

	"hireall/internal/types"
)

// Section names reported in BasicMetrics.SectionsFound
const (
	SectionContact        = "contact"
	SectionSummary        = "summary"
	SectionExperience     = "experience"
	SectionEducation      = "education"
	SectionSkills         = "skills"
	SectionProjects       = "projects"
	SectionCertifications = "certifications"
)

// basicSectionPoints sums to 100
var basicSectionPoints = []struct {
	name   string
	points float64
}{
	{SectionContact, 20},
	{SectionSummary, 15},
	{SectionExperience, 25},
	{SectionEducation, 15},
	{SectionSkills, 15},
	{SectionProjects, 5},
	{SectionCertifications, 5},
}

// basic scores a resume with the lightweight four-part model used for
// real-time feedback. It is intentionally separate from the enhanced model.
func (c *compiledLexicon) basic(resume *types.ResumeData, opts types.ScoreOptions) *types.BasicResumeScore {
	text := ExtractFullText(resume)
	tokens := Tokenize(text)

	sections := basicSections(resume)
	metrics := types.BasicMetrics{
		ActionVerbCount:        countInSet(tokens, c.actionVerbs),
		QuantifiedAchievements: countQuantified(text),
		SoftSkillCount:         countInSet(tokens, c.softSkills),
		SectionsFound:          sections,
	}

	kw := c.analyzeKeywords(text, opts)

	breakdown := types.BasicBreakdown{
		Structure:   basicStructure(sections),
		Keywords:    basicKeywords(kw, countInSet(tokens, c.technical)),
		Impact:      math.Min(100, float64(metrics.ActionVerbCount*8+metrics.QuantifiedAchievements*12)),
		Readability: basicReadability(text, len(tokens)),
	}

	overall := breakdown.Structure*0.30 +
		breakdown.Keywords*0.30 +
		breakdown.Impact*0.25 +
		breakdown.Readability*0.15

	return &types.BasicResumeScore{
		Overall:     int(math.Max(0, math.Min(100, math.Round(overall)))),
		Breakdown:   breakdown,
		Metrics:     metrics,
		Suggestions: basicSuggestions(metrics, breakdown, kw, len(tokens)),
	}
}

func basicSections(resume *types.ResumeData) []string {
	found := []string{}
	if resume == nil {
		return found
	}
	p := resume.PersonalInfo
	checks := map[string]bool{
		SectionContact:        present(p.FullName) && present(p.Email),
		SectionSummary:        present(p.Summary),
		SectionExperience:     len(resume.Experience) > 0,
		SectionEducation:      len(resume.Education) > 0,
		SectionSkills:         len(resume.Skills) > 0,
		SectionProjects:       len(resume.Projects) > 0,
		SectionCertifications: len(resume.Certifications) > 0,
	}
	for _, s := range basicSectionPoints {
		if checks[s.name] {
			found = append(found, s.name)
		}
	}
	return found
}

func basicStructure(sections []string) float64 {
	score := 0.0
	for _, s := range basicSectionPoints {
		if slices.Contains(sections, s.name) {
			score += s.points
		}
	}
	return math.Min(100, score)
}

// basicKeywords is the matched share of target keywords, or a technical
// vocabulary score when no industry or role narrows the targets
func basicKeywords(kw KeywordAnalysis, technicalCount int) float64 {
	if len(kw.Targets) == 0 {
		return math.Min(100, float64(technicalCount*10))
	}
	return math.Round(ratio(len(kw.Matched), len(kw.Targets)) * 100)
}

func basicReadability(text string, wordCount int) float64 {
	score := 0.0

	switch {
	case wordCount >= 300 && wordCount <= 800:
		score += 40
	case wordCount >= 150 && wordCount <= 1000:
		score += 25
	case wordCount > 0:
		score += 10
	}

	avg, _ := meanVariance(sentenceLengths(text))
	switch {
	case avg >= 10 && avg <= 20:
		score += 40
	case avg >= 6 && avg <= 28:
		score += 25
	case avg > 0:
		score += 10
	}

	if !strings.ContainsAny(text, "|\t") {
		score += 20
	}

	return math.Min(100, score)
}

func basicSuggestions(m types.BasicMetrics, b types.BasicBreakdown, kw KeywordAnalysis, wordCount int) []string {
	suggestions := []string{}
	has := func(section string) bool { return slices.Contains(m.SectionsFound, section) }

	if !has(SectionContact) {
		suggestions = append(suggestions, "Add your full name and email address")
	}
	if !has(SectionSummary) {
		suggestions = append(suggestions, "Add a professional summary at the top of your resume")
	}
	if !has(SectionExperience) {
		suggestions = append(suggestions, "Add your work experience with measurable achievements")
	}
	if !has(SectionSkills) {
		suggestions = append(suggestions, "Add a skills section")
	}
	if m.ActionVerbCount < 5 {
		suggestions = append(suggestions, "Use more action verbs such as led, built or improved")
	}
	if m.QuantifiedAchievements < 3 {
		suggestions = append(suggestions, "Add numbers that show the scale of your achievements")
	}
	if m.SoftSkillCount == 0 {
		suggestions = append(suggestions, "Mention soft skills like communication or leadership")
	}
	if b.Keywords < 50 && len(kw.Missing) > 0 {
		hint := kw.Missing
		if len(hint) > missingKeywordHint {
			hint = hint[:missingKeywordHint]
		}
		suggestions = append(suggestions, "Add missing keywords: "+strings.Join(hint, ", "))
	}
	switch {
	case wordCount > 0 && wordCount < 150:
		suggestions = append(suggestions, "Your resume is short; add more detail to each role")
	case wordCount > 1000:
		suggestions = append(suggestions, "Your resume is long; keep it to the most relevant points")
	}

	return suggestions
}
