package ats

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"

	"hireall/internal/types"
)

// Sub-score ceilings
const (
	MaxStructure     = 50.0
	MaxContent       = 50.0
	MaxKeywords      = 35.0
	MaxFormatting    = 30.0
	MaxReadability   = 45.0
	MaxImpact        = 100.0
	MaxModernization = 75.0
)

var (
	specialCharPattern = regexp.MustCompile(`[^\w\s.,;:'"()\-+#@%]`)
	longWhitespace     = regexp.MustCompile(`\s{4,}`)
)

const (
	maxSpecialChars   = 20
	maxParagraphChars = 500
)

func scoreStructure(resume *types.ResumeData) float64 {
	if resume == nil {
		return 0
	}
	p := resume.PersonalInfo
	score := 0.0
	if present(p.FullName) {
		score += 5
	}
	if present(p.Email) {
		score += 5
	}
	if present(p.Summary) {
		score += 5
	}
	if len(resume.Experience) > 0 {
		score += 10
	}
	if len(resume.Education) > 0 {
		score += 10
	}
	if len(resume.Skills) > 0 {
		score += 10
	}
	if len(resume.Projects) > 0 {
		score += 5
	}
	return math.Min(MaxStructure, score)
}

func scoreContent(m types.DetailedMetrics, industry string) float64 {
	score := 0.0

	switch wc := m.WordCount; {
	case wc >= 400 && wc <= 600:
		score += 15
	case wc >= 300 && wc <= 800:
		score += 10
	case wc >= 200:
		score += 5
	}

	switch pl := m.ProfessionalLanguage; {
	case pl >= 5:
		score += 15
	case pl >= 3:
		score += 10
	case pl >= 1:
		score += 5
	}

	switch {
	case isTechnology(industry) && m.TechnicalTerms >= 10:
		score += 10
	case m.TechnicalTerms >= 5:
		score += 5
	}

	score += m.IndustryAlignment * 0.1
	return math.Min(MaxContent, score)
}

func scoreKeywords(m types.DetailedMetrics) float64 {
	score := 0.0

	switch d := m.KeywordDensity; {
	case d >= 2 && d <= 5:
		score += 20
	case d >= 1 && d <= 8:
		score += 15
	case d >= 0.5:
		score += 10
	}

	switch v := m.ActionVerbUsage; {
	case v >= 60:
		score += 15
	case v >= 40:
		score += 10
	case v >= 20:
		score += 5
	}

	return math.Min(MaxKeywords, score)
}

// scoreFormatting starts at the ceiling and only deducts
func scoreFormatting(text string) float64 {
	score := MaxFormatting

	if strings.ContainsAny(text, "|\t") {
		score -= 10
	}
	if len(specialCharPattern.FindAllStringIndex(text, -1)) > maxSpecialChars {
		score -= 10
	}
	if longWhitespace.MatchString(text) {
		score -= 5
	}
	// Length is in runes; UTF-16 units would differ only for astral-plane text
	for _, para := range strings.Split(text, "\n\n") {
		if utf8.RuneCountInString(para) > maxParagraphChars {
			score -= 5
			break
		}
	}

	return math.Max(0, score)
}

func scoreReadability(text string) float64 {
	score := 20.0

	lengths := sentenceLengths(text)
	avg, variance := meanVariance(lengths)

	switch {
	case avg >= 10 && avg <= 20:
		score += 15
	case avg >= 8 && avg <= 25:
		score += 10
	case avg >= 6 && avg <= 30:
		score += 5
	}

	switch {
	case variance > 10:
		score += 10
	case variance > 5:
		score += 5
	}

	return math.Min(MaxReadability, score)
}

func scoreImpact(m types.DetailedMetrics, lowerText string, achievementVerbs []string) float64 {
	score := m.QuantificationScore * 0.4
	score += m.ActionVerbUsage / 100 * 30

	found := 0
	for _, verb := range achievementVerbs {
		if strings.Contains(lowerText, verb) {
			found++
		}
	}
	score += math.Min(30, float64(5*found))

	return math.Min(MaxImpact, score)
}

func scoreModernization(resume *types.ResumeData, lowerText string, modernTerms []*regexp.Regexp, industry string) float64 {
	termPoints := 0.0
	for _, re := range modernTerms {
		if re.MatchString(lowerText) {
			termPoints += 10
		}
	}
	score := math.Min(30, termPoints)

	if resume != nil {
		p := resume.PersonalInfo
		if present(p.LinkedIn) {
			score += 20
		}
		if present(p.GitHub) && isTechnology(industry) {
			score += 15
		}
		if present(p.Website) {
			score += 10
		}
		if len(resume.Certifications) > 0 {
			score += 15
		}
	}

	return math.Min(MaxModernization, score)
}

// sentenceLengths returns the word count of every sentence in text
func sentenceLengths(text string) []float64 {
	sentences := splitSentences(text)
	lengths := make([]float64, len(sentences))
	for i, s := range sentences {
		lengths[i] = float64(len(strings.Fields(s)))
	}
	return lengths
}

// meanVariance returns the mean and population variance, zero for empty input
func meanVariance(xs []float64) (mean, variance float64) {
	if len(xs) == 0 {
		return 0, 0
	}
	for _, x := range xs {
		mean += x
	}
	mean /= float64(len(xs))
	for _, x := range xs {
		variance += (x - mean) * (x - mean)
	}
	variance /= float64(len(xs))
	return mean, variance
}

func isTechnology(industry string) bool {
	return normalizeKey(industry) == "technology"
}
