package ats

import (
	"math"
	"regexp"
	"strings"

	"hireall/internal/types"
)

var quantificationPattern = regexp.MustCompile(`(?i)\d+%|\$\d+|\d+\s*(customers|users|projects|revenue|growth|roi)`)

// quantifiedTargetMatches is the number of quantified statements that earns a full quantification score
const quantifiedTargetMatches = 5

// detailedMetrics computes the eight raw features. Every ratio guards its denominator.
func (c *compiledLexicon) detailedMetrics(resume *types.ResumeData, text string, tokens []string, industry string) types.DetailedMetrics {
	wordCount := len(tokens)
	industryKeywords := c.industryKeywords(industry)

	keywordTokens := countTokensContaining(tokens, industryKeywords)

	m := types.DetailedMetrics{
		WordCount:            wordCount,
		KeywordDensity:       ratio(keywordTokens, wordCount) * 100,
		ActionVerbUsage:      ratio(countInSet(tokens, c.actionVerbs), len(splitSentences(text))) * 100,
		QuantificationScore:  math.Min(100, float64(countQuantified(text))/quantifiedTargetMatches*100),
		SectionCompleteness:  float64(completedSections(resume)) / 4 * 100,
		ProfessionalLanguage: ratio(countInSet(tokens, c.professional), wordCount) * 1000,
		TechnicalTerms:       ratio(countInSet(tokens, c.technical), wordCount) * 1000,
	}

	m.IndustryAlignment = 50
	if present(industry) {
		m.IndustryAlignment = math.Min(100, ratio(keywordTokens, len(industryKeywords))*100)
	}

	return m
}

// completedSections counts name+email, experience, education and skills
func completedSections(resume *types.ResumeData) int {
	if resume == nil {
		return 0
	}
	n := 0
	if present(resume.PersonalInfo.FullName) && present(resume.PersonalInfo.Email) {
		n++
	}
	if len(resume.Experience) > 0 {
		n++
	}
	if len(resume.Education) > 0 {
		n++
	}
	if len(resume.Skills) > 0 {
		n++
	}
	return n
}

func countQuantified(text string) int {
	return len(quantificationPattern.FindAllStringIndex(text, -1))
}

func countInSet(tokens []string, set map[string]struct{}) int {
	n := 0
	for _, tok := range tokens {
		if _, ok := set[tok]; ok {
			n++
		}
	}
	return n
}

// countTokensContaining counts tokens that contain any keyword as a substring
func countTokensContaining(tokens, keywords []string) int {
	if len(keywords) == 0 {
		return 0
	}
	n := 0
	for _, tok := range tokens {
		for _, kw := range keywords {
			if strings.Contains(tok, kw) {
				n++
				break
			}
		}
	}
	return n
}

func ratio(num, den int) float64 {
	if den <= 0 {
		return 0
	}
	return float64(num) / float64(den)
}

func present(s string) bool {
	return strings.TrimSpace(s) != ""
}
