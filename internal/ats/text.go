package ats

import (
	"regexp"
	"strings"

	"hireall/internal/types"
)

var (
	tokenPattern    = regexp.MustCompile(`[\w\-+#.@]+`)
	sentencePattern = regexp.MustCompile(`[.!?]+`)
)

// ExtractFullText flattens a resume into one space-joined string. Section
// order is fixed (personal info, experience, education, skills, projects)
// because sentence boundaries for readability come from this text.
func ExtractFullText(resume *types.ResumeData) string {
	if resume == nil {
		return ""
	}

	var parts []string
	add := func(values ...string) {
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				parts = append(parts, v)
			}
		}
	}

	p := resume.PersonalInfo
	add(p.FullName, p.Email, p.Phone, p.Location, p.LinkedIn, p.GitHub, p.Website, p.Summary)

	for _, exp := range resume.Experience {
		add(exp.Position, exp.Company, exp.Description)
		add(exp.Achievements...)
	}
	for _, edu := range resume.Education {
		add(edu.Degree, edu.Field, edu.Institution)
	}
	for _, group := range resume.Skills {
		add(group.Skills...)
	}
	for _, proj := range resume.Projects {
		add(proj.Name, proj.Description)
		add(proj.Technologies...)
	}

	return strings.Join(parts, " ")
}

// Tokenize lowercases text and keeps runs of word characters plus - + # . @
func Tokenize(text string) []string {
	return tokenPattern.FindAllString(strings.ToLower(text), -1)
}

// splitSentences splits on runs of . ! ? and drops blank fragments
func splitSentences(text string) []string {
	var sentences []string
	for _, s := range sentencePattern.Split(text, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
