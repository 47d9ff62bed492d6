package ai

import (
	"encoding/json"
	"strings"

	"hireall/internal/types"
)

// Placeholders substituted into user prompt templates
const (
	PlaceholderResume     = "{resume}"
	PlaceholderScore      = "{score}"
	PlaceholderTargetRole = "{targetRole}"
	PlaceholderIndustry   = "{industry}"
)

// DefaultCoachSystemPrompt is used when no custom system prompt is configured
const DefaultCoachSystemPrompt = `You are a senior career coach and recruiter who reviews resumes for applicant tracking systems. Your principles:

- Work only from facts present in the resume. Never invent employers, titles, dates, skills or numbers.
- When a rewrite would benefit from a metric the resume does not contain, use a bracketed placeholder such as [X%] for the candidate to fill in.
- Be direct and specific. Prefer concrete edits over general advice.
- The deterministic ATS score you receive is authoritative; explain it, do not re-score.`

// DefaultCoachUserPrompt is the default user prompt template
const DefaultCoachUserPrompt = `Review the resume below for the target role "{targetRole}" in the "{industry}" industry.

**Deterministic ATS score (JSON):**
{score}

**Tasks:**

1. **Summary**: In 3 to 5 sentences, explain what holds this resume back, referring to the weakest breakdown categories and the critical issues.
2. **Rewritten summary**: Write an improved professional summary (2 to 4 sentences) using only facts from the resume.
3. **Bullet rewrites**: Pick up to 5 of the weakest experience lines and rewrite each with a strong action verb and a quantified outcome. Give the original line, the improved line and a one-sentence reason.
4. **Priority actions**: List up to 5 concrete actions ordered by expected score impact.

**Resume:**
{resume}`

// BuildCoachPrompt fills a user prompt template with the review input
func BuildCoachPrompt(template string, input types.CoachReviewInput) string {
	role := input.TargetRole
	if role == "" {
		role = "not specified"
	}
	industry := input.Industry
	if industry == "" {
		industry = "not specified"
	}

	return strings.NewReplacer(
		PlaceholderResume, input.ResumeText,
		PlaceholderScore, scoreJSON(input.Score),
		PlaceholderTargetRole, role,
		PlaceholderIndustry, industry,
	).Replace(template)
}

// scoreJSON trims the score to what the model needs
func scoreJSON(score *types.ResumeScore) string {
	if score == nil {
		return "{}"
	}
	compact := struct {
		Overall        int                  `json:"overall"`
		ATS            float64              `json:"ats"`
		Breakdown      types.ScoreBreakdown `json:"breakdown"`
		CriticalIssues []string             `json:"criticalIssues"`
		Suggestions    []string             `json:"suggestions"`
	}{score.Overall, score.ATS, score.Breakdown, score.CriticalIssues, score.Suggestions}

	out, err := json.Marshal(compact)
	if err != nil {
		return "{}"
	}
	return string(out)
}

// resolvePrompt returns the configured prompt or the built-in default.
// Prompt files are already folded into the configured value by the config loader.
func resolvePrompt(fromConfig, fromDefault string) string {
	if strings.TrimSpace(fromConfig) != "" {
		return fromConfig
	}
	return fromDefault
}
