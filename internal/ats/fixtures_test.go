package ats

import (
	"strings"

	"hireall/internal/types"
)

func emptyResume() *types.ResumeData {
	return &types.ResumeData{
		Experience:     []types.Experience{},
		Education:      []types.Education{},
		Skills:         []types.SkillGroup{},
		Projects:       []types.Project{},
		Certifications: []types.Certification{},
		Languages:      []types.Language{},
	}
}

func fullResume() *types.ResumeData {
	return &types.ResumeData{
		PersonalInfo: types.PersonalInfo{
			FullName: "Jane Doe",
			Email:    "jane.doe@example.com",
			Phone:    "+1 555 0100",
			Location: "Berlin",
			LinkedIn: "linkedin.com/in/janedoe",
			GitHub:   "github.com/janedoe",
			Website:  "janedoe.dev",
			Summary: "Results-driven software engineer with 8 years building cloud services. " +
				"Led teams that improved reliability and reduced costs.",
		},
		Experience: []types.Experience{
			{
				Company:     "Acme Corp",
				Position:    "Senior Software Engineer",
				StartDate:   "2020-01",
				Current:     true,
				Description: "Developed microservices in Python and Java on AWS with Docker and Kubernetes.",
				Achievements: []string{
					"Increased API throughput by 40% for 2 million users.",
					"Reduced infrastructure spend by $120000 per year.",
					"Mentored 6 engineers and introduced agile planning.",
				},
			},
			{
				Company:     "Startly",
				Position:    "Software Engineer",
				StartDate:   "2016-06",
				EndDate:     "2019-12",
				Description: "Built React and Node.js features for a strategic analytics product.",
				Achievements: []string{
					"Launched self-serve onboarding that grew revenue 25%.",
					"Automated CI/CD pipelines with Git and Jenkins.",
				},
			},
		},
		Education: []types.Education{
			{Institution: "TU Berlin", Degree: "BSc", Field: "Computer Science", GraduationDate: "2016"},
		},
		Skills: []types.SkillGroup{
			{Category: "Languages", Skills: []string{"Python", "JavaScript", "TypeScript", "SQL"}},
			{Category: "Platforms", Skills: []string{"AWS", "Docker", "Kubernetes"}},
		},
		Projects: []types.Project{
			{Name: "tracewell", Description: "Open source tracing dashboard", Technologies: []string{"Golang", "PostgreSQL"}},
		},
		Certifications: []types.Certification{
			{Name: "AWS Solutions Architect", Issuer: "Amazon", Date: "2022"},
		},
		Languages: []types.Language{{Language: "German", Proficiency: "fluent"}},
	}
}

// filler returns n space-separated words that are not keywords, verbs or technical terms
func filler(n int) string {
	words := []string{"team", "office", "daily", "notes", "meeting"}
	out := make([]string, n)
	for i := range out {
		out[i] = words[i%len(words)]
	}
	return strings.Join(out, " ")
}

// sentence returns a sentence of n filler words terminated by a period
func sentence(n int) string {
	return filler(n) + "."
}

func withSummary(summary string) *types.ResumeData {
	r := emptyResume()
	r.PersonalInfo.Summary = summary
	return r
}
