package types

// CoachReviewInput represents the input for an AI resume review
type CoachReviewInput struct {
	ResumeText string       `json:"resumeText"`
	TargetRole string       `json:"targetRole,omitempty"`
	Industry   string       `json:"industry,omitempty"`
	Score      *ResumeScore `json:"score"`
}

// BulletRewrite is a suggested replacement for a weak resume line
type BulletRewrite struct {
	Original string `json:"original" yaml:"original"`
	Improved string `json:"improved" yaml:"improved"`
	Reason   string `json:"reason" yaml:"reason"`
}

// CoachReviewOutput represents the AI coach's narrative review
type CoachReviewOutput struct {
	Summary          string          `json:"summary" yaml:"summary"`
	RewrittenSummary string          `json:"rewrittenSummary" yaml:"rewrittenSummary"`
	BulletRewrites   []BulletRewrite `json:"bulletRewrites" yaml:"bulletRewrites"`
	PriorityActions  []string        `json:"priorityActions" yaml:"priorityActions"`
}

// CoachReport pairs the deterministic score with the AI review
type CoachReport struct {
	Score  *ResumeScore       `json:"score" yaml:"score"`
	Review *CoachReviewOutput `json:"review" yaml:"review"`
}
