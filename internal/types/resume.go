package types

// PersonalInfo holds contact details and the professional summary
type PersonalInfo struct {
	FullName string `json:"fullName,omitempty" yaml:"fullName,omitempty"`
	Email    string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone    string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location string `json:"location,omitempty" yaml:"location,omitempty"`
	LinkedIn string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty" yaml:"github,omitempty"`
	Website  string `json:"website,omitempty" yaml:"website,omitempty"`
	Summary  string `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// Experience is a single position held
type Experience struct {
	Company      string   `json:"company,omitempty" yaml:"company,omitempty"`
	Position     string   `json:"position,omitempty" yaml:"position,omitempty"`
	Location     string   `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate    string   `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate      string   `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Current      bool     `json:"current,omitempty" yaml:"current,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Achievements []string `json:"achievements,omitempty" yaml:"achievements,omitempty"`
}

// Education is a single degree or programme
type Education struct {
	Institution    string `json:"institution,omitempty" yaml:"institution,omitempty"`
	Degree         string `json:"degree,omitempty" yaml:"degree,omitempty"`
	Field          string `json:"field,omitempty" yaml:"field,omitempty"`
	GraduationDate string `json:"graduationDate,omitempty" yaml:"graduationDate,omitempty"`
	GPA            string `json:"gpa,omitempty" yaml:"gpa,omitempty"`
	Honors         string `json:"honors,omitempty" yaml:"honors,omitempty"`
}

// SkillGroup is a named list of skills, e.g. "Languages": [Go, Python]
type SkillGroup struct {
	Category string   `json:"category,omitempty" yaml:"category,omitempty"`
	Skills   []string `json:"skills,omitempty" yaml:"skills,omitempty"`
}

// Project is a personal or professional project
type Project struct {
	Name         string   `json:"name,omitempty" yaml:"name,omitempty"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Technologies []string `json:"technologies,omitempty" yaml:"technologies,omitempty"`
	Link         string   `json:"link,omitempty" yaml:"link,omitempty"`
	GitHub       string   `json:"github,omitempty" yaml:"github,omitempty"`
}

// Certification is a professional certification
type Certification struct {
	Name         string `json:"name,omitempty" yaml:"name,omitempty"`
	Issuer       string `json:"issuer,omitempty" yaml:"issuer,omitempty"`
	Date         string `json:"date,omitempty" yaml:"date,omitempty"`
	CredentialID string `json:"credentialId,omitempty" yaml:"credentialId,omitempty"`
}

// Language is a spoken language and proficiency level
type Language struct {
	Language    string `json:"language,omitempty" yaml:"language,omitempty"`
	Proficiency string `json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
}

// ResumeData is the structured resume consumed by the scorers.
// Nil slices are treated as empty; scoring never writes to it.
type ResumeData struct {
	PersonalInfo   PersonalInfo    `json:"personalInfo" yaml:"personalInfo"`
	Experience     []Experience    `json:"experience" yaml:"experience"`
	Education      []Education     `json:"education" yaml:"education"`
	Skills         []SkillGroup    `json:"skills" yaml:"skills"`
	Projects       []Project       `json:"projects" yaml:"projects"`
	Certifications []Certification `json:"certifications" yaml:"certifications"`
	Languages      []Language      `json:"languages" yaml:"languages"`
}

// ScoreOptions tunes keyword targeting. Both fields are free-form and
// matched case-insensitively; unknown values score neutrally.
type ScoreOptions struct {
	TargetRole string `json:"targetRole,omitempty" yaml:"targetRole,omitempty" validate:"omitempty,max=120"`
	Industry   string `json:"industry,omitempty" yaml:"industry,omitempty" validate:"omitempty,max=60"`
}
