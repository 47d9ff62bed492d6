package ats

import (
	"fmt"
	"os"
	"regexp"
	"slices"
	"strings"

	"hireall/internal/errors"

	"gopkg.in/yaml.v3"
)

// KeywordCategory is a named group of lookup words
type KeywordCategory struct {
	Name     string   `yaml:"name" json:"name"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// RoleKeywords maps a role name fragment to the keywords recruiters expect for it
type RoleKeywords struct {
	Role     string   `yaml:"role" json:"role"`
	Keywords []string `yaml:"keywords" json:"keywords"`
}

// Lexicon holds every lookup table the scorers use. Tables are data so
// they can be replaced from a YAML file without touching scoring logic.
type Lexicon struct {
	ActionVerbs          []KeywordCategory            `yaml:"actionVerbs" json:"actionVerbs"`
	AchievementVerbs     []string                     `yaml:"achievementVerbs" json:"achievementVerbs"`
	ProfessionalLanguage []string                     `yaml:"professionalLanguage" json:"professionalLanguage"`
	TechnicalTerms       []KeywordCategory            `yaml:"technicalTerms" json:"technicalTerms"`
	ModernTerms          []string                     `yaml:"modernTerms" json:"modernTerms"`
	SoftSkills           []string                     `yaml:"softSkills" json:"softSkills"`
	Industries           map[string][]KeywordCategory `yaml:"industries" json:"industries"`
	Roles                []RoleKeywords               `yaml:"roles" json:"roles"`
}

// DefaultLexicon returns a fresh copy of the built-in tables
func DefaultLexicon() *Lexicon {
	return &Lexicon{
		ActionVerbs: []KeywordCategory{
			{Name: "leadership", Keywords: []string{"led", "managed", "directed", "supervised", "coordinated", "mentored", "spearheaded", "oversaw"}},
			{Name: "achievement", Keywords: []string{"achieved", "improved", "increased", "reduced", "exceeded", "delivered", "accelerated", "boosted"}},
			{Name: "creation", Keywords: []string{"created", "designed", "developed", "built", "launched", "implemented", "established", "founded"}},
			{Name: "analysis", Keywords: []string{"analyzed", "evaluated", "researched", "assessed", "identified", "investigated", "measured", "audited"}},
			{Name: "communication", Keywords: []string{"presented", "negotiated", "collaborated", "authored", "communicated", "trained", "persuaded", "facilitated"}},
			{Name: "technical", Keywords: []string{"engineered", "automated", "optimized", "programmed", "deployed", "configured", "migrated", "architected"}},
		},
		AchievementVerbs: []string{"increased", "decreased", "improved", "reduced", "achieved", "exceeded"},
		ProfessionalLanguage: []string{
			"strategic", "innovative", "results-driven", "collaborative", "analytical", "proactive",
			"detail-oriented", "dynamic", "accomplished", "dedicated", "versatile", "efficient",
		},
		TechnicalTerms: []KeywordCategory{
			{Name: "programming", Keywords: []string{"javascript", "typescript", "python", "java", "golang", "rust", "sql", "html", "css", "c++", "c#"}},
			{Name: "frameworks", Keywords: []string{"react", "angular", "vue", "django", "flask", "spring", "express", "node.js", "next.js"}},
			{Name: "tools", Keywords: []string{"git", "docker", "kubernetes", "jenkins", "terraform", "aws", "azure", "gcp", "linux", "postgresql"}},
		},
		ModernTerms: []string{"cloud", "ai", "machine learning", "blockchain", "devops", "microservices", "serverless"},
		SoftSkills: []string{
			"communication", "leadership", "teamwork", "problem-solving", "adaptability",
			"creativity", "collaboration", "mentoring", "negotiation", "organization",
		},
		Industries: map[string][]KeywordCategory{
			"technology": {
				{Name: "languages", Keywords: []string{"javascript", "typescript", "python", "java", "sql"}},
				{Name: "frameworks", Keywords: []string{"react", "node.js", "django", "spring"}},
				{Name: "infrastructure", Keywords: []string{"aws", "azure", "docker", "kubernetes", "microservices"}},
				{Name: "practices", Keywords: []string{"agile", "scrum", "ci/cd", "devops"}},
			},
			"finance": {
				{Name: "core", Keywords: []string{"accounting", "financial", "budget", "forecasting", "audit"}},
				{Name: "markets", Keywords: []string{"investment", "portfolio", "valuation", "equity", "derivatives"}},
				{Name: "governance", Keywords: []string{"compliance", "gaap", "ifrs", "reconciliation"}},
			},
			"marketing": {
				{Name: "digital", Keywords: []string{"seo", "sem", "ppc", "analytics", "conversion"}},
				{Name: "brand", Keywords: []string{"brand", "campaign", "positioning", "storytelling"}},
				{Name: "growth", Keywords: []string{"engagement", "retention", "crm", "hubspot", "segmentation"}},
			},
			"healthcare": {
				{Name: "clinical", Keywords: []string{"patient", "clinical", "diagnosis", "treatment"}},
				{Name: "regulatory", Keywords: []string{"hipaa", "ehr", "emr", "accreditation"}},
			},
		},
		Roles: []RoleKeywords{
			{Role: "software engineer", Keywords: []string{"javascript", "react", "node.js", "python", "api", "git", "agile"}},
			{Role: "data scientist", Keywords: []string{"python", "sql", "machine learning", "statistics", "pandas", "tensorflow"}},
			{Role: "product manager", Keywords: []string{"roadmap", "stakeholder", "agile", "user research", "analytics", "prioritization"}},
			{Role: "marketing manager", Keywords: []string{"seo", "campaign", "brand", "analytics", "content strategy", "roi"}},
			{Role: "financial analyst", Keywords: []string{"financial modeling", "excel", "forecasting", "valuation", "budget", "variance analysis"}},
		},
	}
}

// Clone returns a deep copy so callers can edit tables safely
func (l *Lexicon) Clone() *Lexicon {
	out := &Lexicon{
		ActionVerbs:          cloneCategories(l.ActionVerbs),
		AchievementVerbs:     slices.Clone(l.AchievementVerbs),
		ProfessionalLanguage: slices.Clone(l.ProfessionalLanguage),
		TechnicalTerms:       cloneCategories(l.TechnicalTerms),
		ModernTerms:          slices.Clone(l.ModernTerms),
		SoftSkills:           slices.Clone(l.SoftSkills),
		Industries:           make(map[string][]KeywordCategory, len(l.Industries)),
		Roles:                make([]RoleKeywords, len(l.Roles)),
	}
	for name, cats := range l.Industries {
		out.Industries[name] = cloneCategories(cats)
	}
	for i, r := range l.Roles {
		out.Roles[i] = RoleKeywords{Role: r.Role, Keywords: slices.Clone(r.Keywords)}
	}
	return out
}

func cloneCategories(in []KeywordCategory) []KeywordCategory {
	out := make([]KeywordCategory, len(in))
	for i, c := range in {
		out[i] = KeywordCategory{Name: c.Name, Keywords: slices.Clone(c.Keywords)}
	}
	return out
}

// Validate checks that every table the scorers depend on is populated
func (l *Lexicon) Validate() error {
	var problems []string

	if len(flatten(l.ActionVerbs)) == 0 {
		problems = append(problems, "actionVerbs must contain at least one verb")
	}
	if len(l.AchievementVerbs) == 0 {
		problems = append(problems, "achievementVerbs must not be empty")
	}
	if len(l.ProfessionalLanguage) == 0 {
		problems = append(problems, "professionalLanguage must not be empty")
	}
	if len(flatten(l.TechnicalTerms)) == 0 {
		problems = append(problems, "technicalTerms must contain at least one term")
	}
	for name, cats := range l.Industries {
		if strings.TrimSpace(name) == "" {
			problems = append(problems, "industry names must not be empty")
			continue
		}
		if len(flatten(cats)) == 0 {
			problems = append(problems, fmt.Sprintf("industry %q has no keywords", name))
		}
	}
	for i, r := range l.Roles {
		if strings.TrimSpace(r.Role) == "" {
			problems = append(problems, fmt.Sprintf("roles[%d] has an empty role name", i))
		}
	}

	if len(problems) > 0 {
		return errors.NewValidationError(errors.ErrCodeLexiconInvalid,
			"lexicon is invalid: "+strings.Join(problems, "; "), nil).
			WithContext("problems", problems)
	}
	return nil
}

// LoadLexiconFile reads a YAML override on top of the defaults. Tables
// present in the file replace the built-in ones; industries are merged by name.
func LoadLexiconFile(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable,
			"failed to read lexicon file", err).WithContext("file", path)
	}
	return ParseLexicon(data)
}

// ParseLexicon decodes YAML lexicon overrides
func ParseLexicon(data []byte) (*Lexicon, error) {
	lex := DefaultLexicon()
	if err := yaml.Unmarshal(data, lex); err != nil {
		return nil, errors.NewDocumentError(errors.ErrCodeLexiconInvalid,
			"failed to decode lexicon YAML", err)
	}
	if err := lex.Validate(); err != nil {
		return nil, err
	}
	return lex, nil
}

// YAML renders the lexicon in the same shape LoadLexiconFile accepts
func (l *Lexicon) YAML() ([]byte, error) {
	return yaml.Marshal(l)
}

// IndustryNames returns the known industries in sorted order
func (l *Lexicon) IndustryNames() []string {
	names := make([]string, 0, len(l.Industries))
	for name := range l.Industries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// compiledLexicon is the lookup-ready form of a Lexicon
type compiledLexicon struct {
	source *Lexicon

	actionVerbs  map[string]struct{}
	professional map[string]struct{}
	technical    map[string]struct{}
	softSkills   map[string]struct{}

	achievementVerbs []string
	modernTerms      []*regexp.Regexp
	industries       map[string][]string
	roles            []RoleKeywords
}

func compileLexicon(l *Lexicon) (*compiledLexicon, error) {
	if l == nil {
		return nil, errors.NewValidationError(errors.ErrCodeLexiconInvalid, "lexicon is nil", nil)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}

	c := &compiledLexicon{
		source:           l.Clone(),
		actionVerbs:      toSet(flatten(l.ActionVerbs)),
		professional:     toSet(l.ProfessionalLanguage),
		technical:        toSet(flatten(l.TechnicalTerms)),
		softSkills:       toSet(l.SoftSkills),
		achievementVerbs: lowerAll(l.AchievementVerbs),
		industries:       make(map[string][]string, len(l.Industries)),
	}

	// Whole-word match, so "ai" does not hit "maintained"
	for _, term := range lowerAll(l.ModernTerms) {
		re, err := regexp.Compile(`\b` + regexp.QuoteMeta(term) + `\b`)
		if err != nil {
			return nil, errors.NewValidationError(errors.ErrCodeLexiconInvalid,
				"invalid modern term", err).WithContext("term", term)
		}
		c.modernTerms = append(c.modernTerms, re)
	}

	for name, cats := range l.Industries {
		c.industries[normalizeKey(name)] = flatten(cats)
	}
	for _, r := range l.Roles {
		c.roles = append(c.roles, RoleKeywords{Role: normalizeKey(r.Role), Keywords: lowerAll(r.Keywords)})
	}

	return c, nil
}

// industryKeywords returns the flattened keyword list, empty for unknown industries
func (c *compiledLexicon) industryKeywords(industry string) []string {
	return c.industries[normalizeKey(industry)]
}

// roleKeywords returns the keywords of the first role contained in targetRole
func (c *compiledLexicon) roleKeywords(targetRole string) []string {
	role := normalizeKey(targetRole)
	if role == "" {
		return nil
	}
	for _, r := range c.roles {
		if strings.Contains(role, r.Role) {
			return r.Keywords
		}
	}
	return nil
}

// flatten merges categories into one lowercase list, deduplicated, order kept
func flatten(cats []KeywordCategory) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, cat := range cats {
		for _, kw := range cat.Keywords {
			kw = strings.ToLower(strings.TrimSpace(kw))
			if kw == "" {
				continue
			}
			if _, dup := seen[kw]; dup {
				continue
			}
			seen[kw] = struct{}{}
			out = append(out, kw)
		}
	}
	return out
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range lowerAll(words) {
		set[w] = struct{}{}
	}
	return set
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

func normalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
