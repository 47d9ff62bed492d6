package ats

import (
	"sync/atomic"

	"hireall/internal/types"
)

// Scorer binds the scoring functions to a lexicon. The lexicon can be
// swapped at runtime; each call sees one consistent lexicon.
type Scorer struct {
	lexicon         atomic.Pointer[compiledLexicon]
	suggestionLimit int
}

// Option configures a Scorer
type Option func(*Scorer)

// WithSuggestionLimit caps ResumeScore.Suggestions. Values below 1 are ignored.
func WithSuggestionLimit(n int) Option {
	return func(s *Scorer) {
		if n > 0 {
			s.suggestionLimit = n
		}
	}
}

// NewScorer creates a scorer for lex. A nil lex uses the built-in tables.
func NewScorer(lex *Lexicon, opts ...Option) (*Scorer, error) {
	if lex == nil {
		lex = DefaultLexicon()
	}
	s := &Scorer{suggestionLimit: MaxSuggestions}
	for _, opt := range opts {
		opt(s)
	}
	if err := s.SetLexicon(lex); err != nil {
		return nil, err
	}
	return s, nil
}

// SetLexicon validates and atomically installs a new lexicon
func (s *Scorer) SetLexicon(lex *Lexicon) error {
	compiled, err := compileLexicon(lex)
	if err != nil {
		return err
	}
	s.lexicon.Store(compiled)
	return nil
}

// Lexicon returns a copy of the active tables
func (s *Scorer) Lexicon() *Lexicon {
	return s.lexicon.Load().source.Clone()
}

// CalculateEnhancedATSScore runs the full pipeline and returns the flattened score
func (s *Scorer) CalculateEnhancedATSScore(resume *types.ResumeData, opts types.ScoreOptions) *types.ResumeScore {
	return s.lexicon.Load().assess(resume, opts).resumeScore(s.suggestionLimit)
}

// Evaluate runs the full pipeline and returns every intermediate result,
// including matched and missing keywords
func (s *Scorer) Evaluate(resume *types.ResumeData, opts types.ScoreOptions) *types.EnhancedATSEvaluation {
	return s.lexicon.Load().assess(resume, opts).evaluation()
}

// CalculateResumeScore runs the basic scorer
func (s *Scorer) CalculateResumeScore(resume *types.ResumeData, opts types.ScoreOptions) *types.BasicResumeScore {
	return s.lexicon.Load().basic(resume, opts)
}

// CalculateDetailedMetrics returns only the raw features of a resume
func (s *Scorer) CalculateDetailedMetrics(resume *types.ResumeData, opts types.ScoreOptions) types.DetailedMetrics {
	text := ExtractFullText(resume)
	return s.lexicon.Load().detailedMetrics(resume, text, Tokenize(text), opts.Industry)
}

// AnalyzeKeywords matches the industry and role keywords against the resume text
func (s *Scorer) AnalyzeKeywords(resume *types.ResumeData, opts types.ScoreOptions) KeywordAnalysis {
	return s.lexicon.Load().analyzeKeywords(ExtractFullText(resume), opts)
}

var defaultScorer = mustNewScorer()

func mustNewScorer() *Scorer {
	s, err := NewScorer(DefaultLexicon())
	if err != nil {
		panic("ats: built-in lexicon is invalid: " + err.Error())
	}
	return s
}

// Default returns the package scorer backed by the built-in lexicon
func Default() *Scorer {
	return defaultScorer
}

// CalculateEnhancedATSScore scores resume with the built-in lexicon
func CalculateEnhancedATSScore(resume *types.ResumeData, opts types.ScoreOptions) *types.ResumeScore {
	return defaultScorer.CalculateEnhancedATSScore(resume, opts)
}

// Evaluate evaluates resume with the built-in lexicon
func Evaluate(resume *types.ResumeData, opts types.ScoreOptions) *types.EnhancedATSEvaluation {
	return defaultScorer.Evaluate(resume, opts)
}

// CalculateResumeScore runs the basic scorer with the built-in lexicon
func CalculateResumeScore(resume *types.ResumeData, opts types.ScoreOptions) *types.BasicResumeScore {
	return defaultScorer.CalculateResumeScore(resume, opts)
}
