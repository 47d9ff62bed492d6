package formatters

import (
	"encoding/json"
	"fmt"
	"slices"

	"hireall/internal/types"

	"gopkg.in/yaml.v3"
)

// Formatter interface for different output formats
type Formatter interface {
	Format(data any) (string, error)
	SupportedType() string
}

// FormatterRegistry manages all available formatters
type FormatterRegistry struct {
	formatters map[string]map[string]Formatter // format -> type -> formatter
}

const (
	typeAny          = "any"
	typeResumeScore  = "ResumeScore"
	typeEvaluation   = "EnhancedATSEvaluation"
	typeBasicScore   = "BasicResumeScore"
	typeBatchReport  = "BatchReport"
	typeCoachReport  = "CoachReport"
	typeCoachReview  = "CoachReviewOutput"
	formatJSON       = "json"
	formatYAML       = "yaml"
	formatText       = "text"
	formatMarkdown   = "markdown"
	scoreBarSegments = 20
)

// GlobalRegistry is the shared registry used by the CLI and HTTP handlers
var GlobalRegistry = NewFormatterRegistry()

// NewFormatterRegistry creates a new formatter registry with default formatters
func NewFormatterRegistry() *FormatterRegistry {
	registry := &FormatterRegistry{
		formatters: make(map[string]map[string]Formatter),
	}

	registry.RegisterFormatter(formatJSON, typeAny, &JSONFormatter{})
	registry.RegisterFormatter(formatYAML, typeAny, &YAMLFormatter{})

	registry.RegisterFormatter(formatText, typeResumeScore, &ScoreTextFormatter{})
	registry.RegisterFormatter(formatMarkdown, typeResumeScore, &ScoreMarkdownFormatter{})
	registry.RegisterFormatter(formatText, typeEvaluation, &EvaluationTextFormatter{})
	registry.RegisterFormatter(formatMarkdown, typeEvaluation, &EvaluationMarkdownFormatter{})
	registry.RegisterFormatter(formatText, typeBasicScore, &BasicTextFormatter{})
	registry.RegisterFormatter(formatMarkdown, typeBasicScore, &BasicMarkdownFormatter{})
	registry.RegisterFormatter(formatText, typeBatchReport, &BatchTextFormatter{})
	registry.RegisterFormatter(formatMarkdown, typeBatchReport, &BatchMarkdownFormatter{})
	registry.RegisterFormatter(formatText, typeCoachReport, &CoachTextFormatter{})
	registry.RegisterFormatter(formatMarkdown, typeCoachReport, &CoachMarkdownFormatter{})
	registry.RegisterFormatter(formatText, typeCoachReview, &CoachTextFormatter{})
	registry.RegisterFormatter(formatMarkdown, typeCoachReview, &CoachMarkdownFormatter{})

	return registry
}

// RegisterFormatter registers a new formatter for a specific format and data type
func (fr *FormatterRegistry) RegisterFormatter(format, dataType string, formatter Formatter) {
	if fr.formatters[format] == nil {
		fr.formatters[format] = make(map[string]Formatter)
	}
	fr.formatters[format][dataType] = formatter
}

// Format formats data using the most specific formatter registered for it
func (fr *FormatterRegistry) Format(data any, format string) (string, error) {
	data = deref(data)
	dataType := getDataType(data)

	if formatters, exists := fr.formatters[format]; exists {
		if formatter, exists := formatters[dataType]; exists {
			return formatter.Format(data)
		}
		if formatter, exists := formatters[typeAny]; exists {
			return formatter.Format(data)
		}
	}

	return "", fmt.Errorf("no formatter found for format '%s' and type '%s'", format, dataType)
}

// GetSupportedFormats returns all supported formats in sorted order
func (fr *FormatterRegistry) GetSupportedFormats() []string {
	formats := make([]string, 0, len(fr.formatters))
	for format := range fr.formatters {
		formats = append(formats, format)
	}
	slices.Sort(formats)
	return formats
}

func deref(data any) any {
	switch v := data.(type) {
	case *types.ResumeScore:
		if v != nil {
			return *v
		}
	case *types.EnhancedATSEvaluation:
		if v != nil {
			return *v
		}
	case *types.BasicResumeScore:
		if v != nil {
			return *v
		}
	case *types.BatchReport:
		if v != nil {
			return *v
		}
	case *types.CoachReport:
		if v != nil {
			return *v
		}
	case *types.CoachReviewOutput:
		if v != nil {
			return *v
		}
	}
	return data
}

func getDataType(data any) string {
	switch data.(type) {
	case types.ResumeScore:
		return typeResumeScore
	case types.EnhancedATSEvaluation:
		return typeEvaluation
	case types.BasicResumeScore:
		return typeBasicScore
	case types.BatchReport:
		return typeBatchReport
	case types.CoachReport:
		return typeCoachReport
	case types.CoachReviewOutput:
		return typeCoachReview
	default:
		return typeAny
	}
}

// JSONFormatter handles JSON formatting for any data type
type JSONFormatter struct{}

func (jf *JSONFormatter) Format(data any) (string, error) {
	jsonData, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", err
	}
	return string(jsonData), nil
}

func (jf *JSONFormatter) SupportedType() string {
	return typeAny
}

// YAMLFormatter handles YAML formatting for any data type
type YAMLFormatter struct{}

func (yf *YAMLFormatter) Format(data any) (string, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func (yf *YAMLFormatter) SupportedType() string {
	return typeAny
}
