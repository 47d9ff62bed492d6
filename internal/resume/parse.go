// Package resume decodes resume documents (JSON or YAML) into ResumeData
// and optionally validates them against the embedded JSON schema.
package resume

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"hireall/internal/errors"
	"hireall/internal/types"

	"gopkg.in/yaml.v3"
)

// Format is a resume document encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Options controls decoding
type Options struct {
	// Strict validates the document against the resume schema before decoding
	Strict bool
}

// SupportedExtensions lists the file extensions FormatFromPath accepts
var SupportedExtensions = []string{".json", ".yaml", ".yml"}

// FormatFromPath picks the decoder from a file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", errors.NewValidationError(errors.ErrCodeUnsupportedResume,
			"resume files must be .json, .yaml or .yml", nil).WithContext("file", path)
	}
}

// Parse decodes a resume document
func Parse(data []byte, format Format, opts Options) (*types.ResumeData, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.NewDocumentError(errors.ErrCodeInvalidResume, "resume document is empty", nil)
	}

	if opts.Strict {
		doc, err := decodeGeneric(data, format)
		if err != nil {
			return nil, err
		}
		if err := ValidateDocument(doc); err != nil {
			return nil, err
		}
	}

	var resume types.ResumeData
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &resume)
	case FormatYAML:
		err = yaml.Unmarshal(data, &resume)
	default:
		return nil, errors.NewValidationError(errors.ErrCodeUnsupportedResume,
			"unsupported resume format", nil).WithContext("format", string(format))
	}
	if err != nil {
		return nil, errors.NewDocumentError(errors.ErrCodeInvalidResume,
			"failed to decode "+string(format)+" resume", err)
	}

	return &resume, nil
}

func decodeGeneric(data []byte, format Format) (any, error) {
	var doc any
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	default:
		return nil, errors.NewValidationError(errors.ErrCodeUnsupportedResume,
			"unsupported resume format", nil).WithContext("format", string(format))
	}
	if err != nil {
		return nil, errors.NewDocumentError(errors.ErrCodeInvalidResume,
			"failed to decode "+string(format)+" resume", err)
	}
	return doc, nil
}
