package errors

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppErrorMessage(t *testing.T) {
	cause := io.ErrUnexpectedEOF
	err := NewDocumentError(ErrCodeInvalidResume, "cannot decode resume", cause)

	assert.Equal(t, "INVALID_RESUME: cannot decode resume (caused by: unexpected EOF)", err.Error())
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.Equal(t, ErrorTypeDocument, err.Type)

	plain := NewValidationError(ErrCodeInvalidRequest, "missing resume", nil)
	assert.Equal(t, "INVALID_REQUEST: missing resume", plain.Error())
}

func TestAsAppErrorThroughWrapping(t *testing.T) {
	inner := NewIOError(ErrCodeFileNotFound, "resume.json not found", nil).
		WithContext("file", "resume.json")
	wrapped := fmt.Errorf("batch entry 3: %w", inner)

	appErr, ok := AsAppError(wrapped)
	require.True(t, ok)
	assert.Equal(t, ErrCodeFileNotFound, appErr.Code)
	assert.Equal(t, "resume.json", appErr.Context["file"])

	assert.True(t, IsType(wrapped, ErrorTypeIO))
	assert.False(t, IsType(wrapped, ErrorTypeAI))

	_, ok = AsAppError(stderrors.New("plain"))
	assert.False(t, ok)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"verbose", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLogErrorUnpacksAppError(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter(&buf, slog.LevelDebug)

	err := NewValidationError(ErrCodeSchemaViolation, "resume failed schema", nil).
		WithContext("field", "personalInfo.email")
	logger.LogError(err, "Scoring rejected", "file", "cv.yaml")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "Scoring rejected", entry["msg"])
	assert.Equal(t, "validation", entry["error_type"])
	assert.Equal(t, ErrCodeSchemaViolation, entry["error_code"])
	assert.Equal(t, "personalInfo.email", entry["field"])
	assert.Equal(t, "cv.yaml", entry["file"])
}
