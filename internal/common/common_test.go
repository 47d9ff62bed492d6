package common

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"hireall/internal/ai"
	"hireall/internal/ats"
	"hireall/internal/errors"
	"hireall/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonResume = `{
  "personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com", "summary": "Backend engineer building cloud services in Go."},
  "experience": [{"company": "Acme", "position": "Software Engineer", "achievements": ["Led migration to Kubernetes, cutting costs by 30%"]}],
  "education": [{"institution": "State University", "degree": "BSc", "field": "Computer Science"}],
  "skills": [{"category": "Languages", "skills": ["Go", "Python", "SQL"]}]
}`

const yamlResume = `personalInfo:
  fullName: John Roe
  summary: Analyst
experience:
  - company: Globex
    position: Data Analyst
`

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func appCode(t *testing.T, err error) string {
	t.Helper()
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func TestReadResume(t *testing.T) {
	dir := t.TempDir()
	fp := NewFileProcessor(errors.NewNopLogger(), 1024)

	t.Run("json", func(t *testing.T) {
		data, err := fp.ReadResume(writeTemp(t, dir, "jane.json", jsonResume), false)
		require.NoError(t, err)
		assert.Equal(t, "Jane Doe", data.PersonalInfo.FullName)
		assert.Len(t, data.Experience, 1)
	})

	t.Run("yaml", func(t *testing.T) {
		data, err := fp.ReadResume(writeTemp(t, dir, "john.yml", yamlResume), false)
		require.NoError(t, err)
		assert.Equal(t, "Data Analyst", data.Experience[0].Position)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := fp.ReadResume(filepath.Join(dir, "nope.json"), false)
		assert.Equal(t, errors.ErrCodeFileNotFound, appCode(t, err))
	})

	t.Run("unsupported extension", func(t *testing.T) {
		_, err := fp.ReadResume(writeTemp(t, dir, "resume.pdf", "%PDF"), false)
		assert.Equal(t, errors.ErrCodeUnsupportedResume, appCode(t, err))
	})

	t.Run("too large", func(t *testing.T) {
		big := `{"personalInfo": {"summary": "` + strings.Repeat("x", 2048) + `"}}`
		_, err := fp.ReadResume(writeTemp(t, dir, "big.json", big), false)
		assert.Equal(t, errors.ErrCodeFileTooLarge, appCode(t, err))
	})

	t.Run("malformed", func(t *testing.T) {
		_, err := fp.ReadResume(writeTemp(t, dir, "broken.json", "{"), false)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeInvalidResume, appErr.Code)
		assert.Equal(t, filepath.Join(dir, "broken.json"), appErr.Context["file"])
	})
}

func TestWriteFileCreatesDirectories(t *testing.T) {
	fp := NewFileProcessor(nil, 0)
	target := filepath.Join(t.TempDir(), "reports", "jane.json")

	require.NoError(t, fp.WriteFile(target, "{}\n"))
	content, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "{}\n", string(content))
}

func TestHandleOutput(t *testing.T) {
	score := &types.BasicResumeScore{Overall: 72, Suggestions: []string{"Add metrics"}}

	t.Run("json to writer", func(t *testing.T) {
		var buf bytes.Buffer
		oh := NewOutputHandlerWithWriter(nil, &buf)
		require.NoError(t, oh.HandleOutput(score, CommandConfig{OutputFormat: "json"}))

		var decoded types.BasicResumeScore
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, 72, decoded.Overall)
		assert.True(t, strings.HasSuffix(buf.String(), "\n"))
	})

	t.Run("text to file", func(t *testing.T) {
		out := filepath.Join(t.TempDir(), "score.txt")
		oh := NewOutputHandlerWithWriter(nil, &bytes.Buffer{})
		require.NoError(t, oh.HandleOutput(score, CommandConfig{OutputFormat: "text", OutputFile: out}))

		content, err := os.ReadFile(out)
		require.NoError(t, err)
		assert.Contains(t, string(content), "72")
	})

	t.Run("unknown format", func(t *testing.T) {
		oh := NewOutputHandlerWithWriter(nil, &bytes.Buffer{})
		err := oh.HandleOutput(score, CommandConfig{OutputFormat: "xml"})
		assert.Equal(t, errors.ErrCodeInvalidFormat, appCode(t, err))
	})

	t.Run("supported formats", func(t *testing.T) {
		oh := NewOutputHandler(nil)
		assert.Equal(t, []string{"json", "markdown", "text", "yaml"}, oh.GetSupportedFormats())
	})
}

func TestRunResumeCommand(t *testing.T) {
	file := writeTemp(t, t.TempDir(), "jane.json", jsonResume)

	var buf bytes.Buffer
	var loggedFile string
	err := runResumeCommand(context.Background(), nil, CommandConfig{OutputFormat: "json"}, file,
		func(_ context.Context, data *types.ResumeData) (*types.BasicResumeScore, *ai.TokenUsage, error) {
			return ats.CalculateResumeScore(data, types.ScoreOptions{}), nil, nil
		},
		func(filename string, _ CommandConfig) { loggedFile = filename },
		NewOutputHandlerWithWriter(nil, &buf),
	)
	require.NoError(t, err)
	assert.Equal(t, file, loggedFile)

	var decoded types.BasicResumeScore
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.GreaterOrEqual(t, decoded.Overall, 0)
	assert.LessOrEqual(t, decoded.Overall, 100)
}

func TestRunResumeCommandPropagatesErrors(t *testing.T) {
	file := writeTemp(t, t.TempDir(), "jane.json", jsonResume)
	boom := errors.NewAIError(errors.ErrCodeAIUnavailable, "coach not configured", nil)

	var buf bytes.Buffer
	err := runResumeCommand(context.Background(), nil, CommandConfig{OutputFormat: "json"}, file,
		func(context.Context, *types.ResumeData) (string, *ai.TokenUsage, error) {
			return "", nil, boom
		},
		nil,
		NewOutputHandlerWithWriter(nil, &buf),
	)
	assert.Same(t, boom, err)
	assert.Empty(t, buf.String())
}

func TestScoreFiles(t *testing.T) {
	dir := t.TempDir()
	files := []string{
		writeTemp(t, dir, "a.json", jsonResume),
		filepath.Join(dir, "missing.json"),
		writeTemp(t, dir, "b.yaml", yamlResume),
		writeTemp(t, dir, "c.json", "not json"),
	}

	bs := NewBatchScorer(ats.Default(), NewFileProcessor(nil, 0), errors.NewNopLogger(), nil)
	report, err := bs.ScoreFiles(context.Background(), files, BatchOptions{Concurrency: 2})
	require.NoError(t, err)

	require.Len(t, report.Results, len(files))
	for i, r := range report.Results {
		assert.Equal(t, files[i], r.File, "results keep input order")
	}
	assert.Empty(t, report.Results[0].Error)
	assert.NotEmpty(t, report.Results[1].Error)
	assert.Empty(t, report.Results[2].Error)
	assert.NotEmpty(t, report.Results[3].Error)

	assert.Equal(t, 2, report.Scored)
	assert.Equal(t, 2, report.Failed)
	assert.NotEmpty(t, report.ID)
	assert.False(t, report.GeneratedAt.IsZero())

	want := float64(report.Results[0].Overall+report.Results[2].Overall) / 2
	assert.InDelta(t, want, report.AverageOverall, 0.01)

	direct := ats.CalculateEnhancedATSScore(mustRead(t, files[0]), types.ScoreOptions{})
	assert.Equal(t, direct.Overall, report.Results[0].Overall)
}

func TestScoreFilesCancelled(t *testing.T) {
	dir := t.TempDir()
	files := []string{writeTemp(t, dir, "a.json", jsonResume)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	bs := NewBatchScorer(ats.Default(), NewFileProcessor(nil, 0), nil, nil)
	_, err := bs.ScoreFiles(ctx, files, BatchOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScoreFilesEmpty(t *testing.T) {
	bs := NewBatchScorer(ats.Default(), NewFileProcessor(nil, 0), nil, nil)
	report, err := bs.ScoreFiles(context.Background(), nil, BatchOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Zero(t, report.AverageOverall)
}

func mustRead(t *testing.T, file string) *types.ResumeData {
	t.Helper()
	data, err := NewFileProcessor(nil, 0).ReadResume(file, false)
	require.NoError(t, err)
	return data
}
