package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"hireall/internal/errors"
	"hireall/internal/types"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cliResume = `{
  "personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com", "summary": "Backend engineer building cloud services in Go."},
  "experience": [{"company": "Acme", "position": "Software Engineer", "achievements": ["Led migration to Kubernetes, cutting costs by 30%"]}],
  "education": [{"institution": "State University", "degree": "BSc", "field": "Computer Science"}],
  "skills": [{"category": "Languages", "skills": ["Go", "Python", "SQL"]}]
}`

// runCLI executes the root command with a temporary config file
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("app:\n  logLevel: error\n"), 0600))

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(append([]string{"--config", cfgFile}, args...))
	err := Execute(context.Background())
	return out.String(), err
}

// resetFlags restores every flag to its default so runs do not leak state
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

func writeResume(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "hireall version "+Version)
}

func TestScoreCommand(t *testing.T) {
	resumeFile := writeResume(t, "jane.json", cliResume)
	outFile := filepath.Join(t.TempDir(), "score.json")

	_, err := runCLI(t, "score", resumeFile, "--detailed=false", "--format", "json", "-o", outFile, "--industry", "technology")
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var score types.ResumeScore
	require.NoError(t, json.Unmarshal(data, &score))
	assert.GreaterOrEqual(t, score.Overall, 0)
	assert.LessOrEqual(t, score.Overall, 100)
}

func TestScoreCommandRejectsBadInput(t *testing.T) {
	resumeFile := writeResume(t, "jane.json", cliResume)

	_, err := runCLI(t, "score", resumeFile, "--detailed=false", "--format", "pdf")
	require.Error(t, err)

	_, err = runCLI(t, "score", writeResume(t, "jane.txt", "plain text"), "--detailed=false", "--format", "json")
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeUnsupportedResume, appErr.Code)
}

func TestQuickCommand(t *testing.T) {
	resumeFile := writeResume(t, "jane.json", cliResume)
	outFile := filepath.Join(t.TempDir(), "quick.json")

	_, err := runCLI(t, "quick", resumeFile, "--format", "json", "-o", outFile)
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var score types.BasicResumeScore
	require.NoError(t, json.Unmarshal(data, &score))
	assert.NotEmpty(t, score.Metrics.SectionsFound)
}

func TestBatchCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte(cliResume), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte(cliResume), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0600))
	outFile := filepath.Join(t.TempDir(), "batch.json")

	_, err := runCLI(t, "batch", dir, "--format", "json", "-o", outFile, "-c", "2")
	require.NoError(t, err)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	var report types.BatchReport
	require.NoError(t, json.Unmarshal(data, &report))
	assert.Equal(t, 2, report.Scored)
	assert.Zero(t, report.Failed)
	assert.NotEmpty(t, report.ID)

	t.Run("partial failure", func(t *testing.T) {
		bad := writeResume(t, "bad.json", "{")
		_, err := runCLI(t, "batch", filepath.Join(dir, "a.json"), bad, "--format", "json", "-o", outFile)
		require.Error(t, err)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeBatchPartialFailed, appErr.Code)
	})
}

func TestLexiconCommands(t *testing.T) {
	out, err := runCLI(t, "lexicon", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "actionVerbs:")
	assert.Contains(t, out, "industries:")

	valid := writeResume(t, "lexicon.yaml", "softSkills: [mentoring]\n")
	out, err = runCLI(t, "lexicon", "validate", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")

	invalid := writeResume(t, "broken.yaml", "professionalLanguage: []\n")
	_, err = runCLI(t, "lexicon", "validate", invalid)
	require.Error(t, err)
}

func TestCoachCommandRequiresAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("HIREALL_AI_APIKEY", "")
	t.Setenv("HIREALL_AI_COACH_APIKEY", "")

	resumeFile := writeResume(t, "jane.json", cliResume)
	_, err := runCLI(t, "coach", resumeFile, "--format", "json")
	require.Error(t, err)
	appErr, ok := errors.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMissingAPIKey, appErr.Code)
}
