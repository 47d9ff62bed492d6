package resume

import (
	"testing"

	"hireall/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonResume = `{
  "personalInfo": {"fullName": "Jane Doe", "email": "jane@example.com", "summary": "Engineer."},
  "experience": [{"company": "Acme", "position": "Engineer", "current": true, "achievements": ["Cut costs 20%"]}],
  "skills": [{"category": "Languages", "skills": ["Go", "Python"]}]
}`

const yamlResume = `
personalInfo:
  fullName: Jane Doe
  email: jane@example.com
experience:
  - company: Acme
    position: Engineer
    current: true
    achievements:
      - Cut costs 20%
education:
  - institution: TU Berlin
    degree: BSc
    gpa: "3.8"
`

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"cv.json", FormatJSON, false},
		{"dir/CV.YAML", FormatYAML, false},
		{"cv.yml", FormatYAML, false},
		{"cv.pdf", "", true},
		{"cv", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsType(err, errors.ErrorTypeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseJSON(t *testing.T) {
	r, err := Parse([]byte(jsonResume), FormatJSON, Options{Strict: true})
	require.NoError(t, err)

	assert.Equal(t, "Jane Doe", r.PersonalInfo.FullName)
	require.Len(t, r.Experience, 1)
	assert.True(t, r.Experience[0].Current)
	assert.Equal(t, []string{"Cut costs 20%"}, r.Experience[0].Achievements)
	assert.Empty(t, r.Education)
}

func TestParseYAML(t *testing.T) {
	r, err := Parse([]byte(yamlResume), FormatYAML, Options{Strict: true})
	require.NoError(t, err)

	assert.Equal(t, "jane@example.com", r.PersonalInfo.Email)
	require.Len(t, r.Education, 1)
	assert.Equal(t, "3.8", r.Education[0].GPA)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		format Format
		strict bool
		code   string
	}{
		{"empty", "   ", FormatJSON, false, errors.ErrCodeInvalidResume},
		{"malformed json", `{"personalInfo": `, FormatJSON, false, errors.ErrCodeInvalidResume},
		{"top level array", `[1, 2]`, FormatJSON, false, errors.ErrCodeInvalidResume},
		{"malformed yaml", "personalInfo: [", FormatYAML, false, errors.ErrCodeInvalidResume},
		{"unknown format", `{}`, Format("toml"), false, errors.ErrCodeUnsupportedResume},
		{"strict rejects unknown fields", `{"personalInfo": {}, "hobbies": ["chess"]}`, FormatJSON, true, errors.ErrCodeSchemaViolation},
		{"strict requires personal info", `{"skills": []}`, FormatJSON, true, errors.ErrCodeSchemaViolation},
		{"strict checks email", `{"personalInfo": {"email": "not-an-email"}}`, FormatJSON, true, errors.ErrCodeSchemaViolation},
		{"strict checks types", "personalInfo: {}\nexperience:\n  - current: \"yes\"\n", FormatYAML, true, errors.ErrCodeSchemaViolation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, Options{Strict: tt.strict})
			require.Error(t, err)

			appErr, ok := errors.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, tt.code, appErr.Code)
		})
	}
}

func TestLenientParseAcceptsUnknownFields(t *testing.T) {
	r, err := Parse([]byte(`{"personalInfo": {"fullName": "Jane"}, "hobbies": ["chess"]}`), FormatJSON, Options{})
	require.NoError(t, err)
	assert.Equal(t, "Jane", r.PersonalInfo.FullName)
}

func TestSchemaFieldErrors(t *testing.T) {
	_, err := Parse([]byte(`{"personalInfo": {"email": "nope"}, "extra": 1}`), FormatJSON, Options{Strict: true})
	require.Error(t, err)

	fields := FieldErrors(err)
	require.NotEmpty(t, fields)

	var names []string
	for _, f := range fields {
		names = append(names, f.Field)
		assert.NotEmpty(t, f.Message)
	}
	assert.Contains(t, names, "personalInfo.email")
	assert.Contains(t, names, "(root)")
}
