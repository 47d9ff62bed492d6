package common

import (
	"testing"
)

var testFormats = []string{"json", "markdown", "text", "yaml"}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
		expectedError    string
	}{
		{
			name:             "valid format - json",
			format:           "json",
			supportedFormats: testFormats,
		},
		{
			name:             "valid format - yaml",
			format:           "yaml",
			supportedFormats: testFormats,
		},
		{
			name:             "valid format - markdown",
			format:           "markdown",
			supportedFormats: testFormats,
		},
		{
			name:             "invalid format - xml",
			format:           "xml",
			supportedFormats: testFormats,
			expectError:      true,
			expectedError:    "unsupported output format 'xml'. Supported formats: [json markdown text yaml]",
		},
		{
			name:             "case sensitive - JSON uppercase",
			format:           "JSON",
			supportedFormats: testFormats,
			expectError:      true,
			expectedError:    "unsupported output format 'JSON'. Supported formats: [json markdown text yaml]",
		},
		{
			name:             "empty format string",
			format:           "",
			supportedFormats: testFormats,
			expectError:      true,
			expectedError:    "unsupported output format ''. Supported formats: [json markdown text yaml]",
		},
		{
			name:             "empty supported formats - should allow all",
			format:           "xml",
			supportedFormats: []string{},
		},
		{
			name:             "single supported format - invalid",
			format:           "text",
			supportedFormats: []string{"json"},
			expectError:      true,
			expectedError:    "unsupported output format 'text'. Supported formats: [json]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
					return
				}
				if tt.expectedError != "" && err.Error() != tt.expectedError {
					t.Errorf("Expected error '%s', got '%s'", tt.expectedError, err.Error())
				}
			} else if err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestResolveOutputFormat(t *testing.T) {
	tests := []struct {
		name          string
		requested     string
		defaultFormat string
		want          string
		expectError   bool
	}{
		{name: "explicit format wins", requested: "yaml", defaultFormat: "json", want: "yaml"},
		{name: "falls back to default", requested: "", defaultFormat: "text", want: "text"},
		{name: "unsupported request", requested: "csv", defaultFormat: "json", expectError: true},
		{name: "unsupported default", requested: "", defaultFormat: "html", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveOutputFormat(tt.requested, tt.defaultFormat, testFormats)
			if tt.expectError {
				if err == nil {
					t.Fatalf("Expected error, got format %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}

func BenchmarkValidateOutputFormat(b *testing.B) {
	b.Run("valid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("json", testFormats)
		}
	})

	b.Run("invalid format", func(b *testing.B) {
		for b.Loop() {
			_ = ValidateOutputFormat("xml", testFormats)
		}
	})
}
