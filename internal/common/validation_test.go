package common

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempFile(t *testing.T, name string, size int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, make([]byte, size), 0600); err != nil {
		t.Fatalf("Failed to write temp file: %v", err)
	}
	return path
}

func TestValidateUploadFile(t *testing.T) {
	allowed := []string{".pdf", ".doc", ".docx", ".txt"}
	maxSize := int64(10 * 1024 * 1024)

	tests := []struct {
		name        string
		setup       func(t *testing.T) string
		expectError bool
	}{
		{
			name:        "valid pdf under the limit",
			setup:       func(t *testing.T) string { return writeTempFile(t, "resume.pdf", 1024) },
			expectError: false,
		},
		{
			name:        "extension check is case-insensitive",
			setup:       func(t *testing.T) string { return writeTempFile(t, "resume.PDF", 1024) },
			expectError: false,
		},
		{
			name:        "missing file",
			setup:       func(t *testing.T) string { return filepath.Join(t.TempDir(), "nope.pdf") },
			expectError: true,
		},
		{
			name:        "directory instead of file",
			setup:       func(t *testing.T) string { return t.TempDir() },
			expectError: true,
		},
		{
			name:        "unsupported extension",
			setup:       func(t *testing.T) string { return writeTempFile(t, "resume.exe", 1024) },
			expectError: true,
		},
		{
			name:        "file over the size limit",
			setup:       func(t *testing.T) string { return writeTempFile(t, "huge.pdf", int(maxSize)+1) },
			expectError: true,
		},
		{
			name:        "file exactly at the limit",
			setup:       func(t *testing.T) string { return writeTempFile(t, "edge.pdf", int(maxSize)) },
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUploadFile(tt.setup(t), maxSize, allowed)
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestValidateUploadFileWithoutRestrictions(t *testing.T) {
	path := writeTempFile(t, "anything.xyz", 128)
	if err := ValidateUploadFile(path, 0, nil); err != nil {
		t.Errorf("Expected no restrictions to pass everything, got: %v", err)
	}
}

func TestValidateOutputFormat(t *testing.T) {
	tests := []struct {
		name             string
		format           string
		supportedFormats []string
		expectError      bool
	}{
		{
			name:             "valid format - table",
			format:           "table",
			supportedFormats: []string{"table", "json", "text"},
			expectError:      false,
		},
		{
			name:             "valid format - json",
			format:           "json",
			supportedFormats: []string{"table", "json", "text"},
			expectError:      false,
		},
		{
			name:             "invalid format - xml",
			format:           "xml",
			supportedFormats: []string{"table", "json", "text"},
			expectError:      true,
		},
		{
			name:             "case sensitive - JSON uppercase",
			format:           "JSON",
			supportedFormats: []string{"table", "json", "text"},
			expectError:      true,
		},
		{
			name:             "empty supported formats - should allow all",
			format:           "xml",
			supportedFormats: []string{},
			expectError:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.supportedFormats)
			if tt.expectError && err == nil {
				t.Error("Expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("Expected no error but got: %v", err)
			}
		})
	}
}

func TestFormatFileSize(t *testing.T) {
	tests := []struct {
		name     string
		bytes    int64
		expected string
	}{
		{name: "bytes", bytes: 512, expected: "512 B"},
		{name: "kilobytes", bytes: 2048, expected: "2.00 KB"},
		{name: "megabytes", bytes: 10 * 1024 * 1024, expected: "10.00 MB"},
		{name: "fractional megabytes", bytes: 10*1024*1024 + 512*1024, expected: "10.50 MB"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatFileSize(tt.bytes); got != tt.expected {
				t.Errorf("Expected '%s', got '%s'", tt.expected, got)
			}
		})
	}
}

func TestFallbackFilename(t *testing.T) {
	if got := FallbackFilename("server.pdf", "default.pdf"); got != "server.pdf" {
		t.Errorf("Expected server suggestion to win, got '%s'", got)
	}
	if got := FallbackFilename("", "default.pdf"); got != "default.pdf" {
		t.Errorf("Expected fallback, got '%s'", got)
	}
}
