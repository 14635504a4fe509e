package common

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Kiran-879/ResumePilot/internal/errors"
)

// ValidateUploadFile checks an upload locally before any network call is
// made: the file must exist, carry an accepted extension, and fit under the
// configured size limit. A rejected file never reaches the API.
func ValidateUploadFile(path string, maxSize int64, allowedExts []string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewIOError(errors.ErrCodeFileNotFound,
				fmt.Sprintf("File not found: %s", path), err)
		}
		return errors.NewIOError(errors.ErrCodeFileNotReadable,
			fmt.Sprintf("Cannot access file: %s", path), err)
	}

	if info.IsDir() {
		return errors.NewValidationError(errors.ErrCodeInvalidFileType,
			fmt.Sprintf("%s is a directory, not a file", path), nil)
	}

	if len(allowedExts) > 0 {
		ext := strings.ToLower(filepath.Ext(path))
		if !slices.Contains(allowedExts, ext) {
			return errors.NewValidationError(errors.ErrCodeInvalidFileType,
				fmt.Sprintf("Unsupported file type '%s'. Allowed types: %v", ext, allowedExts), nil)
		}
	}

	if maxSize > 0 && info.Size() > maxSize {
		return errors.NewValidationError(errors.ErrCodeFileTooLarge,
			fmt.Sprintf("File size must be less than %s (got %s)",
				FormatFileSize(maxSize), FormatFileSize(info.Size())), nil)
	}

	return nil
}

// ValidateOutputFormat validates format against configured supported formats.
func ValidateOutputFormat(format string, supportedFormats []string) error {
	if len(supportedFormats) == 0 {
		return nil // No restrictions configured
	}

	if slices.Contains(supportedFormats, format) {
		return nil
	}

	return fmt.Errorf("unsupported output format '%s'. Supported formats: %v",
		format, supportedFormats)
}

// GetSupportedFormats returns the list of supported formats
func GetSupportedFormats(supportedFormats []string) []string {
	return supportedFormats
}

// FormatFileSize renders a byte count the way the upload views display it.
func FormatFileSize(bytes int64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := int64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.2f %cB", float64(bytes)/float64(div), "KMGT"[exp])
}
