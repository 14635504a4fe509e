package common

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Kiran-879/ResumePilot/internal/errors"
)

// BlobSaver writes an opaque downloaded blob somewhere the user can reach.
// Injected into view code so the choosing of a filename stays testable apart
// from the filesystem side effect.
type BlobSaver interface {
	Save(filename string, content []byte) (string, error)
}

// FileBlobSaver saves blobs into a target directory ("." by default).
type FileBlobSaver struct {
	Dir    string
	Logger *errors.Logger
}

// Save writes content under the saver's directory and returns the full path.
func (s *FileBlobSaver) Save(filename string, content []byte) (string, error) {
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", errors.NewIOError("DIRECTORY_CREATE_FAILED",
			fmt.Sprintf("Cannot create directory: %s", dir), err)
	}

	path := filepath.Join(dir, filepath.Base(filename))
	if err := os.WriteFile(path, content, 0600); err != nil {
		return "", errors.NewIOError("FILE_WRITE_FAILED",
			fmt.Sprintf("Cannot write file: %s", path), err)
	}

	if s.Logger != nil {
		s.Logger.Info("Saved download", "path", path, "bytes", len(content))
	}
	return path, nil
}

// FallbackFilename picks the name for a downloaded blob: the server's
// suggestion when present, otherwise the provided default.
func FallbackFilename(suggested, fallback string) string {
	if suggested != "" {
		return suggested
	}
	return fallback
}
