// Package file persists rendered documents on the local filesystem.
package file

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dinjou/inconfluential/internal/core/ports/driven"
	"github.com/dinjou/inconfluential/internal/logger"
)

// Ensure Writer implements the interface.
var _ driven.DocumentWriter = (*Writer)(nil)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Writer writes documents only when their bytes differ from what is on disk.
type Writer struct {
	log *logger.Logger
}

// NewWriter creates a Writer. Failures are reported to log.
func NewWriter(log *logger.Logger) *Writer {
	return &Writer{log: log}
}

// WriteIfChanged writes content to path when the file is missing or holds
// different bytes, and reports whether it wrote. Errors are logged and
// reported as false. Files are never deleted.
func (w *Writer) WriteIfChanged(path string, content []byte) bool {
	existing, err := os.ReadFile(path)
	switch {
	case err == nil:
		if bytes.Equal(existing, content) {
			w.log.Debug("No changes detected in '%s'; skipping write.", path)
			return false
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
			w.log.Error("Error while creating directory for '%s': %v", path, err)
			return false
		}
	default:
		w.log.Error("Error while reading '%s': %v", path, err)
		return false
	}

	if err := os.WriteFile(path, content, filePerm); err != nil {
		w.log.Error("Error while writing to '%s': %v", path, err)
		return false
	}
	w.log.Info("Changes detected; '%s' has been updated.", path)
	return true
}
