// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/pipemene/bluehome-os/internal/core/media"
	"github.com/pipemene/bluehome-os/internal/ports/secondary"
)

// DefaultMaxFileSize bounds a single attachment.
const DefaultMaxFileSize = 50 << 20

// MediaLoader implements secondary.FileLoader for local files.
type MediaLoader struct {
	maxSize int64
}

// NewMediaLoader creates a loader. A non-positive maxSize uses DefaultMaxFileSize.
func NewMediaLoader(maxSize int64) *MediaLoader {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}
	return &MediaLoader{maxSize: maxSize}
}

// Load reads path and detects its content type from the extension, falling
// back to content sniffing.
func (l *MediaLoader) Load(path string) (*media.File, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > l.maxSize {
		return nil, fmt.Errorf("%s is too large (%d bytes, limit %d)", path, info.Size(), l.maxSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return &media.File{
		Name:        filepath.Base(path),
		ContentType: DetectContentType(path, data),
		Data:        data,
	}, nil
}

// DetectContentType returns the media type of a file without parameters.
func DetectContentType(path string, data []byte) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if ct == "" {
		ct = http.DetectContentType(data)
	}
	if mt, _, err := mime.ParseMediaType(ct); err == nil {
		return mt
	}
	return ct
}

// WriteFile writes data to path, creating parent directories.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

var _ secondary.FileLoader = (*MediaLoader)(nil)
