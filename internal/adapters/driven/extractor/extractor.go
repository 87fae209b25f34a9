// Package extractor provides plain-text extraction from local files.
package extractor

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/docqa-cli/internal/core/domain"
	"github.com/custodia-labs/docqa-cli/internal/core/ports/driven"
)

// Ensure File implements the interface.
var _ driven.Extractor = (*File)(nil)

// maxFileSize bounds how much of a file is ingested. Larger files are
// rejected rather than silently truncated.
const maxFileSize = 32 << 20 // 32 MiB

// supportedExtensions maps lowercased file extensions to support.
var supportedExtensions = map[string]bool{
	".txt":      true,
	".md":       true,
	".markdown": true,
	".rst":      true,
	".log":      true,
}

// File extracts text from plain-text files on disk.
type File struct{}

// NewFile creates a file extractor.
func NewFile() *File {
	return &File{}
}

// Supports reports whether the file's extension is a known text format.
func (f *File) Supports(path string) bool {
	return supportedExtensions[strings.ToLower(filepath.Ext(path))]
}

// Extract reads the file and returns its contents as UTF-8 text.
func (f *File) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if !f.Supports(path) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnsupportedFormat, filepath.Ext(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: stat %s: %v", domain.ErrExtraction, path, err)
	}
	if info.IsDir() {
		return "", fmt.Errorf("%w: %s is a directory", domain.ErrExtraction, path)
	}
	if info.Size() > maxFileSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrExtraction, path, int64(maxFileSize))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrExtraction, path, err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s is not valid UTF-8", domain.ErrExtraction, path)
	}

	return string(data), nil
}
