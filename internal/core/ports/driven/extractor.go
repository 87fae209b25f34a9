package driven

import "context"

// Extractor turns a source file into raw UTF-8 text.
// The core treats the returned text as opaque; format handling is the
// adapter's concern.
type Extractor interface {
	// Extract reads the file at path and returns its text content.
	// Returns domain.ErrUnsupportedFormat for formats the adapter does
	// not handle and domain.ErrExtraction for unreadable files.
	Extract(ctx context.Context, path string) (string, error)

	// Supports reports whether the adapter can handle the given path
	// without reading it. Used to skip files cheaply during directory
	// ingestion.
	Supports(path string) bool
}
