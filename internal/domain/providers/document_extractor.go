package providers

import (
	"context"
	"io"
)

// ExtractedDocument is the plain text of a paginated document.
type ExtractedDocument struct {
	Text  string
	Pages int
}

// DocumentExtractor extracts page text from a source document.
type DocumentExtractor interface {
	Extract(ctx context.Context, r io.ReaderAt, size int64) (*ExtractedDocument, error)
	ExtractFile(ctx context.Context, path string) (*ExtractedDocument, error)
}
