package documents

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/zoyasiddiqui7867/ai-agent-Health-Assistant/internal/domain/providers"
)

// PDFExtractor implements DocumentExtractor for PDF files. Page text is
// concatenated in page order without separators.
type PDFExtractor struct{}

// NewPDFExtractor creates a new PDF text extractor
func NewPDFExtractor() providers.DocumentExtractor {
	return &PDFExtractor{}
}

// ExtractFile extracts the text of the PDF at path
func (e *PDFExtractor) ExtractFile(ctx context.Context, path string) (*providers.ExtractedDocument, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	return e.Extract(ctx, f, info.Size())
}

// Extract extracts the text of a PDF read from r
func (e *PDFExtractor) Extract(ctx context.Context, r io.ReaderAt, size int64) (doc *providers.ExtractedDocument, err error) {
	// The parser panics on some malformed inputs.
	defer func() {
		if rec := recover(); rec != nil {
			doc = nil
			err = fmt.Errorf("malformed pdf: %v", rec)
		}
	}()

	reader, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}

	pages := reader.NumPage()
	var text strings.Builder
	for i := 1; i <= pages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i, err)
		}
		text.WriteString(pageText)
	}

	return &providers.ExtractedDocument{
		Text:  text.String(),
		Pages: pages,
	}, nil
}
