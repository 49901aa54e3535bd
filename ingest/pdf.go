package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/tmc/langchaingo/documentloaders"

	"github.com/veridian-labs/vigia/core"
)

// PDFStrategy parses paginated regulatory PDFs: each page becomes one
// document carrying the whole page text. Page-internal splitting is
// deferred to the configured splitter.
type PDFStrategy struct {
	logger *slog.Logger
}

// NewPDFStrategy creates the PDF parsing strategy.
func NewPDFStrategy() *PDFStrategy {
	return &PDFStrategy{logger: slog.Default().With("component", "pdf-strategy")}
}

// Key returns "pdf".
func (s *PDFStrategy) Key() string { return "pdf" }

// Parse extracts one document per page.
func (s *PDFStrategy) Parse(ctx context.Context, res Resource) ([]core.Document, error) {
	rc, err := res.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", res.Name(), err)
	}
	defer rc.Close()

	// The PDF reader needs random access; buffer the stream.
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", res.Name(), err)
	}

	loader := documentloaders.NewPDF(bytes.NewReader(data), int64(len(data)))
	pages, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("parse pdf %s: %w", res.Name(), err)
	}

	documents := make([]core.Document, 0, len(pages))
	for _, page := range pages {
		md := pageMetadata(res.Name(), page.Metadata)
		documents = append(documents, core.NewDocument(page.PageContent, md))
	}

	s.logger.Info("loaded pages as documents from PDF file", "file", res.Name(), "pages", len(documents))
	return documents, nil
}

// pageMetadata builds one page's provenance metadata. The loader reports
// the page number under "page"; it lands on core.MetaPage so chunks stay
// traceable to the page they came from.
func pageMetadata(source string, loaderMeta map[string]any) map[string]string {
	md := map[string]string{
		core.MetaSource:     source,
		core.MetaSourceType: "PDF",
	}
	if page, ok := loaderMeta["page"]; ok {
		md[core.MetaPage] = fmt.Sprint(page)
	}
	if total, ok := loaderMeta["total_pages"]; ok {
		md["total_pages"] = fmt.Sprint(total)
	}
	return md
}
