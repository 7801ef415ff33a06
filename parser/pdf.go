package parser

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFPipeline extracts text from PDFs page by page. Pages that fail to
// decode are skipped; the declared page count still reflects them.
type PDFPipeline struct{}

func (p *PDFPipeline) SupportedFormats() []string { return []string{"pdf"} }

func (p *PDFPipeline) Parse(ctx context.Context, path string) (*Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening PDF: %w", err)
	}
	defer f.Close()

	totalPages := reader.NumPage()
	pages := make([]string, 0, totalPages)
	tables := 0

	for i := 1; i <= totalPages; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, text)
		tables += countTabular(text)
	}

	return &Document{
		Text:      strings.Join(pages, "\n\f\n"),
		Pages:     pages,
		PageCount: totalPages,
		Tables:    tables,
		Method:    "native",
	}, nil
}

// countTabular counts grid-like regions on one page: runs of lines that
// are pipe- or tab-delimited.
func countTabular(text string) int {
	count := 0
	run := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Count(line, "|") >= 2 || strings.Count(line, "\t") >= 2 {
			run++
			continue
		}
		if run >= 2 {
			count++
		}
		run = 0
	}
	if run >= 2 {
		count++
	}
	return count
}
