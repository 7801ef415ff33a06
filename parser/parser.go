// Package parser extracts raw text and layout statistics from exam
// documents, one pipeline per input format. It knows nothing about
// questions; it hands plain text to the question pipeline.
package parser

import "context"

// Document is what a pipeline produces from a source file.
type Document struct {
	Text      string   // full extracted text
	Pages     []string // per-page text when the format declares pages
	PageCount int      // declared page count; 0 when unknown
	Math      int      // math-formula-like span count
	Images    int      // embedded image count
	Tables    int      // table count
	Method    string   // "native", "latex", "text"
}

// Pipeline can extract a specific document format.
type Pipeline interface {
	Parse(ctx context.Context, path string) (*Document, error)
	SupportedFormats() []string
}
