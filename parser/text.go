package parser

import (
	"context"
	"fmt"
	"os"
)

// TextPipeline handles plain text files — OCR text dumps and .txt
// uploads.
type TextPipeline struct{}

func (p *TextPipeline) SupportedFormats() []string { return []string{"txt"} }

func (p *TextPipeline) Parse(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading text file: %w", err)
	}
	return &Document{
		Text:   string(data),
		Method: "text",
	}, nil
}
