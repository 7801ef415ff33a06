package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// DOCXPipeline extracts paragraph text from Word documents natively by
// walking word/document.xml. Word files carry no page boundaries in
// their body XML, so PageCount stays 0 and the caller estimates it.
type DOCXPipeline struct{}

func (p *DOCXPipeline) SupportedFormats() []string { return []string{"docx", "doc"} }

func (p *DOCXPipeline) Parse(ctx context.Context, path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("opening DOCX: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in DOCX")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("opening document.xml: %w", err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, err
	}

	return parseDocxXML(ctx, data)
}

// parseDocxXML walks the body XML collecting paragraph text, image
// references (drawing blips) and tables.
func parseDocxXML(ctx context.Context, data []byte) (*Document, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))

	var paragraphs []string
	var cur strings.Builder
	images := 0
	tables := 0
	inPara := false

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing DOCX XML: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inPara = true
				cur.Reset()
			case "tbl":
				tables++
			case "blip":
				images++
			case "br":
				if inPara {
					cur.WriteString("\n")
				}
			}
		case xml.CharData:
			if inPara {
				cur.Write(t)
			}
		case xml.EndElement:
			if t.Name.Local == "p" && inPara {
				inPara = false
				if text := strings.TrimSpace(cur.String()); text != "" {
					paragraphs = append(paragraphs, text)
				}
			}
		}
	}

	text := strings.Join(paragraphs, "\n\n")
	if strings.TrimSpace(text) == "" && images == 0 && tables == 0 {
		return &Document{Method: "native"}, nil
	}

	return &Document{
		Text:   text,
		Images: images,
		Tables: tables,
		Method: "native",
	}, nil
}
