package questionbank

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ChesterZhangz/questionbank-sub004/ocr"
	"github.com/ChesterZhangz/questionbank-sub004/question"
	"github.com/ChesterZhangz/questionbank-sub004/segment"
)

// areaOutcome collects one area's contribution so parallel workers
// never touch the shared result; outcomes are folded in input order.
type areaOutcome struct {
	questions []question.Question
	issues    []ParseIssue
	warnings  []ParseWarning
	textLen   int
}

// ParseAreas extracts questions from caller-selected page regions. An
// area whose page number falls outside the document is recorded as an
// error and skipped; the remaining areas still process. Results are
// appended in area order regardless of worker scheduling.
func (p *Parser) ParseAreas(ctx context.Context, path string, areas []segment.Area, opts ...ParseOption) (*ParseResult, error) {
	if len(areas) == 0 {
		return nil, ErrNoAreas
	}
	o := applyOptions(opts)

	format := o.format
	if format == "" {
		format = strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	}
	pipeline, err := p.registry.Get(format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	doc, err := pipeline.Parse(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDocumentUnreadable, err)
	}

	pages := doc.Pages
	if len(pages) == 0 {
		pages, _ = segment.SplitPages(doc.Text)
	}

	rb := newResultBuilder()
	rb.math = doc.Math
	rb.images = doc.Images
	rb.tables = doc.Tables

	outcomes := make([]*areaOutcome, len(areas))
	sem := make(chan struct{}, p.cfg.AreaWorkers)
	var wg sync.WaitGroup

	for i, a := range areas {
		if a.Page < 1 || a.Page > len(pages) {
			out := &areaOutcome{}
			out.issues = append(out.issues, newIssue(kindArea,
				fmt.Sprintf("area %s: page %d out of range [1,%d]", a.ID, a.Page, len(pages))))
			outcomes[i] = out
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(i int, a segment.Area) {
			defer wg.Done()
			defer func() { <-sem }()
			outcomes[i] = p.processArea(ctx, path, pages[a.Page-1], a, o)
		}(i, a)
	}
	wg.Wait()

	// Serialize collection: input order, not completion order.
	textLen := 0
	for _, out := range outcomes {
		if out == nil {
			continue
		}
		for _, q := range out.questions {
			rb.add(q)
		}
		rb.errors = append(rb.errors, out.issues...)
		rb.warnings = append(rb.warnings, out.warnings...)
		textLen += out.textLen
	}

	return rb.build(len(pages), textLen), nil
}

// processArea produces one area's questions. When recognition is
// configured the region is rendered and recognized; on any failure in
// that path the proportional text mapping takes over, with the failure
// recorded.
func (p *Parser) processArea(ctx context.Context, path, pageText string, a segment.Area, o parseOptions) *areaOutcome {
	out := &areaOutcome{}

	text, err := p.areaText(ctx, path, pageText, a)
	if err != nil {
		out.issues = append(out.issues, newIssue(kindRecognition,
			fmt.Sprintf("area %s: %v; fell back to positional text mapping", a.ID, err)))
		text = segment.ExtractArea(pageText, a)
	}
	text = p.correct(ctx, text)

	if strings.TrimSpace(text) == "" {
		out.issues = append(out.issues, newIssue(kindContent,
			fmt.Sprintf("area %s yielded no content", a.ID)))
		return out
	}
	out.textLen = len(text)

	blocks := question.DetectBlocks(text, question.ModeOCR)
	if len(blocks) == 0 {
		out.warnings = append(out.warnings, newWarning(kindContent,
			fmt.Sprintf("area %s: no question blocks detected", a.ID),
			"widen the area or check its page number"))
		return out
	}
	for _, b := range blocks {
		q := question.FromBlock(b)
		if strings.TrimSpace(q.Stem) == "" {
			continue
		}
		q.Source = a.ID
		o.decorate(&q)
		out.questions = append(out.questions, q)
	}
	return out
}

// areaText obtains an area's text via the render-and-recognize
// collaborators. The caller falls back to proportional mapping on error.
func (p *Parser) areaText(ctx context.Context, path, pageText string, a segment.Area) (string, error) {
	if !p.recog.Configured() {
		return segment.ExtractArea(pageText, a), nil
	}

	img, err := p.renderer.RenderRegion(ctx, path, a)
	if err != nil {
		return "", fmt.Errorf("rendering region: %w", err)
	}
	resp, err := p.recog.Recognize(ctx, img)
	if err != nil {
		return "", fmt.Errorf("recognizing region: %w", err)
	}

	frags := ocr.Flatten(resp)
	if len(frags) == 0 {
		return "", fmt.Errorf("recognizer returned no content")
	}
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts, f.Text())
	}
	return strings.Join(parts, "\n"), nil
}
