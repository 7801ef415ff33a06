package questionbank

import (
	"context"
	"fmt"
	"strings"

	"github.com/ChesterZhangz/questionbank-sub004/ocr"
	"github.com/ChesterZhangz/questionbank-sub004/question"
)

// ParseRecognized turns an already-recognized response into questions.
// Each flattened fragment becomes a candidate question; fragments that
// look like continuations of their predecessor (same numeral run,
// similar stems) are merged back into one.
func (p *Parser) ParseRecognized(ctx context.Context, resp ocr.Response, opts ...ParseOption) (*ParseResult, error) {
	o := applyOptions(opts)
	rb := newResultBuilder()

	texts := ocr.Flatten(resp)
	if len(texts) == 0 {
		rb.errorf(kindContent, "recognition response carried no usable content")
		return rb.build(0, 0), nil
	}

	var frags []question.Fragment
	textLen := 0
	for _, ft := range texts {
		text := p.correct(ctx, ft.Text())
		if strings.TrimSpace(text) == "" {
			continue
		}
		textLen += len(text)

		blocks := question.DetectBlocks(text, question.ModeOCR)
		if len(blocks) == 0 {
			blocks = []question.Block{{Raw: text}}
		}
		for _, b := range blocks {
			q := question.FromBlock(b)
			if strings.TrimSpace(q.Stem) == "" {
				continue
			}
			q.Confidence = question.EstimateConfidence(1, len(b.Raw))
			o.decorate(&q)
			frags = append(frags, question.Fragment{
				Question:   q,
				Numeral:    b.OrderHint,
				HasNumeral: b.HasOrder,
			})
		}
	}

	merged := question.MergeFragments(frags)
	if len(merged) == 0 {
		rb.errorf(kindContent, "no questions recognized in response")
		return rb.build(0, textLen), nil
	}
	for _, q := range merged {
		rb.add(q)
	}

	p.logger.Info("recognized response parsed",
		"fragments", len(frags),
		"questions", len(merged))

	return rb.build(1, textLen), nil
}

// ParseImage recognizes a single image payload and extracts its
// questions. Requires recognition to be configured.
func (p *Parser) ParseImage(ctx context.Context, payload []byte, opts ...ParseOption) (*ParseResult, error) {
	if !p.recog.Configured() {
		return nil, ErrRecognitionUnavailable
	}
	resp, err := p.recog.Recognize(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRecognitionUnavailable, err)
	}
	return p.ParseRecognized(ctx, resp, opts...)
}
