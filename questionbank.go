// Package questionbank turns uploaded exam documents into ordered,
// typed, confidence-scored question records. It selects a per-format
// extraction pipeline, detects question boundaries, classifies and
// extracts each block, and — for recognizer output — merges fragments
// back into logical questions.
package questionbank

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/ChesterZhangz/questionbank-sub004/llm"
	"github.com/ChesterZhangz/questionbank-sub004/ocr"
	"github.com/ChesterZhangz/questionbank-sub004/parser"
	"github.com/ChesterZhangz/questionbank-sub004/question"
	"github.com/ChesterZhangz/questionbank-sub004/segment"
)

// estPageChars is the assumed characters-per-page used to estimate page
// counts for formats that declare none.
const estPageChars = 2000

// Parser is the document-to-question extraction façade. It is safe for
// concurrent use: every call builds its own accumulators and no parse
// state lives on the instance.
type Parser struct {
	cfg       Config
	registry  *parser.Registry
	recog     *ocr.Client
	renderer  ocr.RegionRenderer
	corrector *llm.Corrector
	logger    *slog.Logger
}

// New builds a Parser from configuration. Recognition and correction
// are optional; without them the document paths still work and the
// image/area paths degrade to proportional text mapping.
func New(cfg Config) (*Parser, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AreaWorkers <= 0 {
		cfg.AreaWorkers = 4
	}

	p := &Parser{
		cfg:      cfg,
		registry: parser.NewRegistry(),
		logger:   logger,
	}

	p.recog = ocr.NewClient(ocr.Config{
		BaseURL: cfg.Recognition.BaseURL,
		APIKey:  cfg.Recognition.APIKey,
		Timeout: cfg.Recognition.Timeout,
		Retries: cfg.Recognition.Retries,
	}, logger)
	p.renderer = ocr.NewExecRenderer(cfg.Render.Tool, cfg.Render.DPI, logger)

	if cfg.Correction.Enabled {
		provider, err := llm.NewProvider(llm.Config{
			Provider: cfg.Correction.Provider,
			Model:    cfg.Correction.Model,
			BaseURL:  cfg.Correction.BaseURL,
			APIKey:   cfg.Correction.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		corrector, err := llm.NewCorrector(provider, cfg.Correction.Model,
			cfg.Correction.Timeout, cfg.Correction.AllowLenient, logger)
		if err != nil {
			return nil, err
		}
		p.corrector = corrector
	}

	return p, nil
}

// ParseDocument extracts questions from a document file. The format
// comes from the file extension unless overridden with WithFormat.
// Unsupported formats and unreadable files are the only fatal
// conditions; everything else lands in the result's errors/warnings.
func (p *Parser) ParseDocument(ctx context.Context, path string, opts ...ParseOption) (*ParseResult, error) {
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

	rb := newResultBuilder()
	rb.math = doc.Math
	rb.images = doc.Images
	rb.tables = doc.Tables

	text := p.correct(ctx, doc.Text)
	if strings.TrimSpace(text) == "" {
		rb.errorf(kindContent, "document yielded no text")
		return rb.build(0, 0), nil
	}

	if doc.Method == "latex" {
		p.parseLaTeXBody(text, o, rb)
	} else {
		p.parseBlocks(text, question.ModeDocument, o, rb)
	}

	pageCount := doc.PageCount
	if pageCount == 0 {
		pages, method := segment.SplitPages(text)
		pageCount = len(pages)
		if method == segment.MethodFallback {
			pageCount = int(math.Ceil(float64(len(text)) / estPageChars))
			if pageCount < 1 {
				pageCount = 1
			}
			rb.warnf(kindParsing, "no page separators found; page count estimated from text volume",
				"verify the page count before relying on it")
		}
	}

	p.logger.Info("parsed document",
		"path", path,
		"format", format,
		"questions", len(rb.questions),
		"pages", pageCount,
	)
	return rb.build(pageCount, len(text)), nil
}

// parseLaTeXBody runs the marked-up path: question environments (or
// \item fallback segments) each become one question, with sub-question
// parsing on the environment content.
func (p *Parser) parseLaTeXBody(body string, o parseOptions, rb *resultBuilder) {
	envs := parser.QuestionEnvironments(body)
	if len(envs) == 0 {
		// No recognizable environments or list items; treat the body as
		// a plain document.
		p.parseBlocks(body, question.ModeDocument, o, rb)
		return
	}

	for i, env := range envs {
		q := question.FromBlock(question.Block{Raw: env})
		if strings.TrimSpace(q.Stem) == "" {
			rb.errorf(kindContent, fmt.Sprintf("question environment %d yielded no stem", i+1))
			continue
		}
		q.SubQuestions = question.ParseSubQuestions(env)
		o.decorate(&q)
		rb.add(q)
	}
}

// parseBlocks runs boundary detection, classification and extraction
// over raw text and adds the resulting questions.
func (p *Parser) parseBlocks(text string, mode question.DetectMode, o parseOptions, rb *resultBuilder) {
	blocks := question.DetectBlocks(text, mode)
	if len(blocks) == 0 {
		rb.warnf(kindContent, "no question blocks detected",
			"check that questions are numbered (1. / (1) / 一、)")
		return
	}
	for _, b := range blocks {
		q := question.FromBlock(b)
		if strings.TrimSpace(q.Stem) == "" {
			continue
		}
		o.decorate(&q)
		rb.add(q)
	}
}

// correct runs the optional LLM correction; it is a no-op without a
// configured corrector and never fails.
func (p *Parser) correct(ctx context.Context, text string) string {
	if p.corrector == nil {
		return text
	}
	return p.corrector.CorrectText(ctx, text)
}
