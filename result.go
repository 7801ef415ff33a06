package questionbank

import (
	"github.com/google/uuid"

	"github.com/ChesterZhangz/questionbank-sub004/question"
)

// Issue kinds, mirroring the failure taxonomy: parsing problems,
// per-unit content problems, format problems.
const (
	kindParsing     = "parsing"
	kindContent     = "content"
	kindFormat      = "format"
	kindArea        = "area"
	kindRecognition = "recognition"
)

// ParseIssue is one recorded non-fatal error.
type ParseIssue struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
}

// ParseWarning is one recorded advisory with a suggested remedy.
type ParseWarning struct {
	ID         string `json:"id"`
	Kind       string `json:"kind"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion,omitempty"`
}

// ParseResult is the complete outcome of one parse call. It is always
// returned when the source could be opened at all; partial losses are
// explained by Errors and Warnings.
type ParseResult struct {
	Questions        []question.Question `json:"questions"`
	PageCount        int                 `json:"pageCount"`
	MathFormulaCount int                 `json:"mathFormulaCount"`
	ImageCount       int                 `json:"imageCount"`
	TableCount       int                 `json:"tableCount"`
	Confidence       float64             `json:"confidence"`
	Errors           []ParseIssue        `json:"errors"`
	Warnings         []ParseWarning      `json:"warnings"`
}

// resultBuilder is the call-scoped accumulator behind a ParseResult.
// One is constructed per orchestration call and discarded with it, so
// concurrent calls never share error or warning state.
type resultBuilder struct {
	questions []question.Question
	errors    []ParseIssue
	warnings  []ParseWarning
	math      int
	images    int
	tables    int
}

func newResultBuilder() *resultBuilder {
	return &resultBuilder{}
}

func (rb *resultBuilder) add(q question.Question) {
	q.Difficulty = question.ClampDifficulty(q.Difficulty)
	rb.questions = append(rb.questions, q)
}

func (rb *resultBuilder) errorf(kind, message string) {
	rb.errors = append(rb.errors, newIssue(kind, message))
}

func (rb *resultBuilder) warnf(kind, message, suggestion string) {
	rb.warnings = append(rb.warnings, newWarning(kind, message, suggestion))
}

func newIssue(kind, message string) ParseIssue {
	return ParseIssue{
		ID:       uuid.NewString(),
		Kind:     kind,
		Message:  message,
		Severity: "error",
	}
}

func newWarning(kind, message, suggestion string) ParseWarning {
	return ParseWarning{
		ID:         uuid.NewString(),
		Kind:       kind,
		Message:    message,
		Suggestion: suggestion,
	}
}

// build finalizes the result, computing the overall confidence from the
// question count and the processed text volume.
func (rb *resultBuilder) build(pageCount, textLen int) *ParseResult {
	return &ParseResult{
		Questions:        rb.questions,
		PageCount:        pageCount,
		MathFormulaCount: rb.math,
		ImageCount:       rb.images,
		TableCount:       rb.tables,
		Confidence:       question.EstimateConfidence(len(rb.questions), textLen),
		Errors:           rb.errors,
		Warnings:         rb.warnings,
	}
}
