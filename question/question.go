// Package question turns blocks of exam text into typed, confidence
// scored question records: boundary detection, lexical type
// classification, labeled-field extraction, sub-question parsing and
// OCR fragment merging.
package question

import (
	"time"

	"github.com/google/uuid"
)

// Type is the question type recovered from lexical cues.
type Type string

const (
	TypeChoice   Type = "choice"
	TypeFill     Type = "fill"
	TypeSolution Type = "solution"
)

// SubKind names the marker family a sub-question was detected under.
type SubKind string

const (
	SubNumeric    SubKind = "numeric"
	SubCircled    SubKind = "circled"
	SubRoman      SubKind = "roman"
	SubAlphabetic SubKind = "alphabetic"
	SubCustom     SubKind = "custom"
)

// Option is one labeled choice of a choice question. Correct is never
// inferred by the pipeline; extraction is textual, not semantic.
type Option struct {
	Text    string `json:"text"`
	Correct bool   `json:"isCorrect"`
}

// SubQuestion is a labeled part nested inside one logical question.
//
// Order is the parsed numeral for the numeric and circled families. For
// the roman, alphabetic and custom families it is the 0-based scan
// position, not the parsed marker value; mixed families in one block can
// therefore interleave. Known limitation, kept deliberately.
type SubQuestion struct {
	ID       string  `json:"id"`
	Kind     SubKind `json:"kind"`
	Order    int     `json:"order"`
	Content  string  `json:"content"`
	Answer   string  `json:"answer,omitempty"`
	Analysis string  `json:"analysis,omitempty"`
}

// Question is one extracted, gradable question record.
type Question struct {
	ID           string        `json:"id"`
	Type         Type          `json:"type"`
	Stem         string        `json:"stem"`
	Options      []Option      `json:"options,omitempty"` // choice only
	Answer       string        `json:"answer,omitempty"`
	Analysis     string        `json:"analysis,omitempty"`
	SubQuestions []SubQuestion `json:"subQuestions,omitempty"`
	Difficulty   int           `json:"difficulty"` // always in [1,5]
	Category     string        `json:"category,omitempty"`
	Tags         []string      `json:"tags,omitempty"`
	Source       string        `json:"source,omitempty"`
	Confidence   float64       `json:"confidence"` // heuristic 0-100, not a probability
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// New returns an empty question with a fresh ID and timestamps.
func New(t Type) Question {
	now := time.Now().UTC()
	return Question{
		ID:         uuid.NewString(),
		Type:       t,
		Difficulty: 1,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// ClampDifficulty forces d into the valid [1,5] range.
func ClampDifficulty(d int) int {
	if d < 1 {
		return 1
	}
	if d > 5 {
		return 5
	}
	return d
}

// AddTag appends tag if the question does not already carry it.
func (q *Question) AddTag(tag string) {
	if tag == "" {
		return
	}
	for _, t := range q.Tags {
		if t == tag {
			return
		}
	}
	q.Tags = append(q.Tags, tag)
}
