// Package ocr talks to the external text-recognition service and turns
// its nested group responses into the flat fragment list the merge step
// consumes. Recognition quality is out of the pipeline's hands; this
// package only degrades gracefully around it.
package ocr

import "strings"

// minPrimaryLen is the character threshold below which the structured
// question fields are considered too sparse to trust; the flat RawText
// field is used instead when it carries more.
const minPrimaryLen = 20

// Group is one recognized cluster of question-like text. Recognizers
// emit at most one level of nesting.
type Group struct {
	Questions []string `json:"questionText"`
	Options   []string `json:"optionText"`
	Answers   []string `json:"answerText"`
	Children  []Group  `json:"subResults,omitempty"`
}

// Response is the recognition service's reply for one image payload.
type Response struct {
	Groups  []Group `json:"groups"`
	RawText string  `json:"rawText,omitempty"`
}

// FragmentText is one flattened recognition unit: the question body
// with its option and answer lines re-joined, ready for boundary
// detection and classification.
type FragmentText struct {
	Question string
	Options  []string
	Answers  []string
}

// Flatten folds the nested group hierarchy (including one level of
// children) into an ordered fragment list. When the structured question
// text across all groups is shorter than minPrimaryLen characters and
// the response's flat RawText field is longer, the raw text wins as a
// single fragment.
func Flatten(resp Response) []FragmentText {
	var frags []FragmentText
	total := 0
	for _, g := range resp.Groups {
		frags = appendGroup(frags, g, &total)
		for _, child := range g.Children {
			frags = appendGroup(frags, child, &total)
		}
	}

	if total < minPrimaryLen && len(resp.RawText) > total {
		return []FragmentText{{Question: resp.RawText}}
	}
	return frags
}

func appendGroup(frags []FragmentText, g Group, total *int) []FragmentText {
	q := strings.TrimSpace(strings.Join(g.Questions, "\n"))
	if q == "" && len(g.Options) == 0 && len(g.Answers) == 0 {
		return frags
	}
	*total += len(q)
	return append(frags, FragmentText{
		Question: q,
		Options:  g.Options,
		Answers:  g.Answers,
	})
}

// Text renders one fragment back into a single block of text with its
// options and answers on their own lines.
func (f FragmentText) Text() string {
	var b strings.Builder
	b.WriteString(f.Question)
	for _, o := range f.Options {
		b.WriteString("\n")
		b.WriteString(o)
	}
	for _, a := range f.Answers {
		if !strings.Contains(a, "：") && !strings.Contains(a, ":") {
			b.WriteString("\n答案：")
			b.WriteString(a)
			continue
		}
		b.WriteString("\n")
		b.WriteString(a)
	}
	return strings.TrimSpace(b.String())
}
