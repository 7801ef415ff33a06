package question

import (
	"regexp"
	"strings"
)

// ---------------------------------------------------------------------------
// Labeled-field extraction
// ---------------------------------------------------------------------------

var (
	answerLabel   = regexp.MustCompile(`(?im)(?:答案|answer)\s*[:：]\s*(.+)`)
	analysisLabel = regexp.MustCompile(`(?im)(?:解析|分析|analysis|explanation)\s*[:：]\s*(.+)`)

	// optionLabel anchors each "A." / "B、" / "C)" marker. Matching is
	// positional: option text runs until the next marker or a labeled
	// answer/analysis line.
	optionLabel = regexp.MustCompile(`(^|[\s（(])([A-D])\s*[.、)）]\s*`)
)

// ExtractAnswer returns the first labeled answer in the block, or "".
// No cross-validation against extracted options happens here — this is
// textual extraction, not semantic.
func ExtractAnswer(text string) string {
	if m := answerLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractAnalysis returns the first labeled analysis/explanation, or "".
func ExtractAnalysis(text string) string {
	if m := analysisLabel.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

// ExtractOptions pulls the labeled options (A-D) out of a block, in
// label order of appearance. The stem portion before the first label is
// not touched; use StemOf for that.
func ExtractOptions(text string) []Option {
	matches := optionLabel.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		return nil
	}

	var opts []Option
	for i, m := range matches {
		// m[1] is the end of the full label match (start of option text).
		start := m[1]
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		body := text[start:end]
		// Options never span into a labeled answer/analysis line.
		if loc := answerLabel.FindStringIndex(body); loc != nil {
			body = body[:loc[0]]
		}
		if loc := analysisLabel.FindStringIndex(body); loc != nil {
			body = body[:loc[0]]
		}
		body = strings.TrimSpace(body)
		if body == "" {
			continue
		}
		opts = append(opts, Option{Text: body})
	}
	return opts
}

// StemOf returns the question stem: the block text up to the first
// option label, with the leading numbering marker and any labeled
// answer/analysis lines removed.
func StemOf(text string) string {
	stem := text
	if m := optionLabel.FindStringIndex(stem); m != nil {
		stem = stem[:m[0]]
	}
	if loc := answerLabel.FindStringIndex(stem); loc != nil {
		stem = stem[:loc[0]]
	}
	if loc := analysisLabel.FindStringIndex(stem); loc != nil {
		stem = stem[:loc[0]]
	}
	return StripLeadingMarker(stem)
}

// markersToStrip mirrors the boundary marker set so that stems do not
// keep their numbering prefix.
var markersToStrip = []*regexp.Regexp{
	regexp.MustCompile(`^\s*第\s*\d+\s*题\s*[.、:：]?`),
	regexp.MustCompile(`^\s*题目\s*\d+\s*[.、:：]?`),
	regexp.MustCompile(`(?i)^\s*Question\s+\d+\s*[.、:：]?`),
	regexp.MustCompile(`^\s*[（(]\s*\d+\s*[)）]\s*`),
	regexp.MustCompile(`^\s*\d+\s*[.、]\s*`),
	regexp.MustCompile(`^\s*[一二三四五六七八九十百]+\s*[.、]\s*`),
}

// StripLeadingMarker removes the numbering marker starting a block, if
// any, and trims the remainder.
func StripLeadingMarker(text string) string {
	text = strings.TrimSpace(text)
	for _, re := range markersToStrip {
		if loc := re.FindStringIndex(text); loc != nil && loc[0] == 0 {
			return strings.TrimSpace(text[loc[1]:])
		}
	}
	return text
}

// FromBlock assembles a full question record from one detected block:
// classify, extract labeled fields, and for choice questions the
// options. The options invariant (choice only) is enforced here.
func FromBlock(b Block) Question {
	q := New(ClassifyType(b.Raw))
	q.Stem = StemOf(b.Raw)
	q.Answer = ExtractAnswer(b.Raw)
	q.Analysis = ExtractAnalysis(b.Raw)
	if q.Type == TypeChoice {
		q.Options = ExtractOptions(b.Raw)
	}
	return q
}
