package question

import (
	"regexp"
	"strings"
)

// minBlockLen is the minimum rune length for a block to be kept; shorter
// blocks are treated as segmentation noise.
const minBlockLen = 10

// DetectMode selects the boundary marker set.
type DetectMode int

const (
	// ModeDocument splits on blank-line paragraphs with the base
	// numbering markers.
	ModeDocument DetectMode = iota
	// ModeOCR works line by line and accepts the additional marker
	// shapes produced by recognizers (letter labels, 第N题, Question N).
	ModeOCR
)

// Block is a candidate question: the text between two detected
// numbering boundaries.
type Block struct {
	Raw       string
	OrderHint int  // leading numeral, if any
	HasOrder  bool
}

// ---------------------------------------------------------------------------
// Boundary marker patterns
// ---------------------------------------------------------------------------

var (
	// "1." / "2、"
	markArabic = regexp.MustCompile(`^\s*\d+\s*[.、]`)
	// "(1)" / "（1）"
	markParen = regexp.MustCompile(`^\s*[（(]\s*\d+\s*[)）]`)
	// "一、" / "二."
	markCJK = regexp.MustCompile(`^\s*[一二三四五六七八九十百]+\s*[.、]`)

	// OCR-only shapes
	markLetter   = regexp.MustCompile(`^\s*[A-Z]\s*[.、]`)
	markDiN      = regexp.MustCompile(`^\s*第\s*\d+\s*题`)
	markTimuN    = regexp.MustCompile(`^\s*题目\s*\d+`)
	markQuestion = regexp.MustCompile(`(?i)^\s*Question\s+\d+`)

	leadingNumeral = regexp.MustCompile(`^\s*[（(]?\s*(\d+)\s*[)）.、]`)

	blankLine = regexp.MustCompile(`\n\s*\n`)
)

var documentMarks = []*regexp.Regexp{markArabic, markParen, markCJK}

var ocrMarks = []*regexp.Regexp{
	markArabic, markParen, markCJK,
	markLetter, markDiN, markTimuN, markQuestion,
}

// IsBoundary reports whether a line starts a new question block under
// the given mode.
func IsBoundary(line string, mode DetectMode) bool {
	marks := documentMarks
	if mode == ModeOCR {
		marks = ocrMarks
	}
	for _, re := range marks {
		if re.MatchString(line) {
			return true
		}
	}
	return false
}

// LeadingNumeral parses the numeral beginning a block ("1.", "(3)",
// "第2题", ...). The second return is false when no numeral is present.
func LeadingNumeral(text string) (int, bool) {
	text = strings.TrimSpace(text)
	if m := leadingNumeral.FindStringSubmatch(text); m != nil {
		return atoiSafe(m[1]), true
	}
	if m := markDiN.FindString(text); m != "" {
		return atoiSafe(digitsOf(m)), true
	}
	if m := markTimuN.FindString(text); m != "" {
		return atoiSafe(digitsOf(m)), true
	}
	if m := markQuestion.FindString(text); m != "" {
		return atoiSafe(digitsOf(m)), true
	}
	return 0, false
}

// DetectBlocks groups text into candidate question blocks.
//
// In ModeDocument the unit is the blank-line separated paragraph; in
// ModeOCR it is the single line. A unit matching a boundary marker
// starts a new block and following units accumulate into it. Blocks
// shorter than minBlockLen runes are dropped as noise.
func DetectBlocks(text string, mode DetectMode) []Block {
	units := splitUnits(text, mode)
	if len(units) == 0 {
		return nil
	}

	var blocks []Block
	var cur []string
	flush := func() {
		if len(cur) == 0 {
			return
		}
		raw := strings.TrimSpace(strings.Join(cur, "\n"))
		cur = nil
		if len([]rune(raw)) < minBlockLen {
			return
		}
		b := Block{Raw: raw}
		b.OrderHint, b.HasOrder = LeadingNumeral(raw)
		blocks = append(blocks, b)
	}

	for _, u := range units {
		if IsBoundary(u, mode) {
			flush()
		}
		cur = append(cur, u)
	}
	flush()
	return blocks
}

// splitUnits breaks text into the grouping units for a mode: paragraphs
// for documents, non-empty lines for OCR output.
func splitUnits(text string, mode DetectMode) []string {
	if mode == ModeOCR {
		var lines []string
		for _, l := range strings.Split(text, "\n") {
			if strings.TrimSpace(l) != "" {
				lines = append(lines, strings.TrimSpace(l))
			}
		}
		return lines
	}

	var paras []string
	for _, p := range blankLine.Split(text, -1) {
		if strings.TrimSpace(p) != "" {
			paras = append(paras, strings.TrimSpace(p))
		}
	}
	return paras
}

func digitsOf(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}
