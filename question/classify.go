package question

import "regexp"

// ---------------------------------------------------------------------------
// Type classification
// ---------------------------------------------------------------------------

// Option markers. "A." through "(D)" plus circled numerals, which some
// sources use in place of letters.
var optionMarks = []*regexp.Regexp{
	regexp.MustCompile(`(?m)(^|\s)[A-D]\s*[.、)]`),
	regexp.MustCompile(`[（(]\s*[A-D]\s*[)）]`),
	regexp.MustCompile(`[①②③④⑤⑥⑦⑧⑨⑩]`),
}

// Blank markers: repeated underscores, empty parentheticals, the TeX
// fill placeholders.
var blankMarks = []*regexp.Regexp{
	regexp.MustCompile(`_{2,}`),
	regexp.MustCompile(`[（(]\s*[)）]`),
	regexp.MustCompile(`\\fill\b`),
	regexp.MustCompile(`\\underline\b`),
	regexp.MustCompile(`\\boxed\b`),
}

// ClassifyType classifies block text as choice, fill or solution. The
// check order matters: option markers win over blank markers because
// choice stems frequently contain blanks too; solution is the default.
// Pure function of the text.
func ClassifyType(text string) Type {
	for _, re := range optionMarks {
		if re.MatchString(text) {
			return TypeChoice
		}
	}
	for _, re := range blankMarks {
		if re.MatchString(text) {
			return TypeFill
		}
	}
	return TypeSolution
}
