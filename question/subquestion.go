package question

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// ---------------------------------------------------------------------------
// Sub-question parsing
// ---------------------------------------------------------------------------

// Marker families. Each family is scanned independently over the same
// content; the content of one sub-question runs from its marker to the
// next marker of the same family or the end of the block.
var (
	subNumeric = regexp.MustCompile(`[（(]\s*(\d+)\s*[)）]`)
	subCircled = regexp.MustCompile(`[①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳]`)
	subRoman   = regexp.MustCompile(`[（(]\s*([ivx]+)\s*[)）]`)
	subAlpha   = regexp.MustCompile(`[（(]\s*([a-z])\s*[)）]`)
	subCustom  = regexp.MustCompile(`【[^】]*】`)
)

var circledRunes = []rune("①②③④⑤⑥⑦⑧⑨⑩⑪⑫⑬⑭⑮⑯⑰⑱⑲⑳")

// ParseSubQuestions extracts ordered sub-questions from one question
// block's content.
//
// Order is the parsed numeral for the numeric and circled families and
// the 0-based scan position for the roman, alphabetic and custom
// families; the final list is sorted ascending by order. With mixed
// families and non-sequential markers the resulting order may not match
// the author's intent — positional ordering is kept on purpose.
func ParseSubQuestions(content string) []SubQuestion {
	var subs []SubQuestion
	subs = append(subs, scanFamily(content, SubNumeric, subNumeric, parsedOrder)...)
	subs = append(subs, scanFamily(content, SubCircled, subCircled, circledOrder)...)
	subs = append(subs, scanFamily(content, SubRoman, subRoman, positionalOrder)...)
	subs = append(subs, scanFamily(content, SubAlphabetic, subAlpha, positionalOrder)...)
	subs = append(subs, scanFamily(content, SubCustom, subCustom, positionalOrder)...)

	sort.SliceStable(subs, func(i, j int) bool { return subs[i].Order < subs[j].Order })
	return subs
}

// orderFunc derives the order value for the i-th marker occurrence.
type orderFunc func(marker string, index int) int

func parsedOrder(marker string, _ int) int {
	if m := subNumeric.FindStringSubmatch(marker); m != nil {
		return atoiSafe(m[1])
	}
	return 0
}

func circledOrder(marker string, _ int) int {
	for _, r := range marker {
		for i, c := range circledRunes {
			if r == c {
				return i + 1
			}
		}
	}
	return 0
}

func positionalOrder(_ string, index int) int { return index }

// scanFamily runs one marker family over the content.
func scanFamily(content string, kind SubKind, re *regexp.Regexp, order orderFunc) []SubQuestion {
	locs := re.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return nil
	}

	subs := make([]SubQuestion, 0, len(locs))
	for i, loc := range locs {
		end := len(content)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := strings.TrimSpace(content[loc[1]:end])
		if body == "" {
			continue
		}
		subs = append(subs, SubQuestion{
			ID:       uuid.NewString(),
			Kind:     kind,
			Order:    order(content[loc[0]:loc[1]], i),
			Content:  stripSubFields(body),
			Answer:   ExtractAnswer(body),
			Analysis: ExtractAnalysis(body),
		})
	}
	return subs
}

// stripSubFields removes labeled answer/analysis lines from a
// sub-question body so they only appear in their own fields.
func stripSubFields(body string) string {
	if loc := answerLabel.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	if loc := analysisLabel.FindStringIndex(body); loc != nil {
		body = body[:loc[0]]
	}
	return strings.TrimSpace(body)
}
