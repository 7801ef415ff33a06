package question

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// ---------------------------------------------------------------------------
// OCR fragment merging
// ---------------------------------------------------------------------------

// minSimilarity is the Jaccard similarity below which two adjacent
// fragments are never merged.
const minSimilarity = 0.3

// maxNumeralGap is the largest numbering gap that can still belong to
// one logical question.
const maxNumeralGap = 1

// Fragment is one independently recognized question-like unit, already
// classified and extracted, before merging.
type Fragment struct {
	Question
	Numeral    int
	HasNumeral bool
}

// MergeFragments re-orders a flat fragment list and merges runs of
// fragments that belong to the same logical question. Recognizers emit
// multi-part questions as several separately recognized pieces; this
// restores logical units while refusing to merge across a missing
// numeral, a numbering jump, an evident type discontinuity or
// dissimilar content. Singleton groups pass through unchanged, so the
// operation is idempotent on already-merged input.
func MergeFragments(frags []Fragment) []Question {
	if len(frags) == 0 {
		return nil
	}

	sorted := make([]Fragment, len(frags))
	copy(sorted, frags)
	sort.SliceStable(sorted, func(i, j int) bool {
		return numeralOf(sorted[i]) < numeralOf(sorted[j])
	})

	var out []Question
	group := []Fragment{sorted[0]}
	for i := 1; i < len(sorted); i++ {
		if boundaryBetween(sorted[i-1], sorted[i]) {
			out = append(out, mergeGroup(group))
			group = []Fragment{sorted[i]}
			continue
		}
		group = append(group, sorted[i])
	}
	out = append(out, mergeGroup(group))
	return out
}

// numeralOf returns the fragment's sort key; fragments without a
// parsable numeral sort first.
func numeralOf(f Fragment) int {
	if !f.HasNumeral {
		return 0
	}
	return f.Numeral
}

// boundaryBetween decides whether next starts a new logical question.
func boundaryBetween(cur, next Fragment) bool {
	// No numeral on either side is a hard boundary: without numbering
	// evidence merging is guesswork.
	if !cur.HasNumeral || !next.HasNumeral {
		return true
	}
	if next.Numeral-cur.Numeral > maxNumeralGap {
		return true
	}
	if cur.Type == TypeSolution && next.Type == TypeChoice {
		return true
	}
	if cur.Type == TypeFill && next.Type == TypeChoice {
		return true
	}
	return stemSimilarity(cur.Stem, next.Stem) < minSimilarity
}

// mergeGroup folds a run of fragments into one question. The weakest
// member bounds the merged confidence.
func mergeGroup(group []Fragment) Question {
	if len(group) == 1 {
		return group[0].Question
	}

	merged := group[0].Question
	stems := make([]string, 0, len(group))
	var answers []string
	merged.Options = nil

	sameType := true
	for _, f := range group {
		stems = append(stems, fmt.Sprintf("(%d) %s", f.Numeral, f.Stem))
		merged.Options = append(merged.Options, f.Options...)
		if f.Answer != "" {
			answers = append(answers, f.Answer)
		}
		if f.Type != merged.Type {
			sameType = false
		}
		if f.Difficulty > merged.Difficulty {
			merged.Difficulty = f.Difficulty
		}
		if f.Confidence < merged.Confidence {
			merged.Confidence = f.Confidence
		}
		for _, tag := range f.Tags {
			merged.AddTag(tag)
		}
	}

	merged.Stem = strings.Join(stems, "\n")
	merged.Answer = strings.Join(answers, "\n")
	if !sameType {
		merged.Type = TypeSolution
	}
	if merged.Type != TypeChoice {
		merged.Options = nil
	}
	merged.Difficulty = ClampDifficulty(merged.Difficulty)
	return merged
}

// stemSimilarity is the Jaccard ratio of the two stems' character sets,
// restricted to CJK and alphanumeric runes.
func stemSimilarity(a, b string) float64 {
	sa := contentRunes(a)
	sb := contentRunes(b)
	if len(sa) == 0 || len(sb) == 0 {
		return 0
	}

	inter := 0
	for r := range sa {
		if sb[r] {
			inter++
		}
	}
	union := len(sa) + len(sb) - inter
	return float64(inter) / float64(union)
}

func contentRunes(s string) map[rune]bool {
	set := make(map[rune]bool)
	for _, r := range s {
		if unicode.Is(unicode.Han, r) || unicode.IsLetter(r) || unicode.IsDigit(r) {
			set[r] = true
		}
	}
	return set
}
