package segment

import "strings"

// Reference canvas dimensions. Area coordinates are expressed against
// this assumed canvas, not the document's real units — the mapping from
// area to text is proportional and approximate by construction.
const (
	RefWidth  = 800.0
	RefHeight = 1000.0
)

// narrowWidthRatio is the relative width below which an area is treated
// as a narrow column and lines are additionally cropped horizontally.
const narrowWidthRatio = 0.3

// Area is a rectangular region of one page on the reference canvas.
type Area struct {
	ID     string  `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Page   int     `json:"pageNumber"` // 1-based
}

// ExtractArea maps an area to a substring of the given page text using
// proportional position heuristics. It never fails: out-of-range
// coordinates are clamped and an empty page yields an empty string.
func ExtractArea(pageText string, a Area) string {
	lines := NonEmptyLines(pageText)
	if len(lines) == 0 {
		return ""
	}

	relY := clamp01(a.Y / RefHeight)
	relH := clamp01(a.Height / RefHeight)
	relX := clamp01(a.X / RefWidth)
	relW := clamp01(a.Width / RefWidth)

	start := int(relY * float64(len(lines)))
	end := int((relY + relH) * float64(len(lines)))
	if start >= len(lines) {
		start = len(lines) - 1
	}
	if end >= len(lines) {
		end = len(lines) - 1
	}
	if end < start {
		end = start
	}

	selected := lines[start : end+1]
	if relW >= narrowWidthRatio {
		return strings.Join(selected, "\n")
	}

	// Narrow region: crop each line to the proportional rune range.
	cropped := make([]string, 0, len(selected))
	for _, line := range selected {
		cropped = append(cropped, cropLine(line, relX, relW))
	}
	return strings.Join(cropped, "\n")
}

// cropLine cuts a proportional horizontal slice out of one line.
func cropLine(line string, relX, relW float64) string {
	runes := []rune(line)
	if len(runes) == 0 {
		return line
	}
	from := int(relX * float64(len(runes)))
	to := int((relX + relW) * float64(len(runes)))
	if from >= len(runes) {
		from = len(runes) - 1
	}
	if to > len(runes) {
		to = len(runes)
	}
	if to <= from {
		to = from + 1
	}
	return string(runes[from:to])
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
