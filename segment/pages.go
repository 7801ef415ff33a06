// Package segment splits raw extracted text into logical pages and maps
// rectangular page regions back to text. Both operations are heuristic:
// the pipeline never sees real layout metadata, only the text itself.
package segment

import (
	"regexp"
	"strings"
)

// Segmentation methods reported by SplitPages.
const (
	MethodFormFeed = "form-feed"
	MethodCJKPage  = "cjk-page-marker"
	MethodPageWord = "page-word"
	MethodDashed   = "dashed-number"
	MethodFallback = "fallback"
)

// fallbackPageCount is the assumed page count when no separator pattern
// matches. Purely a coarse approximation; callers should surface the
// fallback method to their users.
const fallbackPageCount = 3

// separator patterns, tried in order. The first one that yields more
// than one non-empty segment wins.
var separators = []struct {
	method string
	re     *regexp.Regexp
}{
	{MethodFormFeed, regexp.MustCompile(`\f`)},
	{MethodCJKPage, regexp.MustCompile(`第\s*\d+\s*页`)},
	{MethodPageWord, regexp.MustCompile(`(?i)Page\s+\d+`)},
	{MethodDashed, regexp.MustCompile(`-\s*\d+\s*-`)},
}

// SplitPages splits text into an ordered list of pages. It returns the
// pages and the method that produced them. Concatenating the pages
// reproduces the original non-whitespace content minus the separator
// artifacts themselves.
func SplitPages(text string) ([]string, string) {
	if strings.TrimSpace(text) == "" {
		return nil, MethodFallback
	}

	for _, sep := range separators {
		parts := sep.re.Split(text, -1)
		pages := make([]string, 0, len(parts))
		for _, p := range parts {
			if strings.TrimSpace(p) != "" {
				pages = append(pages, p)
			}
		}
		if len(pages) > 1 {
			return pages, sep.method
		}
	}

	return splitProportional(text), MethodFallback
}

// splitProportional slices text into fallbackPageCount line-balanced
// chunks. Boundaries here are arbitrary, not ground truth.
func splitProportional(text string) []string {
	lines := strings.Split(text, "\n")
	if len(lines) <= fallbackPageCount {
		return []string{text}
	}

	per := (len(lines) + fallbackPageCount - 1) / fallbackPageCount
	var pages []string
	for start := 0; start < len(lines); start += per {
		end := start + per
		if end > len(lines) {
			end = len(lines)
		}
		page := strings.Join(lines[start:end], "\n")
		if strings.TrimSpace(page) != "" {
			pages = append(pages, page)
		}
	}
	return pages
}

// NonEmptyLines returns the non-empty lines of a page, in order.
func NonEmptyLines(page string) []string {
	var out []string
	for _, line := range strings.Split(page, "\n") {
		if strings.TrimSpace(line) != "" {
			out = append(out, line)
		}
	}
	return out
}
