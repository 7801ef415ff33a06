package parser

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// LaTeXPipeline handles marked-up exam sources. It strips structural
// noise, counts math spans for the result statistics and leaves the
// body text for question-environment detection.
type LaTeXPipeline struct{}

func (p *LaTeXPipeline) SupportedFormats() []string { return []string{"tex", "latex"} }

// questionEnvNames is the fixed list of environment names treated as
// one question each.
var questionEnvNames = []string{"question", "questions", "problem", "exercise", "example", "quiz"}

var (
	latexComment = regexp.MustCompile(`(?m)(^|[^\\])%.*$`)

	// Structural noise removed before question detection: class and
	// package declarations, title metadata, page-break commands and the
	// document wrapper itself.
	latexNoise = []*regexp.Regexp{
		regexp.MustCompile(`\\documentclass(\[[^\]]*\])?\{[^}]*\}`),
		regexp.MustCompile(`\\usepackage(\[[^\]]*\])?\{[^}]*\}`),
		regexp.MustCompile(`\\(title|author|date)\{[^}]*\}`),
		regexp.MustCompile(`\\maketitle`),
		regexp.MustCompile(`\\(newpage|clearpage|pagebreak)`),
		regexp.MustCompile(`\\(begin|end)\{document\}`),
	}

	displayMath = regexp.MustCompile(`\$\$[^$]+\$\$|\\\[[\s\S]*?\\\]`)
	inlineMath  = regexp.MustCompile(`\$[^$\n]+\$|\\\([\s\S]*?\\\)`)
	namedMath   = regexp.MustCompile(`\\begin\{(equation|align|gather|multline|eqnarray)\*?\}`)

	itemMarker = regexp.MustCompile(`\\item\b`)
	endEnv     = regexp.MustCompile(`\\end\{[^}]*\}`)

	questionEnvs = func() []*regexp.Regexp {
		res := make([]*regexp.Regexp, len(questionEnvNames))
		for i, name := range questionEnvNames {
			res[i] = regexp.MustCompile(`\\begin\{` + name + `\}([\s\S]*?)\\end\{` + name + `\}`)
		}
		return res
	}()
)

func (p *LaTeXPipeline) Parse(ctx context.Context, path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading LaTeX file: %w", err)
	}
	return ParseLaTeX(string(data))
}

// ParseLaTeX processes marked-up content that is already in memory.
func ParseLaTeX(content string) (*Document, error) {
	body := latexComment.ReplaceAllString(content, "$1")

	// Count math before any further rewriting. Display math is counted
	// first and removed from the counting copy so its dollar signs are
	// not recounted as inline spans.
	counting := body
	math := len(displayMath.FindAllString(counting, -1))
	counting = displayMath.ReplaceAllString(counting, "")
	math += len(inlineMath.FindAllString(counting, -1))
	math += len(namedMath.FindAllString(counting, -1))

	for _, re := range latexNoise {
		body = re.ReplaceAllString(body, "")
	}
	body = strings.TrimSpace(body)

	return &Document{
		Text:   body,
		Math:   math,
		Method: "latex",
	}, nil
}

// QuestionEnvironments returns the raw content of each known question
// environment in order. When the document uses none of the known
// environments it falls back to segmenting the body on \item markers.
func QuestionEnvironments(body string) []string {
	var envs []string
	for _, re := range questionEnvs {
		for _, m := range re.FindAllStringSubmatch(body, -1) {
			if c := strings.TrimSpace(m[1]); c != "" {
				envs = append(envs, c)
			}
		}
	}
	if len(envs) > 0 {
		return envs
	}
	return itemSegments(body)
}

// itemSegments splits on \item markers: each item runs to the next
// \item or the end of its enclosing block.
func itemSegments(body string) []string {
	locs := itemMarker.FindAllStringIndex(body, -1)
	if len(locs) == 0 {
		return nil
	}

	var segs []string
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		seg := body[loc[1]:end]
		if m := endEnv.FindStringIndex(seg); m != nil {
			seg = seg[:m[0]]
		}
		if seg = strings.TrimSpace(seg); seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
