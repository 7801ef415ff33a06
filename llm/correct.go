package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// correctionSchema constrains structured correction responses. Compiled
// once at corrector construction.
var correctionSchema = map[string]any{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]any{
		"stem":     map[string]any{"type": "string", "minLength": 1},
		"answer":   map[string]any{"type": "string"},
		"analysis": map[string]any{"type": "string"},
	},
	"required": []string{"stem"},
}

// CorrectedQuestion is the structured shape of a correction response.
type CorrectedQuestion struct {
	Stem     string `json:"stem"`
	Answer   string `json:"answer,omitempty"`
	Analysis string `json:"analysis,omitempty"`
}

// Corrector wraps a chat provider into the text-correction
// collaborator. Plain-text correction fails soft: on any provider
// error, timeout or empty reply the original text is returned
// unchanged, so callers never need an error path.
type Corrector struct {
	provider Provider
	model    string
	timeout  time.Duration
	schema   *jsonschema.Schema
	lenient  bool
	logger   *slog.Logger
}

// NewCorrector builds a corrector. allowLenient enables the regex field
// extractor used when a structured response fails strict JSON parsing;
// it is off by default so the fallback path stays opt-in.
func NewCorrector(p Provider, model string, timeout time.Duration, allowLenient bool, logger *slog.Logger) (*Corrector, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}

	raw, err := json.Marshal(correctionSchema)
	if err != nil {
		return nil, fmt.Errorf("encoding correction schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("correction.json", bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("registering correction schema: %w", err)
	}
	schema, err := compiler.Compile("correction.json")
	if err != nil {
		return nil, fmt.Errorf("compiling correction schema: %w", err)
	}

	return &Corrector{
		provider: p,
		model:    model,
		timeout:  timeout,
		schema:   schema,
		lenient:  allowLenient,
		logger:   logger,
	}, nil
}

const correctPrompt = "You fix recognition errors in exam text. Return only the corrected text, " +
	"preserving numbering, option labels and math notation. Do not add commentary."

// CorrectText runs the text through the correction provider. It never
// fails upward: any error returns the input unchanged.
func (c *Corrector) CorrectText(ctx context.Context, text string) string {
	if c == nil || c.provider == nil || strings.TrimSpace(text) == "" {
		return text
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Chat(ctx, ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: correctPrompt},
			{Role: "user", Content: text},
		},
	})
	if err != nil {
		c.logger.Warn("llm: correction failed, keeping original text", "error", err)
		return text
	}
	corrected := strings.TrimSpace(resp.Content)
	if corrected == "" {
		return text
	}
	return corrected
}

const correctStructuredPrompt = "You fix recognition errors in one exam question. Respond with a JSON object " +
	`{"stem": "...", "answer": "...", "analysis": "..."} and nothing else. Omit fields you cannot recover.`

// CorrectQuestion asks for a structured correction of one question. The
// response is strict-parsed and schema-validated; when strict parsing
// fails and the lenient flag is set, the regex extractor recovers what
// it can instead.
func (c *Corrector) CorrectQuestion(ctx context.Context, text string) (CorrectedQuestion, error) {
	if c == nil || c.provider == nil {
		return CorrectedQuestion{}, fmt.Errorf("corrector not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.provider.Chat(ctx, ChatRequest{
		Model: c.model,
		Messages: []Message{
			{Role: "system", Content: correctStructuredPrompt},
			{Role: "user", Content: text},
		},
		ResponseFormat: "json_object",
	})
	if err != nil {
		return CorrectedQuestion{}, fmt.Errorf("correction request: %w", err)
	}

	out, err := c.parseStrict(resp.Content)
	if err == nil {
		return out, nil
	}
	if !c.lenient {
		return CorrectedQuestion{}, err
	}

	c.logger.Warn("llm: strict correction parse failed, using lenient extractor", "error", err)
	return LenientExtract(resp.Content)
}

// parseStrict decodes and schema-validates a structured response.
func (c *Corrector) parseStrict(content string) (CorrectedQuestion, error) {
	content = stripCodeFence(content)

	var generic any
	if err := json.Unmarshal([]byte(content), &generic); err != nil {
		return CorrectedQuestion{}, fmt.Errorf("decoding correction response: %w", err)
	}
	if err := c.schema.Validate(generic); err != nil {
		return CorrectedQuestion{}, fmt.Errorf("correction response schema: %w", err)
	}

	var out CorrectedQuestion
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return CorrectedQuestion{}, fmt.Errorf("decoding correction fields: %w", err)
	}
	return out, nil
}

// lenient field patterns: the model sometimes wraps valid fields in
// broken JSON (trailing commas, bare newlines inside strings).
var lenientFields = map[string]*regexp.Regexp{
	"stem":     regexp.MustCompile(`"stem"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	"answer":   regexp.MustCompile(`"answer"\s*:\s*"((?:[^"\\]|\\.)*)"`),
	"analysis": regexp.MustCompile(`"analysis"\s*:\s*"((?:[^"\\]|\\.)*)"`),
}

// LenientExtract recovers correction fields from a malformed structured
// response by pattern matching. Exported so the fallback path is
// testable in isolation; production use sits behind the corrector's
// lenient flag.
func LenientExtract(content string) (CorrectedQuestion, error) {
	content = stripCodeFence(content)

	get := func(field string) string {
		if m := lenientFields[field].FindStringSubmatch(content); m != nil {
			var s string
			if err := json.Unmarshal([]byte(`"`+m[1]+`"`), &s); err == nil {
				return s
			}
			return m[1]
		}
		return ""
	}

	out := CorrectedQuestion{
		Stem:     get("stem"),
		Answer:   get("answer"),
		Analysis: get("analysis"),
	}
	if out.Stem == "" {
		return CorrectedQuestion{}, fmt.Errorf("lenient extraction found no stem")
	}
	return out, nil
}

// stripCodeFence removes a markdown code fence wrapper if present.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
