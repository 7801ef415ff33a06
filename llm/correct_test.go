package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

// ---------------------------------------------------------------------------
// Corrector tests
// ---------------------------------------------------------------------------

// fakeProvider returns a canned reply or error.
type fakeProvider struct {
	reply string
	err   error
	calls int
}

func (f *fakeProvider) Chat(_ context.Context, _ ChatRequest) (*ChatResponse, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return &ChatResponse{Content: f.reply}, nil
}

func newTestCorrector(t *testing.T, p Provider, lenient bool) *Corrector {
	t.Helper()
	c, err := NewCorrector(p, "test-model", time.Minute, lenient, nil)
	if err != nil {
		t.Fatalf("NewCorrector: %v", err)
	}
	return c
}

func TestCorrectText(t *testing.T) {
	c := newTestCorrector(t, &fakeProvider{reply: "纠正后的文本"}, false)
	if got := c.CorrectText(context.Background(), "识别错误的文本"); got != "纠正后的文本" {
		t.Errorf("CorrectText = %q, want the corrected reply", got)
	}
}

func TestCorrectTextSoftFails(t *testing.T) {
	original := "保持原样的文本"

	tests := []struct {
		name string
		p    Provider
	}{
		{"provider_error", &fakeProvider{err: errors.New("connection refused")}},
		{"empty_reply", &fakeProvider{reply: "   "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestCorrector(t, tt.p, false)
			if got := c.CorrectText(context.Background(), original); got != original {
				t.Errorf("CorrectText = %q, want original %q", got, original)
			}
		})
	}
}

func TestCorrectTextNilCorrector(t *testing.T) {
	var c *Corrector
	if got := c.CorrectText(context.Background(), "原文"); got != "原文" {
		t.Errorf("nil corrector should pass text through, got %q", got)
	}
}

func TestCorrectTextBlankInputSkipsProvider(t *testing.T) {
	p := &fakeProvider{reply: "should not be used"}
	c := newTestCorrector(t, p, false)
	if got := c.CorrectText(context.Background(), "   "); got != "   " {
		t.Errorf("blank input should pass through, got %q", got)
	}
	if p.calls != 0 {
		t.Errorf("provider called %d times for blank input, want 0", p.calls)
	}
}

// ---------------------------------------------------------------------------
// Structured correction tests
// ---------------------------------------------------------------------------

func TestCorrectQuestionStrict(t *testing.T) {
	reply := `{"stem": "修正后的题干", "answer": "B", "analysis": "修正后的解析"}`
	c := newTestCorrector(t, &fakeProvider{reply: reply}, false)

	out, err := c.CorrectQuestion(context.Background(), "原始题目")
	if err != nil {
		t.Fatalf("CorrectQuestion: %v", err)
	}
	if out.Stem != "修正后的题干" || out.Answer != "B" {
		t.Errorf("out = %+v", out)
	}
}

func TestCorrectQuestionCodeFence(t *testing.T) {
	reply := "```json\n{\"stem\": \"题干\"}\n```"
	c := newTestCorrector(t, &fakeProvider{reply: reply}, false)

	out, err := c.CorrectQuestion(context.Background(), "原文")
	if err != nil {
		t.Fatalf("CorrectQuestion: %v", err)
	}
	if out.Stem != "题干" {
		t.Errorf("Stem = %q", out.Stem)
	}
}

func TestCorrectQuestionSchemaViolation(t *testing.T) {
	// Valid JSON, but missing the required stem.
	reply := `{"answer": "B"}`
	c := newTestCorrector(t, &fakeProvider{reply: reply}, false)

	if _, err := c.CorrectQuestion(context.Background(), "原文"); err == nil {
		t.Fatal("expected schema validation error")
	}
}

// Broken JSON is an error with leniency off and a recovery with it on.
func TestCorrectQuestionLenientFlag(t *testing.T) {
	broken := `{"stem": "可恢复的题干", "answer": "A",}`

	strict := newTestCorrector(t, &fakeProvider{reply: broken}, false)
	if _, err := strict.CorrectQuestion(context.Background(), "原文"); err == nil {
		t.Fatal("strict corrector must reject malformed JSON")
	}

	lenient := newTestCorrector(t, &fakeProvider{reply: broken}, true)
	out, err := lenient.CorrectQuestion(context.Background(), "原文")
	if err != nil {
		t.Fatalf("lenient corrector: %v", err)
	}
	if out.Stem != "可恢复的题干" || out.Answer != "A" {
		t.Errorf("out = %+v", out)
	}
}

func TestCorrectQuestionProviderError(t *testing.T) {
	c := newTestCorrector(t, &fakeProvider{err: errors.New("boom")}, true)
	if _, err := c.CorrectQuestion(context.Background(), "原文"); err == nil {
		t.Fatal("provider errors must propagate")
	}
}

// ---------------------------------------------------------------------------
// Lenient extraction tests
// ---------------------------------------------------------------------------

func TestLenientExtract(t *testing.T) {
	content := `{"stem": "题干内容", "answer": "C", "analysis": "解析内容",}`
	out, err := LenientExtract(content)
	if err != nil {
		t.Fatalf("LenientExtract: %v", err)
	}
	if out.Stem != "题干内容" || out.Answer != "C" || out.Analysis != "解析内容" {
		t.Errorf("out = %+v", out)
	}
}

func TestLenientExtractEscapes(t *testing.T) {
	content := `{"stem": "带\"引号\"的题干"}`
	out, err := LenientExtract(content)
	if err != nil {
		t.Fatalf("LenientExtract: %v", err)
	}
	if !strings.Contains(out.Stem, `"引号"`) {
		t.Errorf("Stem = %q, escaped quotes should be decoded", out.Stem)
	}
}

func TestLenientExtractNoStem(t *testing.T) {
	if _, err := LenientExtract(`{"answer": "B"}`); err == nil {
		t.Fatal("expected error when no stem is recoverable")
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"```json\n{\"a\":1}\n```", `{"a":1}`},
		{"```\n{\"a\":1}\n```", `{"a":1}`},
		{`{"a":1}`, `{"a":1}`},
		{"  plain  ", "plain"},
	}
	for _, tt := range tests {
		if got := stripCodeFence(tt.in); got != tt.want {
			t.Errorf("stripCodeFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
