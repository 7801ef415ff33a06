package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestNewProvider(t *testing.T) {
	for _, provider := range []string{"openai", "ollama", "custom"} {
		t.Run(provider, func(t *testing.T) {
			p, err := NewProvider(Config{Provider: provider, Model: "test-model"})
			if err != nil {
				t.Fatalf("NewProvider(%q): %v", provider, err)
			}
			if fmt.Sprintf("%T", p) != "*llm.openAICompatProvider" {
				t.Errorf("NewProvider(%q) type = %T", provider, p)
			}
		})
	}
}

func TestNewProviderUnknown(t *testing.T) {
	_, err := NewProvider(Config{Provider: "doesnotexist"})
	if err == nil {
		t.Fatal("expected error for unknown provider, got nil")
	}
	want := "unknown llm provider: doesnotexist"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

func TestNewProviderEmpty(t *testing.T) {
	_, err := NewProvider(Config{})
	if err == nil {
		t.Fatal("expected error for empty provider, got nil")
	}
	want := "llm provider not specified"
	if err.Error() != want {
		t.Errorf("error = %q, want %q", err.Error(), want)
	}
}

// ---------------------------------------------------------------------------
// Chat round-trip tests
// ---------------------------------------------------------------------------

func chatReply(content string) string {
	return fmt.Sprintf(`{"choices":[{"message":{"content":%q},"finish_reason":"stop"}],"model":"m","usage":{"total_tokens":7}}`, content)
}

func TestChatRoundTrip(t *testing.T) {
	var gotBody chatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, chatReply("corrected text"))
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{BaseURL: srv.URL, Model: "default-model"})
	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages:       []Message{{Role: "user", Content: "hello"}},
		ResponseFormat: "json_object",
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}

	if resp.Content != "corrected text" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TotalTokens != 7 {
		t.Errorf("TotalTokens = %d, want 7", resp.TotalTokens)
	}
	if gotBody.Model != "default-model" {
		t.Errorf("request model = %q, want the config default", gotBody.Model)
	}
	if gotBody.ResponseFormat == nil || gotBody.ResponseFormat.Type != "json_object" {
		t.Errorf("response_format = %+v, want json_object", gotBody.ResponseFormat)
	}
}

func TestChatNoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{BaseURL: srv.URL})
	if _, err := p.Chat(context.Background(), ChatRequest{Model: "m"}); err == nil {
		t.Fatal("expected error for empty choices")
	}
}

func TestChatNonRetryableStatus(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{BaseURL: srv.URL})
	if _, err := p.Chat(context.Background(), ChatRequest{Model: "m"}); err == nil {
		t.Fatal("expected error for 400 response")
	}
	if calls != 1 {
		t.Errorf("server calls = %d; 4xx must not be retried", calls)
	}
}

func TestRetryableStatusCode(t *testing.T) {
	retryable := []int{429, 502, 503, 504}
	for _, code := range retryable {
		if !retryableStatusCode(code) {
			t.Errorf("retryableStatusCode(%d) = false, want true", code)
		}
	}
	for _, code := range []int{200, 400, 401, 404, 500} {
		if retryableStatusCode(code) {
			t.Errorf("retryableStatusCode(%d) = true, want false", code)
		}
	}
}

func TestProviderDefaults(t *testing.T) {
	p := NewOpenAI(Config{}).(*openAICompatProvider)
	if p.base.cfg.BaseURL != "https://api.openai.com" {
		t.Errorf("openai default BaseURL = %q", p.base.cfg.BaseURL)
	}
	if p.base.cfg.Model != "gpt-4o-mini" {
		t.Errorf("openai default Model = %q", p.base.cfg.Model)
	}

	o := NewOllama(Config{}).(*openAICompatProvider)
	if o.base.cfg.BaseURL != "http://localhost:11434" {
		t.Errorf("ollama default BaseURL = %q", o.base.cfg.BaseURL)
	}
}
