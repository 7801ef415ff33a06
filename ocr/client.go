package ocr

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
)

// Config configures the recognition service client.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration // per request; default 30s
	Retries int           // default 3
}

// Client recognizes text in image payloads via the external service.
type Client struct {
	cfg    Config
	http   *http.Client
	logger *slog.Logger
}

// NewClient builds a recognition client. A nil logger falls back to
// slog.Default().
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.Retries <= 0 {
		cfg.Retries = 3
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		logger: logger,
	}
}

// Configured reports whether a service endpoint is set.
func (c *Client) Configured() bool { return c.cfg.BaseURL != "" }

type recognizeRequest struct {
	Image string `json:"image"` // base64 payload
}

// Recognize submits one image payload and returns the service response.
// Transient failures are retried with backoff inside the configured
// timeout budget; a final failure is returned to the caller, who records
// it per fragment rather than failing the whole document.
func (c *Client) Recognize(ctx context.Context, image []byte) (Response, error) {
	if !c.Configured() {
		return Response{}, fmt.Errorf("recognition service not configured")
	}

	body, err := json.Marshal(recognizeRequest{Image: base64.StdEncoding.EncodeToString(image)})
	if err != nil {
		return Response{}, fmt.Errorf("encoding recognition request: %w", err)
	}

	start := time.Now()
	var resp Response
	err = retry.Do(
		func() error {
			raw, err := c.post(ctx, body)
			if err != nil {
				return err
			}
			return json.Unmarshal(raw, &resp)
		},
		retry.Attempts(uint(c.cfg.Retries)),
		retry.Context(ctx),
		retry.Delay(500*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			c.logger.Warn("ocr: retrying recognition", "attempt", n+1, "error", err)
		}),
	)
	if err != nil {
		return Response{}, fmt.Errorf("recognition request: %w", err)
	}

	c.logger.Debug("ocr: recognized image",
		"bytes", len(image),
		"groups", len(resp.Groups),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp, nil
}

func (c *Client) post(ctx context.Context, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+"/recognize", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("recognition service error %d: %s", resp.StatusCode, truncate(raw, 512))
	}
	return raw, nil
}

func truncate(b []byte, max int) string {
	if len(b) <= max {
		return string(b)
	}
	return string(b[:max]) + "...(truncated)"
}
