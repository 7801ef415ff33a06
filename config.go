package questionbank

import (
	"log/slog"
	"time"
)

// Config holds all configuration for the question extraction parser.
type Config struct {
	// Recognition configures the external text-recognition (OCR) service
	// used by the image and area paths.
	Recognition RecognitionConfig `json:"recognition" yaml:"recognition"`

	// Correction configures the optional LLM text-correction service.
	// When disabled (or on any failure) text passes through unchanged.
	Correction CorrectionConfig `json:"correction" yaml:"correction"`

	// Render configures the external region rasterizer for the area path.
	Render RenderConfig `json:"render" yaml:"render"`

	// AreaWorkers bounds concurrent area processing. Results are always
	// collected in input order regardless of this value. Default 4.
	AreaWorkers int `json:"area_workers" yaml:"area_workers"`

	// Logger receives structured pipeline logs. Defaults to slog.Default().
	Logger *slog.Logger `json:"-" yaml:"-"`
}

// RecognitionConfig configures the text-recognition service endpoint.
type RecognitionConfig struct {
	BaseURL string        `json:"base_url" yaml:"base_url"`
	APIKey  string        `json:"api_key" yaml:"api_key"`
	Timeout time.Duration `json:"timeout" yaml:"timeout"` // per request, default 30s
	Retries int           `json:"retries" yaml:"retries"` // default 3
}

// CorrectionConfig configures the LLM correction provider.
type CorrectionConfig struct {
	Enabled  bool          `json:"enabled" yaml:"enabled"`
	Provider string        `json:"provider" yaml:"provider"` // openai, ollama, custom
	Model    string        `json:"model" yaml:"model"`
	BaseURL  string        `json:"base_url" yaml:"base_url"`
	APIKey   string        `json:"api_key" yaml:"api_key"`
	Timeout  time.Duration `json:"timeout" yaml:"timeout"` // per request, default 2m

	// AllowLenient enables the regex field extractor used when a
	// structured correction response fails strict JSON parsing.
	AllowLenient bool `json:"allow_lenient" yaml:"allow_lenient"`
}

// RenderConfig configures the external page rasterizer used to crop
// area images before recognition.
type RenderConfig struct {
	Tool string `json:"tool" yaml:"tool"` // binary name or path, default "pdftoppm"
	DPI  int    `json:"dpi" yaml:"dpi"`   // default 150
}

// DefaultConfig returns a Config with sensible defaults. Recognition and
// correction stay unconfigured; the document paths work without them.
func DefaultConfig() Config {
	return Config{
		Recognition: RecognitionConfig{
			Timeout: 30 * time.Second,
			Retries: 3,
		},
		Correction: CorrectionConfig{
			Provider: "openai",
			Model:    "gpt-4o-mini",
			Timeout:  2 * time.Minute,
		},
		Render: RenderConfig{
			Tool: "pdftoppm",
			DPI:  150,
		},
		AreaWorkers: 4,
	}
}
