package ocr

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"testing"

	"github.com/ChesterZhangz/questionbank-sub004/segment"
)

// ---------------------------------------------------------------------------
// Region renderer tests
// ---------------------------------------------------------------------------

// fakeRunner drops a rendered page PNG where the real rasterizer would,
// or fails, depending on its configuration.
type fakeRunner struct {
	fail bool
	w, h int
}

func (f fakeRunner) Run(_ context.Context, _ string, args ...string) ([]byte, []byte, error) {
	if f.fail {
		return nil, []byte("rasterizer exploded"), errors.New("exit status 1")
	}
	prefix := args[len(args)-1]

	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			img.Set(x, y, color.White)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, nil, err
	}
	return nil, nil, os.WriteFile(prefix+"-1.png", buf.Bytes(), 0644)
}

func TestRenderRegionCrops(t *testing.T) {
	r := NewExecRenderer("", 0, nil)
	r.Runner = fakeRunner{w: 80, h: 100}

	a := segment.Area{
		ID: "a1", Page: 1,
		X: 0, Y: 0,
		Width: segment.RefWidth / 2, Height: segment.RefHeight / 2,
	}
	data, err := r.RenderRegion(context.Background(), "exam.pdf", a)
	if err != nil {
		t.Fatalf("RenderRegion: %v", err)
	}

	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding cropped output: %v", err)
	}
	if got := img.Bounds().Dx(); got != 40 {
		t.Errorf("cropped width = %d, want 40", got)
	}
	if got := img.Bounds().Dy(); got != 50 {
		t.Errorf("cropped height = %d, want 50", got)
	}
}

func TestRenderRegionDegenerateAreaKeepsPage(t *testing.T) {
	r := NewExecRenderer("pdftoppm", 150, nil)
	r.Runner = fakeRunner{w: 20, h: 20}

	// Zero-size area produces an empty crop rectangle; the whole page
	// is returned instead of an error.
	a := segment.Area{ID: "a2", Page: 1}
	data, err := r.RenderRegion(context.Background(), "exam.pdf", a)
	if err != nil {
		t.Fatalf("RenderRegion: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 20 {
		t.Errorf("expected full page fallback, got %v", img.Bounds())
	}
}

func TestRenderRegionToolFailure(t *testing.T) {
	r := NewExecRenderer("", 0, nil)
	r.Runner = fakeRunner{fail: true}

	a := segment.Area{ID: "a3", Page: 2}
	if _, err := r.RenderRegion(context.Background(), "exam.pdf", a); err == nil {
		t.Fatal("expected error when the rasterizer fails")
	}
}

func TestNewExecRendererDefaults(t *testing.T) {
	r := NewExecRenderer("", 0, nil)
	if r.Tool != "pdftoppm" {
		t.Errorf("default Tool = %q, want pdftoppm", r.Tool)
	}
	if r.DPI != 150 {
		t.Errorf("default DPI = %d, want 150", r.DPI)
	}
	if r.Runner == nil || r.Logger == nil {
		t.Error("Runner and Logger must be populated")
	}
}
