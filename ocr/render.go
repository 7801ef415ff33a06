package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/ChesterZhangz/questionbank-sub004/segment"
)

// RegionRenderer rasterizes one page region into an image payload for
// recognition. The pipeline treats the output opaquely.
type RegionRenderer interface {
	RenderRegion(ctx context.Context, path string, a segment.Area) ([]byte, error)
}

// Runner executes external commands; it exists so renderer tests can
// stub the rasterizer binary.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb
	err := cmd.Run()
	return out.Bytes(), errb.Bytes(), err
}

// ExecRenderer shells out to an external rasterizer (pdftoppm by
// default) and crops the rendered page proportionally to the area's
// position on the reference canvas. All intermediate files live in a
// per-call temp directory that is removed on every exit path.
type ExecRenderer struct {
	Tool   string // binary name or path; default "pdftoppm"
	DPI    int    // default 150
	Runner Runner
	Logger *slog.Logger
}

// NewExecRenderer builds a renderer with defaults filled in.
func NewExecRenderer(tool string, dpi int, logger *slog.Logger) *ExecRenderer {
	if tool == "" {
		tool = "pdftoppm"
	}
	if dpi <= 0 {
		dpi = 150
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ExecRenderer{Tool: tool, DPI: dpi, Runner: execRunner{}, Logger: logger}
}

func (r *ExecRenderer) RenderRegion(ctx context.Context, path string, a segment.Area) ([]byte, error) {
	tmpDir, err := os.MkdirTemp("", "qb-render-*")
	if err != nil {
		return nil, fmt.Errorf("creating render dir: %w", err)
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.Logger.Warn("ocr: failed to remove render dir", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	pageArg := strconv.Itoa(a.Page)
	_, errb, err := r.Runner.Run(ctx, r.Tool,
		"-r", strconv.Itoa(r.DPI),
		"-f", pageArg, "-l", pageArg,
		"-png", path, prefix,
	)
	if err != nil {
		return nil, fmt.Errorf("rendering page %d: %w (%s)", a.Page, err, truncate(errb, 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("rasterizer produced no image for page %d", a.Page)
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		return nil, fmt.Errorf("reading rendered page: %w", err)
	}

	cropped, err := cropProportional(data, a)
	if err != nil {
		return nil, err
	}
	return cropped, nil
}

// cropProportional cuts the area rectangle out of the page image,
// scaling reference-canvas coordinates to the rendered pixel size.
func cropProportional(data []byte, a segment.Area) ([]byte, error) {
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding rendered page: %w", err)
	}

	bounds := img.Bounds()
	w := float64(bounds.Dx())
	h := float64(bounds.Dy())

	rect := image.Rect(
		bounds.Min.X+int(a.X/segment.RefWidth*w),
		bounds.Min.Y+int(a.Y/segment.RefHeight*h),
		bounds.Min.X+int((a.X+a.Width)/segment.RefWidth*w),
		bounds.Min.Y+int((a.Y+a.Height)/segment.RefHeight*h),
	)
	rect = rect.Intersect(bounds)
	if rect.Empty() {
		rect = bounds
	}

	sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	})
	if !ok {
		return data, nil
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, sub.SubImage(rect)); err != nil {
		return nil, fmt.Errorf("encoding cropped region: %w", err)
	}
	return buf.Bytes(), nil
}
