package render

import (
	"bytes"
	"context"
	"os/exec"
	"strconv"
	"strings"

	"github.com/matzehuels/stackscope/pkg/errors"
)

// rsvgBinary converts SVG to other formats. It ships with librsvg:
// brew install librsvg (macOS), apt install librsvg2-bin (Linux).
const rsvgBinary = "rsvg-convert"

// ToPDF converts SVG bytes to PDF.
func ToPDF(ctx context.Context, svg []byte) ([]byte, error) {
	return rsvgConvert(ctx, svg, "pdf")
}

// ToPNG converts SVG bytes to PNG. A scale of 2 doubles the resolution.
func ToPNG(ctx context.Context, svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png scale must be positive, got %g", scale)
	}
	return rsvgConvert(ctx, svg, "png", "-z", strconv.FormatFloat(scale, 'f', 2, 64))
}

func rsvgConvert(ctx context.Context, svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath(rsvgBinary); err != nil {
		return nil, errors.New(errors.ErrCodeUnsupported,
			"%s export requires %s (macOS: brew install librsvg, Linux: apt install librsvg2-bin)", format, rsvgBinary)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.CommandContext(ctx, rsvgBinary, args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "%s: %s", rsvgBinary, strings.TrimSpace(stderr.String()))
	}
	return out.Bytes(), nil
}
