package render

import (
	"bytes"
	"fmt"
	"os/exec"
)

// installHint tells the user how to get rsvg-convert when it is missing.
const installHint = "install librsvg (macOS: brew install librsvg, Debian/Ubuntu: apt install librsvg2-bin)"

// Available reports whether the external rsvg-convert tool is on PATH.
// PDF and PNG conversion need it; SVG and DOT output do not.
func Available() bool {
	_, err := exec.LookPath("rsvg-convert")
	return err == nil
}

// ToPDF converts SVG bytes to a PDF document via rsvg-convert.
func ToPDF(svg []byte) ([]byte, error) {
	return convert(svg, "pdf")
}

// ToPNG converts SVG bytes to a PNG raster via rsvg-convert. The scale
// factor multiplies the SVG's nominal size, so 2.0 doubles the pixel
// dimensions. Scales at or below zero fall back to 1.0.
func ToPNG(svg []byte, scale float64) ([]byte, error) {
	if scale <= 0 {
		scale = 1.0
	}
	return convert(svg, "png", "-z", fmt.Sprintf("%.2f", scale))
}

// convert pipes svg through rsvg-convert and returns the converted bytes.
func convert(svg []byte, format string, args ...string) ([]byte, error) {
	if !Available() {
		return nil, fmt.Errorf("%s output needs rsvg-convert: %s", format, installHint)
	}

	cmd := exec.Command("rsvg-convert", append([]string{"-f", format}, args...)...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert %s: %w: %s", format, err, bytes.TrimSpace(stderr.Bytes()))
	}
	return out.Bytes(), nil
}
