// Command genfavicon generates the gallery's PNG favicons: a white photo
// glyph (a sun over two peaks) on a teal rounded-rect background.
// Run from the repository root: go run ./tools/genfavicon
package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/vector"
)

const (
	viewboxSz = 32.0
	cornerR   = 6.0
)

var bgColor = color.NRGBA{13, 148, 136, 255} // #0D9488 (teal-600)

// peaks is the mountain outline in viewbox units, clockwise from the
// bottom-left corner of the photo frame.
var peaks = [][2]float32{
	{7, 24}, {13, 14}, {17, 19.5}, {20, 16}, {25, 24},
}

// sun is the center and radius of the sun disc in viewbox units.
var sun = [3]float32{21, 10, 2.5}

func main() {
	outDir := filepath.Join("web", "static", "img")
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		fmt.Fprintf(os.Stderr, "create dir: %v\n", err)
		os.Exit(1)
	}

	targets := []struct {
		name string
		size int
	}{
		{"favicon-16x16.png", 16},
		{"favicon-32x32.png", 32},
		{"apple-touch-icon.png", 180},
	}

	for _, t := range targets {
		p := filepath.Join(outDir, t.name)
		if err := writePNG(p, renderIcon(t.size)); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("generated %s (%dx%d)\n", p, t.size, t.size)
	}
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path) //nolint:gosec // G304: fixed output path under web/static
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close() //nolint:errcheck
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}

func renderIcon(size int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	s := float64(size) / viewboxSz

	half := float64(size) / 2.0
	cr := cornerR * s
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			d := roundedBoxSDF(float64(x)+0.5-half, float64(y)+0.5-half, half, half, cr)
			if d <= -0.5 {
				img.SetNRGBA(x, y, bgColor)
			} else if d < 0.5 {
				blend(img, x, y, bgColor, 0.5-d)
			}
		}
	}

	rasterizeGlyph(img, size)
	return img
}

// rasterizeGlyph draws the peaks and the sun as white onto img.
func rasterizeGlyph(img *image.NRGBA, size int) {
	k := float32(size) / viewboxSz

	var r vector.Rasterizer
	r.Reset(size, size)

	r.MoveTo(peaks[0][0]*k, peaks[0][1]*k)
	for _, p := range peaks[1:] {
		r.LineTo(p[0]*k, p[1]*k)
	}
	r.ClosePath()

	// Circle from four cubic arcs; c is the standard control distance.
	cx, cy, rad := sun[0]*k, sun[1]*k, sun[2]*k
	c := rad * 0.5523
	r.MoveTo(cx+rad, cy)
	r.CubeTo(cx+rad, cy+c, cx+c, cy+rad, cx, cy+rad)
	r.CubeTo(cx-c, cy+rad, cx-rad, cy+c, cx-rad, cy)
	r.CubeTo(cx-rad, cy-c, cx-c, cy-rad, cx, cy-rad)
	r.CubeTo(cx+c, cy-rad, cx+rad, cy-c, cx+rad, cy)
	r.ClosePath()

	r.Draw(img, img.Bounds(), image.White, image.Point{})
}

// roundedBoxSDF returns the signed distance from (px, py) to a rounded rect
// centered at the origin. Negative = inside, positive = outside.
func roundedBoxSDF(px, py, bx, by, r float64) float64 {
	qx := math.Abs(px) - bx + r
	qy := math.Abs(py) - by + r
	return math.Sqrt(math.Max(qx, 0)*math.Max(qx, 0)+math.Max(qy, 0)*math.Max(qy, 0)) +
		math.Min(math.Max(qx, qy), 0) - r
}

// blend alpha-composites color c at the given alpha over the existing pixel.
func blend(img *image.NRGBA, x, y int, c color.NRGBA, alpha float64) {
	if alpha <= 0 {
		return
	}
	alpha = math.Min(alpha, 1)

	dst := img.NRGBAAt(x, y)
	sa := float64(c.A) / 255.0 * alpha
	da := float64(dst.A) / 255.0
	oa := sa + da*(1-sa)
	if oa == 0 {
		return
	}

	img.SetNRGBA(x, y, color.NRGBA{
		R: uint8(math.Round((float64(c.R)*sa + float64(dst.R)*da*(1-sa)) / oa)),
		G: uint8(math.Round((float64(c.G)*sa + float64(dst.G)*da*(1-sa)) / oa)),
		B: uint8(math.Round((float64(c.B)*sa + float64(dst.B)*da*(1-sa)) / oa)),
		A: uint8(math.Round(oa * 255)),
	})
}
