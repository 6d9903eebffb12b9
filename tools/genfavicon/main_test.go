package main

import (
	"image/color"
	"testing"
)

func TestRenderIcon(t *testing.T) {
	img := renderIcon(32)

	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 32 {
		t.Fatalf("bounds = %v, want 32x32", b)
	}
	if got := img.NRGBAAt(0, 0); got.A != 0 {
		t.Errorf("corner pixel should be transparent, got %v", got)
	}
	if got := img.NRGBAAt(3, 3); got != bgColor {
		t.Errorf("background pixel = %v, want %v", got, bgColor)
	}
	// Inside the left peak and at the sun's center.
	white := color.NRGBA{255, 255, 255, 255}
	for _, p := range [][2]int{{13, 20}, {21, 10}} {
		if got := img.NRGBAAt(p[0], p[1]); got != white {
			t.Errorf("glyph pixel %v = %v, want white", p, got)
		}
	}
}

func TestRoundedBoxSDF(t *testing.T) {
	if d := roundedBoxSDF(0, 0, 10, 10, 2); d >= 0 {
		t.Errorf("center distance = %v, want negative", d)
	}
	if d := roundedBoxSDF(20, 0, 10, 10, 2); d <= 0 {
		t.Errorf("outside distance = %v, want positive", d)
	}
}
