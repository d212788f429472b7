package models

import (
	"image"
	"image/color"
	"math"
	"testing"
)

func TestFromImageToImageRoundTrip(t *testing.T) {
	src := image.NewNRGBA64(image.Rect(0, 0, 3, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 3; x++ {
			src.SetNRGBA64(x, y, color.NRGBA64{
				R: uint16(x * 20000),
				G: uint16(y * 30000),
				B: 12345,
				A: 65535,
			})
		}
	}

	packed := FromImage(src)
	if packed.Width != 3 || packed.Height != 2 {
		t.Fatalf("expected 3x2, got %dx%d", packed.Width, packed.Height)
	}

	restored := FromImage(packed.ToImage())
	for i := range packed.Pix {
		if math.Abs(restored.Pix[i]-packed.Pix[i]) > 1.0/65535.0 {
			t.Errorf("round trip mismatch at %d: %f vs %f", i, packed.Pix[i], restored.Pix[i])
		}
	}
}

func TestToImageClamping(t *testing.T) {
	img := NewImage(1, 1)
	img.Pix = []float64{1.5, -0.5, 0.5}

	r, g, b, _ := img.ToImage().At(0, 0).RGBA()
	if r != 65535 {
		t.Errorf("expected overflow clamp to 65535, got %d", r)
	}
	if g != 0 {
		t.Errorf("expected underflow clamp to 0, got %d", g)
	}
	if b == 0 || b == 65535 {
		t.Errorf("expected in-range sample, got %d", b)
	}
}

func TestCloneIndependence(t *testing.T) {
	img := NewImage(2, 2)
	img.Pix[0] = 0.25

	clone := img.Clone()
	clone.Pix[0] = 0.75

	if img.Pix[0] != 0.25 {
		t.Errorf("mutating the clone changed the original")
	}
}

func TestAt(t *testing.T) {
	img := NewImage(2, 2)
	img.Pix[(1*2+1)*3] = 0.1
	img.Pix[(1*2+1)*3+1] = 0.2
	img.Pix[(1*2+1)*3+2] = 0.3

	r, g, b := img.At(1, 1)
	if r != 0.1 || g != 0.2 || b != 0.3 {
		t.Errorf("expected (0.1, 0.2, 0.3), got (%f, %f, %f)", r, g, b)
	}
}
