// Package models defines the shared image value types passed between the
// denoising pipeline stages.
package models

import (
	"image"
	"image/color"
)

// Image is a packed RGB floating-point image. Samples are interleaved in
// raster order (r, g, b per pixel) and normalized to the [0, 1] range.
type Image struct {
	// Pix holds the interleaved samples; its length is Width*Height*3.
	Pix []float64

	// Width and Height are the pixel dimensions.
	Width  int
	Height int
}

// NewImage allocates a zero-valued packed image of the given dimensions.
func NewImage(width, height int) *Image {
	return &Image{
		Pix:    make([]float64, width*height*3),
		Width:  width,
		Height: height,
	}
}

// FromImage converts a decoded standard-library image into a packed
// floating-point image. The 16-bit samples returned by At() are scaled
// into the [0, 1] range.
func FromImage(src image.Image) *Image {
	bounds := src.Bounds()
	out := NewImage(bounds.Dx(), bounds.Dy())

	i := 0
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := src.At(x, y).RGBA()
			out.Pix[i] = float64(r) / 65535.0
			out.Pix[i+1] = float64(g) / 65535.0
			out.Pix[i+2] = float64(b) / 65535.0
			i += 3
		}
	}

	return out
}

// ToImage converts the packed image back into a 16-bit standard-library
// image suitable for encoding. Samples are clamped to [0, 1] first.
func (m *Image) ToImage() image.Image {
	img := image.NewNRGBA64(image.Rect(0, 0, m.Width, m.Height))

	i := 0
	for y := 0; y < m.Height; y++ {
		for x := 0; x < m.Width; x++ {
			img.SetNRGBA64(x, y, color.NRGBA64{
				R: sampleToUint16(m.Pix[i]),
				G: sampleToUint16(m.Pix[i+1]),
				B: sampleToUint16(m.Pix[i+2]),
				A: 65535,
			})
			i += 3
		}
	}

	return img
}

// Clone returns a deep copy of the image.
func (m *Image) Clone() *Image {
	out := &Image{
		Pix:    make([]float64, len(m.Pix)),
		Width:  m.Width,
		Height: m.Height,
	}
	copy(out.Pix, m.Pix)
	return out
}

// At returns the r, g, b samples of the pixel at (x, y).
func (m *Image) At(x, y int) (r, g, b float64) {
	i := (y*m.Width + x) * 3
	return m.Pix[i], m.Pix[i+1], m.Pix[i+2]
}

func sampleToUint16(v float64) uint16 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 65535
	}
	return uint16(v*65535.0 + 0.5)
}
