// Package preview produces bounded-size renditions of processed images for
// UI consumption: a downscaled copy, a PNG file, or a base64 data URL.
package preview

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"
	"os"

	xdraw "golang.org/x/image/draw"
)

// DefaultMaxDimension bounds the long edge of generated previews.
const DefaultMaxDimension = 4000

// Fit returns img downscaled so that its long edge does not exceed maxDim,
// preserving aspect ratio. Images already within the bound are returned
// unchanged. maxDim values below one fall back to DefaultMaxDimension.
func Fit(img image.Image, maxDim int) image.Image {
	if maxDim < 1 {
		maxDim = DefaultMaxDimension
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	var newW, newH int
	if w > h {
		newW = maxDim
		newH = int(float64(maxDim)*float64(h)/float64(w) + 0.5)
	} else {
		newH = maxDim
		newW = int(float64(maxDim)*float64(w)/float64(h) + 0.5)
	}
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewNRGBA64(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, xdraw.Over, nil)
	return dst
}

// DataURL encodes the image as a PNG data URL suitable for direct embedding
// in a UI payload.
func DataURL(img image.Image) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return "", fmt.Errorf("failed to encode preview: %v", err)
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// Save writes the image to path as a PNG file.
func Save(img image.Image, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
