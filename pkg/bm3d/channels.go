package bm3d

import "github.com/rustrunner/RapidRAW-Mark-I/internal/models"

// splitChannels converts a packed [0,1] image into three planar arrays on
// the 0-255 sample scale, index-aligned to raster order. The planes are
// written once here and only read afterwards.
func splitChannels(img *models.Image) [][]float64 {
	size := img.Width * img.Height
	r := make([]float64, size)
	g := make([]float64, size)
	b := make([]float64, size)

	for i := 0; i < size; i++ {
		r[i] = img.Pix[i*3] * 255.0
		g[i] = img.Pix[i*3+1] * 255.0
		b[i] = img.Pix[i*3+2] * 255.0
	}

	return [][]float64{r, g, b}
}

// mergeChannels interleaves three planar 0-255 arrays back into a packed
// [0,1] image, clamping each sample.
func mergeChannels(channels [][]float64, width, height int) *models.Image {
	out := models.NewImage(width, height)
	size := width * height

	for i := 0; i < size; i++ {
		out.Pix[i*3] = clamp255(channels[0][i]) / 255.0
		out.Pix[i*3+1] = clamp255(channels[1][i]) / 255.0
		out.Pix[i*3+2] = clamp255(channels[2][i]) / 255.0
	}

	return out
}

func clamp255(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return v
}
