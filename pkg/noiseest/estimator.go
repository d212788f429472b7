// Package noiseest estimates the Gaussian noise level of an image and maps
// it to a suggested denoising intensity.
package noiseest

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/rustrunner/RapidRAW-Mark-I/internal/models"
)

// laplacianWeights is the 3x3 difference-of-Laplacians kernel from
// J. Immerkaer, "Fast Noise Variance Estimation". Its response to smooth
// image structure is near zero, so the mean absolute response estimates the
// noise standard deviation.
var laplacianWeights = [9]float64{
	1, -2, 1,
	-2, 4, -2,
	1, -2, 1,
}

// lumaNoiseGain is the standard deviation of the Rec. 601 luma of three
// independent unit-variance channels, sqrt(0.299^2 + 0.587^2 + 0.114^2).
// Measuring on the luma plane attenuates per-channel noise by this factor.
const lumaNoiseGain = 0.66856

// EstimateSigma returns the estimated per-channel noise standard deviation
// on the 0-255 sample scale. The measurement runs on the luma plane and is
// corrected for the luma attenuation of independent channel noise. Images
// smaller than 3x3 yield zero.
func EstimateSigma(img *models.Image) float64 {
	w, h := img.Width, img.Height
	if w < 3 || h < 3 {
		return 0
	}

	lum := luminance(img)
	offsets := [9]int{
		-w - 1, -w, -w + 1,
		-1, 0, 1,
		w - 1, w, w + 1,
	}

	sum := 0.0
	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			i := y*w + x
			conv := 0.0
			for j, o := range offsets {
				conv += lum[i+o] * laplacianWeights[j]
			}
			sum += math.Abs(conv)
		}
	}

	norm := math.Sqrt(math.Pi/2.0) / (6.0 * float64(w-2) * float64(h-2))
	return sum * norm / lumaNoiseGain
}

// SuggestIntensity inverts the denoiser's sigma map (sigma = intensity*80)
// on the estimated noise level. Because the Laplacian estimator also
// responds to fine texture, the suggestion is damped when the spectrum is
// dominated by low-frequency structure rather than broadband noise.
func SuggestIntensity(img *models.Image) float64 {
	sigma := EstimateSigma(img)
	if sigma <= 0 {
		return 0.001
	}

	damp := HighFrequencyRatio(img) / 0.5
	if damp > 1 {
		damp = 1
	}

	intensity := (sigma / 80.0) * damp
	if intensity < 0.001 {
		intensity = 0.001
	}
	if intensity > 1.0 {
		intensity = 1.0
	}
	return intensity
}

// HighFrequencyRatio returns the fraction of spectral energy (DC excluded)
// that lies in the outer half of the frequency plane of the image luminance.
// Broadband noise spreads energy across the spectrum, so values near the
// area fraction of the outer band indicate noise-like content, while
// values near zero indicate smooth structure.
func HighFrequencyRatio(img *models.Image) float64 {
	w, h := img.Width, img.Height
	if w < 4 || h < 4 {
		return 0
	}

	lum := luminance(img)
	rows := make([][]float64, h)
	for y := 0; y < h; y++ {
		rows[y] = lum[y*w : (y+1)*w]
	}

	freq := fft.FFT2Real(rows)

	cutX := float64(w) / 4.0
	cutY := float64(h) / 4.0
	total := 0.0
	high := 0.0
	for y := 0; y < h; y++ {
		fy := float64(y)
		if y > h/2 {
			fy = float64(y - h)
		}
		for x := 0; x < w; x++ {
			if x == 0 && y == 0 {
				continue
			}
			fx := float64(x)
			if x > w/2 {
				fx = float64(x - w)
			}

			re := real(freq[y][x])
			im := imag(freq[y][x])
			energy := re*re + im*im
			total += energy
			if math.Abs(fx) > cutX || math.Abs(fy) > cutY {
				high += energy
			}
		}
	}

	if total <= 0 {
		return 0
	}
	return high / total
}

// luminance extracts a Rec. 601 luma plane on the 0-255 scale.
func luminance(img *models.Image) []float64 {
	size := img.Width * img.Height
	lum := make([]float64, size)
	for i := 0; i < size; i++ {
		r := img.Pix[i*3]
		g := img.Pix[i*3+1]
		b := img.Pix[i*3+2]
		lum[i] = (0.299*r + 0.587*g + 0.114*b) * 255.0
	}
	return lum
}
