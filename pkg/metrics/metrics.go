// Package metrics computes image-quality measurements used to evaluate a
// denoised result against a reference image.
package metrics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/rustrunner/RapidRAW-Mark-I/internal/models"
)

// Report holds the quality metrics for one image pair. All metrics operate
// on the packed [0,1] samples of both images jointly across channels.
type Report struct {
	// MSE is the mean squared sample difference.
	MSE float64

	// RMSE is the root of MSE.
	RMSE float64

	// PSNR is the peak signal-to-noise ratio in dB against a peak of 1.0.
	// It is +Inf when the images are identical.
	PSNR float64

	// SSIM is a global structural similarity index in [-1, 1], computed from
	// the joint sample statistics rather than local windows.
	SSIM float64
}

// Compare computes the quality metrics between a reference image and a
// candidate of identical dimensions.
func Compare(reference, candidate *models.Image) (Report, error) {
	if reference.Width != candidate.Width || reference.Height != candidate.Height {
		return Report{}, fmt.Errorf("dimension mismatch: %dx%d vs %dx%d",
			reference.Width, reference.Height, candidate.Width, candidate.Height)
	}

	mse := MSE(reference.Pix, candidate.Pix)
	return Report{
		MSE:  mse,
		RMSE: math.Sqrt(mse),
		PSNR: PSNR(mse),
		SSIM: SSIM(reference.Pix, candidate.Pix),
	}, nil
}

// MSE returns the mean squared difference between two equal-length sample
// slices, or zero for empty input.
func MSE(a, b []float64) float64 {
	n := len(a)
	if n == 0 || n != len(b) {
		return 0
	}

	sum := 0.0
	for i := 0; i < n; i++ {
		diff := a[i] - b[i]
		sum += diff * diff
	}
	return sum / float64(n)
}

// PSNR converts a mean squared error into decibels against a peak of 1.0.
func PSNR(mse float64) float64 {
	if mse <= 0 {
		return math.Inf(1)
	}
	return 10.0 * math.Log10(1.0/mse)
}

// SSIM computes a global structural similarity index over the sample
// slices, using the standard stabilizing constants for a dynamic range
// of 1.0.
func SSIM(a, b []float64) float64 {
	const L = 1.0
	const k1 = 0.01
	const k2 = 0.03

	c1 := (k1 * L) * (k1 * L)
	c2 := (k2 * L) * (k2 * L)

	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	muX := stat.Mean(a, nil)
	muY := stat.Mean(b, nil)
	sigmaX := stat.Variance(a, nil)
	sigmaY := stat.Variance(b, nil)
	sigmaXY := stat.Covariance(a, b, nil)

	num := (2*muX*muY + c1) * (2*sigmaXY + c2)
	den := (muX*muX + muY*muY + c1) * (sigmaX + sigmaY + c2)

	if den > 0 {
		return num / den
	}
	return 0
}
