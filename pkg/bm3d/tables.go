package bm3d

import "math"

// Fixed geometry of the collaborative filter. Patches are always 8x8, groups
// are capped at 16 patches, and reference locations advance on a stride-6
// grid inside a 19-pixel search window.
const (
	blockSize    = 8
	blockArea    = 64
	maxGroupSize = 16
	stride       = 6
	searchWindow = 19

	// kaiserBeta shapes the separable reconstruction window. The window must
	// be strictly positive at every position so that every pixel covered by a
	// patch receives a nonzero denominator contribution.
	kaiserBeta = 2.0
)

// dctTables holds the precomputed 8x8 DCT-II/IDCT coefficient matrices and
// the separable Kaiser window used for weighted overlap-add reconstruction.
// One instance is shared read-only across all worker goroutines.
type dctTables struct {
	dct    [blockArea]float64
	idct   [blockArea]float64
	kaiser [blockArea]float64
}

// newDCTTables precomputes the transform tables. The DCT uses standard
// orthonormal scaling: 0.35355339 (1/sqrt(8)) for the DC basis row and 0.5
// for the others.
func newDCTTables() *dctTables {
	t := &dctTables{}

	for k := 0; k < blockSize; k++ {
		scale := 0.5
		if k == 0 {
			scale = 0.35355339
		}
		for n := 0; n < blockSize; n++ {
			theta := (math.Pi / float64(blockSize)) * (float64(n) + 0.5) * float64(k)
			t.dct[k*blockSize+n] = math.Cos(theta) * scale
			t.idct[n*blockSize+k] = math.Cos(theta) * scale
		}
	}

	window := kaiserWindow(blockSize, kaiserBeta)
	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			t.kaiser[y*blockSize+x] = window[y] * window[x]
		}
	}

	return t
}

// kaiserWindow returns the 1D Kaiser window of length n with the given beta.
func kaiserWindow(n int, beta float64) []float64 {
	w := make([]float64, n)
	denom := besselI0(beta)
	for i := 0; i < n; i++ {
		r := 2.0*float64(i)/float64(n-1) - 1.0
		w[i] = besselI0(beta*math.Sqrt(1.0-r*r)) / denom
	}
	return w
}

// besselI0 evaluates the zeroth-order modified Bessel function of the first
// kind via its power series. The series converges quickly for the small
// arguments used here.
func besselI0(x float64) float64 {
	sum := 1.0
	term := 1.0
	half := x / 2.0
	for k := 1; k < 25; k++ {
		term *= (half / float64(k)) * (half / float64(k))
		sum += term
		if term < 1e-12*sum {
			break
		}
	}
	return sum
}
