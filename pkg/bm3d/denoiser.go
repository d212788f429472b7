// Package bm3d implements a two-pass collaborative-filtering image denoiser.
//
// The pipeline groups similar 8x8 patches by block matching, filters the
// groups jointly in a 3D transform domain (2D DCT per patch plus a
// Walsh-Hadamard transform across the group), and reconstructs the image by
// weighted overlap-add of the filtered patches. The first pass hard-thresholds
// transform coefficients to produce a basic estimate; the second pass
// Wiener-filters the original noisy data using that estimate as a guide.
package bm3d

import (
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/rustrunner/RapidRAW-Mark-I/internal/models"
)

// ProgressFunc receives human-readable stage/percentage messages. It may be
// called concurrently from worker goroutines and must not block for long.
type ProgressFunc func(message string)

// progressInterval is the number of completed reference-location tasks
// between progress callbacks.
const progressInterval = 200

// Denoiser runs the two-pass pipeline with a fixed parameter set. A Denoiser
// is safe to reuse across images; the derived parameters are immutable for
// its lifetime.
type Denoiser struct {
	params   Params
	tables   *dctTables
	workers  int
	progress ProgressFunc
}

// NewDenoiser creates a denoiser for the given noise intensity, using all
// available CPU cores by default.
func NewDenoiser(intensity float64) *Denoiser {
	return &Denoiser{
		params:  ParamsFromIntensity(intensity),
		tables:  newDCTTables(),
		workers: runtime.NumCPU(),
	}
}

// SetWorkers overrides the worker goroutine count. Values below one are
// ignored.
func (d *Denoiser) SetWorkers(n int) {
	if n >= 1 {
		d.workers = n
	}
}

// SetProgress installs a progress callback. Pass nil to disable reporting.
func (d *Denoiser) SetProgress(fn ProgressFunc) {
	d.progress = fn
}

// Params returns the derived parameter set in use.
func (d *Denoiser) Params() Params {
	return d.params
}

// Denoise runs both passes over the packed input image and returns the final
// estimate with identical dimensions and value range.
//
// If the image is too small to contain a single 8x8 reference patch the
// accumulation grid is empty, so the input is passed through unchanged
// rather than collapsing to an all-zero result.
func (d *Denoiser) Denoise(img *models.Image) *models.Image {
	w, h := img.Width, img.Height

	refs := referenceGrid(w, h)
	if len(refs) == 0 {
		return img.Clone()
	}

	channels := splitChannels(img)
	totalWork := len(refs) * 2
	var counter int64

	basic := d.runPass(channels, channels, w, h, true, refs, &counter, totalWork)
	final := d.runPass(channels, basic, w, h, false, refs, &counter, totalWork)

	return mergeChannels(final, w, h)
}

// referenceGrid lists the reference patch locations on the stride grid. The
// final position on each axis is always included so every pixel is covered
// by at least one reference patch; the empty grid means the image cannot
// hold a single 8x8 patch.
func referenceGrid(w, h int) []patchLoc {
	xs := gridAxis(w)
	ys := gridAxis(h)

	refs := make([]patchLoc, 0, len(xs)*len(ys))
	for _, y := range ys {
		for _, x := range xs {
			refs = append(refs, patchLoc{X: x, Y: y})
		}
	}
	return refs
}

func gridAxis(dim int) []int {
	if dim < blockSize {
		return nil
	}
	last := dim - blockSize
	var positions []int
	for x := 0; ; x += stride {
		if x >= last {
			positions = append(positions, last)
			return positions
		}
		positions = append(positions, x)
	}
}

// runPass processes every reference location with a fixed pool of workers
// pulling tasks from a shared atomic index, then reduces the accumulators
// into planar channels. Tasks only ever add to the accumulators, so the
// result is independent of scheduling order up to fixed-point rounding.
func (d *Denoiser) runPass(noisy, guide [][]float64, w, h int, firstPass bool, refs []patchLoc, counter *int64, totalWork int) [][]float64 {
	size := w * h

	numerators := make([]*accumulator, len(noisy))
	denominators := make([]*accumulator, len(noisy))
	for ch := range noisy {
		numerators[ch] = newAccumulator(size)
		denominators[ch] = newAccumulator(size)
	}

	threshold := d.params.MaxDistanceHard
	if !firstPass {
		// Finer matching once a basic estimate exists.
		threshold *= 0.5
	}

	workers := d.workers
	if workers < 1 {
		workers = 1
	}

	var next int64
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			var locs [maxGroupSize]patchLoc
			for {
				task := atomic.AddInt64(&next, 1) - 1
				if task >= int64(len(refs)) {
					return
				}

				done := atomic.AddInt64(counter, 1) - 1
				if done%progressInterval == 0 {
					d.reportProgress(firstPass, done, totalWork)
				}

				d.processReference(noisy, guide, w, h, refs[task], firstPass, threshold, &locs, numerators, denominators)
			}
		}()
	}
	wg.Wait()

	// Single-threaded reduction after all writers have joined. Pixels with
	// no effective weight keep the raw numerator instead of dividing by a
	// near-zero denominator.
	results := make([][]float64, len(noisy))
	for ch := range noisy {
		num := numerators[ch].values()
		den := denominators[ch].values()
		out := make([]float64, size)
		for i := range out {
			if den[i] > 1e-6 {
				out[i] = num[i] / den[i]
			} else {
				out[i] = num[i]
			}
		}
		results[ch] = out
	}
	return results
}

// processReference runs one complete reference-location task: block match on
// the guide, group extraction, forward transform, shrinkage, inverse
// transform, and weighted scatter into the shared accumulators.
func (d *Denoiser) processReference(noisy, guide [][]float64, w, h int, ref patchLoc, firstPass bool, threshold float64, locs *[maxGroupSize]patchLoc, numerators, denominators []*accumulator) {
	groupSize := blockMatch(guide, w, h, ref.X, ref.Y, threshold, locs[:])
	group := locs[:groupSize]

	for ch := range noisy {
		guideStack := buildGroup(guide[ch], w, group)
		forwardTransform3D(guideStack, groupSize, d.tables)

		var filtered []float64
		var weight float64
		if firstPass {
			nonzero := hardThreshold(guideStack, d.params.HardThresholdLambda*d.params.Sigma)
			if nonzero > 0 {
				weight = 1.0 / float64(nonzero)
			} else {
				weight = 1.0
			}
			filtered = guideStack
		} else {
			filtered = buildGroup(noisy[ch], w, group)
			forwardTransform3D(filtered, groupSize, d.tables)
			weight = wienerShrink(filtered, guideStack, d.params.Sigma)
		}

		inverseTransform3D(filtered, groupSize, d.tables)

		num := numerators[ch]
		den := denominators[ch]
		for k, loc := range group {
			patchOffset := k * blockArea
			for dy := 0; dy < blockSize; dy++ {
				rowGlobal := (loc.Y+dy)*w + loc.X
				rowPatch := dy * blockSize
				for dx := 0; dx < blockSize; dx++ {
					value := filtered[patchOffset+rowPatch+dx]
					wv := d.tables.kaiser[rowPatch+dx] * weight
					num.add(rowGlobal+dx, value*wv)
					den.add(rowGlobal+dx, wv)
				}
			}
		}
	}
}

func (d *Denoiser) reportProgress(firstPass bool, done int64, totalWork int) {
	if d.progress == nil {
		return
	}
	step := "Step 2/2"
	if firstPass {
		step = "Step 1/2"
	}
	pct := float64(done) / float64(totalWork) * 100.0
	d.progress(fmt.Sprintf("%s - %.1f%%", step, pct))
}
