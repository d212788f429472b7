package bm3d

import "sync/atomic"

// fixedPointScale converts float contributions to integer accumulator units.
// The scale bounds the truncation error of a single add to 1e-5 sample units.
const fixedPointScale = 100000.0

// accumulator is a lock-free shared accumulation buffer. Each cell is a
// fixed-point int64 updated with atomic adds, which makes concurrent
// overlap-add scatter from many goroutines race-free and order-independent:
// integer addition commutes exactly, so the final values do not depend on
// task scheduling. Cells are never read until all writers have joined.
type accumulator struct {
	cells []int64
}

func newAccumulator(size int) *accumulator {
	return &accumulator{cells: make([]int64, size)}
}

func (a *accumulator) add(index int, value float64) {
	if index < len(a.cells) {
		atomic.AddInt64(&a.cells[index], int64(value*fixedPointScale))
	}
}

// values rescales the accumulated fixed-point cells back to floats. Only
// called single-threaded after the pass's workers have finished.
func (a *accumulator) values() []float64 {
	out := make([]float64, len(a.cells))
	for i := range a.cells {
		out[i] = float64(atomic.LoadInt64(&a.cells[i])) / fixedPointScale
	}
	return out
}
