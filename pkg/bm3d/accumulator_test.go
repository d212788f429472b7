package bm3d

import (
	"math"
	"sync"
	"testing"
)

// TestAccumulatorConcurrentAdds verifies that overlapping adds from many
// goroutines produce the exact commutative sum regardless of interleaving.
func TestAccumulatorConcurrentAdds(t *testing.T) {
	acc := newAccumulator(4)

	const workers = 8
	const addsPerWorker = 1000

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < addsPerWorker; j++ {
				acc.add(1, 0.5)
				acc.add(2, -0.25)
			}
		}()
	}
	wg.Wait()

	values := acc.values()

	if values[0] != 0 || values[3] != 0 {
		t.Errorf("untouched cells must stay zero, got %v", values)
	}
	if math.Abs(values[1]-float64(workers*addsPerWorker)*0.5) > 1e-9 {
		t.Errorf("expected %f, got %f", float64(workers*addsPerWorker)*0.5, values[1])
	}
	if math.Abs(values[2]+float64(workers*addsPerWorker)*0.25) > 1e-9 {
		t.Errorf("expected %f, got %f", -float64(workers*addsPerWorker)*0.25, values[2])
	}
}

// TestAccumulatorRounding documents the fixed-point truncation bound: a
// single add is quantized to 1/fixedPointScale.
func TestAccumulatorRounding(t *testing.T) {
	acc := newAccumulator(1)

	acc.add(0, 0.123456789)
	got := acc.values()[0]

	if math.Abs(got-0.123456789) > 1.0/fixedPointScale {
		t.Errorf("truncation error above bound: got %f", got)
	}
}

// TestAccumulatorOutOfRange verifies out-of-range indices are ignored
// rather than panicking.
func TestAccumulatorOutOfRange(t *testing.T) {
	acc := newAccumulator(2)
	acc.add(5, 1.0)

	values := acc.values()
	if values[0] != 0 || values[1] != 0 {
		t.Errorf("expected untouched accumulator, got %v", values)
	}
}
