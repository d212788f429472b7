package bm3d

import (
	"math"
	"math/rand"
	"testing"
)

// TestTransform3DRoundTrip verifies that the inverse 3D transform
// reconstructs random group stacks for every valid group size.
func TestTransform3DRoundTrip(t *testing.T) {
	tables := newDCTTables()
	rng := rand.New(rand.NewSource(7))

	for _, groupSize := range []int{1, 2, 4, 8, 16} {
		stack := make([]float64, groupSize*blockArea)
		for i := range stack {
			stack[i] = rng.Float64()*255.0 - 127.5
		}
		original := make([]float64, len(stack))
		copy(original, stack)

		forwardTransform3D(stack, groupSize, tables)
		inverseTransform3D(stack, groupSize, tables)

		for i := range stack {
			if math.Abs(stack[i]-original[i]) > 1e-4 {
				t.Errorf("group size %d: round trip mismatch at %d: expected %f, got %f",
					groupSize, i, original[i], stack[i])
			}
		}
	}
}

// TestWalshHadamardSelfInverse verifies that applying the normalized
// Hadamard butterfly twice reconstructs the input.
func TestWalshHadamardSelfInverse(t *testing.T) {
	for _, n := range []int{1, 2, 4, 8, 16} {
		data := make([]float64, n)
		original := make([]float64, n)
		for i := range data {
			data[i] = float64(i*i) - float64(n)
			original[i] = data[i]
		}

		walshHadamard(data)
		walshHadamard(data)

		for i := range data {
			if math.Abs(data[i]-original[i]) > 1e-10 {
				t.Errorf("n=%d: expected %f at %d, got %f", n, original[i], i, data[i])
			}
		}
	}
}

// TestWalshHadamardEnergy verifies the 1/sqrt(n) normalization preserves
// signal energy.
func TestWalshHadamardEnergy(t *testing.T) {
	data := []float64{3, -1, 4, 1, -5, 9, -2, 6}

	energyBefore := 0.0
	for _, v := range data {
		energyBefore += v * v
	}

	walshHadamard(data)

	energyAfter := 0.0
	for _, v := range data {
		energyAfter += v * v
	}

	if math.Abs(energyBefore-energyAfter) > 1e-9 {
		t.Errorf("energy not preserved: %f before, %f after", energyBefore, energyAfter)
	}
}

// TestForwardTransformConstantGroup verifies that a group of identical
// constant patches concentrates all energy into the stack-global first
// coefficient.
func TestForwardTransformConstantGroup(t *testing.T) {
	tables := newDCTTables()
	groupSize := 4

	stack := make([]float64, groupSize*blockArea)
	for i := range stack {
		stack[i] = 128.0
	}

	forwardTransform3D(stack, groupSize, tables)

	if stack[0] < 1.0 {
		t.Errorf("expected dominant first coefficient, got %f", stack[0])
	}
	for i := 1; i < len(stack); i++ {
		if math.Abs(stack[i]) > 1e-6 {
			t.Errorf("expected zero coefficient at %d, got %f", i, stack[i])
		}
	}
}

func TestTranspose8x8(t *testing.T) {
	block := make([]float64, blockArea)
	for i := range block {
		block[i] = float64(i)
	}

	transpose8x8(block)

	for y := 0; y < blockSize; y++ {
		for x := 0; x < blockSize; x++ {
			expected := float64(x*blockSize + y)
			if block[y*blockSize+x] != expected {
				t.Errorf("expected %f at (%d,%d), got %f", expected, x, y, block[y*blockSize+x])
			}
		}
	}
}
