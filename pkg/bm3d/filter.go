package bm3d

import "math"

// hardThreshold zeroes every transform coefficient in the stack whose
// magnitude falls below th and returns the count of surviving coefficients.
//
// The first element of the flattened stack is always retained and counted,
// regardless of magnitude. Note this is a stack-global exception (one scalar
// per group), not a per-patch DC exception.
func hardThreshold(stack []float64, th float64) int {
	count := 0
	for i := range stack {
		if i == 0 {
			count++
			continue
		}
		if math.Abs(stack[i]) < th {
			stack[i] = 0.0
		} else {
			count++
		}
	}
	return count
}

// wienerShrink applies per-coefficient Wiener shrinkage to the noisy stack
// in place, using the transformed basic estimate as the signal-energy guide,
// and returns the aggregation weight 1/sum(g^2).
//
// The first element of the flattened stack passes through with gain 1.0 and
// contributes 1.0 to the sum, mirroring the hard-threshold exception.
func wienerShrink(noisy, guide []float64, sigma float64) float64 {
	sum := 0.0
	s2 := sigma * sigma
	for i := range noisy {
		if i == 0 {
			sum += 1.0
			continue
		}
		energy := guide[i] * guide[i]
		gain := energy / (energy + s2 + 1e-5)
		noisy[i] *= gain
		sum += gain * gain
	}

	if sum > 0 {
		return 1.0 / sum
	}
	return 1.0
}
