package bm3d

// Params holds the tuning parameters derived from a single noise-intensity
// scalar. The linear maps are empirically chosen; the derived values stay
// fixed for the whole two-pass run.
type Params struct {
	// Sigma is the assumed noise standard deviation on the 0-255 sample scale.
	Sigma float64

	// HardThresholdLambda scales Sigma into the hard-threshold cutoff used
	// during the first pass.
	HardThresholdLambda float64

	// MaxDistanceHard is the block-matching distance budget for the first
	// pass. The second pass uses half of it.
	MaxDistanceHard float64
}

// ParamsFromIntensity derives the denoising parameters from an intensity
// in [0.001, 1.0]. Values outside that range are clamped, so the function
// is total.
func ParamsFromIntensity(intensity float64) Params {
	v := intensity
	if v < 0.001 {
		v = 0.001
	}
	if v > 1.0 {
		v = 1.0
	}

	return Params{
		Sigma:               v * 80.0,
		HardThresholdLambda: 2.0 + v*2.5,
		MaxDistanceHard:     3000.0 + v*20000.0,
	}
}
