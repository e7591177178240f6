package biquad

import "math"

// ITU-R BS.1770-4 analog prototype parameters. At 48 kHz the designs below reproduce the
// coefficient tables published in the recommendation.
const (
	preFilterFreq = 1681.974450955533
	preFilterGain = 3.999843853973347
	preFilterQ    = 0.7071752369554196
	preFilterVb   = 0.4996667741545416

	rlbFreq = 38.13547087602444
	rlbQ    = 0.5003270373238773
)

// KWeighting returns the two stages of the BS.1770 K-weighting curve: the pre-filter
// (high shelf modelling the head) and the RLB high-pass.
func KWeighting(sampleRate float64) (pre, rlb Coefficients) {
	if sampleRate <= 2*preFilterFreq {
		return identity, identity
	}

	k := math.Tan(math.Pi * preFilterFreq / sampleRate)
	vh := math.Pow(10, preFilterGain/20)
	vb := math.Pow(vh, preFilterVb)

	pre = normalize(
		vh+vb*k/preFilterQ+k*k,
		2*(k*k-vh),
		vh-vb*k/preFilterQ+k*k,
		1+k/preFilterQ+k*k,
		2*(k*k-1),
		1-k/preFilterQ+k*k,
	)

	k = math.Tan(math.Pi * rlbFreq / sampleRate)

	// The RLB numerator is left unnormalized, as in the published tables.
	a0 := 1 + k/rlbQ + k*k
	rlb = Coefficients{
		B0: 1,
		B1: -2,
		B2: 1,
		A1: 2 * (k*k - 1) / a0,
		A2: (1 - k/rlbQ + k*k) / a0,
	}

	return pre, rlb
}
