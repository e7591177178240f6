// Package loudness implements BS.1770 K-weighted loudness over a sliding window of filtered
// samples, plus an approximate short-term and histogram-gated integrated reading.
package loudness

import "github.com/farcloser/sonde/internal/biquad"

// Filter is the two-stage K-weighting cascade for one channel.
type Filter struct {
	pre biquad.Section
	rlb biquad.Section
}

// Prepare designs both stages for sampleRate and clears their history.
func (f *Filter) Prepare(sampleRate float64) {
	pre, rlb := biquad.KWeighting(sampleRate)

	f.pre.Set(pre)
	f.rlb.Set(rlb)
}

// Reset clears the history and keeps the coefficients.
func (f *Filter) Reset() {
	f.pre.Reset()
	f.rlb.Reset()
}

// Process weights one sample.
func (f *Filter) Process(sample float64) float64 {
	return f.rlb.Process(f.pre.Process(sample))
}
