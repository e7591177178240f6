// Package correlation measures the normalized cross-correlation of a stereo pair.
package correlation

import "math"

const epsilon = 1e-8

// Accumulator collects the cross and auto products of one block. The zero value is ready.
type Accumulator struct {
	sumLR float64
	sumLL float64
	sumRR float64
}

// Add accounts for one sample pair.
func (a *Accumulator) Add(left, right float64) {
	a.sumLR += left * right
	a.sumLL += left * left
	a.sumRR += right * right
}

// Value is +1 for identical channels, -1 for inverted ones, and 0 when either channel is
// silent.
func (a *Accumulator) Value() float64 {
	denominator := math.Sqrt(a.sumLL * a.sumRR)
	if denominator <= epsilon || math.IsNaN(denominator) {
		return 0
	}

	return min(max(a.sumLR/denominator, -1), 1)
}
