package loudness

import (
	"math"

	"github.com/farcloser/sonde/internal/meter/shared"
	"github.com/farcloser/sonde/internal/ring"
)

const (
	momentarySeconds = 0.4
	shortTermSeconds = 3.0
	hopSeconds       = 0.1
)

// Window keeps the last three seconds of K-weighted samples per channel.
//
// Momentary is computed on demand over the last 400 ms. Every 100 ms hop the window also
// feeds one gating block to its Gate, refreshes the short-term reading and tracks the
// loudest full momentary block.
type Window struct {
	left  *ring.History[float64]
	right *ring.History[float64]

	windowSamples int
	hopSamples    int
	sinceHop      int

	gate         Gate
	shortTerm    float64
	integrated   float64
	momentaryMax float64
}

// Prepare sizes the histories for sampleRate and clears every reading.
// It allocates and must not be called from the processing path.
func (w *Window) Prepare(sampleRate float64) {
	capacity := max(int(math.Round(sampleRate*shortTermSeconds)), 1)

	if w.left == nil || w.left.Cap() != capacity {
		w.left = ring.NewHistory[float64](capacity)
		w.right = ring.NewHistory[float64](capacity)
	}

	w.windowSamples = max(int(math.Round(sampleRate*momentarySeconds)), 1)
	w.hopSamples = max(int(math.Round(sampleRate*hopSeconds)), 1)

	w.Reset()
}

// Reset clears the histories and every reading, keeping the sizes.
func (w *Window) Reset() {
	if w.left != nil {
		w.left.Reset()
		w.right.Reset()
	}

	w.sinceHop = 0
	w.gate.Reset()
	w.shortTerm = shared.LoudnessFloorLUFS
	w.integrated = shared.LoudnessFloorLUFS
	w.momentaryMax = shared.LoudnessFloorLUFS
}

// Write appends one K-weighted sample pair. It returns true when the pair completed a hop
// and the hop readings were refreshed.
func (w *Window) Write(left, right float64) bool {
	w.left.Write(left)
	w.right.Write(right)

	w.sinceHop++
	if w.sinceHop < w.hopSamples {
		return false
	}

	w.sinceHop = 0

	if w.left.Len() >= w.windowSamples {
		power := w.power(w.windowSamples)
		w.gate.Add(power)
		w.momentaryMax = max(w.momentaryMax, shared.Loudness(power))
		w.integrated = w.gate.Integrated()
	}

	w.shortTerm = shared.Loudness(w.power(w.left.Cap()))

	return true
}

// Momentary is the loudness of the last 400 ms, or of whatever history exists when less has
// been written.
func (w *Window) Momentary() float64 {
	if w.left == nil {
		return shared.LoudnessFloorLUFS
	}

	return shared.Loudness(w.power(w.windowSamples))
}

// ShortTerm is the loudness of the last 3 s as of the latest hop.
func (w *Window) ShortTerm() float64 {
	return w.shortTerm
}

// Integrated is the gated loudness since Prepare as of the latest hop.
func (w *Window) Integrated() float64 {
	return w.integrated
}

// MomentaryMax is the loudest full 400 ms block seen at a hop since Prepare.
func (w *Window) MomentaryMax() float64 {
	return w.momentaryMax
}

// power sums the per-channel mean squares of the most recent n pairs.
func (w *Window) power(n int) float64 {
	return meanSquare(w.left.Last(n)) + meanSquare(w.right.Last(n))
}

func meanSquare(head, tail []float64) float64 {
	n := len(head) + len(tail)
	if n == 0 {
		return 0
	}

	var sum float64

	for _, v := range head {
		sum += v * v
	}

	for _, v := range tail {
		sum += v * v
	}

	return sum / float64(n)
}
