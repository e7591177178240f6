package loudness

import (
	"math"

	"github.com/farcloser/sonde/internal/meter/shared"
)

const (
	gateCeilingLUFS = 10.0
	gateResolution  = 10 // bins per LU
	gateBins        = int((gateCeilingLUFS - shared.LoudnessFloorLUFS) * gateResolution)

	// RelativeGate is how far below the absolutely gated mean a block must sit to be discarded.
	RelativeGate = -10.0
)

// Gate accumulates gating-block powers in a fixed histogram so the integrated reading needs
// neither allocation nor unbounded history. Blocks at or below the absolute gate (-70 LUFS)
// are discarded on entry; blocks louder than +10 LUFS land in the top bin.
//
// The relative gate is resolved at bin granularity, which makes Integrated accurate to about
// 0.1 LU around the threshold.
type Gate struct {
	counts   [gateBins]uint64
	energies [gateBins]float64
	count    uint64
	energy   float64
}

// Add records one gating block by its summed channel mean square.
func (g *Gate) Add(power float64) {
	lufs := shared.Loudness(power)
	if lufs <= shared.LoudnessFloorLUFS {
		return
	}

	index := min(int((lufs-shared.LoudnessFloorLUFS)*gateResolution), gateBins-1)

	g.counts[index]++
	g.energies[index] += power
	g.count++
	g.energy += power
}

// Blocks is the number of blocks that passed the absolute gate.
func (g *Gate) Blocks() uint64 {
	return g.count
}

// Integrated returns the gated loudness, or the floor when no block passed the absolute gate.
func (g *Gate) Integrated() float64 {
	if g.count == 0 {
		return shared.LoudnessFloorLUFS
	}

	threshold := shared.Loudness(g.energy/float64(g.count)) + RelativeGate
	first := min(max(int(math.Ceil((threshold-shared.LoudnessFloorLUFS)*gateResolution)), 0), gateBins-1)

	var (
		count  uint64
		energy float64
	)

	for i := first; i < gateBins; i++ {
		count += g.counts[i]
		energy += g.energies[i]
	}

	if count == 0 {
		return shared.LoudnessFloorLUFS
	}

	return shared.Loudness(energy / float64(count))
}

// Reset forgets every block.
func (g *Gate) Reset() {
	*g = Gate{}
}
