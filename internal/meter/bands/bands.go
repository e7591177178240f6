// Package bands splits a stereo signal into low, mid and high bands and measures the RMS of
// each across both channels.
//
// The bands are three independent sections (low-pass 250 Hz, band-pass 1 kHz, high-pass 2 kHz).
// They overlap and leave gaps, so their energies do not sum exactly to the input energy.
package bands

import (
	"github.com/farcloser/sonde/internal/biquad"
	"github.com/farcloser/sonde/internal/meter/shared"
)

const (
	LowCutoff  = 250.0
	MidCenter  = 1000.0
	HighCutoff = 2000.0

	lowQ  = 0.7071
	midQ  = 2.0
	highQ = 0.7071
)

type channel struct {
	low, mid, high biquad.Section
}

// Splitter holds the per-channel filter state and the block accumulators.
type Splitter struct {
	channels [2]channel

	sumLow, sumMid, sumHigh float64
	count                   int
}

// Prepare designs the filters for sampleRate, clearing all history and accumulators.
func (s *Splitter) Prepare(sampleRate float64) {
	low := biquad.LowPass(LowCutoff, lowQ, sampleRate)
	mid := biquad.BandPass(MidCenter, midQ, sampleRate)
	high := biquad.HighPass(HighCutoff, highQ, sampleRate)

	for i := range s.channels {
		s.channels[i].low.Set(low)
		s.channels[i].mid.Set(mid)
		s.channels[i].high.Set(high)
	}

	s.Clear()
}

// Process filters one sample pair through every band.
func (s *Splitter) Process(left, right float64) {
	s.add(&s.channels[0], left)
	s.add(&s.channels[1], right)
	s.count++
}

func (s *Splitter) add(ch *channel, x float64) {
	low := ch.low.Process(x)
	mid := ch.mid.Process(x)
	high := ch.high.Process(x)

	s.sumLow += low * low
	s.sumMid += mid * mid
	s.sumHigh += high * high
}

// Energies returns the mean square of each band over both channels since the last Clear.
func (s *Splitter) Energies() (low, mid, high float64) {
	if s.count == 0 {
		return 0, 0, 0
	}

	n := float64(2 * s.count)

	return s.sumLow / n, s.sumMid / n, s.sumHigh / n
}

// Result returns the band RMS levels in dBFS.
func (s *Splitter) Result() (low, mid, high float64) {
	low, mid, high = s.Energies()

	return shared.MeanSquareDB(low), shared.MeanSquareDB(mid), shared.MeanSquareDB(high)
}

// Clear resets the accumulators and keeps the filter history.
func (s *Splitter) Clear() {
	s.sumLow = 0
	s.sumMid = 0
	s.sumHigh = 0
	s.count = 0
}
