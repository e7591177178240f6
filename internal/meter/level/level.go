// Package level accumulates per-block sample peak and RMS for a stereo pair, along with the
// RMS of its mid and side signals.
package level

import (
	"math"

	"github.com/farcloser/sonde/internal/meter/shared"
)

// Levels are block readings in dBFS, floored at shared.LevelFloorDB.
type Levels struct {
	PeakLeft  float64
	PeakRight float64
	RMSLeft   float64
	RMSRight  float64
	Mid       float64
	Side      float64
}

// Accumulator is a value type meant to live on the stack for the duration of one block.
// The zero value is ready to use.
type Accumulator struct {
	peakLeft, peakRight float64
	sumLeft, sumRight   float64
	sumMid, sumSide     float64
	count               int
}

// Add accounts for one sample pair.
func (a *Accumulator) Add(left, right float64) {
	a.peakLeft = max(a.peakLeft, math.Abs(left))
	a.peakRight = max(a.peakRight, math.Abs(right))

	a.sumLeft += left * left
	a.sumRight += right * right

	mid := (left + right) / 2
	side := (left - right) / 2

	a.sumMid += mid * mid
	a.sumSide += side * side

	a.count++
}

// Count is the number of pairs added.
func (a *Accumulator) Count() int {
	return a.count
}

// Peaks returns the linear sample peaks.
func (a *Accumulator) Peaks() (left, right float64) {
	return a.peakLeft, a.peakRight
}

// Result converts the accumulated block to dBFS. An empty accumulator reports the floor
// everywhere.
func (a *Accumulator) Result() Levels {
	if a.count == 0 {
		return Levels{
			PeakLeft:  shared.LevelFloorDB,
			PeakRight: shared.LevelFloorDB,
			RMSLeft:   shared.LevelFloorDB,
			RMSRight:  shared.LevelFloorDB,
			Mid:       shared.LevelFloorDB,
			Side:      shared.LevelFloorDB,
		}
	}

	n := float64(a.count)

	return Levels{
		PeakLeft:  shared.AmplitudeDB(a.peakLeft),
		PeakRight: shared.AmplitudeDB(a.peakRight),
		RMSLeft:   shared.MeanSquareDB(a.sumLeft / n),
		RMSRight:  shared.MeanSquareDB(a.sumRight / n),
		Mid:       shared.MeanSquareDB(a.sumMid / n),
		Side:      shared.MeanSquareDB(a.sumSide / n),
	}
}
