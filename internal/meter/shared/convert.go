// Package shared holds the numeric floors and conversions every meter agrees on.
package shared

import "math"

// Sanitize zeroes NaN and infinities and clamps finite values to ±SampleLimit. Every sample
// passes through it before reaching a filter, since one non-finite value would poison IIR
// history permanently.
func Sanitize(sample float64) float64 {
	switch {
	case math.IsNaN(sample), math.IsInf(sample, 0):
		return 0
	case sample > SampleLimit:
		return SampleLimit
	case sample < -SampleLimit:
		return -SampleLimit
	}

	return sample
}

// AmplitudeDB converts a linear amplitude to dBFS, floored at LevelFloorDB.
func AmplitudeDB(amplitude float64) float64 {
	if amplitude > LevelEpsilon {
		return 20 * math.Log10(amplitude)
	}

	return LevelFloorDB
}

// MeanSquareDB converts a mean square to an RMS level in dBFS, floored at LevelFloorDB.
func MeanSquareDB(meanSquare float64) float64 {
	return AmplitudeDB(math.Sqrt(meanSquare))
}

// Loudness converts a summed K-weighted mean square to LUFS, floored at LoudnessFloorLUFS.
func Loudness(meanSquare float64) float64 {
	if meanSquare < LoudnessEpsilon {
		return LoudnessFloorLUFS
	}

	return LoudnessOffset + 10*math.Log10(meanSquare)
}
