// Package display converts engine output into values a meter can draw: decibel spectra on a
// logarithmic frequency axis, smoothed readings and stereo width.
package display

import (
	"math"

	"github.com/farcloser/sonde/internal/meter/shared"
)

const (
	MinFrequency = 20.0
	MaxFrequency = 20000.0

	// MinSpectrumDB and MaxSpectrumDB bound the spectrum plot.
	MinSpectrumDB = -100.0
	MaxSpectrumDB = 6.0

	// Smoothing factors applied once per 60 Hz redraw.
	BandSmoothing   = 0.3
	StereoSmoothing = 0.35
	VUSmoothing     = 0.08

	// SpectrogramDecay is the weight kept from the previous spectrogram column.
	SpectrogramDecay = 0.85

	minVU = -30.0
	maxVU = 3.0
)

// MagnitudeDB converts a raw FFT magnitude to decibels relative to a full-scale bin.
func MagnitudeDB(magnitude float64, fftSize int) float64 {
	return 20 * math.Log10(magnitude/float64(fftSize)+shared.LevelEpsilon)
}

// BinForFrequency returns the fractional bin index of freq.
func BinForFrequency(freq float64, fftSize int, sampleRate float64) float64 {
	return freq * float64(fftSize) / sampleRate
}

// FrequencyForBin returns the centre frequency of bin.
func FrequencyForBin(bin, fftSize int, sampleRate float64) float64 {
	return float64(bin) * sampleRate / float64(fftSize)
}

// Interpolate reads magnitudes at a fractional bin, linearly between its neighbours.
// Positions outside the slice are clamped to its ends.
func Interpolate(magnitudes []float64, bin float64) float64 {
	if len(magnitudes) == 0 {
		return 0
	}

	last := len(magnitudes) - 1

	switch {
	case bin <= 0 || math.IsNaN(bin):
		return magnitudes[0]
	case bin >= float64(last):
		return magnitudes[last]
	}

	lower := int(bin)
	frac := bin - float64(lower)

	return magnitudes[lower]*(1-frac) + magnitudes[lower+1]*frac
}

// LogSpectrum samples magnitudes at len(dst) frequencies spaced logarithmically between
// MinFrequency and MaxFrequency (capped at Nyquist) and stores them in dB.
func LogSpectrum(dst, magnitudes []float64, fftSize int, sampleRate float64) {
	if len(dst) == 0 {
		return
	}

	top := min(MaxFrequency, sampleRate/2)
	logMin, logMax := math.Log10(MinFrequency), math.Log10(top)

	for i := range dst {
		position := 0.0
		if len(dst) > 1 {
			position = float64(i) / float64(len(dst)-1)
		}

		freq := math.Pow(10, logMin+position*(logMax-logMin))
		dst[i] = MagnitudeDB(Interpolate(magnitudes, BinForFrequency(freq, fftSize, sampleRate)), fftSize)
	}
}

// FrequencyPosition maps freq onto [0, 1] along the logarithmic axis.
func FrequencyPosition(freq float64) float64 {
	if freq <= MinFrequency {
		return 0
	}

	logMin, logMax := math.Log10(MinFrequency), math.Log10(MaxFrequency)

	return min((math.Log10(freq)-logMin)/(logMax-logMin), 1)
}

// PeakFrequency finds the loudest bin above DC and returns its frequency and level in dB.
func PeakFrequency(magnitudes []float64, fftSize int, sampleRate float64) (freq, db float64) {
	peak := -1

	for i := 1; i < len(magnitudes); i++ {
		if peak < 0 || magnitudes[i] > magnitudes[peak] {
			peak = i
		}
	}

	if peak < 0 {
		return 0, MagnitudeDB(0, fftSize)
	}

	return FrequencyForBin(peak, fftSize, sampleRate), MagnitudeDB(magnitudes[peak], fftSize)
}

// Width measures how much of a stereo signal lives in its side channel: 0 for mono, about 0.5
// for uncorrelated channels, 1 for channels in opposite polarity.
func Width(left, right []float64) float64 {
	var mid, side float64

	for i := range min(len(left), len(right)) {
		m := (left[i] + right[i]) / 2
		s := (left[i] - right[i]) / 2
		mid += m * m
		side += s * s
	}

	mid, side = math.Sqrt(mid), math.Sqrt(side)
	if mid+side <= shared.LevelEpsilon {
		return 0
	}

	return side / (mid + side)
}

// VULevel maps the louder of two RMS readings onto a [0, 1] needle position spanning
// -30 to +3 dBFS.
func VULevel(rmsLeftDB, rmsRightDB float64) float64 {
	level := (max(rmsLeftDB, rmsRightDB) - minVU) / (maxVU - minVU)

	return min(max(level, 0), 1)
}

// Smooth moves current a fraction of the way towards target.
func Smooth(current, target, factor float64) float64 {
	return current + (target-current)*factor
}
