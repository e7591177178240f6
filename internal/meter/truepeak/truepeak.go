// Package truepeak estimates inter-sample peaks by 4x polyphase oversampling, one sample at a
// time.
package truepeak

import "math"

const (
	oversample   = 4  // 4x oversampling per ITU-R BS.1770
	tapsPerPhase = 12 // filter taps per phase
	totalTaps    = oversample * tapsPerPhase

	kaiserBeta = 5.0
)

// Polyphase lowpass at the input Nyquist: windowed sinc with a Kaiser window, each phase
// normalized to unity gain.
//
//nolint:gochecknoglobals // computed once, read only
var coefficients = design()

func design() [oversample][tapsPerPhase]float64 {
	var coeffs [oversample][tapsPerPhase]float64

	center := float64(totalTaps-1) / 2

	for phase := range oversample {
		for tap := range tapsPerPhase {
			x := float64(tap*oversample+phase) - center

			sinc := 1.0
			if math.Abs(x) >= 1e-10 {
				arg := math.Pi * x / oversample
				sinc = math.Sin(arg) / arg
			}

			alpha := x / center
			if math.Abs(alpha) <= 1 {
				window := bessel0(kaiserBeta*math.Sqrt(1-alpha*alpha)) / bessel0(kaiserBeta)
				coeffs[phase][tap] = sinc * window
			}
		}

		var sum float64
		for _, c := range coeffs[phase] {
			sum += c
		}

		for tap := range coeffs[phase] {
			coeffs[phase][tap] /= sum
		}
	}

	return coeffs
}

// bessel0 is the modified Bessel function of the first kind, order 0.
func bessel0(x float64) float64 {
	sum, term := 1.0, 1.0

	for k := 1; k <= 25; k++ {
		term *= (x * x) / (4 * float64(k) * float64(k))
		sum += term

		if term < 1e-12 {
			break
		}
	}

	return sum
}

// Detector tracks the highest absolute value of the oversampled signal. The zero value is
// ready to use.
type Detector struct {
	// Each sample is written twice so the latest tapsPerPhase samples are always contiguous.
	history [2 * tapsPerPhase]float64
	pos     int
	peak    float64
}

// Process feeds one sample.
func (d *Detector) Process(sample float64) {
	d.history[d.pos] = sample
	d.history[d.pos+tapsPerPhase] = sample
	d.pos = (d.pos + 1) % tapsPerPhase

	// Oldest first.
	window := d.history[d.pos : d.pos+tapsPerPhase]

	peak := max(d.peak, math.Abs(sample))

	for phase := range coefficients {
		var interp float64
		for tap, c := range coefficients[phase] {
			interp += window[tap] * c
		}

		peak = max(peak, math.Abs(interp))
	}

	d.peak = peak
}

// Peak returns the linear true peak since the last Reset. It is never below the sample peak.
func (d *Detector) Peak() float64 {
	return d.peak
}

// Reset clears the filter history and the peak.
func (d *Detector) Reset() {
	*d = Detector{}
}
