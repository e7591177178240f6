package biquad

import "math"

const butterworthQ = 1 / math.Sqrt2

// omega returns the normalized angular frequency, or false when freq cannot be realized at
// sampleRate.
func omega(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	if freq <= 0 || freq >= sampleRate/2 || math.IsNaN(freq) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func quality(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return butterworthQ
	}

	return q
}

// LowPass is the RBJ cookbook low-pass.
func LowPass(freq, q, sampleRate float64) Coefficients {
	w0, ok := omega(freq, sampleRate)
	if !ok {
		return identity
	}

	cw, alpha := math.Cos(w0), math.Sin(w0)/(2*quality(q))

	return normalize((1-cw)/2, 1-cw, (1-cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// HighPass is the RBJ cookbook high-pass.
func HighPass(freq, q, sampleRate float64) Coefficients {
	w0, ok := omega(freq, sampleRate)
	if !ok {
		return identity
	}

	cw, alpha := math.Cos(w0), math.Sin(w0)/(2*quality(q))

	return normalize((1+cw)/2, -(1 + cw), (1+cw)/2, 1+alpha, -2*cw, 1-alpha)
}

// BandPass is the RBJ cookbook band-pass with 0 dB gain at the center frequency.
func BandPass(freq, q, sampleRate float64) Coefficients {
	w0, ok := omega(freq, sampleRate)
	if !ok {
		return identity
	}

	cw, alpha := math.Cos(w0), math.Sin(w0)/(2*quality(q))

	return normalize(alpha, 0, -alpha, 1+alpha, -2*cw, 1-alpha)
}

// HighShelf is the RBJ cookbook high shelf with gainDB above freq.
func HighShelf(freq, gainDB, q, sampleRate float64) Coefficients {
	w0, ok := omega(freq, sampleRate)
	if !ok {
		return identity
	}

	cw, alpha := math.Cos(w0), math.Sin(w0)/(2*quality(q))
	a := math.Pow(10, gainDB/40)
	beta := 2 * math.Sqrt(a) * alpha

	return normalize(
		a*((a+1)+(a-1)*cw+beta),
		-2*a*((a-1)+(a+1)*cw),
		a*((a+1)+(a-1)*cw-beta),
		(a+1)-(a-1)*cw+beta,
		2*((a-1)-(a+1)*cw),
		(a+1)-(a-1)*cw-beta,
	)
}
