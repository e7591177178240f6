// Package biquad implements second-order IIR sections and the coefficient designs used by the
// meters.
package biquad

import "math"

// Coefficients of a normalized (a0 = 1) second-order section.
type Coefficients struct {
	B0, B1, B2 float64
	A1, A2     float64
}

// Section is a transposed direct form II biquad: coefficients plus two history samples.
type Section struct {
	Coefficients

	z1, z2 float64
}

// Set replaces the coefficients and clears the history.
func (s *Section) Set(c Coefficients) {
	s.Coefficients = c
	s.Reset()
}

// Reset clears the history.
func (s *Section) Reset() {
	s.z1 = 0
	s.z2 = 0
}

// Process filters one sample.
func (s *Section) Process(in float64) float64 {
	out := s.B0*in + s.z1
	s.z1 = s.B1*in - s.A1*out + s.z2
	s.z2 = s.B2*in - s.A2*out

	return out
}

// Magnitude evaluates |H(e^jw)| at freq Hz.
func (c Coefficients) Magnitude(freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	cos1, sin1 := math.Cos(w), math.Sin(w)
	cos2, sin2 := math.Cos(2*w), math.Sin(2*w)

	numRe := c.B0 + c.B1*cos1 + c.B2*cos2
	numIm := -c.B1*sin1 - c.B2*sin2
	denRe := 1 + c.A1*cos1 + c.A2*cos2
	denIm := -c.A1*sin1 - c.A2*sin2

	return math.Sqrt((numRe*numRe + numIm*numIm) / (denRe*denRe + denIm*denIm))
}

// identity passes the signal through unchanged. Designs fall back to it for frequencies at
// or above Nyquist and for invalid sample rates.
var identity = Coefficients{B0: 1}

func normalize(b0, b1, b2, a0, a1, a2 float64) Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return identity
	}

	return Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
