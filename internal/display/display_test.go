package display

import (
	"math"
	"testing"
)

func TestMagnitudeDB(t *testing.T) {
	if got := MagnitudeDB(4096, 4096); math.Abs(got) > 1e-6 {
		t.Errorf("full-scale bin = %v dB", got)
	}

	if got := MagnitudeDB(0, 4096); math.Abs(got+160) > 1e-6 {
		t.Errorf("empty bin = %v dB, want -160", got)
	}
}

func TestBinMapping(t *testing.T) {
	if got := BinForFrequency(1000, 4096, 48000); math.Abs(got-85.3333) > 1e-3 {
		t.Errorf("bin for 1 kHz = %v", got)
	}

	if got := FrequencyForBin(64, 4096, 48000); got != 750 {
		t.Errorf("frequency of bin 64 = %v", got)
	}
}

func TestInterpolate(t *testing.T) {
	mags := []float64{0, 10, 20, 30}

	cases := map[float64]float64{
		-1:         0,
		0:          0,
		1.5:        15,
		2.25:       22.5,
		3:          30,
		7:          30,
		math.NaN(): 0,
	}

	for bin, want := range cases {
		if got := Interpolate(mags, bin); math.Abs(got-want) > 1e-12 {
			t.Errorf("Interpolate(%v) = %v, want %v", bin, got, want)
		}
	}

	if got := Interpolate(nil, 1); got != 0 {
		t.Errorf("empty slice = %v", got)
	}
}

func TestLogSpectrum(t *testing.T) {
	const size = 4096

	mags := make([]float64, size/2+1)
	for i := range mags {
		mags[i] = size
	}

	dst := make([]float64, 64)
	LogSpectrum(dst, mags, size, 48000)

	for i, v := range dst {
		if math.Abs(v) > 1e-6 {
			t.Fatalf("flat full-scale spectrum point %d = %v dB", i, v)
		}
	}

	// A low sample rate caps the axis at Nyquist instead of reading past the last bin.
	LogSpectrum(dst, mags, size, 8000)

	if math.Abs(dst[len(dst)-1]) > 1e-6 {
		t.Errorf("last point at 8 kHz = %v", dst[len(dst)-1])
	}
}

func TestPeakFrequency(t *testing.T) {
	mags := make([]float64, 2049)
	mags[0] = 1e6 // DC is ignored
	mags[85] = 1024

	freq, db := PeakFrequency(mags, 4096, 48000)
	if math.Abs(freq-996.09375) > 1e-9 {
		t.Errorf("peak frequency = %v", freq)
	}

	if math.Abs(db+12.0412) > 1e-3 {
		t.Errorf("peak level = %v", db)
	}

	if freq, _ = PeakFrequency(nil, 4096, 48000); freq != 0 {
		t.Errorf("empty spectrum peak = %v", freq)
	}
}

func TestWidth(t *testing.T) {
	signal := []float64{0.5, -0.25, 0.75, -1}
	inverted := []float64{-0.5, 0.25, -0.75, 1}
	quadrature := []float64{0.5, 0.5, -0.5, -0.5}
	other := []float64{0.5, -0.5, -0.5, 0.5}

	if got := Width(signal, signal); got != 0 {
		t.Errorf("mono width = %v", got)
	}

	if got := Width(signal, inverted); got != 1 {
		t.Errorf("inverted width = %v", got)
	}

	if got := Width(quadrature, other); math.Abs(got-0.5) > 1e-12 {
		t.Errorf("orthogonal width = %v", got)
	}

	if got := Width(make([]float64, 4), make([]float64, 4)); got != 0 {
		t.Errorf("silent width = %v", got)
	}
}

func TestVULevel(t *testing.T) {
	cases := []struct{ left, right, want float64 }{
		{-90, -90, 0},
		{-30, -60, 0},
		{3, -90, 1},
		{10, 10, 1},
		{-90, -13.5, 0.5},
	}

	for _, tc := range cases {
		if got := VULevel(tc.left, tc.right); math.Abs(got-tc.want) > 1e-12 {
			t.Errorf("VULevel(%v, %v) = %v, want %v", tc.left, tc.right, got, tc.want)
		}
	}
}

func TestSmoother(t *testing.T) {
	s := NewSmoother(BandSmoothing)

	first := s.Update([]float64{-90, 0})
	if first[0] != -90 || first[1] != 0 {
		t.Fatalf("first update = %v", first)
	}

	next := s.Update([]float64{-80, 10})
	if math.Abs(next[0]+87) > 1e-12 || math.Abs(next[1]-3) > 1e-12 {
		t.Errorf("second update = %v", next)
	}

	// Converges.
	for range 100 {
		s.Update([]float64{-80, 10})
	}

	if v := s.Values(); math.Abs(v[0]+80) > 1e-9 || math.Abs(v[1]-10) > 1e-9 {
		t.Errorf("converged values = %v", v)
	}

	if restarted := s.Update([]float64{1}); len(restarted) != 1 || restarted[0] != 1 {
		t.Errorf("restart = %v", restarted)
	}
}
