// Package spectral produces Hann-windowed magnitude spectra of a stereo signal in
// non-overlapping frames.
package spectral

import (
	"errors"
	"math/bits"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"

	"github.com/farcloser/sonde/internal/ring"
)

var ErrInvalidSize = errors.New("fft size must be a power of two of at least 2")

// Analyzer accumulates samples per channel and transforms them every Size() pairs.
// All buffers are allocated by New; Write does not allocate.
type Analyzer struct {
	size    int
	fft     *fourier.FFT
	window  []float64
	left    *ring.History[float64]
	right   *ring.History[float64]
	pending int

	input  []float64
	coeffs []complex128
	re, im []float64
	frame  []float64
}

// New prepares an analyzer for frames of size samples.
func New(size int) (*Analyzer, error) {
	if size < 2 || bits.OnesCount(uint(size)) != 1 {
		return nil, ErrInvalidSize
	}

	coeffs := make([]float64, size)
	for i := range coeffs {
		coeffs[i] = 1
	}

	window.Hann(coeffs)

	bins := size/2 + 1

	return &Analyzer{
		size:   size,
		fft:    fourier.NewFFT(size),
		window: coeffs,
		left:   ring.NewHistory[float64](size),
		right:  ring.NewHistory[float64](size),
		input:  make([]float64, size),
		coeffs: make([]complex128, bins),
		re:     make([]float64, bins),
		im:     make([]float64, bins),
		frame:  make([]float64, 2*bins),
	}, nil
}

// Size is the number of samples per transform.
func (a *Analyzer) Size() int {
	return a.size
}

// Bins is the number of magnitudes per channel, DC through Nyquist.
func (a *Analyzer) Bins() int {
	return a.size/2 + 1
}

// Prepare discards accumulated samples and the last frame.
func (a *Analyzer) Prepare() {
	a.left.Reset()
	a.right.Reset()
	a.pending = 0

	clear(a.frame)
}

// Write accumulates one sample pair. It returns true when the pair completed a frame, which
// is then available from Frame.
func (a *Analyzer) Write(left, right float64) bool {
	a.left.Write(left)
	a.right.Write(right)

	a.pending++
	if a.pending < a.size {
		return false
	}

	a.pending = 0

	bins := a.Bins()
	a.transform(a.left, a.frame[:bins])
	a.transform(a.right, a.frame[bins:])

	return true
}

// Frame holds the raw magnitudes of the latest frame, left bins then right bins. It is
// overwritten by the Write that completes the next frame.
func (a *Analyzer) Frame() []float64 {
	return a.frame
}

func (a *Analyzer) transform(history *ring.History[float64], dst []float64) {
	head, tail := history.Last(a.size)
	n := copy(a.input, head)
	copy(a.input[n:], tail)

	vecmath.MulBlockInPlace(a.input, a.window)

	a.coeffs = a.fft.Coefficients(a.coeffs, a.input)

	for i, c := range a.coeffs {
		a.re[i] = real(c)
		a.im[i] = imag(c)
	}

	vecmath.Magnitude(dst, a.re, a.im)
}
