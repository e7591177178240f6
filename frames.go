package sonde

// SpectralFrame holds the raw FFT magnitudes of one frame, bins 0 through FFTSize/2 per
// channel. Convert with 20*log10(magnitude/FFTSize) for display.
type SpectralFrame struct {
	Left  []float64
	Right []float64

	buf []float64
}

// ScopeBatch holds decimated sample pairs for a goniometer.
type ScopeBatch struct {
	Left  []float64
	Right []float64

	buf []float64
}

// NewSpectralFrame allocates a frame sized for this engine. Allocate it once on the consumer
// side and reuse it with ReadSpectrum.
func (e *Engine) NewSpectralFrame() *SpectralFrame {
	bins := e.opts.FFTSize/2 + 1
	buf := make([]float64, 2*bins)

	return &SpectralFrame{
		Left:  buf[:bins],
		Right: buf[bins:],
		buf:   buf,
	}
}

// ReadSpectrum moves the oldest pending frame into frame. It returns false when no frame is
// pending. Consumer side only.
func (e *Engine) ReadSpectrum(frame *SpectralFrame) bool {
	n, ok := e.spectra.Pop(frame.buf)
	if !ok {
		return false
	}

	half := n / 2
	frame.Left = frame.buf[:half]
	frame.Right = frame.buf[half:n]

	return true
}

// NewScopeBatch allocates a batch sized for this engine.
func (e *Engine) NewScopeBatch() *ScopeBatch {
	buf := make([]float64, 2*e.opts.ScopeBatch)

	return &ScopeBatch{
		Left:  buf[:e.opts.ScopeBatch],
		Right: buf[e.opts.ScopeBatch:],
		buf:   buf,
	}
}

// ReadScope moves the oldest pending batch into batch. It returns false when none is pending.
// Consumer side only.
func (e *Engine) ReadScope(batch *ScopeBatch) bool {
	n, ok := e.scopes.Pop(batch.buf)
	if !ok {
		return false
	}

	half := n / 2
	batch.Left = batch.buf[:half]
	batch.Right = batch.buf[half:n]

	return true
}
