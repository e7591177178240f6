package sonde

import (
	"fmt"
	"math/bits"
)

// Options configures the engine at construction time. Transfer queues are sized from these
// and persist across Prepare calls.
type Options struct {
	// FFTSize is the spectral frame length in samples, a power of two (default: 4096).
	FFTSize int

	// SpectrumSlots is the spectral queue capacity (default: 4). One slot is always kept free,
	// so at most SpectrumSlots-1 frames wait for the consumer.
	SpectrumSlots int

	// ScopeSlots is the scope queue capacity (default: 4).
	ScopeSlots int

	// ScopeBatch is the number of sample pairs per scope batch (default: 512).
	ScopeBatch int

	// ScopeDecimation keeps one pair out of this many for the scope (default: 2).
	ScopeDecimation int
}

// DefaultOptions returns the settings of a typical plugin meter.
func DefaultOptions() Options {
	return Options{
		FFTSize:         4096,
		SpectrumSlots:   4,
		ScopeSlots:      4,
		ScopeBatch:      512,
		ScopeDecimation: 2,
	}
}

func (o Options) validate() error {
	switch {
	case o.FFTSize < 2 || bits.OnesCount(uint(o.FFTSize)) != 1:
		return fmt.Errorf("%w: fft size %d is not a power of two", ErrInvalidOptions, o.FFTSize)
	case o.SpectrumSlots < 2:
		return fmt.Errorf("%w: spectrum slots %d (minimum 2)", ErrInvalidOptions, o.SpectrumSlots)
	case o.ScopeSlots < 2:
		return fmt.Errorf("%w: scope slots %d (minimum 2)", ErrInvalidOptions, o.ScopeSlots)
	case o.ScopeBatch < 1:
		return fmt.Errorf("%w: scope batch %d", ErrInvalidOptions, o.ScopeBatch)
	case o.ScopeDecimation < 1:
		return fmt.Errorf("%w: scope decimation %d", ErrInvalidOptions, o.ScopeDecimation)
	}

	return nil
}
