// Package pcm turns encoded audio into the planar float64 blocks the engine consumes.
package pcm

import (
	"errors"

	"github.com/farcloser/sonde/internal/types"
)

var ErrUnsupportedFormat = errors.New("unsupported PCM format")

// Reader yields planar stereo blocks normalized to [-1, 1).
//
// ReadBlock fills left and right, which must have the same length, with up to len(left) frames
// and returns how many it wrote. Mono sources are duplicated into right; channels beyond the
// second are ignored. At the end of the stream it returns 0 and io.EOF.
type Reader interface {
	ReadBlock(left, right []float64) (int, error)
	Format() types.PCMFormat
}

// Validate checks that format can be decoded.
func Validate(format types.PCMFormat) error {
	switch {
	case format.SampleRate <= 0:
		return errors.Join(ErrUnsupportedFormat, errors.New("sample rate must be positive"))
	case format.Channels == 0:
		return errors.Join(ErrUnsupportedFormat, errors.New("at least one channel is required"))
	}

	switch format.BitDepth {
	case types.Depth16, types.Depth24, types.Depth32:
		return nil
	default:
		return errors.Join(ErrUnsupportedFormat, errors.New("bit depth must be 16, 24, or 32"))
	}
}
