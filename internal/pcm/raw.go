package pcm

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/sonde/internal/types"
)

// RawReader decodes interleaved little-endian integer PCM, as produced by ffmpeg -f s16le,
// s24le or s32le. A trailing partial frame is discarded.
type RawReader struct {
	r      io.Reader
	format types.PCMFormat
	buf    []byte
	scale  float64
}

// NewRawReader validates format and wraps r.
func NewRawReader(r io.Reader, format types.PCMFormat) (*RawReader, error) {
	if err := Validate(format); err != nil {
		return nil, err
	}

	return &RawReader{
		r:      r,
		format: format,
		scale:  format.BitDepth.FullScale(),
	}, nil
}

// Format returns the decoded format.
func (p *RawReader) Format() types.PCMFormat {
	return p.format
}

// ReadBlock implements Reader.
func (p *RawReader) ReadBlock(left, right []float64) (int, error) {
	frameSize := p.format.FrameSize()
	need := len(left) * frameSize

	if cap(p.buf) < need {
		p.buf = make([]byte, need)
	}

	n, err := io.ReadFull(p.r, p.buf[:need])
	frames := n / frameSize

	switch {
	case err == nil, errors.Is(err, io.ErrUnexpectedEOF):
	case errors.Is(err, io.EOF):
		return 0, io.EOF
	default:
		return 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	if frames == 0 {
		return 0, io.EOF
	}

	p.decode(p.buf[:frames*frameSize], left[:frames], right[:frames])

	return frames, nil
}

func (p *RawReader) decode(data []byte, left, right []float64) {
	width := p.format.BitDepth.Bytes()
	frameSize := p.format.FrameSize()
	stereo := p.format.Channels > 1

	for i := range left {
		frame := data[i*frameSize:]

		left[i] = p.sample(frame, width)
		if stereo {
			right[i] = p.sample(frame[width:], width)
		} else {
			right[i] = left[i]
		}
	}
}

func (p *RawReader) sample(b []byte, width int) float64 {
	switch width {
	case 2:
		return float64(int16(binary.LittleEndian.Uint16(b))) / p.scale //nolint:gosec // two's complement
	case 3:
		v := int32(b[0]) | int32(b[1])<<8 | int32(int8(b[2]))<<16 //nolint:gosec // sign extension

		return float64(v) / p.scale
	default:
		return float64(int32(binary.LittleEndian.Uint32(b))) / p.scale //nolint:gosec // two's complement
	}
}
