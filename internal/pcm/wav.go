package pcm

import (
	"fmt"
	"io"

	"github.com/farcloser/primordium/fault"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/farcloser/sonde/internal/types"
)

// WAVReader decodes a RIFF/WAVE stream of integer PCM.
type WAVReader struct {
	decoder *wav.Decoder
	format  types.PCMFormat
	buf     *audio.IntBuffer
	samples []int
	scale   float64
}

// NewWAVReader reads the WAV header from r and checks the sample format is supported.
func NewWAVReader(r io.ReadSeeker) (*WAVReader, error) {
	decoder := wav.NewDecoder(r)
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		return nil, fmt.Errorf("%w: not a PCM WAV file", ErrUnsupportedFormat)
	}

	format := types.PCMFormat{
		SampleRate: int(decoder.SampleRate),
		BitDepth:   types.BitDepth(decoder.BitDepth),
		Channels:   uint(decoder.NumChans),
	}

	if err := Validate(format); err != nil {
		return nil, err
	}

	return &WAVReader{
		decoder: decoder,
		format:  format,
		buf: &audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: int(format.Channels),
				SampleRate:  format.SampleRate,
			},
			SourceBitDepth: int(format.BitDepth),
		},
		scale: format.BitDepth.FullScale(),
	}, nil
}

// Format returns the stream format from the WAV header.
func (w *WAVReader) Format() types.PCMFormat {
	return w.format
}

// ReadBlock implements Reader.
func (w *WAVReader) ReadBlock(left, right []float64) (int, error) {
	channels := int(w.format.Channels)
	need := len(left) * channels

	if cap(w.samples) < need {
		w.samples = make([]int, need)
	}

	// The decoder may return short reads; keep going until the block is full or data runs out.
	have := 0
	for have < need {
		w.buf.Data = w.samples[have:need]

		n, err := w.decoder.PCMBuffer(w.buf)
		if err != nil {
			return 0, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		if n == 0 {
			break
		}

		have += n
	}

	frames := have / channels
	if frames == 0 {
		return 0, io.EOF
	}

	for i := range frames {
		frame := w.samples[i*channels:]

		left[i] = float64(frame[0]) / w.scale
		if channels > 1 {
			right[i] = float64(frame[1]) / w.scale
		} else {
			right[i] = left[i]
		}
	}

	return frames, nil
}
