//nolint:tagliatelle
package ffprobe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/sonde/internal/integration/binary"
	"github.com/farcloser/sonde/internal/types"
)

// Result is the part of ffprobe's JSON output sonde reads or records in reports.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream is one entry of ffprobe's streams array.
//
// Bit depth is reported inconsistently across codecs: bits_per_raw_sample is reliable for
// FLAC and ALAC, bits_per_sample for PCM containers, and neither means anything for lossy
// codecs. See SourceBitDepth.
type Stream struct {
	Index            int    `json:"index"`
	CodecName        string `json:"codec_name"`
	CodecType        string `json:"codec_type"`
	SampleRate       string `json:"sample_rate,omitempty"`
	Channels         int    `json:"channels,omitempty"`
	ChannelLayout    string `json:"channel_layout,omitempty"`
	SampleFmt        string `json:"sample_fmt,omitempty"`
	Duration         string `json:"duration,omitempty"` // seconds
	BitRate          string `json:"bit_rate,omitempty"`
	BitsPerRawSample string `json:"bits_per_raw_sample,omitempty"`
	BitsPerSample    int    `json:"bits_per_sample,omitempty"`
}

// Format is the container section. Filename is dropped from redacted reports.
type Format struct {
	Filename   string `json:"filename"`
	FormatName string `json:"format_name"`
	NbStreams  int    `json:"nb_streams"`
	Duration   string `json:"duration,omitempty"`
	BitRate    string `json:"bit_rate,omitempty"`
	Size       string `json:"size,omitempty"`
}

// Probe runs ffprobe against filePath, bounded by the package timeout.
func Probe(ctx context.Context, filePath string) (*Result, error) {
	slog.Debug("ffprobe.Probe", "file path", filePath)

	ffprobePath, err := binary.Lookup(name)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	//nolint:gosec // probing a user-supplied media file
	cmd := exec.CommandContext(ctx, ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: after %v", fault.ErrTimeout, timeout)
		}

		return nil, fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	var result Result
	if err = json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrInvalidJSON, err)
	}

	return &result, nil
}

// Stream selection errors.
var (
	ErrNoAudioStream = errors.New("audio stream not found")
	ErrInvalidStream = errors.New("unusable audio stream")
)

// AudioStream returns the index-th audio stream (0-based, counting audio streams only).
func (r *Result) AudioStream(index int) (*Stream, error) {
	audioCount := 0

	for i := range r.Streams {
		if r.Streams[i].CodecType == "audio" {
			if audioCount == index {
				return &r.Streams[i], nil
			}

			audioCount++
		}
	}

	return nil, fmt.Errorf("%w: index %d (file has %d audio streams)", ErrNoAudioStream, index, audioCount)
}

// PCMFormat describes the stream once decoded to interleaved PCM of bitDepth.
func (s *Stream) PCMFormat(bitDepth types.BitDepth) (types.PCMFormat, error) {
	sampleRate, err := strconv.Atoi(s.SampleRate)
	if err != nil || sampleRate <= 0 {
		return types.PCMFormat{}, fmt.Errorf("%w: sample rate %q", ErrInvalidStream, s.SampleRate)
	}

	if s.Channels <= 0 {
		return types.PCMFormat{}, fmt.Errorf("%w: channel count %d", ErrInvalidStream, s.Channels)
	}

	return types.PCMFormat{
		SampleRate: sampleRate,
		BitDepth:   bitDepth,
		Channels:   uint(s.Channels), //nolint:gosec // validated positive value
	}, nil
}

// SourceBitDepth is the bit depth of the encoded stream, or 0 for lossy codecs and when the
// container does not say.
func (s *Stream) SourceBitDepth() int {
	if bits, err := strconv.Atoi(s.BitsPerRawSample); err == nil && bits > 0 {
		return bits
	}

	return s.BitsPerSample
}
