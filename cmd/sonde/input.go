//nolint:wrapcheck
package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/farcloser/primordium/fault"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonde/internal/integration/ffmpeg"
	"github.com/farcloser/sonde/internal/integration/ffprobe"
	"github.com/farcloser/sonde/internal/pcm"
	"github.com/farcloser/sonde/internal/types"
)

const (
	inputAuto      = "auto"
	inputRaw       = "raw"
	inputWAV       = "wav"
	inputContainer = "container"

	stdinPath = "-"
)

var (
	errInvalidArgCount   = errors.New("expected exactly one argument: file path or \"-\" for stdin")
	errUnknownInput      = errors.New("unknown input kind")
	errMissingSampleRate = errors.New("raw PCM input requires --sample-rate")
	errContainerStdin    = errors.New("container input must be a file")
)

// openSource resolves the input argument of cmd into a block reader. The returned function
// releases what the reader holds.
func openSource(ctx context.Context, cmd *cli.Command, path string) (pcm.Reader, func(), error) {
	kind := cmd.String("input")

	switch kind {
	case inputAuto, inputRaw, inputWAV, inputContainer:
	default:
		return nil, nil, fmt.Errorf("%w: %q", errUnknownInput, kind)
	}

	if path == stdinPath {
		return openStdin(cmd, kind)
	}

	if kind == inputAuto {
		isWAV, err := sniffWAV(path)
		if err != nil {
			return nil, nil, err
		}

		switch {
		case isWAV:
			kind = inputWAV
		case cmd.Int("sample-rate") > 0:
			kind = inputRaw
		default:
			kind = inputContainer
		}
	}

	if kind == inputContainer {
		return openContainer(ctx, path, cmd.Int("stream"))
	}

	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	closer := func() { _ = file.Close() }

	var reader pcm.Reader
	if kind == inputWAV {
		reader, err = pcm.NewWAVReader(file)
	} else {
		reader, err = rawReader(cmd, bufio.NewReader(file))
	}

	if err != nil {
		closer()

		return nil, nil, err
	}

	return reader, closer, nil
}

// openStdin reads stdin, detecting a WAV header when kind is auto. WAV decoding needs to seek,
// so a WAV stream is buffered entirely.
func openStdin(cmd *cli.Command, kind string) (pcm.Reader, func(), error) {
	buffered := bufio.NewReader(os.Stdin)

	if kind == inputAuto {
		head, _ := buffered.Peek(12)

		kind = inputRaw
		if isWAVHeader(head) {
			kind = inputWAV
		}
	}

	switch kind {
	case inputContainer:
		return nil, nil, errContainerStdin
	case inputWAV:
		data, err := io.ReadAll(buffered)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
		}

		reader, err := pcm.NewWAVReader(bytes.NewReader(data))
		if err != nil {
			return nil, nil, err
		}

		return reader, func() {}, nil
	default:
		reader, err := rawReader(cmd, buffered)
		if err != nil {
			return nil, nil, err
		}

		return reader, func() {}, nil
	}
}

// openContainer probes path and streams one of its audio streams through ffmpeg as 32-bit PCM.
func openContainer(ctx context.Context, path string, streamIndex int) (pcm.Reader, func(), error) {
	probeResult, err := ffprobe.Probe(ctx, path)
	if err != nil {
		return nil, nil, fmt.Errorf("probing file: %w", err)
	}

	stream, err := probeResult.AudioStream(streamIndex)
	if err != nil {
		return nil, nil, err
	}

	format, err := stream.PCMFormat(types.Depth32)
	if err != nil {
		return nil, nil, err
	}

	extracted, err := ffmpeg.Stream(ctx, path, streamIndex, types.Depth32)
	if err != nil {
		return nil, nil, fmt.Errorf("extracting PCM: %w", err)
	}

	closer := func() { _ = extracted.Close() }

	reader, err := pcm.NewRawReader(bufio.NewReader(extracted), format)
	if err != nil {
		closer()

		return nil, nil, err
	}

	return reader, closer, nil
}

func rawReader(cmd *cli.Command, r io.Reader) (*pcm.RawReader, error) {
	if cmd.Int("sample-rate") <= 0 {
		return nil, errMissingSampleRate
	}

	format, err := parsePCMFormat(cmd)
	if err != nil {
		return nil, err
	}

	return pcm.NewRawReader(r, format)
}

func sniffWAV(path string) (bool, error) {
	file, err := os.Open(path) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return false, fmt.Errorf("cannot access %s: %w", path, err)
	}
	defer file.Close()

	head := make([]byte, 12)

	n, err := io.ReadFull(file, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	return isWAVHeader(head[:n]), nil
}

func isWAVHeader(head []byte) bool {
	return len(head) >= 12 && string(head[0:4]) == "RIFF" && string(head[8:12]) == "WAVE"
}
