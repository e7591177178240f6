package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/farcloser/primordium/fault"

	"github.com/farcloser/sonde/internal/integration/binary"
	"github.com/farcloser/sonde/internal/types"
)

// ExtractStream decodes one audio stream of the container read from input and writes it to
// output as interleaved little-endian PCM of bitDepth, keeping the source channel layout and
// sample rate. It runs until input is exhausted or ctx is done.
func ExtractStream(
	ctx context.Context,
	input io.Reader,
	output io.Writer,
	streamIndex int,
	bitDepth types.BitDepth,
) error {
	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "start")

	ffmpegPath, err := binary.Lookup(name)
	if err != nil {
		return err
	}

	cmd := exec.CommandContext(ctx, ffmpegPath,
		"-i", "-",
		"-map", "0:a:"+strconv.Itoa(streamIndex),
		"-f", sampleFormat(bitDepth),
		"-acodec", codec(bitDepth),
		"-v", "quiet",
		"-",
	)

	cmd.Stdout = output
	cmd.Stdin = input

	var stderr bytes.Buffer

	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "timeout")

			return fmt.Errorf("%w: %w", fault.ErrTimeout, ctx.Err())
		}

		slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "error")

		return fmt.Errorf("%w: %s: %w", fault.ErrCommandFailure, stderr.String(), err)
	}

	slog.Debug("ffmpeg.ExtractStream", "stream index", streamIndex, "stage", "done")

	return nil
}

// Stream opens filePath and extracts one of its audio streams in the background. The
// returned reader yields PCM as ffmpeg produces it and reports extraction failures as read
// errors. Closing it early stops ffmpeg.
func Stream(ctx context.Context, filePath string, streamIndex int, bitDepth types.BitDepth) (io.ReadCloser, error) {
	file, err := os.Open(filePath) //nolint:gosec // CLI tool opens user-specified audio files
	if err != nil {
		return nil, fmt.Errorf("%w: %w", fault.ErrReadFailure, err)
	}

	reader, writer := io.Pipe()

	go func() {
		defer file.Close()

		writer.CloseWithError(ExtractStream(ctx, file, writer, streamIndex, bitDepth))
	}()

	return reader, nil
}
