package session

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/farcloser/sonde"
	"github.com/farcloser/sonde/internal/pcm"
	"github.com/farcloser/sonde/internal/types"
)

// tone renders seconds of a stereo 16-bit sine, with right = sign * left.
func tone(t *testing.T, sampleRate int, freq, seconds, sign float64) *pcm.RawReader {
	t.Helper()

	frames := int(seconds * float64(sampleRate))
	data := make([]int16, 0, 2*frames)

	for i := range frames {
		v := int16(16384 * math.Sin(2*math.Pi*freq*float64(i)/float64(sampleRate)))
		data = append(data, v, int16(sign)*v)
	}

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, data); err != nil {
		t.Fatal(err)
	}

	reader, err := pcm.NewRawReader(&buf, types.PCMFormat{
		SampleRate: sampleRate,
		BitDepth:   types.Depth16,
		Channels:   2,
	})
	if err != nil {
		t.Fatal(err)
	}

	return reader
}

func newEngine(t *testing.T) *sonde.Engine {
	t.Helper()

	engine, err := sonde.New(sonde.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	return engine
}

func TestRun(t *testing.T) {
	engine := newEngine(t)

	summary, err := Run(context.Background(), engine, tone(t, 48000, 1000, 2, 1), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if summary.Frames != 96000 || summary.Duration != 2*time.Second {
		t.Errorf("frames = %d, duration = %v", summary.Frames, summary.Duration)
	}

	if engine.State() != sonde.StateReleased {
		t.Errorf("engine left in state %v", engine.State())
	}

	total := 96000 / engine.FFTSize()
	if summary.SpectraReceived+int(summary.Metrics.SpectraDropped) != total {
		t.Errorf("spectra received %d + dropped %d != %d",
			summary.SpectraReceived, summary.Metrics.SpectraDropped, total)
	}

	if summary.SpectraReceived == 0 {
		t.Fatal("no spectra received")
	}

	if math.Abs(summary.PeakFrequency-1000) > 48000.0/float64(engine.FFTSize()) {
		t.Errorf("peak frequency = %v", summary.PeakFrequency)
	}

	// Half scale: peak -6 dBFS, momentary about -6 LUFS.
	if math.Abs(summary.Metrics.PeakLeft+6.02) > 0.05 {
		t.Errorf("peak = %v", summary.Metrics.PeakLeft)
	}

	if math.Abs(summary.Metrics.Momentary+6.02) > 0.2 {
		t.Errorf("momentary = %v", summary.Metrics.Momentary)
	}

	if summary.MaxWidth > 1e-3 {
		t.Errorf("identical channels have width %v", summary.MaxWidth)
	}

	if summary.ConsumerPolls == 0 {
		t.Error("consumer never polled")
	}
}

func TestRunInvertedWidth(t *testing.T) {
	summary, err := Run(context.Background(), newEngine(t), tone(t, 44100, 440, 1, -1), DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	if summary.ScopeReceived == 0 {
		t.Fatal("no scope batches received")
	}

	if math.Abs(summary.MaxWidth-1) > 1e-3 || math.Abs(summary.AverageWidth-1) > 1e-3 {
		t.Errorf("inverted channels: max width %v, average %v", summary.MaxWidth, summary.AverageWidth)
	}

	if math.Abs(summary.Metrics.Correlation+1) > 1e-6 {
		t.Errorf("correlation = %v", summary.Metrics.Correlation)
	}
}

func TestFeedRealtimePacing(t *testing.T) {
	engine := newEngine(t)
	if err := engine.Prepare(8000, 400); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.BlockSize = 400
	opts.Realtime = true

	start := time.Now()

	frames, err := Feed(context.Background(), engine, tone(t, 8000, 440, 0.25, 1), opts)
	if err != nil {
		t.Fatal(err)
	}

	if frames != 2000 {
		t.Errorf("frames = %d", frames)
	}

	if elapsed := time.Since(start); elapsed < 200*time.Millisecond {
		t.Errorf("a quarter second of audio was fed in %v", elapsed)
	}
}

func TestFeedCancellation(t *testing.T) {
	engine := newEngine(t)
	if err := engine.Prepare(8000, 512); err != nil {
		t.Fatal(err)
	}

	opts := DefaultOptions()
	opts.Realtime = true

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := Feed(ctx, engine, tone(t, 8000, 440, 10, 1), opts)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v", err)
	}
}

func TestFeedErrors(t *testing.T) {
	engine := newEngine(t)

	opts := DefaultOptions()
	opts.BlockSize = 0

	if _, err := Feed(context.Background(), engine, tone(t, 8000, 440, 0.1, 1), opts); !errors.Is(
		err,
		ErrInvalidBlockSize,
	) {
		t.Errorf("zero block size: err = %v", err)
	}

	if _, err := Feed(context.Background(), engine, tone(t, 8000, 440, 0.1, 1), DefaultOptions()); !errors.Is(
		err,
		sonde.ErrNotPrepared,
	) {
		t.Errorf("unprepared engine: err = %v", err)
	}
}
