// Package session drives an engine from a PCM reader on one goroutine while draining its
// spectral and scope output on another, the way an audio callback and a meter UI would.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/farcloser/sonde"
	"github.com/farcloser/sonde/internal/display"
	"github.com/farcloser/sonde/internal/meter/shared"
	"github.com/farcloser/sonde/internal/pcm"
	"github.com/farcloser/sonde/internal/types"
)

var ErrInvalidBlockSize = errors.New("block size must be positive")

// Options configures a session.
type Options struct {
	// BlockSize is the number of frames handed to the engine per call (default: 512).
	BlockSize int

	// Realtime paces the producer to the stream's sample rate instead of running flat out.
	Realtime bool

	// PollInterval is the consumer cadence (default: 1/60 s).
	PollInterval time.Duration
}

// DefaultOptions returns the settings of a 60 Hz meter fed 512-frame blocks.
func DefaultOptions() Options {
	return Options{
		BlockSize:    512,
		PollInterval: time.Second / 60,
	}
}

// Summary is what a session observed once the stream ended.
type Summary struct {
	Format   types.PCMFormat
	Frames   int64
	Duration time.Duration
	Metrics  sonde.Snapshot

	// Consumer side.
	SpectraReceived int
	ScopeReceived   int
	PeakFrequency   float64
	PeakMagnitudeDB float64
	MaxWidth        float64
	AverageWidth    float64
	ConsumerPolls   int
}

// Feed reads reader to the end, handing every block to engine. The engine must already be
// prepared for blocks of opts.BlockSize frames. It returns the number of frames processed.
func Feed(ctx context.Context, engine *sonde.Engine, reader pcm.Reader, opts Options) (int64, error) {
	if opts.BlockSize <= 0 {
		return 0, ErrInvalidBlockSize
	}

	left := make([]float64, opts.BlockSize)
	right := make([]float64, opts.BlockSize)
	sampleRate := float64(reader.Format().SampleRate)
	start := time.Now()

	var frames int64

	for {
		if err := ctx.Err(); err != nil {
			return frames, err
		}

		n, err := reader.ReadBlock(left, right)
		if errors.Is(err, io.EOF) {
			return frames, nil
		}

		if err != nil {
			return frames, err
		}

		if err = engine.ProcessBlock(left[:n], right[:n]); err != nil {
			return frames, fmt.Errorf("processing block at frame %d: %w", frames, err)
		}

		frames += int64(n)

		if opts.Realtime {
			due := start.Add(time.Duration(float64(frames) / sampleRate * float64(time.Second)))
			if err = sleepUntil(ctx, due); err != nil {
				return frames, err
			}
		}
	}
}

func sleepUntil(ctx context.Context, due time.Time) error {
	wait := time.Until(due)
	if wait <= 0 {
		return nil
	}

	timer := time.NewTimer(wait)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Run prepares engine for the reader's format, then feeds it on one goroutine while another
// polls the register and drains spectra and scope batches every opts.PollInterval. It returns
// once the reader is exhausted and the consumer has drained what was left.
func Run(ctx context.Context, engine *sonde.Engine, reader pcm.Reader, opts Options) (*Summary, error) {
	if opts.PollInterval <= 0 {
		opts.PollInterval = DefaultOptions().PollInterval
	}

	format := reader.Format()

	if err := engine.Prepare(float64(format.SampleRate), opts.BlockSize); err != nil {
		return nil, err
	}
	defer engine.Release()

	slog.Debug("session.Run", "sample rate", format.SampleRate, "channels", format.Channels, "stage", "start")

	summary := &Summary{Format: format, PeakMagnitudeDB: display.MinSpectrumDB}
	consumer := newConsumer(engine, summary)
	done := make(chan struct{})

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		defer close(done)

		frames, err := Feed(ctx, engine, reader, opts)
		summary.Frames = frames

		return err
	})

	group.Go(func() error {
		ticker := time.NewTicker(opts.PollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-done:
				consumer.poll()

				return nil
			case <-ticker.C:
				consumer.poll()
			}
		}
	})

	if err := group.Wait(); err != nil {
		slog.Debug("session.Run", "stage", "error")

		return nil, err
	}

	summary.Metrics = engine.Metrics().Snapshot()
	summary.Duration = time.Duration(float64(summary.Frames) / float64(format.SampleRate) * float64(time.Second))
	summary.ConsumerPolls = consumer.polls

	if consumer.widthCount > 0 {
		summary.AverageWidth = consumer.widthSum / float64(consumer.widthCount)
	}

	slog.Debug("session.Run", "frames", summary.Frames, "spectra", summary.SpectraReceived, "stage", "done")

	return summary, nil
}

// consumer owns the read side of the engine for one session.
type consumer struct {
	engine  *sonde.Engine
	summary *Summary
	frame   *sonde.SpectralFrame
	batch   *sonde.ScopeBatch

	polls      int
	widthSum   float64
	widthCount int
}

func newConsumer(engine *sonde.Engine, summary *Summary) *consumer {
	return &consumer{
		engine:  engine,
		summary: summary,
		frame:   engine.NewSpectralFrame(),
		batch:   engine.NewScopeBatch(),
	}
}

func (c *consumer) poll() {
	c.polls++

	fftSize := c.engine.FFTSize()
	sampleRate := c.engine.SampleRate()

	for c.engine.ReadSpectrum(c.frame) {
		c.summary.SpectraReceived++

		for _, channel := range [][]float64{c.frame.Left, c.frame.Right} {
			freq, db := display.PeakFrequency(channel, fftSize, sampleRate)
			if db > c.summary.PeakMagnitudeDB {
				c.summary.PeakMagnitudeDB = db
				c.summary.PeakFrequency = freq
			}
		}
	}

	for c.engine.ReadScope(c.batch) {
		c.summary.ScopeReceived++

		// Silent batches say nothing about width.
		if level(c.batch.Left) <= shared.LevelEpsilon && level(c.batch.Right) <= shared.LevelEpsilon {
			continue
		}

		width := display.Width(c.batch.Left, c.batch.Right)
		c.summary.MaxWidth = max(c.summary.MaxWidth, width)
		c.widthSum += width
		c.widthCount++
	}
}

func level(samples []float64) float64 {
	var peak float64

	for _, v := range samples {
		peak = max(peak, v, -v)
	}

	return peak
}
