package sonde

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/farcloser/sonde/internal/meter/bands"
	"github.com/farcloser/sonde/internal/meter/correlation"
	"github.com/farcloser/sonde/internal/meter/level"
	"github.com/farcloser/sonde/internal/meter/loudness"
	"github.com/farcloser/sonde/internal/meter/scope"
	"github.com/farcloser/sonde/internal/meter/shared"
	"github.com/farcloser/sonde/internal/meter/spectral"
	"github.com/farcloser/sonde/internal/meter/truepeak"
	"github.com/farcloser/sonde/internal/ring"
)

// State is the engine lifecycle stage.
type State int32

const (
	StateUninitialized State = iota
	StatePrepared
	StateRunning
	StateReleased
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StatePrepared:
		return "prepared"
	case StateRunning:
		return "running"
	case StateReleased:
		return "released"
	default:
		return "unknown"
	}
}

// Engine owns every meter and the buffers they need.
//
// ProcessBlock, Prepare and Release belong to the producer goroutine and must not run
// concurrently with each other. Metrics, State, SampleRate, FFTSize, ReadSpectrum and
// ReadScope may be called from one consumer goroutine at any time.
type Engine struct {
	opts     Options
	register *Register
	spectra  *ring.Queue[float64]
	scopes   *ring.Queue[float64]

	state      atomic.Int32
	sampleRate atomic.Uint64
	maxBlock   int

	weighting [2]loudness.Filter
	window    loudness.Window
	splitter  bands.Splitter
	analyzer  *spectral.Analyzer
	decimator *scope.Decimator
	peakHold  [2]float64
	truePeak  [2]truepeak.Detector
}

// New validates opts and allocates the register, the transfer queues and the spectral
// analyzer. The engine starts Uninitialized.
func New(opts Options) (*Engine, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	analyzer, err := spectral.New(opts.FFTSize)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return &Engine{
		opts:      opts,
		register:  newRegister(),
		spectra:   ring.NewQueue[float64](opts.SpectrumSlots, 2*analyzer.Bins()),
		scopes:    ring.NewQueue[float64](opts.ScopeSlots, 2*opts.ScopeBatch),
		analyzer:  analyzer,
		decimator: scope.New(opts.ScopeBatch, opts.ScopeDecimation),
	}, nil
}

// Prepare configures the engine for sampleRate and blocks of up to maxBlockSize samples,
// from any state. Every filter, history and accumulator is cleared and the register is reset
// to silence. Pending spectral frames and scope batches are left for the consumer.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRate, sampleRate)
	}

	if maxBlockSize < 1 {
		return fmt.Errorf("%w: %d", ErrInvalidBlockSize, maxBlockSize)
	}

	for i := range e.weighting {
		e.weighting[i].Prepare(sampleRate)
	}

	e.window.Prepare(sampleRate)
	e.splitter.Prepare(sampleRate)
	e.analyzer.Prepare()
	e.decimator.Reset()
	e.peakHold = [2]float64{}

	for i := range e.truePeak {
		e.truePeak[i].Reset()
	}

	e.register.reset()

	e.maxBlock = maxBlockSize
	e.sampleRate.Store(math.Float64bits(sampleRate))
	e.state.Store(int32(StatePrepared))

	return nil
}

// Release stops the engine. Later blocks are rejected until the next Prepare.
func (e *Engine) Release() {
	e.state.Store(int32(StateReleased))
}

// ProcessBlock measures one block. A nil right channel means mono: left feeds both channels.
// An empty block changes nothing but the state.
//
// It never allocates, locks or blocks. Spectral frames and scope batches completed while the
// consumer is behind are dropped and counted.
func (e *Engine) ProcessBlock(left, right []float64) error {
	switch State(e.state.Load()) {
	case StatePrepared, StateRunning:
	default:
		return ErrNotPrepared
	}

	if right == nil {
		right = left
	} else if len(right) != len(left) {
		return ErrChannelMismatch
	}

	if len(left) > e.maxBlock {
		return ErrBlockTooLarge
	}

	e.state.Store(int32(StateRunning))

	if len(left) == 0 {
		return nil
	}

	var (
		levels level.Accumulator
		corr   correlation.Accumulator
	)

	e.splitter.Clear()

	right = right[:len(left)]
	for i, raw := range left {
		l := shared.Sanitize(raw)
		r := shared.Sanitize(right[i])

		levels.Add(l, r)
		corr.Add(l, r)
		e.truePeak[0].Process(l)
		e.truePeak[1].Process(r)
		e.window.Write(e.weighting[0].Process(l), e.weighting[1].Process(r))
		e.splitter.Process(l, r)

		if e.analyzer.Write(l, r) && !e.spectra.Push(e.analyzer.Frame()) {
			e.register.add(SpectraDropped, 1)
		}

		if e.decimator.Write(l, r) && !e.scopes.Push(e.decimator.Batch()) {
			e.register.add(ScopeDropped, 1)
		}
	}

	e.publish(&levels, &corr, len(left))

	return nil
}

func (e *Engine) publish(levels *level.Accumulator, corr *correlation.Accumulator, samples int) {
	reg := e.register
	result := levels.Result()

	peakLeft, peakRight := levels.Peaks()
	e.peakHold[0] = max(e.peakHold[0], peakLeft)
	e.peakHold[1] = max(e.peakHold[1], peakRight)

	reg.store(PeakLeft, result.PeakLeft)
	reg.store(PeakRight, result.PeakRight)
	reg.store(RMSLeft, result.RMSLeft)
	reg.store(RMSRight, result.RMSRight)
	reg.store(MidRMS, result.Mid)
	reg.store(SideRMS, result.Side)
	reg.store(PeakHoldLeft, shared.AmplitudeDB(e.peakHold[0]))
	reg.store(PeakHoldRight, shared.AmplitudeDB(e.peakHold[1]))
	reg.store(TruePeakLeft, shared.AmplitudeDB(e.truePeak[0].Peak()))
	reg.store(TruePeakRight, shared.AmplitudeDB(e.truePeak[1].Peak()))

	reg.store(Momentary, e.window.Momentary())
	reg.store(ShortTerm, e.window.ShortTerm())
	reg.store(Integrated, e.window.Integrated())
	reg.store(MomentaryMax, e.window.MomentaryMax())

	reg.store(Correlation, corr.Value())

	low, mid, high := e.splitter.Result()
	reg.store(LowRMS, low)
	reg.store(MidBandRMS, mid)
	reg.store(HighRMS, high)

	reg.add(Blocks, 1)
	reg.add(Samples, uint64(samples)) //nolint:gosec // block length is positive
}

// Metrics returns the register the engine publishes into. It is the same for the lifetime of
// the engine.
func (e *Engine) Metrics() *Register {
	return e.register
}

// State returns the current lifecycle stage.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// SampleRate returns the rate given to the latest Prepare, or 0.
func (e *Engine) SampleRate() float64 {
	return math.Float64frombits(e.sampleRate.Load())
}

// FFTSize returns the spectral frame length.
func (e *Engine) FFTSize() int {
	return e.opts.FFTSize
}

// Options returns the construction options.
func (e *Engine) Options() Options {
	return e.opts
}
