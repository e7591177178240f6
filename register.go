package sonde

import (
	"math"
	"sync/atomic"

	"github.com/farcloser/sonde/internal/meter/shared"
)

// Metric identifies one published scalar.
type Metric int

const (
	PeakLeft Metric = iota
	PeakRight
	RMSLeft
	RMSRight
	Momentary
	ShortTerm
	Integrated
	MomentaryMax
	Correlation
	MidRMS
	SideRMS
	LowRMS
	MidBandRMS
	HighRMS
	PeakHoldLeft
	PeakHoldRight
	TruePeakLeft
	TruePeakRight

	metricCount
)

func (m Metric) String() string {
	switch m {
	case PeakLeft:
		return "peak-left"
	case PeakRight:
		return "peak-right"
	case RMSLeft:
		return "rms-left"
	case RMSRight:
		return "rms-right"
	case Momentary:
		return "momentary"
	case ShortTerm:
		return "short-term"
	case Integrated:
		return "integrated"
	case MomentaryMax:
		return "momentary-max"
	case Correlation:
		return "correlation"
	case MidRMS:
		return "mid-rms"
	case SideRMS:
		return "side-rms"
	case LowRMS:
		return "low-rms"
	case MidBandRMS:
		return "mid-band-rms"
	case HighRMS:
		return "high-rms"
	case PeakHoldLeft:
		return "peak-hold-left"
	case PeakHoldRight:
		return "peak-hold-right"
	case TruePeakLeft:
		return "true-peak-left"
	case TruePeakRight:
		return "true-peak-right"
	default:
		return "unknown"
	}
}

// Counter identifies one published event count.
type Counter int

const (
	Blocks Counter = iota
	Samples
	SpectraDropped
	ScopeDropped

	counterCount
)

func (c Counter) String() string {
	switch c {
	case Blocks:
		return "blocks"
	case Samples:
		return "samples"
	case SpectraDropped:
		return "spectra-dropped"
	case ScopeDropped:
		return "scope-dropped"
	default:
		return "unknown"
	}
}

// Register publishes the latest value of every metric. Each value is a float64 stored as bits
// in its own atomic word: any single read is a complete value written by one block, but two
// reads may come from different blocks.
type Register struct {
	values   [metricCount]atomic.Uint64
	counters [counterCount]atomic.Uint64
}

func newRegister() *Register {
	r := &Register{}
	r.reset()

	return r
}

// Load returns the latest value of m, or NaN for an unknown metric.
func (r *Register) Load(m Metric) float64 {
	if m < 0 || m >= metricCount {
		return math.NaN()
	}

	return math.Float64frombits(r.values[m].Load())
}

// Count returns the current value of c, or 0 for an unknown counter.
func (r *Register) Count(c Counter) uint64 {
	if c < 0 || c >= counterCount {
		return 0
	}

	return r.counters[c].Load()
}

func (r *Register) store(m Metric, v float64) {
	r.values[m].Store(math.Float64bits(v))
}

func (r *Register) add(c Counter, n uint64) {
	r.counters[c].Add(n)
}

// reset publishes the silence readings and zeroes the counters.
func (r *Register) reset() {
	for m := range metricCount {
		switch m {
		case Momentary, ShortTerm, Integrated, MomentaryMax:
			r.store(m, shared.LoudnessFloorLUFS)
		case Correlation:
			r.store(m, 0)
		default:
			r.store(m, shared.LevelFloorDB)
		}
	}

	for c := range counterCount {
		r.counters[c].Store(0)
	}
}

// Snapshot is a copy of every register value. Levels are dBFS, true peaks dBTP, loudness LUFS.
type Snapshot struct {
	PeakLeft      float64 `json:"peak_left"`
	PeakRight     float64 `json:"peak_right"`
	RMSLeft       float64 `json:"rms_left"`
	RMSRight      float64 `json:"rms_right"`
	Momentary     float64 `json:"momentary"`
	ShortTerm     float64 `json:"short_term"`
	Integrated    float64 `json:"integrated"`
	MomentaryMax  float64 `json:"momentary_max"`
	Correlation   float64 `json:"correlation"`
	MidRMS        float64 `json:"mid_rms"`
	SideRMS       float64 `json:"side_rms"`
	LowRMS        float64 `json:"low_rms"`
	MidBandRMS    float64 `json:"mid_band_rms"`
	HighRMS       float64 `json:"high_rms"`
	PeakHoldLeft  float64 `json:"peak_hold_left"`
	PeakHoldRight float64 `json:"peak_hold_right"`
	TruePeakLeft  float64 `json:"true_peak_left"`
	TruePeakRight float64 `json:"true_peak_right"`

	Blocks         uint64 `json:"blocks"`
	Samples        uint64 `json:"samples"`
	SpectraDropped uint64 `json:"spectra_dropped"`
	ScopeDropped   uint64 `json:"scope_dropped"`
}

// Snapshot reads every value once. Values are not guaranteed to come from the same block.
func (r *Register) Snapshot() Snapshot {
	return Snapshot{
		PeakLeft:       r.Load(PeakLeft),
		PeakRight:      r.Load(PeakRight),
		RMSLeft:        r.Load(RMSLeft),
		RMSRight:       r.Load(RMSRight),
		Momentary:      r.Load(Momentary),
		ShortTerm:      r.Load(ShortTerm),
		Integrated:     r.Load(Integrated),
		MomentaryMax:   r.Load(MomentaryMax),
		Correlation:    r.Load(Correlation),
		MidRMS:         r.Load(MidRMS),
		SideRMS:        r.Load(SideRMS),
		LowRMS:         r.Load(LowRMS),
		MidBandRMS:     r.Load(MidBandRMS),
		HighRMS:        r.Load(HighRMS),
		PeakHoldLeft:   r.Load(PeakHoldLeft),
		PeakHoldRight:  r.Load(PeakHoldRight),
		TruePeakLeft:   r.Load(TruePeakLeft),
		TruePeakRight:  r.Load(TruePeakRight),
		Blocks:         r.Count(Blocks),
		Samples:        r.Count(Samples),
		SpectraDropped: r.Count(SpectraDropped),
		ScopeDropped:   r.Count(ScopeDropped),
	}
}
