//nolint:tagliatelle
package main

import "encoding/json"

// Record is a single line in the JSONL report file.
type Record struct {
	File           string          `json:"file,omitempty"`
	Codec          string          `json:"codec,omitempty"`
	SourceBitDepth int             `json:"source_bit_depth,omitempty"` // 0 for lossy codecs
	Analysis       map[string]any  `json:"analysis,omitempty"`
	Probe          json.RawMessage `json:"probe,omitempty"`
	ProbeError     string          `json:"probe_error,omitempty"`
	Error          string          `json:"error,omitempty"`
	Timing         *RecordTiming   `json:"timing,omitempty"`
}

// RecordTiming captures per-file processing durations in milliseconds. Decoding and
// measurement overlap, so they are timed together.
type RecordTiming struct {
	ProbeMs   float64 `json:"probe_ms"`
	MeasureMs float64 `json:"measure_ms"`
	TotalMs   float64 `json:"total_ms"`
}

// digestRecord holds the typed fields needed by the digest command.
type digestRecord struct {
	File           string          `json:"file,omitempty"`
	SourceBitDepth int             `json:"source_bit_depth,omitempty"`
	Analysis       *digestAnalysis `json:"analysis,omitempty"`
	Error          string          `json:"error,omitempty"`
}

type digestAnalysis struct {
	DurationSeconds float64        `json:"duration_seconds"`
	Levels          digestLevels   `json:"levels"`
	Loudness        digestLoudness `json:"loudness"`
	Scope           digestScope    `json:"scope"`
}

type digestLevels struct {
	PeakHoldLeft  float64 `json:"peak_hold_left_db"`
	PeakHoldRight float64 `json:"peak_hold_right_db"`
	TruePeakLeft  float64 `json:"true_peak_left_db"`
	TruePeakRight float64 `json:"true_peak_right_db"`
}

type digestLoudness struct {
	Integrated   float64 `json:"integrated_lufs"`
	MomentaryMax float64 `json:"momentary_max_lufs"`
}

type digestScope struct {
	AverageWidth float64 `json:"average_width"`
}

// findingBreakdown tracks how many tracks raised a finding.
type findingBreakdown struct {
	Finding string
	Total   int
}
