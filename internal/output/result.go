// Package output provides shared result serialization for sonde JSON output.
package output

import (
	"github.com/farcloser/sonde"
	"github.com/farcloser/sonde/internal/session"
)

// SnapshotToMap converts a register snapshot into the canonical map structure
// used for JSON and JSONL serialization.
func SnapshotToMap(snapshot sonde.Snapshot) map[string]any {
	return map[string]any{
		"levels": map[string]any{
			"peak_left_db":       snapshot.PeakLeft,
			"peak_right_db":      snapshot.PeakRight,
			"rms_left_db":        snapshot.RMSLeft,
			"rms_right_db":       snapshot.RMSRight,
			"peak_hold_left_db":  snapshot.PeakHoldLeft,
			"peak_hold_right_db": snapshot.PeakHoldRight,
			"true_peak_left_db":  snapshot.TruePeakLeft,
			"true_peak_right_db": snapshot.TruePeakRight,
		},
		"loudness": map[string]any{
			"momentary_lufs":     snapshot.Momentary,
			"short_term_lufs":    snapshot.ShortTerm,
			"integrated_lufs":    snapshot.Integrated,
			"momentary_max_lufs": snapshot.MomentaryMax,
		},
		"stereo": map[string]any{
			"correlation": snapshot.Correlation,
			"mid_rms_db":  snapshot.MidRMS,
			"side_rms_db": snapshot.SideRMS,
		},
		"bands": map[string]any{
			"low_rms_db":  snapshot.LowRMS,
			"mid_rms_db":  snapshot.MidBandRMS,
			"high_rms_db": snapshot.HighRMS,
		},
		"counters": map[string]any{
			"blocks":          snapshot.Blocks,
			"samples":         snapshot.Samples,
			"spectra_dropped": snapshot.SpectraDropped,
			"scope_dropped":   snapshot.ScopeDropped,
		},
	}
}

// SummaryToMap converts a session summary into the canonical map structure.
func SummaryToMap(summary *session.Summary) map[string]any {
	meta := SnapshotToMap(summary.Metrics)

	meta["format"] = map[string]any{
		"sample_rate": summary.Format.SampleRate,
		"bit_depth":   int(summary.Format.BitDepth), //nolint:gosec // audio format values are small constants
		"channels":    int(summary.Format.Channels), //nolint:gosec // audio format values are small constants
	}
	meta["frames"] = summary.Frames
	meta["duration_seconds"] = summary.Duration.Seconds()

	meta["spectrum"] = map[string]any{
		"frames_received":   summary.SpectraReceived,
		"peak_frequency_hz": summary.PeakFrequency,
		"peak_magnitude_db": summary.PeakMagnitudeDB,
	}

	meta["scope"] = map[string]any{
		"batches_received": summary.ScopeReceived,
		"max_width":        summary.MaxWidth,
		"average_width":    summary.AverageWidth,
		"consumer_polls":   summary.ConsumerPolls,
	}

	return meta
}
