//nolint:wrapcheck
package main

import (
	"fmt"
	"math"
	"os"

	"github.com/farcloser/primordium/format"
	"github.com/urfave/cli/v3"

	"github.com/farcloser/sonde/internal/output"
	"github.com/farcloser/sonde/internal/session"
)

// imbalanceThreshold is the RMS difference between channels worth reporting, in dB.
const imbalanceThreshold = 0.5

func outputFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: console, json, markdown",
			Value:   "console",
		},
		&cli.BoolFlag{
			Name:    "raw",
			Aliases: []string{"R"},
			Usage:   "Output every metric and counter instead of the summary",
		},
	}
}

func outputSummary(name string, summary *session.Summary, formatName string, raw bool) error {
	formatter, err := format.GetFormatter(formatName)
	if err != nil {
		return err
	}

	var meta map[string]any
	if raw {
		meta = output.SummaryToMap(summary)
	} else {
		meta = buildFriendlyOutput(summary)
	}

	data := &format.Data{
		Object: name,
		Meta:   meta,
	}

	return formatter.PrintAll([]*format.Data{data}, os.Stdout)
}

// buildFriendlyOutput creates a user-friendly summary of a measurement session.
func buildFriendlyOutput(summary *session.Summary) map[string]any {
	m := summary.Metrics

	meta := map[string]any{
		"summary": fmt.Sprintf("%.1fs measured (%d Hz, %d channels)",
			summary.Duration.Seconds(), summary.Format.SampleRate, summary.Format.Channels),
	}

	props := map[string]any{
		"momentary": fmt.Sprintf("%.1f LUFS (max: %.1f LUFS)", m.Momentary, m.MomentaryMax),
		"loudness": fmt.Sprintf("%.1f LUFS integrated, %.1f LUFS short-term (approximate)",
			m.Integrated, m.ShortTerm),
		"peak":         fmt.Sprintf("%.1f / %.1f dBFS", m.PeakHoldLeft, m.PeakHoldRight),
		"true_peak":    fmt.Sprintf("%.1f / %.1f dBTP", m.TruePeakLeft, m.TruePeakRight),
		"rms":          fmt.Sprintf("%.1f / %.1f dBFS", m.RMSLeft, m.RMSRight),
		"correlation":  fmt.Sprintf("%.2f", m.Correlation),
		"stereo_width": fmt.Sprintf("%s (average spread: %.2f)", stereoWidthLabel(m.Correlation), summary.AverageWidth),
		"bands":        fmt.Sprintf("low %.1f / mid %.1f / high %.1f dBFS", m.LowRMS, m.MidBandRMS, m.HighRMS),
	}

	if summary.SpectraReceived > 0 {
		props["spectral_peak"] = fmt.Sprintf("%.0f Hz (%.1f dB)", summary.PeakFrequency, summary.PeakMagnitudeDB)
	}

	if imbalance := m.RMSLeft - m.RMSRight; math.Abs(imbalance) > imbalanceThreshold {
		props["channel_imbalance"] = fmt.Sprintf("%.1f dB (%s louder)", math.Abs(imbalance), imbalanceSide(imbalance))
	}

	if m.SpectraDropped > 0 || m.ScopeDropped > 0 {
		props["dropped"] = fmt.Sprintf("%d spectral frames, %d scope batches", m.SpectraDropped, m.ScopeDropped)
	}

	meta["properties"] = props

	return meta
}

func stereoWidthLabel(correlation float64) string {
	switch {
	case correlation > 0.95:
		return "Mono/Narrow"
	case correlation > 0.75:
		return "Narrow"
	case correlation > 0.5:
		return "Normal"
	case correlation > 0.2:
		return "Wide"
	case correlation < -0.5:
		return "Out of phase"
	default:
		return "Very Wide"
	}
}

func imbalanceSide(imbalanceDb float64) string {
	if imbalanceDb > 0 {
		return "left"
	}

	return "right"
}
