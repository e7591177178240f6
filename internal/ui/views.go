package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/farcloser/sonde/internal/display"
)

const (
	labelWidth = 12
	barWidth   = 40

	levelFloor    = -60.0
	loudnessFloor = -60.0
	loudnessTop   = 0.0
)

//nolint:gochecknoglobals // rendering table, effectively const
var sparkRunes = []rune(" ▁▂▃▄▅▆▇█")

func renderMeter(m Model) string {
	var b strings.Builder

	b.WriteString(renderHeader(m))
	b.WriteString("\n\n")

	b.WriteString(boxStyle.Render(renderLevels(m)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(renderLoudness(m)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(renderStereo(m)))
	b.WriteString("\n")
	b.WriteString(boxStyle.Render(renderSpectrum(m)))
	b.WriteString("\n")

	b.WriteString(renderFooter(m))

	return b.String()
}

func renderHeader(m Model) string {
	title := titleStyle.Render("Sonde")
	subtitle := subtitleStyle.Render(m.source)

	return title + " " + subtitle
}

func renderLevels(m Model) string {
	s := m.snapshot

	lines := []string{
		meterLine("Peak L", s.PeakLeft, levelFloor, 0, "dBFS"),
		meterLine("Peak R", s.PeakRight, levelFloor, 0, "dBFS"),
		meterLine("RMS L", s.RMSLeft, levelFloor, 0, "dBFS"),
		meterLine("RMS R", s.RMSRight, levelFloor, 0, "dBFS"),
		labelStyle.Render("VU") + renderBar(m.vu, barWidth),
		labelStyle.Render("Hold") + valueStyle.Render(fmt.Sprintf("%6.1f / %6.1f dBFS", s.PeakHoldLeft, s.PeakHoldRight)),
		labelStyle.Render("True peak") + valueStyle.Render(fmt.Sprintf("%6.1f / %6.1f dBTP", s.TruePeakLeft, s.TruePeakRight)),
	}

	return strings.Join(lines, "\n")
}

func renderLoudness(m Model) string {
	s := m.snapshot

	lines := []string{
		meterLine("Momentary", s.Momentary, loudnessFloor, loudnessTop, "LUFS"),
		meterLine("Short-term", s.ShortTerm, loudnessFloor, loudnessTop, "LUFS"),
		meterLine("Integrated", s.Integrated, loudnessFloor, loudnessTop, "LUFS"),
		labelStyle.Render("Max") + valueStyle.Render(fmt.Sprintf("%6.1f LUFS", s.MomentaryMax)),
	}

	return strings.Join(lines, "\n")
}

func renderStereo(m Model) string {
	values := m.stereo.Values()

	correlation, width := m.snapshot.Correlation, m.width
	if len(values) == 2 {
		correlation, width = values[0], values[1]
	}

	lines := []string{
		labelStyle.Render("Correlation") + renderCorrelation(correlation, barWidth) +
			valueStyle.Render(fmt.Sprintf(" %+5.2f", m.snapshot.Correlation)),
		labelStyle.Render("Width") + renderBar(width, barWidth) +
			valueStyle.Render(fmt.Sprintf(" %5.2f", m.width)),
		meterLine("Mid", m.snapshot.MidRMS, levelFloor, 0, "dBFS"),
		meterLine("Side", m.snapshot.SideRMS, levelFloor, 0, "dBFS"),
	}

	return strings.Join(lines, "\n")
}

func renderSpectrum(m Model) string {
	var b strings.Builder

	bands := m.bands.Values()
	names := []string{"Low", "Mid band", "High"}

	for i, name := range names {
		value := levelFloor
		if i < len(bands) {
			value = bands[i]
		}

		b.WriteString(meterLine(name, value, levelFloor, 0, "dBFS"))
		b.WriteString("\n")
	}

	b.WriteString(labelStyle.Render("Spectrum"))
	b.WriteString(renderSparkline(m.spectrum.Values()))
	b.WriteString("\n")
	b.WriteString(labelStyle.Render("Peak"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.0f Hz", m.peakFrequency)))

	return b.String()
}

func renderFooter(m Model) string {
	status := fmt.Sprintf("%s  %d spectra  %d scope batches  dropped %d/%d",
		formatElapsed(time.Since(m.StartTime)),
		m.spectra, m.batches,
		m.snapshot.SpectraDropped, m.snapshot.ScopeDropped,
	)

	footer := subtitleStyle.Render(status + "  (q to quit)")

	if m.Err != nil {
		footer += "\n" + errorStyle.Render("Error: "+m.Err.Error())
	} else if m.Done {
		footer += "\n" + subtitleStyle.Render("End of input")
	}

	return footer
}

func meterLine(label string, value, floor, top float64, unit string) string {
	position := (value - floor) / (top - floor)

	return labelStyle.Render(label) + renderBar(position, barWidth) +
		valueStyle.Render(fmt.Sprintf(" %6.1f %s", value, unit))
}

// renderBar draws position in [0, 1] as a filled track.
func renderBar(position float64, width int) string {
	position = min(max(position, 0), 1)
	filled := int(position * float64(width))

	return levelStyle(position).Render(strings.Repeat("█", filled)) +
		trackStyle.Render(strings.Repeat("░", width-filled))
}

// renderCorrelation draws a centred needle: left of centre is out of phase.
func renderCorrelation(correlation float64, width int) string {
	correlation = min(max(correlation, -1), 1)
	needle := int((correlation + 1) / 2 * float64(width-1))

	style := lipgloss.NewStyle().Foreground(colorGood)
	if correlation < 0 {
		style = lipgloss.NewStyle().Foreground(colorAccent)
	}

	return trackStyle.Render(strings.Repeat("░", needle)) +
		style.Render("┃") +
		trackStyle.Render(strings.Repeat("░", width-1-needle))
}

// renderSparkline draws decibel values between the spectrum plot limits.
func renderSparkline(values []float64) string {
	var b strings.Builder

	top := len(sparkRunes) - 1

	for _, v := range values {
		position := (v - display.MinSpectrumDB) / (display.MaxSpectrumDB - display.MinSpectrumDB)
		position = min(max(position, 0), 1)
		b.WriteRune(sparkRunes[int(position*float64(top))])
	}

	return levelStyle(0).Render(b.String())
}

// formatElapsed formats elapsed time as MM:SS or HH:MM:SS.
func formatElapsed(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}

	return fmt.Sprintf("%02d:%02d", m, s)
}
