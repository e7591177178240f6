// Package ui is a terminal meter polling an engine at display rate.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/farcloser/sonde"
	"github.com/farcloser/sonde/internal/display"
)

const (
	// RefreshRate is the redraw and polling cadence.
	RefreshRate = time.Second / 60

	spectrumColumns = 64
)

// Model polls an engine on every tick: it reads the register, drains the spectral and scope
// queues and smooths what it shows. It never writes to the engine.
type Model struct {
	engine *sonde.Engine
	source string

	frame *sonde.SpectralFrame
	batch *sonde.ScopeBatch

	snapshot sonde.Snapshot
	combined []float64
	columns  []float64

	spectrum *display.Smoother
	bands    *display.Smoother
	stereo   *display.Smoother
	vu       float64

	peakFrequency float64
	width         float64
	spectra       int
	batches       int

	Width     int
	Height    int
	StartTime time.Time
	Done      bool
	Err       error
}

// NewModel creates a meter for engine, labelled with source.
func NewModel(engine *sonde.Engine, source string) Model {
	return Model{
		engine:    engine,
		source:    source,
		frame:     engine.NewSpectralFrame(),
		batch:     engine.NewScopeBatch(),
		combined:  make([]float64, engine.FFTSize()/2+1),
		columns:   make([]float64, spectrumColumns),
		spectrum:  display.NewSmoother(1 - display.SpectrogramDecay),
		bands:     display.NewSmoother(display.BandSmoothing),
		stereo:    display.NewSmoother(display.StereoSmoothing),
		StartTime: time.Now(),
	}
}

// Init starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

func tickCmd() tea.Cmd {
	return tea.Tick(RefreshRate, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height

	case tickMsg:
		m.poll()

		if m.Done {
			return m, nil
		}

		return m, tickCmd()

	case DoneMsg:
		m.poll()
		m.Done = true
		m.Err = msg.Err

		return m, nil
	}

	return m, nil
}

// poll reads everything the engine published since the previous tick.
func (m *Model) poll() {
	m.snapshot = m.engine.Metrics().Snapshot()
	m.vu = display.Smooth(m.vu, display.VULevel(m.snapshot.RMSLeft, m.snapshot.RMSRight), display.VUSmoothing)

	m.bands.Update([]float64{m.snapshot.LowRMS, m.snapshot.MidBandRMS, m.snapshot.HighRMS})

	sampleRate := m.engine.SampleRate()
	fftSize := m.engine.FFTSize()

	fresh := false
	for m.engine.ReadSpectrum(m.frame) {
		fresh = true
		m.spectra++
	}

	if fresh && sampleRate > 0 {
		for i := range min(len(m.combined), len(m.frame.Left), len(m.frame.Right)) {
			m.combined[i] = (m.frame.Left[i] + m.frame.Right[i]) / 2
		}

		display.LogSpectrum(m.columns, m.combined, fftSize, sampleRate)
		m.spectrum.Update(m.columns)
		m.peakFrequency, _ = display.PeakFrequency(m.combined, fftSize, sampleRate)
	}

	fresh = false
	for m.engine.ReadScope(m.batch) {
		fresh = true
		m.batches++
	}

	if fresh {
		m.width = display.Width(m.batch.Left, m.batch.Right)
	}

	m.stereo.Update([]float64{m.snapshot.Correlation, m.width})
}

// View renders the meter.
func (m Model) View() string {
	if m.Width == 0 {
		return "Initializing..."
	}

	return renderMeter(m)
}
