package loudness

import (
	"math"
	"testing"

	"github.com/farcloser/sonde/internal/meter/shared"
)

// feed pushes seconds of a sine at amplitude through a fresh filter pair into w.
func feed(w *Window, sampleRate, freq, amplitude, seconds float64) {
	var left, right Filter

	left.Prepare(sampleRate)
	right.Prepare(sampleRate)

	for i := range int(seconds * sampleRate) {
		x := amplitude * math.Sin(2*math.Pi*freq*float64(i)/sampleRate)
		w.Write(left.Process(x), right.Process(x))
	}
}

func TestMomentaryReferenceSine(t *testing.T) {
	for _, sampleRate := range []float64{44100, 48000, 96000} {
		var w Window

		w.Prepare(sampleRate)
		feed(&w, sampleRate, 1000, 1, 1)

		if got := w.Momentary(); math.Abs(got) > 0.1 {
			t.Errorf("%v Hz: momentary = %.3f LUFS, want ~0", sampleRate, got)
		}
	}
}

func TestMomentaryFollowsGain(t *testing.T) {
	var loud, quiet Window

	loud.Prepare(48000)
	quiet.Prepare(48000)

	feed(&loud, 48000, 1000, 1, 1)
	feed(&quiet, 48000, 1000, math.Pow(10, -20.0/20), 1)

	if shift := loud.Momentary() - quiet.Momentary(); math.Abs(shift-20) > 0.05 {
		t.Errorf("shift = %.3f LU, want 20", shift)
	}
}

func TestMomentaryFloors(t *testing.T) {
	var w Window

	if got := w.Momentary(); got != shared.LoudnessFloorLUFS {
		t.Errorf("unprepared momentary = %v", got)
	}

	w.Prepare(48000)

	if got := w.Momentary(); got != shared.LoudnessFloorLUFS {
		t.Errorf("empty momentary = %v", got)
	}

	for range 48000 {
		w.Write(0, 0)
	}

	if got := w.Momentary(); got != shared.LoudnessFloorLUFS {
		t.Errorf("silent momentary = %v", got)
	}

	if got := w.Integrated(); got != shared.LoudnessFloorLUFS {
		t.Errorf("silent integrated = %v", got)
	}
}

func TestMomentaryPartialHistory(t *testing.T) {
	var w Window

	w.Prepare(48000)

	// 100 samples of constant 0.5 on both channels: mean square 0.25 each.
	for range 100 {
		w.Write(0.5, 0.5)
	}

	want := shared.LoudnessOffset + 10*math.Log10(0.5)
	if got := w.Momentary(); math.Abs(got-want) > 1e-9 {
		t.Errorf("momentary = %v, want %v", got, want)
	}
}

func TestHopReadings(t *testing.T) {
	var w Window

	w.Prepare(48000)

	hops := 0

	for range 48000 {
		if w.Write(0.1, 0.1) {
			hops++
		}
	}

	if hops != 10 {
		t.Fatalf("hops = %d, want 10", hops)
	}

	want := shared.LoudnessOffset + 10*math.Log10(0.02)

	if got := w.ShortTerm(); math.Abs(got-want) > 1e-9 {
		t.Errorf("short-term = %v, want %v", got, want)
	}

	if got := w.MomentaryMax(); math.Abs(got-want) > 1e-9 {
		t.Errorf("momentary max = %v, want %v", got, want)
	}

	if got := w.Integrated(); math.Abs(got-want) > 0.1 {
		t.Errorf("integrated = %v, want %v", got, want)
	}

	// Only hops with a full 400 ms block reach the gate: hops 4 through 10.
	if got := w.gate.Blocks(); got != 7 {
		t.Errorf("gated blocks = %d, want 7", got)
	}
}

func TestPrepareClears(t *testing.T) {
	var w Window

	w.Prepare(48000)
	feed(&w, 48000, 1000, 1, 1)
	w.Prepare(48000)

	if got := w.Momentary(); got != shared.LoudnessFloorLUFS {
		t.Errorf("momentary after prepare = %v", got)
	}

	if got := w.MomentaryMax(); got != shared.LoudnessFloorLUFS {
		t.Errorf("momentary max after prepare = %v", got)
	}
}

func TestGate(t *testing.T) {
	power := func(lufs float64) float64 {
		return math.Pow(10, (lufs-shared.LoudnessOffset)/10)
	}

	var g Gate

	if got := g.Integrated(); got != shared.LoudnessFloorLUFS {
		t.Fatalf("empty gate = %v", got)
	}

	g.Add(power(-80))

	if g.Blocks() != 0 {
		t.Fatalf("block below the absolute gate was kept")
	}

	for range 10 {
		g.Add(power(-20))
	}

	if got := g.Integrated(); math.Abs(got+20) > 0.01 {
		t.Errorf("integrated = %v, want -20", got)
	}

	// Quiet blocks 30 LU down are removed by the relative gate.
	for range 10 {
		g.Add(power(-50))
	}

	if got := g.Integrated(); math.Abs(got+20) > 0.01 {
		t.Errorf("integrated with quiet blocks = %v, want -20", got)
	}

	// Blocks 3 LU down survive and pull the reading down.
	for range 10 {
		g.Add(power(-23))
	}

	if got := g.Integrated(); got > -20.5 || got < -23 {
		t.Errorf("integrated with close blocks = %v", got)
	}

	g.Add(power(40))

	if got := g.Integrated(); math.IsNaN(got) || got < 0 {
		t.Errorf("integrated with an over-range block = %v", got)
	}

	g.Reset()

	if g.Blocks() != 0 {
		t.Errorf("reset kept blocks")
	}
}
