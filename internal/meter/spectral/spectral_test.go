package spectral

import (
	"errors"
	"math"
	"testing"
)

func TestNewRejectsBadSizes(t *testing.T) {
	for _, size := range []int{0, 1, 3, 1000, -4} {
		if _, err := New(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("New(%d) error = %v", size, err)
		}
	}
}

func TestBinCenteredSine(t *testing.T) {
	const (
		size = 4096
		bin  = 64
	)

	a, err := New(size)
	if err != nil {
		t.Fatal(err)
	}

	if a.Bins() != size/2+1 || len(a.Frame()) != 2*a.Bins() {
		t.Fatalf("bins = %d, frame = %d", a.Bins(), len(a.Frame()))
	}

	completed := 0

	for i := range 2 * size {
		x := math.Sin(2 * math.Pi * bin * float64(i) / size)
		if a.Write(x, 0.5*x) {
			completed++
		}
	}

	if completed != 2 {
		t.Fatalf("completed frames = %d, want 2", completed)
	}

	bins := a.Bins()
	left, right := a.Frame()[:bins], a.Frame()[bins:]

	peak := 0
	for i, v := range left {
		if v > left[peak] {
			peak = i
		}
	}

	if peak != bin {
		t.Errorf("peak bin = %d, want %d", peak, bin)
	}

	want := float64(size) / 4
	if math.Abs(left[bin]-want)/want > 0.02 {
		t.Errorf("left magnitude = %v, want %v", left[bin], want)
	}

	if math.Abs(right[bin]-want/2)/want > 0.02 {
		t.Errorf("right magnitude = %v, want %v", right[bin], want/2)
	}

	if left[bin+10] > want*1e-3 {
		t.Errorf("leakage at bin %d = %v", bin+10, left[bin+10])
	}
}

func TestPrepareDiscardsPartialFrame(t *testing.T) {
	a, err := New(256)
	if err != nil {
		t.Fatal(err)
	}

	for range 200 {
		a.Write(1, 1)
	}

	a.Prepare()

	for i := range 255 {
		if a.Write(0, 0) {
			t.Fatalf("frame completed after %d writes", i+1)
		}
	}

	if !a.Write(0, 0) {
		t.Fatal("frame not completed after a full frame of writes")
	}

	for i, v := range a.Frame() {
		if v != 0 {
			t.Fatalf("bin %d = %v for silence", i, v)
		}
	}
}
