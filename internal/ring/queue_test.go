package ring

import (
	"math/rand/v2"
	"runtime"
	"sync"
	"testing"
)

func TestQueueCapacityAndOrder(t *testing.T) {
	q := NewQueue[int](4, 2)

	for i := range 3 {
		if !q.Push([]int{i, i}) {
			t.Fatalf("push %d rejected", i)
		}
	}

	if q.Push([]int{9, 9}) {
		t.Fatal("push into a full queue succeeded")
	}

	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}

	dest := make([]int, 2)

	for i := range 3 {
		n, ok := q.Pop(dest)
		if !ok || n != 2 || dest[0] != i || dest[1] != i {
			t.Fatalf("pop %d = %v (%d, %v)", i, dest, n, ok)
		}
	}

	if _, ok := q.Pop(dest); ok {
		t.Fatal("pop from an empty queue succeeded")
	}
}

func TestQueueRejectsOversizedPayload(t *testing.T) {
	q := NewQueue[float64](4, 2)

	if q.Push([]float64{1, 2, 3}) {
		t.Fatal("oversized payload accepted")
	}

	if q.Len() != 0 {
		t.Fatalf("Len = %d after rejected push", q.Len())
	}
}

func TestQueueShortPayload(t *testing.T) {
	q := NewQueue[float64](2, 8)
	q.Push([]float64{1, 2, 3})

	dest := make([]float64, 8)

	n, ok := q.Pop(dest)
	if !ok || n != 3 {
		t.Fatalf("Pop = %d, %v", n, ok)
	}
}

// Sequence numbers pushed by the producer must come out of the consumer strictly increasing,
// with every element of a slot agreeing: nothing invented, nothing overwritten.
func runSequenceProperty(t *testing.T, seed uint64, retry bool) {
	t.Helper()

	const (
		total   = 20000
		slotLen = 16
	)

	q := NewQueue[uint64](5, slotLen)

	var (
		wg       sync.WaitGroup
		pushed   uint64
		received []uint64
	)

	done := make(chan struct{})

	wg.Add(2)

	go func() {
		defer wg.Done()
		defer close(done)

		rng := rand.New(rand.NewPCG(seed, 1))
		payload := make([]uint64, slotLen)

		for seq := uint64(1); seq <= total; {
			for i := range payload {
				payload[i] = seq
			}

			ok := q.Push(payload)
			if ok {
				pushed++
			}

			if ok || !retry {
				seq++
			}

			if rng.IntN(4) == 0 {
				runtime.Gosched()
			}
		}
	}()

	go func() {
		defer wg.Done()

		rng := rand.New(rand.NewPCG(seed, 2))
		dest := make([]uint64, slotLen)

		drain := func() bool {
			n, ok := q.Pop(dest)
			if !ok {
				return false
			}

			if n != slotLen {
				t.Errorf("popped %d elements, want %d", n, slotLen)
			}

			for _, v := range dest[1:n] {
				if v != dest[0] {
					t.Errorf("torn slot: %v", dest[:n])

					break
				}
			}

			received = append(received, dest[0])

			return true
		}

		for {
			select {
			case <-done:
				for drain() {
				}

				return
			default:
			}

			drain()

			if rng.IntN(3) == 0 {
				runtime.Gosched()
			}
		}
	}()

	wg.Wait()

	if uint64(len(received)) != pushed {
		t.Fatalf("received %d payloads, producer saw %d accepted", len(received), pushed)
	}

	for i := 1; i < len(received); i++ {
		if received[i] <= received[i-1] {
			t.Fatalf("sequence went backwards at %d: %d after %d", i, received[i], received[i-1])
		}

		if retry && received[i] != received[i-1]+1 {
			t.Fatalf("gap at %d: %d after %d", i, received[i], received[i-1])
		}
	}

	if retry && len(received) > 0 && (received[0] != 1 || received[len(received)-1] != total) {
		t.Fatalf("range = [%d, %d], want [1, %d]", received[0], received[len(received)-1], total)
	}
}

func TestQueueSequenceLossless(t *testing.T) {
	for seed := range uint64(4) {
		runSequenceProperty(t, seed, true)
	}
}

func TestQueueSequenceLossy(t *testing.T) {
	for seed := range uint64(4) {
		runSequenceProperty(t, seed+100, false)
	}
}
