// Package scope decimates a stereo signal into fixed-size batches of sample pairs for
// goniometer and vectorscope displays.
package scope

// Decimator keeps one pair out of every Factor and hands out full batches.
type Decimator struct {
	batch   []float64
	size    int
	factor  int
	skipped int
	filled  int
}

// New allocates a decimator emitting batches of size pairs, keeping every factor-th pair.
func New(size, factor int) *Decimator {
	size = max(size, 1)

	return &Decimator{
		batch:  make([]float64, 2*size),
		size:   size,
		factor: max(factor, 1),
	}
}

// Size is the number of pairs per batch.
func (d *Decimator) Size() int {
	return d.size
}

// Reset drops the partial batch.
func (d *Decimator) Reset() {
	d.skipped = 0
	d.filled = 0
}

// Write offers one pair. It returns true when the pair completed a batch, which is then
// available from Batch until the next Write.
func (d *Decimator) Write(left, right float64) bool {
	d.skipped++
	if d.skipped < d.factor {
		return false
	}

	d.skipped = 0

	d.batch[d.filled] = left
	d.batch[d.size+d.filled] = right

	d.filled++
	if d.filled < d.size {
		return false
	}

	d.filled = 0

	return true
}

// Batch is the last completed batch, left samples then right samples.
func (d *Decimator) Batch() []float64 {
	return d.batch
}
