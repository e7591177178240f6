package display

// Smoother applies Smooth element-wise to a vector, such as a spectrum or a set of meters.
// The first update adopts the target as is.
type Smoother struct {
	factor float64
	values []float64
}

// NewSmoother returns a smoother moving factor of the distance to the target per update.
func NewSmoother(factor float64) *Smoother {
	return &Smoother{factor: min(max(factor, 0), 1)}
}

// Update moves every value towards target and returns the smoothed vector. A target of a
// different length restarts the smoother.
func (s *Smoother) Update(target []float64) []float64 {
	if len(s.values) != len(target) {
		s.values = append(s.values[:0], target...)

		return s.values
	}

	for i, v := range target {
		s.values[i] = Smooth(s.values[i], v, s.factor)
	}

	return s.values
}

// Values returns the current smoothed vector.
func (s *Smoother) Values() []float64 {
	return s.values
}
