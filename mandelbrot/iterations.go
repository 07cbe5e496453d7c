package mandelbrot

import "math"

const minimumPassIterations = 32

// MaxIterations grows with zoom depth: every halving of the scale below ReferenceScale adds IterationsPerOctave
// iterations, up to IterationCap.
func (s *Settings) MaxIterations(scaleFactor float64) int {
	depth := math.Log2(s.ReferenceScale / scaleFactor)
	if depth <= 0 || math.IsNaN(depth) {
		return s.BaseIterations
	}
	extra := math.Ceil(depth * float64(s.IterationsPerOctave))
	if extra >= float64(s.IterationCap-s.BaseIterations) {
		return s.IterationCap
	}
	return s.BaseIterations + int(extra)
}

// PassIterations is the iteration limit of one progressive pass. The last pass always uses MaxIterations, each
// earlier pass a quarter of the one after it.
func (s *Settings) PassIterations(scaleFactor float64, pass int) int {
	final := s.MaxIterations(scaleFactor)
	shift := 2 * (s.Passes - 1 - pass)
	if shift <= 0 {
		return final
	}
	iterations := final >> shift
	if iterations < minimumPassIterations {
		iterations = minimumPassIterations
	}
	if iterations > final {
		iterations = final
	}
	return iterations
}
