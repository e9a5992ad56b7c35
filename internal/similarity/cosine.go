package similarity

import (
	"fmt"
	"math"
)

// Cosine returns the cosine similarity of a and b, accumulated in float64.
// The result is clamped to [-1, 1] to absorb rounding overshoot.
func Cosine(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(a), len(b))
	}
	var dot, magA, magB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		magA += x * x
		magB += y * y
	}
	if magA == 0 || magB == 0 {
		return 0, ErrDegenerateVector
	}
	s := dot / (math.Sqrt(magA) * math.Sqrt(magB))
	return math.Max(-1, math.Min(1, s)), nil
}

// Pairs lists the unordered index pairs of three texts in output order.
var Pairs = [3][2]int{{0, 1}, {0, 2}, {1, 2}}
