// Package sparse holds the feature vector shared by the vectorizer and the classifiers.
package sparse

import "math"

// Vector is a sparse row. Indices are strictly increasing and index into a
// fixed vocabulary; Values are parallel to Indices.
type Vector struct {
	Indices []int
	Values  []float64
}

func (v Vector) Len() int {
	return len(v.Indices)
}

// Dot computes v·w for a dense w. Indices beyond len(w) contribute nothing.
func (v Vector) Dot(w []float64) float64 {
	sum := 0.0
	for k, idx := range v.Indices {
		if idx < len(w) {
			sum += v.Values[k] * w[idx]
		}
	}
	return sum
}

func (v Vector) Norm() float64 {
	sum := 0.0
	for _, val := range v.Values {
		sum += val * val
	}
	return math.Sqrt(sum)
}

// AddScaled performs w += scale*v in place.
func (v Vector) AddScaled(w []float64, scale float64) {
	for k, idx := range v.Indices {
		if idx < len(w) {
			w[idx] += scale * v.Values[k]
		}
	}
}
