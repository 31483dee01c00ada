package vectorstore

import "math"

// Cosine computes the cosine similarity between two equal-length
// vectors. A zero-magnitude vector scores 0 against everything; a
// length mismatch also scores 0 rather than comparing across spaces.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na += va * va
		nb += vb * vb
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
