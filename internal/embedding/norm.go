package embedding

import "math"

// NormalizeL2 scales v in place to unit L2 norm. Zero vectors are left alone.
func NormalizeL2(v []float32) {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	if sum == 0 {
		return
	}
	inv := float32(1 / math.Sqrt(sum))
	for i := range v {
		v[i] *= inv
	}
}
