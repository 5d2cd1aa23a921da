package vector

import "math"

// SquaredL2 returns the squared Euclidean distance between two equal-length vectors.
func SquaredL2(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// CosineSimilarity returns the cosine similarity between two vectors.
// Comparisons involving a zero vector are defined as similarity 0.
func CosineSimilarity(a, b []float32) float64 {
	var dot, na2, nb2 float64
	for i := range a {
		va := float64(a[i])
		vb := float64(b[i])
		dot += va * vb
		na2 += va * va
		nb2 += vb * vb
	}
	if na2 == 0 || nb2 == 0 {
		return 0
	}
	return dot / (math.Sqrt(na2) * math.Sqrt(nb2))
}

// AngularDistance returns the angular distance between two vectors, the metric
// the tree backend indexes: sqrt(2*(1-cos)). Zero vectors are maximally distant.
func AngularDistance(a, b []float32) float64 {
	cos := CosineSimilarity(a, b)
	if cos > 1 {
		cos = 1
	}
	if cos < -1 {
		cos = -1
	}
	return math.Sqrt(2 * (1 - cos))
}

// Magnitude returns the L2 norm of a vector.
func Magnitude(x []float32) float64 {
	var sum float64
	for _, v := range x {
		sum += float64(v) * float64(v)
	}
	return math.Sqrt(sum)
}
