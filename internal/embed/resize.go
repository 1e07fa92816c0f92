package embed

import "math"

// Resize maps a vector to exactly target dimensions. Vectors already at the
// target pass through unchanged, shorter vectors are zero-padded, and longer
// vectors are reduced by averaging contiguous ranges and re-normalizing to
// unit length so cosine similarity stays meaningful.
func Resize(vec []float32, target int) []float32 {
	if target <= 0 || len(vec) == target {
		return vec
	}

	if len(vec) < target {
		out := make([]float32, target)
		copy(out, vec)
		return out
	}

	scale := float64(len(vec)) / float64(target)
	out := make([]float32, target)
	for i := 0; i < target; i++ {
		start := int(float64(i) * scale)
		end := int(float64(i+1) * scale)
		if end > len(vec) {
			end = len(vec)
		}
		if start >= len(vec) || start == end {
			continue
		}
		var sum float32
		for _, v := range vec[start:end] {
			sum += v
		}
		out[i] = sum / float32(end-start)
	}
	return normalize(out)
}

// normalize scales a vector to unit length. Zero vectors pass through.
func normalize(vec []float32) []float32 {
	var sumSq float64
	for _, v := range vec {
		sumSq += float64(v) * float64(v)
	}
	mag := math.Sqrt(sumSq)
	if mag == 0 {
		return vec
	}
	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / mag)
	}
	return out
}
