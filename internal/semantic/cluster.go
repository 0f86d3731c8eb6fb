package semantic

import "math/rand"

// clusterSeed fixes k-means initialization so theme output is reproducible
// across runs on the same corpus.
const clusterSeed = 42

// kMeans runs Lloyd's algorithm over the vectors and returns per-vector
// cluster assignments and the final centroids. The caller guarantees
// k >= 1 and len(vectors) >= k.
func kMeans(vectors [][]float32, k, maxIterations int) ([]int, [][]float32) {
	rng := rand.New(rand.NewSource(clusterSeed))
	dims := len(vectors[0])

	// Initialize centroids from k distinct documents.
	centroids := make([][]float32, k)
	for i, idx := range rng.Perm(len(vectors))[:k] {
		centroids[i] = append([]float32(nil), vectors[idx]...)
	}

	assignments := make([]int, len(vectors))
	for iter := 0; iter < maxIterations; iter++ {
		changed := false
		for i, v := range vectors {
			best := 0
			bestDist := squaredDistance(v, centroids[0])
			for c := 1; c < k; c++ {
				if d := squaredDistance(v, centroids[c]); d < bestDist {
					best, bestDist = c, d
				}
			}
			if assignments[i] != best {
				assignments[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		// Recompute centroids as member means. Empty clusters keep their
		// previous centroid.
		sums := make([][]float32, k)
		counts := make([]int, k)
		for c := range sums {
			sums[c] = make([]float32, dims)
		}
		for i, v := range vectors {
			c := assignments[i]
			counts[c]++
			for j, x := range v {
				sums[c][j] += x
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float32(counts[c])
			}
		}
	}

	return assignments, centroids
}

func squaredDistance(a, b []float32) float32 {
	var sum float32
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
