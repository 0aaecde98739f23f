package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand"

	"github.com/hyperjump/hansard/internal/vectorize"
)

// KMeansOptions configures k-means. Zero MaxIter and Tolerance select 300 and 1e-4.
type KMeansOptions struct {
	Clusters int
	MaxIter  int
	// Tolerance is relative to the mean per-column variance of the data; iteration
	// stops once the total squared center shift falls below it.
	Tolerance float64
	Seed      int64
}

// KMeans is Lloyd's algorithm with k-means++ seeding.
type KMeans struct {
	opts KMeansOptions
}

// NewKMeans validates opts and returns the clusterer.
func NewKMeans(opts KMeansOptions) (*KMeans, error) {
	if opts.Clusters < 1 {
		return nil, fmt.Errorf("clusters must be positive, got %d", opts.Clusters)
	}
	if opts.MaxIter == 0 {
		opts.MaxIter = 300
	}
	if opts.Tolerance == 0 {
		opts.Tolerance = 1e-4
	}
	if opts.MaxIter < 1 || opts.Tolerance < 0 {
		return nil, fmt.Errorf("max_iter must be positive and tolerance non-negative")
	}
	return &KMeans{opts: opts}, nil
}

// Name returns the algorithm identifier.
func (km *KMeans) Name() string {
	return string(AlgorithmKMeans)
}

// Fit clusters the rows of m. With at least as many clusters as rows, every row is
// its own cluster.
func (km *KMeans) Fit(ctx context.Context, m *vectorize.Matrix) (*Result, error) {
	n := m.Len()
	res := &Result{Algorithm: AlgorithmKMeans, Labels: make([]int, n), Exemplars: []int{}}
	if n == 0 {
		res.Converged = true
		return res, nil
	}
	if km.opts.Clusters >= n {
		for i := range res.Labels {
			res.Labels[i] = i
		}
		res.Converged = true
		return res, nil
	}

	points := m.Dense()
	rng := rand.New(rand.NewSource(km.opts.Seed))
	centers := seedCenters(points, km.opts.Clusters, rng)
	tol := km.opts.Tolerance * meanVariance(points)

	k := len(centers)
	dim := m.Cols()
	sums := make([][]float64, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	counts := make([]int, k)

	for it := 0; it < km.opts.MaxIter; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Iterations = it + 1

		for c := range sums {
			counts[c] = 0
			for d := range sums[c] {
				sums[c][d] = 0
			}
		}
		for i, p := range points {
			c, _ := nearestCenter(p, centers)
			res.Labels[i] = c
			counts[c]++
			for d, v := range p {
				sums[c][d] += v
			}
		}

		var shift float64
		for c := range centers {
			// An empty cluster keeps its previous center.
			if counts[c] == 0 {
				continue
			}
			for d := range centers[c] {
				next := sums[c][d] / float64(counts[c])
				delta := next - centers[c][d]
				shift += delta * delta
				centers[c][d] = next
			}
		}
		if shift <= tol {
			res.Converged = true
			break
		}
	}

	for i, p := range points {
		res.Labels[i], _ = nearestCenter(p, centers)
	}
	return res, nil
}

// seedCenters picks k initial centers: the first uniformly, the rest with probability
// proportional to the squared distance to the nearest chosen center.
func seedCenters(points [][]float64, k int, rng *rand.Rand) [][]float64 {
	centers := make([][]float64, 0, k)
	first := points[rng.Intn(len(points))]
	centers = append(centers, append([]float64(nil), first...))

	dist := make([]float64, len(points))
	for len(centers) < k {
		var total float64
		for i, p := range points {
			_, d := nearestCenter(p, centers)
			dist[i] = d
			total += d
		}
		next := rng.Intn(len(points))
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dist {
				target -= d
				if target < 0 {
					next = i
					break
				}
			}
		}
		centers = append(centers, append([]float64(nil), points[next]...))
	}
	return centers
}

// nearestCenter returns the index of the closest center and the squared distance to
// it. Ties go to the lower index.
func nearestCenter(p []float64, centers [][]float64) (int, float64) {
	best, bestDist := 0, math.Inf(1)
	for c, center := range centers {
		var d float64
		for j, v := range p {
			diff := v - center[j]
			d += diff * diff
		}
		if d < bestDist {
			best, bestDist = c, d
		}
	}
	return best, bestDist
}

func meanVariance(points [][]float64) float64 {
	if len(points) == 0 || len(points[0]) == 0 {
		return 0
	}
	n := float64(len(points))
	dim := len(points[0])
	var total float64
	for d := 0; d < dim; d++ {
		var mean float64
		for _, p := range points {
			mean += p[d]
		}
		mean /= n
		var v float64
		for _, p := range points {
			diff := p[d] - mean
			v += diff * diff
		}
		total += v / n
	}
	return total / float64(dim)
}
