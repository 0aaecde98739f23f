package cluster

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/hyperjump/hansard/internal/vectorize"
	"github.com/hyperjump/hansard/pkg/utils"
)

const (
	float64Eps  = 2.220446049250313e-16
	float64Tiny = 2.2250738585072014e-308
)

// AffinityOptions configures affinity propagation. Zero values select the defaults
// (damping 0.5, 200 iterations, 15 stable iterations to converge, median preference).
type AffinityOptions struct {
	Damping         float64
	MaxIter         int
	ConvergenceIter int
	// Preference is the self-similarity of every row; nil uses the median similarity.
	// Higher values produce more clusters.
	Preference *float64
	// MaxSamples caps the number of rows, since memory grows with the square of it.
	// Zero means no cap.
	MaxSamples int
	Seed       int64
}

// AffinityPropagation clusters rows by exchanging responsibility and availability
// messages over negative squared Euclidean similarities until a stable set of
// exemplars emerges.
type AffinityPropagation struct {
	opts AffinityOptions
}

// NewAffinityPropagation validates opts and returns the clusterer.
func NewAffinityPropagation(opts AffinityOptions) (*AffinityPropagation, error) {
	if opts.Damping == 0 {
		opts.Damping = 0.5
	}
	if opts.MaxIter == 0 {
		opts.MaxIter = 200
	}
	if opts.ConvergenceIter == 0 {
		opts.ConvergenceIter = 15
	}
	if opts.Damping < 0.5 || opts.Damping >= 1 {
		return nil, fmt.Errorf("damping must be in [0.5, 1), got %v", opts.Damping)
	}
	if opts.MaxIter < 1 || opts.ConvergenceIter < 1 {
		return nil, fmt.Errorf("max_iter and convergence_iter must be positive")
	}
	if opts.MaxSamples < 0 {
		return nil, fmt.Errorf("max_samples cannot be negative")
	}
	return &AffinityPropagation{opts: opts}, nil
}

// Name returns the algorithm identifier.
func (a *AffinityPropagation) Name() string {
	return string(AlgorithmAffinity)
}

// Fit clusters the rows of m. An empty matrix yields an empty result.
func (a *AffinityPropagation) Fit(ctx context.Context, m *vectorize.Matrix) (*Result, error) {
	n := m.Len()
	if n == 0 {
		return &Result{Algorithm: AlgorithmAffinity, Labels: []int{}, Exemplars: []int{}, Converged: true}, nil
	}
	if a.opts.MaxSamples > 0 && n > a.opts.MaxSamples {
		return nil, fmt.Errorf("affinity propagation: %d samples exceeds max_samples %d", n, a.opts.MaxSamples)
	}
	sim := m.SquaredDistances()
	for i := range sim {
		for k := range sim[i] {
			sim[i][k] = -sim[i][k]
		}
	}
	return a.FitSimilarity(ctx, sim)
}

// FitSimilarity clusters from a square similarity matrix, which is not modified.
func (a *AffinityPropagation) FitSimilarity(ctx context.Context, similarity [][]float64) (*Result, error) {
	n := len(similarity)
	if n == 0 {
		return &Result{Algorithm: AlgorithmAffinity, Labels: []int{}, Exemplars: []int{}, Converged: true}, nil
	}
	s := make([]float64, n*n)
	for i, row := range similarity {
		if len(row) != n {
			return nil, fmt.Errorf("similarity matrix is not square: row %d has %d columns, want %d", i, len(row), n)
		}
		copy(s[i*n:], row)
	}

	var pref float64
	if a.opts.Preference != nil {
		pref = *a.opts.Preference
	} else {
		pref = utils.Median(s)
	}

	if n == 1 || equalOffDiagonal(s, n) {
		return degenerateResult(n, pref > s[n-1]), nil
	}

	rng := rand.New(rand.NewSource(a.opts.Seed))
	for i := 0; i < n; i++ {
		s[i*n+i] = pref
	}
	for idx := range s {
		s[idx] += (float64Eps*s[idx] + float64Tiny*100) * rng.NormFloat64()
	}

	damping := a.opts.Damping
	convIter := a.opts.ConvergenceIter
	r := make([]float64, n*n)
	av := make([]float64, n*n)
	tmp := make([]float64, n*n)
	colSum := make([]float64, n)
	stable := make([][]bool, n)
	for i := range stable {
		stable[i] = make([]bool, convIter)
	}
	exemplar := make([]bool, n)

	converged := false
	iterations := 0
	for it := 0; it < a.opts.MaxIter; it++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		iterations = it + 1

		// Responsibilities.
		for i := 0; i < n; i++ {
			row := i * n
			best, first, second := 0, math.Inf(-1), math.Inf(-1)
			for k := 0; k < n; k++ {
				v := av[row+k] + s[row+k]
				if v > first {
					second = first
					first = v
					best = k
				} else if v > second {
					second = v
				}
			}
			for k := 0; k < n; k++ {
				t := s[row+k] - first
				if k == best {
					t = s[row+k] - second
				}
				r[row+k] = damping*r[row+k] + (1-damping)*t
			}
		}

		// Availabilities.
		for k := range colSum {
			colSum[k] = 0
		}
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				v := r[i*n+k]
				if i != k && v < 0 {
					v = 0
				}
				tmp[i*n+k] = v
				colSum[k] += v
			}
		}
		for i := 0; i < n; i++ {
			for k := 0; k < n; k++ {
				t := tmp[i*n+k] - colSum[k]
				if i != k && t < 0 {
					t = 0
				}
				av[i*n+k] = damping*av[i*n+k] - (1-damping)*t
			}
		}

		// Convergence: the exemplar set has not changed for convIter iterations.
		count := 0
		for i := 0; i < n; i++ {
			exemplar[i] = av[i*n+i]+r[i*n+i] > 0
			stable[i][it%convIter] = exemplar[i]
			if exemplar[i] {
				count++
			}
		}
		if it >= convIter {
			settled := 0
			for i := 0; i < n; i++ {
				votes := 0
				for _, e := range stable[i] {
					if e {
						votes++
					}
				}
				if votes == 0 || votes == convIter {
					settled++
				}
			}
			if settled == n && count > 0 {
				converged = true
				break
			}
		}
	}

	var centers []int
	for i, e := range exemplar {
		if e {
			centers = append(centers, i)
		}
	}
	res := &Result{Algorithm: AlgorithmAffinity, Iterations: iterations, Converged: converged}
	if len(centers) == 0 {
		res.Labels = make([]int, n)
		for i := range res.Labels {
			res.Labels[i] = -1
		}
		res.Exemplars = []int{}
		return res, nil
	}

	assign := nearestExemplar(s, n, centers)
	// Refine: within each cluster, the exemplar becomes the member with the highest
	// total similarity to the other members.
	for k := range centers {
		var members []int
		for i, c := range assign {
			if c == k {
				members = append(members, i)
			}
		}
		best, bestSum := members[0], math.Inf(-1)
		for _, j := range members {
			var sum float64
			for _, i := range members {
				sum += s[i*n+j]
			}
			if sum > bestSum {
				best, bestSum = j, sum
			}
		}
		centers[k] = best
	}
	assign = nearestExemplar(s, n, centers)

	rowLabels := make([]int, n)
	unique := make(map[int]bool)
	for i, c := range assign {
		rowLabels[i] = centers[c]
		unique[centers[c]] = true
	}
	res.Exemplars = make([]int, 0, len(unique))
	for row := range unique {
		res.Exemplars = append(res.Exemplars, row)
	}
	sort.Ints(res.Exemplars)
	res.Labels = make([]int, n)
	for i, row := range rowLabels {
		res.Labels[i] = sort.SearchInts(res.Exemplars, row)
	}
	return res, nil
}

// nearestExemplar assigns every row to the position in centers of its most similar
// exemplar; exemplars are assigned to themselves.
func nearestExemplar(s []float64, n int, centers []int) []int {
	assign := make([]int, n)
	for i := 0; i < n; i++ {
		best, bestSim := 0, math.Inf(-1)
		for k, c := range centers {
			if v := s[i*n+c]; v > bestSim {
				best, bestSim = k, v
			}
		}
		assign[i] = best
	}
	for k, c := range centers {
		assign[c] = k
	}
	return assign
}

func equalOffDiagonal(s []float64, n int) bool {
	ref := math.NaN()
	for i := 0; i < n; i++ {
		for k := 0; k < n; k++ {
			if i == k {
				continue
			}
			v := s[i*n+k]
			if math.IsNaN(ref) {
				ref = v
			} else if v != ref {
				return false
			}
		}
	}
	return true
}

// degenerateResult handles inputs where message passing is meaningless: either every
// row is its own exemplar or row 0 is the only one.
func degenerateResult(n int, singletons bool) *Result {
	res := &Result{Algorithm: AlgorithmAffinity, Labels: make([]int, n), Converged: true}
	if singletons {
		res.Exemplars = make([]int, n)
		for i := 0; i < n; i++ {
			res.Labels[i] = i
			res.Exemplars[i] = i
		}
		return res
	}
	res.Exemplars = []int{0}
	return res
}
