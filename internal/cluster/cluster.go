// Package cluster provides clustering algorithms over sparse feature matrices and a
// factory for creating them.
package cluster

import (
	"context"
	"fmt"

	"github.com/hyperjump/hansard/internal/config"
	"github.com/hyperjump/hansard/internal/vectorize"
)

// Algorithm names a clustering algorithm.
type Algorithm string

const (
	// AlgorithmAffinity is affinity propagation; the number of clusters is found from the data.
	AlgorithmAffinity Algorithm = "affinity"
	// AlgorithmKMeans is Lloyd's k-means with k-means++ seeding.
	AlgorithmKMeans Algorithm = "kmeans"
)

// Result is a cluster assignment for every row of a matrix.
type Result struct {
	Algorithm Algorithm
	// Labels[i] is the cluster of row i, in 0..NumClusters()-1, or -1 for rows
	// left unassigned.
	Labels []int
	// Exemplars[k] is the row index chosen as the center of cluster k. Empty for
	// algorithms whose centers are not rows.
	Exemplars  []int
	Iterations int
	Converged  bool
}

// NumClusters returns the number of distinct clusters.
func (r *Result) NumClusters() int {
	if len(r.Exemplars) > 0 {
		return len(r.Exemplars)
	}
	max := -1
	for _, l := range r.Labels {
		if l > max {
			max = l
		}
	}
	return max + 1
}

// IsExemplar reports whether row is the exemplar of its cluster.
func (r *Result) IsExemplar(row int) bool {
	for _, e := range r.Exemplars {
		if e == row {
			return true
		}
	}
	return false
}

// Clusterer assigns the rows of a feature matrix to clusters.
type Clusterer interface {
	Name() string
	Fit(ctx context.Context, m *vectorize.Matrix) (*Result, error)
}

// New creates the clusterer selected by cfg.Algorithm.
// Supported algorithms: "affinity" (default), "kmeans".
func New(cfg *config.ClusterConfig) (Clusterer, error) {
	switch Algorithm(cfg.Algorithm) {
	case AlgorithmAffinity, "":
		return NewAffinityPropagation(AffinityOptions{
			Damping:         cfg.Damping,
			MaxIter:         cfg.MaxIter,
			ConvergenceIter: cfg.ConvergenceIter,
			Preference:      cfg.Preference,
			MaxSamples:      cfg.MaxSamples,
			Seed:            cfg.Seed,
		})
	case AlgorithmKMeans:
		return NewKMeans(KMeansOptions{
			Clusters:  cfg.Clusters,
			MaxIter:   cfg.MaxIter,
			Tolerance: cfg.Tolerance,
			Seed:      cfg.Seed,
		})
	default:
		return nil, fmt.Errorf("unknown cluster algorithm: %s (supported: affinity, kmeans)", cfg.Algorithm)
	}
}
