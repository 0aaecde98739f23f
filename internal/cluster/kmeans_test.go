package cluster

import (
	"context"
	"reflect"
	"testing"

	"github.com/hyperjump/hansard/internal/vectorize"
)

func TestNewKMeans_Validation(t *testing.T) {
	if _, err := NewKMeans(KMeansOptions{Clusters: 0}); err == nil {
		t.Error("expected error for zero clusters")
	}
	if _, err := NewKMeans(KMeansOptions{Clusters: 2, Tolerance: -1}); err == nil {
		t.Error("expected error for negative tolerance")
	}
	if _, err := NewKMeans(KMeansOptions{Clusters: 2}); err != nil {
		t.Errorf("NewKMeans: %v", err)
	}
}

func TestKMeans_TwoGroups(t *testing.T) {
	km, err := NewKMeans(KMeansOptions{Clusters: 2, Seed: 1})
	if err != nil {
		t.Fatal(err)
	}
	res, err := km.Fit(context.Background(), twoGroups())
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !res.Converged {
		t.Error("expected convergence")
	}
	l := res.Labels
	if l[0] != l[1] || l[1] != l[2] || l[3] != l[4] || l[4] != l[5] || l[0] == l[3] {
		t.Errorf("Labels=%v, want two groups of three", l)
	}
	if res.NumClusters() != 2 {
		t.Errorf("NumClusters=%d, want 2", res.NumClusters())
	}
}

func TestKMeans_Deterministic(t *testing.T) {
	m := denseMatrix([][]float64{
		{0, 1}, {1, 0}, {3, 3}, {4, 3}, {9, 1}, {8, 2}, {0.5, 0.5},
	})
	km, _ := NewKMeans(KMeansOptions{Clusters: 3, Seed: 42})
	a, err := km.Fit(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	b, err := km.Fit(context.Background(), m)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("results differ: %+v vs %+v", a, b)
	}
}

func TestKMeans_MoreClustersThanRows(t *testing.T) {
	km, _ := NewKMeans(KMeansOptions{Clusters: 12})
	res, err := km.Fit(context.Background(), denseMatrix([][]float64{{1}, {2}, {3}}))
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(res.Labels, []int{0, 1, 2}) {
		t.Errorf("Labels=%v, want [0 1 2]", res.Labels)
	}
}

func TestKMeans_Empty(t *testing.T) {
	km, _ := NewKMeans(KMeansOptions{Clusters: 3})
	res, err := km.Fit(context.Background(), vectorize.EmptyMatrix(2))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Labels) != 0 {
		t.Errorf("Labels=%v, want empty", res.Labels)
	}
}

func TestKMeans_IdenticalRows(t *testing.T) {
	km, _ := NewKMeans(KMeansOptions{Clusters: 2})
	res, err := km.Fit(context.Background(), denseMatrix([][]float64{{1, 1}, {1, 1}, {1, 1}}))
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Labels) != 3 {
		t.Fatalf("Labels=%v", res.Labels)
	}
	for _, l := range res.Labels {
		if l != res.Labels[0] {
			t.Errorf("identical rows split: %v", res.Labels)
		}
	}
}
