package vectorize

import (
	"reflect"
	"testing"
)

func TestFromDense(t *testing.T) {
	m := FromDense([][]float64{{0, 2, 0, 4}, {1}})
	if m.Len() != 2 || m.Cols() != 4 {
		t.Fatalf("shape = %dx%d, want 2x4", m.Len(), m.Cols())
	}
	if m.Nnz() != 3 || m.RowNnz(0) != 2 {
		t.Errorf("Nnz = %d, RowNnz(0) = %d", m.Nnz(), m.RowNnz(0))
	}
	want := [][]float64{{0, 2, 0, 4}, {1, 0, 0, 0}}
	if got := m.Dense(); !reflect.DeepEqual(got, want) {
		t.Errorf("Dense = %v, want %v", got, want)
	}
}

func TestEmptyMatrix(t *testing.T) {
	m := EmptyMatrix(3)
	if m.Len() != 0 || m.Cols() != 3 || m.Nnz() != 0 {
		t.Errorf("EmptyMatrix(3) = %dx%d nnz %d", m.Len(), m.Cols(), m.Nnz())
	}
	if m.Features() != nil {
		t.Error("empty matrix should expose no features")
	}
	if len(m.SquaredDistances()) != 0 || len(m.Dense()) != 0 {
		t.Error("empty matrix should have no rows")
	}
}

func TestMatrix_SquaredDistances(t *testing.T) {
	m := FromDense([][]float64{{1, 0}, {0, 1}, {1, 0}})
	d := m.SquaredDistances()
	want := [][]float64{{0, 2, 0}, {2, 0, 2}, {0, 2, 0}}
	if !reflect.DeepEqual(d, want) {
		t.Errorf("SquaredDistances = %v, want %v", d, want)
	}
}

func TestMatrix_SquaredDistancesZeroRow(t *testing.T) {
	m := FromDense([][]float64{{0, 0}, {3, 4}})
	d := m.SquaredDistances()
	if d[0][1] != 25 || d[1][0] != 25 {
		t.Errorf("SquaredDistances = %v", d)
	}
}
