// Package vectorize turns a text corpus into a sparse TF-IDF feature matrix over a
// fixed vocabulary.
package vectorize

import (
	"math"

	"github.com/james-bowman/sparse"
	"gonum.org/v1/gonum/mat"
)

// Matrix is a document-term feature matrix: one row per document, one column per
// vocabulary term, stored in compressed sparse row form.
type Matrix struct {
	features *sparse.CSR // nil when there are no rows
	rows     int
	cols     int
}

// EmptyMatrix returns a matrix with no rows and cols columns.
func EmptyMatrix(cols int) *Matrix {
	return &Matrix{cols: cols}
}

// NewMatrix wraps a documents × terms CSR matrix.
func NewMatrix(features *sparse.CSR) *Matrix {
	if features == nil {
		return EmptyMatrix(0)
	}
	r, c := features.Dims()
	return &Matrix{features: features, rows: r, cols: c}
}

// FromDense builds a matrix from dense rows, dropping zeros. The column count is
// the length of the longest row.
func FromDense(rows [][]float64) *Matrix {
	cols := 0
	for _, r := range rows {
		cols = max(cols, len(r))
	}
	if len(rows) == 0 || cols == 0 {
		return &Matrix{rows: len(rows), cols: cols}
	}
	ia := make([]int, 1, len(rows)+1)
	var ja []int
	var data []float64
	for _, r := range rows {
		for j, v := range r {
			if v != 0 {
				ja = append(ja, j)
				data = append(data, v)
			}
		}
		ia = append(ia, len(ja))
	}
	return NewMatrix(sparse.NewCSR(len(rows), cols, ia, ja, data))
}

// Features exposes the underlying matrix, or nil when the matrix has no stored
// rows.
func (m *Matrix) Features() mat.Matrix {
	if m.features == nil {
		return nil
	}
	return m.features
}

// Len returns the number of rows.
func (m *Matrix) Len() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix) Cols() int {
	return m.cols
}

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 {
	if m.features == nil {
		if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
			panic(mat.ErrIndexOutOfRange)
		}
		return 0
	}
	return m.features.At(i, j)
}

// RowNnz returns the number of stored entries in row i.
func (m *Matrix) RowNnz(i int) int {
	if m.features == nil {
		return 0
	}
	return m.features.RowNNZ(i)
}

// Nnz returns the number of stored entries across all rows.
func (m *Matrix) Nnz() int {
	if m.features == nil {
		return 0
	}
	return m.features.NNZ()
}

// Dense expands every row.
func (m *Matrix) Dense() [][]float64 {
	out := make([][]float64, m.rows)
	for i := range out {
		out[i] = make([]float64, m.cols)
	}
	if m.features != nil {
		m.features.DoNonZero(func(i, j int, v float64) {
			out[i][j] = v
		})
	}
	return out
}

// SquaredDistances returns the pairwise squared Euclidean distances between rows,
// computed as |a|² + |b|² - 2a·b, clipped at zero, with an exact zero diagonal.
func (m *Matrix) SquaredDistances() [][]float64 {
	n := m.rows
	out := make([][]float64, n)
	for i := range out {
		out[i] = make([]float64, n)
	}
	if m.features == nil {
		return out
	}
	views := make([]mat.Vector, n)
	norms := make([]float64, n)
	for i := range views {
		views[i] = m.features.RowView(i)
		norms[i] = sparse.Dot(views[i], views[i])
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := math.Max(norms[i]+norms[j]-2*sparse.Dot(views[i], views[j]), 0)
			out[i][j] = d
			out[j][i] = d
		}
	}
	return out
}
