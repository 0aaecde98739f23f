// Package dataset loads tabular record artifacts and provides the row selection and
// column extraction steps of the pipeline.
package dataset

import (
	"fmt"
	"strconv"

	"github.com/hyperjump/hansard/internal/models"
)

// Missing is the cell value treated as absence of data. Only the empty string is
// missing; placeholders such as "NA" or "null" are ordinary values.
const Missing = ""

// Record is one row of a Table. Index is the row's position in the table it was
// loaded into, and is kept unchanged through filtering. Cells are only reachable
// through Field and Values, so a record can't change the table it came from.
type Record struct {
	Index  int
	values []string
}

// Field returns the cell at column position col.
func (r Record) Field(col int) string {
	return r.values[col]
}

// Values returns a copy of the record's cells.
func (r Record) Values() []string {
	out := make([]string, len(r.values))
	copy(out, r.values)
	return out
}

// Table is an ordered, read-only collection of records sharing one header.
type Table struct {
	columns []string
	lookup  map[string]int
	records []Record
}

// NewTable builds a table from a header and rows of cells. Rows shorter than the
// header are padded with Missing; longer rows are an error. Repeated header names
// are renamed name.1, name.2, ... so every column stays addressable.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("table has no columns")
	}
	columns := dedupeColumns(header)
	lookup := make(map[string]int, len(columns))
	for i, c := range columns {
		lookup[c] = i
	}
	records := make([]Record, len(rows))
	for i, row := range rows {
		if len(row) > len(columns) {
			return nil, fmt.Errorf("expected %d fields in row %d, saw %d", len(columns), i+1, len(row))
		}
		values := make([]string, len(columns))
		copy(values, row)
		records[i] = Record{Index: i, values: values}
	}
	return &Table{columns: columns, lookup: lookup, records: records}, nil
}

func dedupeColumns(header []string) []string {
	out := make([]string, len(header))
	used := make(map[string]bool, len(header))
	counts := make(map[string]int)
	for i, name := range header {
		candidate := name
		for used[candidate] {
			counts[name]++
			candidate = name + "." + strconv.Itoa(counts[name])
		}
		used[candidate] = true
		out[i] = candidate
	}
	return out
}

// Columns returns a copy of the header.
func (t *Table) Columns() []string {
	out := make([]string, len(t.columns))
	copy(out, t.columns)
	return out
}

// Len returns the number of records.
func (t *Table) Len() int {
	return len(t.records)
}

// HasColumn reports whether the table has a column named name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.lookup[name]
	return ok
}

// ColumnIndex returns the position of column name, or a ColumnNotFoundError.
func (t *Table) ColumnIndex(name string) (int, error) {
	i, ok := t.lookup[name]
	if !ok {
		return -1, &models.ColumnNotFoundError{Column: name, Available: t.Columns()}
	}
	return i, nil
}

// Record returns the i-th record of the table.
func (t *Table) Record(i int) Record {
	return t.records[i]
}

// Value returns the cell of record i in column name.
func (t *Table) Value(i int, name string) (string, error) {
	col, err := t.ColumnIndex(name)
	if err != nil {
		return "", err
	}
	return t.records[i].values[col], nil
}

// Filter returns a new table holding, in order, the records for which keep returns
// true. The receiver is not modified; both tables share the read-only cells.
func (t *Table) Filter(keep func(Record) bool) *Table {
	out := &Table{columns: t.columns, lookup: t.lookup}
	for _, r := range t.records {
		if keep(r) {
			out.records = append(out.records, r)
		}
	}
	return out
}
