package dataset

import "sort"

// SubjectColumns are the label columns BySubject compares against.
var SubjectColumns = []string{"Subject-1", "Subject-2"}

// BySubject returns the records whose Subject-1 or Subject-2 equals subject exactly.
// A record matching both columns appears once; relative order is preserved. Zero
// matches yield an empty table, not an error.
func BySubject(t *Table, subject string) (*Table, error) {
	return ByLabel(t, subject, SubjectColumns...)
}

// ByLabel returns the records where any of columns equals label (case-sensitive,
// no normalization). Missing is never a label, so it selects nothing. It fails
// with a *models.ColumnNotFoundError if a column is absent, before any record is
// inspected.
func ByLabel(t *Table, label string, columns ...string) (*Table, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		col, err := t.ColumnIndex(c)
		if err != nil {
			return nil, err
		}
		idx[i] = col
	}
	return t.Filter(func(r Record) bool {
		if label == Missing {
			return false
		}
		for _, col := range idx {
			if r.values[col] == label {
				return true
			}
		}
		return false
	}), nil
}

// LabelCount is how many records carry a label in any of the label columns.
type LabelCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// CountLabels tallies the distinct non-missing labels across columns. A record
// carrying the same label in two columns is counted once. The result is sorted by
// descending count, then label.
func CountLabels(t *Table, columns ...string) ([]LabelCount, error) {
	idx := make([]int, len(columns))
	for i, c := range columns {
		col, err := t.ColumnIndex(c)
		if err != nil {
			return nil, err
		}
		idx[i] = col
	}
	counts := make(map[string]int)
	for _, r := range t.records {
		seen := make(map[string]bool, len(idx))
		for _, col := range idx {
			v := r.values[col]
			if v == Missing || seen[v] {
				continue
			}
			seen[v] = true
			counts[v]++
		}
	}
	out := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		out = append(out, LabelCount{Label: label, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out, nil
}
