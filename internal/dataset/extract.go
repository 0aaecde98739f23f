package dataset

// Corpus is the ordered sequence of non-missing values of one column. Rows[i] is
// the source-table index of Texts[i].
type Corpus struct {
	Column string   `json:"column"`
	Texts  []string `json:"texts"`
	Rows   []int    `json:"rows"`
}

// Len returns the number of documents in the corpus.
func (c *Corpus) Len() int {
	return len(c.Texts)
}

// Extract returns the values of column with every Missing cell dropped, in row
// order, without deduplication. It fails with a *models.ColumnNotFoundError, and
// no partial output, if the column does not exist.
func Extract(t *Table, column string) (*Corpus, error) {
	col, err := t.ColumnIndex(column)
	if err != nil {
		return nil, err
	}
	c := &Corpus{Column: column, Texts: []string{}, Rows: []int{}}
	for _, r := range t.records {
		v := r.values[col]
		if v == Missing {
			continue
		}
		c.Texts = append(c.Texts, v)
		c.Rows = append(c.Rows, r.Index)
	}
	return c, nil
}

// TextData returns only the texts of Extract.
func TextData(t *Table, column string) ([]string, error) {
	c, err := Extract(t, column)
	if err != nil {
		return nil, err
	}
	return c.Texts, nil
}
