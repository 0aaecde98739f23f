package e2e

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"
)

// SupportedDatasetExtensions are the dataset formats exercised by the tests.
var SupportedDatasetExtensions = []string{".csv", ".tsv", ".xlsx"}

// WriteDataset writes the corpus to dir as data<ext> and returns the path.
func WriteDataset(dir, ext string, c *Corpus) (string, error) {
	path := filepath.Join(dir, "data"+ext)
	switch ext {
	case ".csv", ".tsv":
		f, err := os.Create(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		w := csv.NewWriter(f)
		if ext == ".tsv" {
			w.Comma = '\t'
		}
		if err := w.Write(c.Header()); err != nil {
			return "", err
		}
		if err := w.WriteAll(c.Rows()); err != nil {
			return "", err
		}
		return path, f.Close()
	case ".xlsx":
		f := excelize.NewFile()
		defer f.Close()
		if err := f.SetSheetRow("Sheet1", "A1", &[]string{"Subject-1", "Subject-2", "Lemma", "Theme"}); err != nil {
			return "", err
		}
		for i, row := range c.Rows() {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return "", err
			}
			values := make([]interface{}, len(row))
			for j, v := range row {
				values[j] = v
			}
			if err := f.SetSheetRow("Sheet1", cell, &values); err != nil {
				return "", err
			}
		}
		return path, f.SaveAs(path)
	default:
		return "", fmt.Errorf("unsupported dataset extension: %s", ext)
	}
}

// WriteVocabulary writes the corpus vocabulary to dir as a JSON term→index object
// and returns the path.
func WriteVocabulary(dir string, c *Corpus) (string, error) {
	mapping := make(map[string]int, len(c.Vocabulary))
	for i, term := range c.Vocabulary {
		mapping[term] = i
	}
	data, err := json.Marshal(mapping)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, "vocabulary.json")
	return path, os.WriteFile(path, data, 0644)
}
