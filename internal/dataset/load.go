package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hyperjump/hansard/internal/models"
)

const artifactName = "dataset"

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type loadOptions struct {
	sheet string
}

// LoadOption configures Load.
type LoadOption func(*loadOptions)

// WithSheet selects the worksheet read from an .xlsx file. Empty means the first sheet.
func WithSheet(name string) LoadOption {
	return func(o *loadOptions) { o.sheet = name }
}

// Load reads the table at path. The format is chosen by extension: .xlsx is read as
// a workbook, .tsv as tab-separated, anything else as comma-separated. The first row
// is the header. Every failure is returned as a *models.ArtifactLoadError.
func Load(path string, opts ...LoadOption) (*Table, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.ArtifactLoadError{Artifact: artifactName, Path: path, Err: err}
	}
	ext := strings.ToLower(filepath.Ext(path))
	t, err := LoadBytes(content, ext, opts...)
	if err != nil {
		return nil, &models.ArtifactLoadError{Artifact: artifactName, Path: path, Err: err}
	}
	return t, nil
}

// LoadBytes parses content as a table based on the given extension.
// ext should include the leading dot (e.g. ".csv").
func LoadBytes(content []byte, ext string, opts ...LoadOption) (*Table, error) {
	o := &loadOptions{}
	for _, opt := range opts {
		opt(o)
	}
	switch ext {
	case ".xlsx", ".xlsm":
		return readExcel(content, o.sheet)
	case ".tsv", ".tab":
		return ReadDelimited(bytes.NewReader(content), '\t')
	default:
		return ReadDelimited(bytes.NewReader(content), ',')
	}
}

// ReadDelimited reads a header row and data rows separated by comma. Rows may have
// fewer fields than the header; blank lines are skipped.
func ReadDelimited(r io.Reader, comma rune) (*Table, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no columns to parse from file")
	}
	return NewTable(rows[0], rows[1:])
}
