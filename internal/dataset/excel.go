package dataset

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// readExcel reads one worksheet; excelize drops trailing empty cells, which
// NewTable pads back to Missing.
func readExcel(content []byte, sheet string) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open Excel: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("workbook has no sheets")
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("get rows for sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q is empty", sheet)
	}
	return NewTable(rows[0], rows[1:])
}
