package decode

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// decodeXLSX emits every non-empty cell sheet by sheet: the sheet name as
// a section header, then rows with cells tab-joined.
func decodeXLSX(data []byte) ([]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	var lines []string
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		header := false
		for _, row := range rows {
			// drop trailing empty cells so rows don't end in tab runs
			last := len(row)
			for last > 0 && strings.TrimSpace(row[last-1]) == "" {
				last--
			}
			if last == 0 {
				continue
			}
			if !header {
				lines = append(lines, sheet)
				header = true
			}
			cells := make([]string, last)
			for i := 0; i < last; i++ {
				cells[i] = strings.TrimSpace(row[i])
			}
			lines = append(lines, strings.Join(cells, "\t"))
		}
	}
	return lines, nil
}
