package ranking

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteTable writes entries to an xlsx file with Title, Quartile and Rank
// columns, in the order given. Rank cells are left empty for entries
// without a rank.
func WriteTable(path string, entries []Entry) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	header := []string{"Title", "Quartile", "Rank"}
	for i, h := range header {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cellName, h); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		row := i + 2
		values := []interface{}{e.Title, string(e.Quartile)}
		if e.Rank > 0 {
			values = append(values, e.Rank)
		}
		for col, v := range values {
			cellName, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return fmt.Errorf("row %d: %w", row, err)
			}
			if err := f.SetCellValue(sheet, cellName, v); err != nil {
				return fmt.Errorf("writing row %d: %w", row, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	return nil
}
