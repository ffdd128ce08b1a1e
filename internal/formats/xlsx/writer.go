package xlsx

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// WriteSheet creates a new .xlsx file holding a single worksheet with the
// given rows. Used by 'mapping init --sample' and by tests to build
// fixtures.
func WriteSheet(path string, sheet *Sheet) error {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := sheet.Name
	if sheetName == "" {
		sheetName = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("could not rename sheet: %w", err)
	}

	for rowIdx, row := range sheet.Rows {
		for colIdx, cell := range row {
			cellName, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("invalid cell coordinates: %w", err)
			}
			if cell == "" {
				continue
			}
			if err := f.SetCellValue(sheetName, cellName, cell); err != nil {
				return fmt.Errorf("could not set cell %s: %w", cellName, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("could not save %s: %w", path, err)
	}

	return nil
}
