// Package xlsx reads and writes .xlsx workbooks for the conversion pipeline.
package xlsx

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// Sheet holds one worksheet's cell values, row-major. Cell values carry
// excelize's string representation; an empty string is an empty cell.
type Sheet struct {
	Name string     `json:"name"`
	Rows [][]string `json:"rows"`
}

// ReadSheet reads one worksheet from an .xlsx file. An empty sheetName
// selects the workbook's first sheet.
func ReadSheet(path, sheetName string) (*Sheet, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("file not found: %s — check that the path is correct", path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s — is this a valid .xlsx file? %w", path, err)
	}
	defer f.Close()

	if sheetName == "" {
		sheetName = f.GetSheetName(0)
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q — available sheets: %v: %w", sheetName, f.GetSheetList(), err)
	}

	return &Sheet{Name: sheetName, Rows: rows}, nil
}
