package engine

import (
	"fmt"

	"github.com/klytics/sheetxml/internal/mapping"
)

// Stats summarizes one pipeline run.
type Stats struct {
	RowsRead    int `json:"rowsRead"`
	RowsSkipped int `json:"rowsSkipped"`
	RowsUsed    int `json:"rowsUsed"`
}

// BuildTree runs the full struct pipeline for one sheet: it derives the
// path index from the document's template, materializes one structure per
// data row, and folds the structures into the final tree ready for XML
// rendering. Rows before the document's 'from' index are skipped.
func BuildTree(doc *mapping.Document, rows [][]string) (mapping.Node, Stats, error) {
	stats := Stats{RowsRead: len(rows)}

	idx, err := mapping.NewPathIndex(doc.Template())
	if err != nil {
		return nil, stats, err
	}

	var structs []mapping.Node
	for i, row := range rows {
		if i+1 < doc.From {
			stats.RowsSkipped++
			continue
		}
		inst, err := Materialize(doc.Template(), idx, row)
		if err != nil {
			return nil, stats, fmt.Errorf("row %d: %w", i+1, err)
		}
		structs = append(structs, inst)
	}
	stats.RowsUsed = len(structs)

	if len(structs) == 0 {
		return nil, stats, fmt.Errorf("no data rows — the sheet has %d row(s) and 'from' is %d", len(rows), doc.From)
	}

	final, err := MergeAll(structs)
	if err != nil {
		return nil, stats, err
	}
	return final, stats, nil
}
