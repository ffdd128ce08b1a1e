// Package engine instantiates a mapping template once per spreadsheet row
// and folds the per-row structures into the single tree that becomes the XML
// document.
package engine

import (
	"fmt"

	"github.com/klytics/sheetxml/internal/mapping"
)

// PathError reports that a path from the path index could not be followed
// through a materialized structure. It indicates a template/index mismatch,
// not bad spreadsheet data.
type PathError struct {
	Path   mapping.Path
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %s: %s", e.Path, e.Reason)
}

// MergeShapeError reports that two row structures could not be merged
// because a repeated group does not have the required shape.
type MergeShapeError struct {
	Reason string
}

func (e *MergeShapeError) Error() string {
	return fmt.Sprintf("cannot merge row structures: %s", e.Reason)
}
