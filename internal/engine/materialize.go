package engine

import (
	"github.com/klytics/sheetxml/internal/mapping"
)

// Materialize instantiates one structure for a spreadsheet row: a deep copy
// of the template with every mapped column replaced by the row's cell value.
// Columns the row does not cover become null scalars, so they render as
// empty elements rather than leaking the descriptor. If the template
// declares a merge discriminant, the copy additionally carries the merge tag
// recording the discriminant's field name.
//
// The returned structure shares no state with the template or with
// previously materialized rows.
func Materialize(tmpl mapping.Node, idx *mapping.PathIndex, row []string) (mapping.Node, error) {
	inst := tmpl.Clone()

	if mergePath, ok := idx.MergePath(); ok {
		discriminant := mergePath[len(mergePath)-1].Key
		tagPath := mergePath[:len(mergePath)-1].Child(mapping.MergeTag)
		if err := setValue(inst, tagPath, discriminant); err != nil {
			return nil, err
		}
	}

	for col, path := range idx.Columns() {
		var value any
		if col <= len(row) {
			value = cellValue(row[col-1])
		}
		if err := setValue(inst, path, value); err != nil {
			return nil, err
		}
	}

	return inst, nil
}

// cellValue converts an excelize cell into a scalar value. Empty cells are
// null; everything else flows through as its string representation.
func cellValue(cell string) any {
	if cell == "" {
		return nil
	}
	return cell
}

// setValue follows all path steps except the last to locate the containing
// node, then assigns a scalar at the final key.
func setValue(root mapping.Node, path mapping.Path, value any) error {
	if len(path) == 0 {
		return &PathError{Path: path, Reason: "empty path"}
	}

	current := root
	for i, step := range path[:len(path)-1] {
		switch t := current.(type) {
		case *mapping.Mapping:
			if step.Elem {
				return &PathError{Path: path[:i+1], Reason: "expected a repeated group, found an object"}
			}
			child, ok := t.Get(step.Key)
			if !ok {
				return &PathError{Path: path[:i+1], Reason: "key not found"}
			}
			current = child
		case *mapping.Sequence:
			if !step.Elem {
				return &PathError{Path: path[:i+1], Reason: "expected an object, found a repeated group"}
			}
			current = t.Items[0]
		default:
			return &PathError{Path: path[:i+1], Reason: "intermediate segment is not a container"}
		}
	}

	last := path[len(path)-1]
	container, ok := current.(*mapping.Mapping)
	if !ok || last.Elem {
		return &PathError{Path: path, Reason: "final segment does not name a field"}
	}
	container.Set(last.Key, &mapping.Scalar{Value: value})
	return nil
}
