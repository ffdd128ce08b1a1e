package mapping

import "strings"

// Step is one segment of a path through a template: either a mapping key or
// the descent into a sequence's representative element.
type Step struct {
	// Key is the mapping key, empty when Elem is set.
	Key string
	// Elem marks a step into the single representative element of a
	// sequence node.
	Elem bool
}

// Path locates a node inside a template, root excluded.
type Path []Step

// Clone returns an independent copy of the path.
func (p Path) Clone() Path {
	out := make(Path, len(p))
	copy(out, p)
	return out
}

// Child returns a new path extended by a key step. The receiver is not
// modified.
func (p Path) Child(key string) Path {
	return append(p.Clone(), Step{Key: key})
}

// Elem returns a new path extended by a sequence-element step.
func (p Path) Elem() Path {
	return append(p.Clone(), Step{Elem: true})
}

// String renders the path for error messages, e.g. "Main/Items[]/Name".
func (p Path) String() string {
	if len(p) == 0 {
		return "(root)"
	}
	var b strings.Builder
	for i, s := range p {
		if s.Elem {
			b.WriteString("[]")
			continue
		}
		if i > 0 {
			b.WriteString("/")
		}
		b.WriteString(s.Key)
	}
	return b.String()
}

// PathIndex maps every column index referenced by a template to the path of
// its descriptor, plus the path of the merge discriminant when one is
// declared. It is built once per template and never modified afterwards.
type PathIndex struct {
	columns map[int]Path
	merge   Path
}

// NewPathIndex walks the template depth-first and records the location of
// every column descriptor. It rejects templates that reference the same
// column twice or declare more than one merge discriminant.
func NewPathIndex(root Node) (*PathIndex, error) {
	idx := &PathIndex{columns: make(map[int]Path)}
	if err := idx.walk(root, nil); err != nil {
		return nil, err
	}
	return idx, nil
}

func (idx *PathIndex) walk(n Node, path Path) error {
	switch t := n.(type) {
	case *Column:
		if _, dup := idx.columns[t.Index]; dup {
			return configErrorf(path, "column %d is mapped more than once", t.Index)
		}
		idx.columns[t.Index] = path.Clone()
		if t.Merge {
			if idx.merge != nil {
				return configErrorf(path, "a second merge discriminant is declared; only one is allowed")
			}
			idx.merge = path.Clone()
		}
	case *Mapping:
		for _, key := range t.Keys() {
			child, _ := t.Get(key)
			if err := idx.walk(child, path.Child(key)); err != nil {
				return err
			}
		}
	case *Sequence:
		// Template invariant: exactly one representative element.
		return idx.walk(t.Items[0], path.Elem())
	case *Scalar:
		// Constant leaf, nothing to index.
	}
	return nil
}

// Column returns the path of the descriptor for the given 1-based column
// index.
func (idx *PathIndex) Column(col int) (Path, bool) {
	p, ok := idx.columns[col]
	return p, ok
}

// Columns returns the whole column-to-path table. The returned map is shared
// with the index and must not be modified.
func (idx *PathIndex) Columns() map[int]Path {
	return idx.columns
}

// MergePath returns the path of the merge discriminant's descriptor. The
// path's last step names the discriminant field.
func (idx *PathIndex) MergePath() (Path, bool) {
	return idx.merge, idx.merge != nil
}
