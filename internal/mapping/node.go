// Package mapping defines the declarative mapping document that drives
// spreadsheet-to-XML conversion: the nested template describing where each
// spreadsheet column lands in the output tree, and the path index derived
// from it.
package mapping

// MergeTag is the reserved key under which a materialized row records the
// name of its merge discriminant field. It is internal bookkeeping for the
// merge step and never appears in the XML output.
const MergeTag = "__MERGE__"

// Node is a single node of a template tree or of a materialized row
// structure. A node is one of exactly four kinds: *Mapping, *Sequence,
// *Scalar, or *Column.
type Node interface {
	// Clone returns a deep copy sharing no mutable state with the receiver.
	Clone() Node
}

// Mapping is a key-to-subtree node. Key order is preserved from the source
// document, since it determines XML element order.
type Mapping struct {
	keys     []string
	children map[string]Node
}

// NewMapping returns an empty mapping node.
func NewMapping() *Mapping {
	return &Mapping{children: make(map[string]Node)}
}

// Keys returns the mapping's keys in insertion order. The returned slice is
// shared with the mapping and must not be modified.
func (m *Mapping) Keys() []string {
	return m.keys
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Get returns the child stored under key.
func (m *Mapping) Get(key string) (Node, bool) {
	n, ok := m.children[key]
	return n, ok
}

// Set stores child under key, appending the key if it is new.
func (m *Mapping) Set(key string, child Node) {
	if _, ok := m.children[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.children[key] = child
}

// Clone deep-copies the mapping and all of its children.
func (m *Mapping) Clone() Node {
	out := &Mapping{
		keys:     make([]string, len(m.keys)),
		children: make(map[string]Node, len(m.children)),
	}
	copy(out.keys, m.keys)
	for key, child := range m.children {
		out.children[key] = child.Clone()
	}
	return out
}

// Sequence is a repeatable group. In a template it holds exactly one
// representative element describing the shape of each repeated item; after
// merging it holds one element per group.
type Sequence struct {
	Items []Node
}

// Clone deep-copies the sequence and its items.
func (s *Sequence) Clone() Node {
	out := &Sequence{Items: make([]Node, len(s.Items))}
	for i, item := range s.Items {
		out.Items[i] = item.Clone()
	}
	return out
}

// Scalar is a leaf value: a string cell value, a constant carried over from
// the template, or nil for an empty cell.
type Scalar struct {
	Value any
}

// Clone copies the scalar.
func (s *Scalar) Clone() Node {
	return &Scalar{Value: s.Value}
}

// Column is a template leaf referencing a spreadsheet column by 1-based
// index. Materialization replaces it with the row's cell value. Merge marks
// the column as the merge discriminant for its enclosing repeated group.
type Column struct {
	Index int
	Merge bool
}

// Clone copies the descriptor.
func (c *Column) Clone() Node {
	return &Column{Index: c.Index, Merge: c.Merge}
}
