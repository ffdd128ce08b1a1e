package mapping

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// OrderRow is the only supported traversal order: one structure instance per
// spreadsheet row.
const OrderRow = "row"

// DefaultDocument is the mapping document written by "sheetxml mapping init".
const DefaultDocument = `{
  "order": "row",
  "from": 1,
  "struct": {
    "Main": {
      "Item": {"col": 1}
    }
  }
}
`

// Document is a parsed and validated mapping document.
type Document struct {
	// Order is the traversal order. Only OrderRow is supported.
	Order string
	// From is the 1-based index of the first data row. Rows before it are
	// skipped (typically headers).
	From int

	root *Mapping
}

// Template returns the root of the template tree. Callers must treat it as
// read-only; materialization works on clones.
func (d *Document) Template() Node {
	return d.root
}

// RootKey returns the template's single top-level key, which names the XML
// root element.
func (d *Document) RootKey() string {
	return d.root.Keys()[0]
}

// Load reads and parses a mapping document from disk. Both JSON and YAML
// encodings are accepted.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("mapping document not found: %s — create one with 'sheetxml mapping init'", path)
		}
		return nil, fmt.Errorf("could not read mapping document %s: %w", path, err)
	}
	doc, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

// Parse parses a mapping document from JSON or YAML bytes and validates its
// structure. Key order in the "struct" template is preserved.
func Parse(data []byte) (*Document, error) {
	var raw struct {
		Order  string    `yaml:"order"`
		From   int       `yaml:"from"`
		Struct yaml.Node `yaml:"struct"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("mapping document is not valid JSON or YAML: %w", err)
	}

	doc := &Document{Order: raw.Order, From: raw.From}
	if doc.Order == "" {
		doc.Order = OrderRow
	}
	if doc.Order != OrderRow {
		return nil, configErrorf(nil, "unsupported order %q — only %q is supported", doc.Order, OrderRow)
	}
	if doc.From == 0 {
		doc.From = 1
	}
	if doc.From < 1 {
		return nil, configErrorf(nil, "'from' must be a 1-based row index, got %d", doc.From)
	}

	if raw.Struct.Kind == 0 {
		return nil, configErrorf(nil, "missing 'struct' field")
	}
	root, err := nodeFromYAML(&raw.Struct, nil)
	if err != nil {
		return nil, err
	}
	m, ok := root.(*Mapping)
	if !ok {
		return nil, configErrorf(nil, "'struct' must be an object")
	}
	if m.Len() != 1 {
		return nil, configErrorf(nil, "'struct' must have exactly one top-level key (the XML root element), got %d", m.Len())
	}
	doc.root = m

	return doc, nil
}

// nodeFromYAML converts a decoded yaml.Node into a template Node, validating
// the structural invariants as it descends.
func nodeFromYAML(y *yaml.Node, path Path) (Node, error) {
	switch y.Kind {
	case yaml.DocumentNode:
		if len(y.Content) == 0 {
			return nil, configErrorf(path, "empty document")
		}
		return nodeFromYAML(y.Content[0], path)

	case yaml.AliasNode:
		return nodeFromYAML(y.Alias, path)

	case yaml.MappingNode:
		if isColumnDescriptor(y) {
			return columnFromYAML(y, path)
		}
		m := NewMapping()
		for i := 0; i+1 < len(y.Content); i += 2 {
			key := y.Content[i].Value
			if _, dup := m.Get(key); dup {
				return nil, configErrorf(path, "duplicate key %q", key)
			}
			child, err := nodeFromYAML(y.Content[i+1], path.Child(key))
			if err != nil {
				return nil, err
			}
			m.Set(key, child)
		}
		return m, nil

	case yaml.SequenceNode:
		if len(y.Content) != 1 {
			return nil, configErrorf(path, "a repeated group must have exactly one element describing its shape, got %d", len(y.Content))
		}
		elem, err := nodeFromYAML(y.Content[0], path.Elem())
		if err != nil {
			return nil, err
		}
		switch t := elem.(type) {
		case *Mapping:
			if t.Len() != 1 {
				return nil, configErrorf(path.Elem(), "a repeated group's element must have exactly one key (the group's tag name), got %d", t.Len())
			}
		case *Sequence:
			// Nested repeated group, allowed.
		default:
			return nil, configErrorf(path.Elem(), "a repeated group's element must be a single-keyed object")
		}
		return &Sequence{Items: []Node{elem}}, nil

	case yaml.ScalarNode:
		var v any
		if err := y.Decode(&v); err != nil {
			return nil, configErrorf(path, "invalid scalar: %v", err)
		}
		return &Scalar{Value: v}, nil

	default:
		return nil, configErrorf(path, "unsupported node kind")
	}
}

// isColumnDescriptor reports whether a yaml mapping node is a column
// descriptor, i.e. carries a "col" or "merge" key.
func isColumnDescriptor(y *yaml.Node) bool {
	for i := 0; i+1 < len(y.Content); i += 2 {
		if key := y.Content[i].Value; key == "col" || key == "merge" {
			return true
		}
	}
	return false
}

func columnFromYAML(y *yaml.Node, path Path) (Node, error) {
	col := &Column{}
	for i := 0; i+1 < len(y.Content); i += 2 {
		key, val := y.Content[i].Value, y.Content[i+1]
		switch key {
		case "col":
			if err := val.Decode(&col.Index); err != nil || col.Index < 1 {
				return nil, configErrorf(path, "'col' must be a 1-based column index, got %q", val.Value)
			}
		case "merge":
			if err := val.Decode(&col.Merge); err != nil {
				return nil, configErrorf(path, "'merge' must be a boolean, got %q", val.Value)
			}
		default:
			return nil, configErrorf(path, "unexpected key %q in column descriptor", key)
		}
	}
	if col.Index == 0 {
		return nil, configErrorf(path, "column descriptor is missing the required 'col' key")
	}
	return col, nil
}
