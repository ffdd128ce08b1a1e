// Package xmlbuild renders a merged structure tree into an XML element tree.
// Serialization and indentation are left to etree.
package xmlbuild

import (
	"fmt"
	"strconv"

	"github.com/beevik/etree"

	"github.com/klytics/sheetxml/internal/mapping"
)

// Build converts the final structure into an XML document. The structure's
// single top-level key names the root element; nested keys become child
// elements, repeated groups become sibling elements, scalars become text.
// The internal merge tag never appears in the output.
func Build(root mapping.Node) (*etree.Document, error) {
	m, ok := root.(*mapping.Mapping)
	if !ok || m.Len() != 1 {
		return nil, fmt.Errorf("the structure root must be an object with exactly one key")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	rootKey := m.Keys()[0]
	rootVal, _ := m.Get(rootKey)
	el := doc.CreateElement(rootKey)
	if err := appendNode(el, rootVal); err != nil {
		return nil, err
	}
	return doc, nil
}

func appendNode(parent *etree.Element, n mapping.Node) error {
	switch t := n.(type) {
	case *mapping.Mapping:
		for _, key := range t.Keys() {
			if key == mapping.MergeTag {
				continue
			}
			child, _ := t.Get(key)
			el := parent.CreateElement(key)
			if err := appendNode(el, child); err != nil {
				return err
			}
		}
	case *mapping.Sequence:
		for _, item := range t.Items {
			if err := appendNode(parent, item); err != nil {
				return err
			}
		}
	case *mapping.Scalar:
		// Null renders as an empty element rather than placeholder text.
		if text := scalarText(t.Value); text != "" {
			parent.SetText(text)
		}
	default:
		return fmt.Errorf("unmaterialized column descriptor in structure under <%s>", parent.Tag)
	}
	return nil
}

// scalarText renders a scalar value as element text. Null renders as the
// empty string.
func scalarText(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
