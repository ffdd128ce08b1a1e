package engine

import (
	"errors"
	"testing"

	"github.com/klytics/sheetxml/internal/mapping"
)

func parseDoc(t *testing.T, doc string) (*mapping.Document, *mapping.PathIndex) {
	t.Helper()
	parsed, err := mapping.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	idx, err := mapping.NewPathIndex(parsed.Template())
	if err != nil {
		t.Fatalf("NewPathIndex failed: %v", err)
	}
	return parsed, idx
}

func getIn(t *testing.T, n mapping.Node, keys ...string) mapping.Node {
	t.Helper()
	for _, key := range keys {
		if key == "[]" {
			n = n.(*mapping.Sequence).Items[0]
			continue
		}
		m, ok := n.(*mapping.Mapping)
		if !ok {
			t.Fatalf("expected an object at %q, got %T", key, n)
		}
		child, ok := m.Get(key)
		if !ok {
			t.Fatalf("key %q not found", key)
		}
		n = child
	}
	return n
}

func scalarAt(t *testing.T, n mapping.Node, keys ...string) any {
	t.Helper()
	leaf := getIn(t, n, keys...)
	s, ok := leaf.(*mapping.Scalar)
	if !ok {
		t.Fatalf("expected a scalar at %v, got %T", keys, leaf)
	}
	return s.Value
}

func TestMaterializeInjectsRowValues(t *testing.T) {
	doc, idx := parseDoc(t, `{"struct": {"Main": {
		"Item": {"col": 1},
		"Name": {"col": 2}
	}}}`)

	inst, err := Materialize(doc.Template(), idx, []string{"1", "alpha"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if got := scalarAt(t, inst, "Main", "Item"); got != "1" {
		t.Errorf("expected Item=1, got %v", got)
	}
	if got := scalarAt(t, inst, "Main", "Name"); got != "alpha" {
		t.Errorf("expected Name=alpha, got %v", got)
	}
}

func TestMaterializeShortRowLeavesNulls(t *testing.T) {
	doc, idx := parseDoc(t, `{"struct": {"Main": {
		"Item": {"col": 1},
		"Name": {"col": 4}
	}}}`)

	inst, err := Materialize(doc.Template(), idx, []string{"1"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if got := scalarAt(t, inst, "Main", "Name"); got != nil {
		t.Errorf("uncovered column must be null, got %v", got)
	}
}

func TestMaterializeEmptyCellIsNull(t *testing.T) {
	doc, idx := parseDoc(t, `{"struct": {"Main": {
		"Item": {"col": 1},
		"Name": {"col": 2}
	}}}`)

	inst, err := Materialize(doc.Template(), idx, []string{"", "beta"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	if got := scalarAt(t, inst, "Main", "Item"); got != nil {
		t.Errorf("empty cell must be null, got %v", got)
	}
}

func TestMaterializeIgnoresUnmappedCells(t *testing.T) {
	doc, idx := parseDoc(t, `{"struct": {"Main": {"Item": {"col": 1}}}}`)

	inst, err := Materialize(doc.Template(), idx, []string{"1", "extra", "more"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	main := getIn(t, inst, "Main").(*mapping.Mapping)
	if main.Len() != 1 {
		t.Errorf("unmapped cells must not add fields, got keys %v", main.Keys())
	}
}

func TestMaterializeInjectsMergeTag(t *testing.T) {
	doc, idx := parseDoc(t, `{"struct": {"Invoices": {
		"Invoice": [{"Entry": {
			"Number": {"col": 1, "merge": true},
			"Amount": {"col": 2}
		}}]
	}}}`)

	inst, err := Materialize(doc.Template(), idx, []string{"42", "10.50"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	tag := scalarAt(t, inst, "Invoices", "Invoice", "[]", "Entry", mapping.MergeTag)
	if tag != "Number" {
		t.Errorf("merge tag must name the discriminant field, got %v", tag)
	}
	if got := scalarAt(t, inst, "Invoices", "Invoice", "[]", "Entry", "Number"); got != "42" {
		t.Errorf("expected Number=42, got %v", got)
	}
}

func TestMaterializeRowsAreIsolated(t *testing.T) {
	doc, idx := parseDoc(t, `{"struct": {"Main": {"Item": {"col": 1}}}}`)

	first, err := Materialize(doc.Template(), idx, []string{"one"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}
	second, err := Materialize(doc.Template(), idx, []string{"two"})
	if err != nil {
		t.Fatalf("Materialize failed: %v", err)
	}

	// Mutate the first row after the fact.
	main := getIn(t, first, "Main").(*mapping.Mapping)
	main.Set("Item", &mapping.Scalar{Value: "mutated"})

	if got := scalarAt(t, second, "Main", "Item"); got != "two" {
		t.Errorf("rows share state: got %v", got)
	}
	tmplLeaf := getIn(t, doc.Template(), "Main", "Item")
	if _, ok := tmplLeaf.(*mapping.Column); !ok {
		t.Errorf("materialization modified the template: %#v", tmplLeaf)
	}
}

func TestSetValueBadPath(t *testing.T) {
	doc, _ := parseDoc(t, `{"struct": {"Main": {"Item": {"col": 1}}}}`)

	// A path that descends through a leaf cannot resolve.
	bad := mapping.Path{}.Child("Main").Child("Item").Child("Deeper")
	err := setValue(doc.Template().Clone(), bad, "x")
	if err == nil {
		t.Fatal("expected a path error")
	}
	var pathErr *PathError
	if !errors.As(err, &pathErr) {
		t.Fatalf("expected a PathError, got %T", err)
	}
}
