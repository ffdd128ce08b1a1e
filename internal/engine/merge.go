package engine

import (
	"github.com/klytics/sheetxml/internal/mapping"
)

// MergeAll folds the materialized row structures, in row order, into one
// final structure. Rows whose repeated group shares a merge discriminant
// value with the most recently accumulated group are combined into that
// group instead of appended.
//
// Grouping is adjacent-only: a row is compared against the latest group at
// its position, never against earlier ones, so rows must arrive pre-sorted
// by merge key for full grouping. MergeAll does not sort.
//
// The first structure becomes the accumulator and is mutated; callers must
// not reuse any of the inputs afterwards.
func MergeAll(structs []mapping.Node) (mapping.Node, error) {
	if len(structs) == 0 {
		return nil, &MergeShapeError{Reason: "no row structures to merge"}
	}
	acc := structs[0]
	for _, next := range structs[1:] {
		if err := mergeInto(acc, next); err != nil {
			return nil, err
		}
	}
	return acc, nil
}

// mergeInto merges next into acc. Both sides always have the same template
// shape at corresponding positions; a mismatch is a shape error.
func mergeInto(acc, next mapping.Node) error {
	switch a := acc.(type) {
	case *mapping.Mapping:
		b, ok := next.(*mapping.Mapping)
		if !ok {
			return &MergeShapeError{Reason: "object merged against a non-object"}
		}
		return mergeMappings(a, b)

	case *mapping.Sequence:
		b, ok := next.(*mapping.Sequence)
		if !ok {
			return &MergeShapeError{Reason: "repeated group merged against a non-group"}
		}
		return mergeSequences(a, b)

	default:
		// Scalars: the accumulated value wins.
		return nil
	}
}

func mergeMappings(acc, next *mapping.Mapping) error {
	for _, key := range next.Keys() {
		incoming, _ := next.Get(key)
		existing, ok := acc.Get(key)
		if !ok {
			acc.Set(key, incoming)
			continue
		}
		if err := mergeInto(existing, incoming); err != nil {
			return err
		}
	}
	return nil
}

// mergeSequences decides whether next's group joins the most recently
// accumulated group or starts a new one.
func mergeSequences(acc, next *mapping.Sequence) error {
	last := acc.Items[len(acc.Items)-1]
	incoming := next.Items[0]

	// Nested repeated groups recurse one level deeper.
	if _, ok := last.(*mapping.Sequence); ok {
		return mergeInto(last, incoming)
	}

	lastElem, key, err := singleKeyGroup(last)
	if err != nil {
		return err
	}
	incomingElem, incomingKey, err := singleKeyGroup(incoming)
	if err != nil {
		return err
	}
	if key != incomingKey {
		return &MergeShapeError{Reason: "repeated group elements have different tag names: " + key + " and " + incomingKey}
	}

	lastGroup, _ := lastElem.Get(key)
	incomingGroup, _ := incomingElem.Get(key)

	same, err := sameMergeKey(lastGroup, incomingGroup)
	if err != nil {
		return err
	}
	if same {
		return mergeInto(last, incoming)
	}

	acc.Items = append(acc.Items, next.Items...)
	return nil
}

// singleKeyGroup asserts that a sequence element is a mapping with exactly
// one key, the group's tag name.
func singleKeyGroup(n mapping.Node) (*mapping.Mapping, string, error) {
	m, ok := n.(*mapping.Mapping)
	if !ok || m.Len() != 1 {
		return nil, "", &MergeShapeError{Reason: "a repeated group's element must be an object with exactly one key"}
	}
	return m, m.Keys()[0], nil
}

// sameMergeKey reports whether two groups carry a merge tag and agree on
// their discriminant value.
func sameMergeKey(a, b mapping.Node) (bool, error) {
	am, ok := a.(*mapping.Mapping)
	if !ok {
		return false, nil
	}
	bm, ok := b.(*mapping.Mapping)
	if !ok {
		return false, nil
	}

	tag, ok := am.Get(mapping.MergeTag)
	if !ok {
		return false, nil
	}
	tagScalar, ok := tag.(*mapping.Scalar)
	if !ok {
		return false, &MergeShapeError{Reason: "merge tag is not a scalar"}
	}
	discriminant, ok := tagScalar.Value.(string)
	if !ok {
		return false, &MergeShapeError{Reason: "merge tag does not name a field"}
	}

	av, ok := am.Get(discriminant)
	if !ok {
		return false, &MergeShapeError{Reason: "merge discriminant " + discriminant + " missing from accumulated group"}
	}
	bv, ok := bm.Get(discriminant)
	if !ok {
		return false, &MergeShapeError{Reason: "merge discriminant " + discriminant + " missing from incoming group"}
	}

	as, aok := av.(*mapping.Scalar)
	bs, bok := bv.(*mapping.Scalar)
	if !aok || !bok {
		return false, &MergeShapeError{Reason: "merge discriminant " + discriminant + " is not a scalar"}
	}
	return as.Value == bs.Value, nil
}
