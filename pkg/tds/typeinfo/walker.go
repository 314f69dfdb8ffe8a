// Package typeinfo enumerates logical TDS types and renders them as
// human-readable signatures.
package typeinfo

import (
	"github.com/openchasm/tds2ida/pkg/tds/records"
)

// Walker is a forward-only cursor over the logical types of a type table.
// It steps over the extended slot that follows basic, array and enum types,
// so those slots are never reported as types of their own.
type Walker struct {
	types []records.Type
	index int
}

// NewWalker creates a walker positioned at the first real type (index 1).
func NewWalker(types []records.Type) *Walker {
	return &Walker{types: types, index: 1}
}

// Done reports whether the cursor is past the end of the table.
func (w *Walker) Done() bool {
	return w.index >= len(w.types)
}

// Type returns the type at the cursor, or false past the end.
func (w *Walker) Type() (records.Type, bool) {
	if w.Done() {
		return records.Type{}, false
	}
	return w.types[w.index], true
}

// Index returns the table index of the type at the cursor.
func (w *Walker) Index() int {
	return w.index
}

// Next advances to the next logical type.
func (w *Walker) Next() {
	if w.Done() {
		return
	}
	if w.types[w.index].HasExtendedTypeInfo() {
		w.index++
	}
	w.index++
}

// ForEach calls fn for every logical type in table order.
func ForEach(types []records.Type, fn func(index int, t records.Type)) {
	for w := NewWalker(types); !w.Done(); w.Next() {
		t, _ := w.Type()
		fn(w.Index(), t)
	}
}

// Extended returns the slot following index, or a zero record when index is
// the last entry.
func Extended(types []records.Type, index int) records.Type {
	if index < 0 || index+1 >= len(types) {
		return records.Type{}
	}
	return types[index+1]
}
