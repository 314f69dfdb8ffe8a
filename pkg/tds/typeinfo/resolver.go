package typeinfo

import (
	"fmt"
	"strings"

	"github.com/openchasm/tds2ida/pkg/tds/records"
)

// DefaultMaxDepth bounds recursion through pointer and function types.
const DefaultMaxDepth = 64

// Truncated replaces the text of types nested deeper than MaxDepth.
const Truncated = "..."

// Resolver renders type indices as the signatures printed by TDUMP.
type Resolver struct {
	types []records.Type
	names *records.NamePool

	// MaxDepth limits nested rendering. Zero means unbounded, which never
	// terminates on a self-referential type graph.
	MaxDepth int
}

// NewResolver creates a resolver with DefaultMaxDepth.
func NewResolver(types []records.Type, names *records.NamePool) *Resolver {
	return &Resolver{
		types:    types,
		names:    names,
		MaxDepth: DefaultMaxDepth,
	}
}

// TypeString resolves a type index to a signature. Out-of-range indices
// yield an empty string.
func (r *Resolver) TypeString(index int) string {
	var b strings.Builder
	r.write(&b, index, 0)
	return b.String()
}

func (r *Resolver) write(b *strings.Builder, index, depth int) {
	if index < 0 || index >= len(r.types) {
		return
	}

	if r.MaxDepth > 0 && depth >= r.MaxDepth {
		b.WriteString(Truncated)
		return
	}

	t := r.types[index]
	b.WriteString(KindName(t.ID))

	if !r.names.Valid(int(t.Name)) {
		return
	}

	if name := r.names.Name(int(t.Name)); name != "" {
		b.WriteString(" '")
		b.WriteString(name)
		b.WriteString("' ")
	}

	var suffix string

	switch t.ID {
	case records.TypePascalString:
		suffix = fmt.Sprintf("max %X ", t.RecordByte)

	case records.TypeInt8, records.TypeInt16, records.TypeInt32,
		records.TypeUint8, records.TypeUint16, records.TypeUint32:
		b.WriteString(rangeString(t, Extended(r.types, index)))

	case records.TypeFarPointer, records.TypeFar386, records.TypeFarReference:
		if t.RecordByte != 0 {
			b.WriteString("huge ")
		}
		r.write(b, int(t.RecordWord), depth+1)

	case records.TypeFunction:
		r.writeFunction(b, t, depth)
	}

	b.WriteString(suffix)
}

// rangeString returns the range annotation of a bounded integer, or "" when
// the extended slot holds the kind's full range.
func rangeString(t, extended records.Type) string {
	full, ok := FullRange(t.ID)
	if !ok || extended.QuadWord() == full {
		return ""
	}

	return fmt.Sprintf("Range <%X,%X>  Parent %X",
		extended.DoubleWord(0), extended.DoubleWord(1), t.Word(3))
}

func (r *Resolver) writeFunction(b *strings.Builder, t records.Type, depth int) {
	if t.RecordByte&FunctionNested != 0 {
		b.WriteString("nested ")
	}

	b.WriteString(memoryModels[t.RecordByte&7])

	if t.RecordByte&FunctionVarargs != 0 {
		b.WriteString("varargs ")
	}

	b.WriteString("returns ")
	if t.RecordWord == 0 {
		b.WriteString("Unknown")
		return
	}
	r.write(b, int(t.RecordWord), depth+1)
}
