package tds

import (
	"fmt"
	"math"

	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

// SymbolKindOf classifies a global symbol. Imports are recognized by the
// segment flag alone, regardless of the executable segment table.
func (t *TDS) SymbolKindOf(s records.Symbol) SymbolKind {
	switch {
	case s.IsImport():
		return SymbolImport
	case t.Executable.IsDataSegment(int(s.Segment)):
		return SymbolData
	default:
		return SymbolFunction
	}
}

// ImportName returns "<name>_<ordinal>" for an imported symbol, where the
// name index is stored in the symbol offset.
func (t *TDS) ImportName(s records.Symbol) string {
	return fmt.Sprintf("%s_%d", t.NameOf(s.Offset), s.Ordinal())
}

// LocalSymbols returns the indices of the locals of the function symbol at
// index, in scope order. Pseudo symbols and globals are skipped.
func (t *TDS) LocalSymbols(index int) []int {
	var locals []int

	for _, scope := range t.Scopes {
		if int(scope.Symbol) != index || index == 0 {
			continue
		}

		for j := 0; j < int(scope.Count); j++ {
			local := int(scope.Index) + j
			if local <= 0 || local >= len(t.Symbols) {
				continue
			}
			if t.Symbols[local].IsPseudo() || t.IsGlobalSymbol(local) {
				continue
			}
			locals = append(locals, local)
		}
	}

	return locals
}

// MemberLayout is a member of a struct or enum as laid out by the generator.
type MemberLayout struct {
	records.Member
	Offset uint16 // Running byte offset, structs only
	Size   uint16 // Size of the member type, structs only
}

// TypeMembers returns the members of the struct or enum at index. A member
// marked as a variant boundary ends the list before it; the end-of-type
// member is the last one returned.
func (t *TDS) TypeMembers(index int) []MemberLayout {
	if index <= 0 || index >= len(t.Types) {
		return nil
	}

	typ := t.Types[index]
	if !typ.IsStruct() && !typ.IsEnum() {
		return nil
	}

	start := int(typ.RecordWord)
	if typ.IsEnum() {
		start = int(records.EnumFirstMember(typeinfo.Extended(t.Types, index)))
	}

	var (
		layout []MemberLayout
		offset uint16
	)

	for j := start; j > 0 && j < len(t.Members); j++ {
		member := t.Members[j]

		if member.Info&records.MemberNewOffset != 0 {
			// Variant records are not modeled.
			break
		}

		var size uint16
		if typ.IsStruct() {
			size = t.resolver.Size(int(member.Type))
		}

		layout = append(layout, MemberLayout{Member: member, Offset: offset, Size: size})

		if member.Info&records.MemberEndOfType != 0 {
			break
		}

		offset += size
	}

	return layout
}

// CorrelationLines returns the code segment, the line records and the
// [start, end) byte range covered by a correlation. With no lines start is
// math.MaxUint16 and end is 1.
func (t *TDS) CorrelationLines(c records.Correlation) (segment uint16, lines []records.Line, start, end uint16) {
	if int(c.SegmentIndex) < len(t.Segments) {
		segment = t.Segments[c.SegmentIndex].CodeSegment
	}

	start = math.MaxUint16
	var last uint16

	for j := int(c.LineIndex); j < int(c.LineIndex)+int(c.LineCount); j++ {
		if j <= 0 || j >= len(t.Lines) {
			continue
		}
		line := t.Lines[j]
		lines = append(lines, line)

		start = min(start, line.Offset)
		last = max(last, line.Offset)
	}

	end = last
	if end < math.MaxUint16 {
		end++
	}

	return segment, lines, start, end
}

// SourceName returns the file name of the source referenced by a correlation.
func (t *TDS) SourceName(c records.Correlation) string {
	if int(c.FileIndex) >= len(t.Sources) {
		return ""
	}

	name := t.NameOf(t.Sources[c.FileIndex].Name)
	if t.compat {
		name = stripSourcePrefixes(name)
	}
	return name
}
