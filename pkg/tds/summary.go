package tds

import (
	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

// Info returns basic executable and TDS information.
func (t *TDS) Info() *Info {
	info := &Info{
		File:            t.Name,
		DebugInfoOffset: t.Executable.DebugInfoOffset,
		Magic:           t.Header.Magic,
		Version:         t.Header.Version,
		Names:           t.Names.Len() - 1,
		Types:           len(t.Types) - 1,
		Members:         len(t.Members) - 1,
		Symbols:         len(t.Symbols) - 1,
		Modules:         len(t.Modules) - 1,
		Scopes:          len(t.Scopes) - 1,
		Lines:           len(t.Lines) - 1,
		Sources:         len(t.Sources) - 1,
		Correlations:    len(t.Correlations) - 1,
	}

	for i := 1; i < len(t.Executable.Segments); i++ {
		seg := t.Executable.Segments[i]
		offset, _ := t.Executable.SegmentFileOffset(i)
		info.Segments = append(info.Segments, SegmentInfo{
			Index:      i,
			FileOffset: offset,
			Length:     seg.Length,
			Data:       seg.IsData(),
			Allocation: seg.AllocationSize,
		})
	}

	return info
}

// ModuleList returns information about compiled modules.
func (t *TDS) ModuleList() []ModuleInfo {
	modules := make([]ModuleInfo, 0, len(t.Modules))

	for _, mod := range t.Modules[1:] {
		info := ModuleInfo{
			Name:         t.NameOf(mod.Name),
			Language:     mod.Language,
			Symbols:      int(mod.SymbolCount),
			Correlations: int(mod.CorrelationCount),
		}

		for j := int(mod.SourceIndex); j < int(mod.SourceIndex)+int(mod.SourceCount); j++ {
			if j <= 0 || j >= len(t.Sources) {
				continue
			}
			info.SourceFiles = append(info.SourceFiles, t.NameOf(t.Sources[j].Name))
		}

		modules = append(modules, info)
	}

	return modules
}

// TypeList returns every logical type with its signature. Structs and enums
// include their members.
func (t *TDS) TypeList() []TypeInfo {
	var types []TypeInfo

	typeinfo.ForEach(t.Types, func(index int, typ records.Type) {
		ti := TypeInfo{
			Index:     index,
			Kind:      typeinfo.KindName(typ.ID),
			Name:      t.NameOf(typ.Name),
			Size:      typ.Size,
			Signature: t.TypeString(index),
		}

		for _, m := range t.TypeMembers(index) {
			member := Member{Name: t.NameOf(m.Name)}
			if typ.IsEnum() {
				member.Value = m.Type
			} else {
				member.TypeName = t.TypeString(int(m.Type))
				member.Offset = m.Offset
			}
			ti.Members = append(ti.Members, member)
		}

		types = append(types, ti)
	})

	return types
}

// GlobalSymbols returns all global symbols with their locals.
func (t *TDS) GlobalSymbols() []Symbol {
	var symbols []Symbol

	for i := 1; i < len(t.Symbols); i++ {
		if !t.IsGlobalSymbol(i) {
			continue
		}

		s := t.Symbols[i]
		sym := Symbol{
			Index:     i,
			Name:      t.NameOf(s.Name),
			Kind:      t.SymbolKindOf(s),
			Segment:   s.Segment,
			Offset:    s.Offset,
			Signature: t.TypeString(int(s.Type)),
		}

		switch sym.Kind {
		case SymbolImport:
			sym.Segment = 0
			sym.Offset = 0
			sym.Import = t.ImportName(s)
		case SymbolFunction:
			for _, l := range t.LocalSymbols(i) {
				local := t.Symbols[l]
				sym.Locals = append(sym.Locals, Local{
					Name:      t.NameOf(local.Name),
					Offset:    int16(local.Offset),
					Signature: t.TypeString(int(local.Type)),
				})
			}
		}

		symbols = append(symbols, sym)
	}

	return symbols
}

// SourceFiles returns the line mapping of every correlation.
func (t *TDS) SourceFiles() []SourceInfo {
	var sources []SourceInfo

	for _, c := range t.Correlations[1:] {
		segment, lines, start, end := t.CorrelationLines(c)

		info := SourceInfo{
			File:        t.SourceName(c),
			Segment:     segment,
			StartOffset: start,
			EndOffset:   end,
		}
		for _, line := range lines {
			info.Lines = append(info.Lines, Line{Line: line.Line, Offset: line.Offset})
		}

		sources = append(sources, info)
	}

	return sources
}
