package records

import (
	"fmt"
	"io"

	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
)

// Tables holds every record table of a TDS block in file order.
type Tables struct {
	Symbols       []Symbol
	Modules       []Module
	Sources       []Source
	Lines         []Line
	Scopes        []Scope
	Segments      []Segment
	Correlations  []Correlation
	Types         []Type
	Members       []Member
	ScopeClasses  []ScopeClass
	ModuleClasses []ModuleClass
}

// ReadHeader reads the TDS header at the current position.
func ReadHeader(f *rawfile.File) (*Header, error) {
	var header Header
	if err := f.ReadStruct(&header); err != nil {
		return nil, tdserr.Read(tdserr.PhaseRecords, f.Name(), "failed to read header, wrong TDS file", err)
	}
	return &header, nil
}

// LoadTables reads all record tables that follow the header, then skips the
// unmodeled data blob so that f is positioned at the name pool.
func LoadTables(f *rawfile.File, header *Header) (*Tables, error) {
	t := &Tables{}

	var err error
	if t.Symbols, err = loadTable[Symbol](f, "symbol", header.SymbolCount); err != nil {
		return nil, err
	}
	if t.Modules, err = loadTable[Module](f, "module", header.ModuleCount); err != nil {
		return nil, err
	}
	if t.Sources, err = loadTable[Source](f, "source", header.SourceCount); err != nil {
		return nil, err
	}
	if t.Lines, err = loadTable[Line](f, "line", header.LineCount); err != nil {
		return nil, err
	}
	if t.Scopes, err = loadTable[Scope](f, "scope", header.ScopeCount); err != nil {
		return nil, err
	}
	if t.Segments, err = loadTable[Segment](f, "segment", header.SegmentCount); err != nil {
		return nil, err
	}
	if t.Correlations, err = loadTable[Correlation](f, "correlation", header.CorrelationCount); err != nil {
		return nil, err
	}
	if t.Types, err = loadTable[Type](f, "type", header.TypeCount); err != nil {
		return nil, err
	}
	if t.Members, err = loadTable[Member](f, "member", header.MemberCount); err != nil {
		return nil, err
	}
	if t.ScopeClasses, err = loadTable[ScopeClass](f, "scope class", header.ScopeClassCount); err != nil {
		return nil, err
	}
	if t.ModuleClasses, err = loadTable[ModuleClass](f, "module class", header.ModuleClassCount); err != nil {
		return nil, err
	}

	if err := f.Seek(int64(header.DataCount), io.SeekCurrent); err != nil {
		return nil, tdserr.IO(tdserr.PhaseNames, f.Name(), "failed to seek to names table", err)
	}

	return t, nil
}

// loadTable reads count fixed-size entries after a zero placeholder.
func loadTable[T any](f *rawfile.File, what string, count uint16) ([]T, error) {
	table := make([]T, 1, int(count)+1)

	for i := 0; i < int(count); i++ {
		var entry T
		if err := f.ReadStruct(&entry); err != nil {
			return nil, tdserr.Read(tdserr.PhaseRecords, f.Name(),
				fmt.Sprintf("failed to read %s entry %d of %d", what, i+1, count), err)
		}
		table = append(table, entry)
	}

	return table, nil
}
