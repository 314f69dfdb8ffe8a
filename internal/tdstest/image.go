// Package tdstest builds synthetic NE executables with an appended TDS block
// for tests.
package tdstest

import (
	"bytes"
	"encoding/binary"

	"github.com/openchasm/tds2ida/pkg/tds/ne"
	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/records"
)

// SectorShift is the sector alignment shift used for generated images.
const SectorShift = 4

// Segment describes an executable segment of the generated image.
type Segment struct {
	Flags uint16
	Data  []byte
}

// Image describes an NE file with debug information. Tables are given
// without their placeholder element; counts are derived from them.
type Image struct {
	Segments []Segment

	Symbols       []records.Symbol
	Modules       []records.Module
	Sources       []records.Source
	Lines         []records.Line
	Scopes        []records.Scope
	TDSSegments   []records.Segment
	Correlations  []records.Correlation
	Types         []records.Type
	Members       []records.Member
	ScopeClasses  []records.ScopeClass
	ModuleClasses []records.ModuleClass

	Data  []byte   // Unmodeled blob before the name pool
	Names []string // Name pool entries 1..n

	// EditHeader, if set, adjusts the TDS header before it is written.
	EditHeader func(*records.Header)
}

// Name adds name to the pool and returns its index.
func (im *Image) Name(name string) uint16 {
	im.Names = append(im.Names, name)
	return uint16(len(im.Names))
}

// Type adds a type record and returns its index.
func (im *Image) Type(t records.Type) uint16 {
	im.Types = append(im.Types, t)
	return uint16(len(im.Types))
}

// Symbol adds a symbol and returns its index.
func (im *Image) Symbol(s records.Symbol) uint16 {
	im.Symbols = append(im.Symbols, s)
	return uint16(len(im.Symbols))
}

// Member adds a member and returns its index.
func (im *Image) Member(m records.Member) uint16 {
	im.Members = append(im.Members, m)
	return uint16(len(im.Members))
}

// Header returns the TDS header matching the tables.
func (im *Image) Header() records.Header {
	h := records.Header{
		Magic:            0x5242,
		NameCount:        uint16(len(im.Names)),
		TypeCount:        uint16(len(im.Types)),
		MemberCount:      uint16(len(im.Members)),
		SymbolCount:      uint16(len(im.Symbols)),
		ModuleCount:      uint16(len(im.Modules)),
		ScopeCount:       uint16(len(im.Scopes)),
		LineCount:        uint16(len(im.Lines)),
		SourceCount:      uint16(len(im.Sources)),
		SegmentCount:     uint16(len(im.TDSSegments)),
		CorrelationCount: uint16(len(im.Correlations)),
		DataCount:        uint16(len(im.Data)),
		ScopeClassCount:  uint16(len(im.ScopeClasses)),
		ModuleClassCount: uint16(len(im.ModuleClasses)),
	}
	if im.EditHeader != nil {
		im.EditHeader(&h)
	}
	return h
}

// Bytes serializes the image.
func (im *Image) Bytes() []byte {
	var buf bytes.Buffer

	const newHeaderOffset = ne.OldHeaderSize

	write(&buf, ne.OldHeader{
		Signature:       ne.OldSignature,
		NewHeaderOffset: newHeaderOffset,
	})

	write(&buf, ne.NewHeader{
		Signature:            ne.NewSignature,
		SegmentCount:         uint16(len(im.Segments)),
		SegmentOffset:        ne.NewHeaderSize,
		SectorAlignmentShift: SectorShift,
	})

	// Segment contents start at the first sector boundary past the table.
	tableEnd := newHeaderOffset + ne.NewHeaderSize + ne.SegmentSize*len(im.Segments)
	next := align(tableEnd)

	entries := make([]ne.Segment, len(im.Segments))
	for i, seg := range im.Segments {
		entries[i] = ne.Segment{Flags: seg.Flags, AllocationSize: uint16(len(seg.Data))}
		if len(seg.Data) == 0 {
			continue
		}
		entries[i].SectorOffset = uint16(next >> SectorShift)
		entries[i].Length = uint16(len(seg.Data))
		next = align(next + len(seg.Data))
	}
	write(&buf, entries)

	for i, seg := range im.Segments {
		if len(seg.Data) == 0 {
			continue
		}
		pad(&buf, int(entries[i].SectorOffset)<<SectorShift)
		buf.Write(seg.Data)
	}

	// With no stored segment the debug information cannot be located.
	if buf.Len() == tableEnd {
		return buf.Bytes()
	}

	buf.Write(ne.DebugInfoSignature[:])
	write(&buf, im.Header())
	write(&buf, im.Symbols)
	write(&buf, im.Modules)
	write(&buf, im.Sources)
	write(&buf, im.Lines)
	write(&buf, im.Scopes)
	write(&buf, im.TDSSegments)
	write(&buf, im.Correlations)
	write(&buf, im.Types)
	write(&buf, im.Members)
	write(&buf, im.ScopeClasses)
	write(&buf, im.ModuleClasses)
	buf.Write(im.Data)

	pool := records.NewNamePool(im.Names...)
	if _, err := pool.WriteTo(&buf); err != nil {
		panic(err)
	}
	// Empty name terminating the pool.
	buf.WriteByte(0)

	return buf.Bytes()
}

// File returns the serialized image wrapped as a rawfile.File.
func (im *Image) File(name string) *rawfile.File {
	return rawfile.New(name, bytes.NewReader(im.Bytes()))
}

func write(buf *bytes.Buffer, v any) {
	if err := binary.Write(buf, binary.LittleEndian, v); err != nil {
		panic(err)
	}
}

func align(n int) int {
	const sector = 1 << SectorShift
	return (n + sector - 1) &^ (sector - 1)
}

func pad(buf *bytes.Buffer, offset int) {
	for buf.Len() < offset {
		buf.WriteByte(0)
	}
}
