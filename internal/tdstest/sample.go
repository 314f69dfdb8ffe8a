package tdstest

import (
	"github.com/openchasm/tds2ida/pkg/tds/ne"
	"github.com/openchasm/tds2ida/pkg/tds/records"
)

// SampleCode is the content of the code segment of Sample: push bp; mov
// bp,sp; pop bp; ret.
var SampleCode = []byte{0x55, 0x8B, 0xEC, 0x5D, 0xC3}

// Sample returns a small program with:
//   - code segment 1 holding function "main" at 0 with local "count" at -2,
//   - data segment 2 holding "origin" of struct "Point" {x, y int16},
//   - enum "Mode" with the constant "VGA" = 9,
//   - "MessageBeep" imported from "USER" by ordinal 104,
//   - source "CHASM.SRC\MAIN.PAS" mapping lines 10 and 11 to offsets 0 and 3.
func Sample() *Image {
	im := &Image{
		Segments: []Segment{
			{Data: SampleCode},
			{Flags: ne.SegmentData, Data: make([]byte, 16)},
		},
	}

	int16Type := im.Type(records.Type{ID: records.TypeInt16, Name: im.Name("int"), Size: 2})
	im.Type(records.ExtendedSlot([4]uint16{0x8000, 0xFFFF, 0x7FFF, 0}))

	x := im.Member(records.Member{Name: im.Name("x"), Type: int16Type})
	im.Member(records.Member{Name: im.Name("y"), Type: int16Type, Info: records.MemberEndOfType})
	point := im.Type(records.Type{ID: records.TypeStruct, Name: im.Name("Point"), Size: 4, RecordWord: x})

	vga := im.Member(records.Member{Name: im.Name("VGA"), Type: 9, Info: records.MemberEndOfType})
	im.Type(records.Type{ID: records.TypeEnum, Name: im.Name("Mode"), Size: 2})
	im.Type(records.ExtendedSlot([4]uint16{0, 9, vga, 0}))

	function := im.Type(records.Type{ID: records.TypeFunction, RecordWord: int16Type})

	im.Symbol(records.Symbol{Name: im.Name("origin"), Type: point, Segment: 2})
	mainSymbol := im.Symbol(records.Symbol{Name: im.Name("main"), Type: function, Segment: 1})
	count := im.Symbol(records.Symbol{Name: im.Name("count"), Type: int16Type, Offset: 0xFFFE})
	im.Symbol(records.Symbol{
		Name:    im.Name("MessageBeep"),
		Type:    function,
		Offset:  im.Name("USER"),
		Segment: records.ImportFlag | 104,
	})

	im.Scopes = []records.Scope{{Index: count, Count: 1, Symbol: mainSymbol, Length: uint16(len(SampleCode))}}

	im.Sources = []records.Source{{Name: im.Name(`CHASM.SRC\MAIN.PAS`)}}
	im.Lines = []records.Line{{Line: 10, Offset: 0}, {Line: 11, Offset: 3}}
	im.TDSSegments = []records.Segment{{ModuleIndex: 1, CodeSegment: 1}}
	im.Correlations = []records.Correlation{{SegmentIndex: 1, FileIndex: 1, LineIndex: 1, LineCount: 2}}
	im.Modules = []records.Module{{
		Name:             im.Name("MAIN"),
		SymbolIndex:      1,
		SymbolCount:      uint16(len(im.Symbols)),
		SourceIndex:      1,
		SourceCount:      1,
		CorrelationIndex: 1,
		CorrelationCount: 1,
	}}

	return im
}
