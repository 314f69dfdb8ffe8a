// Package disasm decodes the first instruction of every global function to
// check symbol addresses against the code stored in the executable.
package disasm

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/arch/x86/x86asm"

	"github.com/openchasm/tds2ida/pkg/tds"
	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
)

// Mode is the operand size used for NE code segments.
const Mode = 16

var (
	ErrNoSegmentData = errors.New("segment has no stored data")
	ErrOutOfSegment  = errors.New("offset past end of segment")
)

// Entry is the result of decoding one function entry point.
type Entry struct {
	Symbol  int
	Name    string
	Segment uint16
	Offset  uint16

	Inst x86asm.Inst
	Text string // Intel syntax, empty on error
	Err  error
}

// OK reports whether the entry decoded to an instruction.
func (e Entry) OK() bool {
	return e.Err == nil
}

func (e Entry) String() string {
	if e.Err != nil {
		return fmt.Sprintf("%d:%04x %s: %v", e.Segment, e.Offset, e.Name, e.Err)
	}
	return fmt.Sprintf("%d:%04x %s: %s", e.Segment, e.Offset, e.Name, e.Text)
}

// CheckEntries decodes the instruction at the address of every global
// function of t. f must be the executable t was loaded from. Decode
// failures are reported per entry; the returned error is for I/O only.
func CheckEntries(f *rawfile.File, t *tds.TDS) ([]Entry, error) {
	segments := make(map[uint16][]byte)

	var entries []Entry
	for i := 1; i < len(t.Symbols); i++ {
		if !t.IsGlobalSymbol(i) {
			continue
		}

		s := t.Symbols[i]
		if t.SymbolKindOf(s) != tds.SymbolFunction {
			continue
		}

		data, ok := segments[s.Segment]
		if !ok {
			var err error
			if _, valid := t.Executable.Segment(int(s.Segment)); valid {
				data, err = t.Executable.SegmentData(f, int(s.Segment))
				if err != nil {
					return nil, fmt.Errorf("failed to read code of %s: %w", t.NameOf(s.Name), err)
				}
			}
			segments[s.Segment] = data
		}

		entry := Entry{
			Symbol:  i,
			Name:    t.NameOf(s.Name),
			Segment: s.Segment,
			Offset:  s.Offset,
		}
		entry.decode(data)

		if entry.Err != nil {
			tds.Logger().Debug("entry decode failed",
				zap.String("symbol", entry.Name), zap.Uint16("segment", entry.Segment),
				zap.Uint16("offset", entry.Offset), zap.Error(entry.Err))
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

func (e *Entry) decode(code []byte) {
	switch {
	case len(code) == 0:
		e.Err = ErrNoSegmentData
		return
	case int(e.Offset) >= len(code):
		e.Err = ErrOutOfSegment
		return
	}

	inst, err := x86asm.Decode(code[e.Offset:], Mode)
	if err != nil {
		e.Err = err
		return
	}

	e.Inst = inst
	e.Text = x86asm.IntelSyntax(inst, uint64(e.Offset), nil)
}
