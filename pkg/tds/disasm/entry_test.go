package disasm_test

import (
	"bytes"
	"errors"
	"testing"

	"golang.org/x/arch/x86/x86asm"

	"github.com/openchasm/tds2ida/internal/tdstest"
	"github.com/openchasm/tds2ida/pkg/tds"
	"github.com/openchasm/tds2ida/pkg/tds/disasm"
	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/records"
)

func check(t *testing.T, im *tdstest.Image) []disasm.Entry {
	t.Helper()

	image := im.Bytes()

	file, err := tds.Load(rawfile.New("SAMPLE.EXE", bytes.NewReader(image)))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	entries, err := disasm.CheckEntries(rawfile.New("SAMPLE.EXE", bytes.NewReader(image)), file)
	if err != nil {
		t.Fatalf("CheckEntries: %v", err)
	}
	return entries
}

func TestCheckEntries(t *testing.T) {
	entries := check(t, tdstest.Sample())

	// Only "main" is a function; data and imports are skipped.
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1: %v", len(entries), entries)
	}

	e := entries[0]
	if e.Name != "main" || e.Segment != 1 || e.Offset != 0 {
		t.Fatalf("entry = %v", e)
	}
	if !e.OK() {
		t.Fatalf("decode: %v", e.Err)
	}
	if e.Inst.Op != x86asm.PUSH || e.Inst.Len != 1 {
		t.Errorf("instruction = %v (len %d), want push bp", e.Inst, e.Inst.Len)
	}
	if e.Text == "" {
		t.Errorf("empty instruction text")
	}
}

func TestCheckEntriesFailures(t *testing.T) {
	tests := []struct {
		name    string
		segment uint16
		offset  uint16
		wantErr error
	}{
		{name: "past end of segment", segment: 1, offset: 0x100, wantErr: disasm.ErrOutOfSegment},
		{name: "unknown segment", segment: 9, offset: 1, wantErr: disasm.ErrNoSegmentData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			im := tdstest.Sample()
			function := im.Symbols[1].Type // type of "main"
			im.Symbol(records.Symbol{
				Name:    im.Name("broken"),
				Type:    function,
				Offset:  tt.offset,
				Segment: tt.segment,
			})

			entries := check(t, im)
			var found bool
			for _, e := range entries {
				if e.Name != "broken" {
					continue
				}
				found = true
				if !errors.Is(e.Err, tt.wantErr) {
					t.Errorf("error = %v, want %v", e.Err, tt.wantErr)
				}
				if e.OK() {
					t.Errorf("entry reported as decoded")
				}
			}
			if !found {
				t.Fatalf("no entry for broken symbol in %v", entries)
			}
		})
	}
}
