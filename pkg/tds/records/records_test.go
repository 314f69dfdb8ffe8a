package records_test

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/openchasm/tds2ida/internal/tdstest"
	"github.com/openchasm/tds2ida/pkg/tds/ne"
	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
)

func TestRecordSizes(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want int
	}{
		{"header", records.Header{}, records.HeaderSize},
		{"symbol", records.Symbol{}, 9},
		{"module", records.Module{}, 16},
		{"source", records.Source{}, 6},
		{"line", records.Line{}, 4},
		{"scope", records.Scope{}, 12},
		{"segment", records.Segment{}, 16},
		{"correlation", records.Correlation{}, 8},
		{"type", records.Type{}, records.TypeSize},
		{"member", records.Member{}, 5},
		{"scope class", records.ScopeClass{}, 4},
		{"module class", records.ModuleClass{}, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := binary.Size(tt.v); got != tt.want {
				t.Errorf("size = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestTypeFromRaw(t *testing.T) {
	typ := records.Type{ID: records.TypeStruct, Name: 0x1234, Size: 0x5678, RecordByte: 0x9A, RecordWord: 0xBCDE}
	if got := records.TypeFromRaw(typ.Raw()); got != typ {
		t.Fatalf("TypeFromRaw(Raw()) = %+v, want %+v", got, typ)
	}

	slot := records.ExtendedSlot([4]uint16{1, 2, 3, 4})
	for i := 0; i < 4; i++ {
		if got := slot.Word(i); got != uint16(i+1) {
			t.Errorf("Word(%d) = %d, want %d", i, got, i+1)
		}
	}
	if records.ArrayElementType(slot) != 1 || records.EnumFirstMember(slot) != 3 {
		t.Errorf("extended accessors read the wrong words")
	}
}

func TestSymbolClassifiers(t *testing.T) {
	imp := records.Symbol{Segment: records.ImportFlag | 0x123}
	if !imp.IsImport() || imp.Ordinal() != 0x123 {
		t.Errorf("import: IsImport=%v Ordinal=0x%x", imp.IsImport(), imp.Ordinal())
	}

	if !(records.Symbol{}).IsPseudo() {
		t.Errorf("zero symbol is not pseudo")
	}
	if (records.Symbol{Offset: 0xFFFE}).IsPseudo() {
		t.Errorf("stack local reported as pseudo")
	}
}

// seekTDS positions a reader over the sample right after the debug signature.
func seekTDS(t *testing.T, data []byte) *rawfile.File {
	t.Helper()

	f := rawfile.New("TEST.EXE", bytes.NewReader(data))
	if _, err := ne.Load(f); err != nil {
		t.Fatalf("ne.Load: %v", err)
	}
	return f
}

func TestLoadTables(t *testing.T) {
	im := tdstest.Sample()
	im.Data = []byte("skipped blob")

	f := seekTDS(t, im.Bytes())

	header, err := records.ReadHeader(f)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}
	if int(header.SymbolCount) != len(im.Symbols) || int(header.DataCount) != len(im.Data) {
		t.Fatalf("header = %+v", header)
	}

	tables, err := records.LoadTables(f, header)
	if err != nil {
		t.Fatalf("LoadTables: %v", err)
	}

	checks := []struct {
		name string
		got  int
		want int
	}{
		{"symbols", len(tables.Symbols), len(im.Symbols)},
		{"modules", len(tables.Modules), len(im.Modules)},
		{"sources", len(tables.Sources), len(im.Sources)},
		{"lines", len(tables.Lines), len(im.Lines)},
		{"scopes", len(tables.Scopes), len(im.Scopes)},
		{"segments", len(tables.Segments), len(im.TDSSegments)},
		{"correlations", len(tables.Correlations), len(im.Correlations)},
		{"types", len(tables.Types), len(im.Types)},
		{"members", len(tables.Members), len(im.Members)},
		{"scope classes", len(tables.ScopeClasses), len(im.ScopeClasses)},
		{"module classes", len(tables.ModuleClasses), len(im.ModuleClasses)},
	}
	for _, c := range checks {
		// Every table starts with a placeholder.
		if c.got != c.want+1 {
			t.Errorf("%s: %d entries, want %d", c.name, c.got, c.want+1)
		}
	}

	if tables.Symbols[0] != (records.Symbol{}) {
		t.Errorf("placeholder symbol = %+v", tables.Symbols[0])
	}
	if tables.Symbols[1] != im.Symbols[0] {
		t.Errorf("first symbol = %+v, want %+v", tables.Symbols[1], im.Symbols[0])
	}

	names := records.LoadNames(f, header.NameCount)
	if names.Len() != len(im.Names)+1 {
		t.Fatalf("names = %d, want %d", names.Len()-1, len(im.Names))
	}
	for i, want := range im.Names {
		if got := names.Name(i + 1); got != want {
			t.Errorf("name %d = %q, want %q", i+1, got, want)
		}
	}
}

func TestLoadTablesTruncated(t *testing.T) {
	im := tdstest.Sample()
	// Claim far more members than stored; the read runs through the name pool
	// and then past the end of the file.
	im.EditHeader = func(h *records.Header) { h.MemberCount += 1000 }

	f := seekTDS(t, im.Bytes())

	header, err := records.ReadHeader(f)
	if err != nil {
		t.Fatalf("ReadHeader: %v", err)
	}

	tables, err := records.LoadTables(f, header)
	if err == nil {
		t.Fatalf("LoadTables succeeded")
	}
	if tables != nil {
		t.Errorf("partial tables returned")
	}
	if !errors.Is(err, rawfile.ErrShortRead) {
		t.Errorf("error %v does not wrap ErrShortRead", err)
	}
	if !errors.Is(err, tdserr.New(tdserr.PhaseRecords, tdserr.KindFormat).Build()) {
		t.Errorf("error %v is not a records format error", err)
	}
}

func TestReadHeaderTruncated(t *testing.T) {
	data := tdstest.Sample().Bytes()
	const tdsOffset = 176

	f := seekTDS(t, data[:tdsOffset+16+10])
	if _, err := records.ReadHeader(f); !errors.Is(err, rawfile.ErrShortRead) {
		t.Fatalf("ReadHeader error = %v, want short read", err)
	}
}

func TestNamePoolRoundTrip(t *testing.T) {
	pool := records.NewNamePool("alpha", "beta", "gamma")

	var buf bytes.Buffer
	if _, err := pool.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	buf.WriteByte(0)

	loaded := records.LoadNames(rawfile.New("names", bytes.NewReader(buf.Bytes())), 3)
	if got, want := loaded.Names(), pool.Names(); !equal(got, want) {
		t.Fatalf("round trip = %q, want %q", got, want)
	}
}

func TestLoadNamesTermination(t *testing.T) {
	tests := []struct {
		name string
		data string
		want []string
	}{
		{name: "empty name ends pool", data: "a\x00b\x00\x00c\x00\x00", want: []string{"", "a", "b"}},
		{name: "name cut by EOF is dropped", data: "a\x00bc", want: []string{"", "a"}},
		{name: "terminator as last byte", data: "a\x00b\x00", want: []string{"", "a", "b"}},
		{name: "empty input", data: "", want: []string{""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := records.LoadNames(rawfile.New("names", bytes.NewReader([]byte(tt.data))), 0)
			if got := pool.Names(); !equal(got, tt.want) {
				t.Fatalf("names = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNamePoolEdits(t *testing.T) {
	pool := records.NewNamePool("x")

	if i := pool.Add("y"); i != 2 {
		t.Fatalf("Add index = %d, want 2", i)
	}
	pool.Set(1, "z")
	pool.Set(0, "never")
	pool.Set(9, "never")

	if i, ok := pool.Index("z"); !ok || i != 1 {
		t.Errorf("Index(z) = %d, %v", i, ok)
	}
	if _, ok := pool.Index("never"); ok {
		t.Errorf("Set wrote outside 1..n")
	}
	if pool.Name(-1) != "" || pool.Name(3) != "" || pool.Valid(3) || !pool.Valid(0) {
		t.Errorf("out-of-range lookup misbehaves")
	}
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
