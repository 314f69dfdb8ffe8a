package idapy_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/openchasm/tds2ida/internal/tdstest"
	"github.com/openchasm/tds2ida/pkg/tds"
	"github.com/openchasm/tds2ida/pkg/tds/idapy"
	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
)

func generate(t *testing.T, im *tdstest.Image, opts ...tds.Option) (string, idapy.Stats) {
	t.Helper()

	file, err := tds.Load(im.File("SAMPLE.EXE"), opts...)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	var out bytes.Buffer
	stats, err := idapy.Generate(&out, file)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return out.String(), stats
}

// commands returns the generated lines that start with prefix.
func commands(script, prefix string) []string {
	var found []string
	for _, line := range strings.Split(script, "\n") {
		if strings.HasPrefix(line, prefix) {
			found = append(found, line)
		}
	}
	return found
}

func TestGeneratePointScenario(t *testing.T) {
	script, stats := generate(t, tdstest.Sample())

	if got := commands(script, "struc = make_struc("); len(got) != 1 || got[0] != `struc = make_struc("Point")` {
		t.Fatalf("make_struc lines = %q", got)
	}

	members := commands(script, "make_struc_member(")
	want := []string{
		`make_struc_member(struc, "x", 0, "int16_t", 2, -1, FF_WORD)`,
		`make_struc_member(struc, "y", 2, "int16_t", 2, -1, FF_WORD)`,
	}
	if len(members) != len(want) {
		t.Fatalf("make_struc_member lines = %q", members)
	}
	for i := range want {
		if members[i] != want[i] {
			t.Errorf("member %d = %q, want %q", i, members[i], want[i])
		}
	}

	data := commands(script, "make_data(")
	if len(data) != 1 {
		t.Fatalf("make_data lines = %q", data)
	}
	if !strings.HasPrefix(data[0], `make_data(2, 0x0000, "origin", `) || !strings.Contains(data[0], "struct 'Point'") {
		t.Errorf("make_data = %q", data[0])
	}
	if !strings.HasSuffix(data[0], ", 4)") {
		t.Errorf("make_data size in %q, want 4", data[0])
	}

	if stats.Structs != 1 || stats.Data != 1 || stats.Functions != 1 {
		t.Errorf("stats = %+v", stats)
	}
}

func TestGenerateFunctionsAndLocals(t *testing.T) {
	script, _ := generate(t, tdstest.Sample())

	funcs := commands(script, `func = make_func(1, 0x0000, "main", `)
	if len(funcs) != 1 {
		t.Fatalf("make_func main lines = %q", funcs)
	}

	locals := commands(script, "make_local(")
	if len(locals) != 1 || locals[0] != `make_local(func, -2, "count", "signed int 'int' ")` {
		t.Fatalf("make_local lines = %q", locals)
	}

	// Locals follow their function.
	if strings.Index(script, locals[0]) < strings.Index(script, funcs[0]) {
		t.Errorf("make_local emitted before make_func")
	}
}

func TestGenerateImportScenario(t *testing.T) {
	im := tdstest.Sample()
	// Ordinal 2 also names the data segment; the import flag wins.
	im.Symbol(records.Symbol{
		Name:    im.Name("Shadow"),
		Offset:  im.Name("GDI"),
		Segment: records.ImportFlag | 2,
	})

	script, stats := generate(t, im)

	imports := commands(script, "make_import(")
	if len(imports) != 2 {
		t.Fatalf("make_import lines = %q", imports)
	}
	if !strings.HasPrefix(imports[0], `make_import("USER_104", "MessageBeep", `) {
		t.Errorf("import = %q", imports[0])
	}
	if !strings.HasPrefix(imports[1], `make_import("GDI_2", "Shadow", `) {
		t.Errorf("import = %q", imports[1])
	}

	for _, prefix := range []string{"make_func(", "func = make_func(", "make_data("} {
		for _, line := range commands(script, prefix) {
			if strings.Contains(line, `"MessageBeep"`) || strings.Contains(line, `"Shadow"`) {
				t.Errorf("import emitted as %q", line)
			}
		}
	}

	if stats.Imports != 2 {
		t.Errorf("Imports = %d, want 2", stats.Imports)
	}
}

func TestGenerateReservedNameScenario(t *testing.T) {
	script, _ := generate(t, tdstest.Sample())

	if got := commands(script, "add_enum_member("); len(got) != 1 || got[0] != `add_enum_member(enum, "$VGA", 9)` {
		t.Fatalf("add_enum_member lines = %q", got)
	}
	if got := commands(script, "enum = add_enum("); len(got) != 1 || got[0] != `enum = add_enum(BADADDR, "Mode", 0)` {
		t.Fatalf("add_enum lines = %q", got)
	}
	if strings.Contains(script, `"VGA"`) {
		t.Errorf("unescaped reserved name in script")
	}
}

func TestGenerateSources(t *testing.T) {
	tests := []struct {
		name string
		opts []tds.Option
		file string
	}{
		{name: "compat", file: `"MAIN.PAS"`},
		{name: "without compat", opts: []tds.Option{tds.WithoutCompat()}, file: `"CHASM.SRC\\MAIN.PAS"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			script, _ := generate(t, tdstest.Sample(), tt.opts...)

			lines := commands(script, "make_src_line(")
			if len(lines) != 2 || lines[0] != "make_src_line(1, 0x0000, 10)" || lines[1] != "make_src_line(1, 0x0003, 11)" {
				t.Fatalf("make_src_line lines = %q", lines)
			}

			files := commands(script, "make_src_file(")
			want := "make_src_file(1, 0x0000, 0x0004, " + tt.file + ")"
			if len(files) != 1 || files[0] != want {
				t.Fatalf("make_src_file lines = %q, want %q", files, want)
			}
		})
	}
}

func TestGenerateLayout(t *testing.T) {
	script, _ := generate(t, tdstest.Sample())

	if !strings.HasPrefix(script, idapy.Preamble) {
		t.Fatalf("script does not start with the preamble")
	}
	if !strings.HasSuffix(script, "refresh_idaview_anyway()\n") {
		t.Fatalf("script does not end with refresh_idaview_anyway()")
	}

	order := []string{
		"make_func(2, 0x2070, '$CspRndrInit', '')",
		"struc = make_struc(",
		"func = make_func(1,",
		"make_src_file(",
		"refresh_idaview_anyway()",
	}
	last := -1
	for _, marker := range order {
		pos := strings.LastIndex(script, marker)
		if pos <= last {
			t.Fatalf("%q out of order", marker)
		}
		last = pos
	}
}

func TestGenerateQuotesRawBytes(t *testing.T) {
	im := tdstest.Sample()
	im.Symbol(records.Symbol{Name: im.Name("\x8e\xe9\"x"), Type: 1, Segment: 2, Offset: 4})

	script, _ := generate(t, im)

	if want := `"\u008eé\"x"`; !strings.Contains(script, want) {
		t.Errorf("script does not contain %s", want)
	}
}

type failingWriter struct{}

var errWrite = errors.New("disk full")

func (failingWriter) Write([]byte) (int, error) {
	return 0, errWrite
}

func TestGenerateWriteError(t *testing.T) {
	file, err := tds.Load(tdstest.Sample().File("SAMPLE.EXE"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	_, err = idapy.Generate(failingWriter{}, file)
	if !errors.Is(err, errWrite) {
		t.Fatalf("Generate error = %v, want %v", err, errWrite)
	}
	if !errors.Is(err, tdserr.New(tdserr.PhaseGenerate, tdserr.KindIO).Build()) {
		t.Errorf("error %v is not a generate I/O error", err)
	}
}
