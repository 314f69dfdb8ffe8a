// Package idapy generates an IDAPython script that recreates the types,
// symbols and source line information of a TDS file inside IDA.
package idapy

import (
	"bufio"
	_ "embed"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"

	"github.com/openchasm/tds2ida/pkg/tds"
	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

// Preamble defines the helper functions called by the generated commands.
//
//go:embed preamble.py
var Preamble string

// Stats counts the generated commands.
type Stats struct {
	Structs     int
	Enums       int
	Functions   int
	Data        int
	Imports     int
	Locals      int
	SourceLines int
	SourceFiles int
}

type generator struct {
	w     *bufio.Writer
	t     *tds.TDS
	r     *typeinfo.Resolver
	stats Stats
}

// Generate writes the complete script for t to w.
func Generate(w io.Writer, t *tds.TDS) (Stats, error) {
	g := &generator{
		w: bufio.NewWriter(w),
		t: t,
		r: t.Resolver(),
	}

	g.w.WriteString(Preamble)
	g.w.WriteString(ps10Initializers)

	g.types()
	g.symbols()
	g.sources()

	g.w.WriteString("refresh_idaview_anyway()\n")

	// bufio.Writer keeps the first write error.
	if err := g.w.Flush(); err != nil {
		return g.stats, tdserr.IO(tdserr.PhaseGenerate, t.Name, "failed to write script", err)
	}

	tds.Logger().Info("script generated",
		zap.String("file", t.Name),
		zap.Int("structs", g.stats.Structs),
		zap.Int("enums", g.stats.Enums),
		zap.Int("functions", g.stats.Functions),
		zap.Int("data", g.stats.Data),
		zap.Int("imports", g.stats.Imports),
		zap.Int("locals", g.stats.Locals),
		zap.Int("source_files", g.stats.SourceFiles))

	return g.stats, nil
}

func (g *generator) printf(format string, args ...any) {
	fmt.Fprintf(g.w, format, args...)
}

// quote renders s as a Python string literal. Names are raw DOS bytes; each
// byte becomes the code point of the same value, so the script side can
// recover it with encode('latin-1').
func quote(s string) string {
	latin, err := charmap.ISO8859_1.NewDecoder().String(s)
	if err != nil {
		return strconv.Quote(s)
	}
	return strconv.Quote(latin)
}

func (g *generator) types() {
	typeinfo.ForEach(g.t.Types, func(index int, typ records.Type) {
		if !typ.IsStruct() && !typ.IsEnum() {
			return
		}

		name := quote(g.t.NameOf(typ.Name))

		if typ.IsEnum() {
			g.printf("enum = add_enum(BADADDR, %s, 0)\n", name)
			g.stats.Enums++
		} else {
			g.printf("struc = make_struc(%s)\n", name)
			g.stats.Structs++
		}

		for _, m := range g.t.TypeMembers(index) {
			memberName := quote(g.t.NameOf(m.Name))

			if typ.IsEnum() {
				g.printf("add_enum_member(enum, %s, %d)\n", memberName, m.Type)
				continue
			}

			g.printf("make_struc_member(struc, %s, %d, %s, %d, %d, %s)\n",
				memberName, m.Offset, quote(g.r.MemberTypeName(int(m.Type))), m.Size,
				g.r.ElementSize(int(m.Type)), g.r.MemberTypeFlags(int(m.Type)))
		}
	})

	g.w.WriteString("\n")
}

func (g *generator) symbols() {
	for i := 1; i < len(g.t.Symbols); i++ {
		if !g.t.IsGlobalSymbol(i) {
			continue
		}

		s := g.t.Symbols[i]
		name := quote(g.t.NameOf(s.Name))
		signature := quote(g.t.TypeString(int(s.Type)))

		switch g.t.SymbolKindOf(s) {
		case tds.SymbolImport:
			g.printf("make_import(%s, %s, %s)\n", quote(g.t.ImportName(s)), name, signature)
			g.stats.Imports++

		case tds.SymbolData:
			g.printf("make_data(%d, 0x%04x, %s, %s, %d)\n",
				s.Segment, s.Offset, name, signature, g.r.Size(int(s.Type)))
			g.stats.Data++

		default:
			g.printf("func = make_func(%d, 0x%04x, %s, %s)\n", s.Segment, s.Offset, name, signature)
			g.stats.Functions++

			for _, l := range g.t.LocalSymbols(i) {
				local := g.t.Symbols[l]
				g.printf("make_local(func, %d, %s, %s)\n",
					int16(local.Offset), quote(g.t.NameOf(local.Name)), quote(g.t.TypeString(int(local.Type))))
				g.stats.Locals++
			}
		}
	}

	g.w.WriteString("\n")
}

func (g *generator) sources() {
	for i := 1; i < len(g.t.Correlations); i++ {
		c := g.t.Correlations[i]
		segment, lines, start, end := g.t.CorrelationLines(c)

		for _, line := range lines {
			g.printf("make_src_line(%d, 0x%04x, %d)\n", segment, line.Offset, line.Line)
			g.stats.SourceLines++
		}

		g.printf("make_src_file(%d, 0x%04x, 0x%04x, %s)\n", segment, start, end, quote(g.t.SourceName(c)))
		g.w.WriteString("\n")
		g.stats.SourceFiles++
	}
}
