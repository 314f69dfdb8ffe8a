// Package tds provides high-level access to Turbo Debugger Symbols embedded
// in 16-bit New Executable files.
package tds

import (
	"go.uber.org/zap"

	"github.com/openchasm/tds2ida/pkg/tds/ne"
	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

// TDS is a loaded and post-processed executable with its debug information.
type TDS struct {
	Name       string
	Executable *ne.Executable
	Header     *records.Header
	*records.Tables
	Names *records.NamePool

	resolver *typeinfo.Resolver
	compat   bool

	// nameLimit is the pool length as loaded. Names added by the passes
	// below do not change which symbols count as global.
	nameLimit int
}

type options struct {
	maxDepth int
	compat   bool
}

// Option configures loading.
type Option func(*options)

// WithMaxDepth bounds recursion of type signature rendering. Zero disables the bound.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		o.maxDepth = depth
	}
}

// WithoutCompat disables the PS10.EXE specific name overrides.
func WithoutCompat() Option {
	return func(o *options) {
		o.compat = false
	}
}

// Open opens an NE file and loads its debug information.
func Open(path string, opts ...Option) (*TDS, error) {
	f, err := rawfile.Open(path)
	if err != nil {
		return nil, tdserr.IO(tdserr.PhaseOpen, path, "unable to open file", err)
	}
	defer f.Close()

	return Load(f, opts...)
}

// Load parses the executable, all TDS tables and the name pool from f, then
// runs the post-processing passes. Nothing is returned on failure.
func Load(f *rawfile.File, opts ...Option) (*TDS, error) {
	o := options{maxDepth: typeinfo.DefaultMaxDepth, compat: true}
	for _, opt := range opts {
		opt(&o)
	}

	log := Logger().With(zap.String("file", f.Name()))

	exe, err := ne.Load(f)
	if err != nil {
		return nil, err
	}
	log.Debug("executable loaded",
		zap.Int("segments", exe.SegmentCount()),
		zap.Int64("tds_offset", exe.DebugInfoOffset))

	header, err := records.ReadHeader(f)
	if err != nil {
		return nil, err
	}

	tables, err := records.LoadTables(f, header)
	if err != nil {
		return nil, err
	}
	log.Debug("tables loaded",
		zap.Uint16("symbols", header.SymbolCount),
		zap.Uint16("modules", header.ModuleCount),
		zap.Uint16("types", header.TypeCount),
		zap.Uint16("members", header.MemberCount),
		zap.Uint16("correlations", header.CorrelationCount))

	t := &TDS{
		Name:       f.Name(),
		Executable: exe,
		Header:     header,
		Tables:     tables,
		Names:      records.LoadNames(f, header.NameCount),
		compat:     o.compat,
	}
	t.nameLimit = t.Names.Len()
	log.Debug("names loaded", zap.Int("names", t.nameLimit-1), zap.Uint16("declared", header.NameCount))

	t.resolver = typeinfo.NewResolver(t.Types, t.Names)
	t.resolver.MaxDepth = o.maxDepth

	t.renameReservedWords()
	t.makeGlobalSymbolsUnique()
	t.assignMissingTypeNames()
	if o.compat {
		t.applyPS10Compat()
	}

	return t, nil
}

// Resolver returns the type signature resolver bound to this file.
func (t *TDS) Resolver() *typeinfo.Resolver {
	return t.resolver
}

// TypeString renders the type at index as a signature.
func (t *TDS) TypeString(index int) string {
	return t.resolver.TypeString(index)
}

// Walker returns a cursor over the logical types.
func (t *TDS) Walker() *typeinfo.Walker {
	return typeinfo.NewWalker(t.Types)
}

// NameOf returns the pool entry at index.
func (t *TDS) NameOf(index uint16) string {
	return t.Names.Name(int(index))
}

// IsGlobalSymbol reports whether the symbol at index is bound to a real
// segment or resolvable through the import name table. Stack and limit
// symbols have segment 0. The name index is checked against the pool as
// loaded.
func (t *TDS) IsGlobalSymbol(index int) bool {
	if index <= 0 || index >= len(t.Symbols) {
		return false
	}

	s := t.Symbols[index]
	return s.Segment != 0 &&
		(int(s.Segment) < len(t.Executable.Segments) ||
			(int(s.Offset) < t.nameLimit && s.Offset != 0))
}
