package tds

import (
	"strings"

	"go.uber.org/zap"

	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

// Overrides for PS10.EXE, where the anonymous type naming heuristic picks
// wrong names. They only apply when the artifacts below are present.
const (
	ps10GuessedName    = "A$Type"
	ps10PointName      = "$PPoint"
	ps10FreeVertexName = "Free_vert$Element"
	ps10FreeVertexSize = 4
)

func (t *TDS) applyPS10Compat() {
	if i, ok := t.Names.Index(ps10GuessedName); ok {
		t.Names.Set(i, ps10PointName)
		Logger().Debug("compat name override", zap.String("from", ps10GuessedName), zap.String("to", ps10PointName))
	}

	typeinfo.ForEach(t.Types, func(index int, typ records.Type) {
		if typ.Name != 0 || !typ.IsStruct() || typ.Size != ps10FreeVertexSize {
			return
		}
		t.Types[index].Name = t.Names.Add(ps10FreeVertexName)
		Logger().Debug("compat type name", zap.Int("type", index), zap.String("name", ps10FreeVertexName))
	})
}

// Path prefixes of the PS10.EXE build tree removed from source file names.
var ps10SourcePrefixes = []string{
	`CHASM.SRC\`,
	`\BP\PROPAS\`,
}

func stripSourcePrefixes(name string) string {
	for _, prefix := range ps10SourcePrefixes {
		name = strings.Replace(name, prefix, "", 1)
	}
	return name
}
