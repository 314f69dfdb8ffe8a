package tds

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/openchasm/tds2ida/pkg/tds/records"
	"github.com/openchasm/tds2ida/pkg/tds/typeinfo"
)

// ReservedNames clash with register names or constants of the disassembler
// and are prefixed with '$'.
var ReservedNames = map[string]struct{}{
	"VGA": {}, // "failed to add constant VGA=9"
	"AX":  {}, "BX": {}, "CX": {}, "DX": {},
	"BP": {}, "SI": {}, "DI": {},
	"CS": {}, "DS": {}, "ES": {}, "SS": {},
	"AH": {}, "AL": {}, "BH": {}, "BL": {},
	"CH": {}, "CL": {}, "DH": {}, "DL": {},
}

// Suffixes of synthesized type names
const (
	typeSuffix    = "$Type"
	elementSuffix = "$Element"
)

func (t *TDS) renameReservedWords() {
	renamed := 0
	for i, name := range t.Names.Names() {
		if _, ok := ReservedNames[name]; ok {
			t.Names.Set(i, "$"+name)
			renamed++
		}
	}

	if renamed > 0 {
		Logger().Debug("reserved names escaped", zap.Int("count", renamed))
	}
}

// makeGlobalSymbolsUnique renames global symbols whose name was already taken
// by an earlier global. Locals may share names across scopes.
func (t *TDS) makeGlobalSymbolsUnique() {
	seen := make(map[string]struct{})

	for i := 1; i < len(t.Symbols); i++ {
		if !t.IsGlobalSymbol(i) {
			continue
		}

		symbol := &t.Symbols[i]
		name := t.NameOf(symbol.Name)

		if _, dup := seen[name]; dup {
			var unique string
			for counter := 0; ; counter++ {
				unique = fmt.Sprintf("%s$%d", name, counter)
				if _, taken := seen[unique]; !taken {
					break
				}
			}

			symbol.Name = t.Names.Add(unique)
			seen[unique] = struct{}{}

			Logger().Debug("global symbol renamed",
				zap.Int("symbol", i), zap.String("from", name), zap.String("to", unique))
		}

		seen[name] = struct{}{}
	}
}

// assignMissingTypeNames names anonymous structs and enums after the first
// symbol, then member, that uses them directly or as an array element.
func (t *TDS) assignMissingTypeNames() {
	typeinfo.ForEach(t.Types, func(index int, typ records.Type) {
		if typ.Name != 0 || !(typ.IsStruct() || typ.IsEnum()) {
			return
		}

		name := findNameForType(t, t.Symbols, index)
		if name == "" {
			name = findNameForType(t, t.Members, index)
		}

		if name != "" {
			t.Types[index].Name = t.Names.Add(name)
			Logger().Debug("anonymous type named", zap.Int("type", index), zap.String("name", name))
		}
	})
}

// typedEntry is a table entry with a name and a type reference.
type typedEntry interface {
	records.Symbol | records.Member
}

func entryRefs[E typedEntry](e E) (name, typ uint16) {
	switch v := any(e).(type) {
	case records.Symbol:
		return v.Name, v.Type
	case records.Member:
		return v.Name, v.Type
	}
	return 0, 0
}

func findNameForType[E typedEntry](t *TDS, entries []E, typeIndex int) string {
	for i := 1; i < len(entries); i++ {
		name, typ := entryRefs(entries[i])

		if int(typ) == typeIndex {
			return t.NameOf(name) + typeSuffix
		}

		if int(typ) >= len(t.Types) {
			continue
		}

		if ref := t.Types[typ]; ref.IsArray() && int(ref.RecordWord) == typeIndex {
			return t.NameOf(name) + elementSuffix
		}
	}
	return ""
}
