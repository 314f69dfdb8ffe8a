// Package records provides the fixed-size record tables of a Turbo Debugger
// Symbols (TDS) block.
//
// All structures are packed to a 1-byte boundary and little endian. Every
// table is 1-based: element 0 is a zero placeholder, so index 0 means "absent"
// throughout the cross references.
package records

import (
	"encoding/binary"
)

// Header is the fixed TDS header that follows the debug information signature.
type Header struct {
	Magic   uint16
	Version uint16

	PoolSize uint32

	NameCount         uint16
	TypeCount         uint16
	MemberCount       uint16
	SymbolCount       uint16
	GlobalSymbolCount uint16
	ModuleCount       uint16
	LocalSymbolCount  uint16
	ScopeCount        uint16
	LineCount         uint16
	SourceCount       uint16
	SegmentCount      uint16
	CorrelationCount  uint16
	Unused1           [11]byte

	DataCount uint16 // Bytes of unmodeled data preceding the name pool
	Unused2   [3]byte

	ClassCount         uint16
	GlobalClassCount   uint16
	ParentEntryCount   uint16
	OverloadEntryCount uint16
	ScopeClassCount    uint16
	ModuleClassCount   uint16
	CoverageCount      uint16
	Unused3            [2]byte
}

// HeaderSize is the size of Header in bytes.
const HeaderSize = 64

// Symbol is an entry of the symbol table.
type Symbol struct {
	Name    uint16
	Type    uint16
	Offset  uint16 // Name index of the import for imported symbols
	Segment uint16 // 0 for stack and limit symbols, ImportFlag for imports
	Flags   uint8
}

// Symbol segment bits
const (
	ImportFlag    = 0x4000
	OrdinalMask   = 0x3FFF
	PseudoSegment = 0
)

// IsImport reports whether the symbol refers to an imported entry.
func (s Symbol) IsImport() bool {
	return s.Segment&ImportFlag != 0
}

// Ordinal returns the import ordinal bits of the segment field.
func (s Symbol) Ordinal() uint16 {
	return s.Segment & OrdinalMask
}

// IsPseudo reports whether the symbol is a stack or value limit entry.
func (s Symbol) IsPseudo() bool {
	return s.Segment == PseudoSegment && s.Offset == 0
}

// Module is an entry of the module table.
type Module struct {
	Name     uint16
	Language uint8
	Flags    uint8

	SymbolIndex uint16
	SymbolCount uint16

	SourceIndex uint16
	SourceCount uint16

	CorrelationIndex uint16
	CorrelationCount uint16
}

// Source is an entry of the source file table.
type Source struct {
	Name uint16
	Date uint32
}

// Line maps a source line to a code offset.
type Line struct {
	Line   uint16
	Offset uint16
}

// Scope describes the locals of a function or block.
type Scope struct {
	Index uint16 // First local symbol
	Count uint16

	ParentScope uint16
	Symbol      uint16 // Owning function symbol

	Offset uint16
	Length uint16
}

// Segment is a TDS segment entry, distinct from executable segments.
type Segment struct {
	ModuleIndex      uint16
	CodeSegment      uint16
	CodeOffset       uint16
	CodeLength       uint16
	ScopeIndex       uint16
	ScopeCount       uint16
	CorrelationIndex uint16
	CorrelationCount uint16
}

// Correlation links a code segment, a source file and a run of lines.
type Correlation struct {
	SegmentIndex uint16
	FileIndex    uint16
	LineIndex    uint16
	LineCount    uint16
}

// Member is an entry of the struct/enum member table.
// For enum members Type holds the member value.
type Member struct {
	Info uint8
	Name uint16
	Type uint16
}

// Member info flags
const (
	MemberNewOffset = 0x40 // Variant record boundary
	MemberEndOfType = 0x80 // Last member of the type
)

// ScopeClass is an entry of the scope class table.
type ScopeClass struct {
	Index uint16
	Count uint16
}

// ModuleClass is an entry of the module class table.
type ModuleClass struct {
	ClassIndex uint16
	ClassCount uint16

	OverloadIndex uint16
	OverloadCount uint16
}

// Type is an entry of the type table. The meaning of RecordByte and
// RecordWord depends on ID; some kinds are followed by an extended slot.
type Type struct {
	ID         uint8
	Name       uint16
	Size       uint16
	RecordByte uint8
	RecordWord uint16
}

// TypeSize is the size of Type in bytes.
const TypeSize = 8

// Type IDs referenced by the loader and generators
const (
	TypeVoid         = 0x00
	TypePascalString = 0x03
	TypeInt8         = 0x04
	TypeInt16        = 0x05
	TypeInt32        = 0x06
	TypeInt64        = 0x07
	TypeUint8        = 0x08
	TypeUint16       = 0x09
	TypeUint32       = 0x0A
	TypeUint64       = 0x0B
	TypePascalChar   = 0x0C
	TypeFloat        = 0x0D
	TypePascalReal   = 0x0E
	TypeDouble       = 0x0F
	TypeLongDouble   = 0x10
	TypeFarPointer   = 0x16
	TypeFar386       = 0x19
	TypeArray        = 0x1C
	TypeStruct       = 0x1E
	TypeEnum         = 0x29
	TypeFunction     = 0x23
	TypeFarReference = 0x35
)

// Raw returns the packed 8-byte representation of the record.
func (t Type) Raw() [TypeSize]byte {
	var raw [TypeSize]byte
	raw[0] = t.ID
	binary.LittleEndian.PutUint16(raw[1:], t.Name)
	binary.LittleEndian.PutUint16(raw[3:], t.Size)
	raw[5] = t.RecordByte
	binary.LittleEndian.PutUint16(raw[6:], t.RecordWord)
	return raw
}

// TypeFromRaw decodes a packed 8-byte type record.
func TypeFromRaw(raw [TypeSize]byte) Type {
	return Type{
		ID:         raw[0],
		Name:       binary.LittleEndian.Uint16(raw[1:]),
		Size:       binary.LittleEndian.Uint16(raw[3:]),
		RecordByte: raw[5],
		RecordWord: binary.LittleEndian.Uint16(raw[6:]),
	}
}

// ExtendedSlot builds an extended type slot holding four 16-bit words.
func ExtendedSlot(words [4]uint16) Type {
	var raw [TypeSize]byte
	for i, w := range words {
		binary.LittleEndian.PutUint16(raw[i*2:], w)
	}
	return TypeFromRaw(raw)
}

// Word returns the index-th 16-bit word of the raw record.
func (t Type) Word(index int) uint16 {
	raw := t.Raw()
	return binary.LittleEndian.Uint16(raw[index*2:])
}

// DoubleWord returns the index-th 32-bit word of the raw record.
func (t Type) DoubleWord(index int) uint32 {
	raw := t.Raw()
	return binary.LittleEndian.Uint32(raw[index*4:])
}

// QuadWord returns the raw record as a single 64-bit value.
func (t Type) QuadWord() uint64 {
	raw := t.Raw()
	return binary.LittleEndian.Uint64(raw[:])
}

// IsBasic reports whether the type is void or a basic numeric type.
func (t Type) IsBasic() bool {
	return t.ID == TypeVoid || (t.ID >= TypeInt8 && t.ID <= TypePascalChar)
}

// IsArray reports whether the type is a C array.
func (t Type) IsArray() bool {
	return t.ID == TypeArray
}

// IsStruct reports whether the type is a struct.
func (t Type) IsStruct() bool {
	return t.ID == TypeStruct
}

// IsEnum reports whether the type is an enum.
func (t Type) IsEnum() bool {
	return t.ID == TypeEnum
}

// HasExtendedTypeInfo reports whether the next table slot holds auxiliary
// data for this type rather than an independent type.
func (t Type) HasExtendedTypeInfo() bool {
	return t.IsBasic() || t.IsArray() || t.IsEnum()
}

// ArrayElementType returns the element type index stored in the extended
// slot of an array type.
func ArrayElementType(extended Type) uint16 {
	return extended.Word(0)
}

// EnumFirstMember returns the first member index stored in the extended slot
// of an enum type.
func EnumFirstMember(extended Type) uint16 {
	return extended.Word(2)
}
