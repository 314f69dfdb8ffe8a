package typeinfo

import (
	"github.com/openchasm/tds2ida/pkg/tds/records"
)

// NoElementSize is the element size reported for non-array members.
const NoElementSize = -1

// elementType returns the element type of an array at index.
func (r *Resolver) elementType(index int) int {
	return int(records.ArrayElementType(Extended(r.types, index)))
}

// MemberTypeName returns the C type name used for a struct member of the
// given type. Arrays resolve to their element type.
func (r *Resolver) MemberTypeName(index int) string {
	for depth := 0; index >= 0 && index < len(r.types); depth++ {
		t := r.types[index]

		switch t.ID {
		case records.TypePascalString, records.TypePascalChar:
			return "char"
		case records.TypeInt8:
			return "int8_t"
		case records.TypeInt16:
			return "int16_t"
		case records.TypeInt32:
			return "int32_t"
		case records.TypeInt64:
			return "int64_t"
		case records.TypeUint8:
			return "uint8_t"
		case records.TypeUint16:
			return "uint16_t"
		case records.TypeUint32:
			return "uint32_t"
		case records.TypeUint64:
			return "uint64_t"
		case records.TypeFloat:
			return "float"
		case records.TypePascalReal:
			return "real_t"
		case records.TypeDouble:
			return "double"
		case records.TypeLongDouble:
			return "long double"
		case records.TypeArray:
			if r.exceeds(depth) {
				return ""
			}
			index = r.elementType(index)
		default:
			return r.names.Name(int(t.Name))
		}
	}
	return ""
}

// MemberTypeFlags returns the IDA data flags for a struct member of the given type.
func (r *Resolver) MemberTypeFlags(index int) string {
	for depth := 0; index >= 0 && index < len(r.types); depth++ {
		switch r.types[index].ID {
		case records.TypePascalString:
			return "FF_ASCI"
		case records.TypeInt8, records.TypeUint8, records.TypePascalChar:
			return "FF_BYTE"
		case records.TypeInt16, records.TypeUint16:
			return "FF_WORD"
		case records.TypeInt32, records.TypeUint32:
			return "FF_DWRD"
		case records.TypeInt64, records.TypeUint64:
			return "FF_QWRD"
		case records.TypeArray:
			if r.exceeds(depth) {
				return "0"
			}
			index = r.elementType(index)
		case records.TypeStruct:
			return "FF_STRU"
		default:
			return "0"
		}
	}
	return "0"
}

// ElementSize returns the element size of a member type: 1 for Pascal
// strings, the element type size for arrays, NoElementSize otherwise.
func (r *Resolver) ElementSize(index int) int {
	if index < 0 || index >= len(r.types) {
		return NoElementSize
	}

	switch r.types[index].ID {
	case records.TypePascalString:
		return 1
	case records.TypeArray:
		return int(r.Size(r.elementType(index)))
	default:
		return NoElementSize
	}
}

// Size returns the byte size of the type at index, or 0 when out of range.
func (r *Resolver) Size(index int) uint16 {
	if index < 0 || index >= len(r.types) {
		return 0
	}
	return r.types[index].Size
}

func (r *Resolver) exceeds(depth int) bool {
	return r.MaxDepth > 0 && depth >= r.MaxDepth
}
