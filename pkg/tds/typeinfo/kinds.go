package typeinfo

// kindNames are the TDUMP names of type IDs 0x00-0x3F.
var kindNames = [...]string{
	"void",
	"BASIC literal string",
	"BASIC dynamic string",
	"PASCAL string",
	"signed char",
	"signed int",
	"signed long",
	"signed quad",
	"unsigned char",
	"unsigned int",
	"unsigned long",
	"unsigned quad",
	"PASCAL character",
	"float",
	"PASCAL 6-byte real",
	"double",
	"long double",
	"4-byte BCD",
	"8-byte BCD",
	"10-byte BCD",
	"cobol BCD",
	"near pointer ",
	"far pointer ",
	"segment pointer ",
	"near386",
	"far386",
	"c array",
	"very large array",
	"PASCAL array",
	"BASIC array descriptor",
	"struct",
	"union",
	"very large struct",
	"very large union",
	"enum",
	"function ",
	"label",
	"set",
	"PASCAL text file",
	"PASCAL binary file",
	"PASCAL boolean",
	"PASCAL enum",
	"raw pword",
	"raw tbyte",
	"prototype",
	"special function",
	"class",
	"-- Unknown type 2F --",
	"handle pointer",
	"-- Unknown type 31 --",
	"-- Unknown type 32 --",
	"member pointer",
	"near reference pointer ",
	"far reference pointer ",
	"Word Boolean",
	"Long Boolean",
	"new member ptr",
	"-- Unknown type 39 --",
	"-- Unknown type 3A --",
	"-- Unknown type 3B --",
	"-- Unknown type 3C --",
	"-- Unknown type 3D --",
	"Global Handle",
	"Local Handle",
}

// BadTypeID is the name of type IDs outside the known table.
const BadTypeID = "Bad Type ID"

// KindName returns the TDUMP name for a type ID.
func KindName(id uint8) string {
	if int(id) < len(kindNames) {
		return kindNames[id]
	}
	return BadTypeID
}

// memoryModels are indexed by the low three bits of a function's RecordByte.
var memoryModels = [8]string{
	"near C ",
	"near PASCAL ",
	"-- unused lang 2 -- ",
	"interrupt ",
	"far C ",
	"far PASCAL ",
	"-- unused lang 6 -- ",
	"interrupt ",
}

// Function RecordByte bits
const (
	FunctionNested  = 0x40
	FunctionVarargs = 0x80
)

// fullRanges are the extended-slot values of unbounded integer types.
var fullRanges = map[uint8]uint64{
	0x04: 0x0000007FFFFFFF80, // int8_t
	0x05: 0x00007FFFFFFF8000, // int16_t
	0x06: 0x7FFFFFFF80000000, // int32_t
	0x08: 0x000000FF00000000, // uint8_t
	0x09: 0x0000FFFF00000000, // uint16_t
	0x0A: 0xFFFFFFFF00000000, // uint32_t
}

// FullRange returns the unbounded range constant for a bounded integer kind.
func FullRange(id uint8) (uint64, bool) {
	r, ok := fullRanges[id]
	return r, ok
}
