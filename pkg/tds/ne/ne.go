// Package ne implements parsing of 16-bit New Executable (NE) headers and
// locating the Turbo Debugger debug information appended to them.
package ne

// Signatures
const (
	OldSignature = 0x5A4D // "MZ"
	NewSignature = 0x454E // "NE"
)

// DebugInfoSignature is the 16-byte signature that starts the TDS block.
var DebugInfoSignature = [16]byte{
	'N', 'B', '0', '2', 0xFF, 0xFF, 0xFF, 0xFF,
	0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF,
}

// Structure sizes in bytes
const (
	OldHeaderSize = 64
	NewHeaderSize = 64
	SegmentSize   = 8
)

// Segment flags
const (
	SegmentData = 0x0001 // Clear for code segments
)

// OldHeader is the MZ header at the beginning of the file.
type OldHeader struct {
	Signature          uint16
	BytesInLastBlock   uint16
	BlocksInFile       uint16
	NumRelocs          uint16
	HeaderParagraphs   uint16
	MinExtraParagraphs uint16
	MaxExtraParagraphs uint16
	SS                 uint16
	SP                 uint16
	Checksum           uint16
	IP                 uint16
	CS                 uint16
	RelocTableOffset   uint16
	OverlayNumber      uint16
	Reserved           [32]byte
	NewHeaderOffset    uint32 // Absolute file offset of the NE header
}

// NewHeader is the NE header.
type NewHeader struct {
	Signature             uint16
	LinkerVersion         uint8
	LinkerRevision        uint8
	EntryTableOffset      uint16
	EntryTableLength      uint16
	CRC                   uint32
	Flags                 uint16
	AutoDataSegment       uint16
	InitHeapSize          uint16
	InitStackSize         uint16
	EntryPoint            uint32
	StackPoint            uint32
	SegmentCount          uint16
	ModuleReferenceCount  uint16
	NonResidentNameSize   uint16
	SegmentOffset         uint16 // Relative to NE header
	ResourceOffset        uint16 // Relative to NE header
	ResidentNameOffset    uint16 // Relative to NE header
	ModuleReferenceOffset uint16 // Relative to NE header
	ImportNameOffset      uint16 // Relative to NE header
	NonResidentNameOffset uint32 // Relative to beginning of file
	MovableEntryCount     uint16
	SectorAlignmentShift  uint16
	ResourceCount         uint16
	LoaderType            uint8 // Target OS
	Unused                [9]byte
}

// Segment is an entry of the NE segment table.
type Segment struct {
	SectorOffset   uint16 // In units of 1 << SectorAlignmentShift
	Length         uint16 // Length in file, bytes
	Flags          uint16
	AllocationSize uint16
}

// IsData reports whether the segment holds data rather than code.
func (s Segment) IsData() bool {
	return s.Flags&SegmentData != 0
}

// Executable is a loaded NE file.
// Segments[0] is a placeholder so that indices match TDS segment references.
type Executable struct {
	OldHeader       OldHeader
	NewHeader       NewHeader
	Segments        []Segment
	DebugInfoOffset int64
}

// SegmentCount returns the number of real segments.
func (e *Executable) SegmentCount() int {
	if len(e.Segments) == 0 {
		return 0
	}
	return len(e.Segments) - 1
}

// Segment returns the segment with the given 1-based index.
func (e *Executable) Segment(index int) (Segment, bool) {
	if index <= 0 || index >= len(e.Segments) {
		return Segment{}, false
	}
	return e.Segments[index], true
}

// IsDataSegment reports whether the segment with the given index is a data segment.
func (e *Executable) IsDataSegment(index int) bool {
	seg, ok := e.Segment(index)
	return ok && seg.IsData()
}

// SegmentFileOffset returns the absolute file offset of a segment's contents.
func (e *Executable) SegmentFileOffset(index int) (int64, bool) {
	seg, ok := e.Segment(index)
	if !ok || seg.SectorOffset == 0 {
		return 0, false
	}
	return int64(seg.SectorOffset) << e.NewHeader.SectorAlignmentShift, true
}
