package ne

import (
	"errors"
	"fmt"
	"io"

	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
	"github.com/openchasm/tds2ida/pkg/tds/tdserr"
)

// Validation errors
var (
	ErrNotExecutable     = errors.New("not an executable file")
	ErrNotNewExecutable  = errors.New("not a new executable file")
	ErrNoDebugInfo       = errors.New("no segment to locate debug information")
	ErrBadDebugSignature = errors.New("unknown debug information header")
)

// Load reads the MZ and NE headers and the segment table, then positions f
// right after the debug information signature.
func Load(f *rawfile.File) (*Executable, error) {
	exe := &Executable{}

	if err := exe.loadOldHeader(f); err != nil {
		return nil, err
	}
	if err := exe.loadNewHeader(f); err != nil {
		return nil, err
	}
	if err := exe.loadSegments(f); err != nil {
		return nil, err
	}
	if err := exe.loadDebugInfo(f); err != nil {
		return nil, err
	}

	return exe, nil
}

func (e *Executable) loadOldHeader(f *rawfile.File) error {
	if err := f.ReadStruct(&e.OldHeader); err != nil {
		return tdserr.Read(tdserr.PhaseExecutable, f.Name(), "failed to read old executable header", err)
	}

	if e.OldHeader.Signature != OldSignature {
		return tdserr.Format(tdserr.PhaseExecutable, f.Name(),
			fmt.Sprintf("invalid MZ signature 0x%04x", e.OldHeader.Signature), ErrNotExecutable)
	}

	return nil
}

func (e *Executable) loadNewHeader(f *rawfile.File) error {
	if err := f.Seek(int64(e.OldHeader.NewHeaderOffset), io.SeekStart); err != nil {
		return tdserr.IO(tdserr.PhaseExecutable, f.Name(), "failed to seek to new header offset", err)
	}

	if err := f.ReadStruct(&e.NewHeader); err != nil {
		return tdserr.Read(tdserr.PhaseExecutable, f.Name(), "failed to read new executable header", err)
	}

	if e.NewHeader.Signature != NewSignature {
		return tdserr.Format(tdserr.PhaseExecutable, f.Name(),
			fmt.Sprintf("invalid NE signature 0x%04x", e.NewHeader.Signature), ErrNotNewExecutable)
	}

	return nil
}

// loadSegments reads the segment table that immediately follows the NE header.
func (e *Executable) loadSegments(f *rawfile.File) error {
	count := int(e.NewHeader.SegmentCount)

	e.Segments = make([]Segment, 1, count+1)

	for i := 0; i < count; i++ {
		var seg Segment
		if err := f.ReadStruct(&seg); err != nil {
			return tdserr.Read(tdserr.PhaseExecutable, f.Name(),
				fmt.Sprintf("failed to read segment %d of %d", i+1, count), err)
		}
		e.Segments = append(e.Segments, seg)
	}

	return nil
}

// loadDebugInfo seeks past the last segment stored in the file and checks the
// debug information signature there.
func (e *Executable) loadDebugInfo(f *rawfile.File) error {
	offset, ok := e.debugInfoOffset()
	if !ok {
		return tdserr.Format(tdserr.PhaseDebugInfo, f.Name(), "failed to locate TDS", ErrNoDebugInfo)
	}
	e.DebugInfoOffset = offset

	if err := f.Seek(offset, io.SeekStart); err != nil {
		return tdserr.IO(tdserr.PhaseDebugInfo, f.Name(), "failed to seek to TDS", err)
	}

	var signature [16]byte
	if err := f.ReadFull(signature[:]); err != nil {
		return tdserr.Read(tdserr.PhaseDebugInfo, f.Name(), "failed to read debug information header", err)
	}

	if signature != DebugInfoSignature {
		return tdserr.Format(tdserr.PhaseDebugInfo, f.Name(),
			fmt.Sprintf("signature %q at offset 0x%x", signature[:4], offset), ErrBadDebugSignature)
	}

	return nil
}

func (e *Executable) debugInfoOffset() (int64, bool) {
	for i := len(e.Segments) - 1; i > 0; i-- {
		seg := e.Segments[i]
		if seg.SectorOffset > 0 && seg.Length > 0 {
			return int64(seg.SectorOffset)<<e.NewHeader.SectorAlignmentShift + int64(seg.Length), true
		}
	}
	return 0, false
}

// SegmentData reads the stored contents of the segment with the given index.
func (e *Executable) SegmentData(f *rawfile.File, index int) ([]byte, error) {
	seg, ok := e.Segment(index)
	if !ok {
		return nil, fmt.Errorf("segment %d out of range [1, %d]", index, e.SegmentCount())
	}

	offset, ok := e.SegmentFileOffset(index)
	if !ok || seg.Length == 0 {
		return nil, nil
	}

	if err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to segment %d: %w", index, err)
	}

	data := make([]byte, seg.Length)
	if err := f.ReadFull(data); err != nil {
		return nil, fmt.Errorf("failed to read segment %d: %w", index, err)
	}
	return data, nil
}
