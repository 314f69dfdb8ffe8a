// Package rawfile provides buffered random-access reading of input files
// with explicit success or failure for every operation.
package rawfile

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrShortRead is returned when fewer bytes than requested were available.
var ErrShortRead = errors.New("short read")

// File is a named, buffered, seekable byte source.
// It exclusively owns the underlying handle when created with Open.
type File struct {
	name   string
	src    io.ReadSeeker
	closer io.Closer
	buf    *bufio.Reader
	pos    int64 // Logical position of the next byte returned by buf
	eof    bool
}

// Open opens the named file for reading.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	file := New(path, f)
	file.closer = f
	return file, nil
}

// New wraps an already open seekable source. The caller keeps ownership of src.
func New(name string, src io.ReadSeeker) *File {
	return &File{
		name: name,
		src:  src,
		buf:  bufio.NewReader(src),
	}
}

// Name returns the file name used in diagnostics.
func (f *File) Name() string {
	return f.name
}

// Close releases the underlying handle if the File owns it.
func (f *File) Close() error {
	if f.closer != nil {
		err := f.closer.Close()
		f.closer = nil
		return err
	}
	return nil
}

// Position returns the current read position.
func (f *File) Position() int64 {
	return f.pos
}

// ReadFull reads exactly len(buf) bytes. A short read is an error wrapping
// ErrShortRead; partially read data must not be used.
func (f *File) ReadFull(buf []byte) error {
	n, err := io.ReadFull(f.buf, buf)
	f.pos += int64(n)

	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		f.eof = true
		return fmt.Errorf("%w: got %d of %d bytes at offset 0x%x", ErrShortRead, n, len(buf), f.pos-int64(n))
	default:
		return fmt.Errorf("failed to read %d bytes: %w", len(buf), err)
	}
}

// ReadStruct decodes a fixed-size little-endian structure.
func (f *File) ReadStruct(v any) error {
	size := binary.Size(v)
	if size < 0 {
		return fmt.Errorf("cannot decode %T: not a fixed-size value", v)
	}

	data := make([]byte, size)
	if err := f.ReadFull(data); err != nil {
		return err
	}

	if err := binary.Read(bytes.NewReader(data), binary.LittleEndian, v); err != nil {
		return fmt.Errorf("failed to decode %T: %w", v, err)
	}
	return nil
}

// ReadByte reads a single byte. End of file is reported as io.EOF.
func (f *File) ReadByte() (byte, error) {
	b, err := f.buf.ReadByte()
	if err != nil {
		if err == io.EOF {
			f.eof = true
		}
		return 0, err
	}
	f.pos++
	return b, nil
}

// Seek moves the read position. Only io.SeekStart and io.SeekCurrent are supported.
func (f *File) Seek(offset int64, whence int) error {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.pos + offset
	default:
		return fmt.Errorf("unsupported seek origin %d", whence)
	}

	if target < 0 {
		return fmt.Errorf("seek to negative offset %d", target)
	}

	if _, err := f.src.Seek(target, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to offset 0x%x: %w", target, err)
	}

	f.buf.Reset(f.src)
	f.pos = target
	f.eof = false
	return nil
}

// AtEOF reports whether a read has hit end of file since the last seek.
func (f *File) AtEOF() bool {
	return f.eof
}
