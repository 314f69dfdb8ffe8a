package records

import (
	"bufio"
	"io"
	"strings"

	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
)

// NamePool is the ordered string table referenced by index from every other
// table. Index 0 is the empty name. Entries may be appended or rewritten but
// never removed, so indices stay stable.
type NamePool struct {
	names []string
}

// NewNamePool creates a pool holding the given names after the empty entry 0.
func NewNamePool(names ...string) *NamePool {
	p := &NamePool{names: make([]string, 1, len(names)+1)}
	p.names = append(p.names, names...)
	return p
}

// LoadNames reads NUL-terminated names until an empty name or end of file.
// A name cut short by end of file is not part of the pool.
func LoadNames(f *rawfile.File, hint uint16) *NamePool {
	p := &NamePool{names: make([]string, 1, int(hint)+1)}

	var name strings.Builder
	for {
		name.Reset()

		for {
			ch, err := f.ReadByte()
			if err != nil || ch == 0 {
				break
			}
			name.WriteByte(ch)
		}

		if name.Len() == 0 || f.AtEOF() {
			break
		}

		p.names = append(p.names, name.String())
	}

	return p
}

// Len returns the number of entries including the empty entry 0.
func (p *NamePool) Len() int {
	return len(p.names)
}

// Name returns the name at index, or "" when index is out of range.
func (p *NamePool) Name(index int) string {
	if index < 0 || index >= len(p.names) {
		return ""
	}
	return p.names[index]
}

// Valid reports whether index refers to an entry of the pool.
func (p *NamePool) Valid(index int) bool {
	return index >= 0 && index < len(p.names)
}

// Add appends a name and returns its index.
func (p *NamePool) Add(name string) uint16 {
	p.names = append(p.names, name)
	return uint16(len(p.names) - 1)
}

// Set rewrites the name at index in place.
func (p *NamePool) Set(index int, name string) {
	if index > 0 && index < len(p.names) {
		p.names[index] = name
	}
}

// Index returns the first index holding name.
func (p *NamePool) Index(name string) (int, bool) {
	for i, n := range p.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Names returns the pool entries, including the empty entry 0.
func (p *NamePool) Names() []string {
	return p.names
}

// WriteTo writes entries 1..n as NUL-terminated strings, the layout LoadNames reads.
func (p *NamePool) WriteTo(w io.Writer) (int64, error) {
	bw := bufio.NewWriter(w)

	var n int64
	for _, name := range p.names[1:] {
		written, err := bw.WriteString(name)
		n += int64(written)
		if err != nil {
			return n, err
		}
		if err := bw.WriteByte(0); err != nil {
			return n, err
		}
		n++
	}

	return n, bw.Flush()
}
