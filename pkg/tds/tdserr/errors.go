// Package tdserr provides the structured error type reported by the NE/TDS loader.
//
// Errors carry the load Phase in which they happened, a Kind separating I/O
// failures from format-validation failures, and the name of the file being
// processed, so a single message is enough to diagnose a failed run:
//
//	err := tdserr.New(tdserr.PhaseExecutable, tdserr.KindFormat).
//		File("PS10.EXE").
//		Detail("not a new executable file").
//		Cause(ne.ErrNotNewExecutable).
//		Build()
package tdserr

import (
	"errors"
	"strings"

	"github.com/openchasm/tds2ida/pkg/tds/rawfile"
)

// Phase indicates which load stage produced the error
type Phase string

const (
	PhaseOpen       Phase = "open"       // opening input or output
	PhaseExecutable Phase = "executable" // MZ/NE headers and segment table
	PhaseDebugInfo  Phase = "debuginfo"  // locating the TDS signature
	PhaseRecords    Phase = "records"    // TDS header and record tables
	PhaseNames      Phase = "names"      // name pool
	PhaseGenerate   Phase = "generate"   // script output
)

// Kind categorizes the error
type Kind string

const (
	KindIO     Kind = "io"     // open/read/seek/write failure
	KindFormat Kind = "format" // signature mismatch or truncated structure
)

// Error is the structured error returned by load stages
type Error struct {
	Phase  Phase
	Kind   Kind
	File   string
	Detail string
	Cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.File != "" {
		b.WriteString(" in ")
		b.WriteString(e.File)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// File sets the file name
func (b *Builder) File(name string) *Builder {
	b.err.File = name
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string) *Builder {
	b.err.Detail = msg
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// IO creates an I/O failure error
func IO(phase Phase, file, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindIO,
		File:   file,
		Detail: detail,
		Cause:  cause,
	}
}

// Format creates a format-validation failure error
func Format(phase Phase, file, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindFormat,
		File:   file,
		Detail: detail,
		Cause:  cause,
	}
}

// Read creates an error for a failed structural read. Truncated input is a
// format failure; anything else is an I/O failure.
func Read(phase Phase, file, detail string, cause error) *Error {
	if errors.Is(cause, rawfile.ErrShortRead) {
		return Format(phase, file, detail, cause)
	}
	return IO(phase, file, detail, cause)
}
