package traco

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
)

var (
	// ErrParse matches any *ParseError via errors.Is.
	ErrParse = errors.New("malformed source")
	// ErrIO matches any *IOError via errors.Is.
	ErrIO = errors.New("file access failed")
)

// ParseError reports a source that does not have the expected structure.
type ParseError struct {
	Source string // file path, empty for in-memory input
	Unit   string // "roi" or "row"; empty for document-level problems
	Index  int    // position of the offending entry, -1 when Unit is empty
	Field  string // offending key, if any
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("parse")
	if e.Source != "" {
		b.WriteString(" ")
		b.WriteString(e.Source)
	}
	if e.Unit != "" {
		fmt.Fprintf(&b, ": %s %d", e.Unit, e.Index)
	}
	if e.Field != "" {
		fmt.Fprintf(&b, ": field %q", e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error { return e.Err }

func (e *ParseError) Is(target error) bool { return target == ErrParse }

// IOError reports a source that cannot be read or a destination that cannot
// be written.
type IOError struct {
	Op   string // "read", "create", "write" or "close"
	Path string
	Err  error
}

func (e *IOError) Error() string {
	inner := e.Err
	var pe *fs.PathError
	if errors.As(inner, &pe) {
		inner = pe.Err
	}
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, inner)
}

func (e *IOError) Unwrap() error { return e.Err }

func (e *IOError) Is(target error) bool { return target == ErrIO }

// withSource stamps a file path onto a ParseError coming from an in-memory
// parser. Other errors pass through.
func withSource(err error, source string) error {
	var pe *ParseError
	if errors.As(err, &pe) && pe.Source == "" {
		pe.Source = source
	}
	return err
}
