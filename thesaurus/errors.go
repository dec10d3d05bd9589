package thesaurus

import (
	"errors"
	"fmt"
)

// ErrEmptySource is returned when the source document is well-formed but
// contains no concept subjects at all.
var ErrEmptySource = errors.New("no concept subjects found in source document")

// ParseError means the source document is not well-formed RDF/XML. Offset is
// the byte position the decoder had reached when it gave up.
type ParseError struct {
	Path   string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed RDF document %s at byte offset %d: %v", e.Path, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// WriteError means an output artifact could not be written. The run aborts
// without leaving a partial file at Path.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("could not write output file %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}
