package vpx

import (
	"errors"
	"fmt"
)

// VPX parse errors.
var (
	ErrTruncated     = errors.New("truncated data")
	ErrBadContainer  = errors.New("invalid compound file container")
	ErrMissingStream = errors.New("missing stream")
	ErrDuplicateName = errors.New("duplicate game item name")
	ErrBadRecord     = errors.New("malformed record")
)

// ParseError reports where a table file failed to parse.
type ParseError struct {
	Stream string
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	if e.Stream == "" {
		return fmt.Sprintf("vpx: %v", e.Err)
	}
	return fmt.Sprintf("vpx: %s at offset %d: %v", e.Stream, e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ReferenceError names a game item reference that does not resolve against
// the table's materials or images.
type ReferenceError struct {
	Item string
	Kind string
	Name string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("vpx: %s references unknown %s %q", e.Item, e.Kind, e.Name)
}
