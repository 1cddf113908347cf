package goadt

import (
	"errors"
	"fmt"
)

var (
	ErrTruncated            = errors.New("goadt: truncated input")
	ErrUnknownFieldType     = errors.New("goadt: unknown field type")
	ErrUnsupportedFieldType = errors.New("goadt: unsupported field type")
	ErrUnhandledFieldType   = errors.New("goadt: unhandled field type")
	ErrLengthMismatch       = errors.New("goadt: field length mismatch")
	ErrMalformedValue       = errors.New("goadt: malformed value")
	ErrOffsetMismatch       = errors.New("goadt: field start offset mismatch")
	ErrUnknownEncoding      = errors.New("goadt: unknown text encoding")
	ErrNoSuchField          = errors.New("goadt: no such field")
	ErrIndexOutOfRange      = errors.New("goadt: index out of range")
)

// FieldError reports a failure tied to one field of the schema. It unwraps
// to one of the package sentinel errors (or an I/O error).
type FieldError struct {
	Index int
	Name  string
	Type  FieldType
	Err   error
}

func (e *FieldError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("field %d (%s): %v", e.Index, e.Type, e.Err)
	}
	return fmt.Sprintf("field %d %q (%s): %v", e.Index, e.Name, e.Type, e.Err)
}

func (e *FieldError) Unwrap() error { return e.Err }
