package catalog

import (
	"errors"
	"fmt"
	"strings"
)

// Error kinds. Match them with errors.Is.
var (
	ErrMissingField     = errors.New("missing required field")
	ErrDuplicateID      = errors.New("duplicate id")
	ErrNotFound         = errors.New("not found")
	ErrInvalidFieldType = errors.New("invalid field type")
	ErrInvalidRating    = errors.New("invalid rating")
)

// Error carries the operation and offending id or fields of a failed call.
type Error struct {
	Op     string
	ID     string
	Fields []string
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("catalog: ")
	b.WriteString(e.Op)
	if e.ID != "" {
		fmt.Fprintf(&b, " %q", e.ID)
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	if len(e.Fields) > 0 {
		b.WriteString(" (")
		b.WriteString(strings.Join(e.Fields, ", "))
		b.WriteString(")")
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// FieldsOf returns the offending fields recorded on err, if any.
func FieldsOf(err error) []string {
	var cerr *Error
	if errors.As(err, &cerr) {
		return cerr.Fields
	}
	return nil
}
