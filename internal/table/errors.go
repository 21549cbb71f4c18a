package table

import (
	"errors"
	"fmt"
)

var (
	// ErrEmpty indicates a file that produced no valid rows.
	ErrEmpty = errors.New("table: no valid rows")

	// ErrFieldCount indicates a row with fewer fields than the layout needs.
	ErrFieldCount = errors.New("table: not enough fields")

	// ErrNotNumeric indicates a field that is neither a number nor a marker.
	ErrNotNumeric = errors.New("table: field is not numeric")
)

// LineError locates a parse problem inside an input file.
type LineError struct {
	Path string
	Line int
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
