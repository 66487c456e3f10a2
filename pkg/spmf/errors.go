package spmf

import (
	"errors"
	"fmt"
)

// Sentinel errors returned across the wrapper.
var (
	// ErrNoInputMode is returned when no input mode was selected.
	ErrNoInputMode = errors.New("input mode not specified: use file, normal_str, text_str, normal_list or text_list")

	// ErrNoInputFile is returned when file mode is selected without a path.
	ErrNoInputFile = errors.New("input file is empty: file mode requires a path")

	// ErrInputShape is returned when raw input does not match the selected mode.
	ErrInputShape = errors.New("input does not match mode")

	// ErrUnknownMode is returned for a mode value outside the five known modes.
	ErrUnknownMode = fmt.Errorf("%w: mode must be file, normal_str, text_str, normal_list or text_list", ErrInputShape)

	// ErrIllegalArgument is returned when the external tool reports an argument error.
	ErrIllegalArgument = errors.New("java.lang.IllegalArgumentException")

	// ErrMalformedOutput is returned when a result line has no support marker to use.
	ErrMalformedOutput = errors.New("malformed output")

	// ErrExecutableNotFound is returned when spmf.jar cannot be located.
	ErrExecutableNotFound = errors.New("spmf.jar not found")
)

// LineError reports a decode failure on a specific result line.
type LineError struct {
	Line int
	Text string
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}
