// Package camerr provides the coded error type shared by the compiler
// packages. Every fatal compile failure carries a Code so callers can tell
// configuration mistakes from bad geometry without string matching.
package camerr

import (
	"errors"
	"fmt"
)

// Code is the category of a compile failure.
type Code string

const (
	// InvalidConfiguration: non-positive feed rate, unsafe retract height,
	// stepover wider than the tool, and similar setup mistakes.
	InvalidConfiguration Code = "INVALID_CONFIGURATION"

	// InvalidArc: an arc whose start and end are not equidistant from its center.
	InvalidArc Code = "INVALID_ARC"

	// UnrecognizedSegmentKind: a vertex kind the emitter does not know.
	UnrecognizedSegmentKind Code = "UNRECOGNIZED_SEGMENT_KIND"

	// InvalidToolpath: structural problems found before emission.
	InvalidToolpath Code = "INVALID_TOOLPATH"

	// GeometryEngine: the offset query failed.
	GeometryEngine Code = "GEOMETRY_ENGINE"

	// Input: the drawing or job file could not be read.
	Input Code = "INPUT"
)

// Error is a coded compile failure.
type Error struct {
	Code    Code
	Message string

	// Curve and Vertex locate the failure in the toolpath; -1 when unknown.
	Curve  int
	Vertex int

	// Value is the offending value, if any.
	Value interface{}

	// Err wraps the underlying error.
	Err error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Code, e.Message)
	if e.Curve >= 0 {
		if e.Vertex >= 0 {
			msg = fmt.Sprintf("[%s] curve %d vertex %d: %s", e.Code, e.Curve, e.Vertex, e.Message)
		} else {
			msg = fmt.Sprintf("[%s] curve %d: %s", e.Code, e.Curve, e.Message)
		}
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *Error) Unwrap() error {
	return e.Err
}

// At sets the toolpath location of the failure.
func (e *Error) At(curve, vertex int) *Error {
	e.Curve = curve
	e.Vertex = vertex
	return e
}

// WithValue records the offending value.
func (e *Error) WithValue(v interface{}) *Error {
	e.Value = v
	return e
}

// New creates an Error with no location.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message, Curve: -1, Vertex: -1}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return New(code, fmt.Sprintf(format, args...))
}

// Wrap wraps err with a code and message.
func Wrap(err error, code Code, message string) *Error {
	e := New(code, message)
	e.Err = err
	return e
}

// Is reports whether err, or any error it wraps, is an *Error with code.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Err
	}
	return false
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// Configuration reports an invalid configuration option.
func Configuration(option string, value interface{}, reason string) *Error {
	return Newf(InvalidConfiguration, "%s = %v: %s", option, value, reason).WithValue(value)
}
