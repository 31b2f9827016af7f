package stream

import (
	"errors"
	"fmt"

	"github.com/segmentio/encoding/json"
)

var (
	// ErrMalformed is wrapped by every error describing bad input.
	ErrMalformed = errors.New("malformed trace")
	// ErrShape means a top-level value is not an array (or, in
	// ObjectMode, not an object).
	ErrShape = fmt.Errorf("%w: unexpected value shape", ErrMalformed)
	// ErrMissingField means an event or top-level object lacks a field
	// it requires.
	ErrMissingField = fmt.Errorf("%w: missing required field", ErrMalformed)
)

// DecodeError reports a top-level value that could not be decoded.
type DecodeError struct {
	// Value is the zero-based index of the top-level JSON value.
	Value int
	// Event is the index of the offending event within Value, or -1 when
	// the value as a whole is malformed.
	Event int
	Err   error
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Error() string {
	where := fmt.Sprintf("value %d", e.Value)
	if e.Event >= 0 {
		where += fmt.Sprintf(", event %d", e.Event)
	}
	var se *json.SyntaxError
	if errors.As(e.Err, &se) {
		where += fmt.Sprintf(", offset %d", se.Offset)
	}
	return fmt.Sprintf("decoding %s: %v", where, e.Err)
}

func missingField(name string) error {
	return fmt.Errorf("%w %q", ErrMissingField, name)
}
