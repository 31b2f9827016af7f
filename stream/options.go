package stream

import "fmt"

// Mode selects the layout of top-level values in a stream.
type Mode int

const (
	// ArrayMode reads a sequence of JSON arrays of events.
	ArrayMode Mode = iota
	// ObjectMode reads a sequence of JSON objects with a "traceEvents" array.
	ObjectMode
)

func (m Mode) String() string {
	switch m {
	case ArrayMode:
		return "array"
	case ObjectMode:
		return "object"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// StreamOption configures Decoder behavior.
type StreamOption func(*streamOpts)

type streamOpts struct {
	mode Mode
}

// WithMode sets the layout of top-level values.
func WithMode(m Mode) StreamOption {
	return func(opts *streamOpts) {
		opts.mode = m
	}
}

// WithObjects selects ObjectMode.
func WithObjects() StreamOption {
	return WithMode(ObjectMode)
}
