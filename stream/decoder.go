package stream

import (
	"errors"
	"io"

	"github.com/segmentio/encoding/json"
	"github.com/signadot/foldtrace/event"
)

// EventReader provides events from a source.
type EventReader interface {
	ReadEvent() (*event.Event, error)
}

// Decoder reads trace events from a stream of top-level JSON values.
// Only one top-level value is held in memory at a time.
type Decoder struct {
	dec  *json.Decoder
	opts *streamOpts

	// events of the current value not yet returned
	pending []*event.Event

	values int
	events int
	err    error
}

// NewDecoder creates a new Decoder reading from r.
func NewDecoder(r io.Reader, opts ...StreamOption) *Decoder {
	streamOpts := &streamOpts{}
	for _, opt := range opts {
		opt(streamOpts)
	}
	return &Decoder{
		dec:  json.NewDecoder(r),
		opts: streamOpts,
	}
}

// Mode returns the layout the decoder reads.
func (d *Decoder) Mode() Mode {
	return d.opts.mode
}

// ReadEvent returns the next event in the stream.  It returns io.EOF
// once every top-level value has been consumed.  Any other error is
// sticky: subsequent calls return it again.
func (d *Decoder) ReadEvent() (*event.Event, error) {
	if d.err != nil {
		return nil, d.err
	}
	for len(d.pending) == 0 {
		if err := d.readValue(); err != nil {
			d.err = err
			return nil, err
		}
	}
	ev := d.pending[0]
	d.pending = d.pending[1:]
	d.events++
	return ev, nil
}

// Pending returns the number of events of the current top-level value
// that have been decoded but not yet returned.  When it is zero the next
// call to ReadEvent reads from the underlying reader.
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// readValue decodes the next top-level value into the pending buffer.
// Every event of the value is checked before any of them is returned, so
// a value with one bad event yields no events at all.
func (d *Decoder) readValue() error {
	var (
		evs *[]wireEvent
		err error
	)
	switch d.opts.mode {
	case ObjectMode:
		var top *wireTop
		err = d.dec.Decode(&top)
		if err == nil {
			if top == nil {
				err = ErrShape
			} else if top.TraceEvents == nil {
				err = missingField("traceEvents")
			}
		}
		if err == nil {
			evs = top.TraceEvents
		}
	default:
		err = d.dec.Decode(&evs)
		if err == nil && evs == nil {
			err = ErrShape
		}
	}
	if errors.Is(err, io.EOF) {
		return io.EOF
	}
	d.values++
	if err != nil {
		return &DecodeError{Value: d.values - 1, Event: -1, Err: err}
	}
	pending := make([]*event.Event, 0, len(*evs))
	for i := range *evs {
		ev, err := (*evs)[i].toEvent()
		if err != nil {
			return &DecodeError{Value: d.values - 1, Event: i, Err: err}
		}
		pending = append(pending, ev)
	}
	d.pending = pending
	return nil
}

// Values returns the number of top-level values read so far.
func (d *Decoder) Values() int {
	return d.values
}

// Events returns the number of events returned so far.
func (d *Decoder) Events() int {
	return d.events
}

// Reset resets the decoder to read from a new reader.
func (d *Decoder) Reset(r io.Reader, opts ...StreamOption) {
	streamOpts := &streamOpts{}
	for _, opt := range opts {
		opt(streamOpts)
	}
	d.dec = json.NewDecoder(r)
	d.opts = streamOpts
	d.pending = nil
	d.values = 0
	d.events = 0
	d.err = nil
}
