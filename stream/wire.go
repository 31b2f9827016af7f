package stream

import (
	"fmt"

	"github.com/signadot/foldtrace/event"
)

// wireTop is the object-mode wrapper, as written by trace capture tools
// that emit {"traceEvents": [...], ...}.
type wireTop struct {
	TraceEvents *[]wireEvent `json:"traceEvents"`
}

// wireEvent mirrors the JSON shape of an event.  Required fields are
// pointers so their absence can be told apart from a zero value.
type wireEvent struct {
	Args      *event.Args  `json:"args"`
	Category  string       `json:"cat"`
	Name      string       `json:"name"`
	Phase     *event.Phase `json:"ph"`
	ProcessID *uint32      `json:"pid"`
	ThreadID  *uint32      `json:"tid"`
	Timestamp *uint64      `json:"ts"`
	Duration  *uint64      `json:"dur"`
}

func (w *wireEvent) toEvent() (*event.Event, error) {
	switch {
	case w.Phase == nil:
		return nil, missingField("ph")
	case w.ProcessID == nil:
		return nil, missingField("pid")
	case w.ThreadID == nil:
		return nil, missingField("tid")
	case w.Timestamp == nil:
		return nil, missingField("ts")
	}
	if *w.Phase == event.PhaseComplete && w.Duration == nil {
		return nil, fmt.Errorf("%w on %s event %q", missingField("dur"), *w.Phase, w.Name)
	}
	return &event.Event{
		Phase:     *w.Phase,
		Name:      w.Name,
		Category:  w.Category,
		Timestamp: *w.Timestamp,
		ProcessID: *w.ProcessID,
		ThreadID:  *w.ThreadID,
		Duration:  w.Duration,
		Args:      w.Args,
	}, nil
}
