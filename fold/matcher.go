// Package fold turns trace events into folded stack lines.
//
// A Matcher keeps one stack of open Begin events for the whole stream.
// Process and thread ids do not partition it, and an End closes the most
// recent Begin whatever its name.  Each End produces
//
//	outer;...;inner <duration>
//
// where the path lists the stack from bottom to top, including the frame
// being closed.  Complete events produce
//
//	name detail <duration>
//
// with an empty detail when the event carries none.
package fold

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/signadot/foldtrace/event"
	"github.com/signadot/foldtrace/stream"
)

type frame struct {
	name string
	ts   uint64
}

// Matcher matches Begin and End events and writes folded lines.
type Matcher struct {
	w     io.Writer
	log   *slog.Logger
	stack []frame
	path  strings.Builder
}

// Option configures a Matcher.
type Option func(*Matcher)

// WithLogger sets the logger used for debug output.
func WithLogger(l *slog.Logger) Option {
	return func(m *Matcher) {
		m.log = l
	}
}

// NewMatcher creates a Matcher writing folded lines to w.
func NewMatcher(w io.Writer, opts ...Option) *Matcher {
	m := &Matcher{w: w}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = slog.New(slog.DiscardHandler)
	}
	return m
}

// Process applies one event.
func (m *Matcher) Process(ev *event.Event) error {
	switch ev.Phase {
	case event.PhaseBegin:
		m.stack = append(m.stack, frame{name: ev.Name, ts: ev.Timestamp})
		return nil
	case event.PhaseEnd:
		return m.end(ev)
	case event.PhaseComplete:
		if ev.Duration == nil {
			return fmt.Errorf("%s event %q has no duration", ev.Phase, ev.Name)
		}
		_, err := fmt.Fprintf(m.w, "%s %s %d\n", ev.Name, ev.Detail(), *ev.Duration)
		return err
	default:
		return nil
	}
}

func (m *Matcher) end(ev *event.Event) error {
	n := len(m.stack)
	if n == 0 {
		m.log.Debug("unmatched end", "name", ev.Name, "ts", ev.Timestamp)
		return nil
	}
	m.path.Reset()
	for i := range m.stack {
		if i > 0 {
			m.path.WriteByte(';')
		}
		m.path.WriteString(m.stack[i].name)
	}
	top := m.stack[n-1]
	m.stack = m.stack[:n-1]
	if ev.Timestamp < top.ts {
		return &OrderError{Path: m.path.String(), Begin: top.ts, End: ev.Timestamp}
	}
	_, err := fmt.Fprintf(m.w, "%s %d\n", m.path.String(), ev.Timestamp-top.ts)
	return err
}

// Run processes every event from r until io.EOF.
func (m *Matcher) Run(r stream.EventReader) error {
	for {
		ev, err := r.ReadEvent()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := m.Process(ev); err != nil {
			return err
		}
	}
}

// Depth returns the number of open Begin events.
func (m *Matcher) Depth() int {
	return len(m.stack)
}

// Open returns the names of open Begin events, outermost first.
func (m *Matcher) Open() []string {
	res := make([]string, len(m.stack))
	for i, f := range m.stack {
		res[i] = f.name
	}
	return res
}

// Finish discards any open Begin events.  They produce no output.
func (m *Matcher) Finish() {
	if len(m.stack) > 0 {
		m.log.Debug("discarding unmatched begins", "depth", len(m.stack), "open", strings.Join(m.Open(), ";"))
	}
	m.stack = m.stack[:0]
}
