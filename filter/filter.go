// Package filter selects trace events with expr-lang expressions.
package filter

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/signadot/foldtrace/event"
	"github.com/signadot/foldtrace/stream"
)

// Env is the environment an expression is evaluated in.
type Env struct {
	Ph     string `expr:"ph"`
	Phase  string `expr:"phase"`
	Name   string `expr:"name"`
	Cat    string `expr:"cat"`
	Ts     uint64 `expr:"ts"`
	Pid    uint32 `expr:"pid"`
	Tid    uint32 `expr:"tid"`
	Dur    uint64 `expr:"dur"`
	Detail string `expr:"detail"`
}

func envOf(ev *event.Event) Env {
	e := Env{
		Ph:     ev.Phase.Code(),
		Phase:  ev.Phase.String(),
		Name:   ev.Name,
		Cat:    ev.Category,
		Ts:     ev.Timestamp,
		Pid:    ev.ProcessID,
		Tid:    ev.ThreadID,
		Detail: ev.Detail(),
	}
	if ev.Duration != nil {
		e.Dur = *ev.Duration
	}
	return e
}

// Filter is a compiled boolean expression over an event.
type Filter struct {
	src string
	prg *vm.Program
}

// Compile compiles src, which must evaluate to a bool.
func Compile(src string) (*Filter, error) {
	prg, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("could not compile filter %q: %w", src, err)
	}
	return &Filter{src: src, prg: prg}, nil
}

func (f *Filter) String() string {
	return f.src
}

// Match reports whether ev satisfies f.
func (f *Filter) Match(ev *event.Event) (bool, error) {
	res, err := expr.Run(f.prg, envOf(ev))
	if err != nil {
		return false, fmt.Errorf("error evaluating filter %q on %s: %w", f.src, ev, err)
	}
	b, ok := res.(bool)
	if !ok {
		return false, fmt.Errorf("filter %q returned %T, not bool", f.src, res)
	}
	return b, nil
}

// Reader passes on the events of an underlying reader that match a
// Filter.
type Reader struct {
	r       stream.EventReader
	f       *Filter
	dropped int
}

// NewReader returns a Reader reading from r.  A nil f passes every event.
func NewReader(r stream.EventReader, f *Filter) *Reader {
	return &Reader{r: r, f: f}
}

func (r *Reader) ReadEvent() (*event.Event, error) {
	for {
		ev, err := r.r.ReadEvent()
		if err != nil {
			return nil, err
		}
		if r.f == nil {
			return ev, nil
		}
		ok, err := r.f.Match(ev)
		if err != nil {
			return nil, err
		}
		if ok {
			return ev, nil
		}
		r.dropped++
	}
}

// Dropped returns the number of events that did not match.
func (r *Reader) Dropped() int {
	return r.dropped
}
