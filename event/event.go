// Package event defines trace event records in the Chrome trace event
// format and their phases.
package event

import "fmt"

// Phase is the kind of a trace event, carried on the wire as a single
// letter in the "ph" field.
type Phase int

const (
	// PhaseBegin opens a duration span ("B").
	PhaseBegin Phase = iota
	// PhaseEnd closes the most recently opened span ("E").
	PhaseEnd
	// PhaseComplete is a whole span with its own duration ("X").
	PhaseComplete
	// PhaseInstant is a point in time ("i").
	PhaseInstant
	// PhaseCounter carries counter values ("C").
	PhaseCounter
	// PhaseSample is a sampling profiler event ("P").
	PhaseSample
	// PhaseMetadata names processes and threads ("M").
	PhaseMetadata
	// PhaseMark is a navigation timing mark ("R").
	PhaseMark
	// PhaseClockSync synchronizes clock domains ("c").
	PhaseClockSync
)

var phaseCodes = [...]string{
	PhaseBegin:     "B",
	PhaseEnd:       "E",
	PhaseComplete:  "X",
	PhaseInstant:   "i",
	PhaseCounter:   "C",
	PhaseSample:    "P",
	PhaseMetadata:  "M",
	PhaseMark:      "R",
	PhaseClockSync: "c",
}

func (p Phase) String() string {
	switch p {
	case PhaseBegin:
		return "Begin"
	case PhaseEnd:
		return "End"
	case PhaseComplete:
		return "Complete"
	case PhaseInstant:
		return "Instant"
	case PhaseCounter:
		return "Counter"
	case PhaseSample:
		return "Sample"
	case PhaseMetadata:
		return "Metadata"
	case PhaseMark:
		return "Mark"
	case PhaseClockSync:
		return "ClockSync"
	default:
		return "Unknown"
	}
}

// Code returns the wire letter for p, or "" if p is not a known phase.
func (p Phase) Code() string {
	if p < 0 || int(p) >= len(phaseCodes) {
		return ""
	}
	return phaseCodes[p]
}

// ParsePhase returns the phase whose wire letter is code.
func ParsePhase(code string) (Phase, error) {
	for i, c := range phaseCodes {
		if c == code {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", code)
}

func (p Phase) MarshalText() ([]byte, error) {
	code := p.Code()
	if code == "" {
		return nil, fmt.Errorf("unknown phase %d", int(p))
	}
	return []byte(code), nil
}

func (p *Phase) UnmarshalText(d []byte) error {
	pp, err := ParsePhase(string(d))
	if err != nil {
		return err
	}
	*p = pp
	return nil
}

// Event is one trace record.
type Event struct {
	Phase    Phase
	Name     string
	Category string

	// Timestamp is in microseconds.
	Timestamp uint64
	ProcessID uint32
	ThreadID  uint32

	// Duration is in microseconds and is set only for PhaseComplete.
	Duration *uint64

	Args *Args
}

// Args holds the argument fields of an event that foldtrace reads.
// Other argument keys are dropped when decoding.
type Args struct {
	FunctionArgs string  `json:"functionArgs"`
	Location     *string `json:"location"`
	Detail       *string `json:"detail"`
}

// Detail returns the "detail" argument of e, or "" if there is none.
func (e *Event) Detail() string {
	if e.Args == nil || e.Args.Detail == nil {
		return ""
	}
	return *e.Args.Detail
}

func (e *Event) String() string {
	return fmt.Sprintf("%s %q ts=%d pid=%d tid=%d", e.Phase, e.Name, e.Timestamp, e.ProcessID, e.ThreadID)
}
