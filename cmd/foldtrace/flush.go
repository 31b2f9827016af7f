package main

import (
	"bufio"
	"fmt"

	"github.com/signadot/foldtrace/event"
	"github.com/signadot/foldtrace/stream"
)

type pendingReader interface {
	stream.EventReader
	Pending() int
}

// flushReader flushes w whenever the next event has to come from the
// underlying input, so output is not held back while a slow input such
// as a pipe is read.
type flushReader struct {
	r pendingReader
	w *bufio.Writer
}

func (f *flushReader) ReadEvent() (*event.Event, error) {
	if f.r.Pending() == 0 && f.w.Buffered() > 0 {
		if err := f.w.Flush(); err != nil {
			return nil, fmt.Errorf("error writing output: %w", err)
		}
	}
	return f.r.ReadEvent()
}
