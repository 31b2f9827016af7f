package main

import (
	"github.com/scott-cotton/cli"
)

func MainCommand() *cli.Command {
	cfg := &MainConfig{}
	opts, err := cli.StructOpts(cfg)
	if err != nil {
		panic(err)
	}
	return cli.NewCommandAt(&cfg.Command, "foldtrace").
		WithSynopsis("foldtrace [opts] <trace-file>").
		WithDescription(mainDescription).
		WithOpts(opts...).
		WithRun(cfg.run)
}

const mainDescription = `foldtrace converts trace event JSON into folded stacks.

The input is a sequence of JSON arrays of trace events, or with -object a
sequence of objects each holding a "traceEvents" array.  Use '-' to read
standard input.

Each End event closes the most recent open Begin event and prints

  outer;...;inner <duration>

Each Complete ("X") event prints

  name detail <duration>

Durations are in the trace's timestamp unit (microseconds).  The output is
suitable input for flame graph tools.

Filter

-filter takes an expression over the fields ph, phase, name, cat, ts, pid,
tid, dur and detail, for example

  -filter 'cat == "v8" || ph == "X"'

Events for which the expression is false are dropped before matching.`
