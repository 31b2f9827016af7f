package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/scott-cotton/cli"
	"github.com/signadot/foldtrace/filter"
	"github.com/signadot/foldtrace/stream"
)

type MainConfig struct {
	*cli.Command

	Object  bool   `cli:"name=object aliases=o desc='read objects with a traceEvents array'"`
	Filter  string `cli:"name=filter aliases=f desc='only fold events matching an expression'"`
	Verbose bool   `cli:"name=v desc='log debug information to stderr'"`
}

func (cfg *MainConfig) streamOpts() []stream.StreamOption {
	if cfg.Object {
		return []stream.StreamOption{stream.WithObjects()}
	}
	return nil
}

func (cfg *MainConfig) filter() (*filter.Filter, error) {
	if cfg.Filter == "" {
		return nil, nil
	}
	f, err := filter.Compile(cfg.Filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}
	return f, nil
}

// report writes err to w, in color when w is a terminal.
func report(w io.Writer, err error) {
	c := color.New(color.FgRed, color.Bold)
	c.DisableColor()
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		c.EnableColor()
	}
	c.Fprint(w, "error:")
	fmt.Fprintf(w, " %v\n", err)
}
