package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/scott-cotton/cli"
	"github.com/signadot/foldtrace/filter"
	"github.com/signadot/foldtrace/fold"
	"github.com/signadot/foldtrace/stream"
)

func (cfg *MainConfig) run(cc *cli.Context, args []string) error {
	args, err := cfg.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 1 {
		return fmt.Errorf("%w: expected exactly one trace file", cli.ErrUsage)
	}
	log := newLogger(cc.Err, cfg.Verbose)
	if err := foldFile(cfg, cc.Out, cc.In, args[0], log); err != nil {
		if errors.Is(err, cli.ErrUsage) {
			return err
		}
		report(cc.Err, err)
		return cli.ExitCodeErr(1)
	}
	return nil
}

// foldFile folds the trace in file, or in stdin when file is "-".
func foldFile(cfg *MainConfig, w io.Writer, stdin io.Reader, file string, log *slog.Logger) error {
	f, err := cfg.filter()
	if err != nil {
		return err
	}
	in := stdin
	if file != "-" {
		fd, err := os.Open(file)
		if err != nil {
			return fmt.Errorf("could not open %q: %w", file, err)
		}
		defer fd.Close()
		in = fd
	}
	if err := foldReader(cfg, w, in, f, log); err != nil {
		return fmt.Errorf("error processing %s: %w", file, err)
	}
	return nil
}

func foldReader(cfg *MainConfig, w io.Writer, r io.Reader, f *filter.Filter, log *slog.Logger) error {
	bw := bufio.NewWriter(w)
	dec := stream.NewDecoder(r, cfg.streamOpts()...)
	fr := filter.NewReader(&flushReader{r: dec, w: bw}, f)
	m := fold.NewMatcher(bw, fold.WithLogger(log))
	runErr := m.Run(fr)
	// lines emitted before a failure are kept
	if err := bw.Flush(); err != nil && runErr == nil {
		runErr = fmt.Errorf("error writing output: %w", err)
	}
	log.Debug("done",
		"mode", dec.Mode(),
		"values", dec.Values(),
		"events", dec.Events(),
		"filtered", fr.Dropped(),
		"open", m.Depth())
	m.Finish()
	return runErr
}
