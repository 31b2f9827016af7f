package main

import (
	"bufio"
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/signadot/foldtrace/event"
	"github.com/signadot/foldtrace/fold"
	"github.com/signadot/foldtrace/stream"
)

var quiet = slog.New(slog.DiscardHandler)

func golden(t *testing.T, name string) string {
	t.Helper()
	d, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("could not read golden file: %v", err)
	}
	return string(d)
}

func checkOutput(t *testing.T, want, got string) {
	t.Helper()
	if want == got {
		return
	}
	dmp := diffpatch.New()
	diffs := dmp.DiffMain(want, got, false)
	t.Errorf("output mismatch:\n%s", dmp.DiffPrettyText(diffs))
}

func runFile(t *testing.T, cfg *MainConfig, name string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	err := foldFile(cfg, buf, strings.NewReader(""), filepath.Join("testdata", name), quiet)
	return buf.String(), err
}

func TestFoldArrayStream(t *testing.T) {
	got, err := runFile(t, &MainConfig{}, "nested.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkOutput(t, golden(t, "nested.folded"), got)
}

func TestFoldObjectMode(t *testing.T) {
	got, err := runFile(t, &MainConfig{Object: true}, "nested.object.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkOutput(t, golden(t, "nested.folded"), got)
}

func TestFoldIdempotent(t *testing.T) {
	a, err := runFile(t, &MainConfig{}, "nested.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := runFile(t, &MainConfig{}, "nested.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkOutput(t, a, b)
}

func TestFoldEmpty(t *testing.T) {
	for _, cfg := range []*MainConfig{{}, {Object: true}} {
		got, err := runFile(t, cfg, "empty.json")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "" {
			t.Errorf("expected no output, got %q", got)
		}
	}
}

func TestFoldFilter(t *testing.T) {
	got, err := runFile(t, &MainConfig{Filter: `cat == "io"`}, "nested.json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	checkOutput(t, "load 7\nwrite 10\n", got)
}

func TestFoldBadFilter(t *testing.T) {
	_, err := runFile(t, &MainConfig{Filter: `cat ==`}, "nested.json")
	if !errors.Is(err, cli.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestFoldMissingFile(t *testing.T) {
	got, err := runFile(t, &MainConfig{}, "does-not-exist.json")
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
	if !strings.Contains(err.Error(), "could not open") {
		t.Errorf("unexpected message: %v", err)
	}
	if got != "" {
		t.Errorf("expected no output, got %q", got)
	}
}

func TestFoldDecodeError(t *testing.T) {
	got, err := runFile(t, &MainConfig{}, "bad.json")
	var de *stream.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if de.Value != 1 {
		t.Errorf("expected error in value 1, got %d", de.Value)
	}
	if !strings.Contains(err.Error(), "bad.json") {
		t.Errorf("expected file name in %q", err.Error())
	}
	checkOutput(t, "a 4\n", got)
}

func TestFoldWrongMode(t *testing.T) {
	_, err := runFile(t, &MainConfig{Object: true}, "nested.json")
	var de *stream.DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func TestFoldBackwards(t *testing.T) {
	_, err := runFile(t, &MainConfig{}, "backwards.json")
	if !errors.Is(err, fold.ErrTimestampOrder) {
		t.Fatalf("expected ordering error, got %v", err)
	}
}

func TestFoldReaderDebugLog(t *testing.T) {
	logBuf := &bytes.Buffer{}
	out := &bytes.Buffer{}
	in := strings.NewReader(`[{"ph":"E","name":"x","ts":1,"pid":1,"tid":1},{"ph":"B","name":"y","ts":2,"pid":1,"tid":1}]`)
	if err := foldReader(&MainConfig{}, out, in, nil, newLogger(logBuf, true)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
	log := logBuf.String()
	for _, frag := range []string{"unmatched end", "discarding unmatched begins", "open=y", "events=2"} {
		if !strings.Contains(log, frag) {
			t.Errorf("log %q does not contain %q", log, frag)
		}
	}
	if strings.Contains(log, "time=") {
		t.Errorf("expected time to be stripped: %q", log)
	}
}

func TestNewLoggerQuiet(t *testing.T) {
	buf := &bytes.Buffer{}
	newLogger(buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be suppressed, got %q", buf.String())
	}
}

func TestReportPlain(t *testing.T) {
	buf := &bytes.Buffer{}
	report(buf, io.ErrUnexpectedEOF)
	if got, want := buf.String(), "error: unexpected EOF\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func TestRun(t *testing.T) {
	nested := golden(t, "nested.json")
	tests := []struct {
		name  string
		args  []string
		stdin string
		usage bool
		exit  int
		out   string
		errs  []string
	}{
		{name: "no args", usage: true},
		{name: "two args", args: []string{"testdata/nested.json", "testdata/empty.json"}, usage: true},
		{name: "bad filter", args: []string{"-filter", "cat ==", "testdata/nested.json"}, usage: true},
		{
			name: "missing file",
			args: []string{"testdata/does-not-exist.json"},
			exit: 1,
			errs: []string{"error:", "could not open"},
		},
		{
			name: "decode error",
			args: []string{"testdata/bad.json"},
			exit: 1,
			out:  "a 4\n",
			errs: []string{"error:", "bad.json", "decoding value 1"},
		},
		{name: "file", args: []string{"testdata/nested.json"}, out: golden(t, "nested.folded")},
		{name: "flag after file", args: []string{"testdata/nested.object.json", "-o"}, out: golden(t, "nested.folded")},
		{name: "stdin", args: []string{"-"}, stdin: nested, out: golden(t, "nested.folded")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, errBuf := &bytes.Buffer{}, &bytes.Buffer{}
			cc := &cli.Context{
				In:  io.NopCloser(strings.NewReader(tt.stdin)),
				Out: nopCloser{out},
				Err: nopCloser{errBuf},
			}
			err := MainCommand().Run(cc, tt.args)
			switch {
			case tt.usage:
				if !errors.Is(err, cli.ErrUsage) {
					t.Fatalf("expected usage error, got %v", err)
				}
			case tt.exit != 0:
				var code cli.ExitCodeErr
				if !errors.As(err, &code) || int(code) != tt.exit {
					t.Fatalf("expected exit %d, got %v", tt.exit, err)
				}
			default:
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}
			checkOutput(t, tt.out, out.String())
			for _, frag := range tt.errs {
				if !strings.Contains(errBuf.String(), frag) {
					t.Errorf("stderr %q does not contain %q", errBuf.String(), frag)
				}
			}
		})
	}
}

type pendingStub struct {
	pending []int
	reads   int
}

func (p *pendingStub) Pending() int {
	return p.pending[p.reads]
}

func (p *pendingStub) ReadEvent() (*event.Event, error) {
	if p.reads == len(p.pending)-1 {
		return nil, io.EOF
	}
	p.reads++
	return &event.Event{Phase: event.PhaseInstant}, nil
}

func TestFlushReader(t *testing.T) {
	out := &bytes.Buffer{}
	bw := bufio.NewWriter(out)
	r := &flushReader{r: &pendingStub{pending: []int{0, 2, 1, 0, 0}}, w: bw}
	var flushed []int
	for {
		bw.WriteString("x\n")
		_, err := r.ReadEvent()
		flushed = append(flushed, out.Len())
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// output only reaches out before a read that needs new input
	if diff := cmp.Diff([]int{2, 2, 2, 8, 10}, flushed); diff != "" {
		t.Errorf("flushed bytes mismatch (-want +got):\n%s", diff)
	}
}

type failWriter struct{}

var errWrite = errors.New("write failed")

func (failWriter) Write([]byte) (int, error) { return 0, errWrite }

func TestFlushReaderWriteError(t *testing.T) {
	bw := bufio.NewWriter(failWriter{})
	bw.WriteString("x\n")
	r := &flushReader{r: &pendingStub{pending: []int{0, 0}}, w: bw}
	if _, err := r.ReadEvent(); !errors.Is(err, errWrite) {
		t.Fatalf("expected write error, got %v", err)
	}
}
