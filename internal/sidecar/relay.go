package sidecar

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/notedock/notedock/internal/metrics"
)

// Relay drains the sidecar's output events and forwards each line to the
// console with a tag distinguishing the two streams, and optionally to
// rotating capture files. It applies no buffering beyond line boundaries
// and never fails the application.
type Relay struct {
	Console io.Writer
	Stdout  io.WriteCloser // optional capture for the stdout stream
	Stderr  io.WriteCloser // optional capture for the stderr stream
}

// Run consumes events until the channel closes, which happens when the
// child's pipes reach EOF. Intended to run as its own goroutine; it needs
// no cancellation signal.
func (r *Relay) Run(events <-chan Event) {
	outTag := color.New(color.FgHiBlue, color.Bold).Sprint("[server]")
	errTag := color.New(color.FgHiRed, color.Bold).Sprint("[server]")

	for ev := range events {
		metrics.IncRelayLine(string(ev.Stream))
		tag := outTag
		capture := r.Stdout
		if ev.Stream == StreamStderr {
			tag = errTag
			capture = r.Stderr
		}
		if capture != nil {
			_, _ = capture.Write([]byte(ev.Line + "\n"))
		}
		if r.Console != nil {
			_, _ = fmt.Fprintf(r.Console, "%s %s\n", tag, ev.Line)
		}
	}

	if r.Stdout != nil {
		_ = r.Stdout.Close()
	}
	if r.Stderr != nil {
		_ = r.Stderr.Close()
	}
}
