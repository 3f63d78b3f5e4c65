// Package voice carries Voice Input events: transcripts recognised from the
// microphone (or typed equivalents) and recognition failures.
package voice

import (
	"bufio"
	"context"
	"io"
	"strings"
)

// Event is one result from a voice input source. A non-nil Err is a
// recognition failure; Transcript is empty in that case.
type Event struct {
	Source     string
	Transcript string
	Err        error
}

// Failed reports whether the event is a recognition failure.
func (e Event) Failed() bool { return e.Err != nil }

// Lines reads newline-separated transcripts from r and emits one event per
// non-blank line. The channel is closed when r is exhausted or ctx ends. A
// read error other than EOF is emitted as a final failure event.
func Lines(ctx context.Context, source string, r io.Reader) <-chan Event {
	out := make(chan Event)
	go func() {
		defer close(out)
		sc := bufio.NewScanner(r)
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line == "" {
				continue
			}
			if !send(ctx, out, Event{Source: source, Transcript: line}) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			send(ctx, out, Event{Source: source, Err: err})
		}
	}()
	return out
}

func send(ctx context.Context, out chan<- Event, ev Event) bool {
	select {
	case out <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
