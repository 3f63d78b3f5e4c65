package speech

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nadzzz/newsvox/internal/tts"
)

// Player speaks text by synthesizing it and handing the clip to a Sink.
// A new Speak cancels the utterance in progress.
type Player struct {
	synth  tts.Synthesizer
	sink   Sink
	events chan StatusEvent

	mu     sync.Mutex
	status Status
	cancel context.CancelFunc
	gen    uint64 // bumps on every Speak/Stop; stale goroutines compare against it
}

var _ Output = (*Player)(nil)

// NewPlayer creates a player. Status events are buffered; when the buffer is
// full new events are dropped with a warning.
func NewPlayer(synth tts.Synthesizer, sink Sink) *Player {
	return &Player{
		synth:  synth,
		sink:   sink,
		events: make(chan StatusEvent, 32),
	}
}

// Events returns the status change stream.
func (p *Player) Events() <-chan StatusEvent { return p.events }

// Status returns the current playback status.
func (p *Player) Status() Status {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Speak starts speaking text in locale in the background.
func (p *Player) Speak(text, locale string) {
	if text == "" {
		return
	}

	p.mu.Lock()
	if p.cancel != nil {
		p.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.gen++
	gen := p.gen
	p.mu.Unlock()

	go p.run(ctx, gen, text, locale)
}

func (p *Player) run(ctx context.Context, gen uint64, text, locale string) {
	res, err := p.synth.Synthesize(ctx, text, tts.SynthesizeOpts{Locale: locale})
	if err != nil {
		p.finish(gen, text, err)
		return
	}

	if !p.transition(gen, Speaking, text, nil) {
		return
	}

	err = p.sink.Play(ctx, Clip{
		Text:        text,
		Locale:      locale,
		ContentType: res.ContentType,
		Audio:       res.Audio,
	})
	p.finish(gen, text, err)
}

func (p *Player) finish(gen uint64, text string, err error) {
	if errors.Is(err, context.Canceled) {
		err = nil
	}
	if err != nil {
		slog.Warn("speech playback failed", "error", err)
	}
	p.transition(gen, Idle, text, err)
}

// transition applies a status change if gen is still current.
func (p *Player) transition(gen uint64, to Status, text string, err error) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		return false
	}
	if to == Idle && p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.setLocked(to, text, err)
	return true
}

func (p *Player) setLocked(to Status, text string, err error) {
	p.status = to
	select {
	case p.events <- StatusEvent{Status: to, Text: text, Err: err}:
	default:
		slog.Warn("speech status event dropped", "status", to.String())
	}
}

// Pause pauses the current utterance. It is a no-op unless speaking.
func (p *Player) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != Speaking {
		return
	}
	if err := p.sink.Pause(); err != nil {
		slog.Warn("speech pause failed", "error", err)
		return
	}
	p.setLocked(Paused, "", nil)
}

// Resume continues a paused utterance. It is a no-op unless paused.
func (p *Player) Resume() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.status != Paused {
		return
	}
	if err := p.sink.Resume(); err != nil {
		slog.Warn("speech resume failed", "error", err)
		return
	}
	p.setLocked(Speaking, "", nil)
}

// Stop cancels any utterance and returns to idle.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.gen++
	if p.status != Idle {
		p.setLocked(Idle, "", nil)
	}
}
