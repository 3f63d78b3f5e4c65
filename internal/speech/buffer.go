package speech

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrNotPlaying is returned by sink controls when nothing is playing.
var ErrNotPlaying = errors.New("nothing is playing")

// Buffer is a Sink that keeps the most recent clip for API clients to fetch
// and simulates playback for the clip's duration so pause and resume behave
// like a real device.
type Buffer struct {
	mu   sync.Mutex
	last *Clip

	pause  chan struct{}
	resume chan struct{}
}

var _ Sink = (*Buffer)(nil)

// NewBuffer creates an empty clip buffer.
func NewBuffer() *Buffer {
	return &Buffer{
		pause:  make(chan struct{}),
		resume: make(chan struct{}),
	}
}

// Last returns the most recently played clip.
func (b *Buffer) Last() (Clip, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.last == nil {
		return Clip{}, false
	}
	return *b.last, true
}

// Play stores clip and waits out its duration, excluding time spent paused.
func (b *Buffer) Play(ctx context.Context, clip Clip) error {
	b.mu.Lock()
	b.last = &clip
	b.mu.Unlock()

	remaining := clip.Duration()
	for remaining > 0 {
		start := time.Now()
		timer := time.NewTimer(remaining)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			return nil
		case <-b.pause:
			timer.Stop()
			remaining -= time.Since(start)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-b.resume:
			}
		}
	}
	return nil
}

// Pause suspends the clip currently playing.
func (b *Buffer) Pause() error {
	select {
	case b.pause <- struct{}{}:
		return nil
	default:
		return ErrNotPlaying
	}
}

// Resume continues a paused clip.
func (b *Buffer) Resume() error {
	select {
	case b.resume <- struct{}{}:
		return nil
	default:
		return ErrNotPlaying
	}
}
