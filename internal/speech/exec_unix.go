//go:build unix

package speech

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"sync"
	"syscall"
)

// ExecSink plays clips by piping the WAV into an external player such as
// "aplay -q -" or "paplay". Pause and resume stop and continue the player
// process with SIGSTOP/SIGCONT.
type ExecSink struct {
	argv []string

	mu  sync.Mutex
	cmd *exec.Cmd
}

var _ Sink = (*ExecSink)(nil)

// NewExecSink creates a sink that runs command for each clip.
func NewExecSink(command string) (*ExecSink, error) {
	argv := strings.Fields(command)
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty player command")
	}
	return &ExecSink{argv: argv}, nil
}

// Play runs the player and waits for it to exit.
func (s *ExecSink) Play(ctx context.Context, clip Clip) error {
	cmd := exec.CommandContext(ctx, s.argv[0], s.argv[1:]...)
	cmd.Stdin = bytes.NewReader(clip.Audio)

	s.mu.Lock()
	if err := cmd.Start(); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("starting player: %w", err)
	}
	s.cmd = cmd
	s.mu.Unlock()

	err := cmd.Wait()

	s.mu.Lock()
	if s.cmd == cmd {
		s.cmd = nil
	}
	s.mu.Unlock()

	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err != nil {
		return fmt.Errorf("player exited: %w", err)
	}
	return nil
}

// Pause sends SIGSTOP to the running player.
func (s *ExecSink) Pause() error { return s.signal(syscall.SIGSTOP) }

// Resume sends SIGCONT to the running player.
func (s *ExecSink) Resume() error { return s.signal(syscall.SIGCONT) }

func (s *ExecSink) signal(sig syscall.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cmd == nil || s.cmd.Process == nil {
		return ErrNotPlaying
	}
	return s.cmd.Process.Signal(sig)
}
