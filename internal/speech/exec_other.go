//go:build !unix

package speech

import (
	"context"
	"errors"
)

// ExecSink is only available on unix systems.
type ExecSink struct{}

// NewExecSink reports that external players are unsupported on this platform.
func NewExecSink(string) (*ExecSink, error) {
	return nil, errors.New("exec speech sink requires a unix system")
}

func (*ExecSink) Play(context.Context, Clip) error { return errors.ErrUnsupported }
func (*ExecSink) Pause() error                     { return errors.ErrUnsupported }
func (*ExecSink) Resume() error                    { return errors.ErrUnsupported }
