// Package transport defines how remote clients reach the dispatcher.
//
// HTTP and gRPC both decode a message.Message, hand it to the same Handler
// and encode the message.DispatchResult it returns.
package transport

import (
	"context"

	"github.com/nadzzz/newsvox/internal/message"
)

// Handler executes one message. It returns dispatch.ErrBusy, together with a
// result carrying the busy response, when another command is still running.
type Handler func(ctx context.Context, msg *message.Message) (*message.DispatchResult, error)

// Transport is a listener that feeds messages to a Handler.
type Transport interface {
	// Name identifies the transport in logs.
	Name() string

	// Listen serves until ctx is cancelled.
	Listen(ctx context.Context, handler Handler) error

	// Close stops the listener, letting in-flight requests finish.
	Close() error
}
