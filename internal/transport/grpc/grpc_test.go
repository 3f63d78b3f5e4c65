package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/nadzzz/newsvox/internal/dispatch"
	"github.com/nadzzz/newsvox/internal/message"
	"github.com/nadzzz/newsvox/internal/transport"
)

func startServer(t *testing.T, handler transport.Handler) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())

	tr := New(0)
	done := make(chan error, 1)
	go func() { done <- tr.Serve(ctx, lis, handler) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		cancel()
		select {
		case err := <-done:
			assert.NoError(t, err)
		case <-time.After(5 * time.Second):
			t.Error("grpc server did not stop")
		}
	})
	return conn
}

func TestDispatchRPC(t *testing.T) {
	var got *message.Message
	conn := startServer(t, func(_ context.Context, msg *message.Message) (*message.DispatchResult, error) {
		got = msg
		return &message.DispatchResult{
			MessageID:    msg.ID,
			Transcript:   msg.Text,
			Action:       "change_category",
			Param:        "sports",
			ResponseText: "Loaded sports news",
		}, nil
	})

	result, err := Dispatch(context.Background(), conn, &message.Message{Source: "speaker", Text: "show sports category"})
	require.NoError(t, err)
	assert.Equal(t, "change_category", result.Action)
	assert.Equal(t, "sports", result.Param)
	assert.Equal(t, "Loaded sports news", result.ResponseText)
	assert.NotEmpty(t, result.MessageID)

	require.NotNil(t, got)
	assert.Equal(t, "speaker", got.Source)
	assert.False(t, got.Timestamp.IsZero())
}

func TestDispatchRPCBusy(t *testing.T) {
	conn := startServer(t, func(context.Context, *message.Message) (*message.DispatchResult, error) {
		return &message.DispatchResult{}, dispatch.ErrBusy
	})

	_, err := Dispatch(context.Background(), conn, &message.Message{Text: "next article"})
	require.Error(t, err)
	st, ok := status.FromError(err)
	require.True(t, ok)
	assert.Equal(t, codes.Unavailable, st.Code())
	assert.Equal(t, dispatch.BusyResponse, st.Message())
}

func TestHealthService(t *testing.T) {
	conn := startServer(t, func(context.Context, *message.Message) (*message.DispatchResult, error) {
		return &message.DispatchResult{}, nil
	})

	resp, err := healthpb.NewHealthClient(conn).Check(context.Background(), &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.Status)
}
