package serve

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()

	srv, err := NewServer(&Config{
		Address:         "127.0.0.1:0",
		GracefulTimeout: 5 * time.Second,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(srv.Stop)
	return srv
}

func dialHealth(t *testing.T, addr string) grpc_health_v1.HealthClient {
	t.Helper()

	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return grpc_health_v1.NewHealthClient(conn)
}

func TestServerStartsNotServing(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Serve(ctx) }()

	client := dialHealth(t, srv.Addr())
	resp, err := client.Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: "loom.Reasoner"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestServerSetReady(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = srv.Serve(ctx) }()

	srv.SetReady(true)

	client := dialHealth(t, srv.Addr())
	resp, err := client.Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: "loom.Reasoner"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)

	srv.SetReady(false)
	resp, err = client.Check(context.Background(),
		&grpc_health_v1.HealthCheckRequest{Service: "loom.Reasoner"})
	require.NoError(t, err)
	assert.Equal(t, grpc_health_v1.HealthCheckResponse_NOT_SERVING, resp.Status)
}

func TestServerContextCancellation(t *testing.T) {
	srv := newTestServer(t)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ctx) }()

	// Let the server come up before cancelling.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(10 * time.Second):
		t.Fatal("server did not shut down after context cancellation")
	}
}

func TestServerAddrAssignsPort(t *testing.T) {
	srv := newTestServer(t)
	assert.NotContains(t, srv.Addr(), ":0", "binding to port 0 must report the assigned port")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, ":50051", cfg.Address)
	assert.Equal(t, 30*time.Second, cfg.GracefulTimeout)
}

func TestNewServerBadTLS(t *testing.T) {
	_, err := NewServer(&Config{
		Address:     "127.0.0.1:0",
		TLSCertFile: "/nonexistent/cert.pem",
		TLSKeyFile:  "/nonexistent/key.pem",
	}, nil)
	assert.Error(t, err)
}
