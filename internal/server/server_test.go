package server

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/handler"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// newTestHandlers builds a handler container for the given transport config.
// Services are nil: handlers only store the pointer at construction time.
func newTestHandlers(t *testing.T, cfg config.ServerTransport) *handler.Handlers {
	t.Helper()

	handlers, err := handler.NewHandlers(nil, cfg, logger.Nop())
	require.NoError(t, err)

	return handlers
}

// TestNewServer_NoTransportsConfigured verifies that an empty transport
// config yields errNoServersAreCreated and no server.
func TestNewServer_NoTransportsConfigured(t *testing.T) {
	s, err := NewServer(&handler.Handlers{}, config.ServerTransport{}, logger.Nop())

	require.ErrorIs(t, err, errNoServersAreCreated)
	assert.Nil(t, s)
}

// TestNewServer_HTTPOnly verifies that with only an HTTP address configured
// the HTTP server is built around the vault router and no gRPC server exists.
func TestNewServer_HTTPOnly(t *testing.T) {
	cfg := config.ServerTransport{HTTPAddress: "127.0.0.1:0", RequestTimeout: 30 * time.Second}
	handlers := newTestHandlers(t, cfg)

	s, err := NewServer(handlers, cfg, logger.Nop())

	require.NoError(t, err)
	impl, ok := s.(*server)
	require.True(t, ok)
	require.NotNil(t, impl.httpServer)
	assert.Nil(t, impl.gRPCServer)
	assert.Equal(t, "127.0.0.1:0", impl.httpServer.server.Addr)
	assert.NotNil(t, impl.httpServer.server.Handler, "router must be attached")
	assert.Equal(t, 30*time.Second, impl.httpServer.server.ReadTimeout)
	assert.Equal(t, 30*time.Second, impl.httpServer.server.WriteTimeout)
}

// TestNewServer_GRPCOnly verifies that with only a gRPC address configured
// the listener is bound immediately and no HTTP server exists.
func TestNewServer_GRPCOnly(t *testing.T) {
	cfg := config.ServerTransport{GRPCAddress: "127.0.0.1:0"}
	handlers := newTestHandlers(t, cfg)

	s, err := NewServer(handlers, cfg, logger.Nop())

	require.NoError(t, err)
	impl, ok := s.(*server)
	require.True(t, ok)
	require.NotNil(t, impl.gRPCServer)
	assert.Nil(t, impl.httpServer)

	require.NotNil(t, impl.gRPCServer.gRPCNetListener)
	t.Cleanup(func() { _ = impl.gRPCServer.gRPCNetListener.Close() })

	// ":0" must have been resolved to a real ephemeral port
	assert.NotEqual(t, "127.0.0.1:0", impl.gRPCServer.gRPCNetListener.Addr().String())
}

// TestNewServer_GRPCAddressBusy verifies that an occupied gRPC port fails
// construction instead of surfacing later from a serving goroutine.
func TestNewServer_GRPCAddressBusy(t *testing.T) {
	occupied, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer func() { _ = occupied.Close() }()

	cfg := config.ServerTransport{GRPCAddress: occupied.Addr().String()}
	handlers := newTestHandlers(t, cfg)

	s, err := NewServer(handlers, cfg, logger.Nop())

	require.Error(t, err)
	assert.Nil(t, s)
}

// TestGRPCServer_HealthRoundTrip starts the gRPC server on an ephemeral
// port, probes the health service over a real connection and shuts down.
func TestGRPCServer_HealthRoundTrip(t *testing.T) {
	cfg := config.ServerTransport{GRPCAddress: "127.0.0.1:0"}
	handlers := newTestHandlers(t, cfg)

	gRPCServer, err := newGRPCServer(handlers.GRPC, cfg, logger.Nop())
	require.NoError(t, err)

	go gRPCServer.RunServer()
	t.Cleanup(gRPCServer.Shutdown)

	conn, err := grpc.NewClient(
		gRPCServer.gRPCNetListener.Addr().String(),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	resp, err := healthpb.NewHealthClient(conn).Check(ctx, &healthpb.HealthCheckRequest{})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}
