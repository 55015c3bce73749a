package grpc

import (
	"context"
	"testing"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

func TestNewHandler_ReturnsInitializedHandler(t *testing.T) {
	h := NewHandler(nil, logger.Nop())

	require.NotNil(t, h)
	assert.NotNil(t, h.health, "health server must be ready before Register is called")
}

func TestRegister_ExposesHealthService(t *testing.T) {
	h := NewHandler(nil, logger.Nop())
	server := grpc.NewServer()

	h.Register(server)

	_, ok := server.GetServiceInfo()["grpc.health.v1.Health"]
	assert.True(t, ok, "health service must be registered on the gRPC server")
}

func TestRegister_ReportsServing(t *testing.T) {
	h := NewHandler(nil, logger.Nop())

	h.Register(grpc.NewServer())

	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ""})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestShutdown_ReportsNotServing(t *testing.T) {
	h := NewHandler(nil, logger.Nop())
	h.Register(grpc.NewServer())

	h.Shutdown()

	resp, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: ""})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, resp.GetStatus())
}

func TestHealthCheck_UnknownServiceFails(t *testing.T) {
	h := NewHandler(nil, logger.Nop())
	h.Register(grpc.NewServer())

	_, err := h.health.Check(context.Background(), &healthpb.HealthCheckRequest{Service: "vault.Unknown"})

	assert.Error(t, err, "probes for services the vault never registered must fail")
}
