package grpc

import (
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// Handler is the root gRPC transport handler.
//
// It stores references to the service layer and structured logger so that
// gRPC method handlers can delegate business logic and emit consistent logs.
// A handler instance is created once at startup and shared by the gRPC server.
type Handler struct {
	// services provides access to all application business operations.
	services *service.Services

	// health answers grpc.health.v1 probes for the vault server.
	health *health.Server

	// logger is used for request-scoped and diagnostic log output.
	logger *logger.Logger
}

// NewHandler constructs a [Handler] with the provided service container and
// logger, and returns the initialized instance.
//
// Parameters:
//   - services: application service layer used by gRPC method handlers.
//   - logger: structured logger used for transport diagnostics.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("gRPC handler created")
	return &Handler{
		services: services,
		health:   health.NewServer(),
		logger:   logger,
	}
}

// Register attaches every gRPC service owned by this handler to the given
// server and marks the overall status as SERVING. Only the standard health
// service is exposed for now; orchestrators probe it without a bearer token.
func (h *Handler) Register(server *grpc.Server) {
	healthpb.RegisterHealthServer(server, h.health)
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	h.logger.Debug().Msg("gRPC health service registered")
}

// Shutdown flips every registered service to NOT_SERVING so probes start
// failing before the listener closes and in-flight calls drain.
func (h *Handler) Shutdown() {
	h.health.Shutdown()
	h.logger.Debug().Msg("gRPC health service marked NOT_SERVING")
}
