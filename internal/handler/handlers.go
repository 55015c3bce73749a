package handler

import (
	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/handler/grpc"
	"github.com/MKhiriev/fin-keeper/internal/handler/http"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/service"
)

// Handlers aggregates the transport handlers of the vault server. A handler
// is created only for the transports that have a listen address configured.
type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers builds the transport handlers enabled by cfg. At least one of
// HTTPAddress or GRPCAddress must be set, otherwise the server has nothing
// to serve and startup fails.
func NewHandlers(services *service.Services, cfg config.ServerTransport, logger *logger.Logger) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		handlers.HTTP = http.NewHandler(services, logger)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, errNoHandlersAreCreated
	}

	return handlers, nil
}
