package server

import (
	"fmt"
	"net"

	"github.com/MKhiriev/fin-keeper/internal/config"
	myGRPC "github.com/MKhiriev/fin-keeper/internal/handler/grpc"
	"github.com/MKhiriev/fin-keeper/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	server          *grpc.Server
	gRPCNetListener net.Listener

	logger *logger.Logger
}

// newGRPCServer binds cfg.GRPCAddress and registers the handler's services
// on a fresh gRPC server. The address is bound here, during construction,
// so an occupied port fails NewServer rather than a background goroutine.
func newGRPCServer(handler *myGRPC.Handler, cfg config.ServerTransport, logger *logger.Logger) (*grpcServer, error) {
	listener, err := net.Listen("tcp", cfg.GRPCAddress)
	if err != nil {
		return nil, fmt.Errorf("listen gRPC address %s: %w", cfg.GRPCAddress, err)
	}

	server := grpc.NewServer()
	handler.Register(server)

	return &grpcServer{
		handler:         handler,
		server:          server,
		gRPCNetListener: listener,
		logger:          logger,
	}, nil
}

func (g *grpcServer) RunServer() {
	if err := g.server.Serve(g.gRPCNetListener); err != nil {
		g.logger.Error().Msgf("gRPC server Serve: %v", err)
	}
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("GRPC server Shutdown")

	// health flips to NOT_SERVING before the listener stops accepting
	g.handler.Shutdown()
	g.server.GracefulStop()
}
