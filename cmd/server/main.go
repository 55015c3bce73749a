package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/handler"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/server"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("fin-keeper-server")
	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	log.Debug().
		Str("http_address", cfg.Server.HTTPAddress).
		Str("grpc_address", cfg.Server.GRPCAddress).
		Msg("received configs")

	// общий с клиентом HMAC-ключ для проверки целостности загружаемых записей
	utils.InitHasherPool(cfg.App.HashKey)

	repositories, err := store.NewRepositories(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating repositories")
	}

	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)

	services, err := service.NewServices(repositories, cfg, buildInfo, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating services")
	}

	handlers, err := handler.NewHandlers(services, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg.Server, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}

	if buildDate == "" {
		buildDate = "N/A"
	}

	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
