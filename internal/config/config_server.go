package config

import (
	"fmt"
	"time"
)

// ServerApp holds server-side application settings derived from the shared
// structured config.
type ServerApp struct {
	// TokenSignKey is the secret key used to verify inbound JWT tokens.
	TokenSignKey string
	// TokenIssuer is the expected "iss" claim of inbound JWT tokens.
	TokenIssuer string
	// TokenDuration is the validity window of tokens issued by this server.
	TokenDuration time.Duration
	// HashKey is the HMAC key used to verify request body integrity.
	HashKey string
	// Version is the semantic version string exposed via /api/version.
	Version string
}

// ServerTransport holds listen addresses and timeouts for the inbound
// transport layer.
type ServerTransport struct {
	// HTTPAddress is the TCP address the HTTP server listens on.
	HTTPAddress string
	// GRPCAddress is the TCP address the gRPC server listens on.
	GRPCAddress string
	// RequestTimeout is the per-request deadline for inbound requests.
	RequestTimeout time.Duration
}

// ServerDB contains relational database connection settings for the server.
type ServerDB struct {
	// DSN is the PostgreSQL connection string.
	DSN string
}

// ServerStorage groups server storage backend settings.
type ServerStorage struct {
	// DB holds relational database settings.
	DB ServerDB
}

// ServerConfig is the top-level server configuration assembled from
// [StructuredConfig].
type ServerConfig struct {
	// App contains application-level server settings.
	App ServerApp
	// Server contains listen addresses and timeouts.
	Server ServerTransport
	// Storage contains server storage settings.
	Storage ServerStorage
}

// GetServerConfig builds and validates a server-specific config view from the
// merged structured configuration.
//
// It loads the base config via [GetStructuredConfig], maps only the fields
// relevant to the server runtime, and validates the resulting [ServerConfig].
func GetServerConfig() (*ServerConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	serverCfg := &ServerConfig{
		App: ServerApp{
			TokenSignKey:  cfg.App.TokenSignKey,
			TokenIssuer:   cfg.App.TokenIssuer,
			TokenDuration: cfg.App.TokenDuration,
			HashKey:       cfg.App.HashKey,
			Version:       cfg.App.Version,
		},
		Server: ServerTransport{
			HTTPAddress:    cfg.Server.HTTPAddress,
			GRPCAddress:    cfg.Server.GRPCAddress,
			RequestTimeout: cfg.Server.RequestTimeout,
		},
		Storage: ServerStorage{
			DB: ServerDB{
				DSN: cfg.Storage.DB.DSN,
			},
		},
	}

	return serverCfg, serverCfg.validate()
}
