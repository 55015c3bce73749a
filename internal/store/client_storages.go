package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/logger"
)

// ClientStorages groups all client-side storage repositories into a single
// value that can be passed around the service layer. Currently it holds only
// [EnvelopeCacheRepository]; additional repositories can be added here as
// the feature set grows.
type ClientStorages struct {
	// EnvelopeCache is the SQLite-backed mirror of server-side vault state,
	// wrapped keys and record ciphertext included.
	EnvelopeCache EnvelopeCacheRepository
}

// NewClientStorages initialises the client storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in
//     cfg.Cache.DSN, creating the database file if it does not yet exist.
//  2. Runs pending cache schema migrations via [DB.MigrateClient].
//  3. Constructs and returns a [ClientStorages] value wired to a fresh
//     [EnvelopeCacheRepository].
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewClientStorages(cfg config.ClientStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg.Cache, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	if err := db.MigrateClient(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &ClientStorages{
		EnvelopeCache: NewEnvelopeCacheRepository(db, logger),
	}, nil
}
