package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/logger"
)

// Repositories groups the server-side repositories into a single value that
// can be passed around the service layer.
type Repositories struct {
	// ProfileRepository persists per-owner encryption profiles.
	ProfileRepository ProfileRepository
	// LedgerRepository persists encrypted ledger records.
	LedgerRepository LedgerRepository
}

// NewRepositories initialises the server storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens a PostgreSQL connection using cfg.DB.DSN.
//  2. Runs pending schema migrations via [DB.Migrate].
//  3. Constructs and returns a [Repositories] value wired to fresh
//     repository implementations sharing one connection pool.
//
// Returns an error if the database connection cannot be established or if
// migration fails.
func NewRepositories(ctx context.Context, cfg config.ServerStorage, logger *logger.Logger) (*Repositories, error) {
	logger.Info().Msg("creating new repositories...")

	db, err := NewConnectPostgres(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return &Repositories{
		ProfileRepository: NewProfileRepository(db, logger),
		LedgerRepository:  NewLedgerRepository(db, logger),
	}, nil
}
