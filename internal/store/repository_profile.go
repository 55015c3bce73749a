package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
)

// profileRepository is the PostgreSQL-backed implementation of
// [ProfileRepository]. Profile state spans two tables: the profile row in
// "encryption_profiles" and its wrap entries in "backup_wraps". Every write
// replaces both in one transaction so readers never observe a profile whose
// wraps belong to an older key generation.
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so that all database interactions are traced
// with structured fields (owner_id, iteration index, etc.).
type profileRepository struct {
	*DB
	logger *logger.Logger
}

// NewProfileRepository constructs a [ProfileRepository] backed by
// the provided database connection and logger.
//
// The logger parameter is stored for fallback logging; most methods prefer
// the context-scoped logger obtained via [logger.FromContext].
func NewProfileRepository(db *DB, logger *logger.Logger) ProfileRepository {
	return &profileRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveProfile persists the complete profile state for profile.OwnerID.
//
// The write is a full replacement: the profile row is upserted, all previous
// backup wrap entries are deleted, and the submitted entries are inserted
// with a prepared statement. Either everything lands or nothing does.
//
// Returns the stored profile with database-assigned timestamps.
func (p *profileRepository) SaveProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error) {
	log := logger.FromContext(ctx)

	tx, err := p.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "profileRepository.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to begin transaction")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	upsertErr := tx.QueryRowContext(ctx, upsertProfileQuery,
		profile.OwnerID,
		profile.Salt,
		profile.KDFParams.Algorithm,
		profile.KDFParams.Time,
		profile.KDFParams.MemoryKiB,
		profile.KDFParams.Threads,
		profile.KDFParams.KeyLen,
		profile.PrimaryWrap.Ciphertext,
		profile.PrimaryWrap.Nonce,
		profile.PrimaryWrap.Tag,
		profile.KeyVersion,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if upsertErr != nil {
		log.Err(upsertErr).
			Str("func", "profileRepository.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Str("pg_code", postgresError(upsertErr)).
			Msg("failed to upsert encryption profile row")
		return models.EncryptionProfile{}, p.classifyDBError(fmt.Errorf("%w: %w", ErrExecutingQuery, upsertErr))
	}

	if _, deleteErr := tx.ExecContext(ctx, deleteOwnerBackupWrapsQuery, profile.OwnerID); deleteErr != nil {
		log.Err(deleteErr).
			Str("func", "profileRepository.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to clear previous backup wraps")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrExecutingStatement, deleteErr)
	}

	if len(profile.BackupWraps) > 0 {
		stmt, prepErr := tx.PrepareContext(ctx, insertBackupWrapQuery)
		if prepErr != nil {
			log.Err(prepErr).
				Str("func", "profileRepository.SaveProfile").
				Int("wraps_count", len(profile.BackupWraps)).
				Msg("failed to prepare statement")
			return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrPreparingStatement, prepErr)
		}
		defer stmt.Close()

		for idx, wrap := range profile.BackupWraps {
			log.Debug().
				Str("func", "profileRepository.SaveProfile").
				Int("iteration", idx+1).
				Int("total", len(profile.BackupWraps)).
				Int64("owner_id", profile.OwnerID).
				Msg("saving backup wrap in transaction")

			if _, execErr := stmt.ExecContext(ctx,
				profile.OwnerID,
				wrap.CodeHash,
				wrap.HashSalt,
				wrap.KDFSalt,
				wrap.Wrap.Ciphertext,
				wrap.Wrap.Nonce,
				wrap.Wrap.Tag,
				wrap.Used,
				wrap.UsedAt,
			); execErr != nil {
				log.Err(execErr).
					Str("func", "profileRepository.SaveProfile").
					Int("iteration", idx+1).
					Int64("owner_id", profile.OwnerID).
					Msg("failed to execute prepared statement")
				return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
			}
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "profileRepository.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to commit transaction")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "profileRepository.SaveProfile").
		Int64("owner_id", profile.OwnerID).
		Int64("key_version", profile.KeyVersion).
		Int("wraps_count", len(profile.BackupWraps)).
		Msg("successfully saved encryption profile")

	return profile, nil
}

// GetProfile loads the profile row and all backup wrap entries for ownerID.
//
// Returns [ErrProfileNotFound] when no profile row exists.
func (p *profileRepository) GetProfile(ctx context.Context, ownerID int64) (models.EncryptionProfile, error) {
	log := logger.FromContext(ctx)

	var profile models.EncryptionProfile

	scanErr := p.DB.QueryRowContext(ctx, getProfileQuery, ownerID).Scan(
		&profile.OwnerID,
		&profile.Salt,
		&profile.KDFParams.Algorithm,
		&profile.KDFParams.Time,
		&profile.KDFParams.MemoryKiB,
		&profile.KDFParams.Threads,
		&profile.KDFParams.KeyLen,
		&profile.PrimaryWrap.Ciphertext,
		&profile.PrimaryWrap.Nonce,
		&profile.PrimaryWrap.Tag,
		&profile.KeyVersion,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Debug().
				Str("func", "profileRepository.GetProfile").
				Int64("owner_id", ownerID).
				Msg("no encryption profile for owner")
			return models.EncryptionProfile{}, ErrProfileNotFound
		}

		log.Err(scanErr).
			Str("func", "profileRepository.GetProfile").
			Int64("owner_id", ownerID).
			Msg("failed to scan encryption profile row")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	rows, queryErr := p.DB.QueryContext(ctx, getOwnerBackupWrapsQuery, ownerID)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "profileRepository.GetProfile").
			Int64("owner_id", ownerID).
			Msg("failed to execute query for getting backup wraps")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	wraps := make([]models.BackupWrap, 0, 8)

	for rows.Next() {
		var wrap models.BackupWrap

		scanErr := rows.Scan(
			&wrap.CodeHash,
			&wrap.HashSalt,
			&wrap.KDFSalt,
			&wrap.Wrap.Ciphertext,
			&wrap.Wrap.Nonce,
			&wrap.Wrap.Tag,
			&wrap.Used,
			&wrap.UsedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "profileRepository.GetProfile").
				Int64("owner_id", ownerID).
				Msg("failed to scan backup wrap row")
			return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		wraps = append(wraps, wrap)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "profileRepository.GetProfile").
			Int64("owner_id", ownerID).
			Msg("error occurred during rows iteration")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	profile.BackupWraps = wraps

	return profile, nil
}

// DeleteProfile removes the profile row for ownerID; backup wraps go with it
// via the ON DELETE CASCADE constraint. Deleting an absent profile logs a
// warning and returns nil so the hard reset flow stays idempotent.
func (p *profileRepository) DeleteProfile(ctx context.Context, ownerID int64) error {
	log := logger.FromContext(ctx)

	res, execErr := p.DB.ExecContext(ctx, deleteProfileQuery, ownerID)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "profileRepository.DeleteProfile").
			Int64("owner_id", ownerID).
			Msg("failed to execute profile delete")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	affected, affectedErr := res.RowsAffected()
	if affectedErr == nil && affected == 0 {
		log.Warn().
			Str("func", "profileRepository.DeleteProfile").
			Int64("owner_id", ownerID).
			Msg("no encryption profile to delete")
		return nil
	}

	log.Info().
		Str("func", "profileRepository.DeleteProfile").
		Int64("owner_id", ownerID).
		Msg("successfully deleted encryption profile")

	return nil
}
