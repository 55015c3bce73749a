package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
)

// envelopeCacheRepository is the SQLite-backed implementation of
// [EnvelopeCacheRepository]. It holds server state verbatim: wrapped keys
// and ciphertext go in, wrapped keys and ciphertext come out. Decryption is
// the keychain's job, never the cache's.
type envelopeCacheRepository struct {
	*DB
	logger *logger.Logger
}

// NewEnvelopeCacheRepository constructs an [EnvelopeCacheRepository]
// backed by the provided SQLite connection and logger.
func NewEnvelopeCacheRepository(db *DB, logger *logger.Logger) EnvelopeCacheRepository {
	return &envelopeCacheRepository{
		DB:     db,
		logger: logger,
	}
}

// PutProfile stores or replaces the cached encryption profile.
// Backup wrap entries are serialized into one JSON document; the cache never
// needs to address them individually.
func (e *envelopeCacheRepository) PutProfile(ctx context.Context, profile models.EncryptionProfile) error {
	log := logger.FromContext(ctx)

	wrapsJSON, marshalErr := json.Marshal(profile.BackupWraps)
	if marshalErr != nil {
		log.Err(marshalErr).
			Str("func", "envelopeCacheRepository.PutProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to marshal backup wraps")
		return fmt.Errorf("%w: %w", ErrProfileNotSaved, marshalErr)
	}

	_, execErr := e.DB.ExecContext(ctx, putCachedProfileQuery,
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
		string(wrapsJSON),
		profile.KeyVersion,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "envelopeCacheRepository.PutProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to cache encryption profile")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	log.Debug().
		Str("func", "envelopeCacheRepository.PutProfile").
		Int64("owner_id", profile.OwnerID).
		Int64("key_version", profile.KeyVersion).
		Msg("successfully cached encryption profile")

	return nil
}

// GetProfile loads the cached profile for ownerID.
//
// Returns [ErrProfileNotFound] when nothing is cached.
func (e *envelopeCacheRepository) GetProfile(ctx context.Context, ownerID int64) (models.EncryptionProfile, error) {
	log := logger.FromContext(ctx)

	var (
		profile   models.EncryptionProfile
		wrapsJSON string
	)

	scanErr := e.DB.QueryRowContext(ctx, getCachedProfileQuery, ownerID).Scan(
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
		&wrapsJSON,
		&profile.KeyVersion,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Debug().
				Str("func", "envelopeCacheRepository.GetProfile").
				Int64("owner_id", ownerID).
				Msg("no cached encryption profile for owner")
			return models.EncryptionProfile{}, ErrProfileNotFound
		}

		log.Err(scanErr).
			Str("func", "envelopeCacheRepository.GetProfile").
			Int64("owner_id", ownerID).
			Msg("failed to scan cached profile row")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	if unmarshalErr := json.Unmarshal([]byte(wrapsJSON), &profile.BackupWraps); unmarshalErr != nil {
		log.Err(unmarshalErr).
			Str("func", "envelopeCacheRepository.GetProfile").
			Int64("owner_id", ownerID).
			Msg("failed to unmarshal cached backup wraps")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrScanningRow, unmarshalErr)
	}

	return profile, nil
}

// DeleteProfile drops the cached profile for ownerID. Absence is not an
// error: the cache may simply have nothing for this owner yet.
func (e *envelopeCacheRepository) DeleteProfile(ctx context.Context, ownerID int64) error {
	log := logger.FromContext(ctx)

	if _, execErr := e.DB.ExecContext(ctx, deleteCachedProfileQuery, ownerID); execErr != nil {
		log.Err(execErr).
			Str("func", "envelopeCacheRepository.DeleteProfile").
			Int64("owner_id", ownerID).
			Msg("failed to delete cached profile")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// PutRecords stores or replaces cached ledger envelopes for ownerID.
//
// A single envelope goes through a plain statement; a batch is written
// inside one transaction with a prepared statement, mirroring the server
// repository so a refresh sweep lands atomically.
func (e *envelopeCacheRepository) PutRecords(ctx context.Context, ownerID int64, records ...models.RecordEnvelope) error {
	log := logger.FromContext(ctx)

	if len(records) == 0 {
		log.Debug().
			Str("func", "envelopeCacheRepository.PutRecords").
			Int64("owner_id", ownerID).
			Msg("no records to cache")
		return nil
	}

	if len(records) == 1 {
		if _, execErr := e.DB.ExecContext(ctx, putCachedRecordQuery, cacheRecordArgs(ownerID, records[0])...); execErr != nil {
			log.Err(execErr).
				Str("func", "envelopeCacheRepository.PutRecords").
				Int64("owner_id", ownerID).
				Str("record_uid", records[0].RecordUID()).
				Msg("failed to cache ledger record")
			return fmt.Errorf("%w: %w", ErrRecordsNotSaved, execErr)
		}
		return nil
	}

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "envelopeCacheRepository.PutRecords").
			Int64("owner_id", ownerID).
			Int("records_count", len(records)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, prepErr := tx.PrepareContext(ctx, putCachedRecordQuery)
	if prepErr != nil {
		log.Err(prepErr).
			Str("func", "envelopeCacheRepository.PutRecords").
			Int64("owner_id", ownerID).
			Int("records_count", len(records)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, prepErr)
	}
	defer stmt.Close()

	for idx, record := range records {
		log.Debug().
			Str("func", "envelopeCacheRepository.PutRecords").
			Int("iteration", idx+1).
			Int("total", len(records)).
			Int64("owner_id", ownerID).
			Str("record_uid", record.RecordUID()).
			Msg("caching ledger record in transaction")

		if _, execErr := stmt.ExecContext(ctx, cacheRecordArgs(ownerID, record)...); execErr != nil {
			log.Err(execErr).
				Str("func", "envelopeCacheRepository.PutRecords").
				Int("iteration", idx+1).
				Int64("owner_id", ownerID).
				Str("record_uid", record.RecordUID()).
				Msg("failed to execute prepared statement")
			return fmt.Errorf("%w: %w", ErrRecordsNotSaved, execErr)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "envelopeCacheRepository.PutRecords").
			Int64("owner_id", ownerID).
			Int("records_count", len(records)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "envelopeCacheRepository.PutRecords").
		Int64("owner_id", ownerID).
		Int("records_count", len(records)).
		Msg("successfully cached ledger records")

	return nil
}

// cacheRecordArgs flattens one envelope into the putCachedRecordQuery
// argument list. Exactly one of the envelope halves is populated; the other
// half's columns are written as NULLs.
func cacheRecordArgs(ownerID int64, record models.RecordEnvelope) []any {
	if record.Encrypted != nil {
		enc := record.Encrypted
		return []any{
			ownerID,
			enc.RecordUID,
			true,
			enc.Ciphertext,
			enc.Nonce,
			enc.AuthTag,
			enc.KeyVersion,
			nil, nil, nil, nil,
			enc.OccurredAt,
			enc.CreatedAt,
			enc.UpdatedAt,
		}
	}

	plain := record.Plain
	return []any{
		ownerID,
		plain.RecordUID,
		false,
		nil, nil, nil, nil,
		plain.Amount,
		plain.Currency,
		plain.Description,
		plain.Category,
		plain.OccurredAt,
		nil,
		nil,
	}
}

// GetRecords returns cached envelopes matching filter, newest first.
func (e *envelopeCacheRepository) GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
	log := logger.FromContext(ctx)

	query, args, buildErr := buildSelectCacheRecordsQuery(ctx, filter)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, queryErr := e.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "envelopeCacheRepository.GetRecords").
			Int64("owner_id", filter.OwnerID).
			Msg("failed to execute query for getting cached records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	envelopes := make([]models.RecordEnvelope, 0)

	for rows.Next() {
		envelope, scanErr := scanCacheRecordEnvelope(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "envelopeCacheRepository.GetRecords").
				Int64("owner_id", filter.OwnerID).
				Msg("failed to scan cached record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		envelopes = append(envelopes, envelope)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "envelopeCacheRepository.GetRecords").
			Int64("owner_id", filter.OwnerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return envelopes, nil
}

// scanCacheRecordEnvelope maps one ledger_cache row onto a
// [models.RecordEnvelope]. Same shape as the server scan minus the
// surrogate id column, which the cache table does not carry.
func scanCacheRecordEnvelope(rows *sql.Rows) (models.RecordEnvelope, error) {
	var (
		ownerID     int64
		recordUID   string
		isEncrypted bool

		ciphertext []byte
		nonce      []byte
		authTag    []byte
		keyVersion sql.NullInt64

		amount      sql.NullInt64
		currency    sql.NullString
		description sql.NullString
		category    sql.NullString

		occurredAt sql.NullTime
		createdAt  *time.Time
		updatedAt  *time.Time
	)

	scanErr := rows.Scan(
		&ownerID,
		&recordUID,
		&isEncrypted,
		&ciphertext,
		&nonce,
		&authTag,
		&keyVersion,
		&amount,
		&currency,
		&description,
		&category,
		&occurredAt,
		&createdAt,
		&updatedAt,
	)
	if scanErr != nil {
		return models.RecordEnvelope{}, scanErr
	}

	if isEncrypted {
		record := &models.EncryptedRecord{
			OwnerID:    ownerID,
			RecordUID:  recordUID,
			Ciphertext: ciphertext,
			Nonce:      nonce,
			AuthTag:    authTag,
			KeyVersion: keyVersion.Int64,
			OccurredAt: occurredAt.Time,
			CreatedAt:  createdAt,
			UpdatedAt:  updatedAt,
		}
		return models.RecordEnvelope{Encrypted: record}, nil
	}

	plain := &models.Transaction{
		RecordUID:   recordUID,
		Amount:      amount.Int64,
		Currency:    currency.String,
		Description: description.String,
		Category:    category.String,
		OccurredAt:  occurredAt.Time,
	}

	return models.RecordEnvelope{Plain: plain}, nil
}

// DeleteRecord removes one cached record by (ownerID, recordUID).
// Absence is not an error: the record may never have been synced down.
func (e *envelopeCacheRepository) DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error {
	log := logger.FromContext(ctx)

	if _, execErr := e.DB.ExecContext(ctx, deleteCachedRecordQuery, ownerID, recordUID); execErr != nil {
		log.Err(execErr).
			Str("func", "envelopeCacheRepository.DeleteRecord").
			Int64("owner_id", ownerID).
			Str("record_uid", recordUID).
			Msg("failed to delete cached record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	return nil
}

// Purge drops all cached state of ownerID in one transaction, profile and
// ledger alike. Hard reset calls this so no wrapped key material survives
// locally after the server copy is gone.
func (e *envelopeCacheRepository) Purge(ctx context.Context, ownerID int64) error {
	log := logger.FromContext(ctx)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "envelopeCacheRepository.Purge").
			Int64("owner_id", ownerID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	if _, execErr := tx.ExecContext(ctx, deleteCachedProfileQuery, ownerID); execErr != nil {
		log.Err(execErr).
			Str("func", "envelopeCacheRepository.Purge").
			Int64("owner_id", ownerID).
			Msg("failed to purge cached profile")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if _, execErr := tx.ExecContext(ctx, deleteCachedRecordsQuery, ownerID); execErr != nil {
		log.Err(execErr).
			Str("func", "envelopeCacheRepository.Purge").
			Int64("owner_id", ownerID).
			Msg("failed to purge cached records")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "envelopeCacheRepository.Purge").
			Int64("owner_id", ownerID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "envelopeCacheRepository.Purge").
		Int64("owner_id", ownerID).
		Msg("successfully purged cached vault state")

	return nil
}
