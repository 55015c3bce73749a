// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
)

// ledgerRepository is the PostgreSQL-backed implementation of
// [LedgerRepository]. New writes always carry envelopes; plaintext columns
// exist only so rows imported before encryption rollout stay readable.
type ledgerRepository struct {
	*DB
	logger *logger.Logger
}

// NewLedgerRepository constructs a [LedgerRepository] backed by
// the provided database connection and logger.
func NewLedgerRepository(db *DB, logger *logger.Logger) LedgerRepository {
	return &ledgerRepository{
		DB:     db,
		logger: logger,
	}
}

// SaveRecords upserts the given encrypted records.
//
// A single record goes through a plain query; two or more are written inside
// one transaction with a prepared statement, so a batch either lands whole
// or not at all. Re-uploading the same (owner_id, record_uid) replaces the
// envelope, which makes client retries idempotent.
func (l *ledgerRepository) SaveRecords(ctx context.Context, records ...*models.EncryptedRecord) error {
	log := logger.FromContext(ctx)

	if len(records) == 0 {
		log.Debug().
			Str("func", "ledgerRepository.SaveRecords").
			Msg("no records to save")
		return nil
	}

	if len(records) == 1 {
		return l.saveSingleRecord(ctx, records[0])
	}

	return l.saveMultipleRecords(ctx, records)
}

func (l *ledgerRepository) saveSingleRecord(ctx context.Context, record *models.EncryptedRecord) error {
	log := logger.FromContext(ctx)

	scanErr := l.DB.QueryRowContext(ctx, saveRecordQuery,
		record.OwnerID,
		record.RecordUID,
		record.Ciphertext,
		record.Nonce,
		record.AuthTag,
		record.KeyVersion,
		record.OccurredAt,
	).Scan(&record.ID)
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "ledgerRepository.saveSingleRecord").
			Int64("owner_id", record.OwnerID).
			Str("record_uid", record.RecordUID).
			Str("pg_code", postgresError(scanErr)).
			Msg("failed to save encrypted record")
		return l.classifyDBError(fmt.Errorf("%w: %w", ErrRecordsNotSaved, scanErr))
	}

	log.Info().
		Str("func", "ledgerRepository.saveSingleRecord").
		Int64("owner_id", record.OwnerID).
		Str("record_uid", record.RecordUID).
		Msg("successfully saved encrypted record")

	return nil
}

func (l *ledgerRepository) saveMultipleRecords(ctx context.Context, records []*models.EncryptedRecord) error {
	log := logger.FromContext(ctx)

	tx, err := l.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "ledgerRepository.saveMultipleRecords").
			Int("records_count", len(records)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, prepErr := tx.PrepareContext(ctx, saveRecordQuery)
	if prepErr != nil {
		log.Err(prepErr).
			Str("func", "ledgerRepository.saveMultipleRecords").
			Int("records_count", len(records)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrPreparingStatement, prepErr)
	}
	defer stmt.Close()

	for idx, record := range records {
		log.Debug().
			Str("func", "ledgerRepository.saveMultipleRecords").
			Int("iteration", idx+1).
			Int("total", len(records)).
			Int64("owner_id", record.OwnerID).
			Str("record_uid", record.RecordUID).
			Msg("saving encrypted record in transaction")

		scanErr := stmt.QueryRowContext(ctx,
			record.OwnerID,
			record.RecordUID,
			record.Ciphertext,
			record.Nonce,
			record.AuthTag,
			record.KeyVersion,
			record.OccurredAt,
		).Scan(&record.ID)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "ledgerRepository.saveMultipleRecords").
				Int("iteration", idx+1).
				Int64("owner_id", record.OwnerID).
				Str("record_uid", record.RecordUID).
				Str("pg_code", postgresError(scanErr)).
				Msg("failed to execute prepared statement")
			return l.classifyDBError(fmt.Errorf("%w: %w", ErrRecordsNotSaved, scanErr))
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "ledgerRepository.saveMultipleRecords").
			Int("records_count", len(records)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Info().
		Str("func", "ledgerRepository.saveMultipleRecords").
		Int("records_count", len(records)).
		Msg("successfully saved encrypted records")

	return nil
}

// GetRecords returns the owner's records matching filter, newest first.
//
// Each row comes back as a [models.RecordEnvelope]: encrypted rows populate
// Encrypted, pre-rollout plaintext rows populate Plain. Callers that only
// handle envelopes can skip rows where Encrypted is nil.
func (l *ledgerRepository) GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
	log := logger.FromContext(ctx)

	query, args, buildErr := buildSelectRecordsQuery(ctx, filter)
	if buildErr != nil {
		return nil, buildErr
	}

	rows, queryErr := l.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "ledgerRepository.GetRecords").
			Int64("owner_id", filter.OwnerID).
			Msg("failed to execute query for getting records")
		return nil, l.classifyDBError(fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr))
	}
	defer rows.Close()

	envelopes := make([]models.RecordEnvelope, 0)

	for rows.Next() {
		envelope, scanErr := scanRecordEnvelope(rows)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "ledgerRepository.GetRecords").
				Int64("owner_id", filter.OwnerID).
				Msg("failed to scan ledger record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		envelopes = append(envelopes, envelope)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "ledgerRepository.GetRecords").
			Int64("owner_id", filter.OwnerID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	log.Debug().
		Str("func", "ledgerRepository.GetRecords").
		Int64("owner_id", filter.OwnerID).
		Int("records_count", len(envelopes)).
		Msg("successfully fetched ledger records")

	return envelopes, nil
}

// scanRecordEnvelope maps one ledger row onto a [models.RecordEnvelope].
// Envelope and plaintext column halves are nullable in the schema; the
// is_encrypted flag says which half carries the row.
func scanRecordEnvelope(rows *sql.Rows) (models.RecordEnvelope, error) {
	var (
		id          int64
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
		&id,
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
			ID:         id,
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

// DeleteRecord removes one record by (ownerID, recordUID).
//
// Returns [ErrRecordNotFound] when the owner has no such record, so callers
// can distinguish a stale UID from a database failure.
func (l *ledgerRepository) DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error {
	log := logger.FromContext(ctx)

	var deletedID int64

	scanErr := l.DB.QueryRowContext(ctx, deleteRecordQuery, ownerID, recordUID).Scan(&deletedID)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Warn().
				Str("func", "ledgerRepository.DeleteRecord").
				Int64("owner_id", ownerID).
				Str("record_uid", recordUID).
				Msg("record to delete is not found")
			return ErrRecordNotFound
		}

		log.Err(scanErr).
			Str("func", "ledgerRepository.DeleteRecord").
			Int64("owner_id", ownerID).
			Str("record_uid", recordUID).
			Msg("failed to delete ledger record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, scanErr)
	}

	log.Info().
		Str("func", "ledgerRepository.DeleteRecord").
		Int64("owner_id", ownerID).
		Str("record_uid", recordUID).
		Int64("record_id", deletedID).
		Msg("successfully deleted ledger record")

	return nil
}

// DeleteAllRecords wipes every ledger record belonging to ownerID.
// Used by the hard reset flow; deleting from an empty ledger is not an error.
func (l *ledgerRepository) DeleteAllRecords(ctx context.Context, ownerID int64) error {
	log := logger.FromContext(ctx)

	res, execErr := l.DB.ExecContext(ctx, deleteAllRecordsQuery, ownerID)
	if execErr != nil {
		log.Err(execErr).
			Str("func", "ledgerRepository.DeleteAllRecords").
			Int64("owner_id", ownerID).
			Msg("failed to delete owner's ledger records")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
	}

	affected, affectedErr := res.RowsAffected()
	if affectedErr != nil {
		log.Warn().
			Str("func", "ledgerRepository.DeleteAllRecords").
			Int64("owner_id", ownerID).
			Msg("could not determine number of deleted records")
		return nil
	}

	log.Info().
		Str("func", "ledgerRepository.DeleteAllRecords").
		Int64("owner_id", ownerID).
		Int64("records_deleted", affected).
		Msg("successfully deleted owner's ledger records")

	return nil
}
