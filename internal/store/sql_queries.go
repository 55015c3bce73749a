package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
)

const (
	getProfileQuery = `SELECT owner_id, salt, kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len,
		primary_ciphertext, primary_nonce, primary_tag, key_version, created_at, updated_at
		FROM encryption_profiles
		WHERE owner_id = $1;`

	upsertProfileQuery = `INSERT INTO encryption_profiles (
			owner_id,
			salt,
			kdf_algorithm,
			kdf_time,
			kdf_memory_kib,
			kdf_threads,
			kdf_key_len,
			primary_ciphertext,
			primary_nonce,
			primary_tag,
			key_version
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (owner_id) DO UPDATE SET
			salt               = EXCLUDED.salt,
			kdf_algorithm      = EXCLUDED.kdf_algorithm,
			kdf_time           = EXCLUDED.kdf_time,
			kdf_memory_kib     = EXCLUDED.kdf_memory_kib,
			kdf_threads        = EXCLUDED.kdf_threads,
			kdf_key_len        = EXCLUDED.kdf_key_len,
			primary_ciphertext = EXCLUDED.primary_ciphertext,
			primary_nonce      = EXCLUDED.primary_nonce,
			primary_tag        = EXCLUDED.primary_tag,
			key_version        = EXCLUDED.key_version,
			updated_at         = NOW()
		RETURNING created_at, updated_at;`

	deleteProfileQuery = `DELETE FROM encryption_profiles
		WHERE owner_id = $1;`

	getOwnerBackupWrapsQuery = `SELECT code_hash, hash_salt, kdf_salt, wrap_ciphertext, wrap_nonce, wrap_tag, used, used_at
		FROM backup_wraps
		WHERE owner_id = $1
		ORDER BY id;`

	deleteOwnerBackupWrapsQuery = `DELETE FROM backup_wraps
		WHERE owner_id = $1;`

	insertBackupWrapQuery = `INSERT INTO backup_wraps (
			owner_id,
			code_hash,
			hash_salt,
			kdf_salt,
			wrap_ciphertext,
			wrap_nonce,
			wrap_tag,
			used,
			used_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);`

	saveRecordQuery = `INSERT INTO ledger_records (
			owner_id,
			record_uid,
			is_encrypted,
			ciphertext,
			nonce,
			auth_tag,
			key_version,
			occurred_at
		) VALUES ($1, $2, TRUE, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, record_uid) DO UPDATE SET
			is_encrypted = TRUE,
			ciphertext   = EXCLUDED.ciphertext,
			nonce        = EXCLUDED.nonce,
			auth_tag     = EXCLUDED.auth_tag,
			key_version  = EXCLUDED.key_version,
			occurred_at  = EXCLUDED.occurred_at,
			updated_at   = NOW()
		RETURNING id;`

	deleteRecordQuery = `DELETE FROM ledger_records
		WHERE owner_id = $1 AND record_uid = $2
		RETURNING id;`

	deleteAllRecordsQuery = `DELETE FROM ledger_records
		WHERE owner_id = $1;`
)

// ledgerRecordColumns is the full column list of the ledger_records table in
// scan order. Envelope and legacy plaintext columns are both selected; which
// half is populated depends on the is_encrypted flag.
var ledgerRecordColumns = []string{
	"id", "owner_id", "record_uid", "is_encrypted",
	"ciphertext", "nonce", "auth_tag", "key_version",
	"amount", "currency", "description", "category",
	"occurred_at", "created_at", "updated_at",
}

// buildSelectRecordsQuery dynamically builds the ledger SELECT for the given
// filter using squirrel with PostgreSQL ($N) placeholders.
//
// The owner predicate is always present. RecordUIDs, when non-empty, adds an
// IN clause; From and To, when set, bound occurred_at as a half-open window
// [From, To). Results are ordered newest first with id as a tiebreaker.
func buildSelectRecordsQuery(ctx context.Context, filter models.RecordsFilter) (string, []any, error) {
	builder := sq.Select(ledgerRecordColumns...).
		From("ledger_records").
		Where(sq.Eq{"owner_id": filter.OwnerID}).
		PlaceholderFormat(sq.Dollar)

	if len(filter.RecordUIDs) > 0 {
		builder = builder.Where(sq.Eq{"record_uid": filter.RecordUIDs})
	}

	if filter.From != nil {
		builder = builder.Where(sq.GtOrEq{"occurred_at": *filter.From})
	}

	if filter.To != nil {
		builder = builder.Where(sq.Lt{"occurred_at": *filter.To})
	}

	query, args, err := builder.
		OrderBy("occurred_at DESC", "id DESC").
		ToSql()
	if err != nil {
		logger.FromContext(ctx).Err(err).
			Str("func", "buildSelectRecordsQuery").
			Int64("owner_id", filter.OwnerID).
			Msg("failed to build SQL query")
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
