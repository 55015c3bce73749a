package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
)

// SQLite queries for the client-side envelope cache. The cache mirrors the
// server schema closely enough that sync can copy envelopes verbatim; the
// one deviation is profile backup wraps, stored as a single JSON document
// because the cache never queries wrap entries individually.
const (
	getCachedProfileQuery = `SELECT owner_id, salt,
       kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len,
       primary_ciphertext, primary_nonce, primary_tag,
       backup_wraps, key_version, created_at, updated_at
  FROM profile_cache
 WHERE owner_id = ?`

	putCachedProfileQuery = `INSERT INTO profile_cache
       (owner_id, salt,
        kdf_algorithm, kdf_time, kdf_memory_kib, kdf_threads, kdf_key_len,
        primary_ciphertext, primary_nonce, primary_tag,
        backup_wraps, key_version, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT (owner_id) DO UPDATE
   SET salt               = excluded.salt,
       kdf_algorithm      = excluded.kdf_algorithm,
       kdf_time           = excluded.kdf_time,
       kdf_memory_kib     = excluded.kdf_memory_kib,
       kdf_threads        = excluded.kdf_threads,
       kdf_key_len        = excluded.kdf_key_len,
       primary_ciphertext = excluded.primary_ciphertext,
       primary_nonce      = excluded.primary_nonce,
       primary_tag        = excluded.primary_tag,
       backup_wraps       = excluded.backup_wraps,
       key_version        = excluded.key_version,
       created_at         = excluded.created_at,
       updated_at         = excluded.updated_at`

	deleteCachedProfileQuery = `DELETE FROM profile_cache WHERE owner_id = ?`

	putCachedRecordQuery = `INSERT INTO ledger_cache
       (owner_id, record_uid, is_encrypted,
        ciphertext, nonce, auth_tag, key_version,
        amount, currency, description, category,
        occurred_at, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    ON CONFLICT (owner_id, record_uid) DO UPDATE
   SET is_encrypted = excluded.is_encrypted,
       ciphertext   = excluded.ciphertext,
       nonce        = excluded.nonce,
       auth_tag     = excluded.auth_tag,
       key_version  = excluded.key_version,
       amount       = excluded.amount,
       currency     = excluded.currency,
       description  = excluded.description,
       category     = excluded.category,
       occurred_at  = excluded.occurred_at,
       created_at   = excluded.created_at,
       updated_at   = excluded.updated_at`

	deleteCachedRecordQuery = `DELETE FROM ledger_cache
 WHERE owner_id = ? AND record_uid = ?`

	deleteCachedRecordsQuery = `DELETE FROM ledger_cache WHERE owner_id = ?`
)

// ledgerCacheColumns is the SELECT list for ledger_cache rows. Kept in sync
// with scanRecordEnvelope, which reads the same shape minus the surrogate id
// the server table carries.
var ledgerCacheColumns = []string{
	"owner_id",
	"record_uid",
	"is_encrypted",
	"ciphertext",
	"nonce",
	"auth_tag",
	"key_version",
	"amount",
	"currency",
	"description",
	"category",
	"occurred_at",
	"created_at",
	"updated_at",
}

// buildSelectCacheRecordsQuery assembles the ledger_cache SELECT for filter.
// Same filter semantics as the server-side query: optional record UID set,
// half-open [From, To) time window, newest records first.
func buildSelectCacheRecordsQuery(ctx context.Context, filter models.RecordsFilter) (string, []any, error) {
	log := logger.FromContext(ctx)

	builder := sq.Select(ledgerCacheColumns...).
		From("ledger_cache").
		Where(sq.Eq{"owner_id": filter.OwnerID})

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
		OrderBy("occurred_at DESC", "record_uid DESC").
		PlaceholderFormat(sq.Question).
		ToSql()
	if err != nil {
		log.Err(err).
			Str("func", "buildSelectCacheRecordsQuery").
			Int64("owner_id", filter.OwnerID).
			Msg("failed to build SQL query")
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
