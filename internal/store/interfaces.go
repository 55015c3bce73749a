package store

import (
	"context"

	"github.com/MKhiriev/fin-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ProfileRepository persists encryption profiles. The server stores wrapped
// key material as opaque bytes and never inspects it.
type ProfileRepository interface {
	// SaveProfile writes the full profile state (profile row plus all backup
	// wrap entries) in one transaction, replacing any previous state for the
	// owner. Returns the stored profile with refreshed timestamps.
	SaveProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error)

	// GetProfile loads the profile and its backup wraps for the given owner.
	// Returns [ErrProfileNotFound] when no profile exists.
	GetProfile(ctx context.Context, ownerID int64) (models.EncryptionProfile, error)

	// DeleteProfile removes the profile and, via cascade, its backup wraps.
	// Deleting an absent profile is not an error.
	DeleteProfile(ctx context.Context, ownerID int64) error
}

// LedgerRepository persists ledger record envelopes. New records are always
// encrypted; plaintext rows may still exist from imports that predate
// client-side encryption and are served read-only.
type LedgerRepository interface {
	// SaveRecords inserts or replaces one or more encrypted records keyed by
	// (owner_id, record_uid). Re-uploading the same record is idempotent.
	SaveRecords(ctx context.Context, records ...*models.EncryptedRecord) error

	// GetRecords returns record envelopes matching the filter, newest first.
	GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error)

	// DeleteRecord removes a single record. Returns [ErrRecordNotFound] when
	// the record does not exist for the owner.
	DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error

	// DeleteAllRecords removes every record of the owner. Deleting from an
	// empty ledger is not an error.
	DeleteAllRecords(ctx context.Context, ownerID int64) error
}
