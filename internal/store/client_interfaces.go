package store

import (
	"context"

	"github.com/MKhiriev/fin-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// EnvelopeCacheRepository is the local mirror of server-side vault state.
// It stores the encryption profile and ledger envelopes exactly as the server
// returns them, wrapped key material and ciphertext included, so the client
// can unlock and read the ledger while offline. Plaintext never reaches it.
type EnvelopeCacheRepository interface {
	PutProfile(ctx context.Context, profile models.EncryptionProfile) error
	GetProfile(ctx context.Context, ownerID int64) (models.EncryptionProfile, error)
	DeleteProfile(ctx context.Context, ownerID int64) error

	PutRecords(ctx context.Context, ownerID int64, records ...models.RecordEnvelope) error
	GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error)
	DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error

	// Purge drops all cached state of the owner, profile and ledger alike.
	// Used by the hard reset flow.
	Purge(ctx context.Context, ownerID int64) error
}
