// Package service contains the business logic of fin-keeper: the server-side
// vault services guarding stored profiles and sealed records, and the
// client-side services orchestrating key management, record IO and cache
// synchronization.
package service

import (
	"context"

	"github.com/MKhiriev/fin-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/services_mock.go -package=mock

// ProfileService manages server-side storage of encryption profiles.
type ProfileService interface {
	// SaveProfile validates and stores the given encryption profile as a
	// full replace of any previous one. Returns ErrKeyVersionConflict when
	// the stored profile carries a newer key version than the uploaded one.
	SaveProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error)
	// GetProfile returns the encryption profile of the given owner.
	GetProfile(ctx context.Context, ownerID int64) (models.EncryptionProfile, error)
}

// LedgerService manages server-side storage of sealed ledger records.
// The server never sees record plaintext; it stores and serves opaque
// ciphertext alongside unencrypted routing fields.
type LedgerService interface {
	// UploadRecords stores the given sealed records, replacing records
	// with matching UIDs.
	UploadRecords(ctx context.Context, records ...*models.EncryptedRecord) error
	// GetRecords returns stored records matching the filter.
	GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error)
	// DeleteRecord removes one record of the given owner.
	DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error
}

// AuthService issues and verifies the bearer tokens that carry owner
// identity into the vault API.
type AuthService interface {
	// CreateToken issues a signed JWT for the given owner.
	CreateToken(ctx context.Context, ownerID int64) (models.Token, error)
	// ParseToken validates the signed token string and extracts its claims.
	// Any failure is reported as ErrTokenIsExpiredOrInvalid.
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

// AppInfoService exposes build metadata of the running server.
type AppInfoService interface {
	// GetBuildInfo returns version, date and commit of the current build.
	GetBuildInfo(ctx context.Context) models.VersionResponse
}

// LedgerServiceWrapper is implemented by decorators that add behavior
// around an existing LedgerService, such as input validation.
type LedgerServiceWrapper interface {
	Wrap(LedgerService) LedgerService // returns the decorated LedgerService
}
