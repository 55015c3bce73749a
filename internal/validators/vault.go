package validators

import (
	"context"
	"fmt"

	"github.com/MKhiriev/fin-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	// FieldOwnerID targets the owner identifier of a profile, record or request.
	FieldOwnerID = "owner_id"

	// FieldSalt targets the key derivation salt of an encryption profile.
	FieldSalt = "salt"

	// FieldKDFParams targets the key derivation parameter block of a profile.
	FieldKDFParams = "kdf_params"

	// FieldPrimaryWrap targets the password-protected key wrap of a profile.
	FieldPrimaryWrap = "primary_wrap"

	// FieldBackupWraps targets the backup code wrap entries of a profile.
	FieldBackupWraps = "backup_wraps"

	// FieldKeyVersion targets the key version counter of a profile or record.
	FieldKeyVersion = "key_version"

	// FieldRecordUID targets the client-generated unique identifier of a ledger record.
	FieldRecordUID = "record_uid"

	// FieldCiphertext targets the encrypted payload of a ledger record.
	FieldCiphertext = "ciphertext"

	// FieldNonce targets the AEAD nonce of a ledger record.
	FieldNonce = "nonce"

	// FieldAuthTag targets the AEAD authentication tag of a ledger record.
	FieldAuthTag = "auth_tag"

	// FieldOccurredAt targets the business timestamp of a ledger record.
	FieldOccurredAt = "occurred_at"

	// FieldRecords targets the list of ledger records in an upload request.
	FieldRecords = "records"

	// FieldTimeRange targets the From/To window of a records filter.
	FieldTimeRange = "time_range"

	// FieldCurrency targets the ISO currency code of a transaction.
	FieldCurrency = "currency"
)

// maxBackupWraps caps the number of backup wrap entries a profile may carry.
// A full batch of recovery codes produces exactly this many wraps.
const maxBackupWraps = 8

// VaultValidator implements the Validator interface for all
// vault-related domain models: EncryptionProfile, EncryptedRecord,
// UploadRecordsRequest, RecordsFilter, and Transaction.
//
// It supports both value and pointer receivers for every model type
// and allows optional field-level scoping via variadic field name arguments.
type VaultValidator struct {
}

// NewVaultValidator constructs a new VaultValidator
// and returns it as the Validator interface.
func NewVaultValidator() Validator {
	return &VaultValidator{}
}

// Validate dispatches validation to the appropriate type-specific method
// based on the dynamic type of obj. Both value and pointer forms of each
// supported model are accepted.
//
// Supported types:
//   - models.EncryptionProfile / *models.EncryptionProfile
//   - models.EncryptedRecord / *models.EncryptedRecord
//   - models.UploadRecordsRequest / *models.UploadRecordsRequest
//   - models.RecordsFilter / *models.RecordsFilter
//   - models.Transaction / *models.Transaction
//
// Returns ErrUnsupportedType if obj does not match any known model.
// Optional fields restrict validation to the named subset; when omitted,
// a sensible default set of fields is validated.
func (v *VaultValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.EncryptionProfile:
		return v.validateEncryptionProfile(ctx, value, fields...)
	case *models.EncryptionProfile:
		return v.validateEncryptionProfile(ctx, *value, fields...)

	case models.EncryptedRecord:
		return v.validateEncryptedRecord(ctx, value, fields...)
	case *models.EncryptedRecord:
		return v.validateEncryptedRecord(ctx, *value, fields...)

	case models.UploadRecordsRequest:
		return v.validateUploadRecordsRequest(ctx, value, fields...)
	case *models.UploadRecordsRequest:
		return v.validateUploadRecordsRequest(ctx, *value, fields...)

	case models.RecordsFilter:
		return v.validateRecordsFilter(ctx, value, fields...)
	case *models.RecordsFilter:
		return v.validateRecordsFilter(ctx, *value, fields...)

	case models.Transaction:
		return v.validateTransaction(ctx, value, fields...)
	case *models.Transaction:
		return v.validateTransaction(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

// isCompleteWrap reports whether a key wrap carries all three AEAD
// components: ciphertext, nonce and authentication tag.
func isCompleteWrap(wrap models.KeyWrap) bool {
	return len(wrap.Ciphertext) > 0 && len(wrap.Nonce) > 0 && len(wrap.Tag) > 0
}

// validateEncryptionProfile validates a single EncryptionProfile model.
//
// Default validated fields (when none specified):
// OwnerID, Salt, KDFParams, PrimaryWrap, BackupWraps, KeyVersion.
//
// The server never inspects wrapped key material. Validation here is purely
// structural: every wrap the client submits must be complete, every backup
// entry must carry its code hash and both salts, and the key version must
// have started counting.
//
// Returns the first encountered validation error or nil.
func (v *VaultValidator) validateEncryptionProfile(ctx context.Context, profile models.EncryptionProfile, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldSalt, FieldKDFParams, FieldPrimaryWrap, FieldBackupWraps, FieldKeyVersion}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if profile.OwnerID <= 0 {
				return ErrInvalidOwnerID
			}
		case FieldSalt:
			if len(profile.Salt) == 0 {
				return ErrEmptySalt
			}
		case FieldKDFParams:
			if profile.KDFParams.IsZero() || profile.KDFParams.Algorithm == "" {
				return ErrInvalidKDFParams
			}
		case FieldPrimaryWrap:
			if !isCompleteWrap(profile.PrimaryWrap) {
				return ErrIncompleteWrap
			}
		case FieldBackupWraps:
			if len(profile.BackupWraps) > maxBackupWraps {
				return ErrTooManyBackups
			}
			for i, bw := range profile.BackupWraps {
				if len(bw.CodeHash) == 0 || len(bw.HashSalt) == 0 || len(bw.KDFSalt) == 0 || !isCompleteWrap(bw.Wrap) {
					return fmt.Errorf("validation error at index %d: %w", i, ErrIncompleteBackup)
				}
			}
		case FieldKeyVersion:
			if profile.KeyVersion < 1 {
				return ErrInvalidKeyVersion
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateEncryptedRecord validates a single EncryptedRecord model.
//
// Default validated fields (when none specified):
// RecordUID, OwnerID, Ciphertext, Nonce, AuthTag, KeyVersion, OccurredAt.
//
// Returns the first encountered validation error or nil.
func (v *VaultValidator) validateEncryptedRecord(ctx context.Context, record models.EncryptedRecord, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecordUID, FieldOwnerID, FieldCiphertext, FieldNonce, FieldAuthTag, FieldKeyVersion, FieldOccurredAt}
	}

	for _, f := range fields {
		switch f {
		case FieldRecordUID:
			if record.RecordUID == "" {
				return ErrInvalidRecordUID
			}
		case FieldOwnerID:
			if record.OwnerID <= 0 {
				return ErrInvalidOwnerID
			}
		case FieldCiphertext:
			if len(record.Ciphertext) == 0 {
				return ErrEmptyCiphertext
			}
		case FieldNonce:
			if len(record.Nonce) == 0 {
				return ErrEmptyNonce
			}
		case FieldAuthTag:
			if len(record.AuthTag) == 0 {
				return ErrEmptyAuthTag
			}
		case FieldKeyVersion:
			if record.KeyVersion < 1 {
				return ErrInvalidKeyVersion
			}
		case FieldOccurredAt:
			if record.OccurredAt.IsZero() {
				return ErrInvalidOccurredAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateUploadRecordsRequest validates an UploadRecordsRequest, which
// contains a batch of encrypted ledger records to be persisted.
//
// Default validated fields: Records.
//
// When FieldRecords is validated, each item in Records is individually
// checked with validateEncryptedRecord. The owner field is skipped per
// item because the server stamps it from the authenticated request.
//
// Returns a wrapped error indicating the index of the first invalid item.
func (v *VaultValidator) validateUploadRecordsRequest(ctx context.Context, request models.UploadRecordsRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldRecords}
	}

	for _, f := range fields {
		switch f {
		case FieldRecords:
			if len(request.Records) == 0 {
				return ErrEmptyRecords
			}
			for i, record := range request.Records {
				if err := v.validateEncryptedRecord(ctx, *record, FieldRecordUID, FieldCiphertext, FieldNonce, FieldAuthTag, FieldKeyVersion, FieldOccurredAt); err != nil {
					return fmt.Errorf("validation error at index %d: %w", i, err)
				}
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateRecordsFilter validates a RecordsFilter used to scope ledger queries.
//
// Default validated fields: OwnerID, TimeRange.
//
// The time range check only triggers when both bounds are set; open-ended
// windows are valid.
func (v *VaultValidator) validateRecordsFilter(ctx context.Context, filter models.RecordsFilter, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldOwnerID, FieldTimeRange}
	}

	for _, f := range fields {
		switch f {
		case FieldOwnerID:
			if filter.OwnerID <= 0 {
				return ErrInvalidOwnerID
			}
		case FieldTimeRange:
			if filter.From != nil && filter.To != nil && filter.From.After(*filter.To) {
				return ErrInvalidTimeRange
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

// validateTransaction validates a plaintext Transaction before it is
// encrypted on the client. The record UID is allowed to be empty here
// because the codec assigns one during encryption.
//
// Default validated fields: Currency, OccurredAt.
func (v *VaultValidator) validateTransaction(ctx context.Context, tx models.Transaction, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldCurrency, FieldOccurredAt}
	}

	for _, f := range fields {
		switch f {
		case FieldCurrency:
			if tx.Currency != "" && len(tx.Currency) != 3 {
				return ErrInvalidCurrency
			}
		case FieldOccurredAt:
			if tx.OccurredAt.IsZero() {
				return ErrInvalidOccurredAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
