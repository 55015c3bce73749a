package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/validators"
	"github.com/MKhiriev/fin-keeper/models"
)

// LedgerValidationService decorates a LedgerService with input validation,
// so the inner service and the repositories below it only ever see
// structurally sound data.
type LedgerValidationService struct {
	inner     LedgerService
	validator validators.Validator
}

// NewLedgerValidationService returns a LedgerServiceWrapper performing
// structural validation of sealed records and filters.
func NewLedgerValidationService() LedgerServiceWrapper {
	return &LedgerValidationService{validator: validators.NewVaultValidator()}
}

// Wrap implements [LedgerServiceWrapper].
func (v *LedgerValidationService) Wrap(service LedgerService) LedgerService {
	v.inner = service
	return v
}

// UploadRecords implements [LedgerService]. Every record must carry owner,
// UID, key version and a complete AEAD payload; one bad record rejects the
// whole batch before anything is written.
func (v *LedgerValidationService) UploadRecords(ctx context.Context, records ...*models.EncryptedRecord) error {
	if len(records) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrEmptyRecords)
	}

	for _, record := range records {
		if record == nil {
			return fmt.Errorf("%w: nil record in batch", ErrInvalidDataProvided)
		}
		if err := v.validator.Validate(ctx, record); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
	}

	return v.inner.UploadRecords(ctx, records...)
}

// GetRecords implements [LedgerService].
func (v *LedgerValidationService) GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
	if err := v.validator.Validate(ctx, filter); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	return v.inner.GetRecords(ctx, filter)
}

// DeleteRecord implements [LedgerService].
func (v *LedgerValidationService) DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error {
	if ownerID <= 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidOwnerID)
	}
	if recordUID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidRecordUID)
	}

	return v.inner.DeleteRecord(ctx, ownerID, recordUID)
}
