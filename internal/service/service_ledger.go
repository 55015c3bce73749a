package service

import (
	"context"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/models"
)

// ledgerService stores and serves sealed ledger records. It is a thin layer
// over the repository: all input checking lives in the validation wrapper
// returned by [NewLedgerValidationService].
type ledgerService struct {
	ledgerRepository store.LedgerRepository
	logger           *logger.Logger
}

// NewLedgerService returns a LedgerService backed by the given repository.
func NewLedgerService(ledgerRepository store.LedgerRepository, logger *logger.Logger) LedgerService {
	return &ledgerService{
		ledgerRepository: ledgerRepository,
		logger:           logger,
	}
}

// UploadRecords implements [LedgerService].
func (l *ledgerService) UploadRecords(ctx context.Context, records ...*models.EncryptedRecord) error {
	return l.ledgerRepository.SaveRecords(ctx, records...)
}

// GetRecords implements [LedgerService].
func (l *ledgerService) GetRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
	return l.ledgerRepository.GetRecords(ctx, filter)
}

// DeleteRecord implements [LedgerService].
func (l *ledgerService) DeleteRecord(ctx context.Context, ownerID int64, recordUID string) error {
	return l.ledgerRepository.DeleteRecord(ctx, ownerID, recordUID)
}
