package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/MKhiriev/fin-keeper/internal/adapter"
	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/crypto"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/validators"
	"github.com/MKhiriev/fin-keeper/models"
)

// clientLedgerService implements [ClientLedgerService].
//
// Plaintext exists only between this service and its caller: records go
// out sealed, come back sealed, and are held sealed in the local cache.
// Every operation first asks the vault for the session key and fails with
// ErrVaultLocked when there is none.
type clientLedgerService struct {
	cache   store.EnvelopeCacheRepository
	adapter adapter.ServerAdapter
	codec   crypto.RecordCodec
	vault   VaultService

	ownerID   int64
	validator validators.Validator

	logger *logger.Logger
}

// NewClientLedgerService wires record IO to the vault gate, the server
// adapter and the local envelope cache.
func NewClientLedgerService(cache store.EnvelopeCacheRepository, serverAdapter adapter.ServerAdapter, codec crypto.RecordCodec, vault VaultService, appCfg config.ClientApp, logger *logger.Logger) ClientLedgerService {
	return &clientLedgerService{
		cache:     cache,
		adapter:   serverAdapter,
		codec:     codec,
		vault:     vault,
		ownerID:   appCfg.OwnerID,
		validator: validators.NewVaultValidator(),
		logger:    logger,
	}
}

// AddTransaction implements [ClientLedgerService].
func (l *clientLedgerService) AddTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error) {
	log := logger.FromContext(ctx)

	session, err := l.vault.Session()
	if err != nil {
		return models.Transaction{}, err
	}

	if tx.RecordUID == "" {
		tx.RecordUID = uuid.NewString()
	}
	if tx.OccurredAt.IsZero() {
		tx.OccurredAt = time.Now().UTC()
	}

	if err = l.validator.Validate(ctx, tx); err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	record, err := l.codec.EncryptRecord(session, tx)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("seal transaction: %w", err)
	}
	record.OwnerID = l.ownerID

	if err = l.adapter.UploadRecords(ctx, &record); err != nil {
		return models.Transaction{}, fmt.Errorf("upload sealed record: %w", mapAdapterError(err))
	}

	if err = l.cache.PutRecords(ctx, l.ownerID, models.RecordEnvelope{Encrypted: &record}); err != nil {
		log.Err(err).
			Str("func", "clientLedgerService.AddTransaction").
			Int64("owner_id", l.ownerID).
			Str("record_uid", tx.RecordUID).
			Msg("failed to mirror sealed record into cache")
	}

	return tx, nil
}

// ListTransactions implements [ClientLedgerService].
func (l *clientLedgerService) ListTransactions(ctx context.Context, filter models.RecordsFilter) ([]models.Transaction, error) {
	log := logger.FromContext(ctx)

	session, err := l.vault.Session()
	if err != nil {
		return nil, err
	}

	filter.OwnerID = l.ownerID
	envelopes, err := l.fetchEnvelopes(ctx, filter)
	if err != nil {
		return nil, err
	}

	transactions := make([]models.Transaction, 0, len(envelopes))
	for _, envelope := range envelopes {
		switch {
		case envelope.IsEncrypted():
			tx, decErr := l.codec.DecryptRecord(session, *envelope.Encrypted)
			if decErr != nil {
				if errors.Is(decErr, crypto.ErrKeyVersionMismatch) {
					// Запечатано под DEK предыдущего поколения: после
					// жёсткого сброса такие записи больше не читаются.
					log.Warn().
						Str("func", "clientLedgerService.ListTransactions").
						Str("record_uid", envelope.Encrypted.RecordUID).
						Int64("record_key_version", envelope.Encrypted.KeyVersion).
						Int64("session_key_version", session.KeyVersion()).
						Msg("skipping record sealed under older key generation")
					continue
				}
				return nil, fmt.Errorf("open sealed record %s: %w", envelope.Encrypted.RecordUID, decErr)
			}
			transactions = append(transactions, tx)

		case envelope.Plain != nil:
			// Legacy plaintext row written before encryption was enabled.
			transactions = append(transactions, *envelope.Plain)
		}
	}

	return transactions, nil
}

// DeleteTransaction implements [ClientLedgerService].
func (l *clientLedgerService) DeleteTransaction(ctx context.Context, recordUID string) error {
	log := logger.FromContext(ctx)

	if _, err := l.vault.Session(); err != nil {
		return err
	}
	if recordUID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidRecordUID)
	}

	if err := l.adapter.DeleteRecord(ctx, recordUID); err != nil {
		mapped := mapAdapterError(err)
		if !errors.Is(mapped, store.ErrRecordNotFound) {
			return fmt.Errorf("delete record on server: %w", mapped)
		}
		// Already gone on the server; still drop the cached copy.
	}

	if err := l.cache.DeleteRecord(ctx, l.ownerID, recordUID); err != nil {
		log.Err(err).
			Str("func", "clientLedgerService.DeleteTransaction").
			Int64("owner_id", l.ownerID).
			Str("record_uid", recordUID).
			Msg("failed to drop cached record")
	}

	return nil
}

// Refresh implements [ClientLedgerService].
func (l *clientLedgerService) Refresh(ctx context.Context) error {
	if !l.vault.IsUnlocked() {
		return nil
	}

	envelopes, err := l.adapter.ListRecords(ctx, models.RecordsFilter{OwnerID: l.ownerID})
	if err != nil {
		return fmt.Errorf("refresh ledger from server: %w", mapAdapterError(err))
	}

	if err = l.cache.PutRecords(ctx, l.ownerID, envelopes...); err != nil {
		return fmt.Errorf("mirror refreshed records into cache: %w", err)
	}

	l.logger.Debug().
		Str("func", "clientLedgerService.Refresh").
		Int64("owner_id", l.ownerID).
		Int("records", len(envelopes)).
		Msg("ledger cache refreshed")

	return nil
}

// fetchEnvelopes reads matching records from the server and mirrors them
// into the cache. When the server is unreachable the cache serves the
// read instead.
func (l *clientLedgerService) fetchEnvelopes(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
	log := logger.FromContext(ctx)

	envelopes, err := l.adapter.ListRecords(ctx, filter)
	if err == nil {
		if cacheErr := l.cache.PutRecords(ctx, l.ownerID, envelopes...); cacheErr != nil {
			log.Err(cacheErr).
				Str("func", "clientLedgerService.fetchEnvelopes").
				Int64("owner_id", l.ownerID).
				Msg("failed to mirror ledger records into cache")
		}
		return envelopes, nil
	}

	if !isServerUnreachable(err) {
		return nil, fmt.Errorf("list records from server: %w", mapAdapterError(err))
	}

	log.Warn().
		Str("func", "clientLedgerService.fetchEnvelopes").
		Int64("owner_id", l.ownerID).
		Msg("server unreachable, reading ledger from cache")

	cached, cacheErr := l.cache.GetRecords(ctx, filter)
	if cacheErr != nil {
		return nil, fmt.Errorf("read cached records: %w", cacheErr)
	}
	return cached, nil
}
