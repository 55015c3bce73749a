package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/fin-keeper/internal/adapter"
	"github.com/MKhiriev/fin-keeper/internal/app"
	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/crypto"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/mock"
	"github.com/MKhiriev/fin-keeper/internal/validators"
	"github.com/MKhiriev/fin-keeper/models"
)

type clientLedgerMocks struct {
	cache   *mock.MockEnvelopeCacheRepository
	adapter *mock.MockServerAdapter
	codec   *mock.MockRecordCodec
	vault   *mock.MockVaultService
}

// newTestClientLedgerSvc — хелпер для создания clientLedgerService с моками
func newTestClientLedgerSvc(t *testing.T, ctrl *gomock.Controller) (ClientLedgerService, clientLedgerMocks) {
	t.Helper()
	m := clientLedgerMocks{
		cache:   mock.NewMockEnvelopeCacheRepository(ctrl),
		adapter: mock.NewMockServerAdapter(ctrl),
		codec:   mock.NewMockRecordCodec(ctrl),
		vault:   mock.NewMockVaultService(ctrl),
	}

	svc := NewClientLedgerService(m.cache, m.adapter, m.codec, m.vault, config.ClientApp{OwnerID: testOwnerID}, logger.Nop())

	return svc, m
}

func testTransaction() models.Transaction {
	return models.Transaction{
		RecordUID:   "rec-1",
		Amount:      -5000,
		Currency:    "EUR",
		Description: "coffee",
		Category:    "food",
		OccurredAt:  time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC),
	}
}

func sealedEnvelope(uid string, keyVersion int64) models.RecordEnvelope {
	return models.RecordEnvelope{Encrypted: &models.EncryptedRecord{
		RecordUID:  uid,
		OwnerID:    testOwnerID,
		Ciphertext: []byte("sealed payload"),
		Nonce:      []byte("unique nonce"),
		AuthTag:    []byte("authentication"),
		KeyVersion: keyVersion,
		OccurredAt: time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC),
	}}
}

// ── AddTransaction ───────────────────────────────────────────────────────────

func TestClientLedgerService_AddTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	session := crypto.NewSessionKey(make([]byte, 32), 3)
	tx := testTransaction()
	tx.RecordUID = "" // UID назначается сервисом

	gomock.InOrder(
		m.vault.EXPECT().Session().Return(session, nil),
		m.codec.EXPECT().EncryptRecord(session, gomock.Any()).DoAndReturn(
			func(_ *crypto.SessionKey, got models.Transaction) (models.EncryptedRecord, error) {
				assert.NotEmpty(t, got.RecordUID)
				assert.Equal(t, int64(-5000), got.Amount)
				sealed := *sealedEnvelope(got.RecordUID, 3).Encrypted
				sealed.OwnerID = 0 // владельца проставляет сервис
				return sealed, nil
			},
		),
		m.adapter.EXPECT().UploadRecords(ctx, gomock.Any()).DoAndReturn(
			func(_ context.Context, records ...*models.EncryptedRecord) error {
				require.Len(t, records, 1)
				assert.Equal(t, testOwnerID, records[0].OwnerID)
				return nil
			},
		),
		m.cache.EXPECT().PutRecords(ctx, testOwnerID, gomock.Any()).Return(nil),
	)

	saved, err := svc.AddTransaction(ctx, tx)

	require.NoError(t, err)
	assert.NotEmpty(t, saved.RecordUID)
	assert.Equal(t, "coffee", saved.Description)
}

func TestClientLedgerService_AddTransaction_VaultLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)

	m.vault.EXPECT().Session().Return(nil, ErrVaultLocked)

	_, err := svc.AddTransaction(context.Background(), testTransaction())

	require.ErrorIs(t, err, ErrVaultLocked)
}

func TestClientLedgerService_AddTransaction_InvalidCurrency(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)

	m.vault.EXPECT().Session().Return(crypto.NewSessionKey(make([]byte, 32), 1), nil)

	tx := testTransaction()
	tx.Currency = "EURO"

	_, err := svc.AddTransaction(context.Background(), tx)

	require.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrInvalidCurrency)
}

func TestClientLedgerService_AddTransaction_UploadFailureNothingCached(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	session := crypto.NewSessionKey(make([]byte, 32), 3)

	m.vault.EXPECT().Session().Return(session, nil)
	m.codec.EXPECT().EncryptRecord(session, gomock.Any()).
		Return(*sealedEnvelope("rec-1", 3).Encrypted, nil)
	m.adapter.EXPECT().UploadRecords(ctx, gomock.Any()).
		Return(fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpiredOrInvalid))

	// Кэш не трогаем: сервер записи не принял
	_, err := svc.AddTransaction(ctx, testTransaction())

	require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

// ── ListTransactions ─────────────────────────────────────────────────────────

func TestClientLedgerService_ListTransactions_DecryptsAndSkipsOldGenerations(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	session := crypto.NewSessionKey(make([]byte, 32), 3)
	current := sealedEnvelope("rec-current", 3)
	stale := sealedEnvelope("rec-stale", 2)
	legacyTx := testTransaction()
	legacyTx.RecordUID = "rec-legacy"
	legacy := models.RecordEnvelope{Plain: &legacyTx}

	m.vault.EXPECT().Session().Return(session, nil)
	m.adapter.EXPECT().ListRecords(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
			// Фильтр принудительно ограничен владельцем
			assert.Equal(t, testOwnerID, filter.OwnerID)
			return []models.RecordEnvelope{current, stale, legacy}, nil
		},
	)
	m.cache.EXPECT().PutRecords(ctx, testOwnerID, gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, records ...models.RecordEnvelope) error {
			assert.Len(t, records, 3)
			return nil
		},
	)

	decrypted := testTransaction()
	decrypted.RecordUID = "rec-current"
	m.codec.EXPECT().DecryptRecord(session, *current.Encrypted).Return(decrypted, nil)
	// Запись предыдущего поколения пропускается, а не роняет весь список
	m.codec.EXPECT().DecryptRecord(session, *stale.Encrypted).
		Return(models.Transaction{}, crypto.ErrKeyVersionMismatch)

	transactions, err := svc.ListTransactions(ctx, models.RecordsFilter{})

	require.NoError(t, err)
	require.Len(t, transactions, 2)
	assert.Equal(t, "rec-current", transactions[0].RecordUID)
	assert.Equal(t, "rec-legacy", transactions[1].RecordUID)
}

func TestClientLedgerService_ListTransactions_OfflineReadsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	session := crypto.NewSessionKey(make([]byte, 32), 3)
	envelope := sealedEnvelope("rec-1", 3)

	m.vault.EXPECT().Session().Return(session, nil)
	m.adapter.EXPECT().ListRecords(ctx, gomock.Any()).
		Return(nil, errors.New("dial tcp 127.0.0.1:8080: connect: connection refused"))
	m.cache.EXPECT().GetRecords(ctx, gomock.Any()).
		Return([]models.RecordEnvelope{envelope}, nil)
	m.codec.EXPECT().DecryptRecord(session, *envelope.Encrypted).Return(testTransaction(), nil)

	transactions, err := svc.ListTransactions(ctx, models.RecordsFilter{})

	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "coffee", transactions[0].Description)
}

func TestClientLedgerService_ListTransactions_AuthFailureSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	m.vault.EXPECT().Session().Return(crypto.NewSessionKey(make([]byte, 32), 1), nil)
	// Ответ сервера с ошибкой статуса не считается недоступностью:
	// кэш в этом случае не читается
	m.adapter.EXPECT().ListRecords(ctx, gomock.Any()).
		Return(nil, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpiredOrInvalid))

	_, err := svc.ListTransactions(ctx, models.RecordsFilter{})

	require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}

func TestClientLedgerService_ListTransactions_TamperedRecordSurfaces(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	session := crypto.NewSessionKey(make([]byte, 32), 3)
	envelope := sealedEnvelope("rec-1", 3)

	m.vault.EXPECT().Session().Return(session, nil)
	m.adapter.EXPECT().ListRecords(ctx, gomock.Any()).
		Return([]models.RecordEnvelope{envelope}, nil)
	m.cache.EXPECT().PutRecords(ctx, testOwnerID, gomock.Any()).Return(nil)
	m.codec.EXPECT().DecryptRecord(session, *envelope.Encrypted).
		Return(models.Transaction{}, crypto.ErrAuthenticationFailed)

	_, err := svc.ListTransactions(ctx, models.RecordsFilter{})

	require.ErrorIs(t, err, crypto.ErrAuthenticationFailed)
	assert.Contains(t, err.Error(), "open sealed record rec-1")
}

func TestClientLedgerService_ListTransactions_VaultLocked(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)

	m.vault.EXPECT().Session().Return(nil, ErrVaultLocked)

	_, err := svc.ListTransactions(context.Background(), models.RecordsFilter{})

	require.ErrorIs(t, err, ErrVaultLocked)
}

// ── DeleteTransaction ────────────────────────────────────────────────────────

func TestClientLedgerService_DeleteTransaction_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		m.vault.EXPECT().Session().Return(crypto.NewSessionKey(make([]byte, 32), 1), nil),
		m.adapter.EXPECT().DeleteRecord(ctx, "rec-1").Return(nil),
		m.cache.EXPECT().DeleteRecord(ctx, testOwnerID, "rec-1").Return(nil),
	)

	err := svc.DeleteTransaction(ctx, "rec-1")

	require.NoError(t, err)
}

func TestClientLedgerService_DeleteTransaction_NotFoundStillDropsCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	gomock.InOrder(
		m.vault.EXPECT().Session().Return(crypto.NewSessionKey(make([]byte, 32), 1), nil),
		// Запись уже удалена на сервере: локальную копию всё равно убираем
		m.adapter.EXPECT().DeleteRecord(ctx, "rec-1").
			Return(fmt.Errorf("%w: %s", adapter.ErrNotFound, app.MsgRecordNotFound)),
		m.cache.EXPECT().DeleteRecord(ctx, testOwnerID, "rec-1").Return(nil),
	)

	err := svc.DeleteTransaction(ctx, "rec-1")

	require.NoError(t, err)
}

func TestClientLedgerService_DeleteTransaction_EmptyUID(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)

	m.vault.EXPECT().Session().Return(crypto.NewSessionKey(make([]byte, 32), 1), nil)

	err := svc.DeleteTransaction(context.Background(), "")

	require.ErrorIs(t, err, ErrInvalidDataProvided)
	assert.ErrorIs(t, err, validators.ErrInvalidRecordUID)
}

// ── Refresh ──────────────────────────────────────────────────────────────────

func TestClientLedgerService_Refresh_LockedIsNoOp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)

	// Без сессии обновление не имеет смысла и не является ошибкой
	m.vault.EXPECT().IsUnlocked().Return(false)

	err := svc.Refresh(context.Background())

	require.NoError(t, err)
}

func TestClientLedgerService_Refresh_MirrorsRecords(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	envelopes := []models.RecordEnvelope{sealedEnvelope("rec-1", 1), sealedEnvelope("rec-2", 1)}

	gomock.InOrder(
		m.vault.EXPECT().IsUnlocked().Return(true),
		m.adapter.EXPECT().ListRecords(ctx, models.RecordsFilter{OwnerID: testOwnerID}).
			Return(envelopes, nil),
		m.cache.EXPECT().PutRecords(ctx, testOwnerID, gomock.Any()).DoAndReturn(
			func(_ context.Context, _ int64, records ...models.RecordEnvelope) error {
				assert.Len(t, records, 2)
				return nil
			},
		),
	)

	err := svc.Refresh(ctx)

	require.NoError(t, err)
}

func TestClientLedgerService_Refresh_ServerError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newTestClientLedgerSvc(t, ctrl)
	ctx := context.Background()

	m.vault.EXPECT().IsUnlocked().Return(true)
	m.adapter.EXPECT().ListRecords(ctx, gomock.Any()).
		Return(nil, fmt.Errorf("%w: %s", adapter.ErrUnauthorized, app.MsgTokenIsExpiredOrInvalid))

	err := svc.Refresh(ctx)

	require.ErrorIs(t, err, ErrTokenIsExpiredOrInvalid)
}
