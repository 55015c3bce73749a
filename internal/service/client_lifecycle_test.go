// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/crypto"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/mock"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/validators"
	"github.com/MKhiriev/fin-keeper/models"
)

// TestVaultLifecycle_EndToEnd проходит полный жизненный цикл сейфа с
// настоящей криптографией: сервер и кэш заменены состоянием в памяти,
// ключи выводятся по-настоящему.
func TestVaultLifecycle_EndToEnd(t *testing.T) {
	if testing.Short() {
		t.Skip("full lifecycle runs dozens of Argon2id derivations")
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAdapter := mock.NewMockServerAdapter(ctrl)
	mockCache := mock.NewMockEnvelopeCacheRepository(ctrl)
	ctx := context.Background()

	// Сервер и кэш в памяти
	var (
		serverProfile *models.EncryptionProfile
		serverRecords []models.RecordEnvelope
		cachedProfile *models.EncryptionProfile
		cachedRecords []models.RecordEnvelope
	)

	upsert := func(list []models.RecordEnvelope, envelope models.RecordEnvelope) []models.RecordEnvelope {
		for i := range list {
			if list[i].RecordUID() == envelope.RecordUID() {
				list[i] = envelope
				return list
			}
		}
		return append(list, envelope)
	}

	mockAdapter.EXPECT().GetProfile(gomock.Any()).DoAndReturn(
		func(context.Context) (models.EncryptionProfile, error) {
			if serverProfile == nil {
				return models.EncryptionProfile{}, errProfileNotFoundHTTP
			}
			return *serverProfile, nil
		},
	).AnyTimes()
	mockAdapter.EXPECT().PutProfile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error) {
			stored := profile
			serverProfile = &stored
			return stored, nil
		},
	).AnyTimes()
	mockAdapter.EXPECT().UploadRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, records ...*models.EncryptedRecord) error {
			for _, record := range records {
				stored := *record
				serverRecords = upsert(serverRecords, models.RecordEnvelope{Encrypted: &stored})
			}
			return nil
		},
	).AnyTimes()
	mockAdapter.EXPECT().ListRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.RecordsFilter) ([]models.RecordEnvelope, error) {
			return append([]models.RecordEnvelope(nil), serverRecords...), nil
		},
	).AnyTimes()

	mockCache.EXPECT().PutProfile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, profile models.EncryptionProfile) error {
			stored := profile
			cachedProfile = &stored
			return nil
		},
	).AnyTimes()
	mockCache.EXPECT().GetProfile(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, int64) (models.EncryptionProfile, error) {
			if cachedProfile == nil {
				return models.EncryptionProfile{}, store.ErrProfileNotFound
			}
			return *cachedProfile, nil
		},
	).AnyTimes()
	mockCache.EXPECT().PutRecords(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, _ int64, records ...models.RecordEnvelope) error {
			for _, envelope := range records {
				cachedRecords = upsert(cachedRecords, envelope)
			}
			return nil
		},
	).AnyTimes()
	mockCache.EXPECT().GetRecords(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, models.RecordsFilter) ([]models.RecordEnvelope, error) {
			return append([]models.RecordEnvelope(nil), cachedRecords...), nil
		},
	).AnyTimes()
	mockCache.EXPECT().Purge(gomock.Any(), gomock.Any()).DoAndReturn(
		func(context.Context, int64) error {
			cachedProfile = nil
			cachedRecords = nil
			return nil
		},
	).AnyTimes()

	appCfg := config.ClientApp{OwnerID: testOwnerID}
	vault := NewVaultService(mockCache, mockAdapter, crypto.NewKeyChainService(), crypto.NewBackupCodeService(), appCfg, logger.Nop())
	ledger := NewClientLedgerService(mockCache, mockAdapter, crypto.NewRecordCodec(), vault, appCfg, logger.Nop())

	// До регистрации профиля нет
	assert.Equal(t, StateUnknown, vault.State())
	present, err := vault.IsProfilePresent(ctx)
	require.NoError(t, err)
	assert.False(t, present)
	assert.Equal(t, StateNoProfile, vault.State())

	// Регистрация: сейф открывается, выдаются резервные коды
	session, codes, err := vault.Setup(ctx, "correct horse 1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), session.KeyVersion())
	require.Len(t, codes, crypto.BackupCodeCount)
	for _, code := range codes {
		assert.NoError(t, validators.ValidateBackupCodeFormat(code))
	}
	require.NotNil(t, serverProfile)
	assert.Len(t, serverProfile.BackupWraps, crypto.BackupCodeCount)

	// Запись уходит на сервер запечатанной
	saved, err := ledger.AddTransaction(ctx, models.Transaction{
		Amount:      -5000,
		Currency:    "EUR",
		Description: "coffee",
		Category:    "food",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, saved.RecordUID)
	require.Len(t, serverRecords, 1)
	sealed := serverRecords[0].Encrypted
	require.NotNil(t, sealed)
	assert.Equal(t, int64(1), sealed.KeyVersion)
	assert.False(t, bytes.Contains(sealed.Ciphertext, []byte("coffee")), "описание не должно утекать в шифротекст")

	// Блокировка закрывает доступ к записям
	vault.Lock()
	_, err = ledger.ListTransactions(ctx, models.RecordsFilter{})
	require.ErrorIs(t, err, ErrVaultLocked)

	// Неверный пароль против настоящего AEAD
	_, err = vault.Unlock(ctx, "wrong password 1")
	require.ErrorIs(t, err, ErrInvalidPassword)

	// Верный пароль открывает и расшифровывает
	_, err = vault.Unlock(ctx, "correct horse 1")
	require.NoError(t, err)
	transactions, err := ledger.ListTransactions(ctx, models.RecordsFilter{})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "coffee", transactions[0].Description)
	assert.Equal(t, int64(-5000), transactions[0].Amount)

	// Восстановление резервным кодом со сменой пароля
	vault.Lock()
	_, freshCodes, err := vault.Recover(ctx, codes[2], "brand new pass 1")
	require.NoError(t, err)
	require.Len(t, freshCodes, crypto.BackupCodeCount)
	assert.NotEqual(t, codes, freshCodes, "после восстановления выдаётся свежая партия кодов")
	assert.True(t, vault.IsUnlocked())

	// DEK пережил восстановление: старая запись по-прежнему читается
	transactions, err = ledger.ListTransactions(ctx, models.RecordsFilter{})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "coffee", transactions[0].Description)

	// Старый код и старый пароль больше не работают
	vault.Lock()
	_, _, err = vault.Recover(ctx, codes[2], "")
	require.ErrorIs(t, err, ErrInvalidBackupCode)
	_, err = vault.Unlock(ctx, "correct horse 1")
	require.ErrorIs(t, err, ErrInvalidPassword)
	_, err = vault.Unlock(ctx, "brand new pass 1")
	require.NoError(t, err)

	// Смена пароля перекладывает только первичную обёртку
	slotsBefore := append([]models.BackupWrap(nil), serverProfile.BackupWraps...)
	require.NoError(t, vault.ChangePassword(ctx, "brand new pass 1", "final password 1"))
	assert.Equal(t, slotsBefore, serverProfile.BackupWraps, "резервные слоты не должны меняться при смене пароля")
	assert.Equal(t, int64(1), serverProfile.KeyVersion)

	vault.Lock()
	_, err = vault.Unlock(ctx, "final password 1")
	require.NoError(t, err)

	// Жёсткий сброс: новое поколение ключа, старые записи не читаются
	session2, resetCodes, err := vault.HardReset(ctx, "hard reset pass 1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), session2.KeyVersion())
	require.Len(t, resetCodes, crypto.BackupCodeCount)

	transactions, err = ledger.ListTransactions(ctx, models.RecordsFilter{})
	require.NoError(t, err)
	assert.Empty(t, transactions, "записи прежнего поколения пропускаются")

	// Новая запись живёт уже под новым ключом
	_, err = ledger.AddTransaction(ctx, models.Transaction{Amount: -240, Description: "groceries"})
	require.NoError(t, err)
	transactions, err = ledger.ListTransactions(ctx, models.RecordsFilter{})
	require.NoError(t, err)
	require.Len(t, transactions, 1)
	assert.Equal(t, "groceries", transactions[0].Description)
}
