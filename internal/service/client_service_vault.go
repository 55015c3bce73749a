// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/adapter"
	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/crypto"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/validators"
	"github.com/MKhiriev/fin-keeper/models"
)

const (
	// freeUnlockAttempts is how many consecutive failures are tolerated
	// before the gate starts enforcing pauses.
	freeUnlockAttempts = 3
	// baseBackoffDelay is the pause after the free attempts are spent.
	// It doubles with every further failure.
	baseBackoffDelay = 2 * time.Second
	// maxBackoffDelay caps the enforced pause.
	maxBackoffDelay = 30 * time.Second
)

// vaultService implements [VaultService].
//
// All state transitions run under one mutex, so concurrent unlock attempts
// and lock/unlock races serialize. Key derivation happens inside the
// critical section as well: a second caller waits rather than racing the
// first one for the session slot.
type vaultService struct {
	cache    store.EnvelopeCacheRepository
	adapter  adapter.ServerAdapter
	keychain crypto.KeyChainService
	codes    crypto.BackupCodeService

	// ownerID is the account all operations act for.
	ownerID int64

	mu             sync.Mutex
	session        *crypto.SessionKey
	profileProbed  bool // true once presence has been established either way
	profilePresent bool
	failures       int
	backoffUntil   time.Time
	unlocked       chan struct{}

	// now is stubbed in tests to drive the backoff clock.
	now func() time.Time

	logger *logger.Logger
}

// NewVaultService wires the vault gate to the server adapter, the local
// envelope cache and the crypto services.
func NewVaultService(cache store.EnvelopeCacheRepository, serverAdapter adapter.ServerAdapter, keychain crypto.KeyChainService, codes crypto.BackupCodeService, appCfg config.ClientApp, logger *logger.Logger) VaultService {
	return &vaultService{
		cache:    cache,
		adapter:  serverAdapter,
		keychain: keychain,
		codes:    codes,
		ownerID:  appCfg.OwnerID,
		unlocked: make(chan struct{}),
		now:      time.Now,
		logger:   logger,
	}
}

// IsProfilePresent implements [VaultService].
func (v *vaultService) IsProfilePresent(ctx context.Context) (bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.isProfilePresentLocked(ctx)
}

func (v *vaultService) isProfilePresentLocked(ctx context.Context) (bool, error) {
	_, err := v.loadProfile(ctx)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, ErrProfileMissing):
		return false, nil
	default:
		return false, err
	}
}

// State implements [VaultService].
func (v *vaultService) State() VaultState {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch {
	case v.session != nil:
		return StateUnlocked
	case !v.profileProbed:
		return StateUnknown
	case v.profilePresent:
		return StateLocked
	default:
		return StateNoProfile
	}
}

// IsUnlocked implements [VaultService].
func (v *vaultService) IsUnlocked() bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.session != nil
}

// Session implements [VaultService].
func (v *vaultService) Session() (*crypto.SessionKey, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return nil, ErrVaultLocked
	}
	return v.session, nil
}

// Unlocked implements [VaultService].
func (v *vaultService) Unlocked() <-chan struct{} {
	v.mu.Lock()
	defer v.mu.Unlock()

	return v.unlocked
}

// Lock implements [VaultService].
func (v *vaultService) Lock() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.session == nil {
		return
	}

	v.session.Destroy()
	v.session = nil
	v.unlocked = make(chan struct{})

	v.logger.Info().
		Str("func", "vaultService.Lock").
		Int64("owner_id", v.ownerID).
		Msg("vault locked, session key destroyed")
}

// Setup implements [VaultService].
func (v *vaultService) Setup(ctx context.Context, password string) (*crypto.SessionKey, []string, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidatePassword(password); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	present, err := v.isProfilePresentLocked(ctx)
	if err != nil {
		return nil, nil, err
	}
	if present {
		return nil, nil, ErrProfileAlreadyExists
	}

	// S1: генерируем DEK, оборачиваем его под паролем и резервными кодами
	profile, dek, plainCodes, err := v.buildFreshProfile(password, 1)
	if err != nil {
		return nil, nil, err
	}
	defer crypto.Zero(dek)

	if err = ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("setup cancelled: %w", err)
	}

	// S2: сохраняем профиль на сервере и в кэше, только потом открываем сейф
	saved, err := v.persistProfile(ctx, profile)
	if err != nil {
		return nil, nil, err
	}

	session := crypto.NewSessionKey(dek, saved.KeyVersion)
	v.cacheSessionLocked(session)

	log.Info().
		Str("func", "vaultService.Setup").
		Int64("owner_id", v.ownerID).
		Int64("key_version", saved.KeyVersion).
		Int("backup_codes", len(plainCodes)).
		Msg("vault enrolled and unlocked")

	return session, plainCodes, nil
}

// Unlock implements [VaultService].
func (v *vaultService) Unlock(ctx context.Context, password string) (*crypto.SessionKey, error) {
	log := logger.FromContext(ctx)

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkAttemptAllowedLocked(); err != nil {
		return nil, err
	}

	profile, err := v.loadProfile(ctx)
	if err != nil {
		return nil, err
	}

	kek, err := v.keychain.DeriveKEK(password, profile.Salt, profile.KDFParams)
	if err != nil {
		return nil, fmt.Errorf("derive key from password: %w", err)
	}

	dek, err := v.keychain.UnwrapDEK(profile.PrimaryWrap, kek, crypto.WrapAssociatedData(crypto.WrapPurposePrimary, profile.KeyVersion))
	crypto.Zero(kek)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			v.registerFailureLocked()
			log.Warn().
				Str("func", "vaultService.Unlock").
				Int64("owner_id", v.ownerID).
				Int("consecutive_failures", v.failures).
				Msg("unlock rejected")
			return nil, fmt.Errorf("%w: %v", ErrInvalidPassword, err)
		}
		return nil, fmt.Errorf("unwrap data encryption key: %w", err)
	}
	defer crypto.Zero(dek)

	if err = ctx.Err(); err != nil {
		return nil, fmt.Errorf("unlock cancelled: %w", err)
	}

	session := crypto.NewSessionKey(dek, profile.KeyVersion)
	v.cacheSessionLocked(session)

	log.Info().
		Str("func", "vaultService.Unlock").
		Int64("owner_id", v.ownerID).
		Int64("key_version", profile.KeyVersion).
		Msg("vault unlocked")

	return session, nil
}

// Recover implements [VaultService].
func (v *vaultService) Recover(ctx context.Context, code, newPassword string) (*crypto.SessionKey, []string, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidateBackupCodeFormat(code); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidBackupCode, err)
	}
	if newPassword != "" {
		if err := validators.ValidatePassword(newPassword); err != nil {
			return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkAttemptAllowedLocked(); err != nil {
		return nil, nil, err
	}

	profile, err := v.loadProfile(ctx)
	if err != nil {
		return nil, nil, err
	}

	// R1: ищем слот с совпадающим хэшем кода; просматриваем все слоты,
	// чтобы неверный код стоил столько же времени, сколько верный
	normalized := v.codes.NormalizeBackupCode(code)
	matched := -1
	for i := range profile.BackupWraps {
		slot := &profile.BackupWraps[i]
		if v.codes.VerifyBackupCode(normalized, slot.HashSalt, slot.CodeHash) && !slot.Used && matched < 0 {
			matched = i
		}
	}
	if matched < 0 {
		v.registerFailureLocked()
		log.Warn().
			Str("func", "vaultService.Recover").
			Int64("owner_id", v.ownerID).
			Int("consecutive_failures", v.failures).
			Msg("recovery rejected")
		return nil, nil, ErrInvalidBackupCode
	}

	// R2: выводим ключ из кода и снимаем обёртку с DEK
	slot := profile.BackupWraps[matched]
	codeKEK, err := v.keychain.DeriveKEK(normalized, slot.KDFSalt, profile.KDFParams)
	if err != nil {
		return nil, nil, fmt.Errorf("derive key from backup code: %w", err)
	}

	dek, err := v.keychain.UnwrapDEK(slot.Wrap, codeKEK, crypto.WrapAssociatedData(crypto.WrapPurposeBackup, profile.KeyVersion))
	crypto.Zero(codeKEK)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			v.registerFailureLocked()
			return nil, nil, fmt.Errorf("%w: %v", ErrInvalidBackupCode, err)
		}
		return nil, nil, fmt.Errorf("unwrap data encryption key: %w", err)
	}
	defer crypto.Zero(dek)

	// R3: собираем обновлённый профиль: новая первичная обёртка при смене
	// пароля, свежая партия резервных кодов в любом случае
	updated := profile
	if newPassword != "" {
		newSalt, saltErr := v.keychain.GenerateSalt()
		if saltErr != nil {
			return nil, nil, fmt.Errorf("generate salt: %w", saltErr)
		}
		newKEK, kekErr := v.keychain.DeriveKEK(newPassword, newSalt, profile.KDFParams)
		if kekErr != nil {
			return nil, nil, fmt.Errorf("derive key from new password: %w", kekErr)
		}
		newPrimary, wrapErr := v.keychain.WrapDEK(dek, newKEK, crypto.WrapAssociatedData(crypto.WrapPurposePrimary, profile.KeyVersion))
		crypto.Zero(newKEK)
		if wrapErr != nil {
			return nil, nil, fmt.Errorf("wrap data encryption key: %w", wrapErr)
		}
		updated.Salt = newSalt
		updated.PrimaryWrap = newPrimary
	}

	wraps, freshCodes, err := v.issueBackupWraps(dek, profile.KDFParams, profile.KeyVersion)
	if err != nil {
		return nil, nil, err
	}
	updated.BackupWraps = wraps

	if err = ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("recovery cancelled: %w", err)
	}

	// R4: сохраняем профиль и открываем сейф
	saved, err := v.persistProfile(ctx, updated)
	if err != nil {
		return nil, nil, err
	}

	session := crypto.NewSessionKey(dek, saved.KeyVersion)
	v.cacheSessionLocked(session)

	log.Info().
		Str("func", "vaultService.Recover").
		Int64("owner_id", v.ownerID).
		Int64("key_version", saved.KeyVersion).
		Bool("password_replaced", newPassword != "").
		Msg("vault recovered with backup code, fresh codes issued")

	return session, freshCodes, nil
}

// ChangePassword implements [VaultService].
func (v *vaultService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	if err := validators.ValidatePassword(newPassword); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	if err := v.checkAttemptAllowedLocked(); err != nil {
		return err
	}

	profile, err := v.loadProfile(ctx)
	if err != nil {
		return err
	}

	oldKEK, err := v.keychain.DeriveKEK(oldPassword, profile.Salt, profile.KDFParams)
	if err != nil {
		return fmt.Errorf("derive key from password: %w", err)
	}

	dek, err := v.keychain.UnwrapDEK(profile.PrimaryWrap, oldKEK, crypto.WrapAssociatedData(crypto.WrapPurposePrimary, profile.KeyVersion))
	crypto.Zero(oldKEK)
	if err != nil {
		if errors.Is(err, crypto.ErrAuthenticationFailed) {
			v.registerFailureLocked()
			return fmt.Errorf("%w: %v", ErrInvalidPassword, err)
		}
		return fmt.Errorf("unwrap data encryption key: %w", err)
	}
	defer crypto.Zero(dek)

	newSalt, err := v.keychain.GenerateSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	newKEK, err := v.keychain.DeriveKEK(newPassword, newSalt, profile.KDFParams)
	if err != nil {
		return fmt.Errorf("derive key from new password: %w", err)
	}

	newPrimary, err := v.keychain.WrapDEK(dek, newKEK, crypto.WrapAssociatedData(crypto.WrapPurposePrimary, profile.KeyVersion))
	crypto.Zero(newKEK)
	if err != nil {
		return fmt.Errorf("wrap data encryption key: %w", err)
	}

	// Same DEK, same key version, same backup slots: only the primary
	// wrap and its salt change.
	updated := profile
	updated.Salt = newSalt
	updated.PrimaryWrap = newPrimary

	if err = ctx.Err(); err != nil {
		return fmt.Errorf("password change cancelled: %w", err)
	}

	if _, err = v.persistProfile(ctx, updated); err != nil {
		return err
	}

	v.resetFailuresLocked()

	log.Info().
		Str("func", "vaultService.ChangePassword").
		Int64("owner_id", v.ownerID).
		Msg("primary wrap replaced under new password")

	return nil
}

// HardReset implements [VaultService].
func (v *vaultService) HardReset(ctx context.Context, newPassword string) (*crypto.SessionKey, []string, error) {
	log := logger.FromContext(ctx)

	if err := validators.ValidatePassword(newPassword); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidPassword, err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	profile, err := v.loadProfile(ctx)
	if err != nil {
		return nil, nil, err
	}

	fresh, dek, plainCodes, err := v.buildFreshProfile(newPassword, profile.KeyVersion+1)
	if err != nil {
		return nil, nil, err
	}
	defer crypto.Zero(dek)

	if err = ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("hard reset cancelled: %w", err)
	}

	saved, err := v.adapter.PutProfile(ctx, fresh)
	if err != nil {
		mapped := mapAdapterError(err)
		if errors.Is(mapped, ErrKeyVersionConflict) {
			return nil, nil, mapped
		}
		return nil, nil, fmt.Errorf("%w: %w", ErrPersistenceFailure, mapped)
	}
	saved.OwnerID = v.ownerID

	// Cached records were sealed under the abandoned DEK generation and
	// can never be opened again.
	if err = v.cache.Purge(ctx, v.ownerID); err != nil {
		log.Err(err).
			Str("func", "vaultService.HardReset").
			Int64("owner_id", v.ownerID).
			Msg("failed to purge cached vault state")
	}
	if err = v.cache.PutProfile(ctx, saved); err != nil {
		log.Err(err).
			Str("func", "vaultService.HardReset").
			Int64("owner_id", v.ownerID).
			Msg("failed to mirror new encryption profile into cache")
	}

	session := crypto.NewSessionKey(dek, saved.KeyVersion)
	v.cacheSessionLocked(session)

	log.Info().
		Str("func", "vaultService.HardReset").
		Int64("owner_id", v.ownerID).
		Int64("key_version", saved.KeyVersion).
		Msg("vault hard reset, new data encryption key issued")

	return session, plainCodes, nil
}

// ── Internal helpers ─────────────────────────────────────────────────────

// loadProfile fetches the encryption profile, server first. A reachable
// server is authoritative; its copy is mirrored into the cache. When the
// server cannot be reached at all the cached copy serves as fallback.
// Must be called with v.mu held.
func (v *vaultService) loadProfile(ctx context.Context) (models.EncryptionProfile, error) {
	log := logger.FromContext(ctx)

	profile, err := v.adapter.GetProfile(ctx)
	if err == nil {
		profile.OwnerID = v.ownerID
		v.profileProbed, v.profilePresent = true, true
		if cacheErr := v.cache.PutProfile(ctx, profile); cacheErr != nil {
			log.Err(cacheErr).
				Str("func", "vaultService.loadProfile").
				Int64("owner_id", v.ownerID).
				Msg("failed to mirror encryption profile into cache")
		}
		return profile, nil
	}

	mapped := mapAdapterError(err)
	switch {
	case errors.Is(mapped, ErrProfileMissing):
		v.profileProbed, v.profilePresent = true, false
		return models.EncryptionProfile{}, mapped

	case isServerUnreachable(err):
		log.Warn().
			Str("func", "vaultService.loadProfile").
			Int64("owner_id", v.ownerID).
			Msg("server unreachable, falling back to cached encryption profile")

		cached, cacheErr := v.cache.GetProfile(ctx, v.ownerID)
		if cacheErr != nil {
			if errors.Is(cacheErr, store.ErrProfileNotFound) {
				v.profileProbed, v.profilePresent = true, false
				return models.EncryptionProfile{}, fmt.Errorf("%w: server unreachable and nothing cached", ErrProfileMissing)
			}
			return models.EncryptionProfile{}, fmt.Errorf("read cached profile: %w", cacheErr)
		}
		v.profileProbed, v.profilePresent = true, true
		return cached, nil

	default:
		return models.EncryptionProfile{}, fmt.Errorf("fetch encryption profile: %w", mapped)
	}
}

// persistProfile uploads the profile to the server and mirrors the stored
// copy into the cache. Nothing is cached when the upload fails, so cache
// and server cannot diverge on key material. Must be called with v.mu held.
func (v *vaultService) persistProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error) {
	saved, err := v.adapter.PutProfile(ctx, profile)
	if err != nil {
		mapped := mapAdapterError(err)
		if errors.Is(mapped, ErrKeyVersionConflict) {
			return models.EncryptionProfile{}, mapped
		}
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrPersistenceFailure, mapped)
	}
	saved.OwnerID = v.ownerID

	if cacheErr := v.cache.PutProfile(ctx, saved); cacheErr != nil {
		logger.FromContext(ctx).Err(cacheErr).
			Str("func", "vaultService.persistProfile").
			Int64("owner_id", v.ownerID).
			Msg("failed to mirror encryption profile into cache")
	}

	return saved, nil
}

// buildFreshProfile generates a brand-new DEK and wraps it under the given
// password and a fresh batch of backup codes. Returns the profile, the raw
// DEK (caller scrubs it) and the plaintext codes.
func (v *vaultService) buildFreshProfile(password string, keyVersion int64) (models.EncryptionProfile, []byte, []string, error) {
	salt, err := v.keychain.GenerateSalt()
	if err != nil {
		return models.EncryptionProfile{}, nil, nil, fmt.Errorf("generate salt: %w", err)
	}

	dek, err := v.keychain.GenerateDEK()
	if err != nil {
		return models.EncryptionProfile{}, nil, nil, fmt.Errorf("generate data encryption key: %w", err)
	}

	params := v.keychain.DefaultKDFParams()
	kek, err := v.keychain.DeriveKEK(password, salt, params)
	if err != nil {
		crypto.Zero(dek)
		return models.EncryptionProfile{}, nil, nil, fmt.Errorf("derive key from password: %w", err)
	}

	primaryWrap, err := v.keychain.WrapDEK(dek, kek, crypto.WrapAssociatedData(crypto.WrapPurposePrimary, keyVersion))
	crypto.Zero(kek)
	if err != nil {
		crypto.Zero(dek)
		return models.EncryptionProfile{}, nil, nil, fmt.Errorf("wrap data encryption key: %w", err)
	}

	backupWraps, plainCodes, err := v.issueBackupWraps(dek, params, keyVersion)
	if err != nil {
		crypto.Zero(dek)
		return models.EncryptionProfile{}, nil, nil, err
	}

	profile := models.EncryptionProfile{
		OwnerID:     v.ownerID,
		Salt:        salt,
		KDFParams:   params,
		PrimaryWrap: primaryWrap,
		BackupWraps: backupWraps,
		KeyVersion:  keyVersion,
	}

	return profile, dek, plainCodes, nil
}

// issueBackupWraps generates a batch of backup codes and seals the DEK
// under each of them. Every slot gets its own hash salt and derivation
// salt; the shared KDF parameters come from the profile so all wraps stay
// consistent with it.
func (v *vaultService) issueBackupWraps(dek []byte, params models.KDFParams, keyVersion int64) ([]models.BackupWrap, []string, error) {
	plainCodes, err := v.codes.GenerateBackupCodes()
	if err != nil {
		return nil, nil, fmt.Errorf("generate backup codes: %w", err)
	}

	aad := crypto.WrapAssociatedData(crypto.WrapPurposeBackup, keyVersion)
	wraps := make([]models.BackupWrap, 0, len(plainCodes))
	for _, code := range plainCodes {
		normalized := v.codes.NormalizeBackupCode(code)

		hashSalt, err := v.keychain.GenerateSalt()
		if err != nil {
			return nil, nil, fmt.Errorf("generate hash salt: %w", err)
		}
		kdfSalt, err := v.keychain.GenerateSalt()
		if err != nil {
			return nil, nil, fmt.Errorf("generate derivation salt: %w", err)
		}

		codeKEK, err := v.keychain.DeriveKEK(normalized, kdfSalt, params)
		if err != nil {
			return nil, nil, fmt.Errorf("derive key from backup code: %w", err)
		}

		wrap, err := v.keychain.WrapDEK(dek, codeKEK, aad)
		crypto.Zero(codeKEK)
		if err != nil {
			return nil, nil, fmt.Errorf("wrap data encryption key under backup code: %w", err)
		}

		wraps = append(wraps, models.BackupWrap{
			CodeHash: v.codes.HashBackupCode(normalized, hashSalt),
			HashSalt: hashSalt,
			KDFSalt:  kdfSalt,
			Wrap:     wrap,
		})
	}

	return wraps, plainCodes, nil
}

// cacheSessionLocked installs the session key, marks the vault unlocked
// and resets the failure counter. Must be called with v.mu held.
func (v *vaultService) cacheSessionLocked(session *crypto.SessionKey) {
	if v.session != nil {
		v.session.Destroy()
	} else {
		close(v.unlocked)
	}

	v.session = session
	v.profileProbed, v.profilePresent = true, true
	v.resetFailuresLocked()
}

// checkAttemptAllowedLocked refuses an attempt while the backoff window is
// open. Must be called with v.mu held.
func (v *vaultService) checkAttemptAllowedLocked() error {
	if v.failures < freeUnlockAttempts {
		return nil
	}
	if wait := v.backoffUntil.Sub(v.now()); wait > 0 {
		return fmt.Errorf("%w: retry in %s", ErrTooManyAttempts, wait.Round(time.Second))
	}
	return nil
}

// registerFailureLocked counts a failed credential check and arms the
// backoff window once the free attempts are spent. Must be called with
// v.mu held.
func (v *vaultService) registerFailureLocked() {
	v.failures++
	if v.failures < freeUnlockAttempts {
		return
	}

	delay := baseBackoffDelay << (v.failures - freeUnlockAttempts)
	if delay <= 0 || delay > maxBackoffDelay {
		delay = maxBackoffDelay
	}
	v.backoffUntil = v.now().Add(delay)
}

func (v *vaultService) resetFailuresLocked() {
	v.failures = 0
	v.backoffUntil = time.Time{}
}
