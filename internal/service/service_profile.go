package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/validators"
	"github.com/MKhiriev/fin-keeper/models"
)

// profileService guards server-side encryption profile storage.
//
// The server never inspects the cryptographic content of a profile: it
// validates structural completeness, enforces key version monotonicity and
// stores the rest as opaque bytes.
type profileService struct {
	profileRepository store.ProfileRepository
	ledgerRepository  store.LedgerRepository
	validator         validators.Validator
	logger            *logger.Logger
}

// NewProfileService returns a ProfileService backed by the given repositories.
// The ledger repository is needed to prune sealed records orphaned by a key
// rotation.
func NewProfileService(profileRepository store.ProfileRepository, ledgerRepository store.LedgerRepository, logger *logger.Logger) ProfileService {
	return &profileService{
		profileRepository: profileRepository,
		ledgerRepository:  ledgerRepository,
		validator:         validators.NewVaultValidator(),
		logger:            logger,
	}
}

// SaveProfile implements [ProfileService]. The stored profile is replaced
// wholesale. An upload carrying a key version older than the stored one is
// rejected with ErrKeyVersionConflict so a stale client cannot roll the
// account back to a previous DEK generation. When the upload bumps the key
// version, all sealed records of the owner are pruned: they were sealed
// under a DEK that no longer exists and can never be opened again.
func (p *profileService) SaveProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error) {
	log := logger.FromContext(ctx)

	if err := p.validator.Validate(ctx, profile); err != nil {
		log.Err(err).
			Str("func", "profileService.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("invalid encryption profile provided")
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	keyRotated := false
	existing, err := p.profileRepository.GetProfile(ctx, profile.OwnerID)
	switch {
	case err == nil:
		if existing.KeyVersion > profile.KeyVersion {
			log.Error().
				Str("func", "profileService.SaveProfile").
				Int64("owner_id", profile.OwnerID).
				Int64("stored_key_version", existing.KeyVersion).
				Int64("uploaded_key_version", profile.KeyVersion).
				Msg("rejected profile upload with stale key version")
			return models.EncryptionProfile{}, ErrKeyVersionConflict
		}
		keyRotated = profile.KeyVersion > existing.KeyVersion
	case errors.Is(err, store.ErrProfileNotFound):
		// first enrollment
	default:
		log.Err(err).
			Str("func", "profileService.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to check existing encryption profile")
		return models.EncryptionProfile{}, fmt.Errorf("check existing profile: %w", err)
	}

	saved, err := p.profileRepository.SaveProfile(ctx, profile)
	if err != nil {
		log.Err(err).
			Str("func", "profileService.SaveProfile").
			Int64("owner_id", profile.OwnerID).
			Msg("failed to save encryption profile")
		return models.EncryptionProfile{}, fmt.Errorf("save encryption profile: %w", err)
	}

	if keyRotated {
		if pruneErr := p.ledgerRepository.DeleteAllRecords(ctx, profile.OwnerID); pruneErr != nil {
			// The profile is already saved; leftover ciphertext is
			// unreadable garbage, not a consistency problem.
			log.Err(pruneErr).
				Str("func", "profileService.SaveProfile").
				Int64("owner_id", profile.OwnerID).
				Msg("failed to prune records of previous key generation")
		} else {
			log.Info().
				Str("func", "profileService.SaveProfile").
				Int64("owner_id", profile.OwnerID).
				Int64("key_version", saved.KeyVersion).
				Msg("key version bumped, records of previous generation pruned")
		}
	}

	return saved, nil
}

// GetProfile implements [ProfileService].
func (p *profileService) GetProfile(ctx context.Context, ownerID int64) (models.EncryptionProfile, error) {
	log := logger.FromContext(ctx)

	if ownerID <= 0 {
		return models.EncryptionProfile{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidOwnerID)
	}

	profile, err := p.profileRepository.GetProfile(ctx, ownerID)
	if err != nil {
		if !errors.Is(err, store.ErrProfileNotFound) {
			log.Err(err).
				Str("func", "profileService.GetProfile").
				Int64("owner_id", ownerID).
				Msg("failed to get encryption profile")
		}
		return models.EncryptionProfile{}, fmt.Errorf("get encryption profile: %w", err)
	}

	return profile, nil
}
