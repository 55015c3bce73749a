package service

import (
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/adapter"
	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/crypto"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/internal/validators"
)

// ClientServices bundles every client-side service for injection into the
// terminal UI and the background workers.
type ClientServices struct {
	VaultService        VaultService
	ClientLedgerService ClientLedgerService
	ClientRefreshJob    ClientRefreshJob
}

// NewClientServices wires the client services to the local cache and the
// server adapter, and arms the adapter with a bearer token: the
// pre-issued one from the config when present, otherwise a token signed
// locally with the shared key. A config that carries a token but no owner
// ID gets the owner from the token subject.
func NewClientServices(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, cfg *config.ClientConfig, logger *logger.Logger) (*ClientServices, error) {
	if cfg.App.OwnerID <= 0 && cfg.App.Token != "" {
		ownerID, err := utils.ParseOwnerIDFromJWT(cfg.App.Token)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
		}
		cfg.App.OwnerID = ownerID
	}
	if cfg.App.OwnerID <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDataProvided, validators.ErrInvalidOwnerID)
	}

	token := cfg.App.Token
	if token == "" {
		signed, err := utils.GenerateJWTToken(cfg.App.TokenIssuer, cfg.App.OwnerID, cfg.App.TokenDuration, cfg.App.TokenSignKey)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
		}
		token = signed.SignedString
	}
	serverAdapter.SetToken(token)

	keychain := crypto.NewKeyChainService()
	backupCodes := crypto.NewBackupCodeService()
	codec := crypto.NewRecordCodec()

	vaultService := NewVaultService(storages.EnvelopeCache, serverAdapter, keychain, backupCodes, cfg.App, logger)
	ledgerService := NewClientLedgerService(storages.EnvelopeCache, serverAdapter, codec, vaultService, cfg.App, logger)
	refreshJob := NewClientRefreshJob(vaultService, ledgerService, logger)

	return &ClientServices{
		VaultService:        vaultService,
		ClientLedgerService: ledgerService,
		ClientRefreshJob:    refreshJob,
	}, nil
}
