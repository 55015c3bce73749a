package service

import (
	"fmt"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/store"
	"github.com/MKhiriev/fin-keeper/models"
)

// Services bundles every server-side service for injection into the
// handler layer.
type Services struct {
	AuthService    AuthService
	ProfileService ProfileService
	LedgerService  LedgerService
	AppInfoService AppInfoService
}

// NewServices wires the server services to their repositories. The ledger
// service is wrapped with input validation so handlers can pass request
// data straight through.
func NewServices(repositories *store.Repositories, cfg *config.ServerConfig, buildInfo models.AppBuildInfo, logger *logger.Logger) (*Services, error) {
	appInfoService, err := NewAppInfoService(buildInfo, logger)
	if err != nil {
		return nil, fmt.Errorf("create app info service: %w", err)
	}

	return &Services{
		AuthService:    NewAuthService(cfg.App, logger),
		ProfileService: NewProfileService(repositories.ProfileRepository, repositories.LedgerRepository, logger),
		LedgerService:  NewLedgerValidationService().Wrap(NewLedgerService(repositories.LedgerRepository, logger)),
		AppInfoService: appInfoService,
	}, nil
}
