package service

import (
	"context"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
)

// appInfoService serves the build metadata stamped into the binary at link
// time.
type appInfoService struct {
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

// NewAppInfoService returns an AppInfoService for the given build info.
// Returns ErrVersionIsNotSpecified when the build carries no version at
// all, which means the binary was built without the release ldflags.
func NewAppInfoService(buildInfo models.AppBuildInfo, logger *logger.Logger) (AppInfoService, error) {
	if buildInfo.BuildVersion() == "" {
		return nil, ErrVersionIsNotSpecified
	}

	return &appInfoService{
		buildInfo: buildInfo,
		logger:    logger,
	}, nil
}

// GetBuildInfo implements [AppInfoService].
func (a *appInfoService) GetBuildInfo(ctx context.Context) models.VersionResponse {
	return models.VersionResponse{
		BuildVersion: a.buildInfo.BuildVersion(),
		BuildDate:    a.buildInfo.BuildDate(),
		BuildCommit:  a.buildInfo.BuildCommit(),
	}
}
