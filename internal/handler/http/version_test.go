package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/mock"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newVersionHandler(t *testing.T, ctrl *gomock.Controller) (*Handler, *mock.MockAppInfoService) {
	t.Helper()

	appInfoSvc := mock.NewMockAppInfoService(ctrl)
	h := NewHandler(&service.Services{AppInfoService: appInfoSvc}, logger.Nop())

	return h, appInfoSvc
}

func TestGetServerVersion_WritesBuildInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, appInfoSvc := newVersionHandler(t, ctrl)

	want := models.VersionResponse{
		BuildVersion: "1.2.3",
		BuildDate:    "2026-08-01",
		BuildCommit:  "abc1234",
	}
	appInfoSvc.EXPECT().GetBuildInfo(gomock.Any()).Return(want)

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, want, got)
}

func TestGetServerVersion_PartialBuildInfo(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	h, appInfoSvc := newVersionHandler(t, ctrl)

	appInfoSvc.EXPECT().GetBuildInfo(gomock.Any()).Return(models.VersionResponse{BuildVersion: "0.1.0"})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()

	h.getServerVersion(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.VersionResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "0.1.0", got.BuildVersion)
	assert.Empty(t, got.BuildCommit)
}
