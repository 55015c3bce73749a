package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/mock"
	"github.com/MKhiriev/fin-keeper/internal/service"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// ---- Helpers ----

type routerMocks struct {
	auth    *mock.MockAuthService
	profile *mock.MockProfileService
	ledger  *mock.MockLedgerService
	appInfo *mock.MockAppInfoService
}

func newTestRouter(t *testing.T, ctrl *gomock.Controller) (http.Handler, routerMocks) {
	t.Helper()

	m := routerMocks{
		auth:    mock.NewMockAuthService(ctrl),
		profile: mock.NewMockProfileService(ctrl),
		ledger:  mock.NewMockLedgerService(ctrl),
		appInfo: mock.NewMockAppInfoService(ctrl),
	}

	h := NewHandler(&service.Services{
		AuthService:    m.auth,
		ProfileService: m.profile,
		LedgerService:  m.ledger,
		AppInfoService: m.appInfo,
	}, logger.Nop())

	return h.Init(), m
}

func allowStubToken(m routerMocks) {
	m.auth.EXPECT().
		ParseToken(gomock.Any(), "stub-token").
		Return(models.Token{OwnerID: testOwnerID}, nil).
		AnyTimes()
}

// ---- Public routes ----

func TestInit_VersionIsPublic(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newTestRouter(t, ctrl)
	m.appInfo.EXPECT().GetBuildInfo(gomock.Any()).Return(models.VersionResponse{BuildVersion: "1.0.0"})

	req := httptest.NewRequest(http.MethodGet, "/api/version", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "1.0.0")
}

// ---- Protected routes reject missing tokens ----

func TestInit_ProtectedRoutesRequireAuth(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(t, ctrl)

	tests := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/vault/profile"},
		{http.MethodPut, "/api/vault/profile"},
		{http.MethodGet, "/api/ledger/records"},
		{http.MethodPost, "/api/ledger/records"},
		{http.MethodDelete, "/api/ledger/records/rec-1"},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code,
				"route must be closed without a token: %s %s", tt.method, tt.path)
		})
	}
}

// ---- Authenticated round trips through the full middleware chain ----

func TestInit_GetProfileRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newTestRouter(t, ctrl)
	allowStubToken(m)

	m.profile.EXPECT().
		GetProfile(gomock.Any(), testOwnerID).
		Return(storedProfile(testOwnerID, 1), nil)

	req := httptest.NewRequest(http.MethodGet, "/api/vault/profile", nil)
	req.Header.Set("Authorization", "Bearer stub-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"key_version":1`)
	assert.NotEmpty(t, rec.Header().Get(traceIDHeader), "trace middleware must run on vault routes")
}

func TestInit_UploadRecordsRoundTripWithIntegrityHash(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	utils.InitHasherPool("routes-test-key")

	router, m := newTestRouter(t, ctrl)
	allowStubToken(m)

	m.ledger.EXPECT().
		UploadRecords(gomock.Any(), gomock.Any()).
		Return(nil)

	body := signedUploadBody(t, []*models.EncryptedRecord{sealedRecord("rec-1", 1)})
	req := httptest.NewRequest(http.MethodPost, "/api/ledger/records", strings.NewReader(string(body)))
	req.Header.Set("Authorization", "Bearer stub-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestInit_DeleteRecordPassesURLParam(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, m := newTestRouter(t, ctrl)
	allowStubToken(m)

	m.ledger.EXPECT().
		DeleteRecord(gomock.Any(), testOwnerID, "rec-42").
		Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/api/ledger/records/rec-42", nil)
	req.Header.Set("Authorization", "Bearer stub-token")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

// ---- Unsupported methods are hidden ----

func TestInit_UnsupportedMethodLooksLikeMissingRoute(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	router, _ := newTestRouter(t, ctrl)

	req := httptest.NewRequest(http.MethodPatch, "/api/vault/profile", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
