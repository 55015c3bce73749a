package adapter

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/config"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/internal/utils"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	hashKey string

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP/REST implementation of [ServerAdapter].
// It normalises and validates the base URL from adapterCfg.HTTPAddress,
// configures the underlying HTTP client with the resolved base URL and request
// timeout, and initialises the shared HMAC hasher pool used for transport
// integrity hashes.
//
// Returns an error if adapterCfg.HTTPAddress is empty or cannot be parsed as a
// valid URL.
func NewHTTPServerAdapter(adapterCfg config.ClientAdapter, appCfg config.ClientApp, logger *logger.Logger) (ServerAdapter, error) {
	client := utils.NewHTTPClient()
	baseURL, err := normalizeBaseURL(adapterCfg.HTTPAddress)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	client.
		SetBaseURL(baseURL).
		SetTimeout(adapterCfg.RequestTimeout)

	utils.InitHasherPool(appCfg.HashKey)

	logger.Debug().Str("func", "NewHTTPServerAdapter").Str("base_url", baseURL).Msg("http server adapter initialized")

	return &httpServerAdapter{client: client, hashKey: appCfg.HashKey, logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

// SetToken implements [ServerAdapter]. It stores token (whitespace-trimmed) for
// use in the Authorization header of all subsequent authenticated requests.
// Safe to call concurrently with in-flight requests.
func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

// Token implements [ServerAdapter]. It returns the bearer token currently held
// by the adapter, or an empty string if none has been set.
func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// GetProfile implements [ServerAdapter]. It GETs the owner's encryption
// profile from GET /api/vault/profile. The server resolves the owner from the
// bearer token. Returns [ErrNotFound] (wrapped) when no profile has been
// enrolled, so callers can distinguish a fresh account from a transport
// failure.
func (h *httpServerAdapter) GetProfile(ctx context.Context) (models.EncryptionProfile, error) {
	var profile models.EncryptionProfile

	resp, err := h.authedRequest(ctx).
		SetResult(&profile).
		Get("/api/vault/profile")
	if err != nil {
		return models.EncryptionProfile{}, fmt.Errorf("get profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EncryptionProfile{}, err
	}

	return profile, nil
}

// PutProfile implements [ServerAdapter]. It PUTs the full encryption profile
// to PUT /api/vault/profile and returns the stored profile with
// server-assigned timestamps. Returns [ErrConflict] (wrapped) if the server
// holds a newer key version. Requires a valid bearer token.
func (h *httpServerAdapter) PutProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error) {
	var saved models.EncryptionProfile

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(profile).
		SetResult(&saved).
		Put("/api/vault/profile")
	if err != nil {
		return models.EncryptionProfile{}, fmt.Errorf("put profile request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.EncryptionProfile{}, err
	}

	return saved, nil
}

// ListRecords implements [ServerAdapter]. It GETs GET /api/ledger/records with
// the filter encoded as query parameters (repeated record_uid values plus
// RFC 3339 from/to bounds) and decodes the enveloped rows from the response.
// filter.OwnerID is not transmitted; the server infers the owner from the
// bearer token. Returns an error if the request, response mapping, or JSON
// decoding fails.
func (h *httpServerAdapter) ListRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error) {
	req := h.authedRequest(ctx)
	if len(filter.RecordUIDs) > 0 {
		req.SetQueryParamsFromValues(url.Values{"record_uid": filter.RecordUIDs})
	}
	if filter.From != nil {
		req.SetQueryParam("from", filter.From.Format(time.RFC3339))
	}
	if filter.To != nil {
		req.SetQueryParam("to", filter.To.Format(time.RFC3339))
	}

	resp, err := req.Get("/api/ledger/records")
	if err != nil {
		return nil, fmt.Errorf("list records request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return nil, err
	}

	var rr models.RecordsResponse
	if err = json.Unmarshal(resp.Body(), &rr); err != nil {
		return nil, fmt.Errorf("decode records response: %w", err)
	}

	return rr.Records, nil
}

// UploadRecords implements [ServerAdapter]. It wraps records into a
// [models.UploadRecordsRequest], computes the transport integrity hash over
// the serialized records, and POSTs the batch to POST /api/ledger/records.
// Requires a valid bearer token. Returns an error if the request or response
// mapping fails.
func (h *httpServerAdapter) UploadRecords(ctx context.Context, records ...*models.EncryptedRecord) error {
	req := models.UploadRecordsRequest{
		Records: records,
		Hash:    computeTransportHash(records),
		Length:  len(records),
	}

	resp, err := h.authedRequest(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(req).
		Post("/api/ledger/records")
	if err != nil {
		return fmt.Errorf("upload records request: %w", err)
	}

	return mapHTTPError(resp)
}

// DeleteRecord implements [ServerAdapter]. It sends a DELETE request to
// DELETE /api/ledger/records/{recordUID}. Returns [ErrNotFound] (wrapped) if
// the record does not exist for the authenticated owner. Requires a valid
// bearer token.
func (h *httpServerAdapter) DeleteRecord(ctx context.Context, recordUID string) error {
	resp, err := h.authedRequest(ctx).
		SetPathParam("recordUID", recordUID).
		Delete("/api/ledger/records/{recordUID}")
	if err != nil {
		return fmt.Errorf("delete record request: %w", err)
	}

	return mapHTTPError(resp)
}

// Version implements [ServerAdapter]. It GETs the public build-info endpoint
// GET /api/version and decodes the response. No bearer token is attached.
// Returns an error if the request, response mapping, or JSON decoding fails.
func (h *httpServerAdapter) Version(ctx context.Context) (models.VersionResponse, error) {
	var version models.VersionResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetResult(&version).
		Get("/api/version")
	if err != nil {
		return models.VersionResponse{}, fmt.Errorf("version request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.VersionResponse{}, err
	}

	return version, nil
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Bearer "+token)
	}
	return req
}

func computeTransportHash(v any) string {
	payload, err := json.Marshal(v)
	if err != nil {
		return ""
	}

	return hex.EncodeToString(utils.Hash(payload))
}
