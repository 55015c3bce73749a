// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides transport-layer abstractions for communicating with
// the fin-keeper vault server.
//
// The primary abstraction is [ServerAdapter], which decouples the client's
// service layer from the underlying protocol. The package ships an HTTP/REST
// implementation ([NewHTTPServerAdapter]).
//
// Error values defined in errors.go are mapped from HTTP status codes by
// mapHTTPError so that callers can use [errors.Is] for transport-agnostic error
// handling (e.g. [ErrConflict] for 409, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/fin-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/server_adapter_mock.go -package=mock

// ServerAdapter defines transport-agnostic communication with the fin-keeper
// server. Implementations are responsible for serialisation, authentication
// header management, and mapping transport-level errors to the sentinel values
// defined in this package.
type ServerAdapter interface {
	// SetToken stores the bearer token that will be attached to all subsequent
	// authenticated requests. It is called with the configured token at
	// startup and by the refresh worker whenever the token is re-issued, so
	// implementations must be safe for concurrent use.
	SetToken(token string)

	// Token returns the bearer token currently stored in the adapter, or an
	// empty string if no token has been set yet.
	Token() string

	// GetProfile fetches the caller's encryption profile, including the KDF
	// parameters and all wrapped key material needed to unlock the vault on
	// this device. The server identifies the owner from the bearer token.
	// Returns [ErrNotFound] (wrapped) if no profile has been enrolled yet.
	GetProfile(ctx context.Context) (models.EncryptionProfile, error)

	// PutProfile uploads a freshly enrolled or rewrapped encryption profile
	// and returns the stored profile with server-assigned timestamps. Returns
	// [ErrConflict] (wrapped) if the server already holds a newer key version
	// than the one the upload was derived from.
	PutProfile(ctx context.Context, profile models.EncryptionProfile) (models.EncryptionProfile, error)

	// ListRecords fetches ledger rows matching filter from the server. Rows
	// arrive in envelope form: sealed records plus plaintext legacy rows
	// written before encryption was enrolled. Only the unencrypted routing
	// fields of filter (record UIDs and the occurrence window) are sent; the
	// owner is inferred from the bearer token.
	ListRecords(ctx context.Context, filter models.RecordsFilter) ([]models.RecordEnvelope, error)

	// UploadRecords sends one or more sealed ledger records to the server in
	// a single request. A transport integrity hash covering the payload is
	// computed and attached to the request automatically. Returns an error if
	// the request or the server response indicates failure.
	UploadRecords(ctx context.Context, records ...*models.EncryptedRecord) error

	// DeleteRecord removes the ledger record identified by recordUID from the
	// server. Returns [ErrNotFound] (wrapped) if the record does not exist or
	// belongs to another owner.
	DeleteRecord(ctx context.Context, recordUID string) error

	// Version fetches the server's build metadata. The endpoint is public and
	// does not require a bearer token; the client uses it as a reachability
	// probe before going into offline mode.
	Version(ctx context.Context) (models.VersionResponse, error)
}
