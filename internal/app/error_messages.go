// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app contains shared application-layer constants used across the
// fin-keeper server handlers and middleware.
//
// All Msg* constants are human-readable message strings that are written into
// HTTP response bodies or log entries to describe the outcome of an operation.
// Keeping them in one place ensures consistent wording throughout the API, and
// lets the client map response bodies back to business errors.
package app

const (
	// MsgInvalidDataProvided is returned when the request body cannot be
	// decoded or fails basic validation (e.g. missing required fields).
	MsgInvalidDataProvided = "invalid data provided"

	// MsgInternalServerError is returned when an unexpected server-side
	// failure occurs that the client cannot resolve.
	MsgInternalServerError = "internal server error"

	// MsgTokenIsExpiredOrInvalid is returned when a JWT bearer token is
	// missing, expired, or cannot be verified (e.g. wrong signature).
	MsgTokenIsExpiredOrInvalid = "token is expired or invalid"

	// MsgNoOwnerIDProvided is returned when a handler requires an owner ID
	// (extracted from the JWT subject claim) but none is present in the
	// request context.
	MsgNoOwnerIDProvided = "no owner ID provided"

	// MsgProfileNotFound is returned when a read targets an encryption
	// profile that has not been enrolled for the authenticated owner.
	MsgProfileNotFound = "encryption profile not found"

	// MsgStaleKeyVersion is returned when a profile upload carries a key
	// version older than the one the server already holds. The client must
	// fetch the current profile before retrying.
	MsgStaleKeyVersion = "stale key version"

	// MsgNoRecordsProvided is returned when an upload request contains an
	// empty record list.
	MsgNoRecordsProvided = "no records provided"

	// MsgRecordNotFound is returned when a read or delete operation targets
	// a ledger record that does not exist for the current owner.
	MsgRecordNotFound = "record not found"

	// MsgIntegrityCheckFailed is returned when the HMAC transport hash
	// attached to a request body does not match the server-side
	// recomputation.
	MsgIntegrityCheckFailed = "integrity check failed"

	// MsgVersionIsNotSpecified is reported at startup when the build was
	// produced without a version string and the version endpoint cannot be
	// served.
	MsgVersionIsNotSpecified = "version is not specified"
)
