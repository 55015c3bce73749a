// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"errors"
	"strings"

	"github.com/MKhiriev/fin-keeper/internal/adapter"
	"github.com/MKhiriev/fin-keeper/internal/app"
	"github.com/MKhiriev/fin-keeper/internal/store"
)

// mapAdapterError translates transport-level errors from the server
// adapter into the business errors of this package. Errors that carry no
// adapter sentinel (the server never answered) pass through unchanged and
// are picked up by isServerUnreachable.
func mapAdapterError(err error) error {
	if err == nil {
		return nil
	}

	body := extractBody(err)

	switch {
	case errors.Is(err, adapter.ErrBadRequest):
		return ErrInvalidDataProvided

	case errors.Is(err, adapter.ErrUnauthorized):
		return ErrTokenIsExpiredOrInvalid

	case errors.Is(err, adapter.ErrNotFound):
		switch body {
		case app.MsgProfileNotFound:
			return ErrProfileMissing
		case app.MsgRecordNotFound:
			return store.ErrRecordNotFound
		}

	case errors.Is(err, adapter.ErrConflict):
		return ErrKeyVersionConflict
	}

	return err
}

// isServerUnreachable reports whether err is a transport failure with no
// HTTP response behind it, as opposed to an error status the server
// deliberately returned.
func isServerUnreachable(err error) bool {
	if err == nil {
		return false
	}

	for _, sentinel := range []error{
		adapter.ErrBadRequest,
		adapter.ErrUnauthorized,
		adapter.ErrForbidden,
		adapter.ErrNotFound,
		adapter.ErrConflict,
		adapter.ErrBadGateway,
		adapter.ErrInternalServerError,
	} {
		if errors.Is(err, sentinel) {
			return false
		}
	}

	return true
}

// extractBody returns the trailing segment of the error text, which for
// adapter errors is the raw response body attached by the status mapper.
func extractBody(err error) string {
	parts := strings.Split(err.Error(), ": ")
	return parts[len(parts)-1]
}
