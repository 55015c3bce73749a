// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators enforces the input rules of the vault: the master
// password policy, the backup code format, and the structural checks on
// encryption profiles, encrypted records and transactions.
//
// Free functions ([ValidatePassword], [ValidateBackupCodeFormat]) cover the
// client-side gate. Everything arriving over the wire goes through a
// [Validator] implementation ([VaultValidator]) injected into the server
// services, so transport handlers stay free of validation logic and tests
// can substitute their own rules.
package validators

import "context"

// Validator defines a generic validation interface for arbitrary input values.
// Implementations may perform structural validation, semantic checks,
// cross-field rules.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
