// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// parseEnv populates cfg from environment variables via the caarlos0/env
// library, following the `env` and `envPrefix` tags on [StructuredConfig]:
// nested sections compose their prefix with the field name, so the server
// bind address is SERVER_ADDRESS and the token signing secret is
// APP_TOKEN_SIGN_KEY.
//
// A failure from env.Parse (unconvertible value, broken tag) comes back
// wrapped.
func parseEnv(cfg any) error {
	err := env.Parse(cfg)
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
