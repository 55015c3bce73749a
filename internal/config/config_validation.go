// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import "strings"

// validate checks that a [ServerConfig] satisfies all invariants the vault
// server needs before it starts serving requests.
//
// Returns nil if the configuration is valid, or a descriptive error otherwise.
func (cfg *ServerConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.App.TokenSignKey == "" || cfg.App.TokenIssuer == "" {
		return ErrInvalidAppConfigs
	}

	if cfg.Server.HTTPAddress == "" && cfg.Server.GRPCAddress == "" {
		return ErrInvalidServerConfigs
	}

	return nil
}

func (cfg *ClientConfig) validate() error {
	if cfg.Storage.Cache.DSN == "" || strings.Contains(cfg.Storage.Cache.DSN, "memory") {
		return ErrInvalidStorageConfigs
	}

	if cfg.Adapter.HTTPAddress == "" || cfg.Adapter.RequestTimeout == 0 {
		return ErrInvalidAdapterConfigs
	}

	if cfg.Workers.RefreshInterval == 0 {
		return ErrInvalidWorkerConfigs
	}

	// The client needs some way to authenticate against the server: either a
	// pre-issued token, or a sign key plus the owner it signs tokens for.
	if cfg.App.Token == "" && (cfg.App.TokenSignKey == "" || cfg.App.OwnerID <= 0) {
		return ErrInvalidAppConfigs
	}

	return nil
}
