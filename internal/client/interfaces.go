// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

// Client is the lifecycle contract of the terminal application: one
// blocking Run covering the vault gate, the ledger loop and every
// lock/unlock cycle in between.
type Client interface {
	// Run starts the client application and blocks until exit.
	Run() error
}
