// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the interactive client application runtime.
//
// It wires the terminal UI flows, client services and the background
// refresh worker into a single process lifecycle: the vault gate runs
// until the user unlocks, then the ledger loop takes over until the user
// locks the vault or quits.
package client
