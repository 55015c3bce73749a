// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

// errNoServersAreCreated is returned by [NewServer] when the handler set
// carries neither an HTTP nor a gRPC transport, so there is nothing to run.
var errNoServersAreCreated = errors.New("no servers are created")
