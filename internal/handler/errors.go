// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned by NewHandlers when the configuration
// names neither an HTTP nor a gRPC listen address. The server cannot accept
// vault traffic without at least one transport, so startup aborts.
var errNoHandlersAreCreated = errors.New("no handlers are created")
