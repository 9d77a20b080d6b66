// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoHandlersAreCreated is returned when the server configuration has no
// HTTP address, so there is nothing to serve. It is fatal at startup.
var errNoHandlersAreCreated = errors.New("no handlers are created")
