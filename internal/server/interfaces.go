// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

// Server is the lifecycle contract of the transport server.
//
// RunServer blocks until shutdown is requested; Shutdown stops accepting
// connections and waits for in-flight requests.
type Server interface {
	// RunServer starts serving requests and blocks until the server stops.
	RunServer()

	// Shutdown gracefully stops the server and frees associated resources.
	Shutdown()
}
