// Package server wires and runs the vault server's transport listeners.
//
// It owns the lifecycle of the HTTP and gRPC servers: construction from the
// transport configuration, concurrent startup, signal handling, and graceful
// shutdown of every enabled transport.
package server
