// Package http implements the HTTP transport layer of the vault server.
//
// It exposes route wiring, request handlers, and middleware used by the REST
// API: the encryption-profile endpoints, the sealed-record ledger endpoints
// and the public version endpoint. Cross-cutting concerns such as
// authentication, request tracing, access logging, response compression, and
// upload integrity checks are handled in this package before requests are
// delegated to the service layer.
//
// The server stores ciphertext only. Handlers never inspect record payloads
// beyond the unencrypted routing fields, and error responses are written as
// plain text so the client adapter can map them back to business errors.
package http
