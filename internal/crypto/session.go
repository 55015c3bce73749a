// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import "fmt"

// SessionKey is the unwrapped DEK held as an in-memory capability object.
//
// It is produced only by a successful Setup, Unlock, Recover or HardReset
// and handed to storage operations explicitly; there is no ambient global
// holding key material. The raw bytes are unexported and unreachable from
// outside this package — the [RecordCodec] is the sole consumer. Destroy
// zeroes the material; a destroyed key refuses all further use.
type SessionKey struct {
	dek        []byte
	keyVersion int64
}

// NewSessionKey copies dek into a fresh capability stamped with the DEK
// generation it belongs to. The caller keeps ownership of its own slice
// and should scrub it with [Zero] when done.
func NewSessionKey(dek []byte, keyVersion int64) *SessionKey {
	cp := make([]byte, len(dek))
	copy(cp, dek)
	return &SessionKey{dek: cp, keyVersion: keyVersion}
}

// KeyVersion returns the DEK generation this key belongs to.
func (s *SessionKey) KeyVersion() int64 {
	return s.keyVersion
}

// Destroy zeroes the key material. Safe to call more than once.
func (s *SessionKey) Destroy() {
	Zero(s.dek)
	s.dek = nil
}

// destroyed reports whether the material has been zeroed.
func (s *SessionKey) destroyed() bool {
	return len(s.dek) == 0
}

// String implements [fmt.Stringer] without exposing key material, so an
// accidental %v in a log line stays harmless.
func (s *SessionKey) String() string {
	return fmt.Sprintf("SessionKey(v%d, redacted)", s.keyVersion)
}

// MarshalJSON always fails: the session key must never be serialized.
func (s *SessionKey) MarshalJSON() ([]byte, error) {
	return nil, ErrSessionKeyNotSerializable
}
