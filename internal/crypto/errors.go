package crypto

import "errors"

var (
	// ErrAuthenticationFailed is returned when an AEAD open fails its tag
	// check: the wrapping key is wrong or the ciphertext was tampered with.
	// For a primary wrap this is the one and only "wrong password" signal.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrMalformedCiphertext is returned when a wrap or record is
	// structurally broken (empty ciphertext, nonce of the wrong size)
	// before any decryption is attempted.
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrKeyVersionMismatch is returned when a record was sealed by a
	// different DEK generation than the session key holds. Decryption is
	// refused outright; cross-version opens are never attempted.
	ErrKeyVersionMismatch = errors.New("record key version does not match session key version")

	// ErrSessionKeyDestroyed is returned when a codec operation receives a
	// session key whose material has already been zeroed.
	ErrSessionKeyDestroyed = errors.New("session key has been destroyed")

	// ErrSessionKeyNotSerializable is returned by marshalling attempts on
	// [SessionKey]. The session key never leaves process memory.
	ErrSessionKeyNotSerializable = errors.New("session key must never be serialized")

	// ErrUnsupportedKDF is returned when stored parameters name a
	// derivation algorithm this build does not implement.
	ErrUnsupportedKDF = errors.New("unsupported key derivation algorithm")

	// ErrInvalidKDFParams is returned when stored derivation parameters are
	// zeroed or internally inconsistent.
	ErrInvalidKDFParams = errors.New("invalid key derivation parameters")
)
