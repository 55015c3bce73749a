package models

// KDFAlgorithmArgon2id is the only key-derivation algorithm currently
// produced by this application. The identifier is persisted inside every
// [EncryptionProfile] so that future versions can verify old profiles even
// after the default algorithm changes.
const KDFAlgorithmArgon2id = "argon2id"

// KDFParams captures the exact parameters used to derive a wrapping key
// from a password or backup code.
//
// The parameters are recorded once at profile creation and never silently
// upgraded: a verifier years later must reproduce the identical derivation,
// so unlock always honors the stored values rather than the current
// defaults.
type KDFParams struct {
	// Algorithm identifies the derivation function,
	// e.g. [KDFAlgorithmArgon2id].
	Algorithm string `json:"algorithm"`

	// Time is the number of passes over memory.
	Time uint32 `json:"time"`

	// MemoryKiB is the memory cost in kibibytes.
	MemoryKiB uint32 `json:"memory_kib"`

	// Threads is the degree of parallelism.
	Threads uint8 `json:"threads"`

	// KeyLen is the length of the derived key in bytes.
	KeyLen uint32 `json:"key_len"`
}

// IsZero reports whether the parameters are entirely unset.
// A zero value indicates a corrupted or legacy profile.
func (p KDFParams) IsZero() bool {
	return p.Algorithm == "" && p.Time == 0 && p.MemoryKiB == 0 && p.Threads == 0 && p.KeyLen == 0
}
