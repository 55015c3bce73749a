package crypto

import "github.com/MKhiriev/fin-keeper/models"

//go:generate mockgen -source=interfaces.go -destination=../mock/crypto_services_mock.go -package=mock

// KeyChainService owns all key material operations of the zero-knowledge
// scheme. It knows nothing about the network, the database, or users.
// Its single job is to generate and protect keys.
//
// Enrollment order:
//
//	Salt, DEK = GenerateSalt() + GenerateDEK()              (step 1)
//	KEK       = DeriveKEK(password, salt, params)           (step 2)
//	Wrap      = WrapDEK(DEK, KEK, aad)                      (step 3)
//
// Unlock repeats steps 2 and 3 in reverse with the stored salt and params;
// the AEAD tag check inside [KeyChainService.UnwrapDEK] is the only signal
// that distinguishes a right password from a wrong one.
type KeyChainService interface {
	// GenerateSalt generates a random derivation salt (16 bytes / 128 bits).
	// The salt is not a secret — it is stored in the profile in the open.
	// Its purpose is to make equal passwords derive different keys.
	GenerateSalt() ([]byte, error)

	// GenerateDEK generates a random data-encryption key (32 bytes / 256
	// bits). The DEK seals all of the owner's records and never leaves the
	// client in plaintext.
	GenerateDEK() ([]byte, error)

	// DefaultKDFParams returns the derivation parameters this build records
	// into newly created profiles. Existing profiles keep the parameters
	// they were created with.
	DefaultKDFParams() models.KDFParams

	// DeriveKEK derives a key-encryption key from a password (or a
	// normalized backup code) and salt using exactly the supplied
	// parameters. The KEK exists only in client memory.
	DeriveKEK(password string, salt []byte, params models.KDFParams) ([]byte, error)

	// WrapDEK seals the DEK under the KEK with AES-256-GCM. The associated
	// data binds the wrap to its slot and DEK generation; see
	// [WrapAssociatedData]. The result is safe to store server-side —
	// without the KEK it is indistinguishable from random noise.
	WrapDEK(DEK, KEK, associatedData []byte) (models.KeyWrap, error)

	// UnwrapDEK opens a wrap produced by [KeyChainService.WrapDEK] with the
	// same associated data. Returns the plaintext DEK, or
	// [ErrAuthenticationFailed] when the KEK is wrong or the wrap was
	// tampered with.
	UnwrapDEK(wrap models.KeyWrap, KEK, associatedData []byte) ([]byte, error)
}

// BackupCodeService issues and verifies the single-use recovery codes.
// It never stores a code: callers keep only the salted hash it produces.
type BackupCodeService interface {
	// GenerateBackupCodes returns a fresh batch of high-entropy codes in
	// display form. Shown to the owner exactly once.
	GenerateBackupCodes() ([]string, error)

	// NormalizeBackupCode maps user input to canonical form: uppercase,
	// separators and spaces stripped. Hashing and derivation always operate
	// on the normalized form.
	NormalizeBackupCode(code string) string

	// HashBackupCode computes the salted one-way lookup hash of a code.
	HashBackupCode(code string, hashSalt []byte) []byte

	// VerifyBackupCode reports in constant time whether code hashes to
	// codeHash under hashSalt.
	VerifyBackupCode(code string, hashSalt, codeHash []byte) bool
}

// RecordCodec seals and opens individual financial records with a cached
// [SessionKey], never a re-derived one. Every sealed record is stamped with
// the session's DEK generation and refuses to open under any other.
type RecordCodec interface {
	// EncryptRecord serializes tx to JSON and seals it under the session
	// key, stamping the current key version.
	EncryptRecord(session *SessionKey, tx models.Transaction) (models.EncryptedRecord, error)

	// DecryptRecord opens a sealed record. It fails closed with
	// [ErrKeyVersionMismatch] before touching the ciphertext when the
	// record's generation differs from the session's, and with
	// [ErrAuthenticationFailed] on any tampering.
	DecryptRecord(session *SessionKey, record models.EncryptedRecord) (models.Transaction, error)
}
