// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"fmt"
	"io"

	"github.com/MKhiriev/fin-keeper/models"
	"golang.org/x/crypto/argon2"
)

const (
	saltLength = 16
	dekLength  = 32

	// gcmTagLength is the size of the AES-GCM authentication tag that
	// WrapDEK splits off the sealed output into its own field.
	gcmTagLength = 16
)

// WrapPurposePrimary and WrapPurposeBackup name the two wrap slots a
// profile carries. The purpose is folded into the associated data so a
// backup wrap can never be presented as a primary one or vice versa.
const (
	WrapPurposePrimary = "primary"
	WrapPurposeBackup  = "backup"
)

// WrapAssociatedData builds the associated data for a DEK wrap, binding it
// to its slot purpose and DEK generation.
func WrapAssociatedData(purpose string, keyVersion int64) []byte {
	return fmt.Appendf(nil, "finkeeper:wrap:%s:v%d", purpose, keyVersion)
}

// keyChainService is the private implementation of [KeyChainService].
type keyChainService struct {
	// defaults are the Argon2id parameters recorded into new profiles.
	// Stored in the struct so they can be adjusted per deployment target
	// (e.g. mobile vs. desktop); unlock always uses the profile's own
	// stored parameters instead.
	defaults models.KDFParams
}

// NewKeyChainService constructs a [KeyChainService] with the Argon2id
// parameters recommended by OWASP (2024):
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
//   - key length:  32 bytes (256 bits)
func NewKeyChainService() KeyChainService {
	return &keyChainService{
		defaults: models.KDFParams{
			Algorithm: models.KDFAlgorithmArgon2id,
			Time:      1,
			MemoryKiB: 64 * 1024, // 64 MiB
			Threads:   4,
			KeyLen:    32, // 256 bits
		},
	}
}

// GenerateSalt implements [KeyChainService]. It reads 16 random bytes from
// the OS CSPRNG and returns them as a derivation salt. Returns an error if
// the random read fails.
func (k *keyChainService) GenerateSalt() ([]byte, error) {
	salt := make([]byte, saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// GenerateDEK implements [KeyChainService]. It reads 32 random bytes from
// the OS CSPRNG and returns them as the data-encryption key. Returns an
// error if the random read fails.
func (k *keyChainService) GenerateDEK() ([]byte, error) {
	dek := make([]byte, dekLength)
	if _, err := io.ReadFull(rand.Reader, dek); err != nil {
		return nil, err
	}
	return dek, nil
}

// DefaultKDFParams implements [KeyChainService].
func (k *keyChainService) DefaultKDFParams() models.KDFParams {
	return k.defaults
}

// DeriveKEK implements [KeyChainService]. It derives a key-encryption key
// from password and salt using Argon2id with exactly the supplied
// parameters, never the current defaults: a profile created years ago must
// reproduce the identical derivation. The result exists only in client
// memory and is never transmitted to the server.
func (k *keyChainService) DeriveKEK(password string, salt []byte, params models.KDFParams) ([]byte, error) {
	if params.Algorithm != models.KDFAlgorithmArgon2id {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedKDF, params.Algorithm)
	}
	if params.Time == 0 || params.Threads == 0 || params.KeyLen == 0 ||
		params.MemoryKiB < 8*uint32(params.Threads) {
		return nil, fmt.Errorf("%w: %+v", ErrInvalidKDFParams, params)
	}

	return argon2.IDKey(
		[]byte(password),
		salt,
		params.Time,
		params.MemoryKiB,
		params.Threads,
		params.KeyLen,
	), nil
}

// WrapDEK implements [KeyChainService]. It seals DEK under KEK with
// AES-256-GCM and a fresh random 12-byte nonce, splitting the trailing
// authentication tag into its own field so the stored wrap is
// self-describing: {ciphertext, nonce, tag}. Returns an error if cipher
// creation or the random nonce read fails.
func (k *keyChainService) WrapDEK(DEK, KEK, associatedData []byte) (models.KeyWrap, error) {
	block, err := aes.NewCipher(KEK)
	if err != nil {
		return models.KeyWrap{}, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return models.KeyWrap{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.KeyWrap{}, err
	}

	sealed := gcm.Seal(nil, nonce, DEK, associatedData)

	// Seal appends the tag to the ciphertext; store the two separately.
	split := len(sealed) - gcmTagLength
	return models.KeyWrap{
		Ciphertext: sealed[:split],
		Nonce:      nonce,
		Tag:        sealed[split:],
	}, nil
}

// UnwrapDEK implements [KeyChainService]. It opens a wrap produced by
// [keyChainService.WrapDEK] using KEK and the same associated data.
// Returns the plaintext DEK, or [ErrMalformedCiphertext] if the wrap is
// structurally broken, or [ErrAuthenticationFailed] if the KEK is wrong or
// the wrap was tampered with. The tag check is the sole wrong-password
// signal in the whole scheme.
func (k *keyChainService) UnwrapDEK(wrap models.KeyWrap, KEK, associatedData []byte) ([]byte, error) {
	block, err := aes.NewCipher(KEK)
	if err != nil {
		return nil, err
	}

	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	if len(wrap.Nonce) != gcm.NonceSize() || len(wrap.Ciphertext) == 0 || len(wrap.Tag) != gcmTagLength {
		return nil, fmt.Errorf("%w: nonce=%d ciphertext=%d tag=%d",
			ErrMalformedCiphertext, len(wrap.Nonce), len(wrap.Ciphertext), len(wrap.Tag))
	}

	// Reassemble ciphertext ‖ tag for Open. An error here almost always
	// means the user entered the wrong password, producing a wrong KEK.
	sealed := make([]byte, 0, len(wrap.Ciphertext)+len(wrap.Tag))
	sealed = append(sealed, wrap.Ciphertext...)
	sealed = append(sealed, wrap.Tag...)

	dek, err := gcm.Open(nil, wrap.Nonce, sealed, associatedData)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	return dek, nil
}

// Zero overwrites b with zeroes. Used to scrub passwords, derived keys and
// DEK copies as soon as they are no longer needed.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
