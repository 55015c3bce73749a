// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"

	"github.com/MKhiriev/fin-keeper/models"
)

// recordAssociatedData binds a sealed record to the DEK generation that
// produced it, so ciphertext cannot be replayed across key versions even
// if the stamped version field were rewritten.
func recordAssociatedData(keyVersion int64) []byte {
	return fmt.Appendf(nil, "finkeeper:record:v%d", keyVersion)
}

// recordCodec is the private implementation of [RecordCodec].
type recordCodec struct{}

// NewRecordCodec constructs a [RecordCodec].
func NewRecordCodec() RecordCodec {
	return &recordCodec{}
}

// EncryptRecord implements [RecordCodec]. It marshals tx to JSON, seals it
// under the session DEK with AES-256-GCM and a fresh nonce, and stamps the
// result with the session's key version. The transaction date is copied
// out as routing metadata so the store can answer range queries without
// decrypting anything.
func (c *recordCodec) EncryptRecord(session *SessionKey, tx models.Transaction) (models.EncryptedRecord, error) {
	if session == nil || session.destroyed() {
		return models.EncryptedRecord{}, ErrSessionKeyDestroyed
	}

	plaintext, err := json.Marshal(tx)
	if err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("marshal transaction: %w", err)
	}

	block, err := aes.NewCipher(session.dek)
	if err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("create gcm: %w", err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return models.EncryptedRecord{}, fmt.Errorf("generate nonce: %w", err)
	}

	sealed := gcm.Seal(nil, nonce, plaintext, recordAssociatedData(session.keyVersion))
	split := len(sealed) - gcmTagLength

	return models.EncryptedRecord{
		RecordUID:  tx.RecordUID,
		Ciphertext: sealed[:split],
		Nonce:      nonce,
		AuthTag:    sealed[split:],
		KeyVersion: session.keyVersion,
		OccurredAt: tx.OccurredAt,
	}, nil
}

// DecryptRecord implements [RecordCodec]. The key-version check runs
// before anything else: a session key from another DEK generation —
// possible only after a hard reset — fails closed with
// [ErrKeyVersionMismatch] instead of attempting a cross-version open.
// Any tampering with ciphertext, nonce or tag surfaces as
// [ErrAuthenticationFailed], never as corrupted plaintext.
func (c *recordCodec) DecryptRecord(session *SessionKey, record models.EncryptedRecord) (models.Transaction, error) {
	if session == nil || session.destroyed() {
		return models.Transaction{}, ErrSessionKeyDestroyed
	}
	if record.KeyVersion != session.keyVersion {
		return models.Transaction{}, fmt.Errorf("%w: record v%d, session v%d",
			ErrKeyVersionMismatch, record.KeyVersion, session.keyVersion)
	}

	block, err := aes.NewCipher(session.dek)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("create gcm: %w", err)
	}

	if len(record.Nonce) != gcm.NonceSize() || len(record.Ciphertext) == 0 || len(record.AuthTag) != gcmTagLength {
		return models.Transaction{}, fmt.Errorf("%w: nonce=%d ciphertext=%d tag=%d",
			ErrMalformedCiphertext, len(record.Nonce), len(record.Ciphertext), len(record.AuthTag))
	}

	sealed := make([]byte, 0, len(record.Ciphertext)+len(record.AuthTag))
	sealed = append(sealed, record.Ciphertext...)
	sealed = append(sealed, record.AuthTag...)

	plaintext, err := gcm.Open(nil, record.Nonce, sealed, recordAssociatedData(record.KeyVersion))
	if err != nil {
		return models.Transaction{}, fmt.Errorf("%w: %w", ErrAuthenticationFailed, err)
	}

	var tx models.Transaction
	if err := json.Unmarshal(plaintext, &tx); err != nil {
		return models.Transaction{}, fmt.Errorf("unmarshal transaction: %w", err)
	}

	return tx, nil
}
