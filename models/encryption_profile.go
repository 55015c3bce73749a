// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import "time"

// KeyWrap is the data-encryption key sealed under another key.
//
// The wrap is produced by an AEAD cipher, so the authentication tag is an
// explicit part of the stored value: a wrong wrapping key or a tampered
// ciphertext fails the tag check deterministically instead of yielding
// garbage key material. All three fields are required to unwrap.
type KeyWrap struct {
	// Ciphertext is the encrypted DEK without the trailing tag.
	Ciphertext []byte `json:"ciphertext"`

	// Nonce is the unique value used for this single seal operation.
	Nonce []byte `json:"nonce"`

	// Tag is the AEAD authentication tag.
	Tag []byte `json:"tag"`
}

// IsZero reports whether the wrap holds no sealed key at all.
func (w KeyWrap) IsZero() bool {
	return len(w.Ciphertext) == 0 && len(w.Nonce) == 0 && len(w.Tag) == 0
}

// BackupWrap is one recovery slot: the same DEK sealed under a key derived
// from a single-use backup code.
//
// The plaintext code is never stored. CodeHash is a salted one-way hash
// used only to locate the matching slot when a code is presented; KDFSalt
// feeds the per-code key derivation. Once a slot's code has successfully
// unwrapped the DEK the slot is flagged used and never matches again.
type BackupWrap struct {
	// CodeHash is the salted hash of the normalized backup code.
	CodeHash []byte `json:"code_hash"`

	// HashSalt is the random salt mixed into CodeHash.
	HashSalt []byte `json:"hash_salt"`

	// KDFSalt is the random salt for deriving this slot's wrapping key.
	// Distinct from HashSalt so the lookup hash and the wrapping key
	// never share inputs.
	KDFSalt []byte `json:"kdf_salt"`

	// Wrap is the DEK sealed under the code-derived key.
	Wrap KeyWrap `json:"wrap"`

	// Used marks a consumed slot. Consumed slots stay in the profile
	// until the next batch reissue so that slot order is preserved.
	Used bool `json:"used"`

	// UsedAt records when the slot was consumed.
	UsedAt *time.Time `json:"used_at,omitempty"`
}

// EncryptionProfile is the complete at-rest description of one owner's
// encryption state. One profile per owner; replaced wholesale on every
// mutation (create, password change, recovery, hard reset).
//
// Nothing in the profile reveals the password, a backup code, or the DEK:
// the store holding it can at most attempt-and-fail an unwrap.
type EncryptionProfile struct {
	// OwnerID is the account the profile belongs to. Established by the
	// authentication layer, never by the profile payload itself.
	OwnerID int64 `json:"-"`

	// Salt is the random derivation salt for the primary password wrap.
	// Replaced together with PrimaryWrap on every password change.
	Salt []byte `json:"salt"`

	// KDFParams are the derivation parameters in force for this profile.
	KDFParams KDFParams `json:"kdf_params"`

	// PrimaryWrap is the DEK sealed under the password-derived key.
	PrimaryWrap KeyWrap `json:"primary_wrap"`

	// BackupWraps are the recovery slots, in issue order.
	BackupWraps []BackupWrap `json:"backup_wraps"`

	// KeyVersion counts DEK generations. It starts at 1 and increments
	// only when the DEK itself is replaced (hard reset), never on a
	// password change, which merely re-wraps the same DEK.
	KeyVersion int64 `json:"key_version"`

	// CreatedAt is the timestamp when the profile was first persisted.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the timestamp of the last full replace.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// UnusedBackupSlots returns how many recovery slots are still consumable.
func (p *EncryptionProfile) UnusedBackupSlots() int {
	n := 0
	for _, bw := range p.BackupWraps {
		if !bw.Used {
			n++
		}
	}
	return n
}

// TableName returns the name of the database table
// associated with the EncryptionProfile model.
func (p *EncryptionProfile) TableName() string {
	return "encryption_profiles"
}
