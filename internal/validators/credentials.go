// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package validators

import (
	"strings"
	"unicode/utf8"

	"github.com/MKhiriev/fin-keeper/internal/crypto"
)

// MinPasswordLength is the minimum number of characters a master password
// must contain. Measured in runes, not bytes.
const MinPasswordLength = 8

// ValidatePassword checks a candidate master password against the local
// password policy. It is a format check only: whether the password actually
// opens the vault is decided by the key wrap, never by this function.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrEmptyPassword
	}
	if utf8.RuneCountInString(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	return nil
}

// ValidateBackupCodeFormat checks that a user-entered recovery code has the
// shape of an issued code once display formatting is stripped. Case and
// group separators are ignored. A well-formed code that matches no stored
// hash is still rejected later during recovery; this check only exists to
// give fast feedback on obvious typos.
func ValidateBackupCodeFormat(code string) error {
	normalized := strings.ToUpper(strings.NewReplacer("-", "", " ", "").Replace(code))
	if normalized == "" {
		return ErrEmptyBackupCode
	}
	if len(normalized) != crypto.BackupCodeLength {
		return ErrInvalidBackupCodeFormat
	}
	for _, r := range normalized {
		isLetter := r >= 'A' && r <= 'Z'
		isDigit := r >= '0' && r <= '9'
		if !isLetter && !isDigit {
			return ErrInvalidBackupCodeFormat
		}
	}
	return nil
}
