// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"io"
	"strings"
)

const (
	// BackupCodeCount is the number of recovery codes in every issued batch.
	BackupCodeCount = 8

	// BackupCodeLength is the number of characters in a single code.
	BackupCodeLength = 8

	// backupCodeAlphabet is the character set codes are drawn from.
	// Case-insensitive alphanumerics with the lookalikes 0/O, 1/I/L
	// removed so codes survive being read aloud or copied by hand.
	backupCodeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"
)

// backupCodeService is the private implementation of [BackupCodeService].
type backupCodeService struct{}

// NewBackupCodeService constructs a [BackupCodeService].
func NewBackupCodeService() BackupCodeService {
	return &backupCodeService{}
}

// GenerateBackupCodes implements [BackupCodeService]. It draws
// [BackupCodeCount] codes of [BackupCodeLength] characters each from the
// OS CSPRNG. Returns an error if the random read fails.
func (b *backupCodeService) GenerateBackupCodes() ([]string, error) {
	codes := make([]string, 0, BackupCodeCount)
	for i := 0; i < BackupCodeCount; i++ {
		code, err := generateBackupCode()
		if err != nil {
			return nil, err
		}
		codes = append(codes, code)
	}
	return codes, nil
}

// generateBackupCode samples one code character by character with rejection
// sampling, so every alphabet character is equally likely (a plain modulo
// over 256 would skew toward the front of the alphabet).
func generateBackupCode() (string, error) {
	// Largest multiple of len(alphabet) that fits a byte.
	limit := byte(256 / len(backupCodeAlphabet) * len(backupCodeAlphabet))

	var sb strings.Builder
	sb.Grow(BackupCodeLength)

	buf := make([]byte, 1)
	for sb.Len() < BackupCodeLength {
		if _, err := io.ReadFull(rand.Reader, buf); err != nil {
			return "", err
		}
		if buf[0] >= limit {
			continue
		}
		sb.WriteByte(backupCodeAlphabet[int(buf[0])%len(backupCodeAlphabet)])
	}
	return sb.String(), nil
}

// NormalizeBackupCode implements [BackupCodeService]. It uppercases the
// input and strips spaces and dashes, so "a2b3-c4d5" and "A2B3 C4D5" both
// verify against the same stored hash.
func (b *backupCodeService) NormalizeBackupCode(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	code = strings.ReplaceAll(code, "-", "")
	code = strings.ReplaceAll(code, " ", "")
	return code
}

// HashBackupCode implements [BackupCodeService]. It computes
// SHA-256(hashSalt ‖ normalized code). The per-slot salt keeps equal codes
// in different profiles (or batches) from producing equal hashes.
func (b *backupCodeService) HashBackupCode(code string, hashSalt []byte) []byte {
	h := sha256.New()
	h.Write(hashSalt)
	h.Write([]byte(b.NormalizeBackupCode(code)))
	return h.Sum(nil)
}

// VerifyBackupCode implements [BackupCodeService]. The comparison runs in
// constant time so a near-miss code takes exactly as long as a far one.
func (b *backupCodeService) VerifyBackupCode(code string, hashSalt, codeHash []byte) bool {
	got := b.HashBackupCode(code, hashSalt)
	return subtle.ConstantTimeCompare(got, codeHash) == 1
}
