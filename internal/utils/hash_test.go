package utils

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"testing"
)

func TestHash_MatchesDirectHMAC(t *testing.T) {
	InitHasherPool("test-key")

	data := []byte("the quick brown fox")

	want := hmac.New(sha256.New, []byte("test-key"))
	want.Write(data)

	if got := Hash(data); !bytes.Equal(got, want.Sum(nil)) {
		t.Errorf("Hash digest differs from direct HMAC computation")
	}
}

func TestHash_ReusedHasherIsReset(t *testing.T) {
	InitHasherPool("test-key")

	first := Hash([]byte("first"))
	second := Hash([]byte("second"))
	firstAgain := Hash([]byte("first"))

	if bytes.Equal(first, second) {
		t.Error("different inputs produced identical digests")
	}
	if !bytes.Equal(first, firstAgain) {
		t.Error("pooled hasher leaked state between calls")
	}
}

func TestHashString_DeterministicHex(t *testing.T) {
	s1 := HashString("payload", "key")
	s2 := HashString("payload", "key")

	if s1 != s2 {
		t.Error("expected deterministic output for identical inputs")
	}
	if len(s1) != 64 {
		t.Errorf("expected 64 hex chars for SHA-256 digest, got %d", len(s1))
	}
	if HashString("payload", "other-key") == s1 {
		t.Error("expected different digests for different keys")
	}
}
