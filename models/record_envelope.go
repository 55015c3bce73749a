package models

import (
	"errors"
	"time"
)

// ErrAmbiguousEnvelope is returned by [RecordEnvelope.Validate] when an
// envelope carries both branches or neither.
var ErrAmbiguousEnvelope = errors.New("record envelope must carry exactly one of encrypted or plain")

// RecordEnvelope is the tagged union the store boundary speaks: every row
// is either a sealed record or a legacy plaintext one written before
// encryption was enabled for the account.
//
// Exactly one branch is set. Callers branch on [RecordEnvelope.IsEncrypted]
// at the boundary instead of probing decrypt failures; the decrypt path
// itself never falls back to plaintext.
type RecordEnvelope struct {
	Encrypted *EncryptedRecord `json:"encrypted,omitempty"`
	Plain     *Transaction     `json:"plain,omitempty"`
}

// IsEncrypted reports which branch the envelope carries.
func (e RecordEnvelope) IsEncrypted() bool {
	return e.Encrypted != nil
}

// RecordUID returns the identifier of whichever branch is set.
func (e RecordEnvelope) RecordUID() string {
	if e.Encrypted != nil {
		return e.Encrypted.RecordUID
	}
	if e.Plain != nil {
		return e.Plain.RecordUID
	}
	return ""
}

// OccurredAt returns the routing date of whichever branch is set.
func (e RecordEnvelope) OccurredAt() time.Time {
	if e.Encrypted != nil {
		return e.Encrypted.OccurredAt
	}
	if e.Plain != nil {
		return e.Plain.OccurredAt
	}
	return time.Time{}
}

// Validate checks the exactly-one-branch invariant.
func (e RecordEnvelope) Validate() error {
	if (e.Encrypted == nil) == (e.Plain == nil) {
		return ErrAmbiguousEnvelope
	}
	return nil
}
