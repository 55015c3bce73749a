package models

import "time"

// Transaction is a single financial record in plaintext form.
// It exists only client-side while the vault is unlocked; at rest it is
// always carried inside an [EncryptedRecord].
type Transaction struct {
	// RecordUID matches the identifier of the stored record.
	RecordUID string `json:"record_uid"`

	// Amount is the signed value in minor currency units
	// (cents, kopecks). Negative amounts are expenses.
	Amount int64 `json:"amount"`

	// Currency is the ISO 4217 code, e.g. "EUR". Optional.
	Currency string `json:"currency,omitempty"`

	// Description is the human-readable purpose of the transaction.
	Description string `json:"description"`

	// Category is an optional user-defined grouping label.
	Category string `json:"category,omitempty"`

	// OccurredAt is the date the transaction took place.
	OccurredAt time.Time `json:"occurred_at"`
}
