package models

import "time"

// EncryptedRecord is a single financial transaction at rest.
// It is the primary persistence model for ledger data.
// The payload is sealed client-side; the database stores it opaque.
type EncryptedRecord struct {
	// ID is the server-assigned primary key. It never leaves the server
	// and is excluded from the wire format.
	ID int64 `json:"-"`

	// RecordUID is the client-generated unique identifier of the record.
	// Assigned once at creation and stable across devices.
	RecordUID string `json:"record_uid"`

	// OwnerID is the owner of this ledger entry.
	// It is not exposed via JSON: the server derives it from the
	// authenticated session, never from the payload.
	OwnerID int64 `json:"-"`

	// Ciphertext holds the sealed transaction without the trailing tag.
	// The database treats this field as opaque bytes.
	Ciphertext []byte `json:"ciphertext"`

	// Nonce is the unique value used when sealing this record.
	Nonce []byte `json:"nonce"`

	// AuthTag is the AEAD authentication tag for Ciphertext.
	AuthTag []byte `json:"auth_tag"`

	// KeyVersion records which DEK generation sealed this record.
	// A session key from a different generation must refuse to open it.
	KeyVersion int64 `json:"key_version"`

	// OccurredAt is the transaction date, kept outside the ciphertext so
	// the store can serve range queries without decrypting anything.
	OccurredAt time.Time `json:"occurred_at"`

	// CreatedAt is the timestamp when the record was stored.
	CreatedAt *time.Time `json:"created_at,omitempty"`

	// UpdatedAt is the timestamp of the last modification.
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
}

// TableName returns the name of the database table
// associated with the EncryptedRecord model.
func (r *EncryptedRecord) TableName() string {
	return "ledger_records"
}
