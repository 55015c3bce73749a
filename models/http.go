package models

import "time"

// RecordsFilter represents search criteria for querying ledger records.
// Only unencrypted routing fields can be used for database-level filtering.
type RecordsFilter struct {
	// OwnerID filters records by owner.
	// Required in most cases to ensure data isolation.
	OwnerID int64 `json:"owner_id,omitempty"`

	// RecordUIDs filters by specific record identifiers.
	// Useful for batch operations or direct lookups.
	RecordUIDs []string `json:"record_uids,omitempty"`

	// From restricts results to records occurring at or after this time.
	From *time.Time `json:"from,omitempty"`

	// To restricts results to records occurring before this time.
	To *time.Time `json:"to,omitempty"`
}

// UploadRecordsRequest represents a batch upload request for storing
// sealed ledger records in a single operation.
type UploadRecordsRequest struct {
	// Records contains one or more sealed records to be stored.
	Records []*EncryptedRecord `json:"records"`

	// Hash of serialized Records — transport integrity check.
	Hash string `json:"hash"`

	// Length is the total number of entries in Records.
	Length int `json:"length"`
}
