package models

// RecordsResponse contains the server-side ledger rows that matched a
// [RecordsFilter]. Rows arrive as envelopes: sealed records for accounts
// with encryption enabled, plaintext legacy rows for those written before
// enrollment. The client resolves the union at its store boundary.
type RecordsResponse struct {
	// Records is the list of matched rows in envelope form.
	Records []RecordEnvelope `json:"records"`

	// Length is the total number of entries in Records.
	// Provided for convenience so the client can pre-allocate
	// or validate the response without iterating the slice.
	Length int `json:"length"`
}

// VersionResponse is the wire form of the server's build metadata as served
// by the version endpoint. Unlike [AppBuildInfo] its fields are exported so
// the payload survives a JSON round trip.
type VersionResponse struct {
	// BuildVersion is the semantic version string of the server build.
	BuildVersion string `json:"build_version"`

	// BuildDate is the timestamp of the server build.
	BuildDate string `json:"build_date"`

	// BuildCommit is the source-control commit hash of the server build.
	BuildCommit string `json:"build_commit"`
}
