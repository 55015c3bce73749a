package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// NavigateTo switches the root router to another page. An optional Payload
// is re-delivered as a message to the target page after the switch.
type NavigateTo struct {
	Page    string
	Payload tea.Msg
}

// profileStatusMsg carries the result of the enrollment check the gate menu
// runs on entry.
type profileStatusMsg struct {
	present bool
	err     error
}

// SetupResult is produced by the setup page after vault enrollment.
// On success the root router shows the issued backup codes.
type SetupResult struct {
	Codes []string
	Err   error
}

// UnlockResult is produced by the unlock page. On success the root router
// finishes the gate flow.
type UnlockResult struct {
	Err error
}

// RecoverResult is produced by the recovery page. A successful recovery
// always carries a fresh batch of backup codes.
type RecoverResult struct {
	Codes []string
	Err   error
}

// ResetResult is produced by the hard-reset page. The old ledger is gone at
// this point; Codes belong to the new key generation.
type ResetResult struct {
	Codes []string
	Err   error
}

// CodesIssued delivers plaintext backup codes to the codes page. They are
// rendered exactly once and never stored.
type CodesIssued struct {
	Codes []string
}

// codesAck is emitted when the user confirms the codes are written down.
type codesAck struct{}
