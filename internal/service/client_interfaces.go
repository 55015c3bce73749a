package service

import (
	"context"
	"time"

	"github.com/MKhiriev/fin-keeper/internal/crypto"
	"github.com/MKhiriev/fin-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_services_mock.go -package=mock

// VaultService is the client-side gate in front of all encrypted data.
//
// It owns the only unwrapped DEK in the process: every lifecycle operation
// ends either with a cached session key (unlocked) or without one (locked),
// and record IO is possible only through the session it hands out.
type VaultService interface {
	// IsProfilePresent reports whether an encryption profile is enrolled
	// for the configured owner, consulting the server first and the local
	// cache when the server is unreachable.
	IsProfilePresent(ctx context.Context) (bool, error)

	// State returns the current position of the vault gate.
	State() VaultState

	// IsUnlocked reports whether a session key is currently cached.
	IsUnlocked() bool

	// Setup enrolls a new profile under the given master password:
	// generates a DEK, wraps it under the password and a fresh batch of
	// backup codes, persists the profile and unlocks the vault.
	// The returned plaintext codes are shown to the user exactly once.
	// Fails with ErrProfileAlreadyExists when a profile is enrolled.
	Setup(ctx context.Context, password string) (*crypto.SessionKey, []string, error)

	// Unlock derives the key-encryption key from the password and unwraps
	// the DEK. A wrong password fails the authenticated unwrap and is
	// reported as ErrInvalidPassword; nothing else distinguishes it.
	Unlock(ctx context.Context, password string) (*crypto.SessionKey, error)

	// Recover unlocks the vault with a single-use backup code. A fresh
	// batch of backup codes is always issued; when newPassword is not
	// empty the primary wrap is replaced under it as well. The DEK and
	// key version stay the same, so existing records remain readable.
	Recover(ctx context.Context, code, newPassword string) (*crypto.SessionKey, []string, error)

	// ChangePassword re-wraps the DEK under a key derived from
	// newPassword with a fresh salt. Requires the old password; does not
	// change the lock state, the key version, or the backup codes.
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error

	// HardReset abandons the old DEK entirely: a new DEK, primary wrap
	// and backup batch are issued under a bumped key version, and the
	// local cache is purged. Records sealed under previous generations
	// become permanently unreadable. Requires no proof of the old
	// password.
	HardReset(ctx context.Context, newPassword string) (*crypto.SessionKey, []string, error)

	// Lock destroys the cached session key. Idempotent.
	Lock()

	// Session returns the cached session key, or ErrVaultLocked.
	Session() (*crypto.SessionKey, error)

	// Unlocked returns a channel closed when the vault unlocks. After
	// Lock a fresh channel is installed, so long-lived watchers must
	// re-acquire it on every wait.
	Unlocked() <-chan struct{}
}

// ClientLedgerService performs record IO through the vault gate: plaintext
// in, sealed records out to the server, with a local cache mirror for
// offline reads.
type ClientLedgerService interface {
	// AddTransaction seals the transaction under the session key and
	// uploads it. A missing record UID is assigned, a zero date defaults
	// to now. Returns the stored transaction.
	AddTransaction(ctx context.Context, tx models.Transaction) (models.Transaction, error)

	// ListTransactions fetches matching records, server first with cache
	// fallback, and opens them with the session key. Records sealed under
	// an older key generation are skipped.
	ListTransactions(ctx context.Context, filter models.RecordsFilter) ([]models.Transaction, error)

	// DeleteTransaction removes the record on the server and from the
	// local cache.
	DeleteTransaction(ctx context.Context, recordUID string) error

	// Refresh mirrors the owner's server-side records into the local
	// cache. No-op while the vault is locked.
	Refresh(ctx context.Context) error
}

// ClientRefreshJob keeps the local cache warm in the background while the
// vault is unlocked.
type ClientRefreshJob interface {
	// Start launches the background refresh loop. A previous run is
	// stopped first. Non-positive interval falls back to a default.
	Start(ctx context.Context, interval time.Duration)

	// Stop terminates the loop and waits for it to exit. Safe to call
	// when the job is not running.
	Stop()
}
