package service

import "errors"

var (
	// Client vault gate errors.
	ErrInvalidPassword      = errors.New("invalid password")
	ErrInvalidBackupCode    = errors.New("invalid backup code")
	ErrProfileAlreadyExists = errors.New("encryption profile already exists")
	ErrProfileMissing       = errors.New("no encryption profile is enrolled")
	ErrVaultLocked          = errors.New("vault is locked")
	ErrTooManyAttempts      = errors.New("too many failed attempts")
	ErrPersistenceFailure   = errors.New("failed to persist vault state")

	// Server-side errors.
	ErrInvalidDataProvided     = errors.New("invalid data provided")
	ErrKeyVersionConflict      = errors.New("stale key version")
	ErrTokenCreationFailed     = errors.New("token creation failed")
	ErrTokenIsExpiredOrInvalid = errors.New("token is expired or invalid")
	ErrVersionIsNotSpecified   = errors.New("version is not specified")
)
