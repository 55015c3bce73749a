package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidOwnerID    = errors.New("invalid owner ID")
	ErrInvalidRecordUID  = errors.New("invalid record UID")
	ErrEmptySalt         = errors.New("profile salt is required")
	ErrInvalidKDFParams  = errors.New("invalid key derivation parameters")
	ErrIncompleteWrap    = errors.New("incomplete key wrap")
	ErrIncompleteBackup  = errors.New("incomplete backup wrap entry")
	ErrTooManyBackups    = errors.New("too many backup wrap entries")
	ErrInvalidKeyVersion = errors.New("invalid key version")
	ErrEmptyCiphertext   = errors.New("ciphertext is required")
	ErrEmptyNonce        = errors.New("nonce is required")
	ErrEmptyAuthTag      = errors.New("authentication tag is required")
	ErrInvalidOccurredAt = errors.New("invalid occurrence time")
	ErrEmptyRecords      = errors.New("records list cannot be empty")
	ErrInvalidTimeRange  = errors.New("invalid time range")
	ErrInvalidCurrency   = errors.New("invalid currency code")

	ErrEmptyPassword           = errors.New("password cannot be empty")
	ErrPasswordTooShort        = errors.New("password is too short")
	ErrEmptyBackupCode         = errors.New("backup code cannot be empty")
	ErrInvalidBackupCodeFormat = errors.New("invalid backup code format")
)
