package store

import "errors"

// Sentinel errors returned by repository methods to signal well-known failure
// conditions. Callers should use [errors.Is] to match against these values.
var (
	// ErrProfileNotFound is returned when a query targets an encryption
	// profile that does not exist for the given owner.
	ErrProfileNotFound = errors.New("encryption profile was not found")

	// ErrProfileNotSaved is returned when persisting an encryption profile
	// completes without a database error but no row was actually written.
	ErrProfileNotSaved = errors.New("encryption profile was not saved")

	// ErrRecordNotFound is returned when a query or delete targets a ledger
	// record (identified by record_uid and owner_id) that does not exist.
	ErrRecordNotFound = errors.New("ledger record was not found")

	// ErrRecordsNotSaved is returned when an INSERT of one or more ledger
	// records completes without error but the number of affected rows is
	// zero, indicating that no data was actually persisted.
	ErrRecordsNotSaved = errors.New("ledger records were not saved")

	// ErrRetryableDB wraps database errors the classifier recognises as
	// transient (connection loss, deadlock, serialization failure). Callers
	// may retry the operation after matching with [errors.Is].
	ErrRetryableDB = errors.New("retryable database error")
)

// Low-level database operation errors. These are returned (or wrapped) by
// repository methods when a SQL-level operation fails before any domain logic
// can be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrBeginningTransaction is returned when the database driver cannot
	// start a new transaction.
	ErrBeginningTransaction = errors.New("failed to begin transaction")

	// ErrCommitingTransaction is returned when committing an open transaction
	// fails. The transaction is considered rolled back at this point.
	ErrCommitingTransaction = errors.New("failed to commit transaction")

	// ErrPreparingStatement is returned when a SQL statement cannot be
	// prepared (e.g. syntax error or connection issue).
	ErrPreparingStatement = errors.New("failed to prepare statement")

	// ErrExecutingStatement is returned when executing a prepared DML
	// statement (INSERT, UPDATE, DELETE) fails.
	ErrExecutingStatement = errors.New("failed to executing statement")

	// ErrScanningRow is returned when scanning column values from a single
	// result row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan row")

	// ErrScanningRows is returned when scanning column values during
	// multi-row iteration fails, typically mid-result-set.
	ErrScanningRows = errors.New("failed to scan rows")
)
