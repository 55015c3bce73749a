package store

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectLedgerSQL = `SELECT id, owner_id, record_uid, is_encrypted, ciphertext, nonce, auth_tag, key_version, amount, currency, description, category, occurred_at, created_at, updated_at FROM ledger_records`

func newTestLedgerRepo(t *testing.T, db *sql.DB) LedgerRepository {
	t.Helper()
	return NewLedgerRepository(newDBFromSQL(db), logger.Nop())
}

func testEncryptedRecord(ownerID int64, uid string, occurredAt time.Time) *models.EncryptedRecord {
	return &models.EncryptedRecord{
		OwnerID:    ownerID,
		RecordUID:  uid,
		Ciphertext: []byte("ct-" + uid),
		Nonce:      []byte("nonce-" + uid),
		AuthTag:    []byte("tag-" + uid),
		KeyVersion: 1,
		OccurredAt: occurredAt,
	}
}

type ledgerRow struct {
	id          int64
	ownerID     int64
	recordUID   string
	isEncrypted bool

	ciphertext driver.Value
	nonce      driver.Value
	authTag    driver.Value
	keyVersion driver.Value

	amount      driver.Value
	currency    driver.Value
	description driver.Value
	category    driver.Value

	occurredAt time.Time
	createdAt  driver.Value
	updatedAt  driver.Value
}

func (r ledgerRow) toArgs() []driver.Value {
	return []driver.Value{
		r.id, r.ownerID, r.recordUID, r.isEncrypted,
		r.ciphertext, r.nonce, r.authTag, r.keyVersion,
		r.amount, r.currency, r.description, r.category,
		r.occurredAt, r.createdAt, r.updatedAt,
	}
}

func TestSaveRecords(t *testing.T) {
	occurred := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	t.Run("success: no records is a no-op", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		err := repo.SaveRecords(ctx)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: single record skips transaction", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		record := testEncryptedRecord(42, "uid-1", occurred)

		mock.ExpectQuery(regexp.QuoteMeta(saveRecordQuery)).
			WithArgs(
				record.OwnerID, record.RecordUID,
				record.Ciphertext, record.Nonce, record.AuthTag,
				record.KeyVersion, record.OccurredAt,
			).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(101)))

		err := repo.SaveRecords(ctx, record)
		require.NoError(t, err)
		assert.Equal(t, int64(101), record.ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: three records in one transaction", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		records := []*models.EncryptedRecord{
			testEncryptedRecord(42, "uid-1", occurred),
			testEncryptedRecord(42, "uid-2", occurred.Add(time.Hour)),
			testEncryptedRecord(42, "uid-3", occurred.Add(2*time.Hour)),
		}

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(regexp.QuoteMeta(saveRecordQuery))
		for i, record := range records {
			prep.ExpectQuery().
				WithArgs(
					record.OwnerID, record.RecordUID,
					record.Ciphertext, record.Nonce, record.AuthTag,
					record.KeyVersion, record.OccurredAt,
				).
				WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(200 + i)))
		}
		mock.ExpectCommit()

		err := repo.SaveRecords(ctx, records...)
		require.NoError(t, err)
		assert.Equal(t, int64(200), records[0].ID)
		assert.Equal(t, int64(202), records[2].ID)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: single record retryable failure is classified", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(saveRecordQuery)).
			WillReturnError(pgError("40001")) // serialization_failure

		err := repo.SaveRecords(ctx, testEncryptedRecord(42, "uid-1", occurred))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRetryableDB)
		assert.ErrorIs(t, err, ErrRecordsNotSaved)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: begin transaction fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin().WillReturnError(errors.New("cannot begin"))

		err := repo.SaveRecords(ctx,
			testEncryptedRecord(42, "uid-1", occurred),
			testEncryptedRecord(42, "uid-2", occurred),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBeginningTransaction)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: prepare fails rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin()
		mock.ExpectPrepare(regexp.QuoteMeta(saveRecordQuery)).
			WillReturnError(errors.New("syntax error"))
		mock.ExpectRollback()

		err := repo.SaveRecords(ctx,
			testEncryptedRecord(42, "uid-1", occurred),
			testEncryptedRecord(42, "uid-2", occurred),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrPreparingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: failure on second record rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(regexp.QuoteMeta(saveRecordQuery))
		prep.ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		prep.ExpectQuery().
			WillReturnError(errors.New("connection lost"))
		mock.ExpectRollback()

		err := repo.SaveRecords(ctx,
			testEncryptedRecord(42, "uid-1", occurred),
			testEncryptedRecord(42, "uid-2", occurred),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRecordsNotSaved)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: commit fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin()
		prep := mock.ExpectPrepare(regexp.QuoteMeta(saveRecordQuery))
		prep.ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(1)))
		prep.ExpectQuery().
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		err := repo.SaveRecords(ctx,
			testEncryptedRecord(42, "uid-1", occurred),
			testEncryptedRecord(42, "uid-2", occurred),
		)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommitingTransaction)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetRecords(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	occurred := time.Date(2026, time.March, 14, 9, 30, 0, 0, time.UTC)

	type mockSetup struct {
		query    string
		args     []driver.Value
		rows     []ledgerRow
		queryErr error
		rowErr   error
		badCols  []string
	}

	type want struct {
		err       error
		resultLen int
		check     func(t *testing.T, got []models.RecordEnvelope)
	}

	tests := []struct {
		name   string
		filter models.RecordsFilter
		mock   mockSetup
		want   want
	}{
		{
			name:   "success: encrypted and legacy plaintext rows",
			filter: models.RecordsFilter{OwnerID: 42},
			mock: mockSetup{
				query: selectLedgerSQL + ` WHERE owner_id = $1 ORDER BY occurred_at DESC, id DESC`,
				args:  []driver.Value{int64(42)},
				rows: []ledgerRow{
					{
						id: 2, ownerID: 42, recordUID: "uid-new", isEncrypted: true,
						ciphertext: []byte("ct"), nonce: []byte("nonce"), authTag: []byte("tag"),
						keyVersion: int64(3),
						occurredAt: occurred.Add(time.Hour), createdAt: now, updatedAt: now,
					},
					{
						id: 1, ownerID: 42, recordUID: "uid-legacy", isEncrypted: false,
						amount: int64(-450), currency: "EUR", description: "coffee", category: "food",
						occurredAt: occurred, createdAt: now, updatedAt: now,
					},
				},
			},
			want: want{
				resultLen: 2,
				check: func(t *testing.T, got []models.RecordEnvelope) {
					require.True(t, got[0].IsEncrypted())
					enc := got[0].Encrypted
					assert.Equal(t, int64(2), enc.ID)
					assert.Equal(t, "uid-new", enc.RecordUID)
					assert.Equal(t, []byte("ct"), enc.Ciphertext)
					assert.Equal(t, []byte("nonce"), enc.Nonce)
					assert.Equal(t, []byte("tag"), enc.AuthTag)
					assert.Equal(t, int64(3), enc.KeyVersion)

					require.False(t, got[1].IsEncrypted())
					plain := got[1].Plain
					assert.Equal(t, "uid-legacy", plain.RecordUID)
					assert.Equal(t, int64(-450), plain.Amount)
					assert.Equal(t, "EUR", plain.Currency)
					assert.Equal(t, "coffee", plain.Description)
					assert.Equal(t, "food", plain.Category)
				},
			},
		},
		{
			name: "success: record UID filter produces IN clause",
			filter: models.RecordsFilter{
				OwnerID:    42,
				RecordUIDs: []string{"uid-1", "uid-3"},
			},
			mock: mockSetup{
				query: selectLedgerSQL + ` WHERE owner_id = $1 AND record_uid IN ($2,$3) ORDER BY occurred_at DESC, id DESC`,
				args:  []driver.Value{int64(42), "uid-1", "uid-3"},
				rows: []ledgerRow{
					{
						id: 1, ownerID: 42, recordUID: "uid-1", isEncrypted: true,
						ciphertext: []byte("ct"), nonce: []byte("n"), authTag: []byte("t"),
						keyVersion: int64(1),
						occurredAt: occurred, createdAt: now, updatedAt: now,
					},
				},
			},
			want: want{resultLen: 1},
		},
		{
			name:   "success: empty result",
			filter: models.RecordsFilter{OwnerID: 99},
			mock: mockSetup{
				query: selectLedgerSQL + ` WHERE owner_id = $1 ORDER BY occurred_at DESC, id DESC`,
				args:  []driver.Value{int64(99)},
				rows:  []ledgerRow{},
			},
			want: want{resultLen: 0},
		},
		{
			name:   "error: query execution fails",
			filter: models.RecordsFilter{OwnerID: 42},
			mock: mockSetup{
				query:    selectLedgerSQL + ` WHERE owner_id = $1 ORDER BY occurred_at DESC, id DESC`,
				args:     []driver.Value{int64(42)},
				queryErr: errors.New("connection refused"),
			},
			want: want{err: ErrExecutingQuery},
		},
		{
			name:   "error: retryable query failure is classified",
			filter: models.RecordsFilter{OwnerID: 42},
			mock: mockSetup{
				query:    selectLedgerSQL + ` WHERE owner_id = $1 ORDER BY occurred_at DESC, id DESC`,
				args:     []driver.Value{int64(42)},
				queryErr: pgError("57P03"), // cannot_connect_now
			},
			want: want{err: ErrRetryableDB},
		},
		{
			name:   "error: scan fails (wrong column count)",
			filter: models.RecordsFilter{OwnerID: 42},
			mock: mockSetup{
				query:   selectLedgerSQL + ` WHERE owner_id = $1 ORDER BY occurred_at DESC, id DESC`,
				args:    []driver.Value{int64(42)},
				badCols: []string{"id", "owner_id"},
				rows:    []ledgerRow{{id: 1, ownerID: 42}},
			},
			want: want{err: ErrScanningRow},
		},
		{
			name:   "error: rows iteration error",
			filter: models.RecordsFilter{OwnerID: 42},
			mock: mockSetup{
				query: selectLedgerSQL + ` WHERE owner_id = $1 ORDER BY occurred_at DESC, id DESC`,
				args:  []driver.Value{int64(42)},
				rows: []ledgerRow{
					{
						id: 1, ownerID: 42, recordUID: "uid-1", isEncrypted: true,
						ciphertext: []byte("ct"), nonce: []byte("n"), authTag: []byte("t"),
						keyVersion: int64(1),
						occurredAt: occurred, createdAt: now, updatedAt: now,
					},
				},
				rowErr: errors.New("network interruption"),
			},
			want: want{err: ErrScanningRows},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := newTestLedgerRepo(t, db)
			ctx := testContext()

			expectation := mock.ExpectQuery(regexp.QuoteMeta(tc.mock.query)).
				WithArgs(tc.mock.args...)

			if tc.mock.queryErr != nil {
				expectation.WillReturnError(tc.mock.queryErr)
			} else {
				cols := ledgerRecordColumns
				if len(tc.mock.badCols) > 0 {
					cols = tc.mock.badCols
				}

				mockRows := sqlmock.NewRows(cols)
				for i, r := range tc.mock.rows {
					if len(tc.mock.badCols) > 0 {
						mockRows.AddRow(driver.Value(r.id), driver.Value(r.ownerID))
					} else {
						mockRows.AddRow(r.toArgs()...)
					}
					if tc.mock.rowErr != nil {
						mockRows.RowError(i, tc.mock.rowErr)
					}
				}
				expectation.WillReturnRows(mockRows)
			}

			result, err := repo.GetRecords(ctx, tc.filter)

			if tc.want.err != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tc.want.err)
				assert.Nil(t, result)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}

			require.NoError(t, err)
			require.Len(t, result, tc.want.resultLen)

			if tc.want.check != nil {
				tc.want.check(t, result)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestDeleteRecord(t *testing.T) {
	t.Run("success: record deleted", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(deleteRecordQuery)).
			WithArgs(int64(42), "uid-1").
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		err := repo.DeleteRecord(ctx, 42, "uid-1")
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: record not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(deleteRecordQuery)).
			WithArgs(int64(42), "uid-missing").
			WillReturnError(sql.ErrNoRows)

		err := repo.DeleteRecord(ctx, 42, "uid-missing")
		require.ErrorIs(t, err, ErrRecordNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: exec fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(deleteRecordQuery)).
			WithArgs(int64(42), "uid-1").
			WillReturnError(errors.New("connection refused"))

		err := repo.DeleteRecord(ctx, 42, "uid-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteAllRecords(t *testing.T) {
	t.Run("success: records deleted", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectExec(regexp.QuoteMeta(deleteAllRecordsQuery)).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 17))

		err := repo.DeleteAllRecords(ctx, 42)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: empty ledger is not an error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectExec(regexp.QuoteMeta(deleteAllRecordsQuery)).
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteAllRecords(ctx, 99)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: exec fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestLedgerRepo(t, db)
		ctx := testContext()

		mock.ExpectExec(regexp.QuoteMeta(deleteAllRecordsQuery)).
			WithArgs(int64(42)).
			WillReturnError(errors.New("connection refused"))

		err := repo.DeleteAllRecords(ctx, 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
