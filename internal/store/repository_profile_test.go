package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/fin-keeper/internal/logger"
	"github.com/MKhiriev/fin-keeper/models"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func newTestProfileRepo(t *testing.T, db *sql.DB) ProfileRepository {
	t.Helper()
	return NewProfileRepository(newDBFromSQL(db), logger.Nop())
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

func pgError(code string) error {
	return &pgconn.PgError{Code: code}
}

var profileColumns = []string{
	"owner_id", "salt",
	"kdf_algorithm", "kdf_time", "kdf_memory_kib", "kdf_threads", "kdf_key_len",
	"primary_ciphertext", "primary_nonce", "primary_tag",
	"key_version", "created_at", "updated_at",
}

var backupWrapColumns = []string{
	"code_hash", "hash_salt", "kdf_salt",
	"wrap_ciphertext", "wrap_nonce", "wrap_tag",
	"used", "used_at",
}

func testProfile(ownerID int64, wraps int) models.EncryptionProfile {
	profile := models.EncryptionProfile{
		OwnerID: ownerID,
		Salt:    []byte("profile-salt-16b"),
		KDFParams: models.KDFParams{
			Algorithm: models.KDFAlgorithmArgon2id,
			Time:      3,
			MemoryKiB: 65536,
			Threads:   2,
			KeyLen:    32,
		},
		PrimaryWrap: models.KeyWrap{
			Ciphertext: []byte("wrapped-dek"),
			Nonce:      []byte("primary-nonce"),
			Tag:        []byte("primary-tag!!!!!"),
		},
		KeyVersion: 1,
	}

	for i := 0; i < wraps; i++ {
		profile.BackupWraps = append(profile.BackupWraps, models.BackupWrap{
			CodeHash: []byte{byte(i), 0x01},
			HashSalt: []byte{byte(i), 0x02},
			KDFSalt:  []byte{byte(i), 0x03},
			Wrap: models.KeyWrap{
				Ciphertext: []byte{byte(i), 0x04},
				Nonce:      []byte{byte(i), 0x05},
				Tag:        []byte{byte(i), 0x06},
			},
		})
	}

	return profile
}

func wrapToRowArgs(w models.BackupWrap) []driver.Value {
	return []driver.Value{
		w.CodeHash, w.HashSalt, w.KDFSalt,
		w.Wrap.Ciphertext, w.Wrap.Nonce, w.Wrap.Tag,
		w.Used, w.UsedAt,
	}
}

func TestSaveProfile(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)

	t.Run("success: profile with two backup wraps", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 2)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(upsertProfileQuery)).
			WithArgs(
				profile.OwnerID, profile.Salt,
				profile.KDFParams.Algorithm, profile.KDFParams.Time,
				profile.KDFParams.MemoryKiB, profile.KDFParams.Threads, profile.KDFParams.KeyLen,
				profile.PrimaryWrap.Ciphertext, profile.PrimaryWrap.Nonce, profile.PrimaryWrap.Tag,
				profile.KeyVersion,
			).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(deleteOwnerBackupWrapsQuery)).
			WithArgs(profile.OwnerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		prep := mock.ExpectPrepare(regexp.QuoteMeta(insertBackupWrapQuery))
		for _, wrap := range profile.BackupWraps {
			prep.ExpectExec().
				WithArgs(
					profile.OwnerID,
					wrap.CodeHash, wrap.HashSalt, wrap.KDFSalt,
					wrap.Wrap.Ciphertext, wrap.Wrap.Nonce, wrap.Wrap.Tag,
					wrap.Used, wrap.UsedAt,
				).
				WillReturnResult(sqlmock.NewResult(1, 1))
		}

		mock.ExpectCommit()

		saved, err := repo.SaveProfile(ctx, profile)
		require.NoError(t, err)
		require.NotNil(t, saved.CreatedAt)
		require.NotNil(t, saved.UpdatedAt)
		assert.Equal(t, now, *saved.CreatedAt)
		assert.Equal(t, now, *saved.UpdatedAt)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: profile without backup wraps skips prepare", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 0)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(upsertProfileQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(deleteOwnerBackupWrapsQuery)).
			WithArgs(profile.OwnerID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		_, err := repo.SaveProfile(ctx, profile)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: begin transaction fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin().WillReturnError(errors.New("cannot begin"))

		_, err := repo.SaveProfile(ctx, testProfile(42, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrBeginningTransaction)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: upsert fails rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(upsertProfileQuery)).
			WillReturnError(errors.New("disk full"))
		mock.ExpectRollback()

		_, err := repo.SaveProfile(ctx, testProfile(42, 1))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingQuery)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: retryable failure is classified", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(upsertProfileQuery)).
			WillReturnError(pgError("08006")) // connection_failure
		mock.ExpectRollback()

		_, err := repo.SaveProfile(ctx, testProfile(42, 0))
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRetryableDB)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: wrap insert fails rolls back", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 2)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(upsertProfileQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(deleteOwnerBackupWrapsQuery)).
			WithArgs(profile.OwnerID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		prep := mock.ExpectPrepare(regexp.QuoteMeta(insertBackupWrapQuery))
		prep.ExpectExec().WillReturnResult(sqlmock.NewResult(1, 1))
		prep.ExpectExec().WillReturnError(errors.New("connection lost"))
		mock.ExpectRollback()

		_, err := repo.SaveProfile(ctx, profile)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: commit fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 0)

		mock.ExpectBegin()
		mock.ExpectQuery(regexp.QuoteMeta(upsertProfileQuery)).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
		mock.ExpectExec(regexp.QuoteMeta(deleteOwnerBackupWrapsQuery)).
			WithArgs(profile.OwnerID).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit().WillReturnError(errors.New("commit failed"))

		_, err := repo.SaveProfile(ctx, profile)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrCommitingTransaction)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetProfile(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)

	t.Run("success: profile with backup wraps", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 2)
		usedAt := now.Add(-time.Hour)
		profile.BackupWraps[1].Used = true
		profile.BackupWraps[1].UsedAt = &usedAt

		mock.ExpectQuery(regexp.QuoteMeta(getProfileQuery)).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
				profile.OwnerID, profile.Salt,
				profile.KDFParams.Algorithm, profile.KDFParams.Time,
				profile.KDFParams.MemoryKiB, profile.KDFParams.Threads, profile.KDFParams.KeyLen,
				profile.PrimaryWrap.Ciphertext, profile.PrimaryWrap.Nonce, profile.PrimaryWrap.Tag,
				profile.KeyVersion, now, now,
			))

		wrapRows := sqlmock.NewRows(backupWrapColumns)
		for _, wrap := range profile.BackupWraps {
			wrapRows.AddRow(wrapToRowArgs(wrap)...)
		}
		mock.ExpectQuery(regexp.QuoteMeta(getOwnerBackupWrapsQuery)).
			WithArgs(int64(42)).
			WillReturnRows(wrapRows)

		got, err := repo.GetProfile(ctx, 42)
		require.NoError(t, err)

		assert.Equal(t, profile.OwnerID, got.OwnerID)
		assert.Equal(t, profile.Salt, got.Salt)
		assert.Equal(t, profile.KDFParams, got.KDFParams)
		assert.Equal(t, profile.PrimaryWrap, got.PrimaryWrap)
		assert.Equal(t, profile.KeyVersion, got.KeyVersion)
		require.NotNil(t, got.CreatedAt)
		assert.Equal(t, now, *got.CreatedAt)

		require.Len(t, got.BackupWraps, 2)
		assert.Equal(t, profile.BackupWraps[0], got.BackupWraps[0])
		assert.True(t, got.BackupWraps[1].Used)
		require.NotNil(t, got.BackupWraps[1].UsedAt)
		assert.Equal(t, usedAt.UTC(), got.BackupWraps[1].UsedAt.UTC())

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: profile without backup wraps", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(7, 0)

		mock.ExpectQuery(regexp.QuoteMeta(getProfileQuery)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
				profile.OwnerID, profile.Salt,
				profile.KDFParams.Algorithm, profile.KDFParams.Time,
				profile.KDFParams.MemoryKiB, profile.KDFParams.Threads, profile.KDFParams.KeyLen,
				profile.PrimaryWrap.Ciphertext, profile.PrimaryWrap.Nonce, profile.PrimaryWrap.Tag,
				profile.KeyVersion, now, now,
			))
		mock.ExpectQuery(regexp.QuoteMeta(getOwnerBackupWrapsQuery)).
			WithArgs(int64(7)).
			WillReturnRows(sqlmock.NewRows(backupWrapColumns))

		got, err := repo.GetProfile(ctx, 7)
		require.NoError(t, err)
		assert.Empty(t, got.BackupWraps)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: profile not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(getProfileQuery)).
			WithArgs(int64(99)).
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetProfile(ctx, 99)
		require.ErrorIs(t, err, ErrProfileNotFound)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: profile scan fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(getProfileQuery)).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows([]string{"owner_id"}).AddRow(int64(42))) // wrong shape → scan error

		_, err := repo.GetProfile(ctx, 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScanningRow)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: wraps query fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 0)

		mock.ExpectQuery(regexp.QuoteMeta(getProfileQuery)).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
				profile.OwnerID, profile.Salt,
				profile.KDFParams.Algorithm, profile.KDFParams.Time,
				profile.KDFParams.MemoryKiB, profile.KDFParams.Threads, profile.KDFParams.KeyLen,
				profile.PrimaryWrap.Ciphertext, profile.PrimaryWrap.Nonce, profile.PrimaryWrap.Tag,
				profile.KeyVersion, now, now,
			))
		mock.ExpectQuery(regexp.QuoteMeta(getOwnerBackupWrapsQuery)).
			WithArgs(int64(42)).
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetProfile(ctx, 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingQuery)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: wraps rows iteration error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		profile := testProfile(42, 1)

		mock.ExpectQuery(regexp.QuoteMeta(getProfileQuery)).
			WithArgs(int64(42)).
			WillReturnRows(sqlmock.NewRows(profileColumns).AddRow(
				profile.OwnerID, profile.Salt,
				profile.KDFParams.Algorithm, profile.KDFParams.Time,
				profile.KDFParams.MemoryKiB, profile.KDFParams.Threads, profile.KDFParams.KeyLen,
				profile.PrimaryWrap.Ciphertext, profile.PrimaryWrap.Nonce, profile.PrimaryWrap.Tag,
				profile.KeyVersion, now, now,
			))

		wrapRows := sqlmock.NewRows(backupWrapColumns).
			AddRow(wrapToRowArgs(profile.BackupWraps[0])...).
			RowError(0, errors.New("network interruption"))
		mock.ExpectQuery(regexp.QuoteMeta(getOwnerBackupWrapsQuery)).
			WithArgs(int64(42)).
			WillReturnRows(wrapRows)

		_, err := repo.GetProfile(ctx, 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrScanningRows)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteProfile(t *testing.T) {
	t.Run("success: profile deleted", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectExec(regexp.QuoteMeta(deleteProfileQuery)).
			WithArgs(int64(42)).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := repo.DeleteProfile(ctx, 42)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("success: absent profile is not an error", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectExec(regexp.QuoteMeta(deleteProfileQuery)).
			WithArgs(int64(99)).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.DeleteProfile(ctx, 99)
		require.NoError(t, err)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: exec fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestProfileRepo(t, db)
		ctx := testContext()

		mock.ExpectExec(regexp.QuoteMeta(deleteProfileQuery)).
			WithArgs(int64(42)).
			WillReturnError(errors.New("connection refused"))

		err := repo.DeleteProfile(ctx, 42)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrExecutingStatement)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
