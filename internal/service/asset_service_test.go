package service

import (
	"context"
	"testing"

	"backend/internal/authz"
	"backend/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockGorm(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

// TestArchiveAssetFlipsFlagWithoutDelete: the asset delete path flips
// is_archived inside one transaction, with the audit row alongside. The mock
// runs in ordered mode, so a DELETE statement anywhere in the sequence would
// fail the test.
func TestArchiveAssetFlipsFlagWithoutDelete(t *testing.T) {
	db, mock := newMockGorm(t)
	scoper := authz.NewScoper(authz.NewRelationshipIndex(db))
	svc := NewAssetService(db, scoper, repository.NewTransactionManager(db))

	admin := authz.Principal{ID: uuid.New(), Role: authz.RoleAdmin}
	assetID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "assets"`).
		WithArgs(assetID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_archived"}).
			AddRow(assetID.String(), "Conveyor A", false))
	mock.ExpectExec(`UPDATE "assets" SET`).
		WithArgs(true, sqlmock.AnyArg(), assetID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	require.NoError(t, svc.ArchiveAsset(context.Background(), admin, assetID))
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestArchiveMissingAssetRollsBack: an invisible or absent asset surfaces the
// same not-found and leaves the transaction rolled back.
func TestArchiveMissingAssetRollsBack(t *testing.T) {
	db, mock := newMockGorm(t)
	scoper := authz.NewScoper(authz.NewRelationshipIndex(db))
	svc := NewAssetService(db, scoper, repository.NewTransactionManager(db))

	admin := authz.Principal{ID: uuid.New(), Role: authz.RoleAdmin}

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "assets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectRollback()

	err := svc.ArchiveAsset(context.Background(), admin, uuid.New())
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
