package authz

import (
	"context"
	"testing"

	"backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db, mock
}

// TestFetchCollapsesAbsentAndInvisible: whether the row does not exist or the
// scope filtered it out, the caller observes the identical found=false.
func TestFetchCollapsesAbsentAndInvisible(t *testing.T) {
	db, mock := newMockDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	operator := Principal{ID: uuid.New(), Role: RoleOperador}

	mock.ExpectQuery(`SELECT (.+) FROM "work_orders"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	order, found, err := Fetch[model.WorkOrder](context.Background(), db, scoper, operator, EntityWorkOrder, uuid.New())
	require.NoError(t, err)
	require.False(t, found)
	require.Nil(t, order)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchReturnsVisibleEntity(t *testing.T) {
	db, mock := newMockDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	operator := Principal{ID: uuid.New(), Role: RoleOperador}

	orderID := uuid.New()
	mock.ExpectQuery(`SELECT (.+) FROM "work_orders"`).
		WithArgs(operator.ID, orderID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "assigned_to", "status"}).
			AddRow(orderID.String(), "Pump overhaul", operator.ID.String(), model.WorkOrderPending))

	order, found, err := Fetch[model.WorkOrder](context.Background(), db, scoper, operator, EntityWorkOrder, orderID)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, orderID, order.ID)
	require.Equal(t, model.WorkOrderPending, order.Status)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchDeniedEntityTypeHitsNoStorage(t *testing.T) {
	db, mock := newMockDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	unknown := Principal{ID: uuid.New(), Role: RoleUnknown}

	// The deny-all predicate still queries, but can never match
	mock.ExpectQuery(`SELECT (.+) FROM "work_orders" WHERE 1 = 0`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, found, err := Fetch[model.WorkOrder](context.Background(), db, scoper, unknown, EntityWorkOrder, uuid.New())
	require.NoError(t, err)
	require.False(t, found)
	require.NoError(t, mock.ExpectationsWereMet())
}
