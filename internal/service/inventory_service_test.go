package service

import (
	"context"
	"testing"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newInventoryService(t *testing.T, dir *fakeUserRepo) (InventoryService, sqlmock.Sqlmock) {
	t.Helper()
	db, mock := newMockGorm(t)
	scoper := authz.NewScoper(authz.NewRelationshipIndex(db))
	notifier := NewNotifier(db, authz.NewAudienceResolver(dir), websocket.NewHub())
	return NewInventoryService(db, scoper, repository.NewTransactionManager(db), notifier), mock
}

func expectPartRow(mock sqlmock.Sqlmock, partID uuid.UUID, qty, minQty int) {
	mock.ExpectQuery(`SELECT (.+) FROM "spare_parts"`).
		WithArgs(partID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "quantity", "min_quantity"}).
			AddRow(partID.String(), "Bearing 6204", qty, minQty))
}

// TestMoveCrossingMinimumEscalates: a consumption that drops the part from
// above its minimum to at-or-below raises the low-stock event. The acting
// admin is excluded from the audience, so exactly one notification row (the
// supervisor's) lands in the same transaction as the movement.
func TestMoveCrossingMinimumEscalates(t *testing.T) {
	dir := newFakeUserRepo()
	actingAdmin := seedUser(dir, "ADMIN", true)
	seedUser(dir, "SUPERVISOR", true)
	svc, mock := newInventoryService(t, dir)

	actor := authz.Principal{ID: actingAdmin.ID, Role: authz.RoleAdmin}
	partID := uuid.New()

	mock.ExpectBegin()
	expectPartRow(mock, partID, 5, 4)
	mock.ExpectExec(`UPDATE "spare_parts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "stock_movements"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	part, err := svc.Move(context.Background(), actor, partID, StockMovementRequest{Delta: -2, Reason: model.MovementConsumption})
	require.NoError(t, err)
	require.Equal(t, 3, part.Quantity)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestMoveAlreadyBelowMinimumDoesNotReEscalate: the event fires only on the
// crossing. A part already at or under its minimum moves without a fresh
// notification.
func TestMoveAlreadyBelowMinimumDoesNotReEscalate(t *testing.T) {
	dir := newFakeUserRepo()
	actingAdmin := seedUser(dir, "ADMIN", true)
	seedUser(dir, "SUPERVISOR", true)
	svc, mock := newInventoryService(t, dir)

	actor := authz.Principal{ID: actingAdmin.ID, Role: authz.RoleAdmin}
	partID := uuid.New()

	mock.ExpectBegin()
	expectPartRow(mock, partID, 3, 4)
	mock.ExpectExec(`UPDATE "spare_parts" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "stock_movements"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectCommit()

	_, err := svc.Move(context.Background(), actor, partID, StockMovementRequest{Delta: -1, Reason: model.MovementConsumption})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestMoveInsufficientStockRollsBack
func TestMoveInsufficientStockRollsBack(t *testing.T) {
	svc, mock := newInventoryService(t, newFakeUserRepo())

	actor := authz.Principal{ID: uuid.New(), Role: authz.RoleAdmin}
	partID := uuid.New()

	mock.ExpectBegin()
	expectPartRow(mock, partID, 1, 4)
	mock.ExpectRollback()

	_, err := svc.Move(context.Background(), actor, partID, StockMovementRequest{Delta: -5, Reason: model.MovementConsumption})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
