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

// TestTransitionRejectsIllegalEdge: completed orders are terminal. The edge
// check fires before any role check, so even an ADMIN gets the validation
// error and nothing is written.
func TestTransitionRejectsIllegalEdge(t *testing.T) {
	db, mock := newMockGorm(t)
	scoper := authz.NewScoper(authz.NewRelationshipIndex(db))
	svc := NewWorkOrderService(db, scoper, repository.NewTransactionManager(db), nil)

	admin := authz.Principal{ID: uuid.New(), Role: authz.RoleAdmin}
	orderID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "work_orders"`).
		WithArgs(orderID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status"}).
			AddRow(orderID.String(), "Pump overhaul", model.WorkOrderCompleted))
	mock.ExpectRollback()

	_, err := svc.Transition(context.Background(), admin, orderID, TransitionRequest{Status: model.WorkOrderInProgress})
	require.ErrorIs(t, err, authz.ErrInvalidTransition)
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestTransitionCompletesAndNotifies: a legal IN_PROGRESS -> COMPLETED write
// lands in one transaction with its audit row, and the notification rows for
// the assignee and creator are persisted through the same transaction. The
// acting admin is not a recipient.
func TestTransitionCompletesAndNotifies(t *testing.T) {
	db, mock := newMockGorm(t)
	scoper := authz.NewScoper(authz.NewRelationshipIndex(db))
	notifier := NewNotifier(db, authz.NewAudienceResolver(newFakeUserRepo()), websocket.NewHub())
	svc := NewWorkOrderService(db, scoper, repository.NewTransactionManager(db), notifier)

	admin := authz.Principal{ID: uuid.New(), Role: authz.RoleAdmin}
	orderID := uuid.New()
	assignee := uuid.New()
	creator := uuid.New()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT (.+) FROM "work_orders"`).
		WithArgs(orderID, 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "status", "priority", "assigned_to", "created_by"}).
			AddRow(orderID.String(), "Pump overhaul", model.WorkOrderInProgress, model.PriorityMedia, assignee.String(), creator.String()))
	mock.ExpectExec(`UPDATE "work_orders" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "audit_logs"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).
			AddRow(uuid.NewString()).
			AddRow(uuid.NewString()))
	mock.ExpectCommit()

	order, err := svc.Transition(context.Background(), admin, orderID, TransitionRequest{Status: model.WorkOrderCompleted})
	require.NoError(t, err)
	require.Equal(t, model.WorkOrderCompleted, order.Status)
	require.NotNil(t, order.CompletedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}
