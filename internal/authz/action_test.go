package authz

import (
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

// TestCanTransition exercises every edge of the work-order state machine,
// including the absence of edges out of terminal states.
func TestCanTransition(t *testing.T) {
	tests := []struct {
		from string
		to   string
		want bool
	}{
		{model.WorkOrderPending, model.WorkOrderInProgress, true},
		{model.WorkOrderPending, model.WorkOrderCancelled, true},
		{model.WorkOrderPending, model.WorkOrderCompleted, false},
		{model.WorkOrderInProgress, model.WorkOrderCompleted, true},
		{model.WorkOrderInProgress, model.WorkOrderCancelled, true},
		{model.WorkOrderInProgress, model.WorkOrderPending, false},
		{model.WorkOrderCompleted, model.WorkOrderInProgress, false},
		{model.WorkOrderCompleted, model.WorkOrderPending, false},
		{model.WorkOrderCancelled, model.WorkOrderPending, false},
		{model.WorkOrderCancelled, model.WorkOrderInProgress, false},
		{model.WorkOrderPending, model.WorkOrderPending, false},
		{"BOGUS", model.WorkOrderInProgress, false},
		{model.WorkOrderPending, "BOGUS", false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%s, %s) = %t, want %t", tt.from, tt.to, got, tt.want)
		}
	}
}

// TestAuthorize tests the capability-plus-ownership check
func TestAuthorize(t *testing.T) {
	operatorID := uuid.New()
	adminID := uuid.New()
	otherID := uuid.New()

	ownOrder := &model.WorkOrder{AssignedTo: operatorID, CreatedBy: adminID}
	foreignOrder := &model.WorkOrder{AssignedTo: otherID, CreatedBy: adminID}

	tests := []struct {
		name    string
		p       Principal
		et      EntityType
		entity  Ownable
		action  Action
		wantErr error
	}{
		{"operator transitions own order", Principal{operatorID, RoleOperador}, EntityWorkOrder, ownOrder, ActionTransition, nil},
		{"operator cannot transition foreign order", Principal{operatorID, RoleOperador}, EntityWorkOrder, foreignOrder, ActionTransition, ErrForbidden},
		{"operator lacks delete capability on own order", Principal{operatorID, RoleOperador}, EntityWorkOrder, ownOrder, ActionDelete, ErrForbidden},
		{"admin transitions any order", Principal{adminID, RoleAdmin}, EntityWorkOrder, foreignOrder, ActionTransition, nil},
		{"supervisor deletes any order", Principal{adminID, RoleSupervisor}, EntityWorkOrder, foreignOrder, ActionDelete, nil},
		{"nil entity authorizes creation", Principal{adminID, RoleAdmin}, EntityAsset, nil, ActionCreate, nil},
		{"operator creation denied before ownership", Principal{operatorID, RoleOperador}, EntityAsset, nil, ActionCreate, ErrForbidden},
		{"unknown role denied everywhere", Principal{otherID, RoleUnknown}, EntityWorkOrder, ownOrder, ActionTransition, ErrForbidden},
		{"admin cannot mark another user's notification", Principal{adminID, RoleAdmin}, EntityNotification, &model.Notification{UserID: otherID}, ActionUpdate, ErrForbidden},
		{"admin marks own notification", Principal{adminID, RoleAdmin}, EntityNotification, &model.Notification{UserID: adminID}, ActionUpdate, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.p, tt.et, tt.entity, tt.action)
			if err != tt.wantErr {
				t.Errorf("Authorize() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
