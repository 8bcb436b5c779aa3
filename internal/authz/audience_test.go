package authz

import (
	"context"
	"errors"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
)

type fakeDirectory struct {
	ids []uuid.UUID
	err error

	calls int
}

func (f *fakeDirectory) ListIDsByRole(ctx context.Context, roles ...Role) ([]uuid.UUID, error) {
	f.calls++
	return f.ids, f.err
}

func contains(ids []uuid.UUID, id uuid.UUID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

// TestRecipientsBaseline verifies the additive baseline: owner and creator,
// actor excluded, no directory lookup for non-escalating events.
func TestRecipientsBaseline(t *testing.T) {
	owner := uuid.New()
	creator := uuid.New()
	actor := uuid.New()

	dir := &fakeDirectory{ids: []uuid.UUID{uuid.New()}}
	r := NewAudienceResolver(dir)

	order := &model.WorkOrder{AssignedTo: owner, CreatedBy: creator, Priority: model.PriorityBaja}

	got, err := r.Recipients(context.Background(), order, model.NotifWorkOrderUpdated, Principal{ID: actor, Role: RoleSupervisor})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if len(got) != 2 || !contains(got, owner) || !contains(got, creator) {
		t.Errorf("Expected exactly owner and creator, got %v", got)
	}
	if dir.calls != 0 {
		t.Errorf("Expected no directory lookup for low priority, got %d calls", dir.calls)
	}
}

// TestRecipientsActorExcluded verifies nobody is notified of their own action
func TestRecipientsActorExcluded(t *testing.T) {
	owner := uuid.New()
	creator := uuid.New()

	r := NewAudienceResolver(&fakeDirectory{})
	order := &model.WorkOrder{AssignedTo: owner, CreatedBy: creator, Priority: model.PriorityMedia}

	got, err := r.Recipients(context.Background(), order, model.NotifWorkOrderTransition, Principal{ID: owner, Role: RoleOperador})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1 || got[0] != creator {
		t.Errorf("Expected only creator when owner is the actor, got %v", got)
	}
}

// TestRecipientsEscalation covers the two escalation triggers: high severity
// tiers and unconditionally critical event types.
func TestRecipientsEscalation(t *testing.T) {
	owner := uuid.New()
	creator := uuid.New()
	actor := uuid.New()
	admin1 := uuid.New()
	admin2 := uuid.New()

	tests := []struct {
		name      string
		priority  string
		eventType string
		escalates bool
	}{
		{"baja priority does not escalate", model.PriorityBaja, model.NotifWorkOrderTransition, false},
		{"media priority does not escalate", model.PriorityMedia, model.NotifWorkOrderTransition, false},
		{"alta priority escalates", model.PriorityAlta, model.NotifWorkOrderTransition, true},
		{"critica priority escalates", model.PriorityCritica, model.NotifWorkOrderTransition, true},
		{"out of service escalates at any tier", model.PriorityBaja, model.NotifAssetOutOfService, true},
		{"high failure risk escalates at any tier", model.PriorityBaja, model.NotifHighFailureRisk, true},
		{"low stock escalates at any tier", model.PriorityBaja, model.NotifLowStock, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// owner appears in the escalation tier too: must not duplicate
			dir := &fakeDirectory{ids: []uuid.UUID{admin1, admin2, owner, actor}}
			r := NewAudienceResolver(dir)
			order := &model.WorkOrder{AssignedTo: owner, CreatedBy: creator, Priority: tt.priority}

			got, err := r.Recipients(context.Background(), order, tt.eventType, Principal{ID: actor, Role: RoleAdmin})
			if err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}

			want := 2
			if tt.escalates {
				want = 4
			}
			if len(got) != want {
				t.Fatalf("Expected %d recipients, got %d: %v", want, len(got), got)
			}
			if contains(got, actor) {
				t.Error("Actor must never be a recipient")
			}
			if tt.escalates && (!contains(got, admin1) || !contains(got, admin2)) {
				t.Error("Expected escalation tier in recipients")
			}
		})
	}
}

// TestRecipientsEventSource verifies entity-less events skip zero ids
func TestRecipientsEventSource(t *testing.T) {
	admin := uuid.New()
	dir := &fakeDirectory{ids: []uuid.UUID{admin}}
	r := NewAudienceResolver(dir)

	got, err := r.Recipients(context.Background(), EventSource{Tier: model.CriticalityMedia}, model.NotifLowStock, Principal{ID: uuid.New(), Role: RoleSupervisor})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(got) != 1 || got[0] != admin {
		t.Errorf("Expected only the escalation tier, got %v", got)
	}
}

// TestRecipientsDirectoryError propagates lookup failures
func TestRecipientsDirectoryError(t *testing.T) {
	dir := &fakeDirectory{err: errors.New("db down")}
	r := NewAudienceResolver(dir)

	order := &model.WorkOrder{AssignedTo: uuid.New(), CreatedBy: uuid.New(), Priority: model.PriorityCritica}
	if _, err := r.Recipients(context.Background(), order, model.NotifWorkOrderTransition, Principal{ID: uuid.New(), Role: RoleAdmin}); err == nil {
		t.Fatal("Expected error from directory lookup")
	}
}
