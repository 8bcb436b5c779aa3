package authz

import (
	"context"

	"backend/internal/model"

	"github.com/google/uuid"
)

// Directory resolves role membership for escalation. Implemented by the user
// repository; the resolver itself never queries storage directly.
type Directory interface {
	ListIDsByRole(ctx context.Context, roles ...Role) ([]uuid.UUID, error)
}

// criticalEvents escalate regardless of the entity's severity tier
var criticalEvents = map[string]bool{
	model.NotifAssetOutOfService: true,
	model.NotifHighFailureRisk:   true,
	model.NotifLowStock:          true,
}

// escalatingSeverities are the priority/criticality tiers that pull
// supervisors and admins into the audience.
var escalatingSeverities = map[string]bool{
	model.PriorityAlta:    true,
	model.PriorityCritica: true,
}

// AudienceResolver computes exactly who is notified of an event on an entity.
// The audience is built additively from ownership and escalation. It never
// starts from "everyone" and filters down, so an uninvolved operator cannot
// appear in the result by construction.
type AudienceResolver struct {
	dir Directory
}

func NewAudienceResolver(dir Directory) *AudienceResolver {
	return &AudienceResolver{dir: dir}
}

// Recipients returns the deduplicated recipient ids for an event: the
// entity's owner and creator, plus every ADMIN and SUPERVISOR when the event
// escalates. The acting principal is always excluded: nobody is notified of
// their own action.
func (r *AudienceResolver) Recipients(ctx context.Context, entity AudienceEntity, eventType string, actor Principal) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var out []uuid.UUID

	add := func(id uuid.UUID) {
		if id == uuid.Nil || id == actor.ID || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, id)
	}

	add(entity.OwnerID())
	add(entity.CreatorID())

	if escalatingSeverities[entity.Severity()] || criticalEvents[eventType] {
		ids, err := r.dir.ListIDsByRole(ctx, RoleAdmin, RoleSupervisor)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			add(id)
		}
	}

	return out, nil
}

// EventSource adapts events without a naturally owned entity (prediction
// ingest, low stock) to the resolver. Zero owner/creator ids are skipped.
type EventSource struct {
	Owner   uuid.UUID
	Creator uuid.UUID
	Tier    string
}

func (e EventSource) OwnerID() uuid.UUID   { return e.Owner }
func (e EventSource) CreatorID() uuid.UUID { return e.Creator }
func (e EventSource) Severity() string     { return e.Tier }
