package authz

import "backend/internal/model"

// workOrderEdges is the full transition table. It defines which transitions
// exist at all; roles only decide who may attempt one. COMPLETED and
// CANCELLED have no outgoing edges.
var workOrderEdges = map[string][]string{
	model.WorkOrderPending:    {model.WorkOrderInProgress, model.WorkOrderCancelled},
	model.WorkOrderInProgress: {model.WorkOrderCompleted, model.WorkOrderCancelled},
}

// CanTransition reports whether from→to is an edge of the work-order state
// machine. Role-independent: an edge outside this table is rejected for
// everyone, including ADMIN.
func CanTransition(from, to string) bool {
	for _, next := range workOrderEdges[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ownershipAlwaysRequired marks entity types where even see-all roles must
// own the instance to mutate it. Notifications are personal for everyone.
var ownershipAlwaysRequired = map[EntityType]bool{
	EntityNotification: true,
}

// Authorize is the second, independent check on the mutation path, run after
// the object-access guard has already established visibility. It combines the
// role capability table with ownership: operators only ever act on entities
// they own. A nil entity authorizes creation, where there is nothing to own
// yet. Business guards (dependent assets, self-deactivation, transition
// legality) are evaluated separately by the services.
func Authorize(p Principal, entityType EntityType, entity Ownable, action Action) error {
	if !MutationAllowed(p.Role, entityType, action) {
		return ErrForbidden
	}
	if entity == nil {
		return nil
	}
	if p.Role == RoleOperador || ownershipAlwaysRequired[entityType] {
		if entity.OwnerID() != p.ID {
			return ErrForbidden
		}
	}
	return nil
}
