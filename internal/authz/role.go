package authz

// Role is the closed capability tier of a principal. Any string outside the
// three known roles maps to RoleUnknown, which has zero capabilities for
// every check, so malformed principals deny everything rather than erroring.
type Role string

const (
	RoleAdmin      Role = "ADMIN"
	RoleSupervisor Role = "SUPERVISOR"
	RoleOperador   Role = "OPERADOR"
	RoleUnknown    Role = "UNKNOWN"
)

// RoleFromString normalizes an arbitrary role claim into the closed enum
func RoleFromString(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleSupervisor:
		return RoleSupervisor
	case RoleOperador:
		return RoleOperador
	default:
		return RoleUnknown
	}
}

// EntityType identifies a domain aggregate for capability and visibility lookups
type EntityType string

const (
	EntityWorkOrder          EntityType = "work_order"
	EntityAsset              EntityType = "asset"
	EntityPrediction         EntityType = "prediction"
	EntityAssetStatus        EntityType = "asset_status"
	EntityAssetStatusHistory EntityType = "asset_status_history"
	EntityNotification       EntityType = "notification"
	EntityLocation           EntityType = "location"
	EntityMaintenancePlan    EntityType = "maintenance_plan"
	EntitySparePart          EntityType = "spare_part"
	EntityUser               EntityType = "user"
)

// Action is a mutating operation subject to authorization
type Action string

const (
	ActionCreate         Action = "create"
	ActionUpdate         Action = "update"
	ActionDelete         Action = "delete"
	ActionTransition     Action = "transition"
	ActionAssign         Action = "assign"
	ActionReport         Action = "report"
	ActionUpdateProgress Action = "update_progress"
)

// seeAll lists entity types each role sees without restriction. Notifications
// are deliberately absent for every role: an inbox is personal, and even
// ADMIN reads only their own rows.
var seeAll = map[Role]map[EntityType]bool{
	RoleAdmin: {
		EntityWorkOrder:          true,
		EntityAsset:              true,
		EntityPrediction:         true,
		EntityAssetStatus:        true,
		EntityAssetStatusHistory: true,
		EntityLocation:           true,
		EntityMaintenancePlan:    true,
		EntitySparePart:          true,
		EntityUser:               true,
	},
	RoleSupervisor: {
		// Identical to ADMIN for now; team-scoped narrowing is a known
		// extension point that would replace these entries with derived
		// policies.
		EntityWorkOrder:          true,
		EntityAsset:              true,
		EntityPrediction:         true,
		EntityAssetStatus:        true,
		EntityAssetStatusHistory: true,
		EntityLocation:           true,
		EntityMaintenancePlan:    true,
		EntitySparePart:          true,
		EntityUser:               true,
	},
	RoleOperador: {
		// Reference data every authenticated user may browse.
		EntityLocation:  true,
		EntitySparePart: true,
	},
}

// CanSeeAll reports whether the role sees every instance of the entity type.
// Missing entries are false: unknown roles and unlisted types fail closed.
func CanSeeAll(role Role, entityType EntityType) bool {
	return seeAll[role][entityType]
}

type capKey struct {
	role       Role
	entityType EntityType
	action     Action
}

func grant(m map[capKey]bool, role Role, et EntityType, actions ...Action) {
	for _, a := range actions {
		m[capKey{role, et, a}] = true
	}
}

// capabilities is the static mutation table. There are no persisted grants:
// the whole permission surface of the system is this table plus ownership.
var capabilities = func() map[capKey]bool {
	m := make(map[capKey]bool)

	for _, role := range []Role{RoleAdmin, RoleSupervisor} {
		grant(m, role, EntityWorkOrder, ActionCreate, ActionUpdate, ActionDelete, ActionTransition, ActionAssign, ActionUpdateProgress)
		grant(m, role, EntityAsset, ActionCreate, ActionUpdate, ActionDelete)
		grant(m, role, EntityLocation, ActionCreate, ActionUpdate, ActionDelete)
		grant(m, role, EntityMaintenancePlan, ActionCreate, ActionUpdate, ActionDelete)
		grant(m, role, EntitySparePart, ActionCreate, ActionUpdate, ActionDelete)
		grant(m, role, EntityAssetStatus, ActionReport)
		grant(m, role, EntityNotification, ActionUpdate)
	}

	// Prediction ingest comes from the ML pipeline through an admin credential.
	grant(m, RoleAdmin, EntityPrediction, ActionCreate, ActionDelete)

	// User management is ADMIN only.
	grant(m, RoleAdmin, EntityUser, ActionCreate, ActionUpdate, ActionDelete)

	// Operators act on their own work orders (ownership enforced separately):
	// they may progress and transition them, never delete or reassign.
	grant(m, RoleOperador, EntityWorkOrder, ActionTransition, ActionUpdateProgress)
	grant(m, RoleOperador, EntityAssetStatus, ActionReport)
	grant(m, RoleOperador, EntityNotification, ActionUpdate)

	return m
}()

// MutationAllowed reports whether the role may attempt the action on the
// entity type at all. Ownership is a separate, additional requirement checked
// by Authorize. Missing entries are false.
func MutationAllowed(role Role, entityType EntityType, action Action) bool {
	return capabilities[capKey{role, entityType, action}]
}
