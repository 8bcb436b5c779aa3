package authz

import (
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FilterExpression is a composable visibility predicate expressed as a gorm
// scope. Derived scopes are SQL subqueries, never materialized id lists, so
// the reachable set is evaluated inside the same statement (and transaction)
// as the query it restricts.
type FilterExpression func(*gorm.DB) *gorm.DB

// AllowAll places no restriction on the query
func AllowAll(db *gorm.DB) *gorm.DB { return db }

// DenyAll matches nothing. Unknown roles and unregistered entity types
// resolve here: absence of proof of visibility is invisibility.
func DenyAll(db *gorm.DB) *gorm.DB { return db.Where("1 = 0") }

// RelationshipIndex answers reachability questions as subqueries: which
// entities of one type are reachable from a principal through another type.
// It is read-only and holds no state beyond the root DB handle.
type RelationshipIndex struct {
	db *gorm.DB
}

func NewRelationshipIndex(db *gorm.DB) *RelationshipIndex {
	return &RelationshipIndex{db: db}
}

// AssignedAssetIDs is the set of asset ids referenced by the principal's
// work orders, regardless of work-order status.
func (ri *RelationshipIndex) AssignedAssetIDs(principalID uuid.UUID) *gorm.DB {
	return ri.db.Model(&model.WorkOrder{}).
		Select("work_orders.asset_id").
		Where("work_orders.assigned_to = ?", principalID)
}

// ActiveAssignedAssetIDs narrows AssignedAssetIDs to work orders in an
// active (non-terminal) status. Status-record visibility hangs off this set,
// so it can disappear when the reaching work order closes.
func (ri *RelationshipIndex) ActiveAssignedAssetIDs(principalID uuid.UUID) *gorm.DB {
	return ri.db.Model(&model.WorkOrder{}).
		Select("work_orders.asset_id").
		Where("work_orders.assigned_to = ?", principalID).
		Where("work_orders.status IN ?", model.ActiveWorkOrderStatuses)
}

// VisibilityPolicy decides, per entity type, which instances a principal may
// see. One implementation per type, composed into the Scoper rather than a
// mixin hierarchy. Filter must be pure: it depends only on the principal and the
// store state the subqueries read, never on request parameters.
type VisibilityPolicy interface {
	EntityType() EntityType
	Filter(p Principal) FilterExpression
}

// WorkOrderPolicy: operators see exactly the work orders assigned to them,
// a direct relation, not a derived one.
type WorkOrderPolicy struct{}

func (WorkOrderPolicy) EntityType() EntityType { return EntityWorkOrder }

func (WorkOrderPolicy) Filter(p Principal) FilterExpression {
	if CanSeeAll(p.Role, EntityWorkOrder) {
		return AllowAll
	}
	if p.Role == RoleOperador {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("work_orders.assigned_to = ?", p.ID)
		}
	}
	return DenyAll
}

// AssetPolicy: operator asset visibility has no storage of its own; it is
// entirely a function of current work-order assignment.
type AssetPolicy struct {
	Index *RelationshipIndex
}

func (AssetPolicy) EntityType() EntityType { return EntityAsset }

func (pol AssetPolicy) Filter(p Principal) FilterExpression {
	if CanSeeAll(p.Role, EntityAsset) {
		return AllowAll
	}
	if p.Role == RoleOperador {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("assets.id IN (?)", pol.Index.AssignedAssetIDs(p.ID))
		}
	}
	return DenyAll
}

// PredictionPolicy chains one hop further: a prediction is visible iff its
// asset is visible.
type PredictionPolicy struct {
	Index *RelationshipIndex
}

func (PredictionPolicy) EntityType() EntityType { return EntityPrediction }

func (pol PredictionPolicy) Filter(p Principal) FilterExpression {
	if CanSeeAll(p.Role, EntityPrediction) {
		return AllowAll
	}
	if p.Role == RoleOperador {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("predictions.asset_id IN (?)", pol.Index.AssignedAssetIDs(p.ID))
		}
	}
	return DenyAll
}

// AssetStatusPolicy additionally requires the reaching work order to be
// active: a closed work order no longer grants status visibility even though
// the asset relationship once existed.
type AssetStatusPolicy struct {
	Index *RelationshipIndex
}

func (AssetStatusPolicy) EntityType() EntityType { return EntityAssetStatus }

func (pol AssetStatusPolicy) Filter(p Principal) FilterExpression {
	if CanSeeAll(p.Role, EntityAssetStatus) {
		return AllowAll
	}
	if p.Role == RoleOperador {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("asset_statuses.asset_id IN (?)", pol.Index.ActiveAssignedAssetIDs(p.ID))
		}
	}
	return DenyAll
}

// AssetStatusHistoryPolicy mirrors AssetStatusPolicy for the append-only log
type AssetStatusHistoryPolicy struct {
	Index *RelationshipIndex
}

func (AssetStatusHistoryPolicy) EntityType() EntityType { return EntityAssetStatusHistory }

func (pol AssetStatusHistoryPolicy) Filter(p Principal) FilterExpression {
	if CanSeeAll(p.Role, EntityAssetStatusHistory) {
		return AllowAll
	}
	if p.Role == RoleOperador {
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("asset_status_histories.asset_id IN (?)", pol.Index.ActiveAssignedAssetIDs(p.ID))
		}
	}
	return DenyAll
}

// NotificationPolicy: strictly the principal's own inbox, for every role
type NotificationPolicy struct{}

func (NotificationPolicy) EntityType() EntityType { return EntityNotification }

func (NotificationPolicy) Filter(p Principal) FilterExpression {
	switch p.Role {
	case RoleAdmin, RoleSupervisor, RoleOperador:
		return func(db *gorm.DB) *gorm.DB {
			return db.Where("notifications.user_id = ?", p.ID)
		}
	default:
		return DenyAll
	}
}

// RolePolicy covers entity types whose visibility is purely role-gated with
// no derived chain (locations, spare parts, plans, users): either the role
// sees everything or nothing.
type RolePolicy struct {
	Type EntityType
}

func (pol RolePolicy) EntityType() EntityType { return pol.Type }

func (pol RolePolicy) Filter(p Principal) FilterExpression {
	if CanSeeAll(p.Role, pol.Type) {
		return AllowAll
	}
	return DenyAll
}
