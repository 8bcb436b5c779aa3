package authz

import "gorm.io/gorm"

// Scoper applies the mandatory visibility predicate to queries. It is the
// single choke point for collection access: services obtain their base query
// here and only then layer caller-supplied filters on top, so no request
// parameter can ever widen the result set past the visible one.
type Scoper struct {
	policies map[EntityType]VisibilityPolicy
}

// NewScoper composes one policy per entity type
func NewScoper(idx *RelationshipIndex) *Scoper {
	s := &Scoper{policies: make(map[EntityType]VisibilityPolicy)}
	s.register(
		WorkOrderPolicy{},
		AssetPolicy{Index: idx},
		PredictionPolicy{Index: idx},
		AssetStatusPolicy{Index: idx},
		AssetStatusHistoryPolicy{Index: idx},
		NotificationPolicy{},
		RolePolicy{Type: EntityLocation},
		RolePolicy{Type: EntityMaintenancePlan},
		RolePolicy{Type: EntitySparePart},
		RolePolicy{Type: EntityUser},
	)
	return s
}

func (s *Scoper) register(policies ...VisibilityPolicy) {
	for _, p := range policies {
		s.policies[p.EntityType()] = p
	}
}

// Filter returns the visibility predicate for the principal and entity type.
// An unregistered entity type yields DenyAll, never an open default.
func (s *Scoper) Filter(p Principal, entityType EntityType) FilterExpression {
	pol, ok := s.policies[entityType]
	if !ok {
		return DenyAll
	}
	return pol.Filter(p)
}

// Scope ANDs the visibility predicate onto the query before anything else
func (s *Scoper) Scope(q *gorm.DB, p Principal, entityType EntityType) *gorm.DB {
	return s.Filter(p, entityType)(q)
}
