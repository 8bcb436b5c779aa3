package authz

import (
	"strings"
	"testing"

	"backend/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newTestDB opens a gorm handle over sqlmock. Scope tests run in DryRun mode,
// so nothing is ever executed against the mock; it only backs the dialector.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	sqlDB, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{})
	require.NoError(t, err)
	return db
}

func buildSQL(t *testing.T, q *gorm.DB, dest interface{}) (string, []interface{}) {
	t.Helper()
	stmt := q.Session(&gorm.Session{DryRun: true}).Find(dest).Statement
	return stmt.SQL.String(), stmt.Vars
}

func TestWorkOrderScopeSQL(t *testing.T) {
	db := newTestDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	operator := Principal{ID: uuid.New(), Role: RoleOperador}

	var orders []model.WorkOrder
	sql, vars := buildSQL(t, scoper.Scope(db.Model(&model.WorkOrder{}), operator, EntityWorkOrder), &orders)

	require.Contains(t, sql, "work_orders.assigned_to")
	require.Contains(t, vars, operator.ID)

	// See-all roles get no restriction
	admin := Principal{ID: uuid.New(), Role: RoleAdmin}
	sql, _ = buildSQL(t, scoper.Scope(db.Model(&model.WorkOrder{}), admin, EntityWorkOrder), &orders)
	require.NotContains(t, sql, "assigned_to")
	require.NotContains(t, sql, "1 = 0")
}

func TestUnknownRoleMatchesNothing(t *testing.T) {
	db := newTestDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	p := Principal{ID: uuid.New(), Role: RoleUnknown}

	var orders []model.WorkOrder
	sql, _ := buildSQL(t, scoper.Scope(db.Model(&model.WorkOrder{}), p, EntityWorkOrder), &orders)
	require.Contains(t, sql, "1 = 0")

	// Unregistered entity types resolve to the same dead predicate
	sql, _ = buildSQL(t, scoper.Scope(db.Model(&model.WorkOrder{}), Principal{ID: uuid.New(), Role: RoleAdmin}, EntityType("unmapped")), &orders)
	require.Contains(t, sql, "1 = 0")
}

// TestDerivedAssetScopeSQL verifies operator asset visibility is a subquery
// over work-order assignment, not a materialized id list.
func TestDerivedAssetScopeSQL(t *testing.T) {
	db := newTestDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	operator := Principal{ID: uuid.New(), Role: RoleOperador}

	var assets []model.Asset
	sql, vars := buildSQL(t, scoper.Scope(db.Model(&model.Asset{}), operator, EntityAsset), &assets)

	require.Contains(t, sql, "assets.id IN (SELECT")
	require.Contains(t, sql, "work_orders.assigned_to")
	require.Contains(t, vars, operator.ID)
	// Any assignment qualifies for asset visibility, active or not
	require.NotContains(t, sql, "work_orders.status")

	var predictions []model.Prediction
	sql, _ = buildSQL(t, scoper.Scope(db.Model(&model.Prediction{}), operator, EntityPrediction), &predictions)
	require.Contains(t, sql, "predictions.asset_id IN (SELECT")
}

// TestStatusScopeRequiresActiveOrder verifies status visibility hangs off
// active work orders only.
func TestStatusScopeRequiresActiveOrder(t *testing.T) {
	db := newTestDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	operator := Principal{ID: uuid.New(), Role: RoleOperador}

	var statuses []model.AssetStatus
	sql, vars := buildSQL(t, scoper.Scope(db.Model(&model.AssetStatus{}), operator, EntityAssetStatus), &statuses)

	require.Contains(t, sql, "asset_statuses.asset_id IN (SELECT")
	require.Contains(t, sql, "work_orders.status IN")
	require.Contains(t, vars, operator.ID)

	var history []model.AssetStatusHistory
	sql, _ = buildSQL(t, scoper.Scope(db.Model(&model.AssetStatusHistory{}), operator, EntityAssetStatusHistory), &history)
	require.Contains(t, sql, "asset_status_histories.asset_id IN (SELECT")
	require.Contains(t, sql, "work_orders.status IN")
}

// TestNotificationScopeIsPersonal verifies every role is restricted to their
// own inbox rows.
func TestNotificationScopeIsPersonal(t *testing.T) {
	db := newTestDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))

	for _, role := range []Role{RoleAdmin, RoleSupervisor, RoleOperador} {
		p := Principal{ID: uuid.New(), Role: role}
		var notifications []model.Notification
		sql, vars := buildSQL(t, scoper.Scope(db.Model(&model.Notification{}), p, EntityNotification), &notifications)

		require.Contains(t, sql, "notifications.user_id", "role %s", role)
		require.Contains(t, vars, p.ID)
	}
}

// TestCallerFiltersOnlyNarrow verifies a caller filter ANDs onto the scope:
// the visibility predicate survives whatever is layered on top.
func TestCallerFiltersOnlyNarrow(t *testing.T) {
	db := newTestDB(t)
	scoper := NewScoper(NewRelationshipIndex(db))
	operator := Principal{ID: uuid.New(), Role: RoleOperador}
	foreign := uuid.New()

	var orders []model.WorkOrder
	q := scoper.Scope(db.Model(&model.WorkOrder{}), operator, EntityWorkOrder).
		Where("work_orders.assigned_to = ?", foreign)
	sql, vars := buildSQL(t, q, &orders)

	// Both predicates present: the result can only be their intersection
	require.Equal(t, 2, strings.Count(sql, "work_orders.assigned_to"))
	require.Contains(t, vars, operator.ID)
	require.Contains(t, vars, foreign)
}
