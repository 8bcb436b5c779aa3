package authz

import "testing"

// TestRoleFromString tests normalization of role claims into the closed enum
func TestRoleFromString(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"ADMIN", RoleAdmin},
		{"SUPERVISOR", RoleSupervisor},
		{"OPERADOR", RoleOperador},
		{"admin", RoleUnknown},
		{"Operador", RoleUnknown},
		{"", RoleUnknown},
		{"root", RoleUnknown},
		{"ADMIN ", RoleUnknown},
	}

	for _, tt := range tests {
		if got := RoleFromString(tt.input); got != tt.want {
			t.Errorf("RoleFromString(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}

// TestCanSeeAllFailsClosed verifies that visibility lookups default to deny
func TestCanSeeAllFailsClosed(t *testing.T) {
	if !CanSeeAll(RoleAdmin, EntityAsset) {
		t.Error("Expected ADMIN to see all assets")
	}
	if !CanSeeAll(RoleSupervisor, EntityWorkOrder) {
		t.Error("Expected SUPERVISOR to see all work orders")
	}
	if CanSeeAll(RoleOperador, EntityWorkOrder) {
		t.Error("Expected OPERADOR not to see all work orders")
	}
	if !CanSeeAll(RoleOperador, EntityLocation) {
		t.Error("Expected OPERADOR to see all locations")
	}
	if CanSeeAll(RoleUnknown, EntityLocation) {
		t.Error("Expected UNKNOWN to see nothing")
	}

	// Notifications are personal for every role, including ADMIN
	for _, role := range []Role{RoleAdmin, RoleSupervisor, RoleOperador} {
		if CanSeeAll(role, EntityNotification) {
			t.Errorf("Expected %s not to see all notifications", role)
		}
	}

	if CanSeeAll(RoleAdmin, EntityType("something_new")) {
		t.Error("Expected unregistered entity type to fail closed")
	}
}

// TestMutationAllowed tests the static capability table
func TestMutationAllowed(t *testing.T) {
	tests := []struct {
		name       string
		role       Role
		entityType EntityType
		action     Action
		want       bool
	}{
		{"admin creates work order", RoleAdmin, EntityWorkOrder, ActionCreate, true},
		{"supervisor assigns work order", RoleSupervisor, EntityWorkOrder, ActionAssign, true},
		{"operator transitions work order", RoleOperador, EntityWorkOrder, ActionTransition, true},
		{"operator updates progress", RoleOperador, EntityWorkOrder, ActionUpdateProgress, true},
		{"operator cannot create work order", RoleOperador, EntityWorkOrder, ActionCreate, false},
		{"operator cannot delete work order", RoleOperador, EntityWorkOrder, ActionDelete, false},
		{"operator cannot assign work order", RoleOperador, EntityWorkOrder, ActionAssign, false},
		{"operator reports asset status", RoleOperador, EntityAssetStatus, ActionReport, true},
		{"operator cannot create asset", RoleOperador, EntityAsset, ActionCreate, false},
		{"supervisor cannot ingest predictions", RoleSupervisor, EntityPrediction, ActionCreate, false},
		{"admin ingests predictions", RoleAdmin, EntityPrediction, ActionCreate, true},
		{"supervisor cannot manage users", RoleSupervisor, EntityUser, ActionCreate, false},
		{"admin manages users", RoleAdmin, EntityUser, ActionDelete, true},
		{"unknown role can do nothing", RoleUnknown, EntityWorkOrder, ActionTransition, false},
		{"everyone marks own notifications", RoleOperador, EntityNotification, ActionUpdate, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MutationAllowed(tt.role, tt.entityType, tt.action); got != tt.want {
				t.Errorf("MutationAllowed(%s, %s, %s) = %t, want %t", tt.role, tt.entityType, tt.action, got, tt.want)
			}
		})
	}
}
