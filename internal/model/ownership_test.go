package model

import (
	"testing"

	"github.com/google/uuid"
)

func TestWorkOrderOwnership(t *testing.T) {
	assignee := uuid.New()
	creator := uuid.New()
	w := &WorkOrder{AssignedTo: assignee, CreatedBy: creator, Priority: PriorityAlta}

	if w.OwnerID() != assignee {
		t.Error("Expected assignee as owner")
	}
	if w.CreatorID() != creator {
		t.Error("Expected creator")
	}
	if w.Severity() != PriorityAlta {
		t.Errorf("Expected severity %s, got %s", PriorityAlta, w.Severity())
	}
}

func TestAssetStatusSeverityFallback(t *testing.T) {
	s := &AssetStatus{}
	if s.Severity() != CriticalityMedia {
		t.Errorf("Expected fallback severity %s, got %s", CriticalityMedia, s.Severity())
	}

	s.Asset = &Asset{Criticality: CriticalityCritica}
	if s.Severity() != CriticalityCritica {
		t.Errorf("Expected asset criticality %s, got %s", CriticalityCritica, s.Severity())
	}
}
