package model

import "github.com/google/uuid"

// Owning-principal accessors. Authorization dispatches on these statically
// typed methods instead of probing struct fields at runtime.

func (w *WorkOrder) OwnerID() uuid.UUID   { return w.AssignedTo }
func (w *WorkOrder) CreatorID() uuid.UUID { return w.CreatedBy }
func (w *WorkOrder) Severity() string     { return w.Priority }

func (n *Notification) OwnerID() uuid.UUID { return n.UserID }

func (p *MaintenancePlan) OwnerID() uuid.UUID   { return p.AssignedTo }
func (p *MaintenancePlan) CreatorID() uuid.UUID { return p.CreatedBy }
func (p *MaintenancePlan) Severity() string     { return p.Priority }

func (s *AssetStatus) OwnerID() uuid.UUID   { return s.ReportedBy }
func (s *AssetStatus) CreatorID() uuid.UUID { return s.ReportedBy }

// Severity of a status event follows the asset's criticality when the asset
// is loaded; unloaded it stays at the non-escalating default.
func (s *AssetStatus) Severity() string {
	if s.Asset != nil {
		return s.Asset.Criticality
	}
	return CriticalityMedia
}
