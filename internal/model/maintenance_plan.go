package model

import (
	"time"

	"github.com/google/uuid"
)

// MaintenancePlan schedules recurring preventive work on an asset. The
// scheduler materializes a WorkOrder whenever next_due passes and then
// advances next_due by interval_days.
type MaintenancePlan struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	AssetID      uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset        *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	AssignedTo   uuid.UUID `gorm:"type:uuid;not null" json:"assigned_to"`
	Priority     string    `gorm:"type:varchar(20);not null;default:'Media'" json:"priority"`
	IntervalDays int       `gorm:"not null" json:"interval_days"`
	NextDue      time.Time `gorm:"not null;index" json:"next_due"`
	Active       bool      `gorm:"not null;default:true" json:"active"`
	CreatedBy    uuid.UUID `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
