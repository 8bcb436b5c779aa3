package model

import (
	"time"

	"github.com/google/uuid"
)

// Asset criticality tiers, from routine to plant-stopping
const (
	CriticalityBaja    = "Baja"
	CriticalityMedia   = "Media"
	CriticalityAlta    = "Alta"
	CriticalityCritica = "Critica"
)

// Location groups assets by physical site/area
type Location struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Asset is a maintainable piece of equipment. Deleting an asset archives it:
// the row is never removed, so its work-order and status history stay intact.
type Asset struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(255);not null" json:"name"`
	Code        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"code"`
	Description string     `gorm:"type:text" json:"description"`
	LocationID  *uuid.UUID `gorm:"type:uuid;index" json:"location_id"`
	Location    *Location  `gorm:"foreignKey:LocationID" json:"location,omitempty"`
	Criticality string     `gorm:"type:varchar(20);not null;default:'Media'" json:"criticality"`
	IsArchived  bool       `gorm:"not null;default:false;index" json:"is_archived"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
