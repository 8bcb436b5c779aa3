package model

import (
	"time"

	"github.com/google/uuid"
)

// Asset operational states
const (
	AssetOperational  = "OPERATIONAL"
	AssetDegraded     = "DEGRADED"
	AssetOutOfService = "OUT_OF_SERVICE"
)

// AssetStatus is the current operational state of an asset, one row per asset
type AssetStatus struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"asset_id"`
	Asset      *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	State      string    `gorm:"type:varchar(20);not null;default:'OPERATIONAL'" json:"state"`
	ReportedBy uuid.UUID `gorm:"type:uuid;not null" json:"reported_by"`
	Reporter   *User     `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AssetStatusHistory is an append-only record of every state change
type AssetStatusHistory struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID    uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_id"`
	FromState  string    `gorm:"type:varchar(20)" json:"from_state"`
	ToState    string    `gorm:"type:varchar(20);not null" json:"to_state"`
	ReportedBy uuid.UUID `gorm:"type:uuid;not null" json:"reported_by"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}
