package model

import (
	"time"

	"github.com/google/uuid"
)

// Notification types
const (
	NotifWorkOrderAssigned   = "WORK_ORDER_ASSIGNED"
	NotifWorkOrderUpdated    = "WORK_ORDER_UPDATED"
	NotifWorkOrderTransition = "WORK_ORDER_TRANSITION"
	NotifAssetOutOfService   = "ASSET_OUT_OF_SERVICE"
	NotifHighFailureRisk     = "HIGH_FAILURE_RISK"
	NotifLowStock            = "LOW_STOCK"
)

// Notification is a per-user inbox entry. Ownership is the recipient: a user
// only ever lists and mutates their own rows.
type Notification struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	Type       string     `gorm:"type:varchar(50);not null" json:"type"`
	Title      string     `gorm:"type:varchar(255);not null" json:"title"`
	Body       string     `gorm:"type:text" json:"body"`
	EntityType string     `gorm:"type:varchar(50)" json:"entity_type"`
	EntityID   *uuid.UUID `gorm:"type:uuid" json:"entity_id"`
	Read       bool       `gorm:"not null;default:false;index" json:"read"`
	CreatedAt  time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
}
