package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateAsset   = "CREATE_ASSET"
	ActionUpdateAsset   = "UPDATE_ASSET"
	ActionArchiveAsset  = "ARCHIVE_ASSET"
	ActionRestoreAsset  = "RESTORE_ASSET"
	ActionCreateOrder   = "CREATE_WORK_ORDER"
	ActionUpdateOrder   = "UPDATE_WORK_ORDER"
	ActionDeleteOrder   = "DELETE_WORK_ORDER"
	ActionOrderStatus   = "WORK_ORDER_TRANSITION"
	ActionOrderAssign   = "WORK_ORDER_ASSIGN"
	ActionReportStatus  = "REPORT_ASSET_STATUS"
	ActionIngestPredict = "INGEST_PREDICTION"
	ActionStockMovement = "STOCK_MOVEMENT"
	ActionCreatePlan    = "CREATE_PLAN"
	ActionUpdatePlan    = "UPDATE_PLAN"
	ActionDeletePlan    = "DELETE_PLAN"
	ActionDeactivateUsr = "DEACTIVATE_USER"
)

// AuditLog tracks Who, What, and When for critical system changes
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"` // Nullable gracefully if automated (scheduler)
	User       *User      `gorm:"foreignKey:UserID" json:"user"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`        // Reference string (uuid/code)
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"` // Human readable name
	Details    string     `gorm:"type:jsonb" json:"details"`                      // Serialized JSON payload of the action
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
