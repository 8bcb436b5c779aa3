package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Work order lifecycle states
const (
	WorkOrderPending    = "PENDING"
	WorkOrderInProgress = "IN_PROGRESS"
	WorkOrderCompleted  = "COMPLETED"
	WorkOrderCancelled  = "CANCELLED"
)

// Work order priorities
const (
	PriorityBaja    = "Baja"
	PriorityMedia   = "Media"
	PriorityAlta    = "Alta"
	PriorityCritica = "Critica"
)

// ActiveWorkOrderStatuses are the non-terminal states. A work order in one of
// these keeps derived asset-status visibility alive for its assignee.
var ActiveWorkOrderStatuses = []string{WorkOrderPending, WorkOrderInProgress}

// WorkOrder is a maintenance task on an asset, owned by its assignee
type WorkOrder struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string          `gorm:"type:varchar(255);not null" json:"title"`
	Description string          `gorm:"type:text" json:"description"`
	AssetID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset       *Asset          `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	AssignedTo  uuid.UUID       `gorm:"type:uuid;not null;index" json:"assigned_to"`
	Assignee    *User           `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	CreatedBy   uuid.UUID       `gorm:"type:uuid;not null;index" json:"created_by"`
	Creator     *User           `gorm:"foreignKey:CreatedBy" json:"creator,omitempty"`
	Priority    string          `gorm:"type:varchar(20);not null;default:'Media'" json:"priority"`
	Status      string          `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	DueDate     *time.Time      `json:"due_date"`
	CompletedAt *time.Time      `json:"completed_at"`
	Checklist   []ChecklistItem `gorm:"foreignKey:WorkOrderID" json:"checklist,omitempty"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// ChecklistItem is a single step inside a work order
type ChecklistItem struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	WorkOrderID uuid.UUID `gorm:"type:uuid;not null;index" json:"work_order_id"`
	Description string    `gorm:"type:varchar(500);not null" json:"description"`
	Done        bool      `gorm:"not null;default:false" json:"done"`
	Position    int       `gorm:"not null;default:0" json:"position"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
