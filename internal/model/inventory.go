package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SparePart is a stocked consumable used by work orders
type SparePart struct {
	ID          uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	SKU         string          `gorm:"type:varchar(100);uniqueIndex;not null" json:"sku"`
	Quantity    int             `gorm:"not null;default:0" json:"quantity"`
	MinQuantity int             `gorm:"not null;default:0" json:"min_quantity"`
	UnitCost    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"unit_cost"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// Stock movement reasons
const (
	MovementConsumption = "CONSUMPTION"
	MovementRestock     = "RESTOCK"
	MovementAdjustment  = "ADJUSTMENT"
)

// StockMovement records every change of a spare part's quantity
type StockMovement struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	SparePartID uuid.UUID  `gorm:"type:uuid;not null;index" json:"spare_part_id"`
	SparePart   *SparePart `gorm:"foreignKey:SparePartID" json:"spare_part,omitempty"`
	WorkOrderID *uuid.UUID `gorm:"type:uuid;index" json:"work_order_id"`
	Delta       int        `gorm:"not null" json:"delta"` // negative for consumption
	Reason      string     `gorm:"type:varchar(30);not null" json:"reason"`
	CreatedBy   uuid.UUID  `gorm:"type:uuid;not null" json:"created_by"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
