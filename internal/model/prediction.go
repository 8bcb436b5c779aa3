package model

import (
	"time"

	"github.com/google/uuid"
)

// Prediction is a failure-probability estimate for an asset, produced by the
// external ML pipeline and ingested through the API. Visibility is derived
// entirely from the referenced asset.
type Prediction struct {
	ID                 uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID            uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset              *Asset    `gorm:"foreignKey:AssetID" json:"asset,omitempty"`
	FailureProbability float64   `gorm:"not null" json:"failure_probability"` // 0..1
	HorizonDays        int       `gorm:"not null" json:"horizon_days"`
	ModelVersion       string    `gorm:"type:varchar(100);not null" json:"model_version"`
	GeneratedAt        time.Time `gorm:"not null;index" json:"generated_at"`
	CreatedAt          time.Time `gorm:"autoCreateTime" json:"created_at"`
}
