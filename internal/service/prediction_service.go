package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// HighRiskThreshold marks the failure probability above which an ingested
// prediction escalates to supervisors and admins.
const HighRiskThreshold = 0.75

type IngestPredictionRequest struct {
	AssetID            string    `json:"asset_id" binding:"required,uuid"`
	FailureProbability float64   `json:"failure_probability" binding:"required,gte=0,lte=1"`
	HorizonDays        int       `json:"horizon_days" binding:"required,gt=0"`
	ModelVersion       string    `json:"model_version" binding:"required"`
	GeneratedAt        time.Time `json:"generated_at"`
}

type PredictionFilter struct {
	AssetID string
	MinProb float64
}

type PredictionService interface {
	ListPredictions(ctx context.Context, p authz.Principal, filter PredictionFilter, params pagination.Params) ([]model.Prediction, int64, error)
	GetPrediction(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.Prediction, bool, error)
	IngestPrediction(ctx context.Context, p authz.Principal, req IngestPredictionRequest) (*model.Prediction, error)
}

type predictionService struct {
	db       *gorm.DB
	scoper   *authz.Scoper
	txm      repository.TransactionManager
	notifier *Notifier
}

func NewPredictionService(db *gorm.DB, scoper *authz.Scoper, txm repository.TransactionManager, notifier *Notifier) PredictionService {
	return &predictionService{db: db, scoper: scoper, txm: txm, notifier: notifier}
}

func (s *predictionService) ListPredictions(ctx context.Context, p authz.Principal, filter PredictionFilter, params pagination.Params) ([]model.Prediction, int64, error) {
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Prediction{}), p, authz.EntityPrediction)

	if filter.AssetID != "" {
		base = base.Where("predictions.asset_id = ?", filter.AssetID)
	}
	if filter.MinProb > 0 {
		base = base.Where("predictions.failure_probability >= ?", filter.MinProb)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count predictions: %w", err)
	}

	var predictions []model.Prediction
	if err := base.Preload("Asset").
		Order("generated_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&predictions).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch predictions: %w", err)
	}

	return predictions, total, nil
}

func (s *predictionService) GetPrediction(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.Prediction, bool, error) {
	return authz.Fetch[model.Prediction](ctx, s.db, s.scoper, p, authz.EntityPrediction, id)
}

// IngestPrediction stores a result from the ML pipeline. High failure
// probabilities raise an unconditionally critical event: everyone responsible
// for the asset's open work plus the escalation tier hears about it.
func (s *predictionService) IngestPrediction(ctx context.Context, p authz.Principal, req IngestPredictionRequest) (*model.Prediction, error) {
	if err := authz.Authorize(p, authz.EntityPrediction, nil, authz.ActionCreate); err != nil {
		return nil, err
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("invalid asset_id: %w", err)
	}

	prediction := model.Prediction{
		AssetID:            assetID,
		FailureProbability: req.FailureProbability,
		HorizonDays:        req.HorizonDays,
		ModelVersion:       req.ModelVersion,
		GeneratedAt:        req.GeneratedAt,
	}
	if prediction.GeneratedAt.IsZero() {
		prediction.GeneratedAt = time.Now()
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		var asset model.Asset
		if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
			return fmt.Errorf("asset does not exist: %w", err)
		}

		if err := tx.Create(&prediction).Error; err != nil {
			return fmt.Errorf("failed to create prediction: %w", err)
		}
		if err := writeAudit(tx, p.ID, model.ActionIngestPredict, prediction.ID.String(), asset.Name, map[string]interface{}{
			"failure_probability": req.FailureProbability,
			"model_version":       req.ModelVersion,
		}); err != nil {
			return err
		}

		if req.FailureProbability < HighRiskThreshold {
			return nil
		}

		source := authz.EventSource{Tier: asset.Criticality}
		return s.notifier.Dispatch(txCtx, source, model.NotifHighFailureRisk,
			"High failure risk: "+asset.Name,
			fmt.Sprintf("Failure probability %.0f%% within %d days", req.FailureProbability*100, req.HorizonDays),
			authz.EntityPrediction, &prediction.ID, p)
	})
	if err != nil {
		return nil, err
	}

	return &prediction, nil
}
