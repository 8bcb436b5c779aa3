package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReportStatusRequest struct {
	AssetID string `json:"asset_id" binding:"required,uuid"`
	State   string `json:"state" binding:"required,oneof=OPERATIONAL DEGRADED OUT_OF_SERVICE"`
	Note    string `json:"note"`
}

type AssetStatusService interface {
	GetCurrent(ctx context.Context, p authz.Principal, assetID uuid.UUID) (*model.AssetStatus, bool, error)
	ListHistory(ctx context.Context, p authz.Principal, assetID uuid.UUID, params pagination.Params) ([]model.AssetStatusHistory, int64, error)
	Report(ctx context.Context, p authz.Principal, req ReportStatusRequest) (*model.AssetStatus, error)
}

type assetStatusService struct {
	db       *gorm.DB
	scoper   *authz.Scoper
	txm      repository.TransactionManager
	notifier *Notifier
}

func NewAssetStatusService(db *gorm.DB, scoper *authz.Scoper, txm repository.TransactionManager, notifier *Notifier) AssetStatusService {
	return &assetStatusService{db: db, scoper: scoper, txm: txm, notifier: notifier}
}

// GetCurrent returns the asset's current status under the status visibility
// chain: for operators the reaching work order must still be active, so this
// can report not-found for an asset whose detail page they could once see.
func (s *assetStatusService) GetCurrent(ctx context.Context, p authz.Principal, assetID uuid.UUID) (*model.AssetStatus, bool, error) {
	var status model.AssetStatus
	err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.AssetStatus{}), p, authz.EntityAssetStatus).
		First(&status, "asset_id = ?", assetID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &status, true, nil
}

func (s *assetStatusService) ListHistory(ctx context.Context, p authz.Principal, assetID uuid.UUID, params pagination.Params) ([]model.AssetStatusHistory, int64, error) {
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.AssetStatusHistory{}), p, authz.EntityAssetStatusHistory).
		Where("asset_status_histories.asset_id = ?", assetID)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count status history: %w", err)
	}

	var history []model.AssetStatusHistory
	if err := base.Order("created_at DESC").
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&history).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch status history: %w", err)
	}

	return history, total, nil
}

// Report upserts the asset's current status and appends a history row. The
// reporter must be able to see the asset; a transition to OUT_OF_SERVICE is
// an unconditionally critical event and escalates regardless of criticality.
func (s *assetStatusService) Report(ctx context.Context, p authz.Principal, req ReportStatusRequest) (*model.AssetStatus, error) {
	if err := authz.Authorize(p, authz.EntityAssetStatus, nil, authz.ActionReport); err != nil {
		return nil, err
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("invalid asset_id: %w", err)
	}

	var status *model.AssetStatus
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		// Asset visibility gates reporting: an operator can only report on
		// assets reachable through their work orders.
		asset, found, err := authz.Fetch[model.Asset](txCtx, tx, s.scoper, p, authz.EntityAsset, assetID)
		if err != nil {
			return fmt.Errorf("failed to fetch asset: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		var current model.AssetStatus
		fromState := ""
		if err := tx.First(&current, "asset_id = ?", assetID).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("failed to fetch current status: %w", err)
			}
			current = model.AssetStatus{AssetID: assetID}
		} else {
			fromState = current.State
		}

		current.State = req.State
		current.ReportedBy = p.ID
		current.Note = req.Note
		current.Asset = asset

		if err := tx.Save(&current).Error; err != nil {
			return fmt.Errorf("failed to save asset status: %w", err)
		}

		history := model.AssetStatusHistory{
			AssetID:    assetID,
			FromState:  fromState,
			ToState:    req.State,
			ReportedBy: p.ID,
			Note:       req.Note,
		}
		if err := tx.Create(&history).Error; err != nil {
			return fmt.Errorf("failed to append status history: %w", err)
		}
		if err := writeAudit(tx, p.ID, model.ActionReportStatus, assetID.String(), asset.Name, map[string]interface{}{
			"from": fromState,
			"to":   req.State,
		}); err != nil {
			return err
		}

		status = &current
		if req.State != model.AssetOutOfService || fromState == model.AssetOutOfService {
			return nil
		}

		return s.notifier.Dispatch(txCtx, &current, model.NotifAssetOutOfService,
			"Asset out of service: "+asset.Name,
			req.Note,
			authz.EntityAssetStatus, &current.ID, p)
	})
	if err != nil {
		return nil, err
	}

	return status, nil
}
