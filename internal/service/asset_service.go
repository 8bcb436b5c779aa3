package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateAssetRequest struct {
	Name        string  `json:"name" binding:"required"`
	Code        string  `json:"code" binding:"required"`
	Description string  `json:"description"`
	LocationID  *string `json:"location_id"`
	Criticality string  `json:"criticality" binding:"omitempty,oneof=Baja Media Alta Critica"`
}

type UpdateAssetRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	LocationID  *string `json:"location_id"`
	Criticality string  `json:"criticality" binding:"omitempty,oneof=Baja Media Alta Critica"`
}

// AssetFilter carries caller-supplied narrowing; it is always applied after
// the visibility scope, so it can only shrink the visible set.
type AssetFilter struct {
	LocationID      string
	Criticality     string
	Search          string
	IncludeArchived bool
}

// --- Interface ---

type AssetService interface {
	ListAssets(ctx context.Context, p authz.Principal, filter AssetFilter, params pagination.Params, order string) ([]model.Asset, int64, error)
	GetAsset(ctx context.Context, p authz.Principal, id uuid.UUID, includeArchived bool) (*model.Asset, bool, error)
	CreateAsset(ctx context.Context, p authz.Principal, req CreateAssetRequest) (*model.Asset, error)
	UpdateAsset(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateAssetRequest) (*model.Asset, error)
	ArchiveAsset(ctx context.Context, p authz.Principal, id uuid.UUID) error
	RestoreAsset(ctx context.Context, p authz.Principal, id uuid.UUID) error
}

type assetService struct {
	db     *gorm.DB
	scoper *authz.Scoper
	txm    repository.TransactionManager
}

func NewAssetService(db *gorm.DB, scoper *authz.Scoper, txm repository.TransactionManager) AssetService {
	return &assetService{db: db, scoper: scoper, txm: txm}
}

// --- Implementation ---

func (s *assetService) ListAssets(ctx context.Context, p authz.Principal, filter AssetFilter, params pagination.Params, order string) ([]model.Asset, int64, error) {
	// Visibility scope first, always. Caller filters below only intersect.
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Asset{}), p, authz.EntityAsset)

	if !filter.IncludeArchived {
		base = base.Where("assets.is_archived = ?", false)
	}
	if filter.LocationID != "" {
		base = base.Where("assets.location_id = ?", filter.LocationID)
	}
	if filter.Criticality != "" {
		base = base.Where("assets.criticality = ?", filter.Criticality)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		base = base.Where("assets.name ILIKE ? OR assets.code ILIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	var assets []model.Asset
	if err := base.Preload("Location").
		Order(order).
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&assets).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch assets: %w", err)
	}

	return assets, total, nil
}

// GetAsset fetches a single asset under the principal's visibility predicate.
// Archived assets stay addressable with the explicit override flag; without
// it they behave as absent.
func (s *assetService) GetAsset(ctx context.Context, p authz.Principal, id uuid.UUID, includeArchived bool) (*model.Asset, bool, error) {
	asset, found, err := authz.Fetch[model.Asset](ctx, s.db, s.scoper, p, authz.EntityAsset, id)
	if err != nil || !found {
		return nil, false, err
	}
	if asset.IsArchived && !includeArchived {
		return nil, false, nil
	}
	if asset.LocationID != nil {
		var loc model.Location
		if err := s.db.WithContext(ctx).First(&loc, "id = ?", *asset.LocationID).Error; err == nil {
			asset.Location = &loc
		}
	}
	return asset, true, nil
}

func (s *assetService) CreateAsset(ctx context.Context, p authz.Principal, req CreateAssetRequest) (*model.Asset, error) {
	if err := authz.Authorize(p, authz.EntityAsset, nil, authz.ActionCreate); err != nil {
		return nil, err
	}

	asset := model.Asset{
		Name:        req.Name,
		Code:        req.Code,
		Description: req.Description,
		Criticality: req.Criticality,
	}
	if asset.Criticality == "" {
		asset.Criticality = model.CriticalityMedia
	}
	if req.LocationID != nil && *req.LocationID != "" {
		locID, err := uuid.Parse(*req.LocationID)
		if err != nil {
			return nil, fmt.Errorf("invalid location_id: %w", err)
		}
		asset.LocationID = &locID
	}

	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)
		if err := tx.Create(&asset).Error; err != nil {
			return fmt.Errorf("failed to create asset: %w", err)
		}
		return writeAudit(tx, p.ID, model.ActionCreateAsset, asset.ID.String(), asset.Name, map[string]interface{}{
			"code": asset.Code,
		})
	})
	if err != nil {
		return nil, err
	}

	return &asset, nil
}

func (s *assetService) UpdateAsset(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateAssetRequest) (*model.Asset, error) {
	var asset *model.Asset
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		fetched, found, err := authz.Fetch[model.Asset](txCtx, tx, s.scoper, p, authz.EntityAsset, id)
		if err != nil {
			return fmt.Errorf("failed to fetch asset: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityAsset, nil, authz.ActionUpdate); err != nil {
			return err
		}

		if req.Name != "" {
			fetched.Name = req.Name
		}
		if req.Description != nil {
			fetched.Description = *req.Description
		}
		if req.Criticality != "" {
			fetched.Criticality = req.Criticality
		}
		if req.LocationID != nil {
			if *req.LocationID == "" {
				fetched.LocationID = nil
			} else {
				locID, err := uuid.Parse(*req.LocationID)
				if err != nil {
					return fmt.Errorf("invalid location_id: %w", err)
				}
				fetched.LocationID = &locID
			}
		}

		if err := tx.Save(fetched).Error; err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		asset = fetched
		return writeAudit(tx, p.ID, model.ActionUpdateAsset, fetched.ID.String(), fetched.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return asset, nil
}

// ArchiveAsset is the delete path for assets. The row is never removed:
// is_archived flips to true, the asset drops out of default listings and
// stays fetchable with the override flag.
func (s *assetService) ArchiveAsset(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	return s.setArchived(ctx, p, id, true, model.ActionArchiveAsset)
}

func (s *assetService) RestoreAsset(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	return s.setArchived(ctx, p, id, false, model.ActionRestoreAsset)
}

func (s *assetService) setArchived(ctx context.Context, p authz.Principal, id uuid.UUID, archived bool, action string) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		asset, found, err := authz.Fetch[model.Asset](txCtx, tx, s.scoper, p, authz.EntityAsset, id)
		if err != nil {
			return fmt.Errorf("failed to fetch asset: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityAsset, nil, authz.ActionDelete); err != nil {
			return err
		}
		if asset.IsArchived == archived {
			if archived {
				return errors.New("asset is already archived")
			}
			return errors.New("asset is not archived")
		}

		if err := tx.Model(asset).Update("is_archived", archived).Error; err != nil {
			return fmt.Errorf("failed to update asset: %w", err)
		}
		return writeAudit(tx, p.ID, action, asset.ID.String(), asset.Name, nil)
	})
}

// writeAudit appends an audit row inside the caller's transaction
func writeAudit(tx *gorm.DB, userID uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	payload := "{}"
	if details != nil {
		if raw, err := json.Marshal(details); err == nil {
			payload = string(raw)
		}
	}
	audit := model.AuditLog{
		UserID:     &userID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    payload,
	}
	if err := tx.Create(&audit).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}
