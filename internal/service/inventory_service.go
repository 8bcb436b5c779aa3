package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CreateSparePartRequest struct {
	Name        string          `json:"name" binding:"required"`
	SKU         string          `json:"sku" binding:"required"`
	Quantity    int             `json:"quantity" binding:"gte=0"`
	MinQuantity int             `json:"min_quantity" binding:"gte=0"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
}

type UpdateSparePartRequest struct {
	Name        string           `json:"name"`
	MinQuantity *int             `json:"min_quantity" binding:"omitempty,gte=0"`
	UnitCost    *decimal.Decimal `json:"unit_cost"`
}

type StockMovementRequest struct {
	Delta       int     `json:"delta" binding:"required"`
	Reason      string  `json:"reason" binding:"required,oneof=CONSUMPTION RESTOCK ADJUSTMENT"`
	WorkOrderID *string `json:"work_order_id" binding:"omitempty,uuid"`
}

type InventoryService interface {
	ListParts(ctx context.Context, p authz.Principal, search string, page, limit int) ([]model.SparePart, int64, error)
	GetPart(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.SparePart, bool, error)
	CreatePart(ctx context.Context, p authz.Principal, req CreateSparePartRequest) (*model.SparePart, error)
	UpdatePart(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateSparePartRequest) (*model.SparePart, error)
	Move(ctx context.Context, p authz.Principal, partID uuid.UUID, req StockMovementRequest) (*model.SparePart, error)
}

type inventoryService struct {
	db       *gorm.DB
	scoper   *authz.Scoper
	txm      repository.TransactionManager
	notifier *Notifier
}

func NewInventoryService(db *gorm.DB, scoper *authz.Scoper, txm repository.TransactionManager, notifier *Notifier) InventoryService {
	return &inventoryService{db: db, scoper: scoper, txm: txm, notifier: notifier}
}

func (s *inventoryService) ListParts(ctx context.Context, p authz.Principal, search string, page, limit int) ([]model.SparePart, int64, error) {
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.SparePart{}), p, authz.EntitySparePart)

	if search != "" {
		like := "%" + search + "%"
		base = base.Where("name ILIKE ? OR sku ILIKE ?", like, like)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count spare parts: %w", err)
	}

	var parts []model.SparePart
	if err := base.Order("name ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&parts).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch spare parts: %w", err)
	}

	return parts, total, nil
}

func (s *inventoryService) GetPart(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.SparePart, bool, error) {
	return authz.Fetch[model.SparePart](ctx, s.db, s.scoper, p, authz.EntitySparePart, id)
}

func (s *inventoryService) CreatePart(ctx context.Context, p authz.Principal, req CreateSparePartRequest) (*model.SparePart, error) {
	if err := authz.Authorize(p, authz.EntitySparePart, nil, authz.ActionCreate); err != nil {
		return nil, err
	}

	part := model.SparePart{
		Name:        req.Name,
		SKU:         req.SKU,
		Quantity:    req.Quantity,
		MinQuantity: req.MinQuantity,
		UnitCost:    req.UnitCost,
	}
	if err := s.db.WithContext(ctx).Create(&part).Error; err != nil {
		return nil, fmt.Errorf("failed to create spare part: %w", err)
	}
	return &part, nil
}

func (s *inventoryService) UpdatePart(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateSparePartRequest) (*model.SparePart, error) {
	part, found, err := s.GetPart(ctx, p, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spare part: %w", err)
	}
	if !found {
		return nil, ErrNotFound
	}
	if err := authz.Authorize(p, authz.EntitySparePart, nil, authz.ActionUpdate); err != nil {
		return nil, err
	}

	if req.Name != "" {
		part.Name = req.Name
	}
	if req.MinQuantity != nil {
		part.MinQuantity = *req.MinQuantity
	}
	if req.UnitCost != nil {
		part.UnitCost = *req.UnitCost
	}

	if err := s.db.WithContext(ctx).Save(part).Error; err != nil {
		return nil, fmt.Errorf("failed to update spare part: %w", err)
	}
	return part, nil
}

// Move applies a stock delta and records the movement. Consumption that drops
// the part below its minimum raises a low-stock escalation.
func (s *inventoryService) Move(ctx context.Context, p authz.Principal, partID uuid.UUID, req StockMovementRequest) (*model.SparePart, error) {
	if err := authz.Authorize(p, authz.EntitySparePart, nil, authz.ActionUpdate); err != nil {
		return nil, err
	}

	var workOrderID *uuid.UUID
	if req.WorkOrderID != nil && *req.WorkOrderID != "" {
		id, err := uuid.Parse(*req.WorkOrderID)
		if err != nil {
			return nil, fmt.Errorf("invalid work_order_id: %w", err)
		}
		workOrderID = &id
	}

	var part *model.SparePart
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		var fetched model.SparePart
		if err := tx.First(&fetched, "id = ?", partID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to fetch spare part: %w", err)
		}

		wasAbove := fetched.Quantity > fetched.MinQuantity
		fetched.Quantity += req.Delta
		if fetched.Quantity < 0 {
			return errors.New("insufficient stock")
		}

		if err := tx.Save(&fetched).Error; err != nil {
			return fmt.Errorf("failed to update spare part: %w", err)
		}

		movement := model.StockMovement{
			SparePartID: partID,
			WorkOrderID: workOrderID,
			Delta:       req.Delta,
			Reason:      req.Reason,
			CreatedBy:   p.ID,
		}
		if err := tx.Create(&movement).Error; err != nil {
			return fmt.Errorf("failed to record stock movement: %w", err)
		}
		if err := writeAudit(tx, p.ID, model.ActionStockMovement, partID.String(), fetched.Name, map[string]interface{}{
			"delta":  req.Delta,
			"reason": req.Reason,
		}); err != nil {
			return err
		}

		part = &fetched
		if !wasAbove || fetched.Quantity > fetched.MinQuantity {
			return nil
		}

		source := authz.EventSource{}
		return s.notifier.Dispatch(txCtx, source, model.NotifLowStock,
			"Low stock: "+fetched.Name,
			fmt.Sprintf("Quantity %d at or below minimum %d", fetched.Quantity, fetched.MinQuantity),
			authz.EntitySparePart, &fetched.ID, p)
	})
	if err != nil {
		return nil, err
	}

	return part, nil
}
