package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/pagination"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// --- DTOs ---

type CreateWorkOrderRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	AssetID     string     `json:"asset_id" binding:"required,uuid"`
	AssignedTo  string     `json:"assigned_to" binding:"required,uuid"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=Baja Media Alta Critica"`
	DueDate     *time.Time `json:"due_date"`
	Checklist   []string   `json:"checklist"`
}

type UpdateWorkOrderRequest struct {
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Priority    string     `json:"priority" binding:"omitempty,oneof=Baja Media Alta Critica"`
	DueDate     *time.Time `json:"due_date"`
}

type TransitionRequest struct {
	Status string `json:"status" binding:"required,oneof=PENDING IN_PROGRESS COMPLETED CANCELLED"`
}

type AssignRequest struct {
	AssignedTo string `json:"assigned_to" binding:"required,uuid"`
}

// WorkOrderFilter is caller-supplied narrowing, applied strictly after the
// visibility scope. An operator filtering on a foreign assigned_to gets the
// intersection with their own visible set: empty.
type WorkOrderFilter struct {
	AssignedTo string
	AssetID    string
	Status     string
	Priority   string
	Search     string
}

// --- Interface ---

type WorkOrderService interface {
	ListWorkOrders(ctx context.Context, p authz.Principal, filter WorkOrderFilter, params pagination.Params, order string) ([]model.WorkOrder, int64, error)
	GetWorkOrder(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.WorkOrder, bool, error)
	CreateWorkOrder(ctx context.Context, p authz.Principal, req CreateWorkOrderRequest) (*model.WorkOrder, error)
	UpdateWorkOrder(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateWorkOrderRequest) (*model.WorkOrder, error)
	DeleteWorkOrder(ctx context.Context, p authz.Principal, id uuid.UUID) error
	Transition(ctx context.Context, p authz.Principal, id uuid.UUID, req TransitionRequest) (*model.WorkOrder, error)
	Assign(ctx context.Context, p authz.Principal, id uuid.UUID, req AssignRequest) (*model.WorkOrder, error)
	ToggleChecklistItem(ctx context.Context, p authz.Principal, orderID, itemID uuid.UUID, done bool) (*model.ChecklistItem, error)
}

type workOrderService struct {
	db       *gorm.DB
	scoper   *authz.Scoper
	txm      repository.TransactionManager
	notifier *Notifier
}

func NewWorkOrderService(db *gorm.DB, scoper *authz.Scoper, txm repository.TransactionManager, notifier *Notifier) WorkOrderService {
	return &workOrderService{db: db, scoper: scoper, txm: txm, notifier: notifier}
}

// --- Implementation ---

func (s *workOrderService) ListWorkOrders(ctx context.Context, p authz.Principal, filter WorkOrderFilter, params pagination.Params, order string) ([]model.WorkOrder, int64, error) {
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.WorkOrder{}), p, authz.EntityWorkOrder)

	if filter.AssignedTo != "" {
		base = base.Where("work_orders.assigned_to = ?", filter.AssignedTo)
	}
	if filter.AssetID != "" {
		base = base.Where("work_orders.asset_id = ?", filter.AssetID)
	}
	if filter.Status != "" {
		base = base.Where("work_orders.status = ?", filter.Status)
	}
	if filter.Priority != "" {
		base = base.Where("work_orders.priority = ?", filter.Priority)
	}
	if filter.Search != "" {
		base = base.Where("work_orders.title ILIKE ?", "%"+filter.Search+"%")
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count work orders: %w", err)
	}

	var orders []model.WorkOrder
	if err := base.Preload("Asset").Preload("Assignee").
		Order(order).
		Offset(params.Offset).
		Limit(params.Limit).
		Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch work orders: %w", err)
	}

	return orders, total, nil
}

func (s *workOrderService) GetWorkOrder(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.WorkOrder, bool, error) {
	order, found, err := authz.Fetch[model.WorkOrder](ctx, s.db, s.scoper, p, authz.EntityWorkOrder, id)
	if err != nil || !found {
		return nil, false, err
	}

	if err := s.db.WithContext(ctx).
		Preload("Asset").Preload("Assignee").Preload("Creator").
		Preload("Checklist", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(order, "id = ?", order.ID).Error; err != nil {
		return nil, false, fmt.Errorf("failed to load work order relations: %w", err)
	}

	return order, true, nil
}

func (s *workOrderService) CreateWorkOrder(ctx context.Context, p authz.Principal, req CreateWorkOrderRequest) (*model.WorkOrder, error) {
	if err := authz.Authorize(p, authz.EntityWorkOrder, nil, authz.ActionCreate); err != nil {
		return nil, err
	}

	assetID, err := uuid.Parse(req.AssetID)
	if err != nil {
		return nil, fmt.Errorf("invalid asset_id: %w", err)
	}
	assigneeID, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("invalid assigned_to: %w", err)
	}

	order := model.WorkOrder{
		Title:       req.Title,
		Description: req.Description,
		AssetID:     assetID,
		AssignedTo:  assigneeID,
		CreatedBy:   p.ID,
		Priority:    req.Priority,
		Status:      model.WorkOrderPending,
		DueDate:     req.DueDate,
	}
	if order.Priority == "" {
		order.Priority = model.PriorityMedia
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		// The target asset must exist and not be archived.
		var asset model.Asset
		if err := tx.First(&asset, "id = ?", assetID).Error; err != nil {
			return fmt.Errorf("asset does not exist: %w", err)
		}
		if asset.IsArchived {
			return fmt.Errorf("cannot create a work order on an archived asset")
		}

		if err := tx.Create(&order).Error; err != nil {
			return fmt.Errorf("failed to create work order: %w", err)
		}

		for i, desc := range req.Checklist {
			item := model.ChecklistItem{WorkOrderID: order.ID, Description: desc, Position: i}
			if err := tx.Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create checklist item: %w", err)
			}
		}

		if err := writeAudit(tx, p.ID, model.ActionCreateOrder, order.ID.String(), order.Title, map[string]interface{}{
			"asset_id":    assetID,
			"assigned_to": assigneeID,
			"priority":    order.Priority,
		}); err != nil {
			return err
		}

		return s.notifier.Dispatch(txCtx, &order, model.NotifWorkOrderAssigned,
			"Work order assigned: "+order.Title,
			fmt.Sprintf("Priority %s, asset %s", order.Priority, asset.Name),
			authz.EntityWorkOrder, &order.ID, p)
	})
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *workOrderService) UpdateWorkOrder(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdateWorkOrderRequest) (*model.WorkOrder, error) {
	var order *model.WorkOrder
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		fetched, found, err := authz.Fetch[model.WorkOrder](txCtx, tx, s.scoper, p, authz.EntityWorkOrder, id)
		if err != nil {
			return fmt.Errorf("failed to fetch work order: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityWorkOrder, fetched, authz.ActionUpdate); err != nil {
			return err
		}

		if req.Title != "" {
			fetched.Title = req.Title
		}
		if req.Description != nil {
			fetched.Description = *req.Description
		}
		if req.Priority != "" {
			fetched.Priority = req.Priority
		}
		if req.DueDate != nil {
			fetched.DueDate = req.DueDate
		}

		if err := tx.Save(fetched).Error; err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}
		order = fetched
		return writeAudit(tx, p.ID, model.ActionUpdateOrder, fetched.ID.String(), fetched.Title, nil)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *workOrderService) DeleteWorkOrder(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		order, found, err := authz.Fetch[model.WorkOrder](txCtx, tx, s.scoper, p, authz.EntityWorkOrder, id)
		if err != nil {
			return fmt.Errorf("failed to fetch work order: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityWorkOrder, order, authz.ActionDelete); err != nil {
			return err
		}

		if err := tx.Delete(order).Error; err != nil {
			return fmt.Errorf("failed to delete work order: %w", err)
		}
		return writeAudit(tx, p.ID, model.ActionDeleteOrder, order.ID.String(), order.Title, nil)
	})
}

// Transition moves a work order along the state machine. The fetch, the
// legality check, the authorization and the write all happen inside one
// transaction, re-validating ownership against the same snapshot the update
// runs on, so a reassignment racing this call cannot leave a stale check.
func (s *workOrderService) Transition(ctx context.Context, p authz.Principal, id uuid.UUID, req TransitionRequest) (*model.WorkOrder, error) {
	var order *model.WorkOrder
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		fetched, found, err := authz.Fetch[model.WorkOrder](txCtx, tx, s.scoper, p, authz.EntityWorkOrder, id)
		if err != nil {
			return fmt.Errorf("failed to fetch work order: %w", err)
		}
		if !found {
			return ErrNotFound
		}

		// Edge legality comes before role: a transition outside the table is
		// invalid for every role, including ADMIN.
		if !authz.CanTransition(fetched.Status, req.Status) {
			return fmt.Errorf("%w: %s -> %s", authz.ErrInvalidTransition, fetched.Status, req.Status)
		}
		if err := authz.Authorize(p, authz.EntityWorkOrder, fetched, authz.ActionTransition); err != nil {
			return err
		}

		previous := fetched.Status
		fetched.Status = req.Status
		if req.Status == model.WorkOrderCompleted {
			now := time.Now()
			fetched.CompletedAt = &now
		}

		if err := tx.Save(fetched).Error; err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}
		if err := writeAudit(tx, p.ID, model.ActionOrderStatus, fetched.ID.String(), fetched.Title, map[string]interface{}{
			"from": previous,
			"to":   req.Status,
		}); err != nil {
			return err
		}

		order = fetched
		return s.notifier.Dispatch(txCtx, fetched, model.NotifWorkOrderTransition,
			"Work order "+req.Status+": "+fetched.Title,
			fmt.Sprintf("Status changed %s -> %s", previous, req.Status),
			authz.EntityWorkOrder, &fetched.ID, p)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// Assign reassigns a work order. The previous assignee's derived visibility
// into the asset (and its predictions/status) vanishes with this write if no
// other qualifying work order remains.
func (s *workOrderService) Assign(ctx context.Context, p authz.Principal, id uuid.UUID, req AssignRequest) (*model.WorkOrder, error) {
	assigneeID, err := uuid.Parse(req.AssignedTo)
	if err != nil {
		return nil, fmt.Errorf("invalid assigned_to: %w", err)
	}

	var order *model.WorkOrder
	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		fetched, found, err := authz.Fetch[model.WorkOrder](txCtx, tx, s.scoper, p, authz.EntityWorkOrder, id)
		if err != nil {
			return fmt.Errorf("failed to fetch work order: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityWorkOrder, fetched, authz.ActionAssign); err != nil {
			return err
		}

		var assignee model.User
		if err := tx.First(&assignee, "id = ? AND active = ?", assigneeID, true).Error; err != nil {
			return fmt.Errorf("assignee does not exist or is inactive: %w", err)
		}

		fetched.AssignedTo = assigneeID
		if err := tx.Save(fetched).Error; err != nil {
			return fmt.Errorf("failed to update work order: %w", err)
		}
		if err := writeAudit(tx, p.ID, model.ActionOrderAssign, fetched.ID.String(), fetched.Title, map[string]interface{}{
			"assigned_to": assigneeID,
		}); err != nil {
			return err
		}

		order = fetched
		return s.notifier.Dispatch(txCtx, fetched, model.NotifWorkOrderAssigned,
			"Work order assigned: "+fetched.Title,
			"You have been assigned a work order",
			authz.EntityWorkOrder, &fetched.ID, p)
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

func (s *workOrderService) ToggleChecklistItem(ctx context.Context, p authz.Principal, orderID, itemID uuid.UUID, done bool) (*model.ChecklistItem, error) {
	var item *model.ChecklistItem
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		// Checklist items are authorized through their parent work order.
		order, found, err := authz.Fetch[model.WorkOrder](txCtx, tx, s.scoper, p, authz.EntityWorkOrder, orderID)
		if err != nil {
			return fmt.Errorf("failed to fetch work order: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityWorkOrder, order, authz.ActionUpdateProgress); err != nil {
			return err
		}

		var fetched model.ChecklistItem
		if err := tx.First(&fetched, "id = ? AND work_order_id = ?", itemID, orderID).Error; err != nil {
			return ErrNotFound
		}

		fetched.Done = done
		if err := tx.Save(&fetched).Error; err != nil {
			return fmt.Errorf("failed to update checklist item: %w", err)
		}
		item = &fetched
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Checklist item %s set done=%t", itemID, done)
	return item, nil
}
