package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CreatePlanRequest struct {
	Name         string    `json:"name" binding:"required"`
	Description  string    `json:"description"`
	AssetID      string    `json:"asset_id" binding:"required,uuid"`
	AssignedTo   string    `json:"assigned_to" binding:"required,uuid"`
	Priority     string    `json:"priority" binding:"omitempty,oneof=Baja Media Alta Critica"`
	IntervalDays int       `json:"interval_days" binding:"required,gt=0"`
	NextDue      time.Time `json:"next_due" binding:"required"`
}

type UpdatePlanRequest struct {
	Name         string     `json:"name"`
	Description  *string    `json:"description"`
	AssignedTo   string     `json:"assigned_to" binding:"omitempty,uuid"`
	Priority     string     `json:"priority" binding:"omitempty,oneof=Baja Media Alta Critica"`
	IntervalDays int        `json:"interval_days" binding:"omitempty,gt=0"`
	NextDue      *time.Time `json:"next_due"`
	Active       *bool      `json:"active"`
}

type MaintenancePlanService interface {
	ListPlans(ctx context.Context, p authz.Principal, page, limit int) ([]model.MaintenancePlan, int64, error)
	GetPlan(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.MaintenancePlan, bool, error)
	CreatePlan(ctx context.Context, p authz.Principal, req CreatePlanRequest) (*model.MaintenancePlan, error)
	UpdatePlan(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdatePlanRequest) (*model.MaintenancePlan, error)
	DeletePlan(ctx context.Context, p authz.Principal, id uuid.UUID) error
	GenerateDueWorkOrders(ctx context.Context) (int, error)
}

type maintenancePlanService struct {
	db       *gorm.DB
	scoper   *authz.Scoper
	txm      repository.TransactionManager
	notifier *Notifier
}

func NewMaintenancePlanService(db *gorm.DB, scoper *authz.Scoper, txm repository.TransactionManager, notifier *Notifier) MaintenancePlanService {
	return &maintenancePlanService{db: db, scoper: scoper, txm: txm, notifier: notifier}
}

func (s *maintenancePlanService) ListPlans(ctx context.Context, p authz.Principal, page, limit int) ([]model.MaintenancePlan, int64, error) {
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.MaintenancePlan{}), p, authz.EntityMaintenancePlan)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count plans: %w", err)
	}

	var plans []model.MaintenancePlan
	if err := base.Preload("Asset").
		Order("next_due ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&plans).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch plans: %w", err)
	}

	return plans, total, nil
}

func (s *maintenancePlanService) GetPlan(ctx context.Context, p authz.Principal, id uuid.UUID) (*model.MaintenancePlan, bool, error) {
	return authz.Fetch[model.MaintenancePlan](ctx, s.db, s.scoper, p, authz.EntityMaintenancePlan, id)
}

func (s *maintenancePlanService) CreatePlan(ctx context.Context, p authz.Principal, req CreatePlanRequest) (*model.MaintenancePlan, error) {
	if err := authz.Authorize(p, authz.EntityMaintenancePlan, nil, authz.ActionCreate); err != nil {
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

	plan := model.MaintenancePlan{
		Name:         req.Name,
		Description:  req.Description,
		AssetID:      assetID,
		AssignedTo:   assigneeID,
		Priority:     req.Priority,
		IntervalDays: req.IntervalDays,
		NextDue:      req.NextDue,
		Active:       true,
		CreatedBy:    p.ID,
	}
	if plan.Priority == "" {
		plan.Priority = model.PriorityMedia
	}

	err = s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)
		if err := tx.Create(&plan).Error; err != nil {
			return fmt.Errorf("failed to create plan: %w", err)
		}
		return writeAudit(tx, p.ID, model.ActionCreatePlan, plan.ID.String(), plan.Name, nil)
	})
	if err != nil {
		return nil, err
	}

	return &plan, nil
}

func (s *maintenancePlanService) UpdatePlan(ctx context.Context, p authz.Principal, id uuid.UUID, req UpdatePlanRequest) (*model.MaintenancePlan, error) {
	var plan *model.MaintenancePlan
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		fetched, found, err := authz.Fetch[model.MaintenancePlan](txCtx, tx, s.scoper, p, authz.EntityMaintenancePlan, id)
		if err != nil {
			return fmt.Errorf("failed to fetch plan: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityMaintenancePlan, nil, authz.ActionUpdate); err != nil {
			return err
		}

		if req.Name != "" {
			fetched.Name = req.Name
		}
		if req.Description != nil {
			fetched.Description = *req.Description
		}
		if req.AssignedTo != "" {
			assigneeID, err := uuid.Parse(req.AssignedTo)
			if err != nil {
				return fmt.Errorf("invalid assigned_to: %w", err)
			}
			fetched.AssignedTo = assigneeID
		}
		if req.Priority != "" {
			fetched.Priority = req.Priority
		}
		if req.IntervalDays > 0 {
			fetched.IntervalDays = req.IntervalDays
		}
		if req.NextDue != nil {
			fetched.NextDue = *req.NextDue
		}
		if req.Active != nil {
			fetched.Active = *req.Active
		}

		if err := tx.Save(fetched).Error; err != nil {
			return fmt.Errorf("failed to update plan: %w", err)
		}
		plan = fetched
		return writeAudit(tx, p.ID, model.ActionUpdatePlan, fetched.ID.String(), fetched.Name, nil)
	})
	if err != nil {
		return nil, err
	}
	return plan, nil
}

func (s *maintenancePlanService) DeletePlan(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	return s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		plan, found, err := authz.Fetch[model.MaintenancePlan](txCtx, tx, s.scoper, p, authz.EntityMaintenancePlan, id)
		if err != nil {
			return fmt.Errorf("failed to fetch plan: %w", err)
		}
		if !found {
			return ErrNotFound
		}
		if err := authz.Authorize(p, authz.EntityMaintenancePlan, nil, authz.ActionDelete); err != nil {
			return err
		}

		if err := tx.Delete(&model.MaintenancePlan{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete plan: %w", err)
		}
		return writeAudit(tx, p.ID, model.ActionDeletePlan, id.String(), plan.Name, nil)
	})
}

// GenerateDueWorkOrders materializes a work order for every active plan whose
// next_due has passed, then advances next_due by the interval. Called by the
// cron scheduler; notifications go out to each plan's assignee.
func (s *maintenancePlanService) GenerateDueWorkOrders(ctx context.Context) (int, error) {
	generated := 0
	err := s.txm.RunInTx(ctx, func(txCtx context.Context) error {
		tx := repository.GetDB(txCtx, s.db)

		var due []model.MaintenancePlan
		if err := tx.Where("active = ? AND next_due <= ?", true, time.Now()).Find(&due).Error; err != nil {
			return fmt.Errorf("failed to fetch due plans: %w", err)
		}

		for i := range due {
			plan := &due[i]

			dueDate := plan.NextDue
			order := model.WorkOrder{
				Title:       plan.Name,
				Description: plan.Description,
				AssetID:     plan.AssetID,
				AssignedTo:  plan.AssignedTo,
				CreatedBy:   plan.CreatedBy,
				Priority:    plan.Priority,
				Status:      model.WorkOrderPending,
				DueDate:     &dueDate,
			}
			if err := tx.Create(&order).Error; err != nil {
				return fmt.Errorf("failed to create scheduled work order: %w", err)
			}

			plan.NextDue = plan.NextDue.AddDate(0, 0, plan.IntervalDays)
			if err := tx.Save(plan).Error; err != nil {
				return fmt.Errorf("failed to advance plan schedule: %w", err)
			}

			// Scheduler acts as no principal; the plan owner and creator are
			// both notified.
			if err := s.notifier.Dispatch(txCtx, &order, model.NotifWorkOrderAssigned,
				"Scheduled work order: "+order.Title,
				fmt.Sprintf("Generated from maintenance plan %q", plan.Name),
				authz.EntityWorkOrder, &order.ID, authz.Principal{}); err != nil {
				return err
			}
			generated++
		}

		return nil
	})
	if err != nil {
		return generated, err
	}

	if generated > 0 {
		log.Printf("Scheduler generated %d work order(s) from due plans", generated)
	}
	return generated, nil
}
