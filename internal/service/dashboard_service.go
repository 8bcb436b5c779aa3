package service

import (
	"context"
	"fmt"
	"time"

	"backend/internal/authz"
	"backend/internal/cache"
	"backend/internal/model"

	"gorm.io/gorm"
)

// DashboardSummary aggregates the caller's visible slice of the system. Every
// counter below runs through the same visibility scoping as the list
// endpoints, so an operator's dashboard only ever counts their own work.
type DashboardSummary struct {
	Window               string         `json:"window"`
	WorkOrdersByStatus   map[string]int `json:"work_orders_by_status"`
	WorkOrdersByPriority map[string]int `json:"work_orders_by_priority"`
	OverdueWorkOrders    int            `json:"overdue_work_orders"`
	CompletedInWindow    int            `json:"completed_in_window"`
	AssetsByState        map[string]int `json:"assets_by_state"`
	HighRiskAssets       int            `json:"high_risk_assets"`
	LowStockParts        int            `json:"low_stock_parts"`
	UpcomingPlans        int            `json:"upcoming_plans"`
	UnreadNotifications  int            `json:"unread_notifications"`
	GeneratedAt          time.Time      `json:"generated_at"`
}

type DashboardService interface {
	Summary(ctx context.Context, p authz.Principal, window string) (*DashboardSummary, error)
}

type dashboardService struct {
	db     *gorm.DB
	scoper *authz.Scoper
	cache  *cache.DashboardCache[DashboardSummary]
}

func NewDashboardService(db *gorm.DB, scoper *authz.Scoper, c *cache.DashboardCache[DashboardSummary]) DashboardService {
	return &dashboardService{db: db, scoper: scoper, cache: c}
}

func windowDuration(window string) (time.Duration, error) {
	switch window {
	case "24h":
		return 24 * time.Hour, nil
	case "7d", "":
		return 7 * 24 * time.Hour, nil
	case "30d":
		return 30 * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unsupported window %q", window)
	}
}

// Summary computes the caller's dashboard counters, serving a cached copy
// when one exists for the same role, principal and window.
func (s *dashboardService) Summary(ctx context.Context, p authz.Principal, window string) (*DashboardSummary, error) {
	dur, err := windowDuration(window)
	if err != nil {
		return nil, err
	}
	if window == "" {
		window = "7d"
	}

	key := cache.Key(p.Role, p.ID, window)
	if cached, ok := s.cache.Get(key); ok {
		return &cached, nil
	}

	since := time.Now().Add(-dur)
	summary := DashboardSummary{
		Window:               window,
		WorkOrdersByStatus:   map[string]int{},
		WorkOrdersByPriority: map[string]int{},
		AssetsByState:        map[string]int{},
		GeneratedAt:          time.Now(),
	}

	type statusCount struct {
		Status string
		Count  int
	}

	var orderCounts []statusCount
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.WorkOrder{}), p, authz.EntityWorkOrder).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&orderCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count work orders: %w", err)
	}
	for _, c := range orderCounts {
		summary.WorkOrdersByStatus[c.Status] = c.Count
	}

	var priorityCounts []struct {
		Priority string
		Count    int
	}
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.WorkOrder{}), p, authz.EntityWorkOrder).
		Where("status IN ?", model.ActiveWorkOrderStatuses).
		Select("priority, COUNT(*) AS count").
		Group("priority").
		Scan(&priorityCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count work order priorities: %w", err)
	}
	for _, c := range priorityCounts {
		summary.WorkOrdersByPriority[c.Priority] = c.Count
	}

	var overdue int64
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.WorkOrder{}), p, authz.EntityWorkOrder).
		Where("due_date < ? AND status IN ?", time.Now(), model.ActiveWorkOrderStatuses).
		Count(&overdue).Error; err != nil {
		return nil, fmt.Errorf("failed to count overdue work orders: %w", err)
	}
	summary.OverdueWorkOrders = int(overdue)

	var completed int64
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.WorkOrder{}), p, authz.EntityWorkOrder).
		Where("status = ? AND completed_at >= ?", model.WorkOrderCompleted, since).
		Count(&completed).Error; err != nil {
		return nil, fmt.Errorf("failed to count completed work orders: %w", err)
	}
	summary.CompletedInWindow = int(completed)

	var stateCounts []struct {
		State string
		Count int
	}
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.AssetStatus{}), p, authz.EntityAssetStatus).
		Select("state, COUNT(*) AS count").
		Group("state").
		Scan(&stateCounts).Error; err != nil {
		return nil, fmt.Errorf("failed to count asset states: %w", err)
	}
	for _, c := range stateCounts {
		summary.AssetsByState[c.State] = c.Count
	}

	var highRisk int64
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Prediction{}), p, authz.EntityPrediction).
		Where("failure_probability >= ? AND generated_at >= ?", HighRiskThreshold, since).
		Distinct("predictions.asset_id").
		Count(&highRisk).Error; err != nil {
		return nil, fmt.Errorf("failed to count high risk assets: %w", err)
	}
	summary.HighRiskAssets = int(highRisk)

	var lowStock int64
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.SparePart{}), p, authz.EntitySparePart).
		Where("quantity <= min_quantity").
		Count(&lowStock).Error; err != nil {
		return nil, fmt.Errorf("failed to count low stock parts: %w", err)
	}
	summary.LowStockParts = int(lowStock)

	var upcoming int64
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.MaintenancePlan{}), p, authz.EntityMaintenancePlan).
		Where("active = ? AND next_due <= ?", true, time.Now().Add(dur)).
		Count(&upcoming).Error; err != nil {
		return nil, fmt.Errorf("failed to count upcoming plans: %w", err)
	}
	summary.UpcomingPlans = int(upcoming)

	var unread int64
	if err := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Notification{}), p, authz.EntityNotification).
		Where("read = ?", false).
		Count(&unread).Error; err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}
	summary.UnreadNotifications = int(unread)

	s.cache.Set(key, summary)
	return &summary, nil
}
