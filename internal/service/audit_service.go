package service

import (
	"context"
	"fmt"

	"backend/internal/model"

	"gorm.io/gorm"
)

type AuditFilter struct {
	UserID   string
	Action   string
	EntityID string
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) AuditService {
	return &auditService{db: db}
}

// GetAuditLogs lists the audit trail, newest first. Route-level role gating
// keeps this an admin/supervisor surface; rows themselves are never scoped.
func (s *auditService) GetAuditLogs(ctx context.Context, filter AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	base := s.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.UserID != "" {
		base = base.Where("user_id = ?", filter.UserID)
	}
	if filter.Action != "" {
		base = base.Where("action = ?", filter.Action)
	}
	if filter.EntityID != "" {
		base = base.Where("entity_id = ?", filter.EntityID)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count audit logs: %w", err)
	}

	var logs []model.AuditLog
	if err := base.Preload("User").
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch audit logs: %w", err)
	}

	return logs, total, nil
}
