package service

import (
	"context"
	"errors"
	"fmt"

	"backend/internal/authz"
	"backend/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is the uniform sentinel for entities that are absent or
// invisible to the principal. Handlers map it to a 404 without distinguishing
// the two causes.
var ErrNotFound = errors.New("not found")

type NotificationService interface {
	ListMine(ctx context.Context, p authz.Principal, unreadOnly bool, page, limit int) ([]model.Notification, int64, error)
	MarkRead(ctx context.Context, p authz.Principal, id uuid.UUID) error
	MarkAllRead(ctx context.Context, p authz.Principal) (int64, error)
}

type notificationService struct {
	db     *gorm.DB
	scoper *authz.Scoper
}

func NewNotificationService(db *gorm.DB, scoper *authz.Scoper) NotificationService {
	return &notificationService{db: db, scoper: scoper}
}

// ListMine returns the principal's inbox. The visibility scope restricts the
// query to the principal's own rows for every role, so there is no user_id
// parameter to spoof.
func (s *notificationService) ListMine(ctx context.Context, p authz.Principal, unreadOnly bool, page, limit int) ([]model.Notification, int64, error) {
	base := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Notification{}), p, authz.EntityNotification)
	if unreadOnly {
		base = base.Where("read = ?", false)
	}

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	var notifications []model.Notification
	offset := (page - 1) * limit
	if err := base.Order("created_at DESC").Offset(offset).Limit(limit).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch notifications: %w", err)
	}

	return notifications, total, nil
}

func (s *notificationService) MarkRead(ctx context.Context, p authz.Principal, id uuid.UUID) error {
	notif, found, err := authz.Fetch[model.Notification](ctx, s.db, s.scoper, p, authz.EntityNotification, id)
	if err != nil {
		return fmt.Errorf("failed to fetch notification: %w", err)
	}
	if !found {
		return ErrNotFound
	}

	if err := authz.Authorize(p, authz.EntityNotification, notif, authz.ActionUpdate); err != nil {
		return err
	}

	return s.db.WithContext(ctx).Model(notif).Update("read", true).Error
}

func (s *notificationService) MarkAllRead(ctx context.Context, p authz.Principal) (int64, error) {
	res := s.scoper.Scope(s.db.WithContext(ctx).Model(&model.Notification{}), p, authz.EntityNotification).
		Where("read = ?", false).
		Update("read", true)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to mark notifications read: %w", res.Error)
	}
	return res.RowsAffected, nil
}
