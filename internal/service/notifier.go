package service

import (
	"context"
	"fmt"
	"log"

	"backend/internal/authz"
	"backend/internal/model"
	"backend/internal/repository"
	"backend/internal/websocket"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notifier turns domain events into per-user notifications. The audience
// comes exclusively from the resolver; this type only persists the rows and
// hands them to the websocket hub for delivery. Rows are written through the
// caller's transaction when one is active so a rolled-back mutation never
// leaves notifications behind.
type Notifier struct {
	db       *gorm.DB
	resolver *authz.AudienceResolver
	hub      *websocket.Hub
}

func NewNotifier(db *gorm.DB, resolver *authz.AudienceResolver, hub *websocket.Hub) *Notifier {
	return &Notifier{db: db, resolver: resolver, hub: hub}
}

// Dispatch resolves the audience for the event and fans a notification out to
// each recipient. Delivery over the hub is best-effort; the persisted row is
// the source of truth for the inbox.
func (n *Notifier) Dispatch(ctx context.Context, entity authz.AudienceEntity, eventType, title, body string, entityType authz.EntityType, entityID *uuid.UUID, actor authz.Principal) error {
	recipients, err := n.resolver.Recipients(ctx, entity, eventType, actor)
	if err != nil {
		return fmt.Errorf("failed to resolve notification audience: %w", err)
	}

	if len(recipients) == 0 {
		return nil
	}

	notifications := make([]model.Notification, 0, len(recipients))
	for _, userID := range recipients {
		notifications = append(notifications, model.Notification{
			UserID:     userID,
			Type:       eventType,
			Title:      title,
			Body:       body,
			EntityType: string(entityType),
			EntityID:   entityID,
		})
	}

	if err := repository.GetDB(ctx, n.db).Create(&notifications).Error; err != nil {
		return fmt.Errorf("failed to persist notifications: %w", err)
	}

	for _, notif := range notifications {
		n.hub.Notify(notif.UserID, notif.Type, notif)
	}

	log.Printf("Dispatched %s to %d recipient(s)", eventType, len(recipients))
	return nil
}
