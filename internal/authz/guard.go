package authz

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Fetch looks up a single entity by id under the principal's visibility
// predicate. A row that does not exist and a row the principal may not see
// both come back as found=false: callers map that one outcome to "not found"
// so existence can never be probed. Any storage error also reports not found
// to the caller path while surfacing the error itself.
func Fetch[T any](ctx context.Context, db *gorm.DB, s *Scoper, p Principal, entityType EntityType, id uuid.UUID) (*T, bool, error) {
	var entity T
	q := s.Scope(db.WithContext(ctx).Model(&entity), p, entityType)
	if err := q.First(&entity, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return &entity, true, nil
}
