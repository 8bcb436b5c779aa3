package authz

import "github.com/google/uuid"

// Principal is the authenticated actor of a request. It is built once by the
// auth middleware from a verified token and is immutable for the request's
// duration; every visibility and authorization decision derives from it.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

// Ownable is implemented by every entity type that has an owning principal.
// Dispatch is by static type; there is no runtime attribute probing.
type Ownable interface {
	OwnerID() uuid.UUID
}

// AudienceEntity is what the notification audience resolver needs from an
// entity: its owner, its creator, and a severity tier for escalation.
type AudienceEntity interface {
	Ownable
	CreatorID() uuid.UUID
	Severity() string
}
