package authz

import "errors"

var (
	// ErrForbidden means the entity is visible but the requested action is
	// not permitted for this principal. Never used on the read path: invisible
	// entities surface as not-found, indistinguishable from absent ones.
	ErrForbidden = errors.New("action not permitted")

	// ErrInvalidTransition means the requested status change is outside the
	// work-order state machine. Rejected for every role, including ADMIN.
	ErrInvalidTransition = errors.New("invalid status transition")
)
