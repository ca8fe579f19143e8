package world

import "fmt"

// ErrKind classifies a rejected mutation so clients and logs can react
// without string matching.
type ErrKind uint8

const (
	// ErrPrecondition covers dead/knocked-out actors, missing materials,
	// range failures and wrong-tool rejections.
	ErrPrecondition ErrKind = iota
	// ErrNotFound means the referenced id does not exist or is not in the
	// caller's possession.
	ErrNotFound
	// ErrInvariant means the request contradicts item location or ownership.
	ErrInvariant
	// ErrCapacity means a merge would overflow a stack or no slot is free.
	ErrCapacity
	// ErrCooldown means a rate-limited action fired too soon.
	ErrCooldown
	// ErrSpatialConflict means a placement collides with terrain, a zone or
	// another entity.
	ErrSpatialConflict
	// ErrStateConflict means the entity is in the wrong state for the
	// request, such as extinguishing an unlit campfire.
	ErrStateConflict
	// ErrAuthorization means the caller lacks the right identity, such as a
	// player invoking a scheduler-only mutation.
	ErrAuthorization
)

func (k ErrKind) String() string {
	switch k {
	case ErrPrecondition:
		return "precondition_failure"
	case ErrNotFound:
		return "not_found"
	case ErrInvariant:
		return "invariant"
	case ErrCapacity:
		return "capacity"
	case ErrCooldown:
		return "cooldown"
	case ErrSpatialConflict:
		return "spatial_conflict"
	case ErrStateConflict:
		return "state_conflict"
	case ErrAuthorization:
		return "authorization"
	}
	return "unknown"
}

// Error is the failure type every mutation returns. A returned Error
// guarantees no state was changed.
type Error struct {
	Kind ErrKind
	msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.msg)
}

// Message is the client-facing text without the kind prefix.
func (e *Error) Message() string {
	return e.msg
}

func Errorf(kind ErrKind, format string, args ...any) *Error {
	return &Error{Kind: kind, msg: fmt.Sprintf(format, args...)}
}

// KindOf extracts the kind of a mutation error, or ErrInvariant for
// unexpected error values.
func KindOf(err error) ErrKind {
	if e, ok := err.(*Error); ok {
		return e.Kind
	}
	return ErrInvariant
}
