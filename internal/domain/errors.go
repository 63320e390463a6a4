package domain

import "errors"

// Domain errors returned by services and repository implementations.
// HTTP status mapping lives in the response package; nothing here knows
// about transport.

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrListNotFound indicates the specified task list does not exist.
	ErrListNotFound = errors.New("list not found")

	// ErrTaskNotFound indicates the specified task does not exist.
	ErrTaskNotFound = errors.New("task not found")

	// ErrSubtaskNotFound indicates the specified subtask does not exist.
	ErrSubtaskNotFound = errors.New("subtask not found")

	// ErrInvitationNotFound indicates the invitation token is unknown.
	ErrInvitationNotFound = errors.New("invitation not found")

	// ErrNotificationNotFound indicates the notification does not exist.
	ErrNotificationNotFound = errors.New("notification not found")

	// ErrUserNotFound indicates no account exists for the given identifier.
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidID indicates the provided ID format is invalid.
	ErrInvalidID = errors.New("invalid ID format")
)

// Validation errors.
var (
	ErrTitleRequired     = errors.New("title is required")
	ErrTitleTooLong      = errors.New("title must be 255 characters or less")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrInvalidStatus     = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid priority level")
	ErrInvalidShareRole  = errors.New("invalid share permission")
	ErrInvalidRecurrence = errors.New("invalid recurrence pattern")

	// ErrRecurrenceRequired is returned when a task is flagged recurring
	// without a pattern, or carries a pattern without the flag.
	ErrRecurrenceRequired = errors.New("recurrence pattern and is_recurring must be set together")

	ErrEmptyUpdateMask  = errors.New("update mask must not be empty")
	ErrUnknownField     = errors.New("unknown field in update mask")
	ErrStatusRequired   = errors.New("status cannot be cleared")
	ErrPriorityRequired = errors.New("priority cannot be cleared")
	ErrOrderRequired    = errors.New("order cannot be cleared")

	// ErrInvalidEtagFormat indicates the etag is not a positive integer string.
	ErrInvalidEtagFormat = errors.New("invalid etag format")
)

// Authorization errors.
var (
	// ErrUnauthorized indicates the request carries no valid principal.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrPermissionDenied indicates the principal lacks the required role
	// for the requested mutation. Always rejected with no partial effect.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrEmailTaken indicates an account already exists for the email.
	ErrEmailTaken = errors.New("email already registered")

	// ErrInvalidCredentials indicates email/password did not match.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Invitation lifecycle errors.
var (
	// ErrInvitationExpired indicates now is past the invitation's expiry.
	ErrInvitationExpired = errors.New("invitation has expired")

	// ErrInvitationNotPending indicates the invitation was already
	// accepted, declined, or otherwise processed.
	ErrInvitationNotPending = errors.New("invitation has already been processed")

	// ErrInvitationWrongEmail indicates the accepting principal's email
	// does not match the invitee email.
	ErrInvitationWrongEmail = errors.New("invitation is not for this user")

	// ErrCannotInviteSelf indicates the owner tried to invite themselves.
	ErrCannotInviteSelf = errors.New("cannot invite the list owner")
)

// Concurrency errors.
var (
	// ErrVersionConflict indicates an etag did not match the current
	// version of the entity (optimistic concurrency control).
	ErrVersionConflict = errors.New("version conflict")
)
