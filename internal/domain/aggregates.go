package domain

import (
	"fmt"
	"time"
)

// User is an account principal. Passwords are stored as bcrypt hashes and
// never leave the auth layer.
type User struct {
	ID           string
	Email        string
	DisplayName  string
	PasswordHash string
	AvatarURL    *string
	CreatedAt    time.Time
	LastActiveAt time.Time
}

// SharedUser is a collaborator entry on a list's access map.
type SharedUser struct {
	Permission SharePermission
	AddedAt    time.Time
	AddedBy    string // inviter email
}

// TaskList is an aggregate root representing a named collection of tasks
// with one owner and zero or more shared collaborators.
//
// Tasks are NOT included in this aggregate. They are always fetched
// separately via the task listing operations to prevent unbounded loading.
//
// Invariant: IsShared == (len(SharedWith) > 0). The owner never appears as
// a key of SharedWith.
type TaskList struct {
	ID          string
	Title       string
	Description *string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	IsShared    bool
	SharedWith  map[string]SharedUser // keyed by user ID

	// Optimistic locking version for concurrent update protection
	Version int
}

// Etag returns the entity tag for this list, used for optimistic
// concurrency control.
func (l *TaskList) Etag() string {
	return fmt.Sprintf("%d", l.Version)
}

// Task is a unit of work within a list; it may have subtasks and an
// optional recurrence pattern.
//
// Invariants: RecurrencePattern is present iff IsRecurring is true.
// CompletedAt/CompletedBy are set iff Status == completed.
type Task struct {
	ID          string
	ListID      string
	Title       string
	Description *string
	Priority    TaskPriority
	Status      TaskStatus
	DueDate     *time.Time
	AssignedTo  *string

	IsRecurring       bool
	RecurrencePattern *RecurrencePattern

	// GeneratedFrom links a recurring instance back to the task whose
	// completion produced it, for history grouping.
	GeneratedFrom *string

	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
	CompletedAt *time.Time
	CompletedBy *string

	// Optimistic locking version for concurrent update protection
	Version int
}

// Etag returns the entity tag for this task.
func (t *Task) Etag() string {
	return fmt.Sprintf("%d", t.Version)
}

// Overdue reports whether the task is pending with a due date in the past.
func (t *Task) Overdue(now time.Time) bool {
	return t.Status == TaskStatusPending && t.DueDate != nil && t.DueDate.Before(now)
}

// RecurrencePattern is a rule for generating the next task instance after
// completion. Type-specific semantics live in the recurring package; this
// is the persisted shape.
type RecurrencePattern struct {
	Type       RecurrenceType
	Interval   int
	DaysOfWeek []int // weekly only; 0=Sunday .. 6=Saturday, any order
	EndDate    *time.Time
}

// RecurrenceType represents the cadence of a recurring task.
// Value object - immutable string enum.
type RecurrenceType string

const (
	RecurrenceDaily   RecurrenceType = "daily"
	RecurrenceWeekly  RecurrenceType = "weekly"
	RecurrenceMonthly RecurrenceType = "monthly"
)

// NewRecurrenceType validates and creates a RecurrenceType.
func NewRecurrenceType(s string) (RecurrenceType, error) {
	t := RecurrenceType(s)

	switch t {
	case RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly:
		return t, nil
	default:
		return "", fmt.Errorf("%w: unknown type %q", ErrInvalidRecurrence, s)
	}
}

// Subtask is an ordered checklist item belonging to exactly one task.
// Order defines display sequence; ties are broken by insertion order.
type Subtask struct {
	ID          string
	TaskID      string
	Title       string
	Status      TaskStatus
	Order       int
	CreatedBy   string
	CreatedAt   time.Time
	CompletedAt *time.Time
	CompletedBy *string
}

// Invitation is a time-limited, token-addressed offer of list access to a
// specific email address. The token is the invitation ID.
type Invitation struct {
	ID           string // token == id
	ListID       string
	InviterEmail string
	InviteeEmail string
	Status       InvitationStatus
	Permission   SharePermission
	CreatedAt    time.Time
	ExpiresAt    time.Time
	ResentAt     *time.Time

	// Email delivery outcome. Delivery failure never blocks accepting
	// via the direct link.
	EmailSent  bool
	EmailError *string
}

// Token returns the externally dereferenced identifier for this invitation.
func (i *Invitation) Token() string {
	return i.ID
}

// EffectiveStatus reports the status as seen by readers: a pending
// invitation past its expiry reads as expired. Expiry is computed, never
// a stored transition.
func (i *Invitation) EffectiveStatus(now time.Time) InvitationStatus {
	if i.Status == InvitationStatusPending && now.After(i.ExpiresAt) {
		return InvitationStatusExpired
	}
	return i.Status
}

// NotificationActor identifies who triggered a notification.
type NotificationActor struct {
	UserID      string
	DisplayName string
}

// Notification is created as a side effect of sharing and mutated only by
// marking it read.
type Notification struct {
	ID        string
	UserID    string // recipient
	Type      NotificationType
	Message   string
	ListID    string
	FromUser  NotificationActor
	Read      bool
	CreatedAt time.Time
}
