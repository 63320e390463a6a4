package domain

// TaskStatus represents the current state of a task or subtask.
// Value object - immutable string enum.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusCompleted TaskStatus = "completed"
)

// TaskPriority represents the priority level of a task.
// Value object - immutable string enum.
type TaskPriority string

const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// ordinal returns the sort weight of a priority (high sorts above low).
func (p TaskPriority) ordinal() int {
	switch p {
	case TaskPriorityHigh:
		return 3
	case TaskPriorityMedium:
		return 2
	case TaskPriorityLow:
		return 1
	default:
		return 0
	}
}

// Permission represents the effective access level a principal has on a list.
// Value object - immutable string enum.
type Permission string

const (
	PermissionOwner Permission = "owner"
	PermissionEdit  Permission = "edit"
	PermissionView  Permission = "view"
	PermissionNone  Permission = "none"
)

// SharePermission is the subset of permissions that can be granted to a
// collaborator. The owner tier is implicit and never stored.
type SharePermission string

const (
	SharePermissionView SharePermission = "view"
	SharePermissionEdit SharePermission = "edit"
)

// InvitationStatus represents the lifecycle state of a list invitation.
// Value object - immutable string enum.
type InvitationStatus string

const (
	InvitationStatusPending  InvitationStatus = "pending"
	InvitationStatusAccepted InvitationStatus = "accepted"
	InvitationStatusDeclined InvitationStatus = "declined"
	InvitationStatusExpired  InvitationStatus = "expired"
)

// NotificationType classifies what a notification is about.
type NotificationType string

const (
	NotificationTypeListShared    NotificationType = "list_shared"
	NotificationTypeAccessRemoved NotificationType = "access_removed"
)
