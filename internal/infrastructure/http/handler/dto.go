package handler

import (
	"time"

	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/recurring"
)

// Wire types. Field names follow the JSON conventions of the web client.

type UserDTO struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

type SharedUserDTO struct {
	Permission string    `json:"permission"`
	AddedAt    time.Time `json:"addedAt"`
	AddedBy    string    `json:"addedBy"`
}

type ListDTO struct {
	ID          string                   `json:"id"`
	Title       string                   `json:"title"`
	Description *string                  `json:"description,omitempty"`
	OwnerID     string                   `json:"ownerId"`
	IsShared    bool                     `json:"isShared"`
	SharedWith  map[string]SharedUserDTO `json:"sharedWith"`
	CreatedAt   time.Time                `json:"createdAt"`
	UpdatedAt   time.Time                `json:"updatedAt"`
	Etag        string                   `json:"etag"`
}

type RecurrencePatternDTO struct {
	Type       string     `json:"type"`
	Interval   int        `json:"interval"`
	DaysOfWeek []int      `json:"daysOfWeek,omitempty"`
	EndDate    *time.Time `json:"endDate,omitempty"`
}

type TaskDTO struct {
	ID                string                `json:"id"`
	ListID            string                `json:"listId"`
	Title             string                `json:"title"`
	Description       *string               `json:"description,omitempty"`
	Priority          string                `json:"priority"`
	Status            string                `json:"status"`
	DueDate           *time.Time            `json:"dueDate,omitempty"`
	AssignedTo        *string               `json:"assignedTo,omitempty"`
	IsRecurring       bool                  `json:"isRecurring"`
	RecurrencePattern *RecurrencePatternDTO `json:"recurrencePattern,omitempty"`
	RecurrenceSummary string                `json:"recurrenceSummary,omitempty"`
	GeneratedFrom     *string               `json:"generatedFrom,omitempty"`
	CreatedBy         string                `json:"createdBy"`
	CreatedAt         time.Time             `json:"createdAt"`
	UpdatedAt         time.Time             `json:"updatedAt"`
	CompletedAt       *time.Time            `json:"completedAt,omitempty"`
	CompletedBy       *string               `json:"completedBy,omitempty"`
	Etag              string                `json:"etag"`
}

type SubtaskDTO struct {
	ID          string     `json:"id"`
	TaskID      string     `json:"taskId"`
	Title       string     `json:"title"`
	Status      string     `json:"status"`
	Order       int        `json:"order"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CompletedBy *string    `json:"completedBy,omitempty"`
}

type TaskDetailDTO struct {
	TaskDTO
	Subtasks []SubtaskDTO `json:"subtasks"`
	Progress int          `json:"progress"`
}

type ListStatsDTO struct {
	TotalTasks     int `json:"totalTasks"`
	CompletedTasks int `json:"completedTasks"`
	PendingTasks   int `json:"pendingTasks"`
	OverdueTasks   int `json:"overdueTasks"`
}

type InvitationDTO struct {
	ID           string     `json:"id"`
	ListID       string     `json:"listId"`
	InviterEmail string     `json:"inviterEmail"`
	InviteeEmail string     `json:"inviteeEmail"`
	Status       string     `json:"status"`
	Permission   string     `json:"permission"`
	CreatedAt    time.Time  `json:"createdAt"`
	ExpiresAt    time.Time  `json:"expiresAt"`
	ResentAt     *time.Time `json:"resentAt,omitempty"`
	EmailSent    bool       `json:"emailSent"`
	EmailError   *string    `json:"emailError,omitempty"`
}

type NotificationActorDTO struct {
	UserID      string `json:"userId,omitempty"`
	DisplayName string `json:"displayName"`
}

type NotificationDTO struct {
	ID        string               `json:"id"`
	Type      string               `json:"type"`
	Message   string               `json:"message"`
	ListID    string               `json:"listId"`
	FromUser  NotificationActorDTO `json:"fromUser"`
	Read      bool                 `json:"read"`
	CreatedAt time.Time            `json:"createdAt"`
}

// === Mappers ===

func mapUserToDTO(u *domain.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		AvatarURL:   u.AvatarURL,
		CreatedAt:   u.CreatedAt,
	}
}

func mapListToDTO(l *domain.TaskList) ListDTO {
	sharedWith := make(map[string]SharedUserDTO, len(l.SharedWith))
	for userID, entry := range l.SharedWith {
		sharedWith[userID] = SharedUserDTO{
			Permission: string(entry.Permission),
			AddedAt:    entry.AddedAt,
			AddedBy:    entry.AddedBy,
		}
	}

	return ListDTO{
		ID:          l.ID,
		Title:       l.Title,
		Description: l.Description,
		OwnerID:     l.OwnerID,
		IsShared:    l.IsShared,
		SharedWith:  sharedWith,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
		Etag:        l.Etag(),
	}
}

func mapTaskToDTO(t *domain.Task) TaskDTO {
	dto := TaskDTO{
		ID:            t.ID,
		ListID:        t.ListID,
		Title:         t.Title,
		Description:   t.Description,
		Priority:      string(t.Priority),
		Status:        string(t.Status),
		DueDate:       t.DueDate,
		AssignedTo:    t.AssignedTo,
		IsRecurring:   t.IsRecurring,
		GeneratedFrom: t.GeneratedFrom,
		CreatedBy:     t.CreatedBy,
		CreatedAt:     t.CreatedAt,
		UpdatedAt:     t.UpdatedAt,
		CompletedAt:   t.CompletedAt,
		CompletedBy:   t.CompletedBy,
		Etag:          t.Etag(),
	}

	if t.RecurrencePattern != nil {
		dto.RecurrencePattern = &RecurrencePatternDTO{
			Type:       string(t.RecurrencePattern.Type),
			Interval:   t.RecurrencePattern.Interval,
			DaysOfWeek: t.RecurrencePattern.DaysOfWeek,
			EndDate:    t.RecurrencePattern.EndDate,
		}
		dto.RecurrenceSummary = recurring.Describe(*t.RecurrencePattern)
	}

	return dto
}

func mapTasksToDTO(tasks []*domain.Task) []TaskDTO {
	out := make([]TaskDTO, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, mapTaskToDTO(t))
	}
	return out
}

func mapSubtaskToDTO(st *domain.Subtask) SubtaskDTO {
	return SubtaskDTO{
		ID:          st.ID,
		TaskID:      st.TaskID,
		Title:       st.Title,
		Status:      string(st.Status),
		Order:       st.Order,
		CreatedBy:   st.CreatedBy,
		CreatedAt:   st.CreatedAt,
		CompletedAt: st.CompletedAt,
		CompletedBy: st.CompletedBy,
	}
}

func mapSubtasksToDTO(subtasks []*domain.Subtask) []SubtaskDTO {
	out := make([]SubtaskDTO, 0, len(subtasks))
	for _, st := range subtasks {
		out = append(out, mapSubtaskToDTO(st))
	}
	return out
}

func mapTaskDetailToDTO(t *domain.Task, subtasks []*domain.Subtask) TaskDetailDTO {
	return TaskDetailDTO{
		TaskDTO:  mapTaskToDTO(t),
		Subtasks: mapSubtasksToDTO(subtasks),
		Progress: domain.ProgressPercentage(t, domain.ComputeSubtaskStats(subtasks)),
	}
}

func mapListStatsToDTO(stats domain.ListStats) ListStatsDTO {
	return ListStatsDTO{
		TotalTasks:     stats.TotalTasks,
		CompletedTasks: stats.CompletedTasks,
		PendingTasks:   stats.PendingTasks,
		OverdueTasks:   stats.OverdueTasks,
	}
}

func mapInvitationToDTO(inv *domain.Invitation) InvitationDTO {
	return InvitationDTO{
		ID:           inv.ID,
		ListID:       inv.ListID,
		InviterEmail: inv.InviterEmail,
		InviteeEmail: inv.InviteeEmail,
		Status:       string(inv.Status),
		Permission:   string(inv.Permission),
		CreatedAt:    inv.CreatedAt,
		ExpiresAt:    inv.ExpiresAt,
		ResentAt:     inv.ResentAt,
		EmailSent:    inv.EmailSent,
		EmailError:   inv.EmailError,
	}
}

func mapInvitationsToDTO(invs []*domain.Invitation) []InvitationDTO {
	out := make([]InvitationDTO, 0, len(invs))
	for _, inv := range invs {
		out = append(out, mapInvitationToDTO(inv))
	}
	return out
}

func mapNotificationToDTO(n *domain.Notification) NotificationDTO {
	return NotificationDTO{
		ID:      n.ID,
		Type:    string(n.Type),
		Message: n.Message,
		ListID:  n.ListID,
		FromUser: NotificationActorDTO{
			UserID:      n.FromUser.UserID,
			DisplayName: n.FromUser.DisplayName,
		},
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func mapNotificationsToDTO(notifications []*domain.Notification) []NotificationDTO {
	out := make([]NotificationDTO, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, mapNotificationToDTO(n))
	}
	return out
}
