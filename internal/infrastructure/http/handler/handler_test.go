package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/listor/internal/application/auth"
	"github.com/rezkam/listor/internal/application/sharing"
	"github.com/rezkam/listor/internal/application/task"
	"github.com/rezkam/listor/internal/domain"
	"github.com/rezkam/listor/internal/infrastructure/http/middleware"
)

// fakeTaskRepo is an in-memory task.Repository for exercising the HTTP
// surface against the real service layer.
type fakeTaskRepo struct {
	mu       sync.Mutex
	lists    map[string]*domain.TaskList
	tasks    map[string]*domain.Task
	subtasks map[string]*domain.Subtask
	seq      int
}

func newFakeTaskRepo() *fakeTaskRepo {
	return &fakeTaskRepo{
		lists:    make(map[string]*domain.TaskList),
		tasks:    make(map[string]*domain.Task),
		subtasks: make(map[string]*domain.Subtask),
	}
}

func (f *fakeTaskRepo) nextID(prefix string) string {
	f.seq++
	return fmt.Sprintf("%s-%d", prefix, f.seq)
}

func (f *fakeTaskRepo) CreateList(_ context.Context, list *domain.TaskList) (*domain.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *list
	if stored.ID == "" {
		stored.ID = f.nextID("list")
	}
	stored.Version = 1
	f.lists[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeTaskRepo) FindListByID(_ context.Context, id string) (*domain.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.lists[id]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	out := *list
	return &out, nil
}

func (f *fakeTaskRepo) FindListsForUser(_ context.Context, userID string) ([]*domain.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.TaskList
	for _, list := range f.lists {
		if list.OwnerID == userID {
			cp := *list
			out = append(out, &cp)
			continue
		}
		if _, ok := list.SharedWith[userID]; ok {
			cp := *list
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTaskRepo) UpdateList(_ context.Context, params domain.UpdateListParams) (*domain.TaskList, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	list, ok := f.lists[params.ListID]
	if !ok {
		return nil, domain.ErrListNotFound
	}
	if params.Etag != nil && *params.Etag != list.Etag() {
		return nil, domain.ErrVersionConflict
	}
	for _, field := range params.UpdateMask {
		switch field {
		case "title":
			list.Title = *params.Title
		case "description":
			list.Description = params.Description
		}
	}
	list.Version++
	list.UpdatedAt = time.Now().UTC()
	out := *list
	return &out, nil
}

func (f *fakeTaskRepo) DeleteList(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.lists[id]; !ok {
		return domain.ErrListNotFound
	}
	delete(f.lists, id)
	return nil
}

func (f *fakeTaskRepo) CreateTask(_ context.Context, t *domain.Task) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *t
	if stored.ID == "" {
		stored.ID = f.nextID("task")
	}
	stored.Version = 1
	f.tasks[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeTaskRepo) FindTaskByID(_ context.Context, id string) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[id]
	if !ok {
		return nil, domain.ErrTaskNotFound
	}
	out := *t
	return &out, nil
}

func (f *fakeTaskRepo) FindTasksByList(_ context.Context, listID string) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.ListID == listID {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeTaskRepo) FindGeneratedInstances(_ context.Context, sourceTaskID string) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Task
	for _, t := range f.tasks {
		if t.GeneratedFrom != nil && *t.GeneratedFrom == sourceTaskID {
			cp := *t
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeTaskRepo) UpdateTask(_ context.Context, params domain.UpdateTaskParams) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tasks[params.TaskID]
	if !ok || t.ListID != params.ListID {
		return nil, domain.ErrTaskNotFound
	}
	if params.Etag != nil && *params.Etag != t.Etag() {
		return nil, domain.ErrVersionConflict
	}
	for _, field := range params.UpdateMask {
		switch field {
		case "title":
			t.Title = *params.Title
		case "description":
			t.Description = params.Description
		case "status":
			t.Status = *params.Status
			t.CompletedAt = params.CompletedAt
			t.CompletedBy = params.CompletedBy
		case "priority":
			t.Priority = *params.Priority
		case "due_date":
			t.DueDate = params.DueDate
		case "assigned_to":
			t.AssignedTo = params.AssignedTo
		case "recurrence_pattern":
			t.RecurrencePattern = params.RecurrencePattern
			t.IsRecurring = params.RecurrencePattern != nil
		}
	}
	t.Version++
	t.UpdatedAt = time.Now().UTC()
	out := *t
	return &out, nil
}

func (f *fakeTaskRepo) DeleteTask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return domain.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskRepo) DeleteTasksByList(_ context.Context, listID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, t := range f.tasks {
		if t.ListID == listID {
			delete(f.tasks, id)
		}
	}
	return nil
}

func (f *fakeTaskRepo) CreateSubtask(_ context.Context, s *domain.Subtask) (*domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *s
	if stored.ID == "" {
		stored.ID = f.nextID("subtask")
	}
	f.subtasks[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeTaskRepo) FindSubtaskByID(_ context.Context, id string) (*domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subtasks[id]
	if !ok {
		return nil, domain.ErrSubtaskNotFound
	}
	out := *s
	return &out, nil
}

func (f *fakeTaskRepo) FindSubtasksByTask(_ context.Context, taskID string) ([]*domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Subtask
	for _, s := range f.subtasks {
		if s.TaskID == taskID {
			cp := *s
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (f *fakeTaskRepo) UpdateSubtask(_ context.Context, params domain.UpdateSubtaskParams) (*domain.Subtask, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subtasks[params.SubtaskID]
	if !ok {
		return nil, domain.ErrSubtaskNotFound
	}
	for _, field := range params.UpdateMask {
		switch field {
		case "title":
			s.Title = *params.Title
		case "status":
			s.Status = *params.Status
			s.CompletedAt = params.CompletedAt
			s.CompletedBy = params.CompletedBy
		case "order":
			s.Order = *params.Order
		}
	}
	out := *s
	return &out, nil
}

func (f *fakeTaskRepo) DeleteSubtask(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.subtasks[id]; !ok {
		return domain.ErrSubtaskNotFound
	}
	delete(f.subtasks, id)
	return nil
}

func (f *fakeTaskRepo) DeleteSubtasksByTask(_ context.Context, taskID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.subtasks {
		if s.TaskID == taskID {
			delete(f.subtasks, id)
		}
	}
	return nil
}

func (f *fakeTaskRepo) DeleteSubtasksByList(_ context.Context, listID string) error {
	return nil
}

func (f *fakeTaskRepo) DeleteInvitationsByList(_ context.Context, listID string) error {
	return nil
}

func (f *fakeTaskRepo) DeleteNotificationsByList(_ context.Context, listID string) error {
	return nil
}

func (f *fakeTaskRepo) Atomic(ctx context.Context, fn func(task.Repository) error) error {
	return fn(f)
}

// fakeUserRepo is an in-memory auth.Repository.
type fakeUserRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (f *fakeUserRepo) CreateUser(_ context.Context, user *domain.User) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.byEmail[user.Email]; exists {
		return nil, domain.ErrEmailTaken
	}
	stored := *user
	f.byID[stored.ID] = &stored
	f.byEmail[stored.Email] = &stored
	out := stored
	return &out, nil
}

func (f *fakeUserRepo) FindUserByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (f *fakeUserRepo) FindUserByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	out := *user
	return &out, nil
}

func (f *fakeUserRepo) UpdateLastActive(_ context.Context, userID string, timestamp time.Time) error {
	return nil
}

func (f *fakeUserRepo) UpdateAvatarURL(_ context.Context, userID string, avatarURL *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.AvatarURL = avatarURL
	return nil
}

// fakeSharingRepo implements the sharing repository over the same in-memory
// state. Only the pieces the routed endpoints touch are backed; the rest
// panic so an unexpected call fails loudly.
type fakeSharingRepo struct {
	users         *fakeUserRepo
	tasks         *fakeTaskRepo
	mu            sync.Mutex
	notifications map[string]*domain.Notification
}

func newFakeSharingRepo(users *fakeUserRepo, tasks *fakeTaskRepo) *fakeSharingRepo {
	return &fakeSharingRepo{
		users:         users,
		tasks:         tasks,
		notifications: make(map[string]*domain.Notification),
	}
}

func (f *fakeSharingRepo) FindListByID(ctx context.Context, id string) (*domain.TaskList, error) {
	return f.tasks.FindListByID(ctx, id)
}

func (f *fakeSharingRepo) SetListSharing(_ context.Context, listID string, sharedWith map[string]domain.SharedUser, isShared bool) error {
	f.tasks.mu.Lock()
	defer f.tasks.mu.Unlock()
	list, ok := f.tasks.lists[listID]
	if !ok {
		return domain.ErrListNotFound
	}
	list.SharedWith = sharedWith
	list.IsShared = isShared
	list.Version++
	return nil
}

func (f *fakeSharingRepo) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	return f.users.FindUserByID(ctx, id)
}

func (f *fakeSharingRepo) FindUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return f.users.FindUserByEmail(ctx, email)
}

func (f *fakeSharingRepo) CreateInvitation(context.Context, *domain.Invitation) (*domain.Invitation, error) {
	panic("not implemented")
}

func (f *fakeSharingRepo) FindInvitationByID(context.Context, string) (*domain.Invitation, error) {
	panic("not implemented")
}

func (f *fakeSharingRepo) FindInvitationsByList(context.Context, string) ([]*domain.Invitation, error) {
	return nil, nil
}

func (f *fakeSharingRepo) SetInvitationStatus(context.Context, string, domain.InvitationStatus) error {
	panic("not implemented")
}

func (f *fakeSharingRepo) ResetInvitation(context.Context, string, time.Time, time.Time) error {
	panic("not implemented")
}

func (f *fakeSharingRepo) SetInvitationEmailResult(context.Context, string, bool, *string) error {
	panic("not implemented")
}

func (f *fakeSharingRepo) DeleteInvitation(context.Context, string) error {
	panic("not implemented")
}

func (f *fakeSharingRepo) CreateNotification(_ context.Context, n *domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *n
	f.notifications[stored.ID] = &stored
	out := stored
	return &out, nil
}

func (f *fakeSharingRepo) FindNotificationsByUser(_ context.Context, userID string, unreadOnly bool) ([]*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Notification
	for _, n := range f.notifications {
		if n.UserID != userID {
			continue
		}
		if unreadOnly && n.Read {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeSharingRepo) MarkNotificationRead(_ context.Context, id, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	n, ok := f.notifications[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	return nil
}

func (f *fakeSharingRepo) Atomic(ctx context.Context, fn func(sharing.Repository) error) error {
	return fn(f)
}

type noopMailer struct{}

func (noopMailer) SendInvitation(context.Context, sharing.InvitationEmail) error { return nil }

// apiFixture boots the full route tree over in-memory storage with one
// registered account.
type apiFixture struct {
	routes http.Handler
	token  string
	user   UserDTO
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	ctx := context.Background()
	taskRepo := newFakeTaskRepo()
	userRepo := newFakeUserRepo()
	sharingRepo := newFakeSharingRepo(userRepo, taskRepo)

	authenticator := auth.NewAuthenticator(ctx, userRepo, auth.Config{
		TokenSecret: "test-secret",
		TokenTTL:    time.Hour,
	})
	t.Cleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = authenticator.Shutdown(shutdownCtx)
	})

	taskService := task.NewService(taskRepo)
	sharingService := sharing.NewService(sharingRepo, noopMailer{}, sharing.Config{
		InvitationBaseURL: "https://listor.test",
	})

	h := New(taskService, sharingService, authenticator, nil)
	routes := h.Routes(middleware.NewAuth(authenticator).Validate)

	fix := &apiFixture{routes: routes}

	rec := fix.do(t, http.MethodPost, "/auth/register", map[string]any{
		"email":       "olga@example.com",
		"password":    "correct-horse",
		"displayName": "Olga Owner",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var session struct {
		User  UserDTO `json:"user"`
		Token string  `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	fix.token = session.Token
	fix.user = session.User

	return fix
}

func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	rec := httptest.NewRecorder()
	f.routes.ServeHTTP(rec, req)
	return rec
}

func (f *apiFixture) createList(t *testing.T, title string) ListDTO {
	t.Helper()
	rec := f.do(t, http.MethodPost, "/lists", map[string]any{"title": title})
	require.Equal(t, http.StatusCreated, rec.Code)
	var list ListDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	return list
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error.Code
}

func TestRegisterAndLogin(t *testing.T) {
	fix := newAPIFixture(t)

	assert.NotEmpty(t, fix.token)
	assert.Equal(t, "olga@example.com", fix.user.Email)
	assert.Equal(t, "Olga Owner", fix.user.DisplayName)

	anon := &apiFixture{routes: fix.routes}
	rec := anon.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "olga@example.com",
		"password": "correct-horse",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = anon.do(t, http.MethodPost, "/auth/login", map[string]any{
		"email":    "olga@example.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	fix := newAPIFixture(t)

	anon := &apiFixture{routes: fix.routes}
	rec := anon.do(t, http.MethodGet, "/lists", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorCode(t, rec))
}

func TestListLifecycle(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Groceries")

	assert.Equal(t, "Groceries", list.Title)
	assert.Equal(t, fix.user.ID, list.OwnerID)
	assert.Equal(t, "1", list.Etag)

	rec := fix.do(t, http.MethodGet, "/lists/"+list.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fix.do(t, http.MethodGet, "/lists", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing listListsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Len(t, listing.Lists, 1)

	rec = fix.do(t, http.MethodDelete, "/lists/"+list.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = fix.do(t, http.MethodGet, "/lists/"+list.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", errorCode(t, rec))
}

func TestCreateList_InvalidJSON(t *testing.T) {
	fix := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/lists", strings.NewReader("{not json"))
	req.Header.Set("Authorization", "Bearer "+fix.token)
	rec := httptest.NewRecorder()
	fix.routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_ARGUMENT", errorCode(t, rec))
}

func TestUpdateList_EtagFlow(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Groceries")

	req := httptest.NewRequest(http.MethodPatch, "/lists/"+list.ID, strings.NewReader(
		`{"updateMask":["title"],"title":"Weekend groceries"}`))
	req.Header.Set("Authorization", "Bearer "+fix.token)
	req.Header.Set("If-Match", list.Etag)
	rec := httptest.NewRecorder()
	fix.routes.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var updated ListDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, "Weekend groceries", updated.Title)
	assert.Equal(t, "2", updated.Etag)

	// Replaying with the stale etag conflicts.
	req = httptest.NewRequest(http.MethodPatch, "/lists/"+list.ID, strings.NewReader(
		`{"updateMask":["title"],"title":"Third title"}`))
	req.Header.Set("Authorization", "Bearer "+fix.token)
	req.Header.Set("If-Match", list.Etag)
	rec = httptest.NewRecorder()
	fix.routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", errorCode(t, rec))
}

func TestTaskLifecycle(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Groceries")

	rec := fix.do(t, http.MethodPost, "/lists/"+list.ID+"/tasks", map[string]any{
		"title":    "Buy milk",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "Buy milk", created.Title)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "pending", created.Status)
	assert.Equal(t, fix.user.ID, created.CreatedBy)

	rec = fix.do(t, http.MethodPost, "/lists/"+list.ID+"/tasks/"+created.ID+"/subtasks", map[string]any{
		"title": "Check fridge first",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = fix.do(t, http.MethodGet, "/lists/"+list.ID+"/tasks/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail TaskDetailDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Len(t, detail.Subtasks, 1)
	assert.Equal(t, 0, detail.Progress)

	rec = fix.do(t, http.MethodDelete, "/lists/"+list.ID+"/tasks/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestCompleteTask_ViaUpdateMask(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Groceries")

	rec := fix.do(t, http.MethodPost, "/lists/"+list.ID+"/tasks", map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = fix.do(t, http.MethodPatch, "/lists/"+list.ID+"/tasks/"+created.ID, map[string]any{
		"updateMask": []string{"status"},
		"status":     "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var completed TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
	assert.Equal(t, "completed", completed.Status)
	require.NotNil(t, completed.CompletedAt)
	require.NotNil(t, completed.CompletedBy)
	assert.Equal(t, fix.user.ID, *completed.CompletedBy)
}

func TestListTasks_FilterByStatus(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Groceries")

	for _, title := range []string{"Buy milk", "Buy eggs"} {
		rec := fix.do(t, http.MethodPost, "/lists/"+list.ID+"/tasks", map[string]any{"title": title})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := fix.do(t, http.MethodGet, "/lists/"+list.ID+"/tasks?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var completed listTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &completed))
	assert.Empty(t, completed.Tasks)

	rec = fix.do(t, http.MethodGet, "/lists/"+list.ID+"/tasks?status=pending", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var pending listTasksResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &pending))
	assert.Len(t, pending.Tasks, 2)
}

func TestListTasks_BadDueDateRange(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Groceries")

	rec := fix.do(t, http.MethodGet, "/lists/"+list.ID+"/tasks?dueStart=yesterday", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateTask_RecurrenceValidation(t *testing.T) {
	fix := newAPIFixture(t)
	list := fix.createList(t, "Chores")

	rec := fix.do(t, http.MethodPost, "/lists/"+list.ID+"/tasks", map[string]any{
		"title":       "Water plants",
		"isRecurring": true,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = fix.do(t, http.MethodPost, "/lists/"+list.ID+"/tasks", map[string]any{
		"title":       "Water plants",
		"isRecurring": true,
		"recurrencePattern": map[string]any{
			"type":     "daily",
			"interval": 1,
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.True(t, created.IsRecurring)
	assert.NotEmpty(t, created.RecurrenceSummary)
}

func TestGetMe(t *testing.T) {
	fix := newAPIFixture(t)

	rec := fix.do(t, http.MethodGet, "/me", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var me UserDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &me))
	assert.Equal(t, fix.user.ID, me.ID)
}

func TestUploadAvatar_DisabledWithoutStore(t *testing.T) {
	fix := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodPut, "/me/avatar", strings.NewReader("pngdata"))
	req.Header.Set("Authorization", "Bearer "+fix.token)
	req.Header.Set("Content-Type", "image/png")
	rec := httptest.NewRecorder()
	fix.routes.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotImplemented, rec.Code)
}

func TestLegacyTodos(t *testing.T) {
	fix := newAPIFixture(t)

	// Creating without a list lands in an auto-created personal list.
	rec := fix.do(t, http.MethodPost, "/todos", map[string]any{"title": "Buy milk"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created TaskDTO
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ListID)

	rec = fix.do(t, http.MethodGet, "/lists", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing listListsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Lists, 1)
	assert.Equal(t, "My Tasks", listing.Lists[0].Title)

	// A second create reuses the same personal list.
	rec = fix.do(t, http.MethodPost, "/todos", map[string]any{"title": "Buy eggs"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = fix.do(t, http.MethodGet, "/todos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var todos listTodosResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &todos))
	assert.Len(t, todos.Todos, 2)

	rec = fix.do(t, http.MethodPatch, "/todos/"+created.ID, map[string]any{
		"updateMask": []string{"status"},
		"status":     "completed",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = fix.do(t, http.MethodDelete, "/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = fix.do(t, http.MethodDelete, "/todos/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNotifications(t *testing.T) {
	fix := newAPIFixture(t)

	rec := fix.do(t, http.MethodGet, "/notifications", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing listNotificationsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Empty(t, listing.Notifications)

	rec = fix.do(t, http.MethodPost, "/notifications/missing/read", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
