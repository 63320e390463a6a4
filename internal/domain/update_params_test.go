package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestUpdateListParams_Validate_EmptyMask(t *testing.T) {
	err := UpdateListParams{ListID: "l1"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyUpdateMask))
}

func TestUpdateListParams_Validate_UnknownField(t *testing.T) {
	err := UpdateListParams{
		ListID:     "l1",
		UpdateMask: []string{"owner_id"},
	}.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))
	assert.Contains(t, err.Error(), "owner_id")
}

func TestUpdateListParams_Validate_TitleRequiredWhenMasked(t *testing.T) {
	err := UpdateListParams{
		ListID:     "l1",
		UpdateMask: []string{"title"},
	}.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTitleRequired))
}

func TestUpdateListParams_Validate_DescriptionMayBeNil(t *testing.T) {
	// Masking description with a nil value clears it.
	err := UpdateListParams{
		ListID:     "l1",
		UpdateMask: []string{"description"},
	}.Validate()

	require.NoError(t, err)
}

func TestUpdateListParams_Validate_Valid(t *testing.T) {
	err := UpdateListParams{
		ListID:     "l1",
		UpdateMask: []string{"title", "description"},
		Title:      strPtr("Renamed"),
	}.Validate()

	require.NoError(t, err)
}

func TestUpdateTaskParams_Validate_EmptyMask(t *testing.T) {
	err := UpdateTaskParams{TaskID: "t1", ListID: "l1"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyUpdateMask))
}

func TestUpdateTaskParams_Validate_UnknownField(t *testing.T) {
	err := UpdateTaskParams{
		TaskID:     "t1",
		ListID:     "l1",
		UpdateMask: []string{"created_by"},
	}.Validate()

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))
}

func TestUpdateTaskParams_Validate_RequiredFields(t *testing.T) {
	err := UpdateTaskParams{
		TaskID:     "t1",
		ListID:     "l1",
		UpdateMask: []string{"title"},
	}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTitleRequired))

	err = UpdateTaskParams{
		TaskID:     "t1",
		ListID:     "l1",
		UpdateMask: []string{"status"},
	}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStatusRequired))

	err = UpdateTaskParams{
		TaskID:     "t1",
		ListID:     "l1",
		UpdateMask: []string{"priority"},
	}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPriorityRequired))
}

func TestUpdateTaskParams_Validate_NullableFieldsMayBeNil(t *testing.T) {
	// due_date, assigned_to and recurrence_pattern are clearable.
	err := UpdateTaskParams{
		TaskID:     "t1",
		ListID:     "l1",
		UpdateMask: []string{"due_date", "assigned_to", "recurrence_pattern"},
	}.Validate()

	require.NoError(t, err)
}

func TestUpdateTaskParams_Validate_AllFields(t *testing.T) {
	status := TaskStatusCompleted
	priority := TaskPriorityHigh

	err := UpdateTaskParams{
		TaskID:     "t1",
		ListID:     "l1",
		UpdateMask: []string{"title", "description", "status", "priority"},
		Title:      strPtr("New title"),
		Status:     &status,
		Priority:   &priority,
	}.Validate()

	require.NoError(t, err)
}

func TestUpdateSubtaskParams_Validate(t *testing.T) {
	err := UpdateSubtaskParams{SubtaskID: "s1"}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrEmptyUpdateMask))

	err = UpdateSubtaskParams{
		SubtaskID:  "s1",
		UpdateMask: []string{"priority"},
	}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownField))

	err = UpdateSubtaskParams{
		SubtaskID:  "s1",
		UpdateMask: []string{"title"},
	}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTitleRequired))

	err = UpdateSubtaskParams{
		SubtaskID:  "s1",
		UpdateMask: []string{"order"},
	}.Validate()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOrderRequired))

	order := 2
	err = UpdateSubtaskParams{
		SubtaskID:  "s1",
		UpdateMask: []string{"title", "order"},
		Title:      strPtr("Step two"),
		Order:      &order,
	}.Validate()
	require.NoError(t, err)
}

func TestTaskEtag_TracksVersion(t *testing.T) {
	task := &Task{ID: "t1", Version: 1}
	assert.Equal(t, "1", task.Etag())

	task.Version = 42
	assert.Equal(t, "42", task.Etag())
}

func TestListEtag_TracksVersion(t *testing.T) {
	list := &TaskList{ID: "l1", Version: 7}
	assert.Equal(t, "7", list.Etag())
}
