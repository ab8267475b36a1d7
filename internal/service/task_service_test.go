package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"taskman/internal/apperr"
	"taskman/internal/model"
	"taskman/internal/storage"
)

func newTestTaskService(t *testing.T) *TaskService {
	t.Helper()
	store, err := storage.NewTaskStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewTaskService(store, zap.NewNop())
	require.NoError(t, svc.LoadWorkspace("ws-1"))
	return svc
}

func addTask(t *testing.T, svc *TaskService, day model.Day, title string) *model.Task {
	t.Helper()
	task, err := model.NewTask(title, "")
	require.NoError(t, err)
	require.NoError(t, svc.AddTask(day, task))
	return task
}

func TestTaskService_Unloaded(t *testing.T) {
	store, err := storage.NewTaskStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewTaskService(store, zap.NewNop())

	task, err := model.NewTask("задача", "")
	require.NoError(t, err)

	assert.ErrorIs(t, svc.AddTask(model.Monday, task), apperr.ErrNoWorkspace)
	assert.ErrorIs(t, svc.ClearWorkspace(), apperr.ErrNoWorkspace)
}

func TestTaskService_AddAndGetByID(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "Купить молоко")

	got := svc.GetByID(task.ID)
	require.NotNil(t, got)
	assert.Equal(t, "Купить молоко", got.Title)
	assert.Equal(t, model.StatusNotDone, got.Status)
}

func TestTaskService_DuplicateSameDayRejected(t *testing.T) {
	svc := newTestTaskService(t)

	addTask(t, svc, model.Monday, "Купить молоко")

	dup, err := model.NewTask("  купить МОЛОКО ", "")
	require.NoError(t, err)
	err = svc.AddTask(model.Monday, dup)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrDuplicateTask)
	assert.Equal(t, 1, svc.TaskCount())
}

func TestTaskService_SameTitleDifferentDaysAllowed(t *testing.T) {
	svc := newTestTaskService(t)

	addTask(t, svc, model.Monday, "Купить молоко")
	addTask(t, svc, model.Tuesday, "Купить молоко")

	assert.Equal(t, 2, svc.TaskCount())
	assert.Len(t, svc.FindByName("купить молоко"), 2)
}

func TestTaskService_AddInvalidDay(t *testing.T) {
	svc := newTestTaskService(t)

	task, err := model.NewTask("задача", "")
	require.NoError(t, err)
	err = svc.AddTask(model.Day(42), task)
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTaskService_RemoveTask(t *testing.T) {
	svc := newTestTaskService(t)

	first := addTask(t, svc, model.Monday, "первая")
	second := addTask(t, svc, model.Monday, "вторая")
	third := addTask(t, svc, model.Monday, "третья")

	require.NoError(t, svc.RemoveTask(second.ID))

	assert.Nil(t, svc.GetByID(second.ID))
	assert.Empty(t, svc.FindByName("вторая"))

	// Remaining list keeps its order.
	tasks := svc.TasksForDay(model.Monday)
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
	assert.Equal(t, third.ID, tasks[1].ID)
}

func TestTaskService_RemoveTask_NotFound(t *testing.T) {
	svc := newTestTaskService(t)

	err := svc.RemoveTask("no-such-id")
	assert.ErrorIs(t, err, apperr.ErrTaskNotFound)
}

func TestTaskService_MarkTaskDone(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "Сдать отчёт")
	require.NoError(t, svc.MarkTaskDone(task.ID))

	got := svc.GetByID(task.ID)
	assert.True(t, got.IsDone())
	assert.NotNil(t, got.CompletedAt)
	assert.Equal(t, 1, svc.DoneCount())

	assert.ErrorIs(t, svc.MarkTaskDone("no-such-id"), apperr.ErrTaskNotFound)
}

func TestTaskService_UpdateTaskStatus(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "Сдать отчёт")
	require.NoError(t, svc.UpdateTaskStatus(task.ID, model.StatusDone))
	require.NotNil(t, svc.GetByID(task.ID).CompletedAt)

	require.NoError(t, svc.UpdateTaskStatus(task.ID, model.StatusNotDone))
	got := svc.GetByID(task.ID)
	assert.False(t, got.IsDone())
	assert.Nil(t, got.CompletedAt)

	err := svc.UpdateTaskStatus(task.ID, model.Status("готово"))
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestTaskService_UpdateTask_TitleMovesNameIndex(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "старое название")

	newTitle := "новое название"
	require.NoError(t, svc.UpdateTask(task.ID, &newTitle, nil))

	assert.Empty(t, svc.FindByName("старое название"))
	found := svc.FindByName("НОВОЕ НАЗВАНИЕ")
	require.Len(t, found, 1)
	assert.Equal(t, task.ID, found[0].ID)
}

func TestTaskService_UpdateTask_DescriptionOnly(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "название")

	desc := "описание"
	require.NoError(t, svc.UpdateTask(task.ID, nil, &desc))

	got := svc.GetByID(task.ID)
	assert.Equal(t, "описание", got.Description)
	// Title bucket untouched.
	require.Len(t, svc.FindByName("название"), 1)
}

func TestTaskService_UpdateTask_EmptyTitleRejected(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "название")

	empty := "  "
	err := svc.UpdateTask(task.ID, &empty, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, apperr.ErrValidation)
	require.Len(t, svc.FindByName("название"), 1)
}

func TestTaskService_FindByName_CaseAndWhitespace(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "Купить молоко")

	found := svc.FindByName("  КУПИТЬ МОЛОКО  ")
	require.Len(t, found, 1)
	assert.Equal(t, task.ID, found[0].ID)
}

func TestTaskService_AllTasks_DefensiveCopy(t *testing.T) {
	svc := newTestTaskService(t)

	addTask(t, svc, model.Monday, "задача")

	all := svc.AllTasks()
	all[model.Monday] = nil

	require.Len(t, svc.TasksForDay(model.Monday), 1)
}

func TestTaskService_LoadWorkspace_RebindsState(t *testing.T) {
	store, err := storage.NewTaskStore(t.TempDir(), zap.NewNop())
	require.NoError(t, err)
	svc := NewTaskService(store, zap.NewNop())

	require.NoError(t, svc.LoadWorkspace("ws-1"))
	addTask(t, svc, model.Monday, "в первом")

	require.NoError(t, svc.LoadWorkspace("ws-2"))
	assert.Equal(t, 0, svc.TaskCount())
	assert.Empty(t, svc.FindByName("в первом"))

	// The first workspace's file was not touched by the rebind.
	n, err := store.TaskCount("ws-1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestTaskService_PersistenceSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewTaskStore(dir, zap.NewNop())
	require.NoError(t, err)
	svc := NewTaskService(store, zap.NewNop())
	require.NoError(t, svc.LoadWorkspace("ws-1"))

	task := addTask(t, svc, model.Thursday, "переживёт перезапуск")
	require.NoError(t, svc.MarkTaskDone(task.ID))

	store2, err := storage.NewTaskStore(dir, zap.NewNop())
	require.NoError(t, err)
	svc2 := NewTaskService(store2, zap.NewNop())
	require.NoError(t, svc2.LoadWorkspace("ws-1"))

	got := svc2.GetByID(task.ID)
	require.NotNil(t, got)
	assert.Equal(t, "переживёт перезапуск", got.Title)
	assert.True(t, got.IsDone())
}

func TestTaskService_WorkScenario(t *testing.T) {
	svc := newTestTaskService(t)

	task := addTask(t, svc, model.Monday, "Buy milk")
	require.NoError(t, svc.MarkTaskDone(task.ID))

	all := svc.AllTasks()
	require.Len(t, all[model.Monday], 1)
	assert.Equal(t, model.StatusDone, all[model.Monday][0].Status)
	assert.NotNil(t, all[model.Monday][0].CompletedAt)

	require.NoError(t, svc.ClearWorkspace())
	all = svc.AllTasks()
	require.Len(t, all, 7)
	for _, day := range model.Days() {
		assert.Empty(t, all[day])
	}
	assert.Equal(t, 0, svc.TaskCount())
}
