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

func newTestWorkspaceService(t *testing.T) (*WorkspaceService, *storage.TaskStore) {
	t.Helper()
	dir := t.TempDir()
	taskStore, err := storage.NewTaskStore(dir, zap.NewNop())
	require.NoError(t, err)
	wsStore, err := storage.NewWorkspaceStore(dir, zap.NewNop())
	require.NoError(t, err)
	svc := NewWorkspaceService(wsStore, taskStore, zap.NewNop())
	require.NoError(t, svc.LoadAll())
	return svc, taskStore
}

func TestWorkspaceService_Create(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	ws, err := svc.Create("Работа")
	require.NoError(t, err)

	assert.Equal(t, "Работа", ws.Name)
	assert.False(t, ws.IsActive)
	assert.True(t, svc.Exists(ws.ID))
	assert.Equal(t, 1, svc.Count())
}

func TestWorkspaceService_Create_EmptyName(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	_, err := svc.Create("   ")
	assert.ErrorIs(t, err, apperr.ErrValidation)
	assert.Equal(t, 0, svc.Count())
}

func TestWorkspaceService_SetActive(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	work, err := svc.Create("Работа")
	require.NoError(t, err)
	home, err := svc.Create("Дом")
	require.NoError(t, err)

	require.NoError(t, svc.SetActive(work.ID))
	assert.Equal(t, work.ID, svc.GetActiveID())

	require.NoError(t, svc.SetActive(home.ID))
	assert.Equal(t, home.ID, svc.GetActiveID())
	assert.False(t, svc.GetByID(work.ID).IsActive)
	assert.True(t, svc.GetByID(home.ID).IsActive)

	err = svc.SetActive("no-such-id")
	assert.ErrorIs(t, err, apperr.ErrWorkspaceNotFound)
}

func TestWorkspaceService_Delete_CascadesToTaskFile(t *testing.T) {
	svc, taskStore := newTestWorkspaceService(t)

	work, err := svc.Create("Работа")
	require.NoError(t, err)
	_, err = svc.Create("Дом")
	require.NoError(t, err)

	// Give the workspace a task file.
	p := storage.NewPartition()
	task, err := model.NewTask("задача", "")
	require.NoError(t, err)
	p[model.Monday] = []*model.Task{task}
	require.NoError(t, taskStore.Save(work.ID, p))
	require.True(t, taskStore.WorkspaceExists(work.ID))

	require.NoError(t, svc.Delete(work.ID))

	assert.False(t, svc.Exists(work.ID))
	assert.False(t, taskStore.WorkspaceExists(work.ID))
	for _, ws := range svc.GetAll() {
		assert.NotEqual(t, work.ID, ws.ID)
	}
}

func TestWorkspaceService_Delete_LastWorkspaceRejected(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	only, err := svc.Create("Единственное")
	require.NoError(t, err)

	err = svc.Delete(only.ID)
	assert.ErrorIs(t, err, apperr.ErrLastWorkspace)
	assert.True(t, svc.Exists(only.ID))
}

func TestWorkspaceService_Delete_NotFound(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	err := svc.Delete("no-such-id")
	assert.ErrorIs(t, err, apperr.ErrWorkspaceNotFound)
}

func TestWorkspaceService_Delete_ActiveClearsTracking(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	work, err := svc.Create("Работа")
	require.NoError(t, err)
	_, err = svc.Create("Дом")
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(work.ID))

	require.NoError(t, svc.Delete(work.ID))

	// No auto-promotion: the caller heals via EnsureActiveWorkspace.
	assert.Empty(t, svc.GetActiveID())
	assert.Nil(t, svc.GetActive())
}

func TestWorkspaceService_Update(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	ws, err := svc.Create("Работа")
	require.NoError(t, err)

	name := "Работа v2"
	require.NoError(t, svc.Update(ws.ID, &name))
	assert.Equal(t, "Работа v2", svc.GetByID(ws.ID).Name)

	require.NoError(t, svc.Update(ws.ID, nil))
	assert.Equal(t, "Работа v2", svc.GetByID(ws.ID).Name)

	err = svc.Update("no-such-id", &name)
	assert.ErrorIs(t, err, apperr.ErrWorkspaceNotFound)
}

func TestWorkspaceService_GetByName(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	ws, err := svc.Create("Работа")
	require.NoError(t, err)

	found := svc.GetByName("  рАбОтА ")
	require.NotNil(t, found)
	assert.Equal(t, ws.ID, found.ID)

	assert.Nil(t, svc.GetByName("нет такого"))
}

func TestWorkspaceService_CreateDefault(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	ws, err := svc.CreateDefault()
	require.NoError(t, err)

	assert.Equal(t, DefaultWorkspaceName, ws.Name)
	assert.Equal(t, ws.ID, svc.GetActiveID())
}

func TestWorkspaceService_EnsureActiveWorkspace_CreatesDefault(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	ws, err := svc.EnsureActiveWorkspace()
	require.NoError(t, err)
	assert.Equal(t, DefaultWorkspaceName, ws.Name)
	assert.Equal(t, 1, svc.Count())
}

func TestWorkspaceService_EnsureActiveWorkspace_Idempotent(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	first, err := svc.EnsureActiveWorkspace()
	require.NoError(t, err)
	second, err := svc.EnsureActiveWorkspace()
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, svc.Count())
}

func TestWorkspaceService_EnsureActiveWorkspace_PromotesFirst(t *testing.T) {
	svc, _ := newTestWorkspaceService(t)

	work, err := svc.Create("Работа")
	require.NoError(t, err)
	_, err = svc.Create("Дом")
	require.NoError(t, err)

	active, err := svc.EnsureActiveWorkspace()
	require.NoError(t, err)
	assert.Equal(t, work.ID, active.ID)
	assert.True(t, svc.GetByID(work.ID).IsActive)
}

func TestWorkspaceService_LoadAll_RestoresState(t *testing.T) {
	dir := t.TempDir()
	taskStore, err := storage.NewTaskStore(dir, zap.NewNop())
	require.NoError(t, err)
	wsStore, err := storage.NewWorkspaceStore(dir, zap.NewNop())
	require.NoError(t, err)

	svc := NewWorkspaceService(wsStore, taskStore, zap.NewNop())
	require.NoError(t, svc.LoadAll())
	work, err := svc.Create("Работа")
	require.NoError(t, err)
	require.NoError(t, svc.SetActive(work.ID))

	svc2 := NewWorkspaceService(wsStore, taskStore, zap.NewNop())
	require.NoError(t, svc2.LoadAll())

	assert.Equal(t, 1, svc2.Count())
	assert.Equal(t, work.ID, svc2.GetActiveID())
}

func TestWorkspaceService_LoadAll_MultipleActiveFirstWins(t *testing.T) {
	dir := t.TempDir()
	taskStore, err := storage.NewTaskStore(dir, zap.NewNop())
	require.NoError(t, err)
	wsStore, err := storage.NewWorkspaceStore(dir, zap.NewNop())
	require.NoError(t, err)

	// An externally edited file can carry two active flags.
	first, err := model.NewWorkspace("Первое")
	require.NoError(t, err)
	first.Activate()
	second, err := model.NewWorkspace("Второе")
	require.NoError(t, err)
	second.Activate()
	require.NoError(t, wsStore.Save([]*model.Workspace{first, second}))

	svc := NewWorkspaceService(wsStore, taskStore, zap.NewNop())
	require.NoError(t, svc.LoadAll())

	assert.Equal(t, first.ID, svc.GetActiveID())
	assert.False(t, svc.GetByID(second.ID).IsActive)
}
