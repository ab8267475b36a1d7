package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskman/internal/apperr"
	"taskman/internal/model"
	"taskman/internal/storage"
)

// DefaultWorkspaceName is the label of the workspace created on first run.
const DefaultWorkspaceName = "Мои задачи"

// WorkspaceService owns the in-memory set of all workspaces and tracks
// which single one is active. Deleting a workspace also removes its task
// file; the two writes are independent, so a crash between them can leave
// an orphaned task file. That is a known limitation of the storage model,
// not something this layer papers over.
type WorkspaceService struct {
	store *storage.WorkspaceStore
	tasks *storage.TaskStore
	log   *zap.Logger

	workspaces map[string]*model.Workspace
	order      []string // enumeration order: load order, then creation order
	activeID   string
}

// NewWorkspaceService returns an empty registry; call LoadAll to populate
// it from disk.
func NewWorkspaceService(store *storage.WorkspaceStore, tasks *storage.TaskStore, log *zap.Logger) *WorkspaceService {
	return &WorkspaceService{
		store:      store,
		tasks:      tasks,
		log:        log,
		workspaces: map[string]*model.Workspace{},
	}
}

// LoadAll replaces the in-memory set with the stored collection. When the
// file carries more than one active flag the first one in file order wins;
// the extras are deactivated in memory and the condition is logged.
func (s *WorkspaceService) LoadAll() error {
	list, err := s.store.Load()
	if err != nil {
		return err
	}
	s.workspaces = make(map[string]*model.Workspace, len(list))
	s.order = make([]string, 0, len(list))
	s.activeID = ""
	for _, ws := range list {
		s.workspaces[ws.ID] = ws
		s.order = append(s.order, ws.ID)
		if ws.IsActive {
			if s.activeID == "" {
				s.activeID = ws.ID
			} else {
				s.log.Warn("multiple active workspaces in file, keeping the first",
					zap.String("kept", s.activeID), zap.String("deactivated", ws.ID))
				ws.Deactivate()
			}
		}
	}
	s.log.Info("workspaces loaded", zap.Int("count", len(list)))
	return nil
}

// Create builds a new inactive workspace, registers it and persists it.
func (s *WorkspaceService) Create(name string) (*model.Workspace, error) {
	ws, err := model.NewWorkspace(name)
	if err != nil {
		return nil, err
	}
	s.workspaces[ws.ID] = ws
	s.order = append(s.order, ws.ID)

	if err := s.store.Upsert(ws); err != nil {
		delete(s.workspaces, ws.ID)
		s.order = s.order[:len(s.order)-1]
		return nil, err
	}
	s.log.Info("workspace created", zap.String("workspace", ws.ID), zap.String("name", ws.Name))
	return ws, nil
}

// Delete removes the workspace and its task file. The sole remaining
// workspace cannot be deleted. When the deleted workspace was active the
// active tracking is simply cleared; promoting a replacement is the
// caller's job via EnsureActiveWorkspace.
func (s *WorkspaceService) Delete(workspaceID string) error {
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, workspaceID)
	}
	if len(s.workspaces) == 1 {
		return apperr.ErrLastWorkspace
	}

	pos := s.orderIndex(workspaceID)
	wasActive := s.activeID == workspaceID
	delete(s.workspaces, workspaceID)
	s.order = append(s.order[:pos:pos], s.order[pos+1:]...)
	if wasActive {
		s.activeID = ""
	}

	if _, err := s.store.Delete(workspaceID); err != nil {
		s.workspaces[workspaceID] = ws
		restored := make([]string, 0, len(s.order)+1)
		restored = append(restored, s.order[:pos]...)
		restored = append(restored, workspaceID)
		restored = append(restored, s.order[pos:]...)
		s.order = restored
		if wasActive {
			s.activeID = workspaceID
		}
		return err
	}

	// Second, independent write: a crash before this point orphans the
	// task file. Recovery is manual.
	if _, err := s.tasks.DeleteWorkspaceTasks(workspaceID); err != nil {
		return err
	}
	s.log.Info("workspace deleted", zap.String("workspace", workspaceID), zap.String("name", ws.Name))
	return nil
}

func (s *WorkspaceService) orderIndex(workspaceID string) int {
	for i, id := range s.order {
		if id == workspaceID {
			return i
		}
	}
	return -1
}

// SetActive makes the target workspace the single active one and persists
// the whole collection.
func (s *WorkspaceService) SetActive(workspaceID string) error {
	target, ok := s.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, workspaceID)
	}

	snapshot := make(map[string]model.Workspace, len(s.workspaces))
	for id, ws := range s.workspaces {
		snapshot[id] = *ws
	}
	prevActive := s.activeID

	for _, ws := range s.workspaces {
		ws.Deactivate()
	}
	target.Activate()
	s.activeID = workspaceID

	if err := s.store.Save(s.all()); err != nil {
		for id, ws := range s.workspaces {
			*ws = snapshot[id]
		}
		s.activeID = prevActive
		return err
	}
	s.log.Info("workspace activated", zap.String("workspace", workspaceID), zap.String("name", target.Name))
	return nil
}

// Update renames the workspace and persists it via upsert.
func (s *WorkspaceService) Update(workspaceID string, name *string) error {
	ws, ok := s.workspaces[workspaceID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrWorkspaceNotFound, workspaceID)
	}
	if name == nil {
		return nil
	}
	snapshot := *ws
	if err := ws.Rename(*name); err != nil {
		return err
	}
	if err := s.store.Upsert(ws); err != nil {
		*ws = snapshot
		return err
	}
	s.log.Info("workspace updated", zap.String("workspace", workspaceID), zap.String("name", ws.Name))
	return nil
}

// all returns the workspaces in enumeration order.
func (s *WorkspaceService) all() []*model.Workspace {
	out := make([]*model.Workspace, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.workspaces[id])
	}
	return out
}

// GetByID returns the workspace with the given id, or nil.
func (s *WorkspaceService) GetByID(workspaceID string) *model.Workspace {
	return s.workspaces[workspaceID]
}

// GetAll returns all workspaces in enumeration order.
func (s *WorkspaceService) GetAll() []*model.Workspace {
	return s.all()
}

// GetActive returns the active workspace, or nil when none is tracked.
func (s *WorkspaceService) GetActive() *model.Workspace {
	if s.activeID == "" {
		return nil
	}
	return s.workspaces[s.activeID]
}

// GetActiveID returns the id of the active workspace, or "".
func (s *WorkspaceService) GetActiveID() string {
	return s.activeID
}

// Exists reports whether a workspace with the given id is registered.
func (s *WorkspaceService) Exists(workspaceID string) bool {
	_, ok := s.workspaces[workspaceID]
	return ok
}

// Count returns the number of registered workspaces.
func (s *WorkspaceService) Count() int {
	return len(s.workspaces)
}

// GetByName returns the first workspace whose name matches after trimming
// and lowercasing, or nil.
func (s *WorkspaceService) GetByName(name string) *model.Workspace {
	key := strings.ToLower(strings.TrimSpace(name))
	for _, id := range s.order {
		ws := s.workspaces[id]
		if strings.ToLower(strings.TrimSpace(ws.Name)) == key {
			return ws
		}
	}
	return nil
}

// CreateDefault creates the default workspace and immediately activates it.
func (s *WorkspaceService) CreateDefault() (*model.Workspace, error) {
	ws, err := s.Create(DefaultWorkspaceName)
	if err != nil {
		return nil, err
	}
	if err := s.SetActive(ws.ID); err != nil {
		return nil, err
	}
	s.log.Info("default workspace created", zap.String("workspace", ws.ID))
	return ws, nil
}

// EnsureActiveWorkspace guarantees exactly one active workspace exists by
// the time it returns: the tracked one, else the first registered one
// (activated), else a freshly created default. Idempotent.
func (s *WorkspaceService) EnsureActiveWorkspace() (*model.Workspace, error) {
	if active := s.GetActive(); active != nil {
		return active, nil
	}
	if len(s.order) > 0 {
		first := s.workspaces[s.order[0]]
		if err := s.SetActive(first.ID); err != nil {
			return nil, err
		}
		return first, nil
	}
	return s.CreateDefault()
}
