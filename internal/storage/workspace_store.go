package storage

import (
	"go.uber.org/zap"

	"taskman/internal/model"
)

// WorkspacesFile holds the full workspace collection as one JSON array.
const WorkspacesFile = "workspaces.json"

// WorkspaceStore maps the full workspace collection to a single JSON
// document. Every write at this layer is a whole-collection write; the
// load-modify-save helpers below are not safe across concurrent callers,
// which matches the single-process model of the application.
type WorkspaceStore struct {
	gw  *Gateway
	log *zap.Logger
}

// NewWorkspaceStore creates the data directory if needed.
func NewWorkspaceStore(dataDir string, log *zap.Logger) (*WorkspaceStore, error) {
	gw, err := NewGateway(dataDir, log)
	if err != nil {
		return nil, err
	}
	return &WorkspaceStore{gw: gw, log: log}, nil
}

// Save backs up the workspaces file, then overwrites it with the full list.
func (s *WorkspaceStore) Save(workspaces []*model.Workspace) error {
	path := s.gw.Path(WorkspacesFile)
	s.gw.CreateBackup(path)

	if workspaces == nil {
		workspaces = []*model.Workspace{}
	}
	if err := s.gw.WriteJSON(path, workspaces); err != nil {
		return err
	}
	s.log.Info("workspaces saved", zap.Int("count", len(workspaces)))
	return nil
}

// Load reads the full workspace list; an absent file yields an empty list.
func (s *WorkspaceStore) Load() ([]*model.Workspace, error) {
	var workspaces []*model.Workspace
	found, err := s.gw.ReadJSON(s.gw.Path(WorkspacesFile), &workspaces)
	if err != nil {
		return nil, err
	}
	if !found {
		s.log.Info("no workspaces file, starting empty")
		return []*model.Workspace{}, nil
	}
	return workspaces, nil
}

// Upsert loads the full list, replaces the entry with a matching id (or
// appends), and saves the full list.
func (s *WorkspaceStore) Upsert(ws *model.Workspace) error {
	workspaces, err := s.Load()
	if err != nil {
		return err
	}
	replaced := false
	for i, existing := range workspaces {
		if existing.ID == ws.ID {
			workspaces[i] = ws
			replaced = true
			break
		}
	}
	if !replaced {
		workspaces = append(workspaces, ws)
	}
	return s.Save(workspaces)
}

// Delete filters out the workspace with the given id and saves the list if
// it shrank. It returns false without writing when no entry matched.
func (s *WorkspaceStore) Delete(workspaceID string) (bool, error) {
	workspaces, err := s.Load()
	if err != nil {
		return false, err
	}
	kept := workspaces[:0]
	for _, ws := range workspaces {
		if ws.ID != workspaceID {
			kept = append(kept, ws)
		}
	}
	if len(kept) == len(workspaces) {
		return false, nil
	}
	if err := s.Save(kept); err != nil {
		return false, err
	}
	return true, nil
}

// GetByID returns the workspace with the given id, or nil when absent.
func (s *WorkspaceStore) GetByID(workspaceID string) (*model.Workspace, error) {
	workspaces, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, ws := range workspaces {
		if ws.ID == workspaceID {
			return ws, nil
		}
	}
	return nil, nil
}

// GetActive returns the first workspace whose active flag is set, or nil.
// The store does not enforce that at most one flag is set; the registry
// service owns that invariant.
func (s *WorkspaceStore) GetActive() (*model.Workspace, error) {
	workspaces, err := s.Load()
	if err != nil {
		return nil, err
	}
	for _, ws := range workspaces {
		if ws.IsActive {
			return ws, nil
		}
	}
	return nil, nil
}

// SetActive clears the active flag on every entry, sets it on the matching
// one, and saves the full list. It returns false without writing when no
// entry matched.
func (s *WorkspaceStore) SetActive(workspaceID string) (bool, error) {
	workspaces, err := s.Load()
	if err != nil {
		return false, err
	}
	found := false
	for _, ws := range workspaces {
		if ws.ID == workspaceID {
			ws.Activate()
			found = true
		} else {
			ws.Deactivate()
		}
	}
	if !found {
		return false, nil
	}
	if err := s.Save(workspaces); err != nil {
		return false, err
	}
	return true, nil
}
