package storage

import (
	"fmt"
	"path/filepath"

	"go.uber.org/zap"

	"taskman/internal/model"
)

// Partition is one workspace's complete day-to-tasks mapping. A partition
// always carries all seven days; lists may be empty but days are never
// omitted.
type Partition map[model.Day][]*model.Task

// NewPartition returns a partition with every day present and empty.
func NewPartition() Partition {
	p := make(Partition, 7)
	for _, d := range model.Days() {
		p[d] = nil
	}
	return p
}

// Count returns the number of tasks across all seven days.
func (p Partition) Count() int {
	n := 0
	for _, tasks := range p {
		n += len(tasks)
	}
	return n
}

// TaskStore maps one workspace's partition to one JSON document under
// tasks/<workspaceID>.json, keyed by day name.
type TaskStore struct {
	gw  *Gateway
	log *zap.Logger
}

// NewTaskStore creates the tasks subdirectory under dataDir if needed.
func NewTaskStore(dataDir string, log *zap.Logger) (*TaskStore, error) {
	gw, err := NewGateway(filepath.Join(dataDir, "tasks"), log)
	if err != nil {
		return nil, err
	}
	return &TaskStore{gw: gw, log: log}, nil
}

func (s *TaskStore) fileName(workspaceID string) string {
	return workspaceID + ".json"
}

// Save backs up the workspace file, then overwrites it with the partition.
// Each day's ordered task list is serialized under the day's wire name.
func (s *TaskStore) Save(workspaceID string, p Partition) error {
	path := s.gw.Path(s.fileName(workspaceID))
	s.gw.CreateBackup(path)

	doc := make(map[string][]*model.Task, len(p))
	for day, tasks := range p {
		if tasks == nil {
			tasks = []*model.Task{}
		}
		doc[day.String()] = tasks
	}
	if err := s.gw.WriteJSON(path, doc); err != nil {
		return err
	}
	s.log.Info("tasks saved",
		zap.String("workspace", workspaceID), zap.Int("count", p.Count()))
	return nil
}

// Load reads the workspace's partition. A missing file yields a fresh
// partition with every day empty; missing day keys are filled in. An
// unrecognized day key is a corruption signal and fails with a validation
// error rather than being dropped.
func (s *TaskStore) Load(workspaceID string) (Partition, error) {
	path := s.gw.Path(s.fileName(workspaceID))

	var doc map[string][]*model.Task
	found, err := s.gw.ReadJSON(path, &doc)
	if err != nil {
		return nil, err
	}

	p := NewPartition()
	if !found {
		s.log.Info("no task file, starting empty", zap.String("workspace", workspaceID))
		return p, nil
	}
	for key, tasks := range doc {
		day, err := model.ParseDay(key)
		if err != nil {
			return nil, fmt.Errorf("task file for workspace %s: %w", workspaceID, err)
		}
		p[day] = tasks
	}
	s.log.Debug("tasks loaded",
		zap.String("workspace", workspaceID), zap.Int("count", p.Count()))
	return p, nil
}

// LoadTasksForDay reads one day's ordered task list. The rest of the
// partition is read and discarded; the files are small enough for that.
func (s *TaskStore) LoadTasksForDay(workspaceID string, day model.Day) ([]*model.Task, error) {
	p, err := s.Load(workspaceID)
	if err != nil {
		return nil, err
	}
	return p[day], nil
}

// DeleteWorkspaceTasks removes the workspace's task file. It returns false
// when the file did not exist.
func (s *TaskStore) DeleteWorkspaceTasks(workspaceID string) (bool, error) {
	removed, err := s.gw.DeleteFile(s.gw.Path(s.fileName(workspaceID)))
	if err != nil {
		return false, err
	}
	if removed {
		s.log.Info("task file deleted", zap.String("workspace", workspaceID))
	}
	return removed, nil
}

// WorkspaceExists reports whether a task file exists for the workspace.
func (s *TaskStore) WorkspaceExists(workspaceID string) bool {
	return s.gw.FileExists(s.fileName(workspaceID))
}

// TaskCount returns the number of tasks across all seven days of the
// workspace's file.
func (s *TaskStore) TaskCount(workspaceID string) (int, error) {
	p, err := s.Load(workspaceID)
	if err != nil {
		return 0, err
	}
	return p.Count(), nil
}
