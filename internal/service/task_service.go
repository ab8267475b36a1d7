// Package service holds the in-memory views over the stored collections.
// Every mutation is written through to disk before the call returns; when
// the write fails, the in-memory change is undone so cache and file never
// diverge.
package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"taskman/internal/apperr"
	"taskman/internal/model"
	"taskman/internal/storage"
)

// TaskService owns the day-partitioned task collection of the currently
// loaded workspace, with O(1) lookup by id and by normalized title. It is
// unloaded until LoadWorkspace binds it to a workspace.
type TaskService struct {
	store *storage.TaskStore
	log   *zap.Logger

	workspaceID string
	partition   storage.Partition
	byID        map[string]*model.Task
	byName      map[string][]string // normalized title -> task ids, append order
}

// NewTaskService returns an unloaded service; all mutating operations fail
// until a workspace is loaded.
func NewTaskService(store *storage.TaskStore, log *zap.Logger) *TaskService {
	return &TaskService{
		store:     store,
		log:       log,
		partition: storage.NewPartition(),
		byID:      map[string]*model.Task{},
		byName:    map[string][]string{},
	}
}

func nameKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// WorkspaceID returns the id of the loaded workspace, or "" when unloaded.
func (s *TaskService) WorkspaceID() string {
	return s.workspaceID
}

// LoadWorkspace binds the service to a workspace and rebuilds both indexes
// from its stored partition. Loading a different workspace discards the
// previous in-memory state without touching the previous workspace's file.
func (s *TaskService) LoadWorkspace(workspaceID string) error {
	p, err := s.store.Load(workspaceID)
	if err != nil {
		return err
	}
	s.workspaceID = workspaceID
	s.partition = p
	s.rebuildIndexes()
	s.log.Info("workspace loaded",
		zap.String("workspace", workspaceID), zap.Int("tasks", len(s.byID)))
	return nil
}

func (s *TaskService) rebuildIndexes() {
	s.byID = make(map[string]*model.Task, s.partition.Count())
	s.byName = map[string][]string{}
	for _, day := range model.Days() {
		for _, t := range s.partition[day] {
			s.byID[t.ID] = t
			key := nameKey(t.Title)
			s.byName[key] = append(s.byName[key], t.ID)
		}
	}
}

func (s *TaskService) persist() error {
	if s.workspaceID == "" {
		return apperr.ErrNoWorkspace
	}
	return s.store.Save(s.workspaceID, s.partition)
}

func (s *TaskService) dayHasTitle(day model.Day, key string) bool {
	for _, t := range s.partition[day] {
		if nameKey(t.Title) == key {
			return true
		}
	}
	return false
}

func (s *TaskService) dropNameIndex(key, taskID string) {
	ids := s.byName[key]
	for i, id := range ids {
		if id == taskID {
			s.byName[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.byName[key]) == 0 {
		delete(s.byName, key)
	}
}

// AddTask appends the task to the day's list. Titles are unique per day
// after trimming and lowercasing; a collision fails with a duplicate error
// and the same title on another day is allowed.
func (s *TaskService) AddTask(day model.Day, task *model.Task) error {
	if s.workspaceID == "" {
		return apperr.ErrNoWorkspace
	}
	if !day.Valid() {
		return fmt.Errorf("%w: unrecognized day %d", apperr.ErrValidation, int(day))
	}
	key := nameKey(task.Title)
	if s.dayHasTitle(day, key) {
		return fmt.Errorf("%w: %q already exists on %s", apperr.ErrDuplicateTask, task.Title, day)
	}

	s.partition[day] = append(s.partition[day], task)
	s.byID[task.ID] = task
	s.byName[key] = append(s.byName[key], task.ID)

	if err := s.persist(); err != nil {
		s.partition[day] = s.partition[day][:len(s.partition[day])-1]
		delete(s.byID, task.ID)
		s.dropNameIndex(key, task.ID)
		return err
	}
	s.log.Info("task added",
		zap.String("task", task.ID), zap.String("title", task.Title), zap.Stringer("day", day))
	return nil
}

// RemoveTask deletes the task with the given id from its day's list and
// from both indexes. The remaining list keeps its order.
func (s *TaskService) RemoveTask(taskID string) error {
	task, ok := s.byID[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrTaskNotFound, taskID)
	}

	day, pos := s.locate(taskID)
	tasks := s.partition[day]
	s.partition[day] = append(tasks[:pos:pos], tasks[pos+1:]...)
	delete(s.byID, taskID)
	key := nameKey(task.Title)
	s.dropNameIndex(key, taskID)

	if err := s.persist(); err != nil {
		restored := make([]*model.Task, 0, len(s.partition[day])+1)
		restored = append(restored, s.partition[day][:pos]...)
		restored = append(restored, task)
		restored = append(restored, s.partition[day][pos:]...)
		s.partition[day] = restored
		s.byID[taskID] = task
		s.byName[key] = append(s.byName[key], taskID)
		return err
	}
	s.log.Info("task removed", zap.String("task", taskID), zap.String("title", task.Title))
	return nil
}

// locate returns the day and position of a task known to be indexed.
func (s *TaskService) locate(taskID string) (model.Day, int) {
	for _, day := range model.Days() {
		for i, t := range s.partition[day] {
			if t.ID == taskID {
				return day, i
			}
		}
	}
	return model.Monday, -1
}

// MarkTaskDone marks the task completed.
func (s *TaskService) MarkTaskDone(taskID string) error {
	task, ok := s.byID[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrTaskNotFound, taskID)
	}
	snapshot := *task
	task.MarkDone()
	if err := s.persist(); err != nil {
		*task = snapshot
		return err
	}
	s.log.Info("task marked done", zap.String("task", taskID), zap.String("title", task.Title))
	return nil
}

// UpdateTaskStatus changes the task's completion state per the status
// lifecycle rules.
func (s *TaskService) UpdateTaskStatus(taskID string, status model.Status) error {
	task, ok := s.byID[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrTaskNotFound, taskID)
	}
	snapshot := *task
	if err := task.SetStatus(status); err != nil {
		return err
	}
	if err := s.persist(); err != nil {
		*task = snapshot
		return err
	}
	s.log.Info("task status updated",
		zap.String("task", taskID), zap.String("status", string(status)))
	return nil
}

// UpdateTask applies the non-nil fields. When the normalized title changes,
// the id moves from the old name bucket to the new one in one step so the
// index never holds a stale or duplicate reference.
func (s *TaskService) UpdateTask(taskID string, title, description *string) error {
	task, ok := s.byID[taskID]
	if !ok {
		return fmt.Errorf("%w: %s", apperr.ErrTaskNotFound, taskID)
	}
	snapshot := *task
	oldKey := nameKey(task.Title)

	if err := task.Update(title, description); err != nil {
		return err
	}

	newKey := nameKey(task.Title)
	moved := newKey != oldKey
	if moved {
		s.dropNameIndex(oldKey, taskID)
		s.byName[newKey] = append(s.byName[newKey], taskID)
	}

	if err := s.persist(); err != nil {
		*task = snapshot
		if moved {
			s.dropNameIndex(newKey, taskID)
			s.byName[oldKey] = append(s.byName[oldKey], taskID)
		}
		return err
	}
	s.log.Info("task updated", zap.String("task", taskID), zap.String("title", task.Title))
	return nil
}

// GetByID returns the task with the given id, or nil. O(1).
func (s *TaskService) GetByID(taskID string) *model.Task {
	return s.byID[taskID]
}

// FindByName returns the tasks whose normalized title matches name, in the
// order they were added. O(1) bucket lookup.
func (s *TaskService) FindByName(name string) []*model.Task {
	ids := s.byName[nameKey(name)]
	out := make([]*model.Task, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.byID[id])
	}
	return out
}

// TasksForDay returns the day's ordered task list.
func (s *TaskService) TasksForDay(day model.Day) []*model.Task {
	tasks := s.partition[day]
	out := make([]*model.Task, len(tasks))
	copy(out, tasks)
	return out
}

// AllTasks returns a copy of the complete day-to-list mapping. The copy is
// defensive so callers cannot bypass the indexes by mutating it.
func (s *TaskService) AllTasks() storage.Partition {
	out := storage.NewPartition()
	for day, tasks := range s.partition {
		cp := make([]*model.Task, len(tasks))
		copy(cp, tasks)
		out[day] = cp
	}
	return out
}

// TaskCount returns the total number of tasks in the loaded workspace.
func (s *TaskService) TaskCount() int {
	return len(s.byID)
}

// DoneCount returns the number of completed tasks.
func (s *TaskService) DoneCount() int {
	n := 0
	for _, t := range s.byID {
		if t.IsDone() {
			n++
		}
	}
	return n
}

// ClearWorkspace empties all seven day lists and both indexes, and
// persists the empty partition.
func (s *TaskService) ClearWorkspace() error {
	if s.workspaceID == "" {
		return apperr.ErrNoWorkspace
	}
	prevPartition, prevByID, prevByName := s.partition, s.byID, s.byName
	s.partition = storage.NewPartition()
	s.byID = map[string]*model.Task{}
	s.byName = map[string][]string{}

	if err := s.persist(); err != nil {
		s.partition, s.byID, s.byName = prevPartition, prevByID, prevByName
		return err
	}
	s.log.Info("workspace cleared", zap.String("workspace", s.workspaceID))
	return nil
}
