package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskman/internal/apperr"
)

// Workspace is a named, isolated collection of day-partitioned tasks.
// At most one workspace carries the active flag at a time; the registry
// service enforces that, not this type.
type Workspace struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

// NewWorkspace builds an inactive workspace with a fresh id. The name is
// trimmed and must be non-empty.
func NewWorkspace(name string) (*Workspace, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: workspace name must not be empty", apperr.ErrValidation)
	}
	return &Workspace{
		ID:        uuid.NewString(),
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

func (w *Workspace) touch() {
	now := time.Now()
	w.UpdatedAt = &now
}

// Rename changes the workspace name after trimming; the new name must be
// non-empty.
func (w *Workspace) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("%w: workspace name must not be empty", apperr.ErrValidation)
	}
	w.Name = name
	w.touch()
	return nil
}

// Activate sets the active flag.
func (w *Workspace) Activate() {
	w.IsActive = true
	w.touch()
}

// Deactivate clears the active flag.
func (w *Workspace) Deactivate() {
	w.IsActive = false
	w.touch()
}

// Clone returns an independent copy of the workspace.
func (w *Workspace) Clone() *Workspace {
	c := *w
	if w.UpdatedAt != nil {
		v := *w.UpdatedAt
		c.UpdatedAt = &v
	}
	return &c
}
