package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"taskman/internal/apperr"
)

// Status is the completion state of a task. The two literals are the
// canonical wire values.
type Status string

const (
	StatusDone    Status = "выполнено"
	StatusNotDone Status = "не выполнено"
)

// Valid reports whether s is one of the two defined statuses.
func (s Status) Valid() bool {
	return s == StatusDone || s == StatusNotDone
}

// ParseStatus resolves a status by its wire value, ignoring case and
// surrounding whitespace.
func ParseStatus(s string) (Status, error) {
	switch Status(strings.ToLower(strings.TrimSpace(s))) {
	case StatusDone:
		return StatusDone, nil
	case StatusNotDone:
		return StatusNotDone, nil
	}
	return "", fmt.Errorf("%w: unrecognized status %q", apperr.ErrValidation, s)
}

// Task is a single to-do item. It lives inside exactly one day slot of
// exactly one workspace. The id and CreatedAt are immutable; every other
// field changes only through the methods below so UpdatedAt stays honest.
type Task struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      Status     `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
	CompletedAt *time.Time `json:"completed_at"`
}

// NewTask builds a task with a fresh id and NOT_DONE status. The title is
// trimmed and must be non-empty; the description is trimmed and optional.
func NewTask(title, description string) (*Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: task title must not be empty", apperr.ErrValidation)
	}
	return &Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(description),
		Status:      StatusNotDone,
		CreatedAt:   time.Now(),
	}, nil
}

func (t *Task) touch() {
	now := time.Now()
	t.UpdatedAt = &now
}

// IsDone reports whether the task is completed.
func (t *Task) IsDone() bool {
	return t.Status == StatusDone
}

// MarkDone transitions the task to DONE.
func (t *Task) MarkDone() {
	// SetStatus cannot fail for a valid literal.
	_ = t.SetStatus(StatusDone)
}

// SetStatus changes the completion state. CompletedAt is set once per done
// episode and cleared again when the task leaves DONE.
func (t *Task) SetStatus(status Status) error {
	if !status.Valid() {
		return fmt.Errorf("%w: invalid task status %q", apperr.ErrValidation, status)
	}
	t.Status = status
	if status == StatusDone {
		if t.CompletedAt == nil {
			now := time.Now()
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
	t.touch()
	return nil
}

// Update applies the non-nil fields. A new title is trimmed and must stay
// non-empty; nothing is changed when validation fails.
func (t *Task) Update(title, description *string) error {
	if title != nil {
		trimmed := strings.TrimSpace(*title)
		if trimmed == "" {
			return fmt.Errorf("%w: task title must not be empty", apperr.ErrValidation)
		}
		t.Title = trimmed
	}
	if description != nil {
		t.Description = strings.TrimSpace(*description)
	}
	t.touch()
	return nil
}

// Clone returns an independent copy of the task.
func (t *Task) Clone() *Task {
	c := *t
	if t.UpdatedAt != nil {
		v := *t.UpdatedAt
		c.UpdatedAt = &v
	}
	if t.CompletedAt != nil {
		v := *t.CompletedAt
		c.CompletedAt = &v
	}
	return &c
}
