// Package apperr defines the error categories shared by the services and
// the storage layer. Callers classify failures with errors.Is.
package apperr

import "errors"

var (
	// ErrTaskNotFound is returned when a task id has no matching record.
	ErrTaskNotFound = errors.New("task not found")

	// ErrDuplicateTask is returned when a task title collides with an
	// existing task on the same day.
	ErrDuplicateTask = errors.New("duplicate task")

	// ErrWorkspaceNotFound is returned when a workspace id has no
	// matching record.
	ErrWorkspaceNotFound = errors.New("workspace not found")

	// ErrLastWorkspace is returned when deleting the sole remaining
	// workspace is attempted.
	ErrLastWorkspace = errors.New("cannot delete the last workspace")

	// ErrNoWorkspace is returned by task operations before a workspace
	// has been loaded.
	ErrNoWorkspace = errors.New("no workspace loaded")

	// ErrValidation covers empty required fields, unrecognized day values
	// and invalid status values.
	ErrValidation = errors.New("validation failed")

	// ErrStorage covers read/write/delete failures of the underlying
	// filesystem. A missing file is not a storage error.
	ErrStorage = errors.New("storage failure")
)
