package project

import "errors"

var (
	// ErrProjectNotFound indicates the project doesn't exist.
	ErrProjectNotFound = errors.New("project not found")
	// ErrStageNotFound indicates the stage doesn't exist in the project.
	ErrStageNotFound = errors.New("stage not found")
	// ErrTaskNotFound indicates the task doesn't exist in the project.
	ErrTaskNotFound = errors.New("task not found")
	// ErrInvalidInput indicates invalid project input.
	ErrInvalidInput = errors.New("invalid project input")
	// ErrInvalidParent indicates a parent stage outside the project.
	ErrInvalidParent = errors.New("parent stage must belong to the same project")
)
