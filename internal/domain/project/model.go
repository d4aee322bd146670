package project

import "time"

// Status is the lifecycle state of a project.
type Status string

const (
	StatusPlanning  Status = "planning"
	StatusActive    Status = "active"
	StatusOnHold    Status = "on-hold"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is a known project status.
func (s Status) Valid() bool {
	switch s {
	case StatusPlanning, StatusActive, StatusOnHold, StatusCompleted:
		return true
	}
	return false
}

// DefaultColor is used when a project is created without a color.
const DefaultColor = "#3b82f6"

// Project is owned by exactly one user. Progress is derived, never stored.
type Project struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Color       string    `json:"color" db:"color"`
	Status      Status    `json:"status" db:"status"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectSummary is a lightweight representation for listing
type ProjectSummary struct {
	ID          string    `json:"id" db:"id"`
	OwnerID     string    `json:"owner_id" db:"owner_id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description,omitempty" db:"description"`
	Color       string    `json:"color" db:"color"`
	Status      Status    `json:"status" db:"status"`
	Permission  string    `json:"permission" db:"permission"`
	StageCount  int       `json:"stage_count" db:"stage_count"`
	TaskCount   int       `json:"task_count" db:"task_count"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Stage groups tasks. A nil ParentStageID marks a root stage.
type Stage struct {
	ID            string    `json:"id" db:"id"`
	ProjectID     string    `json:"project_id" db:"project_id"`
	ParentStageID *string   `json:"parent_stage_id,omitempty" db:"parent_stage_id"`
	Name          string    `json:"name" db:"name"`
	Weight        float64   `json:"weight" db:"weight"`
	SortOrder     int       `json:"sort_order" db:"sort_order"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// IsRoot reports whether the stage has no parent.
func (s Stage) IsRoot() bool {
	return s.ParentStageID == nil
}

// TaskStatus is the workflow state of a task.
type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// Valid reports whether s is a known task status.
func (s TaskStatus) Valid() bool {
	switch s {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return true
	}
	return false
}

const (
	PriorityHigh   = 1
	PriorityMedium = 2
	PriorityLow    = 3
)

// Task belongs to exactly one stage.
type Task struct {
	ID          string     `json:"id" db:"id"`
	StageID     string     `json:"stage_id" db:"stage_id"`
	Title       string     `json:"title" db:"title"`
	Status      TaskStatus `json:"status" db:"status"`
	Priority    int        `json:"priority" db:"priority"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// SetStatus moves the task to status and keeps CompletedAt set exactly
// when the task is completed.
func (t *Task) SetStatus(status TaskStatus, now time.Time) {
	if status == TaskCompleted {
		if t.Status != TaskCompleted || t.CompletedAt == nil {
			t.CompletedAt = &now
		}
	} else {
		t.CompletedAt = nil
	}
	t.Status = status
}

// Snapshot is the stage/task state of a project at one point in time.
type Snapshot struct {
	Project *Project
	Stages  []Stage
	Tasks   []Task
}
