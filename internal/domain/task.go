package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Task validation errors
var (
	// ErrEmptyTaskTitle is returned when a task title is empty.
	ErrEmptyTaskTitle = errors.New("task title cannot be empty")

	// ErrEmptySubtaskName is returned when a subtask name is empty.
	ErrEmptySubtaskName = errors.New("subtask name cannot be empty")
)

// TaskStatus is the workflow state of a task. Unrecognized values are
// tolerated on read and treated as TaskStatusTodo when counting.
type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in-progress"
	TaskStatusDone       TaskStatus = "done"
)

// NormalizeTaskStatus maps any unrecognized status to TaskStatusTodo.
// The legacy status field was permissive, so stored data may contain
// arbitrary values.
func NormalizeTaskStatus(s TaskStatus) TaskStatus {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusDone:
		return s
	default:
		return TaskStatusTodo
	}
}

// SubtaskStatus is the checklist state of a subtask.
type SubtaskStatus string

const (
	SubtaskStatusUndone SubtaskStatus = "undone"
	SubtaskStatusDone   SubtaskStatus = "done"
)

// Subtask is a checklist item owned by a Task.
type Subtask struct {
	ID     uuid.UUID     `json:"id"`
	Name   string        `json:"name"`
	Status SubtaskStatus `json:"status"`
}

// Assignment links a task to an assignee with provenance.
type Assignment struct {
	UserID     uuid.UUID `json:"user_id"`
	AssignedBy uuid.UUID `json:"assigned_by"`
	AssignedAt time.Time `json:"assigned_at"`
}

// Task is a unit of work owned exclusively by a Board. Tasks are never
// addressable outside their board; all mutation goes through the aggregate.
type Task struct {
	ID          uuid.UUID    `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Status      TaskStatus   `json:"status"`
	Priority    string       `json:"priority,omitempty"`
	TimeTracked float64      `json:"time_tracked"`
	Deadline    *time.Time   `json:"deadline,omitempty"`
	Subtasks    []Subtask    `json:"subtasks"`
	Assignments []Assignment `json:"assignments"`
	CreatedBy   uuid.UUID    `json:"created_by"`
}

// NormalizeTask fills in generated IDs and default statuses on a freshly
// built task. This is the single defaulting path for task creation: every
// subtask without an explicit status starts as undone, and an unset or
// unrecognized task status becomes todo.
func NormalizeTask(t *Task) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.Status = NormalizeTaskStatus(t.Status)
	NormalizeSubtasks(t.Subtasks, true)
	if t.Subtasks == nil {
		t.Subtasks = []Subtask{}
	}
	if t.Assignments == nil {
		t.Assignments = []Assignment{}
	}
	if t.TimeTracked < 0 {
		t.TimeTracked = 0
	}
}

// NormalizeSubtasks assigns IDs to subtasks that lack one. When resetMissing
// is true, subtasks without an explicit status are defaulted to undone;
// otherwise existing empty statuses are left alone for the caller to decide.
func NormalizeSubtasks(subs []Subtask, resetMissing bool) {
	for i := range subs {
		if subs[i].ID == uuid.Nil {
			subs[i].ID = uuid.New()
		}
		if resetMissing && subs[i].Status == "" {
			subs[i].Status = SubtaskStatusUndone
		}
	}
}

// Validate checks the task's own invariants. Uniqueness of IDs within the
// board is enforced by the aggregate, not here.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}
	if t.Title == "" {
		return ErrEmptyTaskTitle
	}
	for i := range t.Subtasks {
		if t.Subtasks[i].Name == "" {
			return ErrEmptySubtaskName
		}
	}
	return nil
}

// TaskPatch is a partial update of a task. Only non-nil fields overwrite the
// existing values.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *TaskStatus
	Priority    *string
	TimeTracked *float64
	Assignments *[]Assignment
	Subtasks    *[]Subtask
}

// apply overwrites the task's fields from the patch.
//
// Two deliberate quirks, inherited from the board's original behavior:
// TimeTracked is only overwritten when the supplied value is non-negative,
// and a supplied subtask batch has its missing statuses reset to undone only
// when the patch does NOT also carry a task status. Updating the status and
// the subtasks together preserves whatever subtask statuses were supplied.
func (t *Task) apply(patch TaskPatch) {
	if patch.Title != nil {
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.Priority != nil {
		t.Priority = *patch.Priority
	}
	if patch.TimeTracked != nil && *patch.TimeTracked >= 0 {
		t.TimeTracked = *patch.TimeTracked
	}
	if patch.Assignments != nil {
		t.Assignments = *patch.Assignments
		if t.Assignments == nil {
			t.Assignments = []Assignment{}
		}
	}
	if patch.Subtasks != nil {
		subs := *patch.Subtasks
		NormalizeSubtasks(subs, patch.Status == nil)
		if subs == nil {
			subs = []Subtask{}
		}
		t.Subtasks = subs
	}
}
