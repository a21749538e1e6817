package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Board validation errors
var (
	// ErrEmptyBoardName is returned when a board name is empty.
	ErrEmptyBoardName = errors.New("board name cannot be empty")

	// ErrEmptyBoardOwner is returned when a board's owner ID is empty or nil.
	ErrEmptyBoardOwner = errors.New("board owner ID cannot be empty")

	// ErrTaskNotFound is returned when a task ID does not exist on the board.
	ErrTaskNotFound = errors.New("task not found on board")

	// ErrSubtaskNotFound is returned when a subtask ID does not exist on the task.
	ErrSubtaskNotFound = errors.New("subtask not found on task")
)

// Board is the aggregate root of the task hierarchy. It exclusively owns its
// tasks (which own their subtasks and assignments) together with the invited
// and accepted membership sets and the derived status counts. All mutation
// goes through Board methods so the aggregate persists as one unit and the
// counts never drift from the task list.
type Board struct {
	ID           uuid.UUID    `json:"id"`
	OwnerID      uuid.UUID    `json:"owner_id"`
	Name         string       `json:"name"`
	Order        int          `json:"order"`
	Tasks        []Task       `json:"tasks"`
	StatusCounts StatusCounts `json:"status_counts"`
	Invited      []uuid.UUID  `json:"invited"`
	Members      []uuid.UUID  `json:"members"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// NewBoard creates an empty board owned by the given user.
// Returns an error if validation fails.
func NewBoard(ownerID uuid.UUID, name string) (*Board, error) {
	now := time.Now().UTC()
	board := &Board{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      name,
		Tasks:     []Task{},
		Invited:   []uuid.UUID{},
		Members:   []uuid.UUID{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := board.Validate(); err != nil {
		return nil, err
	}

	return board, nil
}

// Validate checks if the Board has valid data.
func (b *Board) Validate() error {
	if b.ID == uuid.Nil {
		return ErrInvalidID
	}
	if b.OwnerID == uuid.Nil {
		return ErrEmptyBoardOwner
	}
	if b.Name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyBoardName)
	}
	return nil
}

// Rename changes the board's name.
func (b *Board) Rename(name string) error {
	if name == "" {
		return fmt.Errorf("%w: %w", ErrValidation, ErrEmptyBoardName)
	}
	b.Name = name
	b.touch()
	return nil
}

// Recount recomputes the status counts from the current task list. Every
// task-mutating method calls this before returning so a persisted board is
// always internally consistent.
func (b *Board) Recount() {
	b.StatusCounts = CountTaskStatuses(b.Tasks)
}

// AddTask normalizes and appends a task to the board. Subtasks without an
// explicit status default to undone.
func (b *Board) AddTask(task Task) (*Task, error) {
	NormalizeTask(&task)
	if err := task.Validate(); err != nil {
		return nil, err
	}
	b.Tasks = append(b.Tasks, task)
	b.Recount()
	b.touch()
	return &b.Tasks[len(b.Tasks)-1], nil
}

// PatchTask applies a partial update to the identified task.
// Returns ErrTaskNotFound if the task does not exist.
func (b *Board) PatchTask(taskID uuid.UUID, patch TaskPatch) (*Task, error) {
	task, ok := FindTask(b.Tasks, taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	task.apply(patch)
	b.Recount()
	b.touch()
	return task, nil
}

// SetTaskStatus updates only the status of the identified task.
// Returns ErrTaskNotFound if the task does not exist.
func (b *Board) SetTaskStatus(taskID uuid.UUID, status TaskStatus) (*Task, error) {
	task, ok := FindTask(b.Tasks, taskID)
	if !ok {
		return nil, ErrTaskNotFound
	}
	task.Status = status
	b.Recount()
	b.touch()
	return task, nil
}

// SetSubtaskStatus updates only the status of the identified subtask. Board
// counts are task-granular, so this does not trigger a recount.
// Returns ErrTaskNotFound or ErrSubtaskNotFound when the target is absent.
func (b *Board) SetSubtaskStatus(taskID, subtaskID uuid.UUID, status SubtaskStatus) error {
	task, ok := FindTask(b.Tasks, taskID)
	if !ok {
		return ErrTaskNotFound
	}
	subtask, ok := FindSubtask(task, subtaskID)
	if !ok {
		return ErrSubtaskNotFound
	}
	subtask.Status = status
	b.touch()
	return nil
}

// RemoveTask deletes the identified task from the board.
// Returns ErrTaskNotFound if the task does not exist.
func (b *Board) RemoveTask(taskID uuid.UUID) error {
	for i := range b.Tasks {
		if b.Tasks[i].ID == taskID {
			b.Tasks = append(b.Tasks[:i], b.Tasks[i+1:]...)
			b.Recount()
			b.touch()
			return nil
		}
	}
	return ErrTaskNotFound
}

// BoardOrder is one entry of a bulk reorder request: the board to move and
// its new position in the owner's board list.
type BoardOrder struct {
	BoardID uuid.UUID `json:"board_id"`
	Order   int       `json:"order"`
}

// MatchesSearch reports whether the board name or any contained task title
// matches the given lowercase search text. Used by in-memory filtering in
// tests; the SQL listing path implements the same predicate.
func (b *Board) MatchesSearch(lowered string) bool {
	if lowered == "" {
		return true
	}
	if containsFold(b.Name, lowered) {
		return true
	}
	for i := range b.Tasks {
		if containsFold(b.Tasks[i].Title, lowered) {
			return true
		}
	}
	return false
}

func (b *Board) touch() {
	b.UpdatedAt = time.Now().UTC()
}

func containsFold(s, lowered string) bool {
	return strings.Contains(strings.ToLower(s), lowered)
}
