package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// BoardStore defines the interface for board aggregate persistence. The
// board, its tasks, subtasks, assignments, membership sets and status counts
// persist as one document: Save overwrites the whole aggregate in a single
// atomic write, so readers never observe a task mutation without its
// recomputed counts.
type BoardStore interface {
	// Create saves a new board aggregate.
	// Returns validation errors from the domain Board if data is invalid.
	Create(ctx context.Context, board *domain.Board) error

	// GetByID retrieves a full board aggregate by its unique ID.
	// Returns ErrBoardNotFound if the board does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error)

	// Save overwrites the stored aggregate with the given board's current
	// state. Returns ErrBoardNotFound if the board does not exist.
	Save(ctx context.Context, board *domain.Board) error

	// Delete removes a board and all nested tasks/subtasks.
	// Returns ErrBoardNotFound if the board does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListForUser returns boards where the user is owner or accepted member,
	// filtered by a case-insensitive substring match against the board name
	// or any contained task title when search is non-empty. Boards are
	// ordered by their order field ascending, ties broken by creation time.
	ListForUser(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Board, error)

	// UpdateOrders applies a batch of order updates scoped to boards owned
	// by ownerID. Entries targeting boards the owner does not own are
	// silently skipped.
	UpdateOrders(ctx context.Context, ownerID uuid.UUID, orders []domain.BoardOrder) error

	// WithTx returns a new BoardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) BoardStore
}
