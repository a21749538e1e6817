package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/logger"
	"github.com/phrazzld/kanban-api/internal/store"
)

// PostgresBoardStore implements the store.BoardStore interface
// using a PostgreSQL database as the storage backend.
//
// The aggregate maps onto one row: scalar columns for the board fields and
// the derived counts, JSONB for the task hierarchy and the membership sets.
// Save rewrites the row in full, which makes the locate-mutate-recount-
// persist cycle a single atomic write; concurrent writers get whole-document
// last-write-wins, an accepted limitation of the design.
type PostgresBoardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBoardStore creates a new PostgreSQL implementation of the
// BoardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBoardStore(db store.DBTX, logger *slog.Logger) *PostgresBoardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBoardStore{
		db:     db,
		logger: logger.With(slog.String("component", "board_store")),
	}
}

// Ensure PostgresBoardStore implements store.BoardStore interface
var _ store.BoardStore = (*PostgresBoardStore)(nil)

const boardColumns = `id, owner_id, name, ord, tasks, todo_count, in_progress_count, done_count,
		invited, members, created_at, updated_at`

// Create implements store.BoardStore.Create
func (s *PostgresBoardStore) Create(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		log.Warn("board validation failed during create",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return err
	}

	tasks, invited, members, err := marshalAggregate(board)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO boards (` + boardColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = s.db.ExecContext(
		ctx,
		query,
		board.ID,
		board.OwnerID,
		board.Name,
		board.Order,
		tasks,
		board.StatusCounts.Todo,
		board.StatusCounts.InProgress,
		board.StatusCounts.Done,
		invited,
		members,
		board.CreatedAt,
		board.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to create board",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()),
			slog.String("owner_id", board.OwnerID.String()))
		return MapError(err)
	}

	log.Info("board created successfully",
		slog.String("board_id", board.ID.String()),
		slog.String("owner_id", board.OwnerID.String()))
	return nil
}

// GetByID implements store.BoardStore.GetByID
// Returns store.ErrBoardNotFound if the board does not exist.
func (s *PostgresBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + boardColumns + ` FROM boards WHERE id = $1`

	board, err := scanBoard(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("board not found", slog.String("board_id", id.String()))
			return nil, store.ErrBoardNotFound
		}
		log.Error("failed to get board by ID",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
		return nil, MapError(err)
	}

	return board, nil
}

// Save implements store.BoardStore.Save
// It overwrites the stored aggregate with the board's current state.
// Returns store.ErrBoardNotFound if the board does not exist.
func (s *PostgresBoardStore) Save(ctx context.Context, board *domain.Board) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := board.Validate(); err != nil {
		log.Warn("board validation failed during save",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return err
	}

	tasks, invited, members, err := marshalAggregate(board)
	if err != nil {
		return err
	}

	query := `
		UPDATE boards
		SET name = $1, ord = $2, tasks = $3,
		    todo_count = $4, in_progress_count = $5, done_count = $6,
		    invited = $7, members = $8, updated_at = $9
		WHERE id = $10
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		board.Name,
		board.Order,
		tasks,
		board.StatusCounts.Todo,
		board.StatusCounts.InProgress,
		board.StatusCounts.Done,
		invited,
		members,
		board.UpdatedAt,
		board.ID,
	)

	if err != nil {
		log.Error("failed to save board",
			slog.String("error", err.Error()),
			slog.String("board_id", board.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "board"); err != nil {
		log.Debug("board not found for save",
			slog.String("board_id", board.ID.String()))
		return store.ErrBoardNotFound
	}

	log.Debug("board saved successfully",
		slog.String("board_id", board.ID.String()),
		slog.Int("task_count", len(board.Tasks)))
	return nil
}

// Delete implements store.BoardStore.Delete
// Removing the row drops the whole nested hierarchy with it.
// Returns store.ErrBoardNotFound if the board does not exist.
func (s *PostgresBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM boards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete board",
			slog.String("error", err.Error()),
			slog.String("board_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "board"); err != nil {
		return store.ErrBoardNotFound
	}

	log.Info("board deleted successfully", slog.String("board_id", id.String()))
	return nil
}

// ListForUser implements store.BoardStore.ListForUser
// The search predicate matches the board name or any contained task title,
// case-insensitively, mirroring domain.Board.MatchesSearch.
func (s *PostgresBoardStore) ListForUser(
	ctx context.Context,
	userID uuid.UUID,
	search string,
) ([]*domain.Board, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT ` + boardColumns + `
		FROM boards
		WHERE (owner_id = $1 OR members @> to_jsonb($1::uuid::text))
		  AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR EXISTS (
			SELECT 1 FROM jsonb_array_elements(tasks) AS task
			WHERE task->>'title' ILIKE '%' || $2 || '%'
		  ))
		ORDER BY ord ASC, created_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, userID, search)
	if err != nil {
		log.Error("failed to list boards",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	var boards []*domain.Board
	for rows.Next() {
		board, err := scanBoard(rows)
		if err != nil {
			log.Error("failed to scan board row",
				slog.String("error", err.Error()))
			return nil, err
		}
		boards = append(boards, board)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	if boards == nil {
		boards = []*domain.Board{}
	}

	log.Debug("listed boards for user",
		slog.String("user_id", userID.String()),
		slog.Int("count", len(boards)))
	return boards, nil
}

// UpdateOrders implements store.BoardStore.UpdateOrders
// Each entry updates only boards owned by ownerID; entries for boards the
// owner does not own match no rows and are skipped without error.
func (s *PostgresBoardStore) UpdateOrders(
	ctx context.Context,
	ownerID uuid.UUID,
	orders []domain.BoardOrder,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `UPDATE boards SET ord = $1 WHERE id = $2 AND owner_id = $3`
	for _, entry := range orders {
		if _, err := s.db.ExecContext(ctx, query, entry.Order, entry.BoardID, ownerID); err != nil {
			log.Error("failed to update board order",
				slog.String("error", err.Error()),
				slog.String("board_id", entry.BoardID.String()))
			return MapError(err)
		}
	}

	log.Debug("board orders updated",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(orders)))
	return nil
}

// WithTx implements store.BoardStore.WithTx
func (s *PostgresBoardStore) WithTx(tx *sql.Tx) store.BoardStore {
	return &PostgresBoardStore{
		db:     tx,
		logger: s.logger,
	}
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanBoard(row rowScanner) (*domain.Board, error) {
	var (
		board   domain.Board
		tasks   []byte
		invited []byte
		members []byte
	)

	err := row.Scan(
		&board.ID,
		&board.OwnerID,
		&board.Name,
		&board.Order,
		&tasks,
		&board.StatusCounts.Todo,
		&board.StatusCounts.InProgress,
		&board.StatusCounts.Done,
		&invited,
		&members,
		&board.CreatedAt,
		&board.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(tasks, &board.Tasks); err != nil {
		return nil, fmt.Errorf("failed to decode board tasks: %w", err)
	}
	if err := json.Unmarshal(invited, &board.Invited); err != nil {
		return nil, fmt.Errorf("failed to decode invited users: %w", err)
	}
	if err := json.Unmarshal(members, &board.Members); err != nil {
		return nil, fmt.Errorf("failed to decode board members: %w", err)
	}

	return &board, nil
}

func marshalAggregate(board *domain.Board) (tasks, invited, members []byte, err error) {
	if tasks, err = json.Marshal(board.Tasks); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode board tasks: %w", err)
	}
	if invited, err = json.Marshal(board.Invited); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode invited users: %w", err)
	}
	if members, err = json.Marshal(board.Members); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to encode board members: %w", err)
	}
	return tasks, invited, members, nil
}
