package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/platform/redis"
	"github.com/phrazzld/kanban-api/internal/store"
)

// BoardService provides board and task operations. Every mutation follows the
// same cycle: load the aggregate, apply the domain mutation (which recomputes
// the status counts where required), persist the whole aggregate in one
// transaction, then invalidate the cache entry.
type BoardService interface {
	// CreateBoard creates an empty board owned by ownerID.
	CreateBoard(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Board, error)

	// GetBoard returns the full aggregate. The caller must be the owner or an
	// accepted member; otherwise ErrNotBoardMember is returned.
	GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error)

	// ListBoards returns the caller's boards (owned or accepted membership),
	// optionally filtered by a case-insensitive search over board names and
	// task titles, ordered by the owner-assigned order.
	ListBoards(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Board, error)

	// RenameBoard changes the board name. Owner only.
	RenameBoard(ctx context.Context, userID, boardID uuid.UUID, name string) (*domain.Board, error)

	// DeleteBoard removes the board and everything it owns. Owner only.
	DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error

	// ReorderBoards applies a batch of order updates to the caller's own
	// boards and returns the resulting list. Entries for boards the caller
	// does not own are silently skipped.
	ReorderBoards(ctx context.Context, ownerID uuid.UUID, orders []domain.BoardOrder) ([]*domain.Board, error)

	// InviteUser invites the user with the given email to the board.
	// Owner only. Conflicts if the user is already invited or a member.
	InviteUser(ctx context.Context, actorID, boardID uuid.UUID, email string) (*domain.Board, error)

	// AcceptInvite moves the caller from invited to accepted member.
	AcceptInvite(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error)

	// DeclineInvite removes the caller's pending invite. The caller can be
	// invited again afterwards.
	DeclineInvite(ctx context.Context, userID, boardID uuid.UUID) error

	// RemoveMember removes an accepted member and cascades removal of their
	// task assignments. Owner only; members may also remove themselves.
	RemoveMember(ctx context.Context, actorID, boardID, memberID uuid.UUID) (*domain.Board, error)

	// CreateTask adds a task to the board. Owner or member.
	CreateTask(ctx context.Context, userID, boardID uuid.UUID, task domain.Task) (*domain.Task, error)

	// GetTask returns a single task from the board. Owner or member.
	GetTask(ctx context.Context, userID, boardID, taskID uuid.UUID) (*domain.Task, error)

	// PatchTask applies a partial update to a task. Owner or member.
	PatchTask(ctx context.Context, userID, boardID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)

	// SetTaskStatus updates only a task's status. Owner or member.
	SetTaskStatus(ctx context.Context, userID, boardID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)

	// SetSubtaskStatus updates only a subtask's status. Owner or member.
	SetSubtaskStatus(ctx context.Context, userID, boardID, taskID, subtaskID uuid.UUID, status domain.SubtaskStatus) error

	// DeleteTask removes a task from the board. Owner or member.
	DeleteTask(ctx context.Context, userID, boardID, taskID uuid.UUID) error
}

// BoardServiceImpl implements the BoardService interface
type BoardServiceImpl struct {
	boardStore store.BoardStore
	userStore  store.UserStore
	cache      *redis.BoardCache
	db         *sql.DB
	logger     *slog.Logger

	// runTx wraps mutations in a database transaction. Overridable in tests.
	runTx func(ctx context.Context, db *sql.DB, fn store.TxFn) error
}

// NewBoardService creates a new BoardService. cache may be nil, which
// disables caching.
func NewBoardService(
	boardStore store.BoardStore,
	userStore store.UserStore,
	cache *redis.BoardCache,
	db *sql.DB,
	logger *slog.Logger,
) BoardService {
	return &BoardServiceImpl{
		boardStore: boardStore,
		userStore:  userStore,
		cache:      cache,
		db:         db,
		logger:     logger.With("component", "board_service"),
		runTx:      store.RunInTransaction,
	}
}

// CreateBoard creates an empty board owned by ownerID.
func (s *BoardServiceImpl) CreateBoard(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
) (*domain.Board, error) {
	board, err := domain.NewBoard(ownerID, name)
	if err != nil {
		s.logger.Debug("failed to create board object",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	err = s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.boardStore.WithTx(tx).Create(ctx, board)
	})
	if err != nil {
		s.logger.Error("failed to save board",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to create board: %w", err)
	}

	s.logger.Info("board created successfully",
		"board_id", board.ID,
		"owner_id", ownerID)

	return board, nil
}

// GetBoard returns the full aggregate after an access check. Cache hits skip
// the database entirely; misses populate the cache on the way out.
func (s *BoardServiceImpl) GetBoard(
	ctx context.Context,
	userID, boardID uuid.UUID,
) (*domain.Board, error) {
	if board, ok := s.cache.Get(ctx, boardID); ok {
		if err := requireMember(board, userID); err != nil {
			return nil, err
		}
		return board, nil
	}

	board, err := s.boardStore.GetByID(ctx, boardID)
	if err != nil {
		if !errors.Is(err, store.ErrBoardNotFound) {
			s.logger.Error("failed to retrieve board",
				"error", err,
				"board_id", boardID)
		}
		return nil, fmt.Errorf("failed to retrieve board: %w", err)
	}

	if err := requireMember(board, userID); err != nil {
		return nil, err
	}

	s.cache.Set(ctx, board)
	return board, nil
}

// ListBoards returns the caller's boards, optionally filtered.
func (s *BoardServiceImpl) ListBoards(
	ctx context.Context,
	userID uuid.UUID,
	search string,
) ([]*domain.Board, error) {
	boards, err := s.boardStore.ListForUser(ctx, userID, search)
	if err != nil {
		s.logger.Error("failed to list boards",
			"error", err,
			"user_id", userID)
		return nil, fmt.Errorf("failed to list boards: %w", err)
	}
	return boards, nil
}

// RenameBoard changes the board name. Owner only.
func (s *BoardServiceImpl) RenameBoard(
	ctx context.Context,
	userID, boardID uuid.UUID,
	name string,
) (*domain.Board, error) {
	return s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireOwner(board, userID); err != nil {
			return err
		}
		return board.Rename(name)
	})
}

// DeleteBoard removes the board and everything it owns. Owner only.
func (s *BoardServiceImpl) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.boardStore.WithTx(tx)

		board, err := txStore.GetByID(ctx, boardID)
		if err != nil {
			return err
		}
		if err := requireOwner(board, userID); err != nil {
			return err
		}
		return txStore.Delete(ctx, boardID)
	})
	if err != nil {
		if errors.Is(err, store.ErrBoardNotFound) || errors.Is(err, ErrNotOwned) {
			s.logger.Debug("board delete refused",
				"error", err,
				"board_id", boardID,
				"user_id", userID)
		} else {
			s.logger.Error("failed to delete board",
				"error", err,
				"board_id", boardID)
		}
		return fmt.Errorf("failed to delete board: %w", err)
	}

	s.cache.Invalidate(ctx, boardID)
	s.logger.Info("board deleted successfully",
		"board_id", boardID,
		"user_id", userID)
	return nil
}

// ReorderBoards applies a batch of order updates to the caller's own boards
// and returns the re-listed result. Entries for boards the caller does not
// own match nothing in the store and are silently skipped.
func (s *BoardServiceImpl) ReorderBoards(
	ctx context.Context,
	ownerID uuid.UUID,
	orders []domain.BoardOrder,
) ([]*domain.Board, error) {
	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.boardStore.WithTx(tx).UpdateOrders(ctx, ownerID, orders)
	})
	if err != nil {
		s.logger.Error("failed to reorder boards",
			"error", err,
			"owner_id", ownerID)
		return nil, fmt.Errorf("failed to reorder boards: %w", err)
	}

	for _, entry := range orders {
		s.cache.Invalidate(ctx, entry.BoardID)
	}

	return s.ListBoards(ctx, ownerID, "")
}

// InviteUser invites the user with the given email to the board. Owner only.
func (s *BoardServiceImpl) InviteUser(
	ctx context.Context,
	actorID, boardID uuid.UUID,
	email string,
) (*domain.Board, error) {
	invitee, err := s.userStore.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			s.logger.Debug("invite target not found",
				"board_id", boardID,
				"email", email)
		} else {
			s.logger.Error("failed to look up invite target",
				"error", err,
				"board_id", boardID)
		}
		return nil, fmt.Errorf("failed to invite user: %w", err)
	}

	return s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireOwner(board, actorID); err != nil {
			return err
		}
		return board.Invite(invitee.ID)
	})
}

// AcceptInvite moves the caller from invited to accepted member.
func (s *BoardServiceImpl) AcceptInvite(
	ctx context.Context,
	userID, boardID uuid.UUID,
) (*domain.Board, error) {
	return s.mutate(ctx, boardID, func(board *domain.Board) error {
		return board.AcceptInvite(userID)
	})
}

// DeclineInvite removes the caller's pending invite.
func (s *BoardServiceImpl) DeclineInvite(ctx context.Context, userID, boardID uuid.UUID) error {
	_, err := s.mutate(ctx, boardID, func(board *domain.Board) error {
		return board.DeclineInvite(userID)
	})
	return err
}

// RemoveMember removes an accepted member along with every task assignment
// they hold on the board. The owner can remove any member; a member can only
// remove themselves (leave the board).
func (s *BoardServiceImpl) RemoveMember(
	ctx context.Context,
	actorID, boardID, memberID uuid.UUID,
) (*domain.Board, error) {
	return s.mutate(ctx, boardID, func(board *domain.Board) error {
		if actorID != memberID {
			if err := requireOwner(board, actorID); err != nil {
				return err
			}
		}
		return board.RemoveMember(memberID)
	})
}

// CreateTask adds a task to the board. Owner or member.
func (s *BoardServiceImpl) CreateTask(
	ctx context.Context,
	userID, boardID uuid.UUID,
	task domain.Task,
) (*domain.Task, error) {
	var created *domain.Task
	_, err := s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireMember(board, userID); err != nil {
			return err
		}
		task.CreatedBy = userID
		added, err := board.AddTask(task)
		if err != nil {
			return err
		}
		created = added
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("task created successfully",
		"board_id", boardID,
		"task_id", created.ID,
		"user_id", userID)

	return created, nil
}

// GetTask returns a single task from the board. Owner or member.
func (s *BoardServiceImpl) GetTask(
	ctx context.Context,
	userID, boardID, taskID uuid.UUID,
) (*domain.Task, error) {
	board, err := s.GetBoard(ctx, userID, boardID)
	if err != nil {
		return nil, err
	}

	task, ok := domain.FindTask(board.Tasks, taskID)
	if !ok {
		return nil, fmt.Errorf("failed to retrieve task: %w", domain.ErrTaskNotFound)
	}
	return task, nil
}

// PatchTask applies a partial update to a task. Owner or member.
func (s *BoardServiceImpl) PatchTask(
	ctx context.Context,
	userID, boardID, taskID uuid.UUID,
	patch domain.TaskPatch,
) (*domain.Task, error) {
	var patched *domain.Task
	_, err := s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireMember(board, userID); err != nil {
			return err
		}
		task, err := board.PatchTask(taskID, patch)
		if err != nil {
			return err
		}
		patched = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return patched, nil
}

// SetTaskStatus updates only a task's status. Owner or member.
func (s *BoardServiceImpl) SetTaskStatus(
	ctx context.Context,
	userID, boardID, taskID uuid.UUID,
	status domain.TaskStatus,
) (*domain.Task, error) {
	var updated *domain.Task
	_, err := s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireMember(board, userID); err != nil {
			return err
		}
		task, err := board.SetTaskStatus(taskID, status)
		if err != nil {
			return err
		}
		updated = task
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// SetSubtaskStatus updates only a subtask's status. Owner or member.
func (s *BoardServiceImpl) SetSubtaskStatus(
	ctx context.Context,
	userID, boardID, taskID, subtaskID uuid.UUID,
	status domain.SubtaskStatus,
) error {
	_, err := s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireMember(board, userID); err != nil {
			return err
		}
		return board.SetSubtaskStatus(taskID, subtaskID, status)
	})
	return err
}

// DeleteTask removes a task from the board. Owner or member.
func (s *BoardServiceImpl) DeleteTask(
	ctx context.Context,
	userID, boardID, taskID uuid.UUID,
) error {
	_, err := s.mutate(ctx, boardID, func(board *domain.Board) error {
		if err := requireMember(board, userID); err != nil {
			return err
		}
		return board.RemoveTask(taskID)
	})
	return err
}

// mutate runs the canonical aggregate mutation cycle: load the board inside
// a transaction, apply fn, persist the whole aggregate, commit, then
// invalidate the cache entry. fn runs against the freshly loaded board so
// membership checks always see current state.
func (s *BoardServiceImpl) mutate(
	ctx context.Context,
	boardID uuid.UUID,
	fn func(board *domain.Board) error,
) (*domain.Board, error) {
	var board *domain.Board

	err := s.runTx(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txStore := s.boardStore.WithTx(tx)

		loaded, err := txStore.GetByID(ctx, boardID)
		if err != nil {
			return err
		}

		if err := fn(loaded); err != nil {
			return err
		}

		if err := txStore.Save(ctx, loaded); err != nil {
			return err
		}

		board = loaded
		return nil
	})

	if err != nil {
		switch {
		case errors.Is(err, store.ErrBoardNotFound),
			errors.Is(err, domain.ErrTaskNotFound),
			errors.Is(err, domain.ErrSubtaskNotFound),
			errors.Is(err, domain.ErrMembershipConflict),
			errors.Is(err, ErrNotOwned),
			errors.Is(err, ErrNotBoardMember):
			s.logger.Debug("board mutation rejected",
				"error", err,
				"board_id", boardID)
		default:
			s.logger.Error("board mutation failed",
				"error", err,
				"board_id", boardID)
		}
		return nil, fmt.Errorf("failed to update board: %w", err)
	}

	s.cache.Invalidate(ctx, boardID)
	return board, nil
}

func requireMember(board *domain.Board, userID uuid.UUID) error {
	if board.MembershipOf(userID) != domain.MembershipAccepted {
		return ErrNotBoardMember
	}
	return nil
}

func requireOwner(board *domain.Board, userID uuid.UUID) error {
	if board.OwnerID != userID {
		return ErrNotOwned
	}
	return nil
}
