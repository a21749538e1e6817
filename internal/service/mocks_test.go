package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sort"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/store"
)

// mockBoardStore is an in-memory BoardStore. Reads return deep copies so a
// mutation only becomes visible after Save, mirroring a real database.
type mockBoardStore struct {
	boards map[uuid.UUID]*domain.Board

	createErr error
	getErr    error
	saveErr   error
	saveCalls int
}

func newMockBoardStore() *mockBoardStore {
	return &mockBoardStore{boards: make(map[uuid.UUID]*domain.Board)}
}

func (m *mockBoardStore) Create(ctx context.Context, board *domain.Board) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.boards[board.ID] = copyBoard(board)
	return nil
}

func (m *mockBoardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	board, ok := m.boards[id]
	if !ok {
		return nil, store.ErrBoardNotFound
	}
	return copyBoard(board), nil
}

func (m *mockBoardStore) Save(ctx context.Context, board *domain.Board) error {
	m.saveCalls++
	if m.saveErr != nil {
		return m.saveErr
	}
	if _, ok := m.boards[board.ID]; !ok {
		return store.ErrBoardNotFound
	}
	m.boards[board.ID] = copyBoard(board)
	return nil
}

func (m *mockBoardStore) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := m.boards[id]; !ok {
		return store.ErrBoardNotFound
	}
	delete(m.boards, id)
	return nil
}

func (m *mockBoardStore) ListForUser(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Board, error) {
	lowered := strings.ToLower(search)
	var result []*domain.Board
	for _, board := range m.boards {
		if board.MembershipOf(userID) != domain.MembershipAccepted {
			continue
		}
		if !board.MatchesSearch(lowered) {
			continue
		}
		result = append(result, copyBoard(board))
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *mockBoardStore) UpdateOrders(ctx context.Context, ownerID uuid.UUID, orders []domain.BoardOrder) error {
	for _, entry := range orders {
		board, ok := m.boards[entry.BoardID]
		if !ok || board.OwnerID != ownerID {
			continue // silently skipped, matching the SQL implementation
		}
		board.Order = entry.Order
	}
	return nil
}

func (m *mockBoardStore) WithTx(tx *sql.Tx) store.BoardStore { return m }

// mockUserStore is an in-memory UserStore.
type mockUserStore struct {
	users map[uuid.UUID]*domain.User

	createErr error
	updateErr error
}

func newMockUserStore() *mockUserStore {
	return &mockUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	user, ok := m.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	normalized := domain.NormalizeEmail(email)
	for _, user := range m.users {
		if user.Email == normalized {
			clone := *user
			return &clone, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *mockUserStore) Update(ctx context.Context, user *domain.User) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range m.users {
		if id != user.ID && existing.Email == user.Email {
			return store.ErrEmailExists
		}
	}
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *mockUserStore) WithTx(tx *sql.Tx) store.UserStore { return m }

// mockHasher and mockVerifier avoid bcrypt cost in unit tests. The "hash" is
// a reversible prefix so the verifier can check equality.
type mockHasher struct{ err error }

func (m *mockHasher) Hash(password string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return "hashed:" + password, nil
}

type mockVerifier struct{}

func (m *mockVerifier) Compare(hashedPassword, password string) error {
	if hashedPassword != "hashed:"+password {
		return errMismatchedPassword
	}
	return nil
}

var errMismatchedPassword = errors.New("password does not match hash")

func copyBoard(board *domain.Board) *domain.Board {
	data, err := json.Marshal(board)
	if err != nil {
		panic(err)
	}
	var clone domain.Board
	if err := json.Unmarshal(data, &clone); err != nil {
		panic(err)
	}
	return &clone
}

// passthroughTx substitutes for RunInTransaction against the in-memory
// stores, which ignore the transaction handle entirely.
func passthroughTx(ctx context.Context, db *sql.DB, fn store.TxFn) error {
	return fn(ctx, nil)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestBoardService(t *testing.T) (*BoardServiceImpl, *mockBoardStore, *mockUserStore) {
	t.Helper()
	boardStore := newMockBoardStore()
	userStore := newMockUserStore()
	svc := &BoardServiceImpl{
		boardStore: boardStore,
		userStore:  userStore,
		cache:      nil, // nil cache is a no-op
		logger:     testLogger(),
		runTx:      passthroughTx,
	}
	return svc, boardStore, userStore
}

func newTestUserService(t *testing.T) (*UserServiceImpl, *mockUserStore) {
	t.Helper()
	userStore := newMockUserStore()
	svc := &UserServiceImpl{
		userStore: userStore,
		hasher:    &mockHasher{},
		verifier:  &mockVerifier{},
		logger:    testLogger(),
		runTx:     passthroughTx,
	}
	return svc, userStore
}
