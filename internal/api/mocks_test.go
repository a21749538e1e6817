package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/service"
	"github.com/phrazzld/kanban-api/internal/service/auth"
)

// mockUserService implements service.UserService with overridable functions.
// Methods without an override fail the calling test.
type mockUserService struct {
	t *testing.T

	registerFn       func(ctx context.Context, email, password, displayName string) (*domain.User, error)
	authenticateFn   func(ctx context.Context, email, password string) (*domain.User, error)
	getUserFn        func(ctx context.Context, userID uuid.UUID) (*domain.User, error)
	getUserByEmailFn func(ctx context.Context, email string) (*domain.User, error)
	updateProfileFn  func(ctx context.Context, userID uuid.UUID, patch service.ProfilePatch) (*domain.User, error)
}

var _ service.UserService = (*mockUserService)(nil)

func (m *mockUserService) Register(ctx context.Context, email, password, displayName string) (*domain.User, error) {
	if m.registerFn == nil {
		m.t.Fatal("unexpected call to Register")
	}
	return m.registerFn(ctx, email, password, displayName)
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.authenticateFn == nil {
		m.t.Fatal("unexpected call to Authenticate")
	}
	return m.authenticateFn(ctx, email, password)
}

func (m *mockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	if m.getUserFn == nil {
		m.t.Fatal("unexpected call to GetUser")
	}
	return m.getUserFn(ctx, userID)
}

func (m *mockUserService) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getUserByEmailFn == nil {
		m.t.Fatal("unexpected call to GetUserByEmail")
	}
	return m.getUserByEmailFn(ctx, email)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID uuid.UUID, patch service.ProfilePatch) (*domain.User, error) {
	if m.updateProfileFn == nil {
		m.t.Fatal("unexpected call to UpdateProfile")
	}
	return m.updateProfileFn(ctx, userID, patch)
}

// mockBoardService implements service.BoardService with overridable functions.
type mockBoardService struct {
	t *testing.T

	createBoardFn      func(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Board, error)
	getBoardFn         func(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error)
	listBoardsFn       func(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Board, error)
	renameBoardFn      func(ctx context.Context, userID, boardID uuid.UUID, name string) (*domain.Board, error)
	deleteBoardFn      func(ctx context.Context, userID, boardID uuid.UUID) error
	reorderBoardsFn    func(ctx context.Context, ownerID uuid.UUID, orders []domain.BoardOrder) ([]*domain.Board, error)
	inviteUserFn       func(ctx context.Context, actorID, boardID uuid.UUID, email string) (*domain.Board, error)
	acceptInviteFn     func(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error)
	declineInviteFn    func(ctx context.Context, userID, boardID uuid.UUID) error
	removeMemberFn     func(ctx context.Context, actorID, boardID, memberID uuid.UUID) (*domain.Board, error)
	createTaskFn       func(ctx context.Context, userID, boardID uuid.UUID, task domain.Task) (*domain.Task, error)
	getTaskFn          func(ctx context.Context, userID, boardID, taskID uuid.UUID) (*domain.Task, error)
	patchTaskFn        func(ctx context.Context, userID, boardID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error)
	setTaskStatusFn    func(ctx context.Context, userID, boardID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error)
	setSubtaskStatusFn func(ctx context.Context, userID, boardID, taskID, subtaskID uuid.UUID, status domain.SubtaskStatus) error
	deleteTaskFn       func(ctx context.Context, userID, boardID, taskID uuid.UUID) error
}

var _ service.BoardService = (*mockBoardService)(nil)

func (m *mockBoardService) CreateBoard(ctx context.Context, ownerID uuid.UUID, name string) (*domain.Board, error) {
	if m.createBoardFn == nil {
		m.t.Fatal("unexpected call to CreateBoard")
	}
	return m.createBoardFn(ctx, ownerID, name)
}

func (m *mockBoardService) GetBoard(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error) {
	if m.getBoardFn == nil {
		m.t.Fatal("unexpected call to GetBoard")
	}
	return m.getBoardFn(ctx, userID, boardID)
}

func (m *mockBoardService) ListBoards(ctx context.Context, userID uuid.UUID, search string) ([]*domain.Board, error) {
	if m.listBoardsFn == nil {
		m.t.Fatal("unexpected call to ListBoards")
	}
	return m.listBoardsFn(ctx, userID, search)
}

func (m *mockBoardService) RenameBoard(ctx context.Context, userID, boardID uuid.UUID, name string) (*domain.Board, error) {
	if m.renameBoardFn == nil {
		m.t.Fatal("unexpected call to RenameBoard")
	}
	return m.renameBoardFn(ctx, userID, boardID, name)
}

func (m *mockBoardService) DeleteBoard(ctx context.Context, userID, boardID uuid.UUID) error {
	if m.deleteBoardFn == nil {
		m.t.Fatal("unexpected call to DeleteBoard")
	}
	return m.deleteBoardFn(ctx, userID, boardID)
}

func (m *mockBoardService) ReorderBoards(ctx context.Context, ownerID uuid.UUID, orders []domain.BoardOrder) ([]*domain.Board, error) {
	if m.reorderBoardsFn == nil {
		m.t.Fatal("unexpected call to ReorderBoards")
	}
	return m.reorderBoardsFn(ctx, ownerID, orders)
}

func (m *mockBoardService) InviteUser(ctx context.Context, actorID, boardID uuid.UUID, email string) (*domain.Board, error) {
	if m.inviteUserFn == nil {
		m.t.Fatal("unexpected call to InviteUser")
	}
	return m.inviteUserFn(ctx, actorID, boardID, email)
}

func (m *mockBoardService) AcceptInvite(ctx context.Context, userID, boardID uuid.UUID) (*domain.Board, error) {
	if m.acceptInviteFn == nil {
		m.t.Fatal("unexpected call to AcceptInvite")
	}
	return m.acceptInviteFn(ctx, userID, boardID)
}

func (m *mockBoardService) DeclineInvite(ctx context.Context, userID, boardID uuid.UUID) error {
	if m.declineInviteFn == nil {
		m.t.Fatal("unexpected call to DeclineInvite")
	}
	return m.declineInviteFn(ctx, userID, boardID)
}

func (m *mockBoardService) RemoveMember(ctx context.Context, actorID, boardID, memberID uuid.UUID) (*domain.Board, error) {
	if m.removeMemberFn == nil {
		m.t.Fatal("unexpected call to RemoveMember")
	}
	return m.removeMemberFn(ctx, actorID, boardID, memberID)
}

func (m *mockBoardService) CreateTask(ctx context.Context, userID, boardID uuid.UUID, task domain.Task) (*domain.Task, error) {
	if m.createTaskFn == nil {
		m.t.Fatal("unexpected call to CreateTask")
	}
	return m.createTaskFn(ctx, userID, boardID, task)
}

func (m *mockBoardService) GetTask(ctx context.Context, userID, boardID, taskID uuid.UUID) (*domain.Task, error) {
	if m.getTaskFn == nil {
		m.t.Fatal("unexpected call to GetTask")
	}
	return m.getTaskFn(ctx, userID, boardID, taskID)
}

func (m *mockBoardService) PatchTask(ctx context.Context, userID, boardID, taskID uuid.UUID, patch domain.TaskPatch) (*domain.Task, error) {
	if m.patchTaskFn == nil {
		m.t.Fatal("unexpected call to PatchTask")
	}
	return m.patchTaskFn(ctx, userID, boardID, taskID, patch)
}

func (m *mockBoardService) SetTaskStatus(ctx context.Context, userID, boardID, taskID uuid.UUID, status domain.TaskStatus) (*domain.Task, error) {
	if m.setTaskStatusFn == nil {
		m.t.Fatal("unexpected call to SetTaskStatus")
	}
	return m.setTaskStatusFn(ctx, userID, boardID, taskID, status)
}

func (m *mockBoardService) SetSubtaskStatus(ctx context.Context, userID, boardID, taskID, subtaskID uuid.UUID, status domain.SubtaskStatus) error {
	if m.setSubtaskStatusFn == nil {
		m.t.Fatal("unexpected call to SetSubtaskStatus")
	}
	return m.setSubtaskStatusFn(ctx, userID, boardID, taskID, subtaskID, status)
}

func (m *mockBoardService) DeleteTask(ctx context.Context, userID, boardID, taskID uuid.UUID) error {
	if m.deleteTaskFn == nil {
		m.t.Fatal("unexpected call to DeleteTask")
	}
	return m.deleteTaskFn(ctx, userID, boardID, taskID)
}

// mockJWTService implements auth.JWTService with canned tokens.
type mockJWTService struct {
	t *testing.T

	generateTokenFn        func(ctx context.Context, userID uuid.UUID) (string, error)
	validateTokenFn        func(ctx context.Context, tokenString string) (*auth.Claims, error)
	generateRefreshTokenFn func(ctx context.Context, userID uuid.UUID) (string, error)
	validateRefreshTokenFn func(ctx context.Context, tokenString string) (*auth.Claims, error)
}

var _ auth.JWTService = (*mockJWTService)(nil)

func (m *mockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateTokenFn != nil {
		return m.generateTokenFn(ctx, userID)
	}
	return "access-token", nil
}

func (m *mockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateTokenFn == nil {
		m.t.Fatal("unexpected call to ValidateToken")
	}
	return m.validateTokenFn(ctx, tokenString)
}

func (m *mockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	if m.generateRefreshTokenFn != nil {
		return m.generateRefreshTokenFn(ctx, userID)
	}
	return "refresh-token", nil
}

func (m *mockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	if m.validateRefreshTokenFn == nil {
		m.t.Fatal("unexpected call to ValidateRefreshToken")
	}
	return m.validateRefreshTokenFn(ctx, tokenString)
}

// Request construction helpers

func newJSONRequest(t *testing.T, method, target string, body interface{}) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// asUser places the authenticated user ID in the request context the way the
// auth middleware does.
func asUser(r *http.Request, userID uuid.UUID) *http.Request {
	ctx := context.WithValue(r.Context(), shared.UserIDContextKey, userID)
	return r.WithContext(ctx)
}

// withURLParams attaches chi route parameters to the request context.
func withURLParams(r *http.Request, params map[string]string) *http.Request {
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	ctx := context.WithValue(r.Context(), chi.RouteCtxKey, routeCtx)
	return r.WithContext(ctx)
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}
