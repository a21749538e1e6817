package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/service"
)

// BoardHandler handles board-level API requests: CRUD, ordering, and the
// membership workflow.
type BoardHandler struct {
	boardService service.BoardService
	validator    *validator.Validate
}

// NewBoardHandler creates a new BoardHandler with the given dependencies.
func NewBoardHandler(boardService service.BoardService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		validator:    validator.New(),
	}
}

// List handles GET /boards?search=.
func (h *BoardHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	search := r.URL.Query().Get("search")

	boards, err := h.boardService.ListBoards(r.Context(), userID, search)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list boards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, boards)
}

// Create handles POST /boards.
func (h *BoardHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	board, err := h.boardService.CreateBoard(r.Context(), userID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create board")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, board)
}

// Get handles GET /boards/{boardID}.
func (h *BoardHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(r.Context(), userID, boardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve board")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, board)
}

// Rename handles PATCH /boards/{boardID}.
func (h *BoardHandler) Rename(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	var req RenameBoardRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	board, err := h.boardService.RenameBoard(r.Context(), userID, boardID, req.Name)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to rename board")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, board)
}

// Delete handles DELETE /boards/{boardID}.
func (h *BoardHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(r.Context(), userID, boardID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete board")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reorder handles PUT /boards/order. Returns the caller's boards in their
// new order. Entries for boards the caller does not own are silently skipped.
func (h *BoardHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req ReorderBoardsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	boards, err := h.boardService.ReorderBoards(r.Context(), userID, req.ToDomain())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reorder boards")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, boards)
}

// Invite handles POST /boards/{boardID}/invite.
func (h *BoardHandler) Invite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	var req InviteRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	board, err := h.boardService.InviteUser(r.Context(), userID, boardID, req.Email)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to invite user")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, board)
}

// AcceptInvite handles POST /boards/{boardID}/invite/accept.
func (h *BoardHandler) AcceptInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	board, err := h.boardService.AcceptInvite(r.Context(), userID, boardID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to accept invite")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, board)
}

// DeclineInvite handles DELETE /boards/{boardID}/invite.
func (h *BoardHandler) DeclineInvite(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	if err := h.boardService.DeclineInvite(r.Context(), userID, boardID); err != nil {
		HandleAPIError(w, r, err, "Failed to decline invite")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RemoveMember handles DELETE /boards/{boardID}/members/{userID}.
func (h *BoardHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	actorID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}
	memberID, ok := requirePathUUID(w, r, "userID")
	if !ok {
		return
	}

	board, err := h.boardService.RemoveMember(r.Context(), actorID, boardID, memberID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to remove member")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, board)
}
