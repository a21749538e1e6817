package api

import (
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/phrazzld/kanban-api/internal/api/shared"
	"github.com/phrazzld/kanban-api/internal/domain"
	"github.com/phrazzld/kanban-api/internal/service"
)

// TaskHandler handles task and subtask API requests within a board.
type TaskHandler struct {
	boardService service.BoardService
	validator    *validator.Validate
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(boardService service.BoardService) *TaskHandler {
	return &TaskHandler{
		boardService: boardService,
		validator:    validator.New(),
	}
}

// Create handles POST /boards/{boardID}/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.boardService.CreateTask(r.Context(), userID, boardID, req.ToDomain(userID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, task)
}

// Get handles GET /boards/{boardID}/tasks/{taskID}.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}
	taskID, ok := requirePathUUID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.boardService.GetTask(r.Context(), userID, boardID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to retrieve task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// Update handles PATCH /boards/{boardID}/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}
	taskID, ok := requirePathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.boardService.PatchTask(r.Context(), userID, boardID, taskID, req.ToDomain(userID))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateStatus handles PUT /boards/{boardID}/tasks/{taskID}/status.
func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}
	taskID, ok := requirePathUUID(w, r, "taskID")
	if !ok {
		return
	}

	var req TaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	task, err := h.boardService.SetTaskStatus(
		r.Context(), userID, boardID, taskID, domain.TaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task status")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, task)
}

// UpdateSubtaskStatus handles
// PUT /boards/{boardID}/tasks/{taskID}/subtasks/{subtaskID}/status.
func (h *TaskHandler) UpdateSubtaskStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}
	taskID, ok := requirePathUUID(w, r, "taskID")
	if !ok {
		return
	}
	subtaskID, ok := requirePathUUID(w, r, "subtaskID")
	if !ok {
		return
	}

	var req SubtaskStatusRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	err := h.boardService.SetSubtaskStatus(
		r.Context(), userID, boardID, taskID, subtaskID, domain.SubtaskStatus(req.Status))
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update subtask status")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Delete handles DELETE /boards/{boardID}/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	boardID, ok := requirePathUUID(w, r, "boardID")
	if !ok {
		return
	}
	taskID, ok := requirePathUUID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.boardService.DeleteTask(r.Context(), userID, boardID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
