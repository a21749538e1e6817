package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/kanban-api/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email       string `json:"email"        validate:"required,email"`
	Password    string `json:"password"     validate:"required,min=12,max=72"`
	DisplayName string `json:"display_name" validate:"required,min=1,max=100"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`
}

// UserResponse is the public projection of a user. Password material never
// appears here.
type UserResponse struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	AvatarURL   string    `json:"avatar_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewUserResponse builds a UserResponse from a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		AvatarURL:   user.AvatarURL,
		CreatedAt:   user.CreatedAt,
	}
}

// UpdateProfileRequest defines the payload for partial profile updates.
// Absent fields are left unchanged.
type UpdateProfileRequest struct {
	Email       *string `json:"email"        validate:"omitempty,email"`
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=100"`
	AvatarURL   *string `json:"avatar_url"   validate:"omitempty,max=500"`
	Password    *string `json:"password"     validate:"omitempty,min=12,max=72"`
}

// CreateBoardRequest defines the payload for board creation.
type CreateBoardRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// RenameBoardRequest defines the payload for renaming a board.
type RenameBoardRequest struct {
	Name string `json:"name" validate:"required,min=1,max=200"`
}

// BoardOrderEntry is one entry of a bulk reorder payload.
type BoardOrderEntry struct {
	BoardID uuid.UUID `json:"board_id" validate:"required"`
	Order   int       `json:"order"`
}

// ReorderBoardsRequest defines the payload for bulk board reordering.
type ReorderBoardsRequest struct {
	Orders []BoardOrderEntry `json:"orders" validate:"required,dive"`
}

// ToDomain converts the reorder payload into domain order entries.
func (r ReorderBoardsRequest) ToDomain() []domain.BoardOrder {
	orders := make([]domain.BoardOrder, len(r.Orders))
	for i, entry := range r.Orders {
		orders[i] = domain.BoardOrder{BoardID: entry.BoardID, Order: entry.Order}
	}
	return orders
}

// InviteRequest defines the payload for inviting a user to a board.
type InviteRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// SubtaskPayload is a subtask as supplied by clients. The ID is optional:
// absent IDs are generated, present IDs are preserved so subtask identity
// survives a task patch.
type SubtaskPayload struct {
	ID     uuid.UUID `json:"id"`
	Name   string    `json:"name"   validate:"required,min=1,max=200"`
	Status string    `json:"status" validate:"omitempty,oneof=undone done"`
}

// AssignmentPayload is an assignment as supplied by clients. Provenance
// fields are filled in server-side.
type AssignmentPayload struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
}

// CreateTaskRequest defines the payload for task creation.
type CreateTaskRequest struct {
	Title       string              `json:"title"        validate:"required,min=1,max=200"`
	Description string              `json:"description"  validate:"omitempty,max=2000"`
	Status      string              `json:"status"       validate:"omitempty,oneof=todo in-progress done"`
	Priority    string              `json:"priority"     validate:"omitempty,max=50"`
	TimeTracked float64             `json:"time_tracked" validate:"omitempty,gte=0"`
	Deadline    *time.Time          `json:"deadline"`
	Subtasks    []SubtaskPayload    `json:"subtasks"     validate:"omitempty,dive"`
	Assignments []AssignmentPayload `json:"assignments"  validate:"omitempty,dive"`
}

// ToDomain converts the creation payload into a domain task. Defaulting
// (IDs, statuses) happens in the domain layer. Assignment provenance is
// stamped with the acting user and current time.
func (r CreateTaskRequest) ToDomain(assignedBy uuid.UUID) domain.Task {
	return domain.Task{
		Title:       r.Title,
		Description: r.Description,
		Status:      domain.TaskStatus(r.Status),
		Priority:    r.Priority,
		TimeTracked: r.TimeTracked,
		Deadline:    r.Deadline,
		Subtasks:    subtasksToDomain(r.Subtasks),
		Assignments: assignmentsToDomain(r.Assignments, assignedBy),
	}
}

// UpdateTaskRequest defines the payload for partial task updates.
// Absent fields are left unchanged.
type UpdateTaskRequest struct {
	Title       *string              `json:"title"        validate:"omitempty,min=1,max=200"`
	Description *string              `json:"description"  validate:"omitempty,max=2000"`
	Status      *string              `json:"status"       validate:"omitempty,oneof=todo in-progress done"`
	Priority    *string              `json:"priority"     validate:"omitempty,max=50"`
	TimeTracked *float64             `json:"time_tracked"`
	Subtasks    *[]SubtaskPayload    `json:"subtasks"     validate:"omitempty,dive"`
	Assignments *[]AssignmentPayload `json:"assignments"  validate:"omitempty,dive"`
}

// ToDomain converts the update payload into a domain task patch. Assignment
// provenance is stamped with the acting user and current time.
func (r UpdateTaskRequest) ToDomain(assignedBy uuid.UUID) domain.TaskPatch {
	patch := domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		TimeTracked: r.TimeTracked,
	}
	if r.Status != nil {
		status := domain.TaskStatus(*r.Status)
		patch.Status = &status
	}
	if r.Subtasks != nil {
		subs := subtasksToDomain(*r.Subtasks)
		patch.Subtasks = &subs
	}
	if r.Assignments != nil {
		assignments := assignmentsToDomain(*r.Assignments, assignedBy)
		patch.Assignments = &assignments
	}
	return patch
}

// TaskStatusRequest defines the payload for task status updates.
type TaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=todo in-progress done"`
}

// SubtaskStatusRequest defines the payload for subtask status updates.
type SubtaskStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=undone done"`
}

func assignmentsToDomain(payloads []AssignmentPayload, assignedBy uuid.UUID) []domain.Assignment {
	now := time.Now().UTC()
	assignments := make([]domain.Assignment, len(payloads))
	for i, p := range payloads {
		assignments[i] = domain.Assignment{
			UserID:     p.UserID,
			AssignedBy: assignedBy,
			AssignedAt: now,
		}
	}
	return assignments
}

func subtasksToDomain(payloads []SubtaskPayload) []domain.Subtask {
	subs := make([]domain.Subtask, len(payloads))
	for i, p := range payloads {
		subs[i] = domain.Subtask{
			ID:     p.ID,
			Name:   p.Name,
			Status: domain.SubtaskStatus(p.Status),
		}
	}
	return subs
}
