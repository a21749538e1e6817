// Package service provides application-level services for managing boards,
// tasks, and users.
package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// These errors represent common conditions that callers may want to check for
// with errors.Is().
//
// Error handling principles:
// 1. Service methods return sentinel errors for expected error conditions
// 2. Unexpected errors are wrapped in service-specific error types
// 3. Callers use errors.Is/errors.As to check for specific error conditions
// 4. The API layer maps service errors to appropriate HTTP status codes
var (
	// ErrNotOwned indicates a board is owned by a different user than the one
	// making the request. Returned for owner-only operations (rename, delete,
	// invite, remove member). API layer should map this to HTTP 403 Forbidden.
	ErrNotOwned = errors.New("board is owned by another user")

	// ErrNotBoardMember indicates the requesting user is neither the owner
	// nor an accepted member of the board.
	// API layer should map this to HTTP 403 Forbidden.
	ErrNotBoardMember = errors.New("user is not a member of the board")

	// ErrInvalidCredentials indicates a login attempt with an unknown email
	// or a wrong password. API layer should map this to HTTP 401 Unauthorized.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
