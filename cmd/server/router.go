package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/kanban-api/internal/api"
	apiMiddleware "github.com/phrazzld/kanban-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware. Returns the configured router.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	// Apply standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	// Create API handlers using the application's services
	authHandler := api.NewAuthHandler(app.userService, app.jwtService)
	userHandler := api.NewUserHandler(app.userService)
	boardHandler := api.NewBoardHandler(app.boardService)
	taskHandler := api.NewTaskHandler(app.boardService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Authentication endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.RefreshToken)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// User endpoints
			r.Get("/users/me", userHandler.Me)
			r.Patch("/users/me", userHandler.UpdateMe)
			r.Get("/users/{email}", userHandler.GetByEmail)

			// Board endpoints
			r.Get("/boards", boardHandler.List)
			r.Post("/boards", boardHandler.Create)
			r.Put("/boards/order", boardHandler.Reorder)
			r.Get("/boards/{boardID}", boardHandler.Get)
			r.Patch("/boards/{boardID}", boardHandler.Rename)
			r.Delete("/boards/{boardID}", boardHandler.Delete)

			// Membership endpoints
			r.Post("/boards/{boardID}/invite", boardHandler.Invite)
			r.Post("/boards/{boardID}/invite/accept", boardHandler.AcceptInvite)
			r.Delete("/boards/{boardID}/invite", boardHandler.DeclineInvite)
			r.Delete("/boards/{boardID}/members/{userID}", boardHandler.RemoveMember)

			// Task endpoints
			r.Post("/boards/{boardID}/tasks", taskHandler.Create)
			r.Get("/boards/{boardID}/tasks/{taskID}", taskHandler.Get)
			r.Patch("/boards/{boardID}/tasks/{taskID}", taskHandler.Update)
			r.Put("/boards/{boardID}/tasks/{taskID}/status", taskHandler.UpdateStatus)
			r.Put(
				"/boards/{boardID}/tasks/{taskID}/subtasks/{subtaskID}/status",
				taskHandler.UpdateSubtaskStatus,
			)
			r.Delete("/boards/{boardID}/tasks/{taskID}", taskHandler.Delete)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
