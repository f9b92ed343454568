// ABOUTME: API server wiring: handler state and route registration
// ABOUTME: Public auth endpoints plus bearer-protected resource routes

package api

import (
	"log/slog"
	"net/http"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/query"
	"github.com/taskhub/taskhub/internal/store"
)

// Server holds the handler dependencies for the HTTP API.
type Server struct {
	store  *store.SQLiteStore
	auth   *auth.Service
	logger *slog.Logger

	// Per-resource query definitions, copied from the store's allow-lists
	// with the configured page size applied.
	projectQuery query.Definition
	taskQuery    query.Definition
}

// NewServer creates an API server. pageSize overrides the default page size
// when positive.
func NewServer(s *store.SQLiteStore, authSvc *auth.Service, pageSize int) *Server {
	projectQuery := store.ProjectQuery
	taskQuery := store.TaskQuery
	if pageSize > 0 {
		projectQuery.PageSize = pageSize
		taskQuery.PageSize = pageSize
	}

	return &Server{
		store:        s,
		auth:         authSvc,
		logger:       slog.Default().With("component", "api"),
		projectQuery: projectQuery,
		taskQuery:    taskQuery,
	}
}

// Routes returns the HTTP handler with all API routes registered.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)

	// Public auth endpoints
	mux.HandleFunc("POST /api/login", s.handleLogin)
	mux.HandleFunc("POST /api/register", s.handleRegister)

	// Everything below requires a valid bearer token
	authed := auth.Middleware(s.auth)
	protected := func(h http.HandlerFunc) http.Handler {
		return authed(h)
	}

	mux.Handle("GET /api/user", protected(s.handleProfile))
	mux.Handle("POST /api/logout", protected(s.handleLogout))

	mux.Handle("GET /api/projects", protected(s.handleListProjects))
	mux.Handle("POST /api/projects", protected(s.handleCreateProject))
	mux.Handle("GET /api/projects/{id}", protected(s.handleShowProject))
	mux.Handle("PUT /api/projects/{id}", protected(s.handleUpdateProject))
	mux.Handle("DELETE /api/projects/{id}", protected(s.handleDeleteProject))

	mux.Handle("GET /api/tasks", protected(s.handleListTasks))
	mux.Handle("POST /api/tasks", protected(s.handleCreateTask))
	mux.Handle("GET /api/tasks/{id}", protected(s.handleShowTask))
	mux.Handle("PUT /api/tasks/{id}", protected(s.handleUpdateTask))
	mux.Handle("DELETE /api/tasks/{id}", protected(s.handleDeleteTask))

	return mux
}

// handleHealth handles GET /healthz liveness checks.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
