// ABOUTME: HTTP handlers for the task resource
// ABOUTME: List pipeline with is_done filtering plus guarded CRUD

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/store"
)

// createTaskRequest is the JSON request body for POST /api/tasks.
type createTaskRequest struct {
	Title     string  `json:"title"`
	ProjectID *string `json:"project_id"`
}

// updateTaskRequest is the JSON request body for PUT /api/tasks/{id}.
// Nil fields are left unchanged.
type updateTaskRequest struct {
	Title  *string `json:"title"`
	IsDone *bool   `json:"is_done"`
}

// handleListTasks handles GET /api/tasks.
// Query: filter[is_done]=true|false, sort=title|is_done|created_at
// (optionally -prefixed), page=N.
func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	params, err := s.taskQuery.Parse(r.URL.Query())
	if err != nil {
		writeQueryError(w, err)
		return
	}

	tasks, total, err := s.store.ListTasks(r.Context(), params)
	if err != nil {
		writeServerError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listResponse{
		Data: serializeTasks(tasks),
		Meta: params.Meta(total),
	})
}

// handleCreateTask handles POST /api/tasks. A new task starts not-done and is
// created by the authenticated identity.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid JSON body.")
		return
	}

	errs := fieldErrors{}
	errs.requireString("title", req.Title)
	if req.ProjectID != nil {
		if _, err := s.store.GetProject(r.Context(), *req.ProjectID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				errs.add("project_id", "The selected project_id is invalid.")
			} else {
				writeServerError(w, s.logger, err)
				return
			}
		}
	}
	if !errs.empty() {
		writeValidationErrors(w, errs)
		return
	}

	task := &store.Task{
		CreatorID: identity.UserID,
		ProjectID: req.ProjectID,
		Title:     req.Title,
	}
	if err := s.store.CreateTask(r.Context(), task); err != nil {
		writeServerError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, resourceResponse{Data: serializeTask(task)})
}

// handleShowTask handles GET /api/tasks/{id}.
func (s *Server) handleShowTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.lookupTask(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resourceResponse{Data: serializeTask(task)})
}

// handleUpdateTask handles PUT /api/tasks/{id} with partial update semantics.
func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	task, ok := s.lookupTask(w, r)
	if !ok {
		return
	}
	if !auth.CanModify(identity, task) {
		writeNotFound(w)
		return
	}

	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid JSON body.")
		return
	}

	errs := fieldErrors{}
	if req.Title != nil {
		errs.requireString("title", *req.Title)
	}
	if !errs.empty() {
		writeValidationErrors(w, errs)
		return
	}

	update := store.TaskUpdate{Title: req.Title, IsDone: req.IsDone}
	if err := s.store.UpdateTask(r.Context(), task.ID, update); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w)
			return
		}
		writeServerError(w, s.logger, err)
		return
	}

	updated, err := s.store.GetTask(r.Context(), task.ID)
	if err != nil {
		writeServerError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, resourceResponse{Data: serializeTask(updated)})
}

// handleDeleteTask handles DELETE /api/tasks/{id}.
func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	task, ok := s.lookupTask(w, r)
	if !ok {
		return
	}
	if !auth.CanModify(identity, task) {
		writeNotFound(w)
		return
	}

	if err := s.store.DeleteTask(r.Context(), task.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w)
			return
		}
		writeServerError(w, s.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// lookupTask loads the task named by the path, writing a 404 when it doesn't
// exist.
func (s *Server) lookupTask(w http.ResponseWriter, r *http.Request) (*store.Task, bool) {
	task, err := s.store.GetTask(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeNotFound(w)
		} else {
			writeServerError(w, s.logger, err)
		}
		return nil, false
	}
	return task, true
}
