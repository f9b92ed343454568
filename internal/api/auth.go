// ABOUTME: HTTP handlers for registration, login, logout, and profile
// ABOUTME: Thin orchestration over the auth service; shape validation lives here

package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhub/taskhub/internal/auth"
	"github.com/taskhub/taskhub/internal/store"
)

// registerRequest is the JSON request body for POST /api/register.
type registerRequest struct {
	Name                 string `json:"name"`
	Email                string `json:"email"`
	Password             string `json:"password"`
	PasswordConfirmation string `json:"password_confirmation"`
}

// loginRequest is the JSON request body for POST /api/login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// tokenResponse is the JSON response for successful login.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// registerResponse is the JSON response for successful registration.
type registerResponse struct {
	Data        userJSON `json:"data"`
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
}

// handleRegister handles POST /api/register.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid JSON body.")
		return
	}

	errs := fieldErrors{}
	errs.requireString("name", req.Name)
	errs.requireEmail("email", req.Email)
	errs.requirePassword(req.Password, req.PasswordConfirmation)
	if !errs.empty() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := s.auth.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			errs.add("email", "The email has already been taken.")
			writeValidationErrors(w, errs)
			return
		}
		writeServerError(w, s.logger, err)
		return
	}

	token, err := s.auth.IssueToken(r.Context(), user.ID)
	if err != nil {
		writeServerError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Data:        serializeUser(user),
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// handleLogin handles POST /api/login.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeMessage(w, http.StatusUnprocessableEntity, "Invalid JSON body.")
		return
	}

	errs := fieldErrors{}
	errs.requireEmail("email", req.Email)
	errs.requireString("password", req.Password)
	if !errs.empty() {
		writeValidationErrors(w, errs)
		return
	}

	user, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// Identical body for unknown email and wrong password
			writeMessage(w, http.StatusUnauthorized, "Login information invalid")
			return
		}
		writeServerError(w, s.logger, err)
		return
	}

	token, err := s.auth.IssueToken(r.Context(), user.ID)
	if err != nil {
		writeServerError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   auth.TokenType,
	})
}

// handleProfile handles GET /api/user.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	user, err := s.store.GetUser(r.Context(), identity.UserID)
	if err != nil {
		writeServerError(w, s.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, serializeUser(user))
}

// handleLogout handles POST /api/logout by revoking the presenting token.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	if err := s.auth.RevokeToken(r.Context(), identity.TokenID); err != nil &&
		!errors.Is(err, store.ErrNotFound) {
		writeServerError(w, s.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
