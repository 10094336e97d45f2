package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/veris-labs/veris-core/internal/core/domain"
	"github.com/veris-labs/veris-core/internal/core/ports/driving"
)

// ErrorResponse represents an API error response
// @Description API error response
type ErrorResponse struct {
	Error string `json:"error" example:"invalid request body"`
}

// StatusResponse represents a simple status response
// @Description Simple status response
type StatusResponse struct {
	Status string `json:"status" example:"ok"`
}

// Health endpoints

// handleHealth godoc
// @Summary      Health check
// @Description  Returns the health status of the API
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Router       /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady godoc
// @Summary      Readiness check
// @Description  Returns the readiness status of the API (pings the active identity store)
// @Tags         Health
// @Produce      json
// @Success      200  {object}  StatusResponse
// @Failure      503  {object}  ErrorResponse  "Store unreachable"
// @Router       /ready [get]
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store unreachable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

// handleVersion godoc
// @Summary      Get API version
// @Description  Returns the current API version
// @Tags         Health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /version [get]
func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"version": s.version})
}

// Auth endpoints

// handleRegister godoc
// @Summary      Register user
// @Description  Create a new identity record with a hashed password
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body      driving.RegisterRequest  true  "Registration details"
// @Success      200      {object}  domain.UserSummary
// @Failure      400      {object}  ErrorResponse  "Invalid input or username exists"
// @Failure      503      {object}  ErrorResponse  "Store unreachable"
// @Router       /register/ [post]
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req driving.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.authService.Register(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "username, email, and password are required")
		case errors.Is(err, domain.ErrAlreadyExists):
			writeError(w, http.StatusBadRequest, "username exists")
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, user.ToSummary())
}

// handleToken godoc
// @Summary      Issue access token
// @Description  Authenticate with form-encoded username and password to receive a bearer token
// @Tags         Authentication
// @Accept       x-www-form-urlencoded
// @Produce      json
// @Param        username  formData  string  true  "Username"
// @Param        password  formData  string  true  "Password"
// @Success      200       {object}  domain.TokenResponse
// @Failure      401       {object}  ErrorResponse  "Invalid credentials"
// @Failure      503       {object}  ErrorResponse  "Store unreachable"
// @Router       /token [post]
func (s *Server) handleToken(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form body")
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	resp, err := s.authService.Login(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			writeError(w, http.StatusUnauthorized, "invalid credentials")
		case errors.Is(err, domain.ErrServiceUnavailable):
			writeError(w, http.StatusServiceUnavailable, "service unavailable")
		default:
			writeError(w, http.StatusInternalServerError, "authentication failed")
		}
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// User endpoints

// handleListUsers godoc
// @Summary      List all users
// @Description  Get all identity records with the password hash omitted
// @Tags         Users
// @Produce      json
// @Success      200  {array}   domain.UserSummary
// @Failure      503  {object}  ErrorResponse  "Store unreachable"
// @Router       /users/ [get]
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.userService.List(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	summaries := make([]*domain.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = u.ToSummary()
	}

	writeJSON(w, http.StatusOK, summaries)
}

// handleGetMe godoc
// @Summary      Get current user
// @Description  Get the identity of the bearer token's subject
// @Tags         Users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.UserSummary
// @Failure      401  {object}  ErrorResponse  "Unauthorized"
// @Failure      404  {object}  ErrorResponse  "User not found"
// @Router       /me [get]
func (s *Server) handleGetMe(w http.ResponseWriter, r *http.Request) {
	authCtx := GetAuthContext(r.Context())
	if authCtx == nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	user, err := s.userService.Get(r.Context(), authCtx.Username)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "user not found")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "service unavailable")
		return
	}

	writeJSON(w, http.StatusOK, user.ToSummary())
}

// Helper functions

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
