// Package handler is the HTTP layer: it parses requests, calls services, and
// writes JSON responses. No business rules live here — if a handler grows an
// if-statement about roles or ratings, it belongs in a service.
package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/sakif/belfast-eats/internal/auth"
	"github.com/sakif/belfast-eats/internal/service"
)

// AuthHandler owns the register, login, and me endpoints.
type AuthHandler struct {
	authSvc *service.AuthService
	logger  *slog.Logger
}

// NewAuthHandler creates an AuthHandler. Dependencies are injected; the
// handler has no knowledge of how they're constructed.
func NewAuthHandler(authSvc *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authSvc: authSvc,
		logger:  logger,
	}
}

// registerRequest is the expected JSON body for registration. Only email and
// password are required; the service applies defaults for the rest.
type registerRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	Username   string `json:"username"`
	Role       string `json:"role"`
	InviteCode string `json:"invite_code"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /api/v1.0/auth/register
// Responses: 201 user (no password hash) | 400 missing fields or duplicate
// email | 403 wrong admin invite code.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid register JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	user, err := h.authSvc.Register(r.Context(), service.RegisterInput{
		Email:      req.Email,
		Password:   req.Password,
		Username:   req.Username,
		Role:       req.Role,
		InviteCode: req.InviteCode,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	// The PasswordHash field is json:"-" so the model serialises clean.
	writeJSON(w, http.StatusCreated, user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse mirrors what the frontend stores after login.
type loginResponse struct {
	AccessToken string `json:"access_token"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
}

// HandleLogin verifies credentials and returns a bearer token.
//
// HTTP: POST /api/v1.0/auth/login
// Responses: 200 {access_token, user_id, role} | 400 missing fields |
// 401 invalid credentials (same response for unknown email and bad password).
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid login JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "Invalid JSON body",
		})
		return
	}

	result, err := h.authSvc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		AccessToken: result.Token,
		UserID:      result.UserID,
		Role:        string(result.Role),
	})
}

// HandleMe returns the authenticated caller's profile.
//
// HTTP: GET /api/v1.0/auth/me (requires auth)
// Responses: 200 user sans hash | 404 if the account no longer exists.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		// RequireAuth guards this route; reaching here anonymously is a
		// wiring bug, but answer 401 rather than panic.
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{
			Error:   "unauthorized",
			Message: "valid authentication required",
		})
		return
	}

	user, err := h.authSvc.GetUserByID(r.Context(), id.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
