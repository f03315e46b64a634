package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/consorciovial/ssoma-server/internal/services"
)

// AuthHandler serves account registration and login.
type AuthHandler struct {
	userSvc *services.UserService
	logger  *zap.SugaredLogger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(userSvc *services.UserService, logger *zap.SugaredLogger) *AuthHandler {
	return &AuthHandler{userSvc: userSvc, logger: logger}
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if _, err := h.userSvc.EnsureTable(r.Context()); err != nil {
		h.logger.Errorw("Ensure users table failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Storage unavailable")
		return
	}

	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: email, password")
		return
	}

	user, err := h.userSvc.Register(r.Context(), req.Email, req.Name, req.Role, req.Password)
	if err != nil {
		h.logger.Errorw("Registration failed", "email", req.Email, "error", err)
		respondError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Login handles POST /api/v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if _, err := h.userSvc.EnsureTable(r.Context()); err != nil {
		h.logger.Errorw("Ensure users table failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Storage unavailable")
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields: email, password")
		return
	}

	user, token, err := h.userSvc.Login(r.Context(), req.Email, req.Password)
	if errors.Is(err, services.ErrInvalidCredentials) {
		respondError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if err != nil {
		h.logger.Errorw("Login failed", "email", req.Email, "error", err)
		respondError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
		"token":   token,
	})
}
