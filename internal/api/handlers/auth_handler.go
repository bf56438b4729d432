package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/shreyannandanwar/CrewAI/internal/api/respond"
	"github.com/shreyannandanwar/CrewAI/internal/auth"
	"github.com/shreyannandanwar/CrewAI/internal/services"
	"github.com/shreyannandanwar/CrewAI/internal/validation"
)

// AuthHandler handles HTTP requests for registration, login and profiles.
type AuthHandler struct {
	service services.AuthServiceProvider
	tokens  *auth.TokenService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(service services.AuthServiceProvider, tokens *auth.TokenService) *AuthHandler {
	return &AuthHandler{service: service, tokens: tokens}
}

// Register handles new user registration.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req validation.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	user, err := h.service.Register(req)
	if err != nil {
		h.writeFlowError(w, err, "Registration")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respond.InternalError(w)
		return
	}

	respond.Success(w, http.StatusCreated, "User registered successfully", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// Login handles user authentication and token issuance.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req validation.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	user, err := h.service.Authenticate(req)
	if err != nil {
		h.writeFlowError(w, err, "Login")
		return
	}

	token, err := h.tokens.Issue(user.ID)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respond.InternalError(w)
		return
	}

	respond.Success(w, http.StatusOK, "Login successful", map[string]interface{}{
		"token": token,
		"user":  user,
	})
}

// GetProfile returns the user already authenticated by the middleware.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("No authenticated user in request context")
		respond.InternalError(w)
		return
	}

	respond.Success(w, http.StatusOK, "", map[string]interface{}{
		"user": user,
	})
}

// UpdateProfile applies a partial update to the authenticated user.
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.UserFromContext(r.Context())
	if !ok {
		log.Error().Msg("No authenticated user in request context")
		respond.InternalError(w)
		return
	}

	var req validation.ProfileUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Fail(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	updated, err := h.service.UpdateProfile(user.ID, req)
	if err != nil {
		h.writeFlowError(w, err, "Profile update")
		return
	}

	respond.Success(w, http.StatusOK, "Profile updated successfully", map[string]interface{}{
		"user": updated,
	})
}

// writeFlowError maps the closed set of flow errors onto HTTP responses.
// Anything outside the set is logged and masked as a 500.
func (h *AuthHandler) writeFlowError(w http.ResponseWriter, err error, op string) {
	var validationErr *services.ValidationError
	var conflictErr *services.ConflictError
	var credentialsErr *services.CredentialsError

	switch {
	case errors.As(err, &validationErr):
		respond.Fail(w, http.StatusBadRequest, "Validation failed", validationErr.Fields)
	case errors.As(err, &conflictErr):
		respond.Fail(w, http.StatusConflict, conflictErr.Message, map[string]string{conflictErr.Field: conflictErr.Reason})
	case errors.As(err, &credentialsErr):
		respond.Fail(w, http.StatusUnauthorized, "Invalid credentials", map[string]string{credentialsErr.Field: credentialsErr.Reason})
	case errors.Is(err, services.ErrUserNotFound):
		// The authenticated subject vanished between gate and flow.
		respond.Fail(w, http.StatusUnauthorized, "Invalid token", nil)
	default:
		log.Error().Err(err).Msg(op + " failed")
		respond.InternalError(w)
	}
}
