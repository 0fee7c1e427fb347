package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/isandoval/librarian-be/internal/apperr"
	"github.com/isandoval/librarian-be/internal/auth"
	"github.com/isandoval/librarian-be/internal/models"
	"github.com/isandoval/librarian-be/internal/services"
	"github.com/rs/zerolog/log"
)

var validate = validator.New()

// UserHandler handles HTTP requests for registration and login.
type UserHandler struct {
	service services.UserServiceProvider
	tokens  *auth.TokenService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider, tokens *auth.TokenService) *UserHandler {
	return &UserHandler{service: service, tokens: tokens}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role" validate:"required"`
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid request body"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "All fields are required"})
		return
	}

	role, ok := models.ParseRole(payload.Role)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid role"})
		return
	}

	user, err := h.service.Register(payload.Username, payload.Email, payload.Password, role)
	if err != nil {
		if errors.Is(err, apperr.ErrDuplicateEmail) {
			respondError(w, err, "Email already exists")
			return
		}
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to register user")
		respondError(w, err, "Failed to register user")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"msg":  "User registered successfully",
		"user": user,
	})
}

// Login handles user authentication and token issuance.
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "Invalid request body"})
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"msg": "All fields are required"})
		return
	}

	user, err := h.service.Authenticate(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrNotFound):
			respondError(w, err, "User not found")
		case errors.Is(err, apperr.ErrUnauthorized):
			log.Warn().Str("email", payload.Email).Msg("Failed authentication attempt")
			respondError(w, err, "Invalid password")
		default:
			log.Error().Err(err).Str("email", payload.Email).Msg("Authentication failed unexpectedly")
			respondError(w, err, "Internal server error")
		}
		return
	}

	token, err := h.tokens.Issue(user)
	if err != nil {
		log.Error().Err(err).Str("user_id", user.ID).Msg("Failed to issue token")
		respondError(w, err, "Failed to generate token")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"msg": "Login successful",
		"user": map[string]interface{}{
			"id":       user.ID,
			"username": user.Username,
			"email":    user.Email,
			"role":     user.Role,
		},
		"token": token,
	})
}
