package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"vocabquiz/internal/service"
)

// AuthHandler handles registration and login
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type registerRequest struct {
	Name     string `json:"fullName"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Name     string `json:"fullName"`
	Password string `json:"password"`
}

type loginResponse struct {
	UserID    int64     `json:"userID"`
	Name      string    `json:"fullName"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Register handles POST /users/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", nil)
		return
	}

	user, err := h.authService.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondWithServiceError(w, "Error registering user", err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"userID":   user.ID,
		"fullName": user.Name,
	})
}

// Login handles POST /users/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, ErrInvalidRequest, "", nil)
		return
	}

	token, expiresAt, user, err := h.authService.Login(r.Context(), req.Name, req.Password)
	if err != nil {
		respondWithServiceError(w, "Error logging in", err)
		return
	}

	respondJSON(w, http.StatusOK, loginResponse{
		UserID:    user.ID,
		Name:      user.Name,
		Token:     token,
		ExpiresAt: expiresAt,
	})
}
