package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dom/news-api/internal/api/middleware"
	"github.com/dom/news-api/internal/api/respond"
	"github.com/dom/news-api/internal/auth"
	"github.com/dom/news-api/internal/domain"
	"github.com/dom/news-api/internal/logging"
	"github.com/dom/news-api/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
	transport   *auth.Transport
	logger      logging.Logger
}

func NewAuthHandler(authService *service.AuthService, transport *auth.Transport, logger logging.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		transport:   transport,
		logger:      logger,
	}
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type UserResponse struct {
	ID    string      `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type AuthResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:    u.ID.String(),
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "All fields are required")
		return
	}

	user, err := h.authService.Register(r.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		writeServiceError(w, r, h.logger, "auth.Register", err)
		return
	}

	respond.JSON(w, http.StatusCreated, AuthResponse{
		Message: "User registered successfully",
		User:    toUserResponse(user),
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, false)
}

// LoginWithRefresh also issues the long-lived refresh cookie.
func (h *AuthHandler) LoginWithRefresh(w http.ResponseWriter, r *http.Request) {
	h.login(w, r, true)
}

func (h *AuthHandler) login(w http.ResponseWriter, r *http.Request, withRefresh bool) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		respond.Error(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	result, err := h.authService.Login(r.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	}, withRefresh)
	if err != nil {
		writeServiceError(w, r, h.logger, "auth.Login", err)
		return
	}

	h.transport.Attach(w, auth.AccessToken, result.AccessToken)
	if withRefresh {
		h.transport.Attach(w, auth.RefreshToken, result.RefreshToken)
	}

	respond.JSON(w, http.StatusOK, AuthResponse{
		Message: "Login successful",
		User:    toUserResponse(result.User),
	})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	token, _ := h.transport.Extract(r, auth.RefreshToken)

	result, err := h.authService.Refresh(r.Context(), token)
	if err != nil {
		writeServiceError(w, r, h.logger, "auth.Refresh", err)
		return
	}

	h.transport.Attach(w, auth.AccessToken, result.AccessToken)
	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Access token refreshed"})
}

// Logout only clears the cookies. Issued tokens stay valid until they expire.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.transport.Clear(w)
	respond.JSON(w, http.StatusOK, MessageResponse{Message: "Logged out successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.authService.GetUserByID(r.Context(), userID)
	if err != nil {
		writeServiceError(w, r, h.logger, "auth.Me", err)
		return
	}

	respond.JSON(w, http.StatusOK, map[string]interface{}{"data": user})
}
