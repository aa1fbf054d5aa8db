package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/trashtdl/todosync-server/internal/logger"
	"github.com/trashtdl/todosync-server/internal/model"
	"github.com/trashtdl/todosync-server/internal/service"
)

// AuthService defines registration, verification and login operations.
type AuthService interface {
	Register(ctx context.Context, params service.RegisterParams) error
	Verify(ctx context.Context, code string) error
	Login(ctx context.Context, params service.LoginParams) (model.Session, error)
}

// Auth handles HTTP endpoints for the account lifecycle.
type Auth struct {
	authService AuthService
	logger      *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, logger *logger.Logger) *Auth {
	return &Auth{
		authService: authService,
		logger:      logger,
	}
}

type registerRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token     string `json:"token"`
	AccountID string `json:"userId"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /api/auth/register.
func (h *Auth) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Username == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email, username and password are required")
		return
	}

	err := h.authService.Register(r.Context(), service.RegisterParams{
		Email:    req.Email,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.logger.Info("Auth handler: registration failed",
			"email", req.Email,
			"error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, messageResponse{
		Message: "registration accepted, check your email for a verification link",
	})
}

// Verify handles GET /api/auth/verify?code=...
func (h *Auth) Verify(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "verification code is required")
		return
	}

	if err := h.authService.Verify(r.Context(), code); err != nil {
		h.logger.Info("Auth handler: verification failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, messageResponse{
		Message: "account verified successfully, you can now log in",
	})
}

// Login handles POST /api/auth/login.
func (h *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	identifier := req.Email
	if identifier == "" {
		identifier = req.Username
	}
	if identifier == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "identifier and password are required")
		return
	}

	session, err := h.authService.Login(r.Context(), service.LoginParams{
		Identifier: identifier,
		Password:   req.Password,
	})
	if err != nil {
		h.logger.Info("Auth handler: login failed", "error", err.Error())
		handleError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		AccountID: session.AccountID.String(),
	})
}
