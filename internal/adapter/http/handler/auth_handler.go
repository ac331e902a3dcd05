package handler

import (
	"context"
	"net/http"

	"github.com/iho/gobudget/internal/adapter/http/dto"
	"github.com/iho/gobudget/internal/domain"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/usecase"
)

// AuthService defines the behavior needed by AuthHandler.
type AuthService interface {
	Register(ctx context.Context, input usecase.RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, input usecase.AuthenticateInput) (*domain.User, error)
}

// TokenIssuer signs access tokens.
type TokenIssuer interface {
	Generate(user *domain.User) (string, error)
}

// AuthHandler handles registration and login.
type AuthHandler struct {
	users   AuthService
	tokens  TokenIssuer
	metrics *metrics.Metrics
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(users AuthService, tokens TokenIssuer, m *metrics.Metrics) *AuthHandler {
	return &AuthHandler{users: users, tokens: tokens, metrics: m}
}

// Register creates a user and returns an access token.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.users.Register(r.Context(), req.ToUseCaseInput())
	if err != nil {
		respondError(w, r, "failed to register", err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respondError(w, r, "failed to generate token", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.TokenResponse{Token: token})
}

// Login verifies credentials and returns an access token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	user, err := h.users.Authenticate(r.Context(), req.ToUseCaseInput())
	if err != nil {
		h.metrics.AuthAttempts.WithLabelValues("failure").Inc()
		respondError(w, r, "invalid credentials", err)
		return
	}

	token, err := h.tokens.Generate(user)
	if err != nil {
		respondError(w, r, "failed to generate token", err)
		return
	}

	h.metrics.AuthAttempts.WithLabelValues("success").Inc()

	writeJSON(w, http.StatusOK, dto.LoginResponse{
		Token: token,
		User:  dto.UserFromDomain(user),
	})
}
