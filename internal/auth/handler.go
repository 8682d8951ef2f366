package auth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ayush/gastos-api/internal/models"
	"github.com/ayush/gastos-api/internal/respond"
	"github.com/ayush/gastos-api/internal/store"
)

// UserStore defines the interface for user persistence.
type UserStore interface {
	CreateUser(ctx context.Context, name, email, hashedPw string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Handler holds auth-related HTTP handlers.
type Handler struct {
	users  UserStore
	tokens *TokenManager
}

func NewHandler(users UserStore, tokens *TokenManager) *Handler {
	return &Handler{users: users, tokens: tokens}
}

// Register creates a new user and returns a token for it.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if !respond.Decode(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.Name)

	hashed, err := HashPassword(req.Password)
	if err != nil {
		respond.Internal(w, r, "hash password", err)
		return
	}

	user, err := h.users.CreateUser(r.Context(), name, req.Email, hashed)
	if errors.Is(err, store.ErrEmailTaken) {
		respond.Error(w, http.StatusBadRequest, "Email já cadastrado")
		return
	}
	if err != nil {
		respond.Internal(w, r, "create user", err)
		return
	}

	token, err := h.tokens.Sign(user.ID)
	if err != nil {
		respond.Internal(w, r, "sign token", err)
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	respond.JSON(w, http.StatusOK, models.RegisterResponse{Token: token, Name: user.Name})
}

// Login checks credentials and returns a token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	user, err := h.users.GetUserByEmail(r.Context(), req.Email)
	if err != nil && !errors.Is(err, store.ErrNotFound) {
		respond.Internal(w, r, "find user", err)
		return
	}
	if user == nil || !CheckPassword(user.Password, req.Password) {
		respond.Error(w, http.StatusUnauthorized, "Credenciais inválidas")
		return
	}

	token, err := h.tokens.Sign(user.ID)
	if err != nil {
		respond.Internal(w, r, "sign token", err)
		return
	}
	respond.JSON(w, http.StatusOK, models.LoginResponse{Token: token, Nome: user.Name})
}
