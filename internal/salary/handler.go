package salary

import (
	"context"
	"net/http"

	"github.com/ayush/gastos-api/internal/middleware"
	"github.com/ayush/gastos-api/internal/models"
	"github.com/ayush/gastos-api/internal/respond"
)

// Store defines the interface for salary persistence.
type Store interface {
	Get(ctx context.Context, userID string) (float64, error)
	Set(ctx context.Context, userID string, value float64) error
}

// Handler serves the caller's single salary record.
type Handler struct {
	store Store
}

func NewHandler(s Store) *Handler {
	return &Handler{store: s}
}

// Get responds with the salary as a bare JSON number, 0 when never set.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	value, err := h.store.Get(r.Context(), userID)
	if err != nil {
		respond.Internal(w, r, "get salary", err)
		return
	}
	respond.JSON(w, http.StatusOK, value)
}

// Set creates or replaces the caller's salary and echoes it back.
func (h *Handler) Set(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autorizado")
		return
	}

	var req models.SalaryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if err := h.store.Set(r.Context(), userID, *req.Value); err != nil {
		respond.Internal(w, r, "set salary", err)
		return
	}
	respond.JSON(w, http.StatusOK, req)
}
