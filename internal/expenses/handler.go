package expenses

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/ayush/gastos-api/internal/metrics"
	"github.com/ayush/gastos-api/internal/middleware"
	"github.com/ayush/gastos-api/internal/models"
	"github.com/ayush/gastos-api/internal/respond"
	"github.com/ayush/gastos-api/internal/store"
)

// ExpenseStore defines the interface for expense persistence.
type ExpenseStore interface {
	Insert(ctx context.Context, e *models.Expense) error
	ListByUser(ctx context.Context, userID string) ([]models.Expense, error)
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Expense, error)
	Update(ctx context.Context, id, owner string, set bson.M) (primitive.ObjectID, string, error)
	Delete(ctx context.Context, id, owner string) (string, error)
	MonthlyTotals(ctx context.Context, userID string) ([]models.MonthlyTotal, error)
}

// TotalsCache defines the interface for the monthly totals cache.
type TotalsCache interface {
	Get(ctx context.Context, userID string) ([]models.MonthlyTotal, bool, error)
	Set(ctx context.Context, userID string, totals []models.MonthlyTotal) error
	Invalidate(ctx context.Context, userID string) error
}

// Options tune the handler.
type Options struct {
	// Location bounds months for GET /gastos/{ano}/{mes}. Defaults to UTC.
	Location *time.Location
	// Legacy matches update and delete by id only and reports an update miss as
	// {"id": null} instead of 404.
	Legacy bool
	// Cache is optional.
	Cache TotalsCache
	// Now defaults to time.Now.
	Now func() time.Time
}

// Handler holds expense HTTP handlers. Every operation is scoped to the caller.
type Handler struct {
	store  ExpenseStore
	cache  TotalsCache
	loc    *time.Location
	legacy bool
	now    func() time.Time
}

func NewHandler(s ExpenseStore, opts Options) *Handler {
	h := &Handler{store: s, cache: opts.Cache, loc: opts.Location, legacy: opts.Legacy, now: opts.Now}
	if h.loc == nil {
		h.loc = time.UTC
	}
	if h.now == nil {
		h.now = time.Now
	}
	return h
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autorizado")
	}
	return userID, ok
}

// Create stores a new expense owned by the caller, dated now.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req models.CreateExpenseRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	e := &models.Expense{
		Value:       *req.Value,
		Description: req.Description,
		Category:    req.Category,
		Status:      req.Status,
		UserID:      userID,
		Date:        h.now().UTC(),
	}
	if err := h.store.Insert(r.Context(), e); err != nil {
		respond.Internal(w, r, "insert expense", err)
		return
	}
	h.invalidate(r.Context(), userID)

	respond.JSON(w, http.StatusOK, e)
}

// List returns all of the caller's expenses.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	list, err := h.store.ListByUser(r.Context(), userID)
	if err != nil {
		respond.Internal(w, r, "list expenses", err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// ListByMonth returns the caller's expenses dated within {ano}/{mes}.
func (h *Handler) ListByMonth(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	period, fields := ParsePeriod(chi.URLParam(r, "ano"), chi.URLParam(r, "mes"))
	if fields != nil {
		respond.ValidationError(w, "invalid period", fields)
		return
	}

	from, to := MonthRange(period, h.loc)
	list, err := h.store.ListByUserBetween(r.Context(), userID, from, to)
	if err != nil {
		respond.Internal(w, r, "list expenses by month", err)
		return
	}
	respond.JSON(w, http.StatusOK, list)
}

// MonthlyTotals returns the caller's per-month sums, oldest first.
func (h *Handler) MonthlyTotals(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	if h.cache != nil {
		totals, hit, err := h.cache.Get(r.Context(), userID)
		switch {
		case err != nil:
			metrics.RecordCacheLookup("error")
			slog.WarnContext(r.Context(), "totals cache get failed", "err", err, "user_id", userID)
		case hit:
			metrics.RecordCacheLookup("hit")
			respond.JSON(w, http.StatusOK, totals)
			return
		default:
			metrics.RecordCacheLookup("miss")
		}
	}

	totals, err := h.store.MonthlyTotals(r.Context(), userID)
	if err != nil {
		respond.Internal(w, r, "aggregate monthly totals", err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(r.Context(), userID, totals); err != nil {
			slog.WarnContext(r.Context(), "totals cache set failed", "err", err, "user_id", userID)
		}
	}
	respond.JSON(w, http.StatusOK, totals)
}

// Update applies a partial patch. userId is always forced to the caller and date to
// the supplied value or the Unix epoch.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}

	var patch models.ExpensePatch
	if !respond.Decode(w, r, &patch) {
		return
	}
	patch.UserID = userID
	if patch.Date.IsZero() {
		patch.Date = models.Epoch()
	}

	owner := userID
	if h.legacy {
		owner = ""
	}

	id, prevOwner, err := h.store.Update(r.Context(), chi.URLParam(r, "id"), owner, patch.Fields())
	switch {
	case errors.Is(err, store.ErrInvalidID):
		respond.Error(w, http.StatusBadRequest, "invalid expense id")
		return
	case errors.Is(err, store.ErrNotFound):
		if !h.legacy {
			respond.Error(w, http.StatusNotFound, "expense not found")
			return
		}
		respond.JSON(w, http.StatusOK, models.UpdateExpenseResponse{ExpensePatch: patch})
		return
	case err != nil:
		respond.Internal(w, r, "update expense", err)
		return
	}

	h.invalidate(r.Context(), userID)
	if prevOwner != userID {
		h.invalidate(r.Context(), prevOwner)
	}
	respond.JSON(w, http.StatusOK, models.UpdateExpenseResponse{ID: &id, ExpensePatch: patch})
}

// Delete removes an expense by id. Outside legacy mode only the caller's own
// expenses can be removed.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	var owner string
	if !h.legacy {
		userID, ok := callerID(w, r)
		if !ok {
			return
		}
		owner = userID
	}

	prevOwner, err := h.store.Delete(r.Context(), chi.URLParam(r, "id"), owner)
	switch {
	case errors.Is(err, store.ErrInvalidID):
		respond.Error(w, http.StatusBadRequest, "invalid expense id")
		return
	case errors.Is(err, store.ErrNotFound):
		respond.JSON(w, http.StatusOK, models.DeleteResponse{Deleted: false})
		return
	case err != nil:
		respond.Internal(w, r, "delete expense", err)
		return
	}

	h.invalidate(r.Context(), prevOwner)
	respond.JSON(w, http.StatusOK, models.DeleteResponse{Deleted: true})
}

func (h *Handler) invalidate(ctx context.Context, userID string) {
	if h.cache == nil || userID == "" {
		return
	}
	if err := h.cache.Invalidate(ctx, userID); err != nil {
		slog.WarnContext(ctx, "totals cache invalidate failed", "err", err, "user_id", userID)
	}
}
