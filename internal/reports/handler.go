package reports

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ayush/gastos-api/internal/expenses"
	"github.com/ayush/gastos-api/internal/middleware"
	"github.com/ayush/gastos-api/internal/models"
	"github.com/ayush/gastos-api/internal/respond"
	"github.com/ayush/gastos-api/internal/store"
)

// ExpenseLister is the slice of the expense store statements need.
type ExpenseLister interface {
	ListByUserBetween(ctx context.Context, userID string, from, to time.Time) ([]models.Expense, error)
}

// FileStore keeps rendered statements. Keys are always derived from the caller.
type FileStore interface {
	Put(ctx context.Context, userID, id string, data []byte) (int64, error)
	List(ctx context.Context, userID string) ([]models.Report, error)
	Get(ctx context.Context, userID, id string) ([]byte, error)
}

// Handler serves monthly CSV statements.
type Handler struct {
	expenses ExpenseLister
	files    FileStore
	loc      *time.Location
	now      func() time.Time
}

// NewHandler returns a statements handler. files may be nil, in which case every
// endpoint answers 503.
func NewHandler(e ExpenseLister, files FileStore, loc *time.Location) *Handler {
	if loc == nil {
		loc = time.UTC
	}
	return &Handler{expenses: e, files: files, loc: loc, now: time.Now}
}

func (h *Handler) ready(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		respond.Error(w, http.StatusUnauthorized, "Não autorizado")
		return "", false
	}
	if h.files == nil {
		respond.Error(w, http.StatusServiceUnavailable, "reports are not configured")
		return "", false
	}
	return userID, true
}

// Create renders the caller's expenses of {ano}/{mes} and stores the statement.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ready(w, r)
	if !ok {
		return
	}

	period, fields := expenses.ParsePeriod(chi.URLParam(r, "ano"), chi.URLParam(r, "mes"))
	if fields != nil {
		respond.ValidationError(w, "invalid period", fields)
		return
	}

	from, to := expenses.MonthRange(period, h.loc)
	list, err := h.expenses.ListByUserBetween(r.Context(), userID, from, to)
	if err != nil {
		respond.Internal(w, r, "list expenses for report", err)
		return
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Date.Before(list[j].Date) })

	data, err := RenderCSV(list, h.loc)
	if err != nil {
		respond.Internal(w, r, "render report", err)
		return
	}

	id := store.ReportID(period.Year, period.Month, uuid.NewString())
	size, err := h.files.Put(r.Context(), userID, id, data)
	if err != nil {
		respond.Internal(w, r, "store report", err)
		return
	}

	respond.JSON(w, http.StatusCreated, models.Report{
		ID:        id,
		Year:      period.Year,
		Month:     period.Month,
		Size:      size,
		CreatedAt: h.now().UTC(),
	})
}

// List returns the caller's statements, newest period first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ready(w, r)
	if !ok {
		return
	}

	list, err := h.files.List(r.Context(), userID)
	if err != nil {
		respond.Internal(w, r, "list reports", err)
		return
	}
	sort.SliceStable(list, func(i, j int) bool {
		if list[i].Year != list[j].Year {
			return list[i].Year > list[j].Year
		}
		if list[i].Month != list[j].Month {
			return list[i].Month > list[j].Month
		}
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	respond.JSON(w, http.StatusOK, list)
}

// Download streams one statement as text/csv.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.ready(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	if _, valid := store.ParseReportID(id); !valid {
		respond.Error(w, http.StatusBadRequest, "invalid report id")
		return
	}

	data, err := h.files.Get(r.Context(), userID, id)
	if errors.Is(err, store.ErrNotFound) {
		respond.Error(w, http.StatusNotFound, "report not found")
		return
	}
	if err != nil {
		respond.Internal(w, r, "get report", err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+id+".csv")
	w.Write(data)
}
