package reports

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayush/gastos-api/internal/middleware"
	"github.com/ayush/gastos-api/internal/models"
	"github.com/ayush/gastos-api/internal/store"
)

type fakeExpenses struct {
	list []models.Expense
}

func (f *fakeExpenses) ListByUserBetween(_ context.Context, userID string, from, to time.Time) ([]models.Expense, error) {
	out := []models.Expense{}
	for _, e := range f.list {
		if e.UserID == userID && !e.Date.Before(from) && e.Date.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

type memFiles struct {
	objects map[string][]byte
}

func (m *memFiles) Put(_ context.Context, userID, id string, data []byte) (int64, error) {
	m.objects[userID+"/"+id] = data
	return int64(len(data)), nil
}

func (m *memFiles) List(_ context.Context, userID string) ([]models.Report, error) {
	out := []models.Report{}
	for key, data := range m.objects {
		owner, id, _ := strings.Cut(key, "/")
		if owner != userID {
			continue
		}
		p, _ := store.ParseReportID(id)
		out = append(out, models.Report{ID: id, Year: p.Year, Month: p.Month, Size: int64(len(data))})
	}
	return out, nil
}

func (m *memFiles) Get(_ context.Context, userID, id string) ([]byte, error) {
	data, ok := m.objects[userID+"/"+id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return data, nil
}

func newRouter(h *Handler, userID string) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(middleware.WithUserID(req.Context(), userID)))
		})
	})
	r.Post("/relatorios/{ano}/{mes}", h.Create)
	r.Get("/relatorios", h.List)
	r.Get("/relatorios/{id}", h.Download)
	return r
}

func call(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestReports_CreateListDownload(t *testing.T) {
	exp := &fakeExpenses{list: []models.Expense{
		{Value: 30, Description: "b", Category: "c", UserID: "u1", Date: time.Date(2024, 3, 20, 0, 0, 0, 0, time.UTC)},
		{Value: 10, Description: "a", Category: "c", UserID: "u1", Date: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		{Value: 99, Description: "x", Category: "c", UserID: "u1", Date: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)},
		{Value: 77, Description: "y", Category: "c", UserID: "u2", Date: time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)},
	}}
	files := &memFiles{objects: map[string][]byte{}}
	h := NewHandler(exp, files, time.UTC)
	u1 := newRouter(h, "u1")

	rec := call(u1, http.MethodPost, "/relatorios/2024/3")
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var report models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, 2024, report.Year)
	assert.Equal(t, 3, report.Month)
	assert.True(t, strings.HasPrefix(report.ID, "2024-03-"))
	assert.Positive(t, report.Size)

	rec = call(u1, http.MethodGet, "/relatorios")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Report
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, report.ID, list[0].ID)

	rec = call(u1, http.MethodGet, "/relatorios/"+report.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "date,description,category,status,value\n"+
		"2024-03-01,a,c,,10.00\n"+
		"2024-03-20,b,c,,30.00\n"+
		"total,,,,40.00\n", rec.Body.String())

	// Another user cannot reach u1's statement even with its id.
	u2 := newRouter(h, "u2")
	assert.Equal(t, http.StatusNotFound, call(u2, http.MethodGet, "/relatorios/"+report.ID).Code)
	assert.JSONEq(t, `[]`, call(u2, http.MethodGet, "/relatorios").Body.String())
}

func TestReports_BadInput(t *testing.T) {
	h := NewHandler(&fakeExpenses{}, &memFiles{objects: map[string][]byte{}}, time.UTC)
	r := newRouter(h, "u1")

	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodPost, "/relatorios/2024/13").Code)
	assert.Equal(t, http.StatusBadRequest, call(r, http.MethodGet, "/relatorios/not-a-report").Code)
	assert.Equal(t, http.StatusNotFound,
		call(r, http.MethodGet, "/relatorios/2024-03-123e4567-e89b-12d3-a456-426614174000").Code)
}

func TestReports_NotConfigured(t *testing.T) {
	r := newRouter(NewHandler(&fakeExpenses{}, nil, time.UTC), "u1")

	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodPost, "/relatorios/2024/3").Code)
	assert.Equal(t, http.StatusServiceUnavailable, call(r, http.MethodGet, "/relatorios").Code)
}
