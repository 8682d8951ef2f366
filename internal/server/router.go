// Package server assembles the HTTP routes and middleware chain.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ayush/gastos-api/internal/auth"
	"github.com/ayush/gastos-api/internal/expenses"
	"github.com/ayush/gastos-api/internal/middleware"
	"github.com/ayush/gastos-api/internal/reports"
	"github.com/ayush/gastos-api/internal/respond"
	"github.com/ayush/gastos-api/internal/salary"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Deps are the handlers and collaborators the router mounts.
type Deps struct {
	Auth     *auth.Handler
	Expenses *expenses.Handler
	Salary   *salary.Handler
	Reports  *reports.Handler
	Tokens   middleware.TokenVerifier

	// Ping checks the primary store for /health. Optional.
	Ping func(ctx context.Context) error

	CORSAllowedOrigins []string
	AuthRatePerMinute  int

	// LegacyOwnership mounts DELETE /gastos/{id} outside the auth guard.
	LegacyOwnership bool
}

// NewRouter returns the application's HTTP handler.
func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.CORSAllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))
	r.Use(maxBytes(maxBodyBytes))

	r.Get("/health", health(d.Ping))
	r.Handle("/metrics", promhttp.Handler())

	// Public
	perMinute := d.AuthRatePerMinute
	if perMinute <= 0 {
		perMinute = 10
	}
	limiter := middleware.NewIPRateLimiter(perMinute, perMinute)
	r.With(limiter.Handler).Post("/register", d.Auth.Register)
	r.With(limiter.Handler).Post("/login", d.Auth.Login)

	if d.LegacyOwnership {
		r.Delete("/gastos/{id}", d.Expenses.Delete)
	}

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth(d.Tokens))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			respond.JSON(w, http.StatusOK, map[string]string{"status": "API de gastos funcionando 🚀"})
		})

		r.Post("/gastos", d.Expenses.Create)
		r.Get("/gastos", d.Expenses.List)
		r.Get("/gastos/{ano}/{mes}", d.Expenses.ListByMonth)
		r.Get("/gastos-acumulados", d.Expenses.MonthlyTotals)
		r.Put("/gastos/{id}", d.Expenses.Update)
		if !d.LegacyOwnership {
			r.Delete("/gastos/{id}", d.Expenses.Delete)
		}

		r.Get("/salario", d.Salary.Get)
		r.Post("/salario", d.Salary.Set)

		r.Post("/relatorios/{ano}/{mes}", d.Reports.Create)
		r.Get("/relatorios", d.Reports.List)
		r.Get("/relatorios/{id}", d.Reports.Download)
	})

	return r
}

func maxBytes(n int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}

func health(ping func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
			defer cancel()
			if err := ping(ctx); err != nil {
				respond.JSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
