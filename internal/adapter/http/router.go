package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/gobudget/internal/adapter/http/handler"
	"github.com/iho/gobudget/internal/adapter/http/middleware"
	"github.com/iho/gobudget/internal/infrastructure/metrics"
	"github.com/iho/gobudget/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler           *handler.AuthHandler
	BudgetHandler         *handler.BudgetHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler

	TokenVerifier middleware.TokenVerifier
	Metrics       *metrics.Metrics
	Gatherer      prometheus.Gatherer
	Logger        zerolog.Logger

	// Optional.
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(cfg.Logger))
	r.Use(middleware.Recovery)
	r.Use(middleware.HTTPMetrics(cfg.Metrics))

	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}

			r.Post("/auth/register", cfg.AuthHandler.Register)
			r.Post("/auth/login", cfg.AuthHandler.Login)
		})

		r.Route("/budget", func(r chi.Router) {
			r.Use(middleware.Authenticate(cfg.TokenVerifier, cfg.Metrics))
			if cfg.RateLimiter != nil {
				r.Use(cfg.RateLimiter.Limit)
			}
			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Metrics)
				r.Use(idempotency.Wrap)
			}

			r.Get("/", cfg.BudgetHandler.GetBalance)
			r.Put("/", cfg.BudgetHandler.SetAmount)
			r.Patch("/", cfg.BudgetHandler.ApplyDelta)
			r.Get("/entries", cfg.BudgetHandler.ListEntries)
			r.Post("/entries", cfg.BudgetHandler.RecordEntry)
			r.Get("/reconciliation", cfg.ReconciliationHandler.Reconcile)
		})
	})

	return r
}
