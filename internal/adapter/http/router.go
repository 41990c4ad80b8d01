package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/inspi-writer001/feesplit/internal/adapter/http/handler"
	"github.com/inspi-writer001/feesplit/internal/adapter/http/middleware"
	"github.com/inspi-writer001/feesplit/internal/infrastructure/auth"
	"github.com/inspi-writer001/feesplit/internal/usecase"
)

// Observer receives HTTP-level metrics.
type Observer interface {
	middleware.HTTPObserver
	middleware.AuthFailureObserver
	ObserveIdempotentReplay()
}

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	FeeSplitHandler  *handler.FeeSplitHandler
	AccountHandler   *handler.AccountHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	// JWTManager enables bearer authentication on the API when set.
	JWTManager     *auth.JWTManager
	RateLimiter    *middleware.RateLimiter
	Metrics        Observer
	MetricsHandler http.Handler
	Logger         zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	if cfg.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", cfg.MetricsHandler)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/fees/quote", cfg.FeeSplitHandler.Quote)

		r.Group(func(r chi.Router) {
			if cfg.JWTManager != nil {
				var observer middleware.AuthFailureObserver
				if cfg.Metrics != nil {
					observer = cfg.Metrics
				}
				r.Use(middleware.AuthMiddleware(cfg.JWTManager, observer))
			}

			// Idempotency middleware for mutating requests
			if cfg.IdempotencyStore != nil {
				idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).WithTTL(cfg.IdempotencyTTL)
				if cfg.Metrics != nil {
					idempotency.OnReplay(cfg.Metrics.ObserveIdempotentReplay)
				}
				r.Use(idempotency.Wrap)
			}

			// Fee-split transfers
			r.Route("/transfers/fee-split", func(r chi.Router) {
				r.Post("/", cfg.FeeSplitHandler.Create)
				r.Get("/{id}", cfg.FeeSplitHandler.Get)
			})

			// Accounts
			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/{address}", cfg.AccountHandler.Get)
				r.Get("/{address}/fee-splits", cfg.FeeSplitHandler.ListByAccount)
			})
		})
	})

	return r
}
