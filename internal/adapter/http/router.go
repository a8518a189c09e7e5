package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/partybook/internal/adapter/http/handler"
	"github.com/iho/partybook/internal/adapter/http/middleware"
	"github.com/iho/partybook/internal/infrastructure/auth"
	"github.com/iho/partybook/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PartyHandler     *handler.PartyHandler
	EntryHandler     *handler.EntryHandler
	LedgerHandler    *handler.LedgerHandler
	AuthHandler      *handler.AuthHandler
	HealthHandler    *handler.HealthHandler
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
	JWTManager       *auth.JWTManager
	AuthEnabled      bool
	RateLimitPerSec  float64
	RateLimitBurst   int
	Logger           zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	r.Use(middleware.Metrics)

	if cfg.RateLimitPerSec > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimitPerSec, cfg.RateLimitBurst).Limit)
	}

	r.Get("/health", cfg.HealthHandler.Live)
	r.Get("/ready", cfg.HealthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthHandler != nil {
			r.Post("/auth/login", cfg.AuthHandler.Login)
		}

		r.Group(func(r chi.Router) {
			if cfg.AuthEnabled && cfg.JWTManager != nil {
				r.Use(middleware.Auth(cfg.JWTManager))
			}

			if cfg.IdempotencyStore != nil {
				r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL).Wrap)
			}

			r.Route("/parties", func(r chi.Router) {
				r.Post("/", cfg.PartyHandler.Create)
				r.Get("/", cfg.PartyHandler.List)
				r.Get("/search", cfg.PartyHandler.Search)

				r.Route("/{partyID}", func(r chi.Router) {
					r.Get("/", cfg.PartyHandler.Get)
					r.Put("/", cfg.PartyHandler.Update)
					r.Delete("/", cfg.LedgerHandler.DeleteParty)

					r.Post("/recalculate", cfg.LedgerHandler.Recalculate)
					r.Get("/consistency", cfg.LedgerHandler.Verify)

					r.Route("/entries", func(r chi.Router) {
						r.Post("/", cfg.LedgerHandler.AddEntry)
						r.Get("/", cfg.EntryHandler.ListByParty)
						r.Get("/{entryID}", cfg.EntryHandler.Get)
						r.Put("/{entryID}", cfg.LedgerHandler.UpdateEntry)
						r.Delete("/{entryID}", cfg.LedgerHandler.DeleteEntry)
					})
				})
			})
		})
	})

	return r
}
