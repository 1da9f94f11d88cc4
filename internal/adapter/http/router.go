package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dealerdesk/dealerdesk/internal/adapter/http/handler"
	"github.com/dealerdesk/dealerdesk/internal/adapter/http/middleware"
	"github.com/dealerdesk/dealerdesk/internal/domain"
	"github.com/dealerdesk/dealerdesk/internal/infrastructure/auth"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	GSTINHandler   *handler.GSTINHandler
	InvoiceHandler *handler.InvoiceHandler
	LedgerHandler  *handler.LedgerHandler
	SessionHandler *handler.SessionHandler
	AdminHandler   *handler.AdminHandler
	HealthHandler  *handler.HealthHandler

	JWTManager        *auth.JWTManager
	LoggingMiddleware *middleware.LoggingMiddleware
	MetricsMiddleware *middleware.MetricsMiddleware
	RateLimiter       *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	if cfg.LoggingMiddleware != nil {
		r.Use(cfg.LoggingMiddleware.Wrap)
	}
	if cfg.MetricsMiddleware != nil {
		r.Use(cfg.MetricsMiddleware.Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1, all authenticated
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.AuthMiddleware(cfg.JWTManager))

		r.Post("/gstin/verify", cfg.GSTINHandler.Verify)

		r.Route("/invoices", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleAccounts, domain.RoleSales))

			r.Post("/", cfg.InvoiceHandler.Create)
			r.Get("/{id}", cfg.InvoiceHandler.Get)
			r.Post("/{id}/payments", cfg.InvoiceHandler.RecordPayment)
		})

		r.Route("/counterparties", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleAccounts, domain.RoleSales))

			r.Get("/{id}/statement", cfg.LedgerHandler.Statement)
		})

		r.With(middleware.RequireRole(domain.RoleAdmin, domain.RoleAccounts)).
			Get("/reports/aging", cfg.LedgerHandler.Aging)

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", cfg.SessionHandler.Start)
			r.Post("/{id}/stop", cfg.SessionHandler.Stop)
			r.Post("/{id}/points", cfg.SessionHandler.RecordPoints)
			r.Get("/{id}/trail", cfg.SessionHandler.Trail)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.RequireRole(domain.RoleAdmin))

			r.Post("/users", cfg.AdminHandler.Users)
			r.Post("/cleanup/locations", cfg.AdminHandler.CleanupLocations)
		})
	})

	return r
}
