// Package httptransport assembles the public HTTP surface: middleware stack,
// domain routes, health probes, and Prometheus exposition.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/provenance-io/hastra-sol-vault-mint/internal/platform/health"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/admin"
	"github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/auth"
	request "github.com/provenance-io/hastra-sol-vault-mint/pkg/platform/middleware/request"
)

// Registrar mounts a group of routes on a chi router.
type Registrar interface {
	Register(r chi.Router)
}

// Config wires the router's dependencies.
type Config struct {
	Logger          *slog.Logger
	Validator       auth.TokenValidator
	AdminSecretHash string
	RequestMetrics  *request.Metrics
	Health          *health.Handler
	Status          *StatusHandler

	// Public carries routes that need no bearer token (reads).
	Public []Registrar
	// Authenticated carries routes behind bearer auth (user operations).
	Authenticated []Registrar
	// Operator carries routes behind bearer auth plus the operator secret.
	Operator []Registrar
}

// NewRouter builds the full HTTP handler.
func NewRouter(cfg Config) http.Handler {
	r := chi.NewRouter()

	r.Use(request.Recovery(cfg.Logger))
	r.Use(request.RequestID)
	r.Use(request.Logger(cfg.Logger))
	r.Use(request.Timeout(30 * time.Second))
	r.Use(request.ContentTypeJSON)
	if cfg.RequestMetrics != nil {
		r.Use(request.LatencyMiddleware(cfg.RequestMetrics))
	}

	if cfg.Health != nil {
		cfg.Health.Register(r)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	if cfg.Status != nil {
		r.Get("/status", cfg.Status.HandleStatus)
	}

	for _, reg := range cfg.Public {
		reg.Register(r)
	}

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		for _, reg := range cfg.Authenticated {
			reg.Register(r)
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(cfg.Validator, cfg.Logger))
		r.Use(admin.RequireSecret(cfg.AdminSecretHash, cfg.Logger))
		for _, reg := range cfg.Operator {
			reg.Register(r)
		}
	})

	return r
}
