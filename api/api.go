// Package api exposes key-agreement keys over a JSON REST interface.
package api

import (
	_ "embed"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-openapi/runtime/middleware"

	"github.com/jmcleod/keyagree/storage"
	"github.com/jmcleod/keyagree/suite"
)

// API holds the dependencies needed by the REST handlers.
type API struct {
	repo    storage.Repository
	suites  *suite.Registry
	audit   *auditLogger
	alertFn AlertFunc
}

//go:embed openapi.yaml
var openapiSpec []byte

// Option configures the API instance.
type Option func(*API)

// WithLogger sets the structured logger for audit events.
// If not set, a default JSON logger writing to stderr is used.
func WithLogger(logger *slog.Logger) Option {
	return func(a *API) {
		a.audit = newAuditLogger(logger)
	}
}

// WithAlertFunc registers a callback for anomalies such as bursts of
// private key exports or fingerprint mismatches.
func WithAlertFunc(fn AlertFunc) Option {
	return func(a *API) {
		a.alertFn = fn
	}
}

// New creates a new API instance. A nil registry selects suite.Default.
func New(repo storage.Repository, suites *suite.Registry, opts ...Option) *API {
	a := &API{
		repo:   repo,
		suites: suites,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.suites == nil {
		a.suites = suite.Default()
	}
	if a.audit == nil {
		a.audit = newAuditLogger(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	}
	if a.alertFn != nil {
		a.audit.metrics = newMetricsCollector(a.alertFn)
	}
	return a
}

// Router returns a chi.Router with all API routes mounted.
func (a *API) Router() chi.Router {
	r := chi.NewRouter()

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(openapiSpec)
	})

	r.Handle("/docs*", middleware.SwaggerUI(middleware.SwaggerUIOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/docs",
	}, nil))

	r.Handle("/redoc*", middleware.Redoc(middleware.RedocOpts{
		SpecURL: "/api/v1/openapi.yaml",
		Path:    "api/v1/redoc",
	}, nil))

	r.Get("/suites", a.ListSuites)

	r.Get("/keys", a.ListKeys)
	r.Post("/keys", a.GenerateKey)
	r.Post("/keys/convert", a.ConvertKey)
	r.Get("/keys/{fingerprint}", a.GetKey)
	r.Delete("/keys/{fingerprint}", a.DeleteKey)

	r.Post("/fingerprints/verify", a.VerifyFingerprint)
	r.Post("/secrets", a.DeriveSecret)

	return r
}
