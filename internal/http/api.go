package http

import (
	"context"
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/Flarenzy/netcollide/internal/auth"
	"github.com/Flarenzy/netcollide/internal/domain"
)

// HealthChecker is implemented by snapshot stores that can report readiness.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

type API struct {
	Logger        *slog.Logger
	Health        HealthChecker
	Service       domain.InventoryService
	Authenticator auth.Authenticator
	Metrics       http.Handler
}

type Option func(*API)

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(a *API) {
		a.Metrics = h
	}
}

// NewAPI builds the HTTP surface. health and authenticator may be nil.
func NewAPI(logger *slog.Logger, health HealthChecker, service domain.InventoryService, authenticator auth.Authenticator, opts ...Option) *API {
	if logger == nil {
		logger = slog.Default()
	}
	a := &API{
		Logger:        logger,
		Health:        health,
		Service:       service,
		Authenticator: authenticator,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *API) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", a.handleHealthz)
	mux.HandleFunc("GET /readyz", a.handleReadyz)
	if a.Metrics != nil {
		mux.Handle("GET /metrics", a.Metrics)
	}
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.HandleFunc("GET /api/v1/inventory", a.handleGetInventory)
	mux.HandleFunc("POST /api/v1/collections", a.handleCreateCollection)
	mux.HandleFunc("GET /api/v1/collisions", a.handleGetCollisions)

	return a.authMiddleware(mux)
}
