package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// Pinger covers the postgres pool and the redis client; readiness
// probes both.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a bare ping closure, e.g. the go-redis client whose
// Ping returns a command object instead of an error.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Dependencies struct {
	Postgres Pinger
	Redis    Pinger
	Logger   *zap.Logger
}

// NewOpsRouter exposes liveness and readiness probes for the bot
// process. The bot has no public HTTP API; this router is for
// orchestration only.
func NewOpsRouter(deps Dependencies) chi.Router {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeStatus(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		checks := map[string]string{"postgres": "ok", "redis": "ok"}
		status := http.StatusOK

		if deps.Postgres != nil {
			if err := deps.Postgres.Ping(ctx); err != nil {
				logger.Warn("postgres readiness check failed", zap.Error(err))
				checks["postgres"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}
		if deps.Redis != nil {
			if err := deps.Redis.Ping(ctx); err != nil {
				logger.Warn("redis readiness check failed", zap.Error(err))
				checks["redis"] = "unavailable"
				status = http.StatusServiceUnavailable
			}
		}

		writeStatus(w, status, checks)
	})

	return r
}

func writeStatus(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
