package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/cartstore/api/responses"
	"github.com/angelmondragon/cartstore/pkg/config"
	pkgerrors "github.com/angelmondragon/cartstore/pkg/errors"
	"github.com/angelmondragon/cartstore/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cartstore-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings the storage backend that carts are persisted in.
func HealthReady(cfg *config.Config, logg *logger.Logger, store Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Cartstore-Env", cfg.App.Env)
		if store != nil {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			defer cancel()
			if err := store.Ping(ctx); err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "storage ping failed").
					WithDetails(map[string]any{"backend": cfg.Storage.Normalized()}))
				return
			}
		}
		responses.WriteSuccess(w, map[string]string{
			"status":  "ready",
			"storage": cfg.Storage.Normalized(),
		})
	}
}
