package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/harborlabs/medcatalog-backend/api/responses"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	pkgerrors "github.com/harborlabs/medcatalog-backend/pkg/errors"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is anything that can report reachability of a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-MedCatalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and Redis answer pings.
func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				failure := pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable")
				responses.WriteError(logg.WithField(ctx, "dependency", name), logg, w, failure)
				return
			}
		}

		w.Header().Set("X-MedCatalog-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
	}
}
