package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/harborlabs/medcatalog-backend/api/controllers"
	"github.com/harborlabs/medcatalog-backend/api/middleware"
	"github.com/harborlabs/medcatalog-backend/pkg/config"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
)

// NewRouter wires the control-plane API: health probes plus the manual
// import trigger. The import itself runs in the background; the endpoint
// only schedules it.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbPinger controllers.Pinger,
	redisPinger controllers.Pinger,
	importStarter controllers.ImportStarter,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": dbPinger,
			"redis":    redisPinger,
		}))
	})

	r.Route("/api/v1/imports", func(r chi.Router) {
		r.Post("/catalog", controllers.StartCatalogImport(importStarter, logg))
	})

	return r
}
