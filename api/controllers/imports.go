package controllers

import (
	"net/http"

	"github.com/harborlabs/medcatalog-backend/api/responses"
	"github.com/harborlabs/medcatalog-backend/pkg/logger"
)

// ImportStarter kicks off a catalog import in the background.
type ImportStarter interface {
	StartAsync() error
}

// StartCatalogImport acknowledges with 202 as soon as the run is scheduled.
// Completion is not reported back to the caller; progress lives in logs and
// metrics. A second trigger while a run is active is rejected.
func StartCatalogImport(starter ImportStarter, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := starter.StartAsync(); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusAccepted, map[string]string{"status": "started"})
	}
}
