//go:build unix

package daemon

import (
	"net/http"
	"time"
)

func (d *Daemon) setupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", d.handleHealth)

	mux.HandleFunc("GET /api/containers", d.handleListContainers)
	mux.HandleFunc("POST /api/containers", d.handleAddContainer)
	mux.HandleFunc("DELETE /api/containers/{name}", d.handleRemoveContainer)
	mux.HandleFunc("PATCH /api/containers/{name}", d.handleUpdateContainer)
	mux.HandleFunc("GET /api/containers/{name}/versioning", d.handleVersioning)

	mux.HandleFunc("GET /api/assets", d.handleListAssets)
	mux.HandleFunc("POST /api/assets", d.handleAddAsset)
	mux.HandleFunc("DELETE /api/assets", d.handleRemoveAsset)

	mux.HandleFunc("GET /api/print", d.handlePrint)
	mux.HandleFunc("GET /api/print-all", d.handlePrintAll)
	mux.HandleFunc("GET /api/determine", d.handleDetermine)
}

func (d *Daemon) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, HealthResponse{
		Status:     "ok",
		Uptime:     time.Since(d.startTime).Seconds(),
		Instance:   d.instanceID,
		Containers: len(d.registry.ContainerNames()),
	}, http.StatusOK)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// logRequests logs every request at debug level and failures at warn.
func (d *Daemon) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		attrs := []any{"method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start)}
		if rec.status >= http.StatusInternalServerError {
			d.log.Warn("request failed", attrs...)
			return
		}
		d.log.Debug("request", attrs...)
	})
}
