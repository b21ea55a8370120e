package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewServeMux builds a chi router exposing /metrics for r's registry and
// /healthz as a plain liveness check, suitable for a long-running
// sync-tree or pull-mode daemon.
func NewServeMux(r *Recorder) http.Handler {
	mux := chi.NewRouter()

	mux.Get("/metrics", promhttp.HandlerFor(r.Registry(), promhttp.HandlerOpts{}).ServeHTTP)
	mux.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return mux
}
