package api

import (
	"net/http"

	"github.com/ksysoev/rulebook/pkg/api/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// newMux creates and returns a new HTTP ServeMux with the API's routes registered.
func (a *API) newMux() *http.ServeMux {
	mux := http.NewServeMux()

	withReqID := middleware.NewReqID()
	withAuth := middleware.NewAuth(a.config.APIKeys)

	// Health check.
	mux.Handle("GET /livez", middleware.Use(a.healthCheck, withReqID))

	// Operator routes (authenticated).
	mux.Handle("GET /metrics", middleware.Use(promhttp.Handler().ServeHTTP, withReqID, withAuth))
	mux.Handle("GET /api/v1/stats", middleware.Use(a.stats, withReqID, withAuth))

	// Static files.
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(a.views.Assets())))

	// Viewer actions. Each one acts on the caller's session and answers with the redrawn app.
	for route, act := range a.actions() {
		mux.Handle("POST "+route, middleware.Use(a.action(act), withReqID, withMetrics(route)))
	}

	mux.Handle("GET /{$}", middleware.Use(a.appPage, withReqID, withMetrics("/")))
	mux.Handle("GET /", middleware.Use(a.notFound, withReqID))

	return mux
}
