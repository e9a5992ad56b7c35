package api

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/ZanzyTHEbar/textsim-go/internal/metrics"
)

// NewRouter registers all routes and wraps them with request-id and access
// logging middleware.
func NewRouter(handler *Handler, logger *zap.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, handler)
	return RequestID(AccessLog(logger, mux))
}

func RegisterRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /api/gemini/embeddings", timed("embeddings", handler.HandleEmbeddings))
	mux.HandleFunc("POST /api/layout", timed("layout", handler.HandleLayout))
	mux.HandleFunc("GET /api/comparisons", timed("list_comparisons", handler.HandleListComparisons))
	mux.HandleFunc("GET /api/comparisons/{id}", timed("get_comparison", handler.HandleGetComparison))
	mux.HandleFunc("DELETE /api/comparisons/{id}", timed("delete_comparison", handler.HandleDeleteComparison))
	mux.HandleFunc("GET /health", handler.HandleHealth)
}

// timed records route latency and success (status < 400) under "http:<route>".
func timed(route string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		done := metrics.TimeTool("http:" + route)
		sw := wrapStatus(w)
		next(sw, r)
		done(sw.status < http.StatusBadRequest)
	}
}
