// Package http serves the dashboard page, its JSON API and the operational
// endpoints.
package http

import (
	"encoding/json"
	"html/template"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/siweifamily/dashboard/internal/dashboard"
)

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	service   *dashboard.Service
	logger    *zap.Logger
	startTime time.Time
	page      *template.Template
	// cachePing, when set, is called to check cache reachability. Used when
	// the backend is memcached.
	cachePing func() error
}

// NewHandler returns a new Handler.
func NewHandler(service *dashboard.Service, logger *zap.Logger, cachePing func() error) *Handler {
	return &Handler{
		service:   service,
		logger:    logger,
		startTime: time.Now(),
		page:      template.Must(template.New("page").Funcs(pageFuncs).Parse(pageTemplate)),
		cachePing: cachePing,
	}
}

// GetPage handles GET /: the rendered single-page dashboard.
func (h *Handler) GetPage(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot(r.Context())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.page.Execute(w, snap); err != nil {
		h.logger.Error("page render", zap.Error(err))
	}
}

// GetDashboard handles GET /api/dashboard: the full snapshot as JSON.
func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	snap := h.service.Snapshot(r.Context())
	writeJSON(w, http.StatusOK, snap)
}

// PostRefresh handles POST /api/refresh: the manual refresh action. Every
// feed cache entry is invalidated; the next render refetches everything.
func (h *Handler) PostRefresh(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Refresh(r.Context()); err != nil {
		h.logger.Error("refresh", zap.Error(err))
		writeError(w, r, http.StatusInternalServerError, "REFRESH_FAILED", "cache invalidation failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "refreshed"})
}

// GetHealth handles GET /health. The dashboard degrades per feed rather
// than failing, so health is liveness plus cache reachability.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	statusCode := http.StatusOK
	checks := make(map[string]string)
	if h.cachePing != nil {
		if h.cachePing() == nil {
			checks["cache"] = "healthy"
		} else {
			checks["cache"] = "unhealthy"
			status = "degraded"
			statusCode = http.StatusServiceUnavailable
		}
	}

	writeJSON(w, statusCode, map[string]interface{}{
		"status":    status,
		"service":   "family-dashboard",
		"checks":    checks,
		"uptime":    time.Since(h.startTime).Round(time.Second).String(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// writeJSON writes a JSON response with the specified HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes an error response in the standard error format with
// code, message and the request's correlation ID.
func writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	corrID := ""
	if v := r.Context().Value("correlation_id"); v != nil {
		corrID, _ = v.(string)
	}
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":      code,
			"message":   message,
			"requestId": corrID,
		},
	})
}
