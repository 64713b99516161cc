package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires the API surface onto the router.
func RegisterRoutes(r *mux.Router, h *Handler, registry *prometheus.Registry) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/ris/prefixes", h.handleRISPrefixes).Methods(http.MethodGet)
	api.HandleFunc("/ris/routing-status", h.handleRISRoutingStatus).Methods(http.MethodGet)
	api.HandleFunc("/ris/as-paths", h.handleRISASPaths).Methods(http.MethodGet)
	api.HandleFunc("/ris/updates", h.handleRISUpdates).Methods(http.MethodGet)
	api.HandleFunc("/ris/test", h.handleRISTest).Methods(http.MethodGet)

	api.HandleFunc("/status", h.handleStatus).Methods(http.MethodGet)
	api.HandleFunc("/monitors", h.handleMonitors).Methods(http.MethodGet)

	api.HandleFunc("/notifications/settings", h.handleGetSettings).Methods(http.MethodGet)
	api.HandleFunc("/notifications/settings", h.handleUpdateSettings).Methods(http.MethodPut)
	api.HandleFunc("/notifications/test", h.handleTestWebhook).Methods(http.MethodPost)

	api.HandleFunc("/alerts", h.handleListAlerts).Methods(http.MethodGet)
	api.HandleFunc("/alerts", h.handleCreateAlert).Methods(http.MethodPost)
	api.HandleFunc("/alerts/stats", h.handleAlertStats).Methods(http.MethodGet)
	api.HandleFunc("/alerts/email", h.handleEmailAlert).Methods(http.MethodPost)
	api.HandleFunc("/alerts/{id:[0-9]+}/resolve", h.handleResolveAlert).Methods(http.MethodPost)
	api.HandleFunc("/alerts/{id:[0-9]+}/acknowledge", h.handleAcknowledgeAlert).Methods(http.MethodPost)

	api.HandleFunc("/ownership", h.handleListOwnership).Methods(http.MethodGet)
	api.HandleFunc("/ownership", h.handleSetOwnership).Methods(http.MethodPost)
	api.HandleFunc("/ownership/check", h.handleCheckPrefix).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.handleHealth).Methods(http.MethodGet)
}
