package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/sdko-org/bgp-console/internal/alerter"
	"github.com/sdko-org/bgp-console/internal/cache"
	"github.com/sdko-org/bgp-console/internal/config"
	"github.com/sdko-org/bgp-console/internal/email"
	"github.com/sdko-org/bgp-console/internal/hijack"
	"github.com/sdko-org/bgp-console/internal/ris"
	"github.com/sdko-org/bgp-console/internal/store"
	"github.com/sdko-org/bgp-console/internal/webhook"
	"github.com/sirupsen/logrus"
)

type Handler struct {
	cfg        *config.Config
	log        *logrus.Entry
	cache      cache.Store
	ris        *ris.Client
	alerter    *alerter.Client
	dispatcher *webhook.Dispatcher
	detector   *hijack.Detector
	alerts     *store.Alerts
	settings   *store.Settings
	ownership  *store.Ownership
	email      *email.Ingestor
}

func NewHandler(
	logger *logrus.Logger,
	cfg *config.Config,
	cacheStore cache.Store,
	risClient *ris.Client,
	alerterClient *alerter.Client,
	dispatcher *webhook.Dispatcher,
	detector *hijack.Detector,
	alerts *store.Alerts,
	settings *store.Settings,
	ownership *store.Ownership,
	ingestor *email.Ingestor,
) *Handler {
	return &Handler{
		cfg:        cfg,
		log:        logger.WithField("component", "api_handler"),
		cache:      cacheStore,
		ris:        risClient,
		alerter:    alerterClient,
		dispatcher: dispatcher,
		detector:   detector,
		alerts:     alerts,
		settings:   settings,
		ownership:  ownership,
		email:      ingestor,
	}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// writeCached writes a cached JSON body verbatim.
func writeCached(w http.ResponseWriter, body []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

// actorID identifies the operator behind a request. Authentication lives in
// the fronting dashboard layer, which forwards the resolved user id.
func actorID(r *http.Request) uint {
	if value := r.Header.Get("X-Actor-ID"); value != "" {
		if id, err := strconv.ParseUint(value, 10, 32); err == nil {
			return uint(id)
		}
	}
	return 0
}
