package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sdko-org/bgp-console/internal/email"
	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sdko-org/bgp-console/internal/store"
	"github.com/sdko-org/bgp-console/internal/webhook"
	"github.com/sirupsen/logrus"
)

func (h *Handler) handleListAlerts(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	filter := store.AlertFilter{
		Severity: query.Get("severity"),
		Type:     query.Get("type"),
	}
	if value := query.Get("resolved"); value != "" {
		resolved := value == "true"
		filter.Resolved = &resolved
	}
	if value := query.Get("limit"); value != "" {
		if limit, err := strconv.Atoi(value); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if value := query.Get("offset"); value != "" {
		if offset, err := strconv.Atoi(value); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}

	respondJSON(w, http.StatusOK, h.alerts.List(r.Context(), filter))
}

func (h *Handler) handleAlertStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.alerts.Stats(r.Context()))
}

type createAlertRequest struct {
	Type     string         `json:"type"`
	Severity string         `json:"severity"`
	Prefix   string         `json:"prefix"`
	ASN      string         `json:"asn"`
	Message  string         `json:"message"`
	Details  models.Details `json:"details"`
}

func (h *Handler) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Type == "" || req.Severity == "" || req.Message == "" {
		respondError(w, http.StatusBadRequest, "type, severity and message are required")
		return
	}

	ctx := r.Context()
	alert := h.alerts.Create(ctx, &models.Alert{
		Timestamp: time.Now(),
		Type:      req.Type,
		Severity:  req.Severity,
		Prefix:    req.Prefix,
		ASN:       req.ASN,
		Message:   req.Message,
		Details:   req.Details,
	})
	if alert == nil {
		respondError(w, http.StatusServiceUnavailable, "failed to store alert")
		return
	}

	// Notifications are best effort; a webhook failure never fails the write.
	settings := h.settings.Get(ctx)
	var notifications *webhook.Results
	if settings != nil && webhook.SeverityPasses(alert.Severity, settings.MinSeverity) {
		results := h.dispatcher.SendAlertNotification(ctx,
			webhook.Alert{
				Type:      alert.Type,
				Severity:  alert.Severity,
				Prefix:    alert.Prefix,
				ASN:       alert.ASN,
				Message:   alert.Message,
				Timestamp: alert.Timestamp,
				Details:   alert.Details,
			},
			dispatchSettings(settings),
		)
		notifications = &results
	}

	h.log.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"type":     alert.Type,
		"severity": alert.Severity,
	}).Info("Alert created")

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"alert":         alert,
		"notifications": notifications,
	})
}

func alertIDFromRequest(r *http.Request) (uint, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 32)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (h *Handler) handleResolveAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := alertIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	var body struct {
		Notes string `json:"notes"`
	}
	if r.Body != nil {
		json.NewDecoder(r.Body).Decode(&body)
	}

	if !h.alerts.Resolve(r.Context(), id, actorID(r), body.Notes) {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	respondJSON(w, http.StatusOK, h.alerts.GetByID(r.Context(), id))
}

func (h *Handler) handleAcknowledgeAlert(w http.ResponseWriter, r *http.Request) {
	id, ok := alertIDFromRequest(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "invalid alert id")
		return
	}

	if !h.alerts.Acknowledge(r.Context(), id, actorID(r)) {
		respondError(w, http.StatusNotFound, "alert not found")
		return
	}
	respondJSON(w, http.StatusOK, h.alerts.GetByID(r.Context(), id))
}

type emailAlertRequest struct {
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	From      string    `json:"from"`
	Timestamp time.Time `json:"timestamp"`
}

// handleEmailAlert ingests a BGPalerter report email relayed by the mail
// pipeline and files it as an alert.
func (h *Handler) handleEmailAlert(w http.ResponseWriter, r *http.Request) {
	var req emailAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Subject == "" {
		respondError(w, http.StatusBadRequest, "subject is required")
		return
	}
	if req.Timestamp.IsZero() {
		req.Timestamp = time.Now()
	}

	ok := h.email.Process(r.Context(), email.Message{
		Subject:   req.Subject,
		Body:      req.Body,
		From:      req.From,
		Timestamp: req.Timestamp,
	})
	if !ok {
		respondError(w, http.StatusServiceUnavailable, "failed to store alert")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]bool{"processed": true})
}

func dispatchSettings(settings *models.NotificationSettings) webhook.Settings {
	return webhook.Settings{
		TeamsEnabled:      settings.TeamsEnabled,
		TeamsWebhookURL:   settings.TeamsWebhookURL,
		SlackEnabled:      settings.SlackEnabled,
		SlackWebhookURL:   settings.SlackWebhookURL,
		DiscordEnabled:    settings.DiscordEnabled,
		DiscordWebhookURL: settings.DiscordWebhookURL,
		MinSeverity:       settings.MinSeverity,
	}
}
