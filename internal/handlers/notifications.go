package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sdko-org/bgp-console/internal/store"
	"github.com/sdko-org/bgp-console/internal/webhook"
)

func (h *Handler) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.settings.Get(r.Context()))
}

func (h *Handler) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var update store.SettingsUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if update.MinSeverity != nil && !webhook.ValidSeverity(*update.MinSeverity) {
		respondError(w, http.StatusBadRequest, "minSeverity must be one of critical, warning, info")
		return
	}

	settings := h.settings.Update(r.Context(), update, actorID(r))
	if settings == nil {
		respondError(w, http.StatusServiceUnavailable, "failed to update settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// handleTestWebhook delivers a fixed test alert to one channel using the
// stored webhook URL, so operators can verify a channel before enabling it.
func (h *Handler) handleTestWebhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Channel string `json:"channel"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ctx := r.Context()
	settings := h.settings.Get(ctx)

	alert := webhook.Alert{
		Type:      models.AlertTypeTest,
		Severity:  models.SeverityInfo,
		Prefix:    "192.0.2.0/24",
		ASN:       "AS64512",
		Message:   "This is a test notification from BGP Console",
		Timestamp: time.Now(),
	}

	var url string
	switch req.Channel {
	case webhook.ChannelTeams:
		url = settings.TeamsWebhookURL
	case webhook.ChannelSlack:
		url = settings.SlackWebhookURL
	case webhook.ChannelDiscord:
		url = settings.DiscordWebhookURL
	default:
		respondError(w, http.StatusBadRequest, "channel must be one of teams, slack, discord")
		return
	}
	if url == "" {
		respondError(w, http.StatusBadRequest, "no webhook URL configured for channel")
		return
	}

	var sent bool
	switch req.Channel {
	case webhook.ChannelTeams:
		sent = h.dispatcher.SendTeams(ctx, url, alert)
	case webhook.ChannelSlack:
		sent = h.dispatcher.SendSlack(ctx, url, alert)
	case webhook.ChannelDiscord:
		sent = h.dispatcher.SendDiscord(ctx, url, alert)
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"channel": req.Channel,
		"sent":    sent,
	})
}
