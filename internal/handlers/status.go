package handlers

import (
	"encoding/json"
	"net/http"
)

// unavailableStatus is the placeholder payload rendered when the BGPalerter
// daemon cannot be reached; dashboards show it instead of an error page.
var unavailableStatus = map[string]interface{}{
	"warning":    true,
	"connectors": []interface{}{},
	"rpki": map[string]interface{}{
		"data":     false,
		"stale":    true,
		"provider": "unknown",
	},
	"error": "BGPalerter API unavailable",
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if body, ok := h.cache.Get(ctx, "bgpalerter:status"); ok {
		writeCached(w, body)
		return
	}

	status, err := h.alerter.GetStatus(ctx)
	if err != nil {
		respondJSON(w, http.StatusOK, unavailableStatus)
		return
	}

	body, err := json.Marshal(status)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	h.cache.Set(ctx, "bgpalerter:status", body, h.cfg.StatusCacheTTL)
	writeCached(w, body)
}

func (h *Handler) handleMonitors(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if body, ok := h.cache.Get(ctx, "bgpalerter:monitors"); ok {
		writeCached(w, body)
		return
	}

	monitors := h.alerter.GetMonitors(ctx)

	body, err := json.Marshal(monitors)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	h.cache.Set(ctx, "bgpalerter:monitors", body, h.cfg.StatusCacheTTL)
	writeCached(w, body)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
