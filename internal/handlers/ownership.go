package handlers

import (
	"encoding/json"
	"net/http"
)

func (h *Handler) handleListOwnership(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.ownership.List(r.Context()))
}

type setOwnershipRequest struct {
	Prefix      string `json:"prefix"`
	ASN         int    `json:"asn"`
	Description string `json:"description"`
}

func (h *Handler) handleSetOwnership(w http.ResponseWriter, r *http.Request) {
	var req setOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prefix == "" || req.ASN <= 0 {
		respondError(w, http.StatusBadRequest, "prefix and a positive asn are required")
		return
	}

	if !h.detector.SetOwnership(r.Context(), req.Prefix, req.ASN, req.Description, actorID(r)) {
		respondError(w, http.StatusServiceUnavailable, "failed to store ownership")
		return
	}
	respondJSON(w, http.StatusOK, h.ownership.GetByPrefix(r.Context(), req.Prefix))
}

type checkPrefixRequest struct {
	Prefix       string `json:"prefix"`
	AnnouncedASN int    `json:"announcedAsn"`
}

// handleCheckPrefix runs one ownership check. A mismatch creates a hijack
// alert (with notifications applied downstream) and reports its id.
func (h *Handler) handleCheckPrefix(w http.ResponseWriter, r *http.Request) {
	var req checkPrefixRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Prefix == "" || req.AnnouncedASN <= 0 {
		respondError(w, http.StatusBadRequest, "prefix and a positive announcedAsn are required")
		return
	}

	ctx := r.Context()
	finding := h.detector.Check(ctx, req.Prefix, req.AnnouncedASN)
	if finding == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"hijackDetected": false,
		})
		return
	}

	alertID, notifications := h.detector.CreateAlert(ctx, finding, actorID(r))
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"hijackDetected": true,
		"alertId":        alertID,
		"details":        finding,
		"notifications":  notifications,
	})
}
