package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/sirupsen/logrus"
)

// fetchWithCache serves a RIS query from the TTL cache when possible, and
// caches fresh responses for the configured data TTL.
func (h *Handler) fetchWithCache(w http.ResponseWriter, r *http.Request, cacheKey string, fetch func() (interface{}, error)) {
	ctx := r.Context()

	if body, ok := h.cache.Get(ctx, cacheKey); ok {
		writeCached(w, body)
		return
	}

	result, err := fetch()
	if err != nil {
		h.log.WithFields(logrus.Fields{
			"cache_key": cacheKey,
			"error":     err,
		}).Warn("RIS query failed")
		respondError(w, http.StatusServiceUnavailable, err.Error())
		return
	}

	body, err := json.Marshal(result)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	h.cache.Set(ctx, cacheKey, body, h.cfg.DataCacheTTL)
	writeCached(w, body)
}

func (h *Handler) handleRISPrefixes(w http.ResponseWriter, r *http.Request) {
	asn := r.URL.Query().Get("asn")
	if asn == "" {
		respondError(w, http.StatusBadRequest, "asn parameter is required")
		return
	}

	h.fetchWithCache(w, r, "ris:prefixes:"+asn, func() (interface{}, error) {
		return h.ris.GetAnnouncedPrefixes(r.Context(), asn)
	})
}

func (h *Handler) handleRISRoutingStatus(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		respondError(w, http.StatusBadRequest, "prefix parameter is required")
		return
	}

	h.fetchWithCache(w, r, "ris:routing-status:"+prefix, func() (interface{}, error) {
		return h.ris.GetRoutingStatus(r.Context(), prefix)
	})
}

func (h *Handler) handleRISASPaths(w http.ResponseWriter, r *http.Request) {
	prefix := r.URL.Query().Get("prefix")
	if prefix == "" {
		respondError(w, http.StatusBadRequest, "prefix parameter is required")
		return
	}

	h.fetchWithCache(w, r, "ris:as-paths:"+prefix, func() (interface{}, error) {
		return h.ris.GetASPathInfo(r.Context(), prefix)
	})
}

func (h *Handler) handleRISUpdates(w http.ResponseWriter, r *http.Request) {
	asn := r.URL.Query().Get("asn")
	if asn == "" {
		respondError(w, http.StatusBadRequest, "asn parameter is required")
		return
	}

	hours := 24
	if value := r.URL.Query().Get("hours"); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			respondError(w, http.StatusBadRequest, "hours must be a positive integer")
			return
		}
		hours = parsed
	}

	cacheKey := fmt.Sprintf("ris:updates:%s:%dh", asn, hours)
	h.fetchWithCache(w, r, cacheKey, func() (interface{}, error) {
		return h.ris.GetBGPUpdates(r.Context(), asn, hours)
	})
}

func (h *Handler) handleRISTest(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]bool{
		"connected": h.ris.TestConnection(r.Context()),
	})
}
