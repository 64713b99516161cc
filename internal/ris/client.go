// Package ris queries the RIPE RIS Stat API for BGP routing facts.
// API reference: https://stat.ripe.net/docs/02.data-api/
package ris

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/sdko-org/bgp-console/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	// TestASN is a stable, always-announced ASN (RIPE NCC) used for
	// connectivity probes.
	TestASN = "AS3333"

	// updatesLimit caps the number of BGP updates returned per query.
	updatesLimit = 100
)

var asnPrefixRegex = regexp.MustCompile(`(?i)^AS`)

type Client struct {
	httpClient  *http.Client
	probeClient *http.Client
	baseURL     string
	log         *logrus.Entry
}

func NewClient(logger *logrus.Logger, baseURL string, timeout, probeTimeout time.Duration) *Client {
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		probeClient: &http.Client{Timeout: probeTimeout},
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		log:         logger.WithField("component", "ris_client"),
	}
}

// Prefix is one announced prefix with its announcement timelines.
type Prefix struct {
	Prefix    string     `json:"prefix"`
	Timelines []Timeline `json:"timelines"`
}

type Timeline struct {
	Starttime string `json:"starttime"`
	Endtime   string `json:"endtime,omitempty"`
}

// RoutingStatus is a point-in-time snapshot of how a prefix is routed.
type RoutingStatus struct {
	Prefix     string   `json:"prefix"`
	Announced  bool     `json:"announced"`
	Visibility int      `json:"visibility"` // percentage of collectors seeing the prefix
	Origins    []string `json:"origins"`
	Upstreams  []string `json:"upstreams"`
}

// ASPathInfo is one distinct AS path observed for a prefix, aggregated
// across collectors and peers.
type ASPathInfo struct {
	ASPath         []string `json:"as_path"`
	Prefix         string   `json:"prefix"`
	Origin         string   `json:"origin"`
	PeerCount      int      `json:"peer_count"`
	CollectorCount int      `json:"collector_count"`
}

// Announcement is one BGP announcement event from the updates feed.
type Announcement struct {
	Prefix    string   `json:"prefix"`
	OriginASN string   `json:"origin_asn"`
	ASPath    []string `json:"as_path"`
	PeerASN   string   `json:"peer_asn"`
	Collector string   `json:"collector"`
	Timestamp string   `json:"timestamp"`
}

// APIError describes a failed RIS query: transport failure, non-2xx
// response, or an explicit non-ok status in the API envelope.
type APIError struct {
	Endpoint   string
	StatusCode int
	APIStatus  string
	Err        error
}

func (e *APIError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("RIS %s request failed: %v", e.Endpoint, e.Err)
	case e.APIStatus != "":
		return fmt.Sprintf("RIS %s API error: %s", e.Endpoint, e.APIStatus)
	default:
		return fmt.Sprintf("RIS %s returned HTTP %d", e.Endpoint, e.StatusCode)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

type envelope struct {
	Status     string          `json:"status"`
	StatusCode int             `json:"status_code"`
	Data       json.RawMessage `json:"data"`
}

// NormalizeASN strips an optional "AS"/"as" prefix from an ASN string.
func NormalizeASN(asn string) string {
	return asnPrefixRegex.ReplaceAllString(strings.TrimSpace(asn), "")
}

func (c *Client) query(ctx context.Context, endpoint, resource string, params url.Values) (json.RawMessage, error) {
	if params == nil {
		params = url.Values{}
	}
	params.Set("resource", resource)
	queryURL := fmt.Sprintf("%s/%s/data.json?%s", c.baseURL, endpoint, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, queryURL, nil)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{Endpoint: endpoint, StatusCode: resp.StatusCode}
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, &APIError{Endpoint: endpoint, Err: fmt.Errorf("decoding response: %w", err)}
	}

	if env.Status != "ok" {
		status := env.Status
		if env.StatusCode != 0 {
			status = fmt.Sprintf("%s (%d)", env.Status, env.StatusCode)
		}
		return nil, &APIError{Endpoint: endpoint, APIStatus: status}
	}

	return env.Data, nil
}

// GetAnnouncedPrefixes returns the prefixes currently announced by an ASN.
func (c *Client) GetAnnouncedPrefixes(ctx context.Context, asn string) ([]Prefix, error) {
	start := time.Now()
	log := c.log.WithFields(logrus.Fields{
		"operation": "announced_prefixes",
		"asn":       asn,
	})
	log.Debug("Fetching announced prefixes from RIS")

	resource := "AS" + NormalizeASN(asn)
	data, err := c.query(ctx, "announced-prefixes", resource, nil)
	metrics.ObserveRISQuery("announced-prefixes", time.Since(start), err)
	if err != nil {
		log.WithError(err).Error("Failed to fetch announced prefixes")
		return nil, fmt.Errorf("failed to fetch announced prefixes: %w", err)
	}

	var payload struct {
		Prefixes []Prefix `json:"prefixes"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.WithError(err).Error("Failed to decode announced prefixes")
		return nil, fmt.Errorf("failed to fetch announced prefixes: %w", err)
	}

	log.WithFields(logrus.Fields{
		"count":    len(payload.Prefixes),
		"duration": time.Since(start),
	}).Info("Announced prefixes fetched from RIS")
	return payload.Prefixes, nil
}

// GetRoutingStatus returns the current routing snapshot for a prefix.
// The upstream visibility ratio is surfaced as an integer percentage,
// rounded half up.
func (c *Client) GetRoutingStatus(ctx context.Context, prefix string) (*RoutingStatus, error) {
	start := time.Now()
	log := c.log.WithFields(logrus.Fields{
		"operation": "routing_status",
		"prefix":    prefix,
	})
	log.Debug("Fetching routing status from RIS")

	data, err := c.query(ctx, "routing-status", prefix, nil)
	metrics.ObserveRISQuery("routing-status", time.Since(start), err)
	if err != nil {
		log.WithError(err).Error("Failed to fetch routing status")
		return nil, fmt.Errorf("failed to fetch routing status: %w", err)
	}

	var payload struct {
		Announced  bool    `json:"announced"`
		Visibility float64 `json:"visibility"`
		Origins    []struct {
			Origin asnScalar `json:"origin"`
		} `json:"origins"`
		FirstLevelASes []asnScalar `json:"first_level_ases"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.WithError(err).Error("Failed to decode routing status")
		return nil, fmt.Errorf("failed to fetch routing status: %w", err)
	}

	origins := make([]string, 0, len(payload.Origins))
	for _, o := range payload.Origins {
		origins = append(origins, o.Origin.String())
	}
	upstreams := make([]string, 0, len(payload.FirstLevelASes))
	for _, u := range payload.FirstLevelASes {
		upstreams = append(upstreams, u.String())
	}

	status := &RoutingStatus{
		Prefix:     prefix,
		Announced:  payload.Announced,
		Visibility: int(math.Round(payload.Visibility * 100)),
		Origins:    origins,
		Upstreams:  upstreams,
	}

	log.WithFields(logrus.Fields{
		"announced":  status.Announced,
		"visibility": status.Visibility,
		"duration":   time.Since(start),
	}).Info("Routing status fetched from RIS")
	return status, nil
}

// GetASPathInfo returns the distinct AS paths observed for a prefix via the
// looking-glass endpoint. Observations are grouped by exact path sequence;
// each entry carries how many peers announced the path and how many distinct
// collectors saw it. Results are sorted by peer count, descending.
func (c *Client) GetASPathInfo(ctx context.Context, prefix string) ([]ASPathInfo, error) {
	start := time.Now()
	log := c.log.WithFields(logrus.Fields{
		"operation": "as_path_info",
		"prefix":    prefix,
	})
	log.Debug("Fetching AS path info from RIS")

	data, err := c.query(ctx, "looking-glass", prefix, nil)
	metrics.ObserveRISQuery("looking-glass", time.Since(start), err)
	if err != nil {
		log.WithError(err).Error("Failed to fetch AS path info")
		return nil, fmt.Errorf("failed to fetch AS path info: %w", err)
	}

	var payload struct {
		RRCs []struct {
			RRC   string `json:"rrc"`
			Peers []struct {
				ASPath string `json:"as_path"`
			} `json:"peers"`
		} `json:"rrcs"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.WithError(err).Error("Failed to decode looking-glass response")
		return nil, fmt.Errorf("failed to fetch AS path info: %w", err)
	}

	pathInfo := make(map[string]*ASPathInfo)
	collectors := make(map[string]map[string]struct{})

	for _, rrc := range payload.RRCs {
		for _, peer := range rrc.Peers {
			asPath := strings.Fields(peer.ASPath)
			if len(asPath) == 0 {
				continue
			}

			pathKey := strings.Join(asPath, ",")
			info, ok := pathInfo[pathKey]
			if !ok {
				info = &ASPathInfo{
					ASPath: asPath,
					Prefix: prefix,
					Origin: asPath[len(asPath)-1],
				}
				pathInfo[pathKey] = info
				collectors[pathKey] = make(map[string]struct{})
			}

			info.PeerCount++
			// The same path may be seen by one collector via several peers;
			// collector count is the size of the distinct set.
			collectors[pathKey][rrc.RRC] = struct{}{}
			info.CollectorCount = len(collectors[pathKey])
		}
	}

	paths := make([]ASPathInfo, 0, len(pathInfo))
	for _, info := range pathInfo {
		paths = append(paths, *info)
	}
	sort.SliceStable(paths, func(i, j int) bool {
		return paths[i].PeerCount > paths[j].PeerCount
	})

	log.WithFields(logrus.Fields{
		"unique_paths": len(paths),
		"duration":     time.Since(start),
	}).Info("AS path info fetched from RIS")
	return paths, nil
}

// GetBGPUpdates returns recent announcement events for an ASN within the
// given lookback window. Withdrawals are filtered out and the result is
// capped at the 100 most recent entries.
func (c *Client) GetBGPUpdates(ctx context.Context, asn string, hours int) ([]Announcement, error) {
	start := time.Now()
	log := c.log.WithFields(logrus.Fields{
		"operation": "bgp_updates",
		"asn":       asn,
		"hours":     hours,
	})
	log.Debug("Fetching BGP updates from RIS")

	resource := "AS" + NormalizeASN(asn)
	params := url.Values{}
	params.Set("starttime", fmt.Sprintf("%dh", hours))

	data, err := c.query(ctx, "bgp-updates", resource, params)
	metrics.ObserveRISQuery("bgp-updates", time.Since(start), err)
	if err != nil {
		log.WithError(err).Error("Failed to fetch BGP updates")
		return nil, fmt.Errorf("failed to fetch BGP updates: %w", err)
	}

	var payload struct {
		Updates []struct {
			Type      string `json:"type"`
			Prefix    string `json:"prefix"`
			Timestamp string `json:"timestamp"`
			RRC       string `json:"rrc"`
			Attrs     *struct {
				Origin asnScalar   `json:"origin"`
				Path   []asnScalar `json:"path"`
				Peer   asnScalar   `json:"peer"`
			} `json:"attrs"`
		} `json:"updates"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		log.WithError(err).Error("Failed to decode BGP updates")
		return nil, fmt.Errorf("failed to fetch BGP updates: %w", err)
	}

	updates := make([]Announcement, 0, len(payload.Updates))
	for _, update := range payload.Updates {
		if update.Type != "announcement" || update.Attrs == nil {
			continue
		}

		asPath := make([]string, 0, len(update.Attrs.Path))
		for _, hop := range update.Attrs.Path {
			asPath = append(asPath, hop.String())
		}

		updates = append(updates, Announcement{
			Prefix:    update.Prefix,
			OriginASN: update.Attrs.Origin.String(),
			ASPath:    asPath,
			PeerASN:   update.Attrs.Peer.String(),
			Collector: update.RRC,
			Timestamp: update.Timestamp,
		})
		if len(updates) == updatesLimit {
			break
		}
	}

	log.WithFields(logrus.Fields{
		"count":    len(updates),
		"duration": time.Since(start),
	}).Info("BGP updates fetched from RIS")
	return updates, nil
}

// TestConnection probes the API with a known-good ASN under a short timeout.
// It reports reachability as a boolean and never returns an error.
func (c *Client) TestConnection(ctx context.Context) bool {
	probeURL := fmt.Sprintf("%s/announced-prefixes/data.json?resource=%s", c.baseURL, TestASN)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return false
	}

	resp, err := c.probeClient.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	return resp.StatusCode >= 200 && resp.StatusCode < 300
}
