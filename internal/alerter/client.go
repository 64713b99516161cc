// Package alerter talks to the BGPalerter daemon's REST API.
package alerter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type Status struct {
	Warning     bool        `json:"warning"`
	Connectors  []Connector `json:"connectors"`
	RPKI        RPKIStatus  `json:"rpki"`
	LastUpdated time.Time   `json:"lastUpdated"`
}

type Connector struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

type RPKIStatus struct {
	Data     bool   `json:"data"`
	Stale    bool   `json:"stale"`
	Provider string `json:"provider"`
}

type Monitor struct {
	Name   string `json:"name"`
	Type   string `json:"type"`
	Active bool   `json:"active"`
}

type Client struct {
	httpClient *http.Client
	baseURL    string
	log        *logrus.Entry
}

func NewClient(logger *logrus.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		log:        logger.WithField("component", "alerter_client"),
	}
}

// GetStatus fetches the daemon's /status endpoint.
func (c *Client) GetStatus(ctx context.Context) (*Status, error) {
	log := c.log.WithField("operation", "status")
	log.Debug("Fetching BGPalerter status")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/status", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to BGPalerter API: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Warn("BGPalerter API unreachable")
		return nil, fmt.Errorf("failed to connect to BGPalerter API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.WithField("status_code", resp.StatusCode).Error("BGPalerter API returned error")
		return nil, fmt.Errorf("BGPalerter API returned HTTP %d", resp.StatusCode)
	}

	var status Status
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		log.WithError(err).Error("Failed to decode BGPalerter status")
		return nil, fmt.Errorf("failed to decode BGPalerter status: %w", err)
	}
	status.LastUpdated = time.Now()

	log.WithFields(logrus.Fields{
		"warning":    status.Warning,
		"connectors": len(status.Connectors),
	}).Info("BGPalerter status retrieved")
	return &status, nil
}

// GetMonitors derives the monitor list from the daemon status and the
// standard BGPalerter monitor set. Degrades to an empty list when the
// daemon is unreachable.
func (c *Client) GetMonitors(ctx context.Context) []Monitor {
	status, err := c.GetStatus(ctx)
	if err != nil {
		return []Monitor{}
	}

	return []Monitor{
		{Name: "Hijack Monitor", Type: "monitorHijack", Active: true},
		{Name: "RPKI Validator", Type: "monitorRPKI", Active: status.RPKI.Data},
		{Name: "Visibility Monitor", Type: "monitorVisibility", Active: true},
		{Name: "Path Monitor", Type: "monitorPath", Active: true},
		{Name: "New Prefix Monitor", Type: "monitorNewPrefix", Active: true},
		{Name: "ROA Monitor", Type: "monitorROAS", Active: status.RPKI.Data},
	}
}

// TestConnection reports whether the daemon API answers.
func (c *Client) TestConnection(ctx context.Context) bool {
	_, err := c.GetStatus(ctx)
	return err == nil
}
