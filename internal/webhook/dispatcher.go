// Package webhook formats and delivers alert notifications to the
// operator-configured chat channels.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/sdko-org/bgp-console/internal/metrics"
	"github.com/sirupsen/logrus"
)

const (
	ChannelTeams   = "teams"
	ChannelSlack   = "slack"
	ChannelDiscord = "discord"
)

// Alert is the payload handed to the channel senders.
type Alert struct {
	Type      string
	Severity  string
	Prefix    string
	ASN       string
	Message   string
	Timestamp time.Time
	Details   map[string]interface{}
}

// Settings holds the per-channel dispatch configuration.
type Settings struct {
	TeamsEnabled      bool
	TeamsWebhookURL   string
	SlackEnabled      bool
	SlackWebhookURL   string
	DiscordEnabled    bool
	DiscordWebhookURL string
	MinSeverity       string
}

// Results reports per-channel delivery outcomes. A channel that was
// disabled or had no URL reports false without having been attempted.
type Results struct {
	Teams   bool `json:"teams"`
	Slack   bool `json:"slack"`
	Discord bool `json:"discord"`
}

type Dispatcher struct {
	httpClient *http.Client
	log        *logrus.Entry
}

func NewDispatcher(logger *logrus.Logger, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.WithField("component", "webhook"),
	}
}

// SendTeams posts an adaptive card to a Teams incoming webhook.
func (d *Dispatcher) SendTeams(ctx context.Context, webhookURL string, alert Alert) bool {
	return d.post(ctx, ChannelTeams, webhookURL, teamsCard(alert), alert)
}

// SendSlack posts an attachment-based message to a Slack incoming webhook.
func (d *Dispatcher) SendSlack(ctx context.Context, webhookURL string, alert Alert) bool {
	return d.post(ctx, ChannelSlack, webhookURL, slackMessage(alert), alert)
}

// SendDiscord posts an embed to a Discord webhook.
func (d *Dispatcher) SendDiscord(ctx context.Context, webhookURL string, alert Alert) bool {
	return d.post(ctx, ChannelDiscord, webhookURL, discordEmbed(alert), alert)
}

// SendAlertNotification fans an alert out to every enabled channel.
// Eligible sends run concurrently; one channel failing or stalling never
// affects the others.
func (d *Dispatcher) SendAlertNotification(ctx context.Context, alert Alert, settings Settings) Results {
	var results Results
	var wg sync.WaitGroup

	if settings.TeamsEnabled && settings.TeamsWebhookURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Teams = d.SendTeams(ctx, settings.TeamsWebhookURL, alert)
		}()
	} else {
		metrics.ObserveWebhookSkipped(ChannelTeams)
	}

	if settings.SlackEnabled && settings.SlackWebhookURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Slack = d.SendSlack(ctx, settings.SlackWebhookURL, alert)
		}()
	} else {
		metrics.ObserveWebhookSkipped(ChannelSlack)
	}

	if settings.DiscordEnabled && settings.DiscordWebhookURL != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results.Discord = d.SendDiscord(ctx, settings.DiscordWebhookURL, alert)
		}()
	} else {
		metrics.ObserveWebhookSkipped(ChannelDiscord)
	}

	wg.Wait()
	return results
}

// post delivers one payload to one channel. All failures are absorbed and
// reported as false; a notification failure must never propagate into the
// operation that triggered it.
func (d *Dispatcher) post(ctx context.Context, channel, webhookURL string, payload interface{}, alert Alert) bool {
	log := d.log.WithFields(logrus.Fields{
		"channel":    channel,
		"alert_type": alert.Type,
		"severity":   alert.Severity,
	})

	body, err := json.Marshal(payload)
	if err != nil {
		log.WithError(err).Error("Failed to encode webhook payload")
		metrics.ObserveWebhookDelivery(channel, false)
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, webhookURL, bytes.NewReader(body))
	if err != nil {
		log.WithError(err).Error("Failed to build webhook request")
		metrics.ObserveWebhookDelivery(channel, false)
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		log.WithError(err).Error("Webhook request failed")
		metrics.ObserveWebhookDelivery(channel, false)
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.WithField("status_code", resp.StatusCode).Error("Webhook rejected notification")
		metrics.ObserveWebhookDelivery(channel, false)
		return false
	}

	log.Info("Notification sent")
	metrics.ObserveWebhookDelivery(channel, true)
	return true
}
