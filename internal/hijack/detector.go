// Package hijack compares live prefix announcements against the recorded
// ownership table and raises alerts on origin mismatches.
package hijack

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/sdko-org/bgp-console/internal/cache"
	"github.com/sdko-org/bgp-console/internal/metrics"
	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sdko-org/bgp-console/internal/webhook"
	"github.com/sirupsen/logrus"
)

// ownershipCacheTTL bounds how long a looked-up ownership record is reused
// before going back to the store.
const ownershipCacheTTL = 5 * time.Minute

type OwnershipStore interface {
	GetByPrefix(ctx context.Context, prefix string) *models.PrefixOwnership
	Upsert(ctx context.Context, prefix string, asn int, description string, actorID uint) bool
	TouchLastSeen(ctx context.Context, prefix string)
}

type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) *models.Alert
}

type SettingsStore interface {
	Get(ctx context.Context) *models.NotificationSettings
}

type Notifier interface {
	SendAlertNotification(ctx context.Context, alert webhook.Alert, settings webhook.Settings) webhook.Results
}

// Finding is the ephemeral result of one ownership check that detected a
// mismatch. It is the input to CreateAlert, not a persisted record.
type Finding struct {
	Prefix       string    `json:"prefix"`
	AnnouncedASN int       `json:"announcedAsn"`
	ExpectedASN  int       `json:"expectedAsn"`
	DetectedAt   time.Time `json:"detectedAt"`
	Severity     string    `json:"severity"`
}

type Detector struct {
	ownership OwnershipStore
	alerts    AlertStore
	settings  SettingsStore
	notifier  Notifier
	cache     cache.Store
	log       *logrus.Entry
}

func NewDetector(
	logger *logrus.Logger,
	ownership OwnershipStore,
	alerts AlertStore,
	settings SettingsStore,
	notifier Notifier,
	cacheStore cache.Store,
) *Detector {
	return &Detector{
		ownership: ownership,
		alerts:    alerts,
		settings:  settings,
		notifier:  notifier,
		cache:     cacheStore,
		log:       logger.WithField("component", "hijack_detector"),
	}
}

func ownershipCacheKey(prefix string) string {
	return "ownership:" + prefix
}

// lookupOwnership consults the TTL cache before the store. Only present
// records are cached; absence always goes to the store so newly monitored
// prefixes take effect immediately.
func (d *Detector) lookupOwnership(ctx context.Context, prefix string) *models.PrefixOwnership {
	if d.cache != nil {
		if data, ok := d.cache.Get(ctx, ownershipCacheKey(prefix)); ok {
			var record models.PrefixOwnership
			if err := json.Unmarshal(data, &record); err == nil {
				return &record
			}
		}
	}

	record := d.ownership.GetByPrefix(ctx, prefix)
	if record != nil && d.cache != nil {
		if data, err := json.Marshal(record); err == nil {
			d.cache.Set(ctx, ownershipCacheKey(prefix), data, ownershipCacheTTL)
		}
	}
	return record
}

// Check compares an announcement against the ownership table. It returns
// nil when the prefix is not monitored or the origin matches; a mismatch
// yields a critical finding. Lookup is by exact CIDR string: a more
// specific announcement under a monitored block does not match.
func (d *Detector) Check(ctx context.Context, prefix string, announcedASN int) *Finding {
	record := d.lookupOwnership(ctx, prefix)
	if record == nil {
		// Not monitored; no expectation to violate.
		metrics.ObserveHijackCheck(false)
		return nil
	}

	if announcedASN == record.ASN {
		metrics.ObserveHijackCheck(false)
		d.ownership.TouchLastSeen(ctx, prefix)
		return nil
	}

	metrics.ObserveHijackCheck(true)
	d.log.WithFields(logrus.Fields{
		"prefix":        prefix,
		"announced_asn": announcedASN,
		"expected_asn":  record.ASN,
	}).Warn("Potential prefix hijack detected")

	return &Finding{
		Prefix:       prefix,
		AnnouncedASN: announcedASN,
		ExpectedASN:  record.ASN,
		DetectedAt:   time.Now(),
		Severity:     models.SeverityCritical,
	}
}

// CreateAlert persists an alert for a finding and then, best-effort,
// dispatches notifications for it. The returned results are nil when
// dispatch was gated off or skipped; notification problems never fail the
// alert write. Returns 0 when persistence itself failed.
func (d *Detector) CreateAlert(ctx context.Context, finding *Finding, actorID uint) (uint, *webhook.Results) {
	alert := &models.Alert{
		Timestamp: finding.DetectedAt,
		Type:      models.AlertTypeHijack,
		Severity:  finding.Severity,
		Prefix:    finding.Prefix,
		ASN:       "AS" + strconv.Itoa(finding.AnnouncedASN),
		Message:   fmt.Sprintf("Potential prefix hijack detected: %s", finding.Prefix),
		Details: models.Details{
			"prefix":       finding.Prefix,
			"announcedAsn": finding.AnnouncedASN,
			"expectedAsn":  finding.ExpectedASN,
			"detectedAt":   finding.DetectedAt.UTC().Format(time.RFC3339),
		},
	}

	created := d.alerts.Create(ctx, alert)
	if created == nil {
		d.log.WithField("prefix", finding.Prefix).Error("Failed to persist hijack alert")
		return 0, nil
	}

	d.log.WithFields(logrus.Fields{
		"alert_id": created.ID,
		"prefix":   finding.Prefix,
	}).Info("Hijack alert created")

	results := d.notify(ctx, finding)
	return created.ID, results
}

// notify loads current settings and fans the alert out. Alert persistence is
// the source of truth; anything that goes wrong here is logged and dropped.
func (d *Detector) notify(ctx context.Context, finding *Finding) *webhook.Results {
	settings := d.settings.Get(ctx)
	if settings == nil {
		d.log.Warn("Notification settings unavailable, skipping dispatch")
		return nil
	}

	if !webhook.SeverityPasses(finding.Severity, settings.MinSeverity) {
		d.log.WithFields(logrus.Fields{
			"severity":     finding.Severity,
			"min_severity": settings.MinSeverity,
		}).Debug("Alert below notification threshold")
		return nil
	}

	results := d.notifier.SendAlertNotification(ctx,
		webhook.Alert{
			Type:      models.AlertTypeHijack,
			Severity:  finding.Severity,
			Prefix:    finding.Prefix,
			ASN:       strconv.Itoa(finding.AnnouncedASN),
			Message:   fmt.Sprintf("Potential hijack detected - Expected ASN: %d", finding.ExpectedASN),
			Timestamp: finding.DetectedAt,
			Details: map[string]interface{}{
				"expectedAsn":  finding.ExpectedASN,
				"announcedAsn": finding.AnnouncedASN,
			},
		},
		webhook.Settings{
			TeamsEnabled:      settings.TeamsEnabled,
			TeamsWebhookURL:   settings.TeamsWebhookURL,
			SlackEnabled:      settings.SlackEnabled,
			SlackWebhookURL:   settings.SlackWebhookURL,
			DiscordEnabled:    settings.DiscordEnabled,
			DiscordWebhookURL: settings.DiscordWebhookURL,
			MinSeverity:       settings.MinSeverity,
		},
	)
	return &results
}

// SetOwnership upserts the expected origin for a prefix and refreshes the
// cached record. Returns false on any storage failure.
func (d *Detector) SetOwnership(ctx context.Context, prefix string, asn int, description string, actorID uint) bool {
	if !d.ownership.Upsert(ctx, prefix, asn, description, actorID) {
		return false
	}

	if d.cache != nil {
		if record := d.ownership.GetByPrefix(ctx, prefix); record != nil {
			if data, err := json.Marshal(record); err == nil {
				d.cache.Set(ctx, ownershipCacheKey(prefix), data, ownershipCacheTTL)
			}
		}
	}
	return true
}
