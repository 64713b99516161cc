// Package email turns BGPalerter report emails into stored alerts.
//
// The daemon's reportEmail module mails plain-text reports per channel
// (hijack, rpki, visibility, path, newprefix); the console ingests those
// and files them alongside alerts it detects itself.
package email

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sirupsen/logrus"
)

var (
	prefixRegex = regexp.MustCompile(`(\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}/\d{1,2})`)
	asnRegex    = regexp.MustCompile(`(?i)AS(\d+)`)
)

// Message is one inbound report email.
type Message struct {
	Subject   string
	Body      string
	From      string
	Timestamp time.Time
}

// ParsedAlert is the structured alert extracted from a report email.
type ParsedAlert struct {
	Type     string
	Severity string
	Prefix   string
	ASN      string
	Message  string
	Details  models.Details
}

// typeRules maps subject keywords to alert type and severity, checked in
// order so the more serious channels win on ambiguous subjects.
var typeRules = []struct {
	keyword   string
	alertType string
	severity  string
}{
	{"hijack", models.AlertTypeHijack, models.SeverityCritical},
	{"rpki", models.AlertTypeRPKI, models.SeverityWarning},
	{"visibility", models.AlertTypeVisibility, models.SeverityWarning},
	{"path", models.AlertTypePath, models.SeverityInfo},
	{"new prefix", models.AlertTypeNewPrefix, models.SeverityInfo},
}

// Parse extracts a structured alert from a report email. Unknown subjects
// fall through to type "unknown" with severity info.
func Parse(msg Message) ParsedAlert {
	alertType := "unknown"
	severity := models.SeverityInfo

	subject := strings.ToLower(msg.Subject)
	for _, rule := range typeRules {
		if strings.Contains(subject, rule.keyword) {
			alertType = rule.alertType
			severity = rule.severity
			break
		}
	}

	prefix := "unknown"
	if match := prefixRegex.FindString(msg.Subject); match != "" {
		prefix = match
	}

	asn := ""
	if match := asnRegex.FindStringSubmatch(msg.Subject); match != nil {
		asn = "AS" + match[1]
	} else if match := asnRegex.FindStringSubmatch(msg.Body); match != nil {
		asn = "AS" + match[1]
	}

	return ParsedAlert{
		Type:     alertType,
		Severity: severity,
		Prefix:   prefix,
		ASN:      asn,
		Message:  msg.Subject,
		Details: models.Details{
			"emailBody":  msg.Body,
			"from":       msg.From,
			"receivedAt": msg.Timestamp.UTC().Format(time.RFC3339),
		},
	}
}

type AlertStore interface {
	Create(ctx context.Context, alert *models.Alert) *models.Alert
}

type Ingestor struct {
	alerts AlertStore
	log    *logrus.Entry
}

func NewIngestor(logger *logrus.Logger, alerts AlertStore) *Ingestor {
	return &Ingestor{
		alerts: alerts,
		log:    logger.WithField("component", "email_ingestor"),
	}
}

// Process parses an inbound report email and stores the resulting alert.
func (i *Ingestor) Process(ctx context.Context, msg Message) bool {
	parsed := Parse(msg)

	alert := i.alerts.Create(ctx, &models.Alert{
		Timestamp: msg.Timestamp,
		Type:      parsed.Type,
		Severity:  parsed.Severity,
		Prefix:    parsed.Prefix,
		ASN:       parsed.ASN,
		Message:   parsed.Message,
		Details:   parsed.Details,
	})
	if alert == nil {
		i.log.WithField("type", parsed.Type).Error("Failed to store email alert")
		return false
	}

	i.log.WithFields(logrus.Fields{
		"alert_id": alert.ID,
		"type":     parsed.Type,
		"severity": parsed.Severity,
	}).Info("Email alert processed")
	return true
}
