package webhook

import (
	"fmt"
	"strings"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
)

// Per-channel severity styling. Teams uses adaptive-card color names,
// Slack hex strings, Discord decimal color values.
var (
	teamsColors = map[string]string{
		models.SeverityCritical: "attention",
		models.SeverityWarning:  "warning",
		models.SeverityInfo:     "good",
	}
	slackColors = map[string]string{
		models.SeverityCritical: "#dc2626",
		models.SeverityWarning:  "#f59e0b",
		models.SeverityInfo:     "#3b82f6",
	}
	slackEmojis = map[string]string{
		models.SeverityCritical: ":rotating_light:",
		models.SeverityWarning:  ":warning:",
		models.SeverityInfo:     ":information_source:",
	}
	discordColors = map[string]int{
		models.SeverityCritical: 0xdc2626,
		models.SeverityWarning:  0xf59e0b,
		models.SeverityInfo:     0x3b82f6,
	}
)

func alertTitle(alert Alert) string {
	return fmt.Sprintf("BGP Alert: %s", strings.ToUpper(alert.Type))
}

type teamsFact struct {
	Title string `json:"title"`
	Value string `json:"value"`
}

type teamsBlock struct {
	Type   string      `json:"type"`
	Text   string      `json:"text,omitempty"`
	Weight string      `json:"weight,omitempty"`
	Size   string      `json:"size,omitempty"`
	Color  string      `json:"color,omitempty"`
	Wrap   bool        `json:"wrap,omitempty"`
	Facts  []teamsFact `json:"facts,omitempty"`
}

type teamsCardContent struct {
	Type    string       `json:"type"`
	Version string       `json:"version"`
	Body    []teamsBlock `json:"body"`
}

type teamsAttachment struct {
	ContentType string           `json:"contentType"`
	Content     teamsCardContent `json:"content"`
}

type teamsPayload struct {
	Type        string            `json:"type"`
	Attachments []teamsAttachment `json:"attachments"`
}

func teamsCard(alert Alert) teamsPayload {
	facts := []teamsFact{
		{Title: "Severity", Value: strings.ToUpper(alert.Severity)},
		{Title: "Prefix", Value: alert.Prefix},
	}
	if alert.ASN != "" {
		facts = append(facts, teamsFact{Title: "ASN", Value: alert.ASN})
	}
	facts = append(facts, teamsFact{Title: "Time", Value: alert.Timestamp.UTC().Format(time.RFC3339)})

	return teamsPayload{
		Type: "message",
		Attachments: []teamsAttachment{
			{
				ContentType: "application/vnd.microsoft.card.adaptive",
				Content: teamsCardContent{
					Type:    "AdaptiveCard",
					Version: "1.4",
					Body: []teamsBlock{
						{
							Type:   "TextBlock",
							Text:   alertTitle(alert),
							Weight: "bolder",
							Size:   "large",
							Color:  teamsColors[alert.Severity],
						},
						{Type: "FactSet", Facts: facts},
						{Type: "TextBlock", Text: alert.Message, Wrap: true},
					},
				},
			},
		},
	}
}

type slackField struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

type slackAttachment struct {
	Color  string       `json:"color"`
	Fields []slackField `json:"fields"`
}

type slackPayload struct {
	Text        string            `json:"text"`
	Attachments []slackAttachment `json:"attachments"`
}

func slackMessage(alert Alert) slackPayload {
	fields := []slackField{
		{Title: "Severity", Value: strings.ToUpper(alert.Severity), Short: true},
		{Title: "Prefix", Value: alert.Prefix, Short: true},
	}
	if alert.ASN != "" {
		fields = append(fields, slackField{Title: "ASN", Value: alert.ASN, Short: true})
	}
	fields = append(fields,
		slackField{Title: "Time", Value: alert.Timestamp.UTC().Format(time.RFC3339), Short: true},
		slackField{Title: "Message", Value: alert.Message, Short: false},
	)

	return slackPayload{
		Text: fmt.Sprintf("%s %s", slackEmojis[alert.Severity], alertTitle(alert)),
		Attachments: []slackAttachment{
			{Color: slackColors[alert.Severity], Fields: fields},
		},
	}
}

type discordField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

type discordEmbedObject struct {
	Title     string         `json:"title"`
	Color     int            `json:"color"`
	Fields    []discordField `json:"fields"`
	Timestamp string         `json:"timestamp"`
	Footer    struct {
		Text string `json:"text"`
	} `json:"footer"`
}

type discordPayload struct {
	Embeds []discordEmbedObject `json:"embeds"`
}

func discordEmbed(alert Alert) discordPayload {
	fields := []discordField{
		{Name: "Severity", Value: strings.ToUpper(alert.Severity), Inline: true},
		{Name: "Prefix", Value: alert.Prefix, Inline: true},
	}
	if alert.ASN != "" {
		fields = append(fields, discordField{Name: "ASN", Value: alert.ASN, Inline: true})
	}
	fields = append(fields, discordField{Name: "Message", Value: alert.Message, Inline: false})

	embed := discordEmbedObject{
		Title:     fmt.Sprintf("\U0001F6A8 %s", alertTitle(alert)),
		Color:     discordColors[alert.Severity],
		Fields:    fields,
		Timestamp: alert.Timestamp.UTC().Format(time.RFC3339),
	}
	embed.Footer.Text = "BGP Console"

	return discordPayload{Embeds: []discordEmbedObject{embed}}
}
