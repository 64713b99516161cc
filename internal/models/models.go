package models

import (
	"time"
)

// Alert severities, ordered critical > warning > info.
const (
	SeverityCritical = "critical"
	SeverityWarning  = "warning"
	SeverityInfo     = "info"
)

// Alert type tags as emitted by BGPalerter channels.
const (
	AlertTypeHijack     = "hijack"
	AlertTypeRPKI       = "rpki"
	AlertTypeVisibility = "visibility"
	AlertTypePath       = "path"
	AlertTypeNewPrefix  = "newprefix"
	AlertTypeTest       = "test"
)

type Alert struct {
	ID             uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp      time.Time `gorm:"index;not null" json:"timestamp"`
	Type           string    `gorm:"type:varchar(50);not null;index" json:"type"`
	Severity       string    `gorm:"type:varchar(10);not null;index" json:"severity"`
	Prefix         string    `gorm:"type:varchar(50);not null" json:"prefix"`
	ASN            string    `gorm:"type:varchar(20)" json:"asn,omitempty"`
	Message        string    `gorm:"type:text;not null" json:"message"`
	Details        Details   `gorm:"serializer:json" json:"details,omitempty"`
	Resolved       bool      `gorm:"not null;default:false;index" json:"resolved"`
	ResolvedAt     *time.Time `json:"resolvedAt,omitempty"`
	ResolvedBy     *uint      `json:"resolvedBy,omitempty"`
	Acknowledged   bool       `gorm:"not null;default:false" json:"acknowledged"`
	AcknowledgedAt *time.Time `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy *uint      `json:"acknowledgedBy,omitempty"`
	Notes          string     `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

// Details is an open string-keyed map for free-form alert context.
// Values are scalars or nested maps coming straight from JSON.
type Details map[string]interface{}

type NotificationSettings struct {
	ID                uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	TeamsEnabled      bool      `gorm:"not null;default:false" json:"teamsEnabled"`
	TeamsWebhookURL   string    `gorm:"type:text" json:"teamsWebhookUrl"`
	SlackEnabled      bool      `gorm:"not null;default:false" json:"slackEnabled"`
	SlackWebhookURL   string    `gorm:"type:text" json:"slackWebhookUrl"`
	DiscordEnabled    bool      `gorm:"not null;default:false" json:"discordEnabled"`
	DiscordWebhookURL string    `gorm:"type:text" json:"discordWebhookUrl"`
	MinSeverity       string    `gorm:"type:varchar(10);not null;default:info" json:"minSeverity"`
	UpdatedBy         *uint     `json:"updatedBy,omitempty"`
	UpdatedAt         time.Time `json:"updatedAt"`
	CreatedAt         time.Time `json:"createdAt"`
}

type PrefixOwnership struct {
	ID          uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	Prefix      string     `gorm:"type:varchar(50);not null;uniqueIndex" json:"prefix"`
	ASN         int        `gorm:"not null" json:"asn"`
	Description string     `gorm:"type:text" json:"description,omitempty"`
	Verified    bool       `gorm:"not null;default:false" json:"verified"`
	Source      string     `gorm:"type:varchar(50)" json:"source,omitempty"`
	CreatedBy   uint       `gorm:"not null" json:"createdBy"`
	UpdatedBy   *uint      `json:"updatedBy,omitempty"`
	LastSeen    *time.Time `json:"lastSeen,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"index;not null"`
	Method    string    `gorm:"type:varchar(10);not null"`
	Path      string    `gorm:"type:text;not null;index:,length:256"`
	Status    int       `gorm:"not null;index"`
	Duration  time.Duration
	ClientIP  string `gorm:"type:varchar(45);not null"`
	UserAgent string `gorm:"type:text"`
	BytesSent int    `gorm:"not null;default:0"`
}

func (Alert) TableName() string {
	return "bgp_alerts"
}

func (NotificationSettings) TableName() string {
	return "notification_settings"
}

func (PrefixOwnership) TableName() string {
	return "prefix_ownership"
}

func (AuditLog) TableName() string {
	return "audit_logs"
}
