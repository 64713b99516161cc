package store

import (
	"context"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Settings struct {
	base
}

func NewSettings(logger *logrus.Logger, db *gorm.DB) *Settings {
	return &Settings{base{db: db, log: logger.WithField("component", "settings_store")}}
}

// SettingsUpdate is a partial update; nil fields are left untouched.
type SettingsUpdate struct {
	TeamsEnabled      *bool   `json:"teamsEnabled,omitempty"`
	TeamsWebhookURL   *string `json:"teamsWebhookUrl,omitempty"`
	SlackEnabled      *bool   `json:"slackEnabled,omitempty"`
	SlackWebhookURL   *string `json:"slackWebhookUrl,omitempty"`
	DiscordEnabled    *bool   `json:"discordEnabled,omitempty"`
	DiscordWebhookURL *string `json:"discordWebhookUrl,omitempty"`
	MinSeverity       *string `json:"minSeverity,omitempty"`
}

func defaultSettings() *models.NotificationSettings {
	return &models.NotificationSettings{
		MinSeverity: models.SeverityInfo,
	}
}

// Get returns the singleton settings row, creating it with defaults when the
// table is empty. When storage is unavailable it synthesizes the defaults
// (all channels disabled, minimum severity info) instead of failing.
func (s *Settings) Get(ctx context.Context) *models.NotificationSettings {
	if !s.available() {
		return defaultSettings()
	}

	var settings models.NotificationSettings
	err := s.db.WithContext(ctx).Order("id").First(&settings).Error
	if err == nil {
		return &settings
	}
	if err != gorm.ErrRecordNotFound {
		s.log.WithError(err).Error("Failed to load notification settings")
		return defaultSettings()
	}

	created := defaultSettings()
	if err := s.db.WithContext(ctx).Create(created).Error; err != nil {
		s.log.WithError(err).Error("Failed to create default notification settings")
		return defaultSettings()
	}
	return created
}

// Update applies a partial update to the singleton row and returns the
// resulting settings, or nil when storage is unavailable.
func (s *Settings) Update(ctx context.Context, update SettingsUpdate, actorID uint) *models.NotificationSettings {
	if !s.available() {
		return nil
	}

	current := s.Get(ctx)
	if current == nil || current.ID == 0 {
		return nil
	}

	fields := map[string]interface{}{
		"updated_by": actorID,
		"updated_at": time.Now(),
	}
	if update.TeamsEnabled != nil {
		fields["teams_enabled"] = *update.TeamsEnabled
	}
	if update.TeamsWebhookURL != nil {
		fields["teams_webhook_url"] = *update.TeamsWebhookURL
	}
	if update.SlackEnabled != nil {
		fields["slack_enabled"] = *update.SlackEnabled
	}
	if update.SlackWebhookURL != nil {
		fields["slack_webhook_url"] = *update.SlackWebhookURL
	}
	if update.DiscordEnabled != nil {
		fields["discord_enabled"] = *update.DiscordEnabled
	}
	if update.MinSeverity != nil {
		fields["min_severity"] = *update.MinSeverity
	}
	if update.DiscordWebhookURL != nil {
		fields["discord_webhook_url"] = *update.DiscordWebhookURL
	}

	if err := s.db.WithContext(ctx).Model(&models.NotificationSettings{}).
		Where("id = ?", current.ID).Updates(fields).Error; err != nil {
		s.log.WithError(err).Error("Failed to update notification settings")
		return nil
	}

	s.log.WithFields(logrus.Fields{
		"actor_id": actorID,
	}).Info("Notification settings updated")
	return s.Get(ctx)
}
