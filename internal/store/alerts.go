package store

import (
	"context"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Alerts struct {
	base
}

func NewAlerts(logger *logrus.Logger, db *gorm.DB) *Alerts {
	return &Alerts{base{db: db, log: logger.WithField("component", "alert_store")}}
}

// AlertFilter narrows List results. Nil/zero fields are ignored.
type AlertFilter struct {
	Severity string
	Type     string
	Resolved *bool
	Limit    int
	Offset   int
}

// AlertStats summarizes the alert table for the dashboard header.
type AlertStats struct {
	Total      int64            `json:"total"`
	Unresolved int64            `json:"unresolved"`
	BySeverity map[string]int64 `json:"bySeverity"`
}

// Create persists an alert and returns it with its assigned ID, or nil when
// storage is unavailable or the insert fails.
func (s *Alerts) Create(ctx context.Context, alert *models.Alert) *models.Alert {
	if !s.available() {
		return nil
	}

	if err := s.db.WithContext(ctx).Create(alert).Error; err != nil {
		s.log.WithError(err).Error("Failed to create alert")
		return nil
	}
	return alert
}

func (s *Alerts) GetByID(ctx context.Context, id uint) *models.Alert {
	if !s.available() {
		return nil
	}

	var alert models.Alert
	if err := s.db.WithContext(ctx).First(&alert, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithError(err).Error("Failed to load alert")
		}
		return nil
	}
	return &alert
}

func (s *Alerts) List(ctx context.Context, filter AlertFilter) []models.Alert {
	if !s.available() {
		return []models.Alert{}
	}

	query := s.db.WithContext(ctx).Model(&models.Alert{})
	if filter.Severity != "" {
		query = query.Where("severity = ?", filter.Severity)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Resolved != nil {
		query = query.Where("resolved = ?", *filter.Resolved)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var alerts []models.Alert
	if err := query.Order("timestamp DESC").Limit(limit).Offset(filter.Offset).Find(&alerts).Error; err != nil {
		s.log.WithError(err).Error("Failed to list alerts")
		return []models.Alert{}
	}
	return alerts
}

// Resolve flips an alert to resolved, recording the actor and time.
func (s *Alerts) Resolve(ctx context.Context, id, actorID uint, notes string) bool {
	if !s.available() {
		return false
	}

	now := time.Now()
	updates := map[string]interface{}{
		"resolved":    true,
		"resolved_at": now,
		"resolved_by": actorID,
	}
	if notes != "" {
		updates["notes"] = notes
	}

	result := s.db.WithContext(ctx).Model(&models.Alert{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		s.log.WithError(result.Error).Error("Failed to resolve alert")
		return false
	}
	return result.RowsAffected > 0
}

// Acknowledge marks an alert as seen without resolving it.
func (s *Alerts) Acknowledge(ctx context.Context, id, actorID uint) bool {
	if !s.available() {
		return false
	}

	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.Alert{}).Where("id = ?", id).Updates(map[string]interface{}{
		"acknowledged":    true,
		"acknowledged_at": now,
		"acknowledged_by": actorID,
	})
	if result.Error != nil {
		s.log.WithError(result.Error).Error("Failed to acknowledge alert")
		return false
	}
	return result.RowsAffected > 0
}

func (s *Alerts) Stats(ctx context.Context) AlertStats {
	stats := AlertStats{BySeverity: map[string]int64{}}
	if !s.available() {
		return stats
	}

	db := s.db.WithContext(ctx).Model(&models.Alert{})
	if err := db.Count(&stats.Total).Error; err != nil {
		s.log.WithError(err).Error("Failed to count alerts")
		return stats
	}
	if err := s.db.WithContext(ctx).Model(&models.Alert{}).
		Where("resolved = ?", false).Count(&stats.Unresolved).Error; err != nil {
		s.log.WithError(err).Error("Failed to count unresolved alerts")
	}

	type severityCount struct {
		Severity string
		Count    int64
	}
	var counts []severityCount
	if err := s.db.WithContext(ctx).Model(&models.Alert{}).
		Select("severity, count(*) as count").Group("severity").Scan(&counts).Error; err != nil {
		s.log.WithError(err).Error("Failed to count alerts by severity")
		return stats
	}
	for _, c := range counts {
		stats.BySeverity[c.Severity] = c.Count
	}
	return stats
}
