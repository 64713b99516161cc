package store

import (
	"context"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type Ownership struct {
	base
}

func NewOwnership(logger *logrus.Logger, db *gorm.DB) *Ownership {
	return &Ownership{base{db: db, log: logger.WithField("component", "ownership_store")}}
}

// GetByPrefix returns the ownership record for an exact CIDR string, or nil
// when the prefix is not monitored or storage is unavailable.
func (s *Ownership) GetByPrefix(ctx context.Context, prefix string) *models.PrefixOwnership {
	if !s.available() {
		return nil
	}

	var record models.PrefixOwnership
	err := s.db.WithContext(ctx).Where("prefix = ?", prefix).First(&record).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			s.log.WithError(err).WithField("prefix", prefix).Error("Failed to load prefix ownership")
		}
		return nil
	}
	return &record
}

// Upsert creates or updates the record keyed on the exact prefix string.
func (s *Ownership) Upsert(ctx context.Context, prefix string, asn int, description string, actorID uint) bool {
	if !s.available() {
		return false
	}

	existing := s.GetByPrefix(ctx, prefix)
	if existing != nil {
		err := s.db.WithContext(ctx).Model(existing).Updates(map[string]interface{}{
			"asn":         asn,
			"description": description,
			"updated_by":  actorID,
			"updated_at":  time.Now(),
		}).Error
		if err != nil {
			s.log.WithError(err).WithField("prefix", prefix).Error("Failed to update prefix ownership")
			return false
		}
	} else {
		record := models.PrefixOwnership{
			Prefix:      prefix,
			ASN:         asn,
			Description: description,
			Source:      "manual",
			CreatedBy:   actorID,
		}
		if err := s.db.WithContext(ctx).Create(&record).Error; err != nil {
			s.log.WithError(err).WithField("prefix", prefix).Error("Failed to create prefix ownership")
			return false
		}
	}

	s.log.WithFields(logrus.Fields{
		"prefix": prefix,
		"asn":    asn,
	}).Info("Prefix ownership updated")
	return true
}

// List returns all monitored prefixes ordered by prefix string.
func (s *Ownership) List(ctx context.Context) []models.PrefixOwnership {
	if !s.available() {
		return []models.PrefixOwnership{}
	}

	var records []models.PrefixOwnership
	if err := s.db.WithContext(ctx).Order("prefix").Find(&records).Error; err != nil {
		s.log.WithError(err).Error("Failed to list monitored prefixes")
		return []models.PrefixOwnership{}
	}
	return records
}

// TouchLastSeen records that a prefix was announced by its expected origin.
func (s *Ownership) TouchLastSeen(ctx context.Context, prefix string) {
	if !s.available() {
		return
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&models.PrefixOwnership{}).
		Where("prefix = ?", prefix).Update("last_seen", now).Error; err != nil {
		s.log.WithError(err).WithField("prefix", prefix).Warn("Failed to update last seen")
	}
}
