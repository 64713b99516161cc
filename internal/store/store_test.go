package store

import (
	"context"
	"io"
	"testing"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The stores must degrade to neutral values rather than fail when the
// console runs without a database.

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestAlertsWithoutDatabase(t *testing.T) {
	alerts := NewAlerts(testLogger(), nil)
	ctx := context.Background()

	assert.Nil(t, alerts.Create(ctx, &models.Alert{Type: models.AlertTypeTest}))
	assert.Nil(t, alerts.GetByID(ctx, 1))
	assert.Empty(t, alerts.List(ctx, AlertFilter{}))
	assert.False(t, alerts.Resolve(ctx, 1, 1, ""))
	assert.False(t, alerts.Acknowledge(ctx, 1, 1))

	stats := alerts.Stats(ctx)
	assert.Zero(t, stats.Total)
	assert.NotNil(t, stats.BySeverity)
}

func TestSettingsWithoutDatabase(t *testing.T) {
	settings := NewSettings(testLogger(), nil)
	ctx := context.Background()

	got := settings.Get(ctx)
	require.NotNil(t, got)
	assert.False(t, got.TeamsEnabled)
	assert.False(t, got.SlackEnabled)
	assert.False(t, got.DiscordEnabled)
	assert.Equal(t, models.SeverityInfo, got.MinSeverity)

	enabled := true
	assert.Nil(t, settings.Update(ctx, SettingsUpdate{TeamsEnabled: &enabled}, 1))
}

func TestOwnershipWithoutDatabase(t *testing.T) {
	ownership := NewOwnership(testLogger(), nil)
	ctx := context.Background()

	assert.Nil(t, ownership.GetByPrefix(ctx, "203.0.113.0/24"))
	assert.False(t, ownership.Upsert(ctx, "203.0.113.0/24", 64512, "", 1))
	assert.Empty(t, ownership.List(ctx))
	ownership.TouchLastSeen(ctx, "203.0.113.0/24")
}
