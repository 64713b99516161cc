package webhook

import (
	"testing"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestSeverityPasses(t *testing.T) {
	tests := []struct {
		severity    string
		minSeverity string
		want        bool
	}{
		{models.SeverityCritical, models.SeverityCritical, true},
		{models.SeverityCritical, models.SeverityWarning, true},
		{models.SeverityCritical, models.SeverityInfo, true},
		{models.SeverityWarning, models.SeverityCritical, false},
		{models.SeverityWarning, models.SeverityWarning, true},
		{models.SeverityWarning, models.SeverityInfo, true},
		{models.SeverityInfo, models.SeverityCritical, false},
		{models.SeverityInfo, models.SeverityWarning, false},
		{models.SeverityInfo, models.SeverityInfo, true},
		{"bogus", models.SeverityInfo, false},
	}

	for _, tt := range tests {
		got := SeverityPasses(tt.severity, tt.minSeverity)
		assert.Equal(t, tt.want, got, "%s against min %s", tt.severity, tt.minSeverity)
	}
}

func TestValidSeverity(t *testing.T) {
	assert.True(t, ValidSeverity(models.SeverityCritical))
	assert.True(t, ValidSeverity(models.SeverityWarning))
	assert.True(t, ValidSeverity(models.SeverityInfo))
	assert.False(t, ValidSeverity("CRITICAL"))
	assert.False(t, ValidSeverity(""))
}
