package email

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sdko-org/bgp-console/internal/models"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name         string
		subject      string
		body         string
		wantType     string
		wantSeverity string
		wantPrefix   string
		wantASN      string
	}{
		{
			name:         "hijack report",
			subject:      "Possible hijack of 203.0.113.0/24 by AS64666",
			wantType:     models.AlertTypeHijack,
			wantSeverity: models.SeverityCritical,
			wantPrefix:   "203.0.113.0/24",
			wantASN:      "AS64666",
		},
		{
			name:         "rpki report",
			subject:      "RPKI validation failed for 198.51.100.0/24",
			body:         "Origin AS64512 is not covered by a ROA",
			wantType:     models.AlertTypeRPKI,
			wantSeverity: models.SeverityWarning,
			wantPrefix:   "198.51.100.0/24",
			wantASN:      "AS64512",
		},
		{
			name:         "visibility report",
			subject:      "Visibility loss detected for 192.0.2.0/24",
			wantType:     models.AlertTypeVisibility,
			wantSeverity: models.SeverityWarning,
			wantPrefix:   "192.0.2.0/24",
			wantASN:      "",
		},
		{
			name:         "path report",
			subject:      "Path change on 192.0.2.0/24 via AS1299",
			wantType:     models.AlertTypePath,
			wantSeverity: models.SeverityInfo,
			wantPrefix:   "192.0.2.0/24",
			wantASN:      "AS1299",
		},
		{
			name:         "new prefix report",
			subject:      "New prefix 192.0.2.0/24 announced by AS64512",
			wantType:     models.AlertTypeNewPrefix,
			wantSeverity: models.SeverityInfo,
			wantPrefix:   "192.0.2.0/24",
			wantASN:      "AS64512",
		},
		{
			name:         "hijack keyword wins over path",
			subject:      "Hijack with path anomaly on 192.0.2.0/24",
			wantType:     models.AlertTypeHijack,
			wantSeverity: models.SeverityCritical,
			wantPrefix:   "192.0.2.0/24",
			wantASN:      "",
		},
		{
			name:         "unknown subject",
			subject:      "Scheduled maintenance tonight",
			wantType:     "unknown",
			wantSeverity: models.SeverityInfo,
			wantPrefix:   "unknown",
			wantASN:      "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed := Parse(Message{
				Subject:   tt.subject,
				Body:      tt.body,
				From:      "bgpalerter@example.net",
				Timestamp: time.Now(),
			})

			assert.Equal(t, tt.wantType, parsed.Type)
			assert.Equal(t, tt.wantSeverity, parsed.Severity)
			assert.Equal(t, tt.wantPrefix, parsed.Prefix)
			assert.Equal(t, tt.wantASN, parsed.ASN)
			assert.Equal(t, tt.subject, parsed.Message)
		})
	}
}

func TestParseASNFallsBackToBody(t *testing.T) {
	parsed := Parse(Message{
		Subject: "Possible hijack of 203.0.113.0/24",
		Body:    "The prefix was announced by AS64666 instead of the expected origin.",
	})
	assert.Equal(t, "AS64666", parsed.ASN)
}

type recordingStore struct {
	created []*models.Alert
	fail    bool
}

func (r *recordingStore) Create(_ context.Context, alert *models.Alert) *models.Alert {
	if r.fail {
		return nil
	}
	alert.ID = uint(len(r.created) + 1)
	r.created = append(r.created, alert)
	return alert
}

func TestIngestorProcess(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	store := &recordingStore{}
	ingestor := NewIngestor(logger, store)

	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	ok := ingestor.Process(context.Background(), Message{
		Subject:   "Possible hijack of 203.0.113.0/24 by AS64666",
		Body:      "details",
		From:      "bgpalerter@example.net",
		Timestamp: ts,
	})

	require.True(t, ok)
	require.Len(t, store.created, 1)
	alert := store.created[0]
	assert.Equal(t, models.AlertTypeHijack, alert.Type)
	assert.Equal(t, ts, alert.Timestamp)
	assert.Equal(t, "2024-03-01T12:00:00Z", alert.Details["receivedAt"])
}

func TestIngestorProcessStorageFailure(t *testing.T) {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	ingestor := NewIngestor(logger, &recordingStore{fail: true})

	ok := ingestor.Process(context.Background(), Message{Subject: "Possible hijack of 203.0.113.0/24"})
	assert.False(t, ok)
}
