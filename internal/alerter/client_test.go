package alerter

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestGetStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/status", r.URL.Path)
		fmt.Fprint(w, `{"warning":false,"connectors":[{"name":"ris","connected":true}],"rpki":{"data":true,"stale":false,"provider":"ntt"}}`)
	}))
	defer server.Close()

	client := NewClient(testLogger(), server.URL, 5*time.Second)
	status, err := client.GetStatus(context.Background())
	require.NoError(t, err)

	assert.False(t, status.Warning)
	require.Len(t, status.Connectors, 1)
	assert.True(t, status.Connectors[0].Connected)
	assert.True(t, status.RPKI.Data)
	assert.False(t, status.LastUpdated.IsZero())
}

func TestGetMonitorsReflectsRPKIState(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"warning":false,"connectors":[],"rpki":{"data":false,"stale":true,"provider":"ntt"}}`)
	}))
	defer server.Close()

	client := NewClient(testLogger(), server.URL, 5*time.Second)
	monitors := client.GetMonitors(context.Background())
	require.Len(t, monitors, 6)

	byType := map[string]bool{}
	for _, m := range monitors {
		byType[m.Type] = m.Active
	}
	assert.True(t, byType["monitorHijack"])
	assert.False(t, byType["monitorRPKI"])
	assert.False(t, byType["monitorROAS"])
}

func TestGetMonitorsDegradesToEmpty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(testLogger(), server.URL, time.Second)
	assert.Empty(t, client.GetMonitors(context.Background()))
}

func TestTestConnection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"warning":false,"connectors":[],"rpki":{"data":true,"stale":false,"provider":"ntt"}}`)
	}))
	defer server.Close()

	client := NewClient(testLogger(), server.URL, 5*time.Second)
	assert.True(t, client.TestConnection(context.Background()))

	server.Close()
	assert.False(t, client.TestConnection(context.Background()))
}
