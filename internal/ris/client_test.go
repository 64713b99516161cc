package ris

import (
	"context"
	"errors"
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

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(testLogger(), server.URL, 5*time.Second, 2*time.Second)
}

func okEnvelope(data string) string {
	return fmt.Sprintf(`{"status":"ok","status_code":200,"data":%s}`, data)
}

func TestNormalizeASN(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"AS3333", "3333"},
		{"as3333", "3333"},
		{"3333", "3333"},
		{"  AS64512 ", "64512"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeASN(tt.input), "input %q", tt.input)
	}
}

func TestGetAnnouncedPrefixes(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/announced-prefixes/data.json", r.URL.Path)
		assert.Equal(t, "AS3333", r.URL.Query().Get("resource"))
		fmt.Fprint(w, okEnvelope(`{"prefixes":[
			{"prefix":"193.0.0.0/21","timelines":[{"starttime":"2024-01-01T00:00:00"}]},
			{"prefix":"193.0.10.0/24","timelines":[]}
		]}`))
	})

	prefixes, err := client.GetAnnouncedPrefixes(context.Background(), "as3333")
	require.NoError(t, err)
	require.Len(t, prefixes, 2)
	assert.Equal(t, "193.0.0.0/21", prefixes[0].Prefix)
	require.Len(t, prefixes[0].Timelines, 1)
	assert.Equal(t, "2024-01-01T00:00:00", prefixes[0].Timelines[0].Starttime)
}

func TestGetRoutingStatusRoundsVisibility(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/routing-status/data.json", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`{
			"announced": true,
			"visibility": 0.8765,
			"origins": [{"origin": 3333}, {"origin": "64512"}],
			"first_level_ases": ["1299", 174]
		}`))
	})

	status, err := client.GetRoutingStatus(context.Background(), "193.0.0.0/21")
	require.NoError(t, err)
	assert.True(t, status.Announced)
	assert.Equal(t, 88, status.Visibility)
	assert.Equal(t, []string{"3333", "64512"}, status.Origins)
	assert.Equal(t, []string{"1299", "174"}, status.Upstreams)
	assert.Equal(t, "193.0.0.0/21", status.Prefix)
}

func TestGetRoutingStatusRoundsHalfUp(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, okEnvelope(`{"announced":true,"visibility":0.505,"origins":[],"first_level_ases":[]}`))
	})

	status, err := client.GetRoutingStatus(context.Background(), "203.0.113.0/24")
	require.NoError(t, err)
	assert.Equal(t, 51, status.Visibility)
}

func TestGetASPathInfoAggregation(t *testing.T) {
	// Three peers announce the same path, spread over two collectors; one
	// peer announces a distinct path. Peer count tallies occurrences while
	// collector count tallies the distinct collector set.
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/looking-glass/data.json", r.URL.Path)
		fmt.Fprint(w, okEnvelope(`{"rrcs":[
			{"rrc":"RRC00","peers":[
				{"as_path":"1299 3333"},
				{"as_path":"1299 3333"},
				{"as_path":"174 3333"}
			]},
			{"rrc":"RRC01","peers":[
				{"as_path":"1299 3333"},
				{"as_path":""}
			]}
		]}`))
	})

	paths, err := client.GetASPathInfo(context.Background(), "193.0.0.0/21")
	require.NoError(t, err)
	require.Len(t, paths, 2)

	assert.Equal(t, []string{"1299", "3333"}, paths[0].ASPath)
	assert.Equal(t, 3, paths[0].PeerCount)
	assert.Equal(t, 2, paths[0].CollectorCount)
	assert.Equal(t, "3333", paths[0].Origin)

	assert.Equal(t, []string{"174", "3333"}, paths[1].ASPath)
	assert.Equal(t, 1, paths[1].PeerCount)
	assert.Equal(t, 1, paths[1].CollectorCount)
}

func TestGetBGPUpdatesFiltersWithdrawals(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bgp-updates/data.json", r.URL.Path)
		assert.Equal(t, "AS64512", r.URL.Query().Get("resource"))
		assert.Equal(t, "12h", r.URL.Query().Get("starttime"))
		fmt.Fprint(w, okEnvelope(`{"updates":[
			{"type":"announcement","prefix":"203.0.113.0/24","timestamp":"2024-01-01T00:00:00","rrc":"RRC00",
				"attrs":{"origin":64512,"path":[1299,"64512"],"peer":"1299"}},
			{"type":"withdrawal","prefix":"203.0.113.0/24","timestamp":"2024-01-01T00:01:00","rrc":"RRC00"},
			{"type":"announcement","prefix":"198.51.100.0/24","timestamp":"2024-01-01T00:02:00","rrc":"RRC01",
				"attrs":{"origin":"64512","path":[174,64512],"peer":174}}
		]}`))
	})

	updates, err := client.GetBGPUpdates(context.Background(), "64512", 12)
	require.NoError(t, err)
	require.Len(t, updates, 2)
	assert.Equal(t, "203.0.113.0/24", updates[0].Prefix)
	assert.Equal(t, "64512", updates[0].OriginASN)
	assert.Equal(t, []string{"1299", "64512"}, updates[0].ASPath)
	assert.Equal(t, "1299", updates[0].PeerASN)
	assert.Equal(t, "RRC00", updates[0].Collector)
	assert.Equal(t, "RRC01", updates[1].Collector)
}

func TestGetBGPUpdatesCapsResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"ok","status_code":200,"data":{"updates":[`)
		for i := 0; i < 150; i++ {
			if i > 0 {
				fmt.Fprint(w, ",")
			}
			fmt.Fprintf(w, `{"type":"announcement","prefix":"203.0.113.0/24","timestamp":"t%d","rrc":"RRC00","attrs":{"origin":64512,"path":[64512],"peer":1299}}`, i)
		}
		fmt.Fprint(w, `]}}`)
	})

	updates, err := client.GetBGPUpdates(context.Background(), "AS64512", 24)
	require.NoError(t, err)
	assert.Len(t, updates, 100)
}

func TestQueryAPIStatusError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":"error","status_code":400,"data":{}}`)
	})

	_, err := client.GetAnnouncedPrefixes(context.Background(), "AS3333")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "announced-prefixes", apiErr.Endpoint)
	assert.Contains(t, apiErr.APIStatus, "error")
}

func TestQueryHTTPError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.GetRoutingStatus(context.Background(), "193.0.0.0/21")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestTestConnection(t *testing.T) {
	var gotPath string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		fmt.Fprint(w, okEnvelope(`{"prefixes":[]}`))
	})

	assert.True(t, client.TestConnection(context.Background()))
	assert.Equal(t, "/announced-prefixes/data.json", gotPath)
}

func TestTestConnectionFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	client := NewClient(testLogger(), server.URL, 5*time.Second, 2*time.Second)
	assert.False(t, client.TestConnection(context.Background()))

	server.Close()
	assert.False(t, client.TestConnection(context.Background()))
}
