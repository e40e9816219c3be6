package controllers

import (
	"net/http"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedWatcher bool

func (w fixedWatcher) Watching() bool { return bool(w) }

func TestHealth_ReportsHistoryAndWatcher(t *testing.T) {
	f := newFixture(t)
	f.seed(t, "a", "b", "c")
	hc := NewHealthController(f.history, fixedWatcher(true))

	rr := get(hc.Health, "/health")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))

	var resp healthResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.HistorySize)
	assert.True(t, resp.Watching)
	assert.GreaterOrEqual(t, resp.UptimeSeconds, 0.0)
}

func TestHealth_NoWatcher(t *testing.T) {
	f := newFixture(t)
	hc := NewHealthController(f.history, nil)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(get(hc.Health, "/health").Body.Bytes(), &resp))
	assert.Equal(t, false, resp["watching"])
	assert.Equal(t, float64(0), resp["history_size"])
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{0, "0h0m0s"},
		{90 * time.Second, "0h1m30s"},
		{26*time.Hour + 5*time.Second, "26h0m5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatDuration(tt.duration))
	}
}
