package controllers

import (
	"fmt"
	"net/http"
	"time"

	"clipkeep/internal/services"

	json "github.com/goccy/go-json"
)

// WatcherState is the part of the poller the health check reports on.
type WatcherState interface {
	Watching() bool
}

type HealthController struct {
	service   services.HistoryServiceInterface
	watcher   WatcherState
	startTime time.Time
}

type healthResponse struct {
	Status        string  `json:"status"`
	Uptime        string  `json:"uptime"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	HistorySize   int     `json:"history_size"`
	Watching      bool    `json:"watching"`
}

func (hc *HealthController) Health(w http.ResponseWriter, r *http.Request) {
	uptime := time.Since(hc.startTime)
	resp := healthResponse{
		Status:        "ok",
		Uptime:        formatDuration(uptime),
		UptimeSeconds: uptime.Seconds(),
		HistorySize:   hc.service.HistorySize(),
		Watching:      hc.watcher != nil && hc.watcher.Watching(),
	}

	gson, err := json.Marshal(resp)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(gson)
}

func formatDuration(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60
	return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
}

func NewHealthController(service services.HistoryServiceInterface, watcher WatcherState) *HealthController {
	return &HealthController{
		service:   service,
		watcher:   watcher,
		startTime: time.Now(),
	}
}
