package controllers

import (
	"fmt"
	"net/http"
	"time"

	"clipkeep/internal/events"
	"clipkeep/internal/models"
	"clipkeep/internal/providers"
	"clipkeep/internal/services"

	json "github.com/goccy/go-json"
)

const keepAliveInterval = 15 * time.Second

// EventsController pushes history changes as server-sent events.
type EventsController struct {
	logger      providers.Logger
	service     services.HistoryServiceInterface
	broadcaster events.BroadcasterInterface
	keepAlive   time.Duration
}

func NewEventsController(logger providers.Logger, service services.HistoryServiceInterface, broadcaster events.BroadcasterInterface) *EventsController {
	return &EventsController{
		logger:      logger,
		service:     service,
		broadcaster: broadcaster,
		keepAlive:   keepAliveInterval,
	}
}

func writeEvent(w http.ResponseWriter, name string, history []*models.ClipboardItem) error {
	if history == nil {
		history = []*models.ClipboardItem{}
	}
	gson, err := json.Marshal(history)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, gson)
	return err
}

// Stream sends the current history first, then one event per change until
// the client goes away. A subscription primed by the broadcaster already
// carries the current history.
func (ec *EventsController) Stream(w http.ResponseWriter, r *http.Request) {
	rc := http.NewResponseController(w)
	// the server write timeout would otherwise end the stream
	_ = rc.SetWriteDeadline(time.Time{})

	sub := ec.broadcaster.Subscribe()
	defer ec.broadcaster.Unsubscribe(sub)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if !sub.Primed {
		if err := writeEvent(w, events.EventClipboardChanged, ec.service.GetHistory()); err != nil {
			return
		}
	}
	if err := rc.Flush(); err != nil {
		ec.logger.Warnf(providers.TypeGet, "Event stream cannot flush: %s", err)
		return
	}

	ticker := time.NewTicker(ec.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case ev, ok := <-sub.C:
			if !ok {
				return
			}
			if err := writeEvent(w, ev.Name, ev.History); err != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}
