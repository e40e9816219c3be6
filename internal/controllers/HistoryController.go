package controllers

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"clipkeep/internal/models"
	"clipkeep/internal/persistence"
	"clipkeep/internal/providers"
	"clipkeep/internal/services"

	json "github.com/goccy/go-json"
)

const (
	maxRequestBodySize = 1 << 20 // 1 MB
	mutationTimeout    = 10 * time.Second
)

type HistoryController struct {
	logger  providers.Logger
	service services.HistoryServiceInterface
}

func NewHistoryController(logger providers.Logger, service services.HistoryServiceInterface) *HistoryController {
	return &HistoryController{
		logger:  logger,
		service: service,
	}
}

type idRequest struct {
	ID string `json:"id"`
}

type reorderRequest struct {
	ActiveID string `json:"activeId"`
	OverID   string `json:"overId"`
}

type settingRequest struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	gson, err := json.Marshal(v)
	if err != nil {
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(gson)
}

// writeError maps domain errors to status codes. Anything unrecognised is a
// storage failure.
func writeError(w http.ResponseWriter, logger providers.Logger, r *http.Request, err error) {
	switch {
	case errors.Is(err, models.ErrUnknownSetting),
		errors.Is(err, models.ErrInvalidSetting),
		errors.Is(err, models.ErrUnsupportedItem),
		errors.Is(err, persistence.ErrInvalidImageName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, os.ErrNotExist):
		http.Error(w, "Not Found", http.StatusNotFound)
	case errors.Is(err, persistence.ErrQueueClosed), errors.Is(err, context.DeadlineExceeded):
		logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
	default:
		logger.Errorf(providers.GetLogTypeByRequestType(r.Method), "%s %s: %s", r.Method, r.URL.Path, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

func mutationContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), mutationTimeout)
}

func (hc *HistoryController) GetHistory(w http.ResponseWriter, r *http.Request) {
	hc.respondHistory(w, r, hc.service.GetHistory(), nil)
}

func (hc *HistoryController) respondHistory(w http.ResponseWriter, r *http.Request, history []*models.ClipboardItem, err error) {
	if err != nil {
		writeError(w, hc.logger, r, err)
		return
	}
	if history == nil {
		history = []*models.ClipboardItem{}
	}
	writeJSON(w, http.StatusOK, history)
}

func (hc *HistoryController) DeleteItem(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := mutationContext(r)
	defer cancel()
	history, err := hc.service.DeleteItem(ctx, req.ID)
	hc.respondHistory(w, r, history, err)
}

func (hc *HistoryController) TogglePin(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := mutationContext(r)
	defer cancel()
	history, err := hc.service.TogglePin(ctx, req.ID)
	hc.respondHistory(w, r, history, err)
}

func (hc *HistoryController) ClearAll(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := mutationContext(r)
	defer cancel()
	history, err := hc.service.ClearAll(ctx)
	hc.respondHistory(w, r, history, err)
}

func (hc *HistoryController) ReorderItems(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !decodeBody(w, r, &req) {
		return
	}
	ctx, cancel := mutationContext(r)
	defer cancel()
	history, err := hc.service.ReorderItems(ctx, req.ActiveID, req.OverID)
	hc.respondHistory(w, r, history, err)
}

func (hc *HistoryController) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hc.service.GetSettings())
}

func (hc *HistoryController) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Key == "" || len(req.Value) == 0 {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	ctx, cancel := mutationContext(r)
	defer cancel()
	settings, err := hc.service.UpdateSetting(ctx, req.Key, req.Value)
	if err != nil {
		writeError(w, hc.logger, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}
