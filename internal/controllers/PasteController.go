package controllers

import (
	"net/http"

	"clipkeep/internal/providers"
	"clipkeep/internal/services"
)

type PasteController struct {
	logger  providers.Logger
	service services.PasteServiceInterface
}

func NewPasteController(logger providers.Logger, service services.PasteServiceInterface) *PasteController {
	return &PasteController{logger: logger, service: service}
}

type contentRequest struct {
	Content string `json:"content"`
}

// PasteItem answers 202 right away; the paste happens after the configured
// delay.
func (pc *PasteController) PasteItem(w http.ResponseWriter, r *http.Request) {
	var req idRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if err := pc.service.PasteItem(r.Context(), req.ID); err != nil {
		writeError(w, pc.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}

func (pc *PasteController) PasteContent(w http.ResponseWriter, r *http.Request) {
	var req contentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Content == "" {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	if err := pc.service.PasteContent(r.Context(), req.Content); err != nil {
		writeError(w, pc.logger, r, err)
		return
	}
	w.WriteHeader(http.StatusAccepted)
}
