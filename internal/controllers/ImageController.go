package controllers

import (
	"net/http"
	"strconv"
	"time"

	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/providers"
	"clipkeep/internal/services"

	json "github.com/goccy/go-json"
)

// ImageController serves stored image blobs and the compressed backup.
type ImageController struct {
	logger     providers.Logger
	service    services.HistoryServiceInterface
	compressor interfaces.CompressorInterface
}

func NewImageController(logger providers.Logger, service services.HistoryServiceInterface, compressor interfaces.CompressorInterface) *ImageController {
	return &ImageController{
		logger:     logger,
		service:    service,
		compressor: compressor,
	}
}

func (ic *ImageController) GetImage(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	data, err := ic.service.LoadImageBlob(name)
	if err != nil {
		writeError(w, ic.logger, r, err)
		return
	}
	// names are never reused
	w.Header().Set("Cache-Control", "private, max-age=31536000, immutable")
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Export streams the committed document as zstd-compressed JSON.
func (ic *ImageController) Export(w http.ResponseWriter, r *http.Request) {
	gson, err := json.Marshal(ic.service.Snapshot())
	if err != nil {
		writeError(w, ic.logger, r, err)
		return
	}
	data, err := ic.compressor.Compress(gson)
	if err != nil {
		writeError(w, ic.logger, r, err)
		return
	}

	filename := "clipkeep-" + time.Now().Format("20060102-150405") + ".json.zst"
	w.Header().Set("Content-Type", "application/zstd")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
