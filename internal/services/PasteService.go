package services

import (
	"context"
	"sync"
	"time"

	"clipkeep/internal/clip"
	"clipkeep/internal/models"
	"clipkeep/internal/providers"
	"clipkeep/internal/structures"
)

const defaultPasteDelay = 500 * time.Millisecond

// EchoSuppressor is told about content this process is about to put on the
// clipboard so the watcher does not record it again.
type EchoSuppressor interface {
	Suppress(text string)
	SuppressImage(png []byte)
}

type PasteServiceInterface interface {
	PasteItem(ctx context.Context, id string) error
	PasteContent(ctx context.Context, text string) error
	Wait()
}

// PasteService writes an entry back to the clipboard and sends the paste
// chord once the UI had time to hide and return focus.
type PasteService struct {
	history    HistoryServiceInterface
	backend    clip.Backend
	keystroker clip.Keystroker
	suppressor EchoSuppressor
	logger     providers.Logger
	delay      time.Duration

	pending sync.WaitGroup
}

func NewPasteService(conf *structures.Config, history HistoryServiceInterface, backend clip.Backend, keystroker clip.Keystroker, suppressor EchoSuppressor, logger providers.Logger) PasteServiceInterface {
	delay := conf.Watcher.PasteDelay
	if delay <= 0 {
		delay = defaultPasteDelay
	}
	return &PasteService{
		history:    history,
		backend:    backend,
		keystroker: keystroker,
		suppressor: suppressor,
		logger:     logger,
		delay:      delay,
	}
}

// PasteItem schedules the paste and returns immediately. An unknown id is
// logged and ignored.
func (ps *PasteService) PasteItem(_ context.Context, id string) error {
	item, ok := ps.history.FindItem(id)
	if !ok {
		ps.logger.Warnf(providers.TypeClipboard, "Paste requested for unknown item %s", id)
		return nil
	}
	ps.schedule(func(ctx context.Context) { ps.pasteItem(ctx, item) })
	return nil
}

// PasteContent pastes text that is not part of the history. It is not
// recorded by the watcher.
func (ps *PasteService) PasteContent(_ context.Context, text string) error {
	ps.schedule(func(ctx context.Context) {
		if ps.writeText(text) {
			ps.sendChord(ctx)
		}
	})
	return nil
}

// Wait blocks until every scheduled paste has run.
func (ps *PasteService) Wait() {
	ps.pending.Wait()
}

func (ps *PasteService) schedule(fn func(ctx context.Context)) {
	ps.pending.Add(1)
	time.AfterFunc(ps.delay, func() {
		defer ps.pending.Done()
		// the request context is gone by now
		fn(context.Background())
	})
}

func (ps *PasteService) pasteItem(ctx context.Context, item *models.ClipboardItem) {
	switch item.Type {
	case models.ItemText:
		if !ps.writeText(item.Content) {
			return
		}
	case models.ItemImage:
		png, err := ps.history.LoadImageBlob(item.Content)
		if err != nil {
			ps.logger.Errorf(providers.TypeClipboard, "Failed to load image %s: %s", item.Content, err)
			return
		}
		if ps.suppressor != nil {
			ps.suppressor.SuppressImage(png)
		}
		if err := ps.backend.WriteImage(png); err != nil {
			ps.logger.Errorf(providers.TypeClipboard, "Failed to write image to clipboard: %s", err)
			return
		}
	default:
		ps.logger.Warnf(providers.TypeClipboard, "Cannot paste item %s of type %q", item.ID, item.Type)
		return
	}
	ps.sendChord(ctx)
}

func (ps *PasteService) writeText(text string) bool {
	if ps.suppressor != nil {
		ps.suppressor.Suppress(text)
	}
	if err := ps.backend.WriteText(text); err != nil {
		ps.logger.Errorf(providers.TypeClipboard, "Failed to write text to clipboard: %s", err)
		return false
	}
	return true
}

func (ps *PasteService) sendChord(ctx context.Context) {
	if err := ps.keystroker.Paste(ctx); err != nil {
		ps.logger.Errorf(providers.TypeClipboard, "Paste keystroke failed: %s", err)
	}
}
