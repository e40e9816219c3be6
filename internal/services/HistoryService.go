package services

import (
	"context"
	"fmt"
	"time"

	"clipkeep/internal/events"
	"clipkeep/internal/models"
	"clipkeep/internal/persistence"
	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/providers"
	"clipkeep/internal/structures"

	json "github.com/goccy/go-json"
)

const defaultMaxItems = 100

type HistoryServiceInterface interface {
	AddItem(ctx context.Context, item *models.ClipboardItem) (bool, error)
	AddText(ctx context.Context, text string) (bool, error)
	AddImage(ctx context.Context, png []byte) (bool, error)
	DeleteItem(ctx context.Context, id string) ([]*models.ClipboardItem, error)
	TogglePin(ctx context.Context, id string) ([]*models.ClipboardItem, error)
	ClearAll(ctx context.Context) ([]*models.ClipboardItem, error)
	ReorderItems(ctx context.Context, activeID, overID string) ([]*models.ClipboardItem, error)
	UpdateSetting(ctx context.Context, key string, value json.RawMessage) (*models.Settings, error)
	GetHistory() []*models.ClipboardItem
	GetSettings() *models.Settings
	FindItem(id string) (*models.ClipboardItem, bool)
	SaveImageBlob(png []byte) (string, error)
	LoadImageBlob(name string) ([]byte, error)
	HistorySize() int
	Snapshot() *models.Document
}

// HistoryService turns UI and watcher requests into queued mutations. Image
// files of entries that leave the history are removed after the commit.
type HistoryService struct {
	queue    interfaces.WriteQueueInterface
	images   interfaces.ImageStoreInterface
	events   events.BroadcasterInterface
	logger   providers.Logger
	maxItems int
	now      func() time.Time
}

func NewHistoryService(conf *structures.Config, queue interfaces.WriteQueueInterface, images interfaces.ImageStoreInterface, broadcaster events.BroadcasterInterface, logger providers.Logger) HistoryServiceInterface {
	maxItems := conf.History.MaxItems
	if maxItems <= 0 {
		maxItems = defaultMaxItems
	}
	return &HistoryService{
		queue:    queue,
		images:   images,
		events:   broadcaster,
		logger:   logger,
		maxItems: maxItems,
		now:      time.Now,
	}
}

// AddItem prepends item unless it duplicates the current head. It reports
// whether the history changed.
func (hs *HistoryService) AddItem(ctx context.Context, item *models.ClipboardItem) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}

	var evicted []*models.ClipboardItem
	added := false
	err := hs.queue.Enqueue(ctx, func(doc *models.Document) error {
		evicted, added = doc.AddItem(item, hs.maxItems)
		if !added {
			return persistence.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	if !added {
		return false, nil
	}

	hs.removeImages(evicted)
	hs.publish()
	return true, nil
}

func (hs *HistoryService) AddText(ctx context.Context, text string) (bool, error) {
	return hs.AddItem(ctx, models.NewTextItem(text, hs.now()))
}

// AddImage stores the blob and records it. The blob is removed again when
// the entry is not added.
func (hs *HistoryService) AddImage(ctx context.Context, png []byte) (bool, error) {
	name, err := hs.images.Save(png)
	if err != nil {
		return false, fmt.Errorf("save image: %w", err)
	}
	added, err := hs.AddItem(ctx, models.NewImageItem(name, hs.now()))
	if err != nil || !added {
		hs.images.Delete(name)
	}
	return added, err
}

func (hs *HistoryService) DeleteItem(ctx context.Context, id string) ([]*models.ClipboardItem, error) {
	var removed *models.ClipboardItem
	err := hs.queue.Enqueue(ctx, func(doc *models.Document) error {
		removed = doc.DeleteItem(id)
		if removed == nil {
			return persistence.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if removed != nil {
		hs.removeImages([]*models.ClipboardItem{removed})
		hs.publish()
	}
	return hs.GetHistory(), nil
}

func (hs *HistoryService) TogglePin(ctx context.Context, id string) ([]*models.ClipboardItem, error) {
	changed := false
	err := hs.queue.Enqueue(ctx, func(doc *models.Document) error {
		if changed = doc.TogglePin(id); !changed {
			return persistence.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if changed {
		hs.publish()
	}
	return hs.GetHistory(), nil
}

// ClearAll drops every unpinned entry.
func (hs *HistoryService) ClearAll(ctx context.Context) ([]*models.ClipboardItem, error) {
	var removed []*models.ClipboardItem
	err := hs.queue.Enqueue(ctx, func(doc *models.Document) error {
		if removed = doc.ClearUnpinned(); len(removed) == 0 {
			return persistence.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(removed) > 0 {
		hs.removeImages(removed)
		hs.publish()
	}
	return hs.GetHistory(), nil
}

func (hs *HistoryService) ReorderItems(ctx context.Context, activeID, overID string) ([]*models.ClipboardItem, error) {
	moved := false
	err := hs.queue.Enqueue(ctx, func(doc *models.Document) error {
		if moved = doc.Reorder(activeID, overID); !moved {
			return persistence.ErrNoChange
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if moved {
		hs.publish()
	}
	return hs.GetHistory(), nil
}

func (hs *HistoryService) UpdateSetting(ctx context.Context, key string, value json.RawMessage) (*models.Settings, error) {
	err := hs.queue.Enqueue(ctx, func(doc *models.Document) error {
		return doc.UpdateSetting(key, value)
	})
	if err != nil {
		return nil, err
	}
	hs.logger.Infof(providers.TypeApp, "Setting %s updated", key)
	return hs.GetSettings(), nil
}

func (hs *HistoryService) GetHistory() []*models.ClipboardItem {
	return hs.queue.Snapshot().History
}

func (hs *HistoryService) GetSettings() *models.Settings {
	return hs.queue.Snapshot().Settings
}

func (hs *HistoryService) FindItem(id string) (*models.ClipboardItem, bool) {
	return hs.queue.Snapshot().FindItem(id)
}

func (hs *HistoryService) SaveImageBlob(png []byte) (string, error) {
	return hs.images.Save(png)
}

func (hs *HistoryService) LoadImageBlob(name string) ([]byte, error) {
	return hs.images.Load(name)
}

func (hs *HistoryService) HistorySize() int {
	return len(hs.queue.Snapshot().History)
}

func (hs *HistoryService) Snapshot() *models.Document {
	return hs.queue.Snapshot()
}

func (hs *HistoryService) removeImages(items []*models.ClipboardItem) {
	for _, item := range items {
		if name, ok := item.ImageFile(); ok {
			hs.images.Delete(name)
		}
	}
}

func (hs *HistoryService) publish() {
	if hs.events != nil {
		hs.events.Publish(hs.GetHistory())
	}
}
