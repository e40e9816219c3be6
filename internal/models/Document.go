package models

import (
	"slices"

	json "github.com/goccy/go-json"
)

// Document is the root persisted object.
type Document struct {
	History  []*ClipboardItem `json:"history"`
	Settings *Settings        `json:"settings"`
}

func DefaultDocument() *Document {
	settings := DefaultSettings()
	return &Document{
		History:  make([]*ClipboardItem, 0),
		Settings: &settings,
	}
}

// Normalize repairs a document loaded from an older or hand-edited file.
// It reports whether anything had to be changed.
func (d *Document) Normalize() bool {
	repaired := false
	if d.Settings == nil {
		settings := DefaultSettings()
		d.Settings = &settings
		repaired = true
	} else if d.Settings.repair() {
		repaired = true
	}
	if d.History == nil {
		d.History = make([]*ClipboardItem, 0)
		repaired = true
	}
	history := d.History[:0]
	for _, item := range d.History {
		if item == nil {
			repaired = true
			continue
		}
		history = append(history, item)
	}
	d.History = history
	return repaired
}

func (d *Document) Clone() *Document {
	c := &Document{History: make([]*ClipboardItem, len(d.History))}
	for i, item := range d.History {
		cp := *item
		c.History[i] = &cp
	}
	if d.Settings != nil {
		c.Settings = d.Settings.clone()
	}
	return c
}

func (d *Document) indexOf(id string) int {
	return slices.IndexFunc(d.History, func(item *ClipboardItem) bool {
		return item.ID == id
	})
}

func (d *Document) FindItem(id string) (*ClipboardItem, bool) {
	i := d.indexOf(id)
	if i < 0 {
		return nil, false
	}
	return d.History[i], true
}

// AddItem inserts item at the head unless the current head carries the same
// type and content. When maxItems > 0 the oldest unpinned entries beyond the
// cap are evicted and returned. Pinned entries and the new head are never
// evicted, so a history full of pins may exceed the cap.
func (d *Document) AddItem(item *ClipboardItem, maxItems int) (evicted []*ClipboardItem, added bool) {
	if len(d.History) > 0 && d.History[0].SameContent(item) {
		return nil, false
	}
	d.History = slices.Insert(d.History, 0, item)

	if maxItems <= 0 {
		return nil, true
	}
	for i := len(d.History) - 1; i > 0 && len(d.History) > maxItems; i-- {
		if d.History[i].IsPinned {
			continue
		}
		evicted = append(evicted, d.History[i])
		d.History = slices.Delete(d.History, i, i+1)
	}
	return evicted, true
}

func (d *Document) DeleteItem(id string) *ClipboardItem {
	i := d.indexOf(id)
	if i < 0 {
		return nil
	}
	removed := d.History[i]
	d.History = slices.Delete(d.History, i, i+1)
	return removed
}

func (d *Document) TogglePin(id string) bool {
	item, ok := d.FindItem(id)
	if !ok {
		return false
	}
	item.IsPinned = !item.IsPinned
	return true
}

// ClearUnpinned keeps pinned entries in their relative order and returns the
// removed ones.
func (d *Document) ClearUnpinned() []*ClipboardItem {
	var removed []*ClipboardItem
	kept := make([]*ClipboardItem, 0, len(d.History))
	for _, item := range d.History {
		if item.IsPinned {
			kept = append(kept, item)
		} else {
			removed = append(removed, item)
		}
	}
	d.History = kept
	return removed
}

// Reorder moves the entry with activeID to the position currently held by
// overID, shifting the entries in between by one.
func (d *Document) Reorder(activeID, overID string) bool {
	from, to := d.indexOf(activeID), d.indexOf(overID)
	if from < 0 || to < 0 {
		return false
	}
	moved := d.History[from]
	d.History = slices.Delete(d.History, from, from+1)
	d.History = slices.Insert(d.History, to, moved)
	return true
}

// UpdateSetting applies a single key. The document is left untouched when the
// key or value is rejected.
func (d *Document) UpdateSetting(key string, value json.RawMessage) error {
	if d.Settings == nil {
		settings := DefaultSettings()
		d.Settings = &settings
	}
	next := d.Settings.clone()
	if err := next.set(key, value); err != nil {
		return err
	}
	d.Settings = next
	return nil
}
