package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrUnsupportedItem = errors.New("unsupported clipboard item type")

// ItemType is the kind of payload a history entry carries.
type ItemType string

const (
	ItemText  ItemType = "text"
	ItemImage ItemType = "image"
)

// Valid reports whether t is one of the known item kinds.
func (t ItemType) Valid() bool {
	switch t {
	case ItemText, ItemImage:
		return true
	default:
		return false
	}
}

// ClipboardItem is a single history entry. For ItemImage, Content holds the
// blob filename inside the images directory, not the image bytes.
type ClipboardItem struct {
	ID        string   `json:"id"`
	Type      ItemType `json:"type"`
	Content   string   `json:"content"`
	Timestamp int64    `json:"timestamp"`
	IsPinned  bool     `json:"isPinned"`
}

func newItemID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func NewTextItem(text string, now time.Time) *ClipboardItem {
	return &ClipboardItem{
		ID:        newItemID(),
		Type:      ItemText,
		Content:   text,
		Timestamp: now.UnixMilli(),
	}
}

func NewImageItem(filename string, now time.Time) *ClipboardItem {
	return &ClipboardItem{
		ID:        newItemID(),
		Type:      ItemImage,
		Content:   filename,
		Timestamp: now.UnixMilli(),
	}
}

// SameContent is the dedup equality: type and content only.
func (ci *ClipboardItem) SameContent(other *ClipboardItem) bool {
	if ci == nil || other == nil {
		return false
	}
	return ci.Type == other.Type && ci.Content == other.Content
}

// ImageFile returns the backing blob filename for image entries.
func (ci *ClipboardItem) ImageFile() (string, bool) {
	if ci.Type != ItemImage || ci.Content == "" {
		return "", false
	}
	return ci.Content, true
}

func (ci *ClipboardItem) Validate() error {
	if !ci.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnsupportedItem, ci.Type)
	}
	return nil
}
