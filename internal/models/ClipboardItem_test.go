package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewTextItem(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	item := NewTextItem("hello", now)

	assert.NotEmpty(t, item.ID)
	assert.Equal(t, ItemText, item.Type)
	assert.Equal(t, "hello", item.Content)
	assert.Equal(t, int64(1700000000123), item.Timestamp)
	assert.False(t, item.IsPinned)

	_, ok := item.ImageFile()
	assert.False(t, ok)
}

func TestNewImageItem(t *testing.T) {
	item := NewImageItem("1-abc.png", time.Now())
	file, ok := item.ImageFile()
	assert.True(t, ok)
	assert.Equal(t, "1-abc.png", file)
}

func TestItemIDsAreUnique(t *testing.T) {
	seen := make(map[string]struct{})
	now := time.Now()
	for i := 0; i < 1000; i++ {
		id := NewTextItem("x", now).ID
		_, dup := seen[id]
		assert.False(t, dup)
		seen[id] = struct{}{}
	}
}

func TestClipboardItem_Validate(t *testing.T) {
	assert.NoError(t, (&ClipboardItem{Type: ItemText}).Validate())
	assert.NoError(t, (&ClipboardItem{Type: ItemImage}).Validate())

	err := (&ClipboardItem{Type: "html"}).Validate()
	assert.True(t, errors.Is(err, ErrUnsupportedItem))
}
