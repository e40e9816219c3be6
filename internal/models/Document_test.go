package models

import (
	"fmt"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textItem(id, content string) *ClipboardItem {
	return &ClipboardItem{ID: id, Type: ItemText, Content: content, Timestamp: 1}
}

func ids(history []*ClipboardItem) []string {
	out := make([]string, len(history))
	for i, item := range history {
		out[i] = item.ID
	}
	return out
}

func TestDocument_AddItem_HeadOnlyDedup(t *testing.T) {
	doc := DefaultDocument()

	_, added := doc.AddItem(textItem("1", "x"), 100)
	assert.True(t, added)
	_, added = doc.AddItem(textItem("2", "x"), 100)
	assert.False(t, added)
	require.Len(t, doc.History, 1)

	doc.AddItem(textItem("3", "y"), 100)
	_, added = doc.AddItem(textItem("4", "x"), 100)
	assert.True(t, added)
	assert.Equal(t, []string{"4", "3", "1"}, ids(doc.History))
}

func TestDocument_AddItem_DedupConsidersType(t *testing.T) {
	doc := DefaultDocument()
	doc.AddItem(textItem("1", "shot.png"), 100)
	_, added := doc.AddItem(&ClipboardItem{ID: "2", Type: ItemImage, Content: "shot.png"}, 100)
	assert.True(t, added)
	assert.Len(t, doc.History, 2)
}

func TestDocument_AddItem_EvictsOldestUnpinned(t *testing.T) {
	doc := DefaultDocument()
	doc.AddItem(textItem("a", "a"), 3)
	doc.AddItem(textItem("b", "b"), 3)
	doc.AddItem(textItem("c", "c"), 3)
	doc.History[2].IsPinned = true // "a" is the oldest and pinned

	evicted, added := doc.AddItem(textItem("d", "d"), 3)
	require.True(t, added)
	require.Len(t, evicted, 1)
	assert.Equal(t, "b", evicted[0].ID)
	assert.Equal(t, []string{"d", "c", "a"}, ids(doc.History))
}

func TestDocument_AddItem_AllPinnedExceedsCap(t *testing.T) {
	doc := DefaultDocument()
	doc.AddItem(textItem("a", "a"), 1)
	doc.History[0].IsPinned = true

	evicted, added := doc.AddItem(textItem("b", "b"), 1)
	assert.True(t, added)
	assert.Empty(t, evicted)
	assert.Equal(t, []string{"b", "a"}, ids(doc.History))
}

func TestDocument_AddItem_ZeroCapUnbounded(t *testing.T) {
	doc := DefaultDocument()
	for i := 0; i < 150; i++ {
		doc.AddItem(textItem(fmt.Sprint(i), fmt.Sprint(i)), 0)
	}
	assert.Len(t, doc.History, 150)
}

func TestDocument_DeleteItem(t *testing.T) {
	doc := &Document{History: []*ClipboardItem{textItem("a", "a"), textItem("b", "b")}}

	removed := doc.DeleteItem("a")
	require.NotNil(t, removed)
	assert.Equal(t, "a", removed.ID)
	assert.Equal(t, []string{"b"}, ids(doc.History))

	assert.Nil(t, doc.DeleteItem("missing"))
	assert.Len(t, doc.History, 1)
}

func TestDocument_TogglePin(t *testing.T) {
	doc := &Document{History: []*ClipboardItem{textItem("a", "a")}}

	assert.True(t, doc.TogglePin("a"))
	assert.True(t, doc.History[0].IsPinned)
	assert.True(t, doc.TogglePin("a"))
	assert.False(t, doc.History[0].IsPinned)
	assert.False(t, doc.TogglePin("missing"))
}

func TestDocument_ClearUnpinned_KeepsPinnedOrder(t *testing.T) {
	a := textItem("a", "a")
	a.IsPinned = true
	b := &ClipboardItem{ID: "b", Type: ItemImage, Content: "b.png"}
	c := textItem("c", "c")
	c.IsPinned = true
	doc := &Document{History: []*ClipboardItem{a, b, c}}

	removed := doc.ClearUnpinned()

	assert.Equal(t, []string{"a", "c"}, ids(doc.History))
	require.Len(t, removed, 1)
	file, ok := removed[0].ImageFile()
	assert.True(t, ok)
	assert.Equal(t, "b.png", file)
}

func TestDocument_Reorder(t *testing.T) {
	tests := []struct {
		name     string
		active   string
		over     string
		expected []string
		moved    bool
	}{
		{"move down to up", "D", "B", []string{"A", "D", "B", "C"}, true},
		{"move up to down", "A", "C", []string{"B", "C", "A", "D"}, true},
		{"same position", "B", "B", []string{"A", "B", "C", "D"}, true},
		{"missing active", "X", "B", []string{"A", "B", "C", "D"}, false},
		{"missing over", "A", "X", []string{"A", "B", "C", "D"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := &Document{History: []*ClipboardItem{
				textItem("A", "a"), textItem("B", "b"), textItem("C", "c"), textItem("D", "d"),
			}}
			assert.Equal(t, tt.moved, doc.Reorder(tt.active, tt.over))
			assert.Equal(t, tt.expected, ids(doc.History))
		})
	}
}

func TestDocument_Normalize_MissingSettings(t *testing.T) {
	var doc Document
	require.NoError(t, json.Unmarshal([]byte(`{"history":[{"id":"a","type":"text","content":"x","timestamp":1,"isPinned":false}]}`), &doc))

	assert.True(t, doc.Normalize())
	require.NotNil(t, doc.Settings)
	assert.Equal(t, DefaultSettings(), *doc.Settings)
	assert.Len(t, doc.History, 1)

	assert.False(t, doc.Normalize())
}

func TestDocument_Normalize_DropsNullEntries(t *testing.T) {
	doc := &Document{History: []*ClipboardItem{nil, textItem("a", "a")}, Settings: &Settings{}}
	assert.True(t, doc.Normalize())
	assert.Equal(t, []string{"a"}, ids(doc.History))
}

func TestDocument_Normalize_ResetsOutOfEnumSettings(t *testing.T) {
	lang := "de"
	doc := &Document{
		History:  []*ClipboardItem{},
		Settings: &Settings{Position: "", Grouping: GroupingCombined, Zoom: 80, Theme: "system", Language: &lang},
	}

	assert.True(t, doc.Normalize())
	assert.Equal(t, PositionCursor, doc.Settings.Position)
	assert.Equal(t, GroupingCombined, doc.Settings.Grouping)
	assert.Equal(t, ThemeDark, doc.Settings.Theme)
	assert.Equal(t, 80.0, doc.Settings.Zoom)
	assert.Equal(t, "de", *doc.Settings.Language)

	require.NoError(t, doc.UpdateSetting("zoom", json.RawMessage(`120`)))
	assert.False(t, doc.Normalize())
}

func TestDocument_Clone_IsDeep(t *testing.T) {
	lang := "en"
	doc := DefaultDocument()
	doc.Settings.Language = &lang
	doc.AddItem(textItem("a", "a"), 0)

	c := doc.Clone()
	c.History[0].IsPinned = true
	*c.Settings.Language = "de"
	c.Settings.Zoom = 150

	assert.False(t, doc.History[0].IsPinned)
	assert.Equal(t, "en", *doc.Settings.Language)
	assert.Equal(t, 100.0, doc.Settings.Zoom)
}

func TestDocument_JSONRoundTrip(t *testing.T) {
	lang := "fr"
	doc := DefaultDocument()
	doc.Settings.Language = &lang
	doc.AddItem(textItem("a", "hello"), 0)
	doc.AddItem(&ClipboardItem{ID: "b", Type: ItemImage, Content: "1-abc.png", Timestamp: 2, IsPinned: true}, 0)

	data, err := json.Marshal(doc)
	require.NoError(t, err)

	var out Document
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, doc, &out)
}
