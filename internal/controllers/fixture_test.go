package controllers

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"clipkeep/internal/events"
	"clipkeep/internal/models"
	"clipkeep/internal/persistence"
	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/services"
	"clipkeep/internal/structures"
	"clipkeep/internal/testutil"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	conf        *structures.Config
	logger      *testutil.MockLogger
	queue       interfaces.WriteQueueInterface
	history     services.HistoryServiceInterface
	broadcaster events.BroadcasterInterface
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		Persistence: structures.Persistence{
			FilePath:      filepath.Join(dir, "db.json"),
			ImagesDir:     filepath.Join(dir, "images"),
			RenameRetries: 1,
		},
		History: structures.HistoryConfig{MaxItems: 100},
		Watcher: structures.WatcherConfig{PasteDelay: 5 * time.Millisecond},
	}
	logger := &testutil.MockLogger{}
	queue := persistence.NewWriteQueue(persistence.NewDocumentStore(conf, logger), logger, testutil.NewMockMetrics())
	require.NoError(t, queue.Open())
	t.Cleanup(queue.Close)

	broadcaster := events.NewBroadcaster(logger)
	images := persistence.NewImageStore(conf, testutil.NewMockCache(), logger)
	return &fixture{
		conf:        conf,
		logger:      logger,
		queue:       queue,
		history:     services.NewHistoryService(conf, queue, images, broadcaster, logger),
		broadcaster: broadcaster,
	}
}

func (f *fixture) seed(t *testing.T, texts ...string) []*models.ClipboardItem {
	t.Helper()
	for _, text := range texts {
		_, err := f.history.AddText(context.Background(), text)
		require.NoError(t, err)
	}
	return f.history.GetHistory()
}

func post(handler http.HandlerFunc, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodPost, path, &buf))
	return rr
}

func get(handler http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decodeHistory(t *testing.T, rr *httptest.ResponseRecorder) []*models.ClipboardItem {
	t.Helper()
	var items []*models.ClipboardItem
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &items))
	return items
}
