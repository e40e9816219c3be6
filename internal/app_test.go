package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"clipkeep/internal/controllers"
	"clipkeep/internal/events"
	"clipkeep/internal/persistence"
	"clipkeep/internal/services"
	"clipkeep/internal/structures"
	"clipkeep/internal/testutil"
	"clipkeep/internal/watcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestApp wires the application the way the injector does, with an
// in-memory clipboard and keystroker.
func newTestApp(t *testing.T) (*App, *testutil.MockBackend, *watcher.Poller) {
	t.Helper()
	dir := t.TempDir()
	conf := &structures.Config{
		AppName: "clipkeep",
		WebServer: structures.Server{
			Host: "127.0.0.1",
			Port: 8765,
		},
		Persistence: structures.Persistence{
			FilePath:      filepath.Join(dir, "db.json"),
			ImagesDir:     filepath.Join(dir, "images"),
			RenameRetries: 2,
		},
		History: structures.HistoryConfig{MaxItems: 100},
		Watcher: structures.WatcherConfig{Interval: time.Second, PasteDelay: time.Millisecond},
	}
	logger := &testutil.MockLogger{}
	metrics := testutil.NewMockMetrics()

	queue := persistence.NewWriteQueue(persistence.NewDocumentStore(conf, logger), logger, metrics)
	images := persistence.NewImageStore(conf, testutil.NewMockCache(), logger)
	compressor, err := persistence.NewZstdCompressor()
	require.NoError(t, err)
	broadcaster := events.NewBroadcaster(logger)
	history := services.NewHistoryService(conf, queue, images, broadcaster, logger)

	backend := &testutil.MockBackend{}
	poller := watcher.NewPoller(conf, backend, history, logger, metrics)
	paste := services.NewPasteService(conf, history, backend, testutil.NewMockKeystroker(), poller, logger)

	router := InitRoutes(
		controllers.NewHistoryController(logger, history),
		controllers.NewPasteController(logger, paste),
		controllers.NewImageController(logger, history, compressor),
		controllers.NewEventsController(logger, history, broadcaster),
	)
	app, err := NewApp(conf, logger, metrics, router, controllers.NewHealthController(history, poller), queue, poller, paste)
	require.NoError(t, err)
	t.Cleanup(queue.Close)
	return app, backend, poller
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(method, path, strings.NewReader(body)))
	return rr
}

func TestApp_CopyPinPasteFlow(t *testing.T) {
	app, backend, poller := newTestApp(t)
	h := app.WebServer.Handler

	backend.SetText("copied")
	poller.Tick(context.Background())

	rr := do(t, h, http.MethodGet, "/history", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"content":"copied"`)

	rr = do(t, h, http.MethodPost, "/paste/content", `{"content":"from ui"}`)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	require.Eventually(t, func() bool { return backend.ReadText() == "from ui" }, time.Second, 5*time.Millisecond)

	// the pasted text is not recorded
	poller.Tick(context.Background())
	rr = do(t, h, http.MethodGet, "/history", "")
	assert.NotContains(t, rr.Body.String(), "from ui")

	rr = do(t, h, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"history_size":1`)
}

func TestApp_SettingsPersist(t *testing.T) {
	app, _, _ := newTestApp(t)
	h := app.WebServer.Handler

	rr := do(t, h, http.MethodPost, "/settings", `{"key":"theme","value":"light"}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"theme":"light"`)

	raw, err := os.ReadFile(app.conf.Persistence.FilePath)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"theme": "light"`)
}

func TestApp_MetricsRouteOnlyWhenEnabled(t *testing.T) {
	app, _, _ := newTestApp(t)
	assert.Equal(t, http.StatusNotFound, do(t, app.WebServer.Handler, http.MethodGet, "/metrics", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, app.WebServer.Handler, http.MethodGet, "/unknown", "").Code)
}

func TestApp_ShutdownWaitsForScheduledPaste(t *testing.T) {
	app, backend, _ := newTestApp(t)

	rr := do(t, app.WebServer.Handler, http.MethodPost, "/paste/content", `{"content":"late"}`)
	require.Equal(t, http.StatusAccepted, rr.Code)

	require.NoError(t, app.shutdown())
	assert.Equal(t, "late", backend.ReadText())

	// the queue is closed after the paste ran
	rr = do(t, app.WebServer.Handler, http.MethodPost, "/history/clear", "")
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
}
