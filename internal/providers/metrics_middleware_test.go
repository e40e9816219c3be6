package providers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsMiddleware_RecordsStatus(t *testing.T) {
	metrics := newCountingMetrics()
	handler := MetricsMiddleware(metrics, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/history/pin" {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("[]"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/history", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/history/pin", nil))

	assert.Equal(t, 1, metrics.requests["/history 2xx"])
	assert.Equal(t, 1, metrics.requests["/history/pin 4xx"])
}

func TestStatusWriter_FlushesThroughController(t *testing.T) {
	rr := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rr, status: http.StatusOK}

	_, _ = sw.Write([]byte("data: x\n\n"))
	require.NoError(t, http.NewResponseController(sw).Flush())
	assert.True(t, rr.Flushed)
}

type recordingLogger struct {
	quietLogger
	debug map[TypeEnum]int
}

func (l *recordingLogger) Debugf(t TypeEnum, _ string, _ ...interface{}) { l.debug[t]++ }

func TestLoggingMiddleware_SplitsByMethod(t *testing.T) {
	logger := &recordingLogger{debug: map[TypeEnum]int{}}
	handler := LoggingMiddleware(logger, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/paste", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/settings", nil))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/settings", nil))

	assert.Equal(t, 2, logger.debug[TypePost])
	assert.Equal(t, 1, logger.debug[TypeGet])
}
