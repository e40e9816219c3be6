package testutil

import (
	"context"
	"strings"
	"sync"
	"time"

	"clipkeep/internal/providers"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// Count returns how many entries were logged at level.
func (m *MockLogger) Count(level string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, e := range m.Logs {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Contains reports whether any format string at level contains substr.
func (m *MockLogger) Contains(level, substr string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.Logs {
		if e.Level == level && strings.Contains(e.Format, substr) {
			return true
		}
	}
	return false
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu              sync.Mutex
	Mutations       map[string]int
	ClipboardEvents map[string]int
	HistorySize     int
	Persisted       int
	CacheHits       int
	CacheMisses     int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Mutations: map[string]int{}, ClipboardEvents: map[string]int{}}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) IncCacheHits() {
	m.mu.Lock()
	m.CacheHits++
	m.mu.Unlock()
}
func (m *MockMetrics) IncCacheMisses() {
	m.mu.Lock()
	m.CacheMisses++
	m.mu.Unlock()
}
func (m *MockMetrics) ObservePersistenceDuration(_ time.Duration) {
	m.mu.Lock()
	m.Persisted++
	m.mu.Unlock()
}
func (m *MockMetrics) IncMutations(result string) {
	m.mu.Lock()
	m.Mutations[result]++
	m.mu.Unlock()
}
func (m *MockMetrics) IncClipboardEvents(kind string) {
	m.mu.Lock()
	m.ClipboardEvents[kind]++
	m.mu.Unlock()
}
func (m *MockMetrics) SetHistorySize(count int) {
	m.mu.Lock()
	m.HistorySize = count
	m.mu.Unlock()
}

func (m *MockMetrics) MutationCount(result string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Mutations[result]
}

func (m *MockMetrics) EventCount(kind string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ClipboardEvents[kind]
}

// MockCache implements providers.CacheProviderInterface.
type MockCache struct {
	mu   sync.Mutex
	Data map[string][]byte
}

func NewMockCache() *MockCache {
	return &MockCache{Data: make(map[string][]byte)}
}

func (m *MockCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	val, ok := m.Data[key]
	return val, ok
}

func (m *MockCache) Set(key string, value []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Data[key] = value
}

func (m *MockCache) Del(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Data, key)
}

// MockBackend is an in-memory clipboard implementing clip.Backend.
type MockBackend struct {
	mu         sync.Mutex
	Text       string
	Image      []byte
	TextWrites []string
	ImgWrites  [][]byte
	WriteErr   error
}

func (m *MockBackend) Name() string { return "mock" }

func (m *MockBackend) ReadText() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Text
}

func (m *MockBackend) ReadImage() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Image
}

func (m *MockBackend) WriteText(text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Text = text
	m.TextWrites = append(m.TextWrites, text)
	return nil
}

func (m *MockBackend) WriteImage(png []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Image = png
	m.ImgWrites = append(m.ImgWrites, png)
	return nil
}

// SetText simulates another application copying text.
func (m *MockBackend) SetText(text string) {
	m.mu.Lock()
	m.Text = text
	m.mu.Unlock()
}

// SetImage simulates another application copying an image.
func (m *MockBackend) SetImage(png []byte) {
	m.mu.Lock()
	m.Image = png
	m.mu.Unlock()
}

func (m *MockBackend) Writes() ([]string, [][]byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.TextWrites...), append([][]byte(nil), m.ImgWrites...)
}

// MockKeystroker implements clip.Keystroker and counts paste chords.
type MockKeystroker struct {
	mu    sync.Mutex
	Calls int
	Err   error
	Done  chan struct{}
}

func NewMockKeystroker() *MockKeystroker {
	return &MockKeystroker{Done: make(chan struct{}, 16)}
}

func (m *MockKeystroker) Paste(_ context.Context) error {
	m.mu.Lock()
	m.Calls++
	err := m.Err
	m.mu.Unlock()
	select {
	case m.Done <- struct{}{}:
	default:
	}
	return err
}

func (m *MockKeystroker) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls
}
