package persistence

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"clipkeep/internal/models"
	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/providers"
	"clipkeep/internal/structures"

	json "github.com/goccy/go-json"
)

var (
	ErrRenameExhausted = errors.New("rename retries exhausted")
	ErrCorruptDocument = errors.New("document is not valid JSON")
)

const (
	defaultRenameRetries = 10
	defaultRenameBackoff = 100 * time.Millisecond
)

// DocumentStore persists the whole document as one JSON file. Writes go to a
// sibling temp file that is renamed over the target, so a reader sees either
// the previous or the new content.
type DocumentStore struct {
	path    string
	retries int
	backoff time.Duration
	logger  providers.Logger

	rename func(oldpath, newpath string) error
}

func NewDocumentStore(conf *structures.Config, logger providers.Logger) interfaces.DocumentStoreInterface {
	return newDocumentStore(conf.Persistence.FilePath, conf.Persistence.RenameRetries, conf.Persistence.RenameBackoff, logger)
}

func newDocumentStore(path string, retries int, backoff time.Duration, logger providers.Logger) *DocumentStore {
	if retries <= 0 {
		retries = defaultRenameRetries
	}
	if backoff < 0 {
		backoff = defaultRenameBackoff
	}
	return &DocumentStore{
		path:    path,
		retries: retries,
		backoff: backoff,
		logger:  logger,
		rename:  os.Rename,
	}
}

func (s *DocumentStore) tempPath() string {
	return filepath.Join(filepath.Dir(s.path), "."+filepath.Base(s.path)+".tmp")
}

// Read returns nil, nil when the file does not exist yet. Leftover temp files
// from an interrupted write are ignored.
func (s *DocumentStore) Read() (*models.Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	var doc models.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorruptDocument, s.path, err)
	}
	return &doc, nil
}

func (s *DocumentStore) Write(doc *models.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	tmpFile := s.tempPath()
	if err := writeSynced(tmpFile, data, 0644); err != nil {
		return err
	}

	if err := s.renameWithRetry(tmpFile); err != nil {
		os.Remove(tmpFile)
		return err
	}
	return nil
}

func (s *DocumentStore) renameWithRetry(tmpFile string) error {
	var lastErr error
	for attempt := 1; attempt <= s.retries; attempt++ {
		lastErr = s.rename(tmpFile, s.path)
		if lastErr == nil {
			return nil
		}
		s.logger.Warnf(providers.TypeApp, "rename %s failed (attempt %d/%d): %s", tmpFile, attempt, s.retries, lastErr)
		if attempt < s.retries {
			time.Sleep(s.backoff)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrRenameExhausted, s.path, lastErr)
}

// Quarantine moves an unreadable document aside so the next write starts
// fresh without destroying it.
func (s *DocumentStore) Quarantine() (string, error) {
	target := s.path + ".corrupt-" + strconv.FormatInt(time.Now().UnixMilli(), 10)
	if err := os.Rename(s.path, target); err != nil {
		return "", fmt.Errorf("quarantine %s: %w", s.path, err)
	}
	return target, nil
}

// writeSynced writes data to path and fsyncs it. The file is removed on any
// failure.
func writeSynced(path string, data []byte, mode os.FileMode) error {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(path)
		return err
	}
	return nil
}
