package persistence

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/providers"
	"clipkeep/internal/structures"
)

var (
	ErrInvalidImageName = errors.New("invalid image name")
	ErrEmptyImage       = errors.New("empty image")
)

// ImageStore keeps PNG blobs as files named <epoch-ms>-<base36>.png. History
// entries reference them by file name only.
type ImageStore struct {
	dir    string
	cache  providers.CacheProviderInterface
	logger providers.Logger
	now    func() time.Time
}

func NewImageStore(conf *structures.Config, cache providers.CacheProviderInterface, logger providers.Logger) interfaces.ImageStoreInterface {
	return &ImageStore{
		dir:    conf.Persistence.ImagesDir,
		cache:  cache,
		logger: logger,
		now:    time.Now,
	}
}

// CheckImageName rejects anything that is not a bare file name.
func CheckImageName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") || filepath.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidImageName, name)
	}
	return nil
}

func randomSuffix() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 36)
	}
	return strconv.FormatUint(binary.BigEndian.Uint64(b[:]), 36)
}

func (s *ImageStore) Save(png []byte) (string, error) {
	if len(png) == 0 {
		return "", ErrEmptyImage
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", fmt.Errorf("create images dir: %w", err)
	}

	name := strconv.FormatInt(s.now().UnixMilli(), 10) + "-" + randomSuffix() + ".png"
	target := filepath.Join(s.dir, name)
	tmpFile := filepath.Join(s.dir, "."+name+".tmp")

	if err := writeSynced(tmpFile, png, 0644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	if err := os.Rename(tmpFile, target); err != nil {
		os.Remove(tmpFile)
		return "", fmt.Errorf("write image: %w", err)
	}

	s.cache.Set(name, png)
	return name, nil
}

func (s *ImageStore) Load(name string) ([]byte, error) {
	if err := CheckImageName(name); err != nil {
		return nil, err
	}
	if data, ok := s.cache.Get(name); ok {
		return data, nil
	}

	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return nil, err
	}
	s.cache.Set(name, data)
	return data, nil
}

// Delete never fails the caller; problems are only logged.
func (s *ImageStore) Delete(name string) {
	if err := CheckImageName(name); err != nil {
		s.logger.Warnf(providers.TypeApp, "Skip image delete: %s", err)
		return
	}
	s.cache.Del(name)

	err := os.Remove(filepath.Join(s.dir, name))
	switch {
	case err == nil:
		s.logger.Debugf(providers.TypeApp, "Deleted image %s", name)
	case os.IsNotExist(err):
		s.logger.Debugf(providers.TypeApp, "Image %s already gone", name)
	default:
		s.logger.Warnf(providers.TypeApp, "Failed to delete image %s: %s", name, err)
	}
}
