package interfaces

import (
	"context"

	"clipkeep/internal/models"
)

// DocumentStoreInterface reads and atomically replaces the on-disk document.
type DocumentStoreInterface interface {
	Read() (*models.Document, error)
	Write(doc *models.Document) error
	Quarantine() (string, error)
}

type Mutator func(doc *models.Document) error

type WriteQueueInterface interface {
	Open() error
	Enqueue(ctx context.Context, fn Mutator) error
	Snapshot() *models.Document
	Close()
}

type ImageStoreInterface interface {
	Save(png []byte) (string, error)
	Load(name string) ([]byte, error)
	Delete(name string)
}
