package persistence

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"clipkeep/internal/models"
	"clipkeep/internal/persistence/interfaces"
	"clipkeep/internal/providers"

	"go.uber.org/atomic"
)

var (
	ErrQueueClosed = errors.New("write queue closed")
	// ErrNoChange lets a mutator report that the document is unchanged. The
	// write is skipped and the caller gets nil.
	ErrNoChange = errors.New("no change")
)

const queueBacklog = 64

type job struct {
	fn   interfaces.Mutator
	done chan error
}

// WriteQueue owns the committed document. Mutations are applied one at a time
// by a single goroutine: clone, mutate, write, then commit. A failed write
// leaves the committed document untouched.
type WriteQueue struct {
	store   interfaces.DocumentStoreInterface
	logger  providers.Logger
	metrics providers.MetricsProviderInterface

	mu        sync.RWMutex
	committed *models.Document

	jobs    chan *job
	closeMu sync.RWMutex
	closed  bool
	started atomic.Bool
	wg      sync.WaitGroup
}

func NewWriteQueue(store interfaces.DocumentStoreInterface, logger providers.Logger, metrics providers.MetricsProviderInterface) interfaces.WriteQueueInterface {
	return &WriteQueue{
		store:     store,
		logger:    logger,
		metrics:   metrics,
		committed: models.DefaultDocument(),
		jobs:      make(chan *job, queueBacklog),
	}
}

// Open loads the document and starts the consumer. An absent file yields the
// defaults without touching disk; a repaired file is written back at once.
func (q *WriteQueue) Open() error {
	if q.started.Load() {
		return nil
	}

	doc, err := q.store.Read()
	switch {
	case errors.Is(err, ErrCorruptDocument):
		moved, qErr := q.store.Quarantine()
		if qErr != nil {
			return fmt.Errorf("%w (%v)", err, qErr)
		}
		q.logger.Errorf(providers.TypeApp, "%s, moved to %s and starting empty", err, moved)
		doc = nil
	case err != nil:
		return err
	}

	if doc == nil {
		doc = models.DefaultDocument()
		q.logger.Infof(providers.TypeApp, "No history found, starting with defaults")
	} else if doc.Normalize() {
		q.logger.Warnf(providers.TypeApp, "Document was incomplete, writing repaired copy")
		if err := q.store.Write(doc); err != nil {
			return fmt.Errorf("write repaired document: %w", err)
		}
	}

	q.mu.Lock()
	q.committed = doc
	q.mu.Unlock()
	q.metrics.SetHistorySize(len(doc.History))

	if q.started.CompareAndSwap(false, true) {
		q.wg.Add(1)
		go q.run()
	}
	q.logger.Infof(providers.TypeApp, "Loaded %d history entries", len(doc.History))
	return nil
}

// Enqueue submits fn and waits for its result. If ctx ends after submission
// the mutation still runs; only the wait is abandoned.
func (q *WriteQueue) Enqueue(ctx context.Context, fn interfaces.Mutator) error {
	j := &job{fn: fn, done: make(chan error, 1)}

	q.closeMu.RLock()
	if q.closed {
		q.closeMu.RUnlock()
		return ErrQueueClosed
	}
	select {
	case q.jobs <- j:
		q.closeMu.RUnlock()
	case <-ctx.Done():
		q.closeMu.RUnlock()
		return ctx.Err()
	}

	select {
	case err := <-j.done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (q *WriteQueue) Snapshot() *models.Document {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.committed.Clone()
}

// Close stops accepting work and waits for queued mutations to finish.
func (q *WriteQueue) Close() {
	q.closeMu.Lock()
	if q.closed {
		q.closeMu.Unlock()
		return
	}
	q.closed = true
	close(q.jobs)
	q.closeMu.Unlock()

	if !q.started.Load() {
		for j := range q.jobs {
			j.done <- ErrQueueClosed
		}
		return
	}
	q.wg.Wait()
}

func (q *WriteQueue) run() {
	defer q.wg.Done()
	for j := range q.jobs {
		j.done <- q.apply(j)
	}
}

func (q *WriteQueue) apply(j *job) error {
	start := time.Now()

	q.mu.RLock()
	draft := q.committed.Clone()
	q.mu.RUnlock()

	if err := j.fn(draft); err != nil {
		if errors.Is(err, ErrNoChange) {
			q.metrics.IncMutations("noop")
			return nil
		}
		q.metrics.IncMutations("rejected")
		q.logger.Debugf(providers.TypeApp, "Mutation rejected: %s", err)
		return err
	}

	if err := q.store.Write(draft); err != nil {
		q.metrics.IncMutations("error")
		q.logger.Errorf(providers.TypeApp, "Error while persisting document: %s", err)
		return fmt.Errorf("persist document: %w", err)
	}
	q.metrics.ObservePersistenceDuration(time.Since(start))

	q.mu.Lock()
	q.committed = draft
	q.mu.Unlock()

	q.metrics.IncMutations("ok")
	q.metrics.SetHistorySize(len(draft.History))
	return nil
}
