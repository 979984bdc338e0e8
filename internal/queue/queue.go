package queue

import (
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
)

var (
	ErrQueueFull   = errors.New("queue is full")
	ErrQueueClosed = errors.New("queue is closed")
)

// DealQueue is an in-memory queue of deal batches awaiting analysis
type DealQueue struct {
	items    chan []*models.Deal
	maxSize  int
	closed   bool
	started  bool
	mu       sync.RWMutex
	wg       sync.WaitGroup
	logger   *logrus.Logger
	handlers []func([]*models.Deal) error
}

// NewDealQueue creates a new deal queue with the specified buffer size
func NewDealQueue(bufferSize int, logger *logrus.Logger) *DealQueue {
	if logger == nil {
		logger = logrus.New()
	}
	return &DealQueue{
		items:    make(chan []*models.Deal, bufferSize),
		maxSize:  bufferSize,
		logger:   logger,
		handlers: make([]func([]*models.Deal) error, 0),
	}
}

// Push adds a batch of deals to the queue
func (q *DealQueue) Push(deals []*models.Deal) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}

	// Non-blocking send to prevent deadlocks
	select {
	case q.items <- deals:
		q.logger.WithField("batch_size", len(deals)).Debug("Pushed batch to queue")
		return nil
	default:
		return ErrQueueFull
	}
}

// Subscribe adds a handler function that will be called for each batch
func (q *DealQueue) Subscribe(handler func([]*models.Deal) error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.handlers = append(q.handlers, handler)
}

// Start begins processing items in the queue
func (q *DealQueue) Start() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.started = true
	q.wg.Add(1)
	go q.process()
}

// process handles the queue processing loop. It runs until the queue is
// closed and every accepted batch has been handled.
func (q *DealQueue) process() {
	defer q.wg.Done()
	for batch := range q.items {
		q.processBatch(batch)
	}
}

// processBatch sends the batch to all subscribed handlers
func (q *DealQueue) processBatch(batch []*models.Deal) {
	q.mu.RLock()
	handlers := q.handlers
	q.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(batch); err != nil {
			q.logger.WithError(err).Error("Handler failed to process batch")
		}
	}
}

// Close prevents new items from being added and waits until the batches
// already accepted have been handed to the subscribers.
func (q *DealQueue) Close() error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.items)
	remaining := len(q.items)
	started := q.started
	q.mu.Unlock()

	switch {
	case remaining > 0 && !started:
		q.logger.WithField("pending_batches", remaining).Warn("Closing deal queue that was never started")
	case remaining > 0:
		q.logger.WithField("pending_batches", remaining).Info("Draining deal queue")
	}

	q.wg.Wait()
	return nil
}

// Len returns the current number of batches in the queue
func (q *DealQueue) Len() int {
	return len(q.items)
}

// IsClosed returns whether the queue has been closed
func (q *DealQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
