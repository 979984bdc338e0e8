package queue

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
)

func TestNewDealQueue(t *testing.T) {
	logger := logrus.New()
	q := NewDealQueue(10, logger)
	assert.NotNil(t, q)
	assert.Equal(t, 10, q.maxSize)
	assert.False(t, q.IsClosed())
}

func TestDealQueue_Push(t *testing.T) {
	logger := logrus.New()
	q := NewDealQueue(2, logger)

	// Test successful push
	deals := []*models.Deal{{Name: "test1"}}
	err := q.Push(deals)
	assert.NoError(t, err)
	assert.Equal(t, 1, q.Len())

	// Fill the queue
	_ = q.Push([]*models.Deal{{Name: "test2"}})
	err = q.Push(deals)
	assert.Equal(t, ErrQueueFull, err)

	// Test closed queue
	q.Close()
	err = q.Push(deals)
	assert.Equal(t, ErrQueueClosed, err)
}

func TestDealQueue_Subscribe(t *testing.T) {
	logger := logrus.New()
	q := NewDealQueue(10, logger)

	var processed []*models.Deal
	var mu sync.Mutex

	q.Subscribe(func(deals []*models.Deal) error {
		mu.Lock()
		processed = append(processed, deals...)
		mu.Unlock()
		return nil
	})

	q.Start()
	defer q.Close()

	err := q.Push([]*models.Deal{{Name: "test1"}, {Name: "test2"}})
	assert.NoError(t, err)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(processed) == 2
	}, time.Second, 10*time.Millisecond)

	mu.Lock()
	assert.Equal(t, "test1", processed[0].Name)
	assert.Equal(t, "test2", processed[1].Name)
	mu.Unlock()
}

func TestDealQueue_Close(t *testing.T) {
	logger := logrus.New()
	q := NewDealQueue(10, logger)
	q.Start()

	// Test first close
	err := q.Close()
	assert.NoError(t, err)
	assert.True(t, q.IsClosed())

	// Test second close (should be no-op)
	err = q.Close()
	assert.NoError(t, err)
}

func TestDealQueue_ProcessBatch(t *testing.T) {
	logger := logrus.New()
	q := NewDealQueue(10, logger)

	var wg sync.WaitGroup
	processedBatches := 0
	var mu sync.Mutex

	// Add multiple handlers, one of which fails
	for i := 0; i < 3; i++ {
		wg.Add(1)
		fail := i == 1
		q.Subscribe(func(deals []*models.Deal) error {
			defer wg.Done()
			mu.Lock()
			processedBatches++
			mu.Unlock()
			if fail {
				return errors.New("handler failed")
			}
			return nil
		})
	}

	q.Start()
	defer q.Close()

	err := q.Push([]*models.Deal{{Name: "test"}})
	assert.NoError(t, err)

	// A failing handler must not stop the others
	wg.Wait()

	mu.Lock()
	assert.Equal(t, 3, processedBatches)
	mu.Unlock()
}

func TestDealQueue_CloseDrainsAcceptedBatches(t *testing.T) {
	logger := logrus.New()
	q := NewDealQueue(10, logger)

	var mu sync.Mutex
	handled := 0
	q.Subscribe(func(deals []*models.Deal) error {
		time.Sleep(50 * time.Millisecond)
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})
	q.Start()

	accepted := 0
	for i := 0; i < 5; i++ {
		if err := q.Push([]*models.Deal{{Name: "slow"}}); err == nil {
			accepted++
		}
	}
	assert.Equal(t, 5, accepted)

	time.Sleep(10 * time.Millisecond)
	assert.NoError(t, q.Close())

	// Close returns only once every accepted batch was handled
	mu.Lock()
	assert.Equal(t, accepted, handled)
	mu.Unlock()
	assert.Zero(t, q.Len())
}

func TestDealQueue_StartIsIdempotent(t *testing.T) {
	q := NewDealQueue(10, logrus.New())

	var mu sync.Mutex
	handled := 0
	q.Subscribe(func(deals []*models.Deal) error {
		mu.Lock()
		handled++
		mu.Unlock()
		return nil
	})
	q.Start()
	q.Start()

	assert.NoError(t, q.Push([]*models.Deal{{Name: "once"}}))
	assert.NoError(t, q.Close())

	mu.Lock()
	assert.Equal(t, 1, handled)
	mu.Unlock()
}
