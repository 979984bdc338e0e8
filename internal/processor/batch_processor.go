package processor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/joimopro25-dot/myimomate-crm-sub000/config"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/database"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/queue"
)

// Transactor is the part of the store the processor needs
type Transactor interface {
	Transaction(fc func(tx *gorm.DB) error) error
}

// BatchProcessor analyses queued deal batches and persists them
type BatchProcessor struct {
	db        Transactor
	analyzer  *analysis.Analyzer
	logger    *logrus.Logger
	config    *config.Config
	queue     *queue.DealQueue
	waitGroup sync.WaitGroup
	once      sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// NewBatchProcessor creates a new batch processor instance
func NewBatchProcessor(db Transactor, queue *queue.DealQueue, analyzer *analysis.Analyzer, config *config.Config, logger *logrus.Logger) *BatchProcessor {
	if logger == nil {
		logger = logrus.New()
	}
	if analyzer == nil {
		analyzer = analysis.NewAnalyzer(analysis.DefaultAssumptions(), logger)
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &BatchProcessor{
		db:       db,
		analyzer: analyzer,
		queue:    queue,
		config:   config,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes the processor to the queue. Calling it more than once has
// no further effect.
func (p *BatchProcessor) Start() {
	p.once.Do(func() {
		p.queue.Subscribe(p.handle)
	})
}

// Stop gracefully shuts down the processor
func (p *BatchProcessor) Stop() {
	p.cancel()
	p.waitGroup.Wait()
}

func (p *BatchProcessor) handle(batch []*models.Deal) error {
	if p.ctx.Err() != nil {
		return p.ctx.Err()
	}
	p.waitGroup.Add(1)
	defer p.waitGroup.Done()

	p.analyzeBatch(batch)
	return p.processBatch(batch)
}

// analyzeBatch runs the engine over every deal, spreading the work over
// ProcessorCount workers.
func (p *BatchProcessor) analyzeBatch(batch []*models.Deal) {
	workers := p.config.BatchProcessing.ProcessorCount
	if workers < 1 {
		workers = 1
	}
	if workers > len(batch) {
		workers = len(batch)
	}

	jobs := make(chan *models.Deal)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for deal := range jobs {
				deal.ApplyResult(p.analyzer.Analyze(deal.Input))
			}
		}()
	}
	for _, deal := range batch {
		if deal != nil {
			jobs <- deal
		}
	}
	close(jobs)
	wg.Wait()
}

// processBatch stores a single batch of deals with transaction and retry logic
func (p *BatchProcessor) processBatch(batch []*models.Deal) error {
	var err error
	attempts := 0
	for attempt := 0; attempt <= p.config.BatchProcessing.MaxRetries; attempt++ {
		attempts++
		if attempt > 0 {
			p.logger.Infof("Retrying batch processing, attempt %d of %d", attempt, p.config.BatchProcessing.MaxRetries)
			select {
			case <-p.ctx.Done():
				return fmt.Errorf("batch processing cancelled: %w", err)
			case <-time.After(time.Duration(p.config.BatchProcessing.RetryDelay) * time.Second):
			}
		}

		err = p.db.Transaction(func(tx *gorm.DB) error {
			if err := database.SaveDeals(tx, batch); err != nil {
				return fmt.Errorf("failed to save deals batch: %w", err)
			}
			return nil
		})

		if err == nil {
			p.logger.WithField("batch_size", len(batch)).Info("Successfully processed deal batch")
			return nil
		}

		p.logger.WithError(err).Error("Batch processing failed")
		if database.IsConstraintError(err) {
			break
		}
	}

	return fmt.Errorf("failed to process batch after %d attempts: %w", attempts, err)
}
