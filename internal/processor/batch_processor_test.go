package processor

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/joimopro25-dot/myimomate-crm-sub000/config"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/database"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/queue"
)

// MockDB is a mock implementation of Transactor
type MockDB struct {
	mock.Mock
}

func (m *MockDB) Transaction(fc func(*gorm.DB) error) error {
	args := m.Called(fc)
	return args.Error(0)
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.BatchProcessing.ProcessorCount = 2
	cfg.BatchProcessing.MaxRetries = 2
	cfg.BatchProcessing.RetryDelay = 0
	return cfg
}

func testBatch() []*models.Deal {
	return []*models.Deal{
		models.NewDeal(models.DealRequest{Name: "Rental", Input: analysis.InvestmentInput{
			PropertyPrice: 100000, MonthlyRent: 1200, OwnCapital: 30000,
			LoanAmount: 70000, InterestRate: 3, LoanTermYears: 30,
		}}),
		models.NewDeal(models.DealRequest{Name: "Flip", Input: analysis.InvestmentInput{
			PropertyPrice: 150000, Renovation: 30000, Strategy: analysis.StrategyFixAndFlip,
			Flip: analysis.FlipTerms{SalePrice: 230000, BuyCostsPercent: 6, SellCostsPercent: 6, HoldingMonths: 6},
		}}),
	}
}

func TestNewBatchProcessor(t *testing.T) {
	mockDB := &MockDB{}
	q := queue.NewDealQueue(10, nil)
	cfg := testConfig()
	logger := logrus.New()

	processor := NewBatchProcessor(mockDB, q, nil, cfg, logger)

	assert.NotNil(t, processor)
	assert.Equal(t, mockDB, processor.db)
	assert.Equal(t, q, processor.queue)
	assert.Equal(t, cfg, processor.config)
	assert.Equal(t, logger, processor.logger)
	assert.NotNil(t, processor.analyzer)
}

func TestBatchProcessor_ProcessBatch(t *testing.T) {
	mockDB := &MockDB{}
	processor := NewBatchProcessor(mockDB, queue.NewDealQueue(10, nil), nil, testConfig(), logrus.New())
	batch := testBatch()

	// Test successful processing
	mockDB.On("Transaction", mock.Anything).Return(nil).Once()
	err := processor.processBatch(batch)
	assert.NoError(t, err)

	// Test retry on failure
	mockDB.On("Transaction", mock.Anything).Return(errors.New("db error")).Times(3)
	err = processor.processBatch(batch)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to process batch after 3 attempts")
	mockDB.AssertNumberOfCalls(t, "Transaction", 4)
}

func TestBatchProcessor_RecoversAfterRetry(t *testing.T) {
	mockDB := &MockDB{}
	processor := NewBatchProcessor(mockDB, queue.NewDealQueue(10, nil), nil, testConfig(), logrus.New())

	mockDB.On("Transaction", mock.Anything).Return(errors.New("database is locked")).Once()
	mockDB.On("Transaction", mock.Anything).Return(nil).Once()

	assert.NoError(t, processor.processBatch(testBatch()))
	mockDB.AssertExpectations(t)
}

func TestBatchProcessor_AnalyzeBatch(t *testing.T) {
	processor := NewBatchProcessor(&MockDB{}, queue.NewDealQueue(10, nil), nil, testConfig(), logrus.New())
	batch := testBatch()

	processor.analyzeBatch(batch)

	require.NotNil(t, batch[0].Result.Strategy.Rental)
	assert.Equal(t, string(analysis.StrategyBuyToRent), batch[0].Strategy)
	assert.NotEmpty(t, batch[0].Grade)

	require.NotNil(t, batch[1].Result.Strategy.Flip)
	assert.InDelta(t, 27200, batch[1].Result.Strategy.Flip.Profit, 0.01)
}

func TestBatchProcessor_EndToEnd(t *testing.T) {
	db, err := database.NewTestDB()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.RunMigrations())

	q := queue.NewDealQueue(10, nil)
	processor := NewBatchProcessor(db, q, nil, testConfig(), logrus.New())
	processor.Start()
	processor.Start()
	q.Start()

	require.NoError(t, q.Push(testBatch()))

	assert.Eventually(t, func() bool {
		deals, err := db.ListDeals(nil)
		return err == nil && len(deals) == 2
	}, 2*time.Second, 20*time.Millisecond)

	require.NoError(t, q.Close())
	processor.Stop()

	// Subscribing twice must not store the batch twice
	deals, err := db.ListDeals(nil)
	require.NoError(t, err)
	assert.Len(t, deals, 2)
}

func TestBatchProcessor_StartStop(t *testing.T) {
	mockDB := &MockDB{}
	q := queue.NewDealQueue(10, nil)
	processor := NewBatchProcessor(mockDB, q, nil, testConfig(), logrus.New())

	processor.Start()
	q.Start()

	processor.Stop()
	assert.Error(t, processor.handle(testBatch()), "stopped processor must reject batches")

	q.Close()
	assert.True(t, q.IsClosed())
	mockDB.AssertNotCalled(t, "Transaction", mock.Anything)
}

func TestBatchProcessor_ConstraintErrorIsNotRetried(t *testing.T) {
	mockDB := &MockDB{}
	processor := NewBatchProcessor(mockDB, queue.NewDealQueue(10, nil), nil, testConfig(), logrus.New())

	constraint := fmt.Errorf("failed to save deals batch: %w", sqlite3.Error{Code: sqlite3.ErrConstraint})
	mockDB.On("Transaction", mock.Anything).Return(constraint)

	err := processor.processBatch(testBatch())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 1 attempts")
	mockDB.AssertNumberOfCalls(t, "Transaction", 1)
}
