package database

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mattn/go-sqlite3"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/models"
)

var ErrDealNotFound = errors.New("deal not found")

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewDatabase opens (and creates if needed) the SQLite file at dbPath
func NewDatabase(dbPath string, log *logrus.Logger) (*Database, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return open(sqlite.Open(dbPath), log)
}

// NewTestDB opens a private in-memory database
func NewTestDB() (*Database, error) {
	d, err := open(sqlite.Open(":memory:"), nil)
	if err != nil {
		return nil, err
	}
	// Every new connection to :memory: is a fresh database, so pin one.
	sqlDB, err := d.db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return d, nil
}

func open(dialector gorm.Dialector, log *logrus.Logger) (*Database, error) {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetOutput(os.Stdout)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Database{db: db, logger: log}, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

// Transaction runs fc inside a database transaction
func (d *Database) Transaction(fc func(tx *gorm.DB) error) error {
	return d.db.Transaction(fc)
}

func (d *Database) CreateDeal(deal *models.Deal) error {
	if err := d.db.Create(deal).Error; err != nil {
		return fmt.Errorf("failed to create deal: %w", err)
	}
	d.logger.WithFields(logrus.Fields{
		"deal_id": deal.ID,
		"score":   deal.Score,
		"grade":   deal.Grade,
	}).Info("Saved deal")
	return nil
}

// UpdateDeal overwrites a saved deal
func (d *Database) UpdateDeal(deal *models.Deal) error {
	if deal.ID == 0 {
		return ErrDealNotFound
	}
	result := d.db.Model(deal).Select("*").Omit("id", "created_at").Updates(deal)
	if result.Error != nil {
		return fmt.Errorf("failed to update deal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDealNotFound
	}
	return nil
}

func (d *Database) GetDeal(id int64) (*models.Deal, error) {
	var deal models.Deal
	err := d.db.First(&deal, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrDealNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get deal: %w", err)
	}
	return &deal, nil
}

// ListDeals returns saved deals, newest first, narrowed by filters
func (d *Database) ListDeals(filters *models.DealFilters) ([]models.Deal, error) {
	var deals []models.Deal
	err := d.db.Scopes(filterDeals(filters)).
		Order("created_at DESC, id DESC").
		Find(&deals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	return deals, nil
}

// ListLocatedDeals returns the deals that carry coordinates, newest first,
// narrowed by filters
func (d *Database) ListLocatedDeals(filters *models.DealFilters) ([]models.Deal, error) {
	var deals []models.Deal
	err := d.db.Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("created_at DESC, id DESC").
		Find(&deals).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list located deals: %w", err)
	}
	return filters.Apply(deals), nil
}

// filterDeals pushes deal filters into the query. Grades and strategies are
// stored in canonical case, so the indexed columns are matched directly.
func filterDeals(f *models.DealFilters) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f == nil {
			return db
		}
		if f.MinScore != nil {
			db = db.Where("score >= ?", *f.MinScore)
		}
		if f.MaxScore != nil {
			db = db.Where("score <= ?", *f.MaxScore)
		}
		if f.City != "" {
			db = db.Where("city = ? COLLATE NOCASE", f.City)
		}
		if len(f.Grades) > 0 {
			db = db.Where("grade IN ?", mapStrings(f.Grades, strings.ToUpper))
		}
		if len(f.Strategies) > 0 {
			db = db.Where("strategy IN ?", mapStrings(f.Strategies, strings.ToLower))
		}
		if f.Limit > 0 {
			db = db.Limit(f.Limit)
		}
		return db
	}
}

func mapStrings(values []string, fn func(string) string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fn(strings.TrimSpace(v))
	}
	return out
}

func (d *Database) DeleteDeal(id int64) error {
	result := d.db.Delete(&models.Deal{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete deal: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrDealNotFound
	}
	return nil
}

// SaveDeals inserts a batch of analysed deals using the given transaction
func SaveDeals(tx *gorm.DB, deals []*models.Deal) error {
	if len(deals) == 0 {
		return nil
	}
	return tx.Create(deals).Error
}

// IsConstraintError reports whether err is a SQLite constraint violation.
// Retrying such a write cannot succeed.
func IsConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}

// GetDealStats summarises every saved deal
func (d *Database) GetDealStats() (models.DealStats, error) {
	var stats models.DealStats
	var totals struct {
		TotalDeals   int
		AverageScore float64
	}

	err := d.db.Model(&models.Deal{}).
		Select("COUNT(*) AS total_deals, COALESCE(AVG(score), 0) AS average_score").
		Scan(&totals).Error
	if err != nil {
		return stats, fmt.Errorf("failed to get deal stats: %w", err)
	}
	stats.TotalDeals = totals.TotalDeals
	stats.AverageScore = totals.AverageScore

	err = d.db.Model(&models.Deal{}).
		Select("grade, COUNT(*) AS count").
		Group("grade").
		Order("grade").
		Scan(&stats.Grades).Error
	if err != nil {
		return stats, fmt.Errorf("failed to get grade counts: %w", err)
	}

	// Metrics live inside the serialized result
	var deals []models.Deal
	if err := d.db.Select("result").Find(&deals).Error; err != nil {
		return stats, fmt.Errorf("failed to load deal results: %w", err)
	}
	if len(deals) > 0 {
		var capRate, cashOnCash float64
		for _, deal := range deals {
			capRate += deal.Result.Metrics.CapRate
			cashOnCash += deal.Result.Metrics.CashOnCashReturn
		}
		stats.AverageCapRate = capRate / float64(len(deals))
		stats.AverageCashOnCash = cashOnCash / float64(len(deals))
	}

	return stats, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
