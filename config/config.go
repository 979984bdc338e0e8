package config

import (
	"fmt"

	"github.com/caarlos0/env/v6"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
)

type Config struct {
	Server struct {
		Port string `env:"SERVER_PORT" envDefault:"5250"`

		// Path of the SQLite file holding saved deals
		DatabasePath string `env:"DATABASE_PATH" envDefault:"database/deals.db"`

		// Path of the JSON file holding tax profiles
		TaxProfilesPath string `env:"TAX_PROFILES_PATH" envDefault:"config/tax_profiles.json"`

		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`
	}

	// Analysis configuration
	Analysis struct {
		// Flat rental income tax rate as a fraction
		TaxRate float64 `env:"ANALYSIS_TAX_RATE" envDefault:"0.28"`

		// Share of the annual loan payment deducted as interest
		InterestProxy float64 `env:"ANALYSIS_INTEREST_PROXY" envDefault:"0.80"`

		// Share of the property price deducted as depreciation each year
		DepreciationProxy float64 `env:"ANALYSIS_DEPRECIATION_PROXY" envDefault:"0.02"`

		OptimisticRent        float64 `env:"SCENARIO_OPTIMISTIC_RENT" envDefault:"1.2"`
		OptimisticMaintenance float64 `env:"SCENARIO_OPTIMISTIC_MAINTENANCE" envDefault:"0.9"`

		PessimisticRent        float64 `env:"SCENARIO_PESSIMISTIC_RENT" envDefault:"0.9"`
		PessimisticMaintenance float64 `env:"SCENARIO_PESSIMISTIC_MAINTENANCE" envDefault:"1.2"`
	}

	// BatchProcessing configuration
	BatchProcessing struct {
		// Number of batches the queue can hold before pushes are rejected
		QueueSize int `env:"BATCH_QUEUE_SIZE" envDefault:"100"`

		// Maximum number of deals accepted in one batch request
		MaxBatchSize int `env:"BATCH_MAX_SIZE" envDefault:"100"`

		// Number of concurrent batch processors
		ProcessorCount int `env:"BATCH_PROCESSOR_COUNT" envDefault:"2"`

		// Maximum number of retries for failed batches
		MaxRetries int `env:"BATCH_MAX_RETRIES" envDefault:"3"`

		// Delay between retries in seconds
		RetryDelay int `env:"BATCH_RETRY_DELAY" envDefault:"5"`
	}
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects assumptions that would break the engine's guarantees
func (c *Config) Validate() error {
	a := c.Analysis
	if a.TaxRate < 0 || a.TaxRate > 1 {
		return fmt.Errorf("tax rate must be between 0 and 1, got %v", a.TaxRate)
	}
	if a.InterestProxy < 0 || a.DepreciationProxy < 0 {
		return fmt.Errorf("tax proxies must not be negative")
	}
	if a.OptimisticRent < 0 || a.OptimisticMaintenance < 0 || a.PessimisticRent < 0 || a.PessimisticMaintenance < 0 {
		return fmt.Errorf("scenario factors must not be negative")
	}
	if c.BatchProcessing.ProcessorCount < 1 {
		return fmt.Errorf("at least one batch processor is required")
	}
	return nil
}

// Assumptions converts the analysis settings into engine constants
func (c *Config) Assumptions() analysis.Assumptions {
	return analysis.Assumptions{
		TaxRate:           c.Analysis.TaxRate,
		InterestProxy:     c.Analysis.InterestProxy,
		DepreciationProxy: c.Analysis.DepreciationProxy,
		Optimistic: analysis.ScenarioFactors{
			Rent:        c.Analysis.OptimisticRent,
			Maintenance: c.Analysis.OptimisticMaintenance,
		},
		Pessimistic: analysis.ScenarioFactors{
			Rent:        c.Analysis.PessimisticRent,
			Maintenance: c.Analysis.PessimisticMaintenance,
		},
	}
}
