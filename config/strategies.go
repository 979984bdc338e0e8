package config

import "github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"

// Strategy describes an investment strategy offered to the user
type Strategy struct {
	Name        analysis.StrategyType `json:"name"`
	Label       string                `json:"label"`
	Description string                `json:"description"`
}

// SupportedStrategies is the catalogue of strategies the engine evaluates
var SupportedStrategies = []Strategy{
	{
		Name:        analysis.StrategyBuyToRent,
		Label:       "Buy to Rent",
		Description: "Long-term rental income, scored on cash flow and yield",
	},
	{
		Name:        analysis.StrategyBuyToHold,
		Label:       "Buy to Hold",
		Description: "Rental held mainly for appreciation, evaluated like buy-to-rent",
	},
	{
		Name:        analysis.StrategyFixAndFlip,
		Label:       "Fix and Flip",
		Description: "Buy, renovate and resell; judged on annualized resale profit",
	},
	{
		Name:        analysis.StrategyOffPlan,
		Label:       "Off-Plan",
		Description: "Pre-construction purchase; judged on expected completion value",
	},
	{
		Name:        analysis.StrategyMixed,
		Label:       "Mixed",
		Description: "Rent first and sell later; evaluated as buy-to-rent",
	},
}

// GetStrategyNames returns a list of supported strategy names
func GetStrategyNames() []string {
	names := make([]string, len(SupportedStrategies))
	for i, strategy := range SupportedStrategies {
		names[i] = string(strategy.Name)
	}
	return names
}

// GetStrategyByName returns a strategy by name
func GetStrategyByName(name string) *Strategy {
	for _, strategy := range SupportedStrategies {
		if string(strategy.Name) == name {
			return &strategy
		}
	}
	return nil
}
