package analysis

// Assumptions are the tunable constants of the engine
type Assumptions struct {
	// TaxRate is a fraction (0.28 means 28%)
	TaxRate float64 `json:"tax_rate"`
	// InterestProxy is the share of the annual loan payment treated as interest
	InterestProxy float64 `json:"interest_proxy"`
	// DepreciationProxy is the share of the property price deducted yearly
	DepreciationProxy float64 `json:"depreciation_proxy"`

	Optimistic  ScenarioFactors `json:"optimistic"`
	Pessimistic ScenarioFactors `json:"pessimistic"`
}

// ScenarioFactors scale rent and maintenance for a stress scenario
type ScenarioFactors struct {
	Rent        float64 `json:"rent"`
	Maintenance float64 `json:"maintenance"`
}

const (
	DefaultTaxRate           = 0.28
	DefaultInterestProxy     = 0.80
	DefaultDepreciationProxy = 0.02
)

// DefaultAssumptions returns the flat 28% rental-tax approximation with the
// stock optimistic and pessimistic scenarios
func DefaultAssumptions() Assumptions {
	return Assumptions{
		TaxRate:           DefaultTaxRate,
		InterestProxy:     DefaultInterestProxy,
		DepreciationProxy: DefaultDepreciationProxy,
		Optimistic:        ScenarioFactors{Rent: 1.2, Maintenance: 0.9},
		Pessimistic:       ScenarioFactors{Rent: 0.9, Maintenance: 1.2},
	}
}
