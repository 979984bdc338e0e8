package analysis

// ScenarioOutcome is the cash-on-cash return of one stress scenario
type ScenarioOutcome struct {
	Name              string  `json:"name"`
	RentFactor        float64 `json:"rent_factor"`
	MaintenanceFactor float64 `json:"maintenance_factor"`
	CashOnCashReturn  float64 `json:"cash_on_cash_return"`
}

// ScenarioSet holds the base case and its two perturbations
type ScenarioSet struct {
	Base        ScenarioOutcome `json:"base"`
	Optimistic  ScenarioOutcome `json:"optimistic"`
	Pessimistic ScenarioOutcome `json:"pessimistic"`
}

// perturb returns a copy of the input with rent and maintenance scaled
func perturb(in InvestmentInput, f ScenarioFactors) InvestmentInput {
	out := in
	out.MonthlyRent = in.MonthlyRent * f.Rent
	out.Maintenance = in.Maintenance * f.Maintenance
	return out
}

// RunScenarios re-runs the cash flow, tax and metrics pipeline on perturbed
// copies of the input. The input itself is left untouched.
func RunScenarios(in InvestmentInput, loan LoanSchedule, base ReturnMetrics, a Assumptions) ScenarioSet {
	run := func(name string, f ScenarioFactors) ScenarioOutcome {
		metrics, _, _ := project(perturb(in, f), loan, a)
		return ScenarioOutcome{
			Name:              name,
			RentFactor:        f.Rent,
			MaintenanceFactor: f.Maintenance,
			CashOnCashReturn:  metrics.CashOnCashReturn,
		}
	}

	return ScenarioSet{
		Base: ScenarioOutcome{
			Name:              "base",
			RentFactor:        1,
			MaintenanceFactor: 1,
			CashOnCashReturn:  base.CashOnCashReturn,
		},
		Optimistic:  run("optimistic", a.Optimistic),
		Pessimistic: run("pessimistic", a.Pessimistic),
	}
}
