package analysis

import "math"

// TaxEstimate is a flat-rate approximation of rental income tax. It is not a
// tax-law engine: the interest and depreciation shares are configurable
// heuristics, not statutory rules.
type TaxEstimate struct {
	TaxRate            float64 `json:"tax_rate"`
	InterestDeduction  float64 `json:"interest_deduction"`
	Depreciation       float64 `json:"depreciation"`
	DeductibleExpenses float64 `json:"deductible_expenses"`
	TaxableIncome      float64 `json:"taxable_income"`
	TaxLiability       float64 `json:"tax_liability"`
	TaxSavings         float64 `json:"tax_savings"`
	EffectiveIncome    float64 `json:"effective_income"`
}

// EstimateTax approximates the annual tax position of a rental.
//
//	deductible = operating expenses
//	           + InterestProxy * annual loan payment
//	           + DepreciationProxy * property price
//	taxable    = max(0, net rent - deductible)
func EstimateTax(in InvestmentInput, cf CashFlowBreakdown, a Assumptions) TaxEstimate {
	interest := cf.AnnualLoanPayment * a.InterestProxy
	depreciation := in.PropertyPrice * a.DepreciationProxy
	deductible := cf.OperatingExpenses + interest + depreciation
	taxable := math.Max(0, cf.NetAnnualRent-deductible)
	liability := taxable * a.TaxRate

	return TaxEstimate{
		TaxRate:            a.TaxRate,
		InterestDeduction:  finite(interest),
		Depreciation:       finite(depreciation),
		DeductibleExpenses: finite(deductible),
		TaxableIncome:      finite(taxable),
		TaxLiability:       finite(liability),
		TaxSavings:         finite(deductible * a.TaxRate),
		EffectiveIncome:    finite(cf.NOI - liability),
	}
}
