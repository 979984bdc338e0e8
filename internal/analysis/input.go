package analysis

import "math"

// StrategyType selects how a deal is turned into a profit or cash-flow outcome
type StrategyType string

const (
	StrategyBuyToRent  StrategyType = "buy-to-rent"
	StrategyBuyToHold  StrategyType = "buy-to-hold"
	StrategyFixAndFlip StrategyType = "fix-and-flip"
	StrategyOffPlan    StrategyType = "off-plan"
	StrategyMixed      StrategyType = "mixed"
)

// InvestmentInput is the deal record supplied by the caller.
// Percentages are plain numbers (4.5 means 4.5%).
type InvestmentInput struct {
	PropertyPrice float64      `json:"property_price"`
	AssessedValue float64      `json:"assessed_value"`
	TransferTax   float64      `json:"transfer_tax"` // IMT
	StampDuty     float64      `json:"stamp_duty"`   // IS
	LegalFees     float64      `json:"legal_fees"`
	Renovation    float64      `json:"renovation"`
	EmergencyFund float64      `json:"emergency_fund"`
	LoanAmount    float64      `json:"loan_amount"`
	InterestRate  float64      `json:"interest_rate"`
	LoanTermYears float64      `json:"loan_term_years"`
	OwnCapital    float64      `json:"own_capital"`
	MonthlyRent   float64      `json:"monthly_rent"`
	VacancyRate   float64      `json:"vacancy_rate"`
	PropertyTax   float64      `json:"property_tax"`
	Insurance     float64      `json:"insurance"`
	Maintenance   float64      `json:"maintenance"`
	Management    float64      `json:"management"`
	Strategy      StrategyType `json:"strategy"`
	TargetReturn  float64      `json:"target_return"`
	HoldingYears  float64      `json:"holding_years"`
	Flip          FlipTerms    `json:"flip"`
	OffPlan       OffPlanTerms `json:"off_plan"`
}

// FlipTerms holds the resale side of a fix-and-flip deal. The purchase and
// rehab amounts come from PropertyPrice and Renovation.
type FlipTerms struct {
	SalePrice        float64 `json:"sale_price"`
	BuyCostsPercent  float64 `json:"buy_costs_percent"`
	SellCostsPercent float64 `json:"sell_costs_percent"`
	HoldingMonths    float64 `json:"holding_months"`
}

// OffPlanTerms holds the payment plan of a pre-construction purchase
type OffPlanTerms struct {
	Deposit                 float64 `json:"deposit"`
	Installments            float64 `json:"installments"`
	FinalContractPrice      float64 `json:"final_contract_price"`
	ExpectedCompletionValue float64 `json:"expected_completion_value"`
}

// Normalize returns a copy of the input with every numeric field coerced to a
// finite non-negative number no larger than 1e12, and the strategy resolved
// to a known value.
// It is the only place the zero-default rule is applied.
func Normalize(in InvestmentInput) InvestmentInput {
	out := in
	for _, f := range []*float64{
		&out.PropertyPrice, &out.AssessedValue, &out.TransferTax, &out.StampDuty,
		&out.LegalFees, &out.Renovation, &out.EmergencyFund,
		&out.LoanAmount, &out.InterestRate, &out.LoanTermYears, &out.OwnCapital,
		&out.MonthlyRent, &out.VacancyRate,
		&out.PropertyTax, &out.Insurance, &out.Maintenance, &out.Management,
		&out.TargetReturn, &out.HoldingYears,
		&out.Flip.SalePrice, &out.Flip.BuyCostsPercent, &out.Flip.SellCostsPercent, &out.Flip.HoldingMonths,
		&out.OffPlan.Deposit, &out.OffPlan.Installments,
		&out.OffPlan.FinalContractPrice, &out.OffPlan.ExpectedCompletionValue,
	} {
		*f = nonNegative(*f)
	}

	if out.Flip.HoldingMonths < 1 {
		out.Flip.HoldingMonths = 1
	}

	switch out.Strategy {
	case StrategyBuyToRent, StrategyBuyToHold, StrategyFixAndFlip, StrategyOffPlan, StrategyMixed:
	default:
		out.Strategy = StrategyBuyToRent
	}

	return out
}

// TotalInvestment is the full cash outlay to acquire and prepare the property
func (in InvestmentInput) TotalInvestment() float64 {
	return finite(in.PropertyPrice + in.TransferTax + in.StampDuty + in.LegalFees + in.Renovation + in.EmergencyFund)
}

// DownPayment is the own capital contributed. When no contribution is given
// it is whatever part of the total investment the loan does not cover.
func (in InvestmentInput) DownPayment() float64 {
	if in.OwnCapital > 0 {
		return finite(in.OwnCapital)
	}
	return finite(math.Max(0, in.TotalInvestment()-in.LoanAmount))
}

// maxAmount caps every input so sums and products of inputs stay finite
const maxAmount = 1e12

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return math.Min(v, maxAmount)
}

// finite maps NaN and ±Inf to zero so no derived metric can leak them
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// safeDiv returns a/b, or 0 when b is not positive or the result is not finite
func safeDiv(a, b float64) float64 {
	if b <= 0 {
		return 0
	}
	return finite(a / b)
}

// percent is a/b expressed as a percentage, guarded like safeDiv
func percent(a, b float64) float64 {
	return finite(safeDiv(a, b) * 100)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
