package analysis

import "math"

// Strategy turns a normalized input into a strategy-specific outcome
type Strategy interface {
	Evaluate(in InvestmentInput, loan LoanSchedule) StrategyOutcome
}

// StrategyOutcome carries exactly one of Rental, Flip or OffPlan, chosen by
// the strategy that produced it
type StrategyOutcome struct {
	Strategy StrategyType    `json:"strategy"`
	Rental   *RentalOutcome  `json:"rental,omitempty"`
	Flip     *FlipOutcome    `json:"flip,omitempty"`
	OffPlan  *OffPlanOutcome `json:"off_plan,omitempty"`
}

// RentalOutcome is the yield profile of a buy-to-rent or buy-to-hold deal
type RentalOutcome struct {
	TotalInvestment float64 `json:"total_investment"`
	GrossYield      float64 `json:"gross_yield"`
	NetYield        float64 `json:"net_yield"`
	NetIncome       float64 `json:"net_income"`
	Equity          float64 `json:"equity"`
	CashOnCash      float64 `json:"cash_on_cash"`
}

// FlipOutcome is the resale profit of a fix-and-flip deal
type FlipOutcome struct {
	TotalCost     float64 `json:"total_cost"`
	BuyCosts      float64 `json:"buy_costs"`
	SellCosts     float64 `json:"sell_costs"`
	Profit        float64 `json:"profit"`
	ROI           float64 `json:"roi"`
	AnnualizedROI float64 `json:"annualized_roi"`
	HoldingMonths float64 `json:"holding_months"`
}

// OffPlanOutcome is the completion gain of a pre-construction purchase.
// Profit is floored at zero: a completion value below the contract price is
// reported as no gain, not as a loss.
type OffPlanOutcome struct {
	TotalCash float64 `json:"total_cash"`
	Profit    float64 `json:"profit"`
	ROI       float64 `json:"roi"`
}

// Mixed is a label for rent-then-sell plans and is evaluated as a rental.
var strategies = map[StrategyType]Strategy{
	StrategyBuyToRent:  rentalStrategy{kind: StrategyBuyToRent},
	StrategyBuyToHold:  rentalStrategy{kind: StrategyBuyToHold},
	StrategyFixAndFlip: flipStrategy{},
	StrategyOffPlan:    offPlanStrategy{},
	StrategyMixed:      rentalStrategy{kind: StrategyMixed},
}

// StrategyFor returns the evaluator for a strategy type, falling back to
// buy-to-rent for unknown values
func StrategyFor(kind StrategyType) Strategy {
	if s, ok := strategies[kind]; ok {
		return s
	}
	return strategies[StrategyBuyToRent]
}

type rentalStrategy struct {
	kind StrategyType
}

func (s rentalStrategy) Evaluate(in InvestmentInput, loan LoanSchedule) StrategyOutcome {
	annualRent := in.MonthlyRent * 12
	vacancyLoss := annualRent * in.VacancyRate / 100
	fixedCosts := in.PropertyTax + in.Insurance + in.Management
	netIncome := annualRent - fixedCosts - in.Maintenance - vacancyLoss

	ltv := math.Min(1, safeDiv(loan.Principal, in.PropertyPrice))
	equity := in.PropertyPrice - ltv*in.PropertyPrice

	return StrategyOutcome{
		Strategy: s.kind,
		Rental: &RentalOutcome{
			TotalInvestment: in.TotalInvestment(),
			GrossYield:      percent(annualRent, in.PropertyPrice),
			NetYield:        percent(netIncome, in.PropertyPrice),
			NetIncome:       finite(netIncome),
			Equity:          finite(equity),
			CashOnCash:      percent(netIncome, equity),
		},
	}
}

type flipStrategy struct{}

func (flipStrategy) Evaluate(in InvestmentInput, _ LoanSchedule) StrategyOutcome {
	months := math.Max(1, in.Flip.HoldingMonths)
	buyCosts := in.PropertyPrice * in.Flip.BuyCostsPercent / 100
	sellCosts := in.Flip.SalePrice * in.Flip.SellCostsPercent / 100
	totalCost := in.PropertyPrice + in.Renovation + buyCosts
	profit := in.Flip.SalePrice - sellCosts - totalCost
	roi := percent(profit, totalCost)

	return StrategyOutcome{
		Strategy: StrategyFixAndFlip,
		Flip: &FlipOutcome{
			TotalCost:     finite(totalCost),
			BuyCosts:      finite(buyCosts),
			SellCosts:     finite(sellCosts),
			Profit:        finite(profit),
			ROI:           roi,
			AnnualizedROI: finite(roi * 12 / months),
			HoldingMonths: months,
		},
	}
}

type offPlanStrategy struct{}

func (offPlanStrategy) Evaluate(in InvestmentInput, _ LoanSchedule) StrategyOutcome {
	totalCash := in.OffPlan.Deposit + in.OffPlan.Installments
	profit := math.Max(0, in.OffPlan.ExpectedCompletionValue-in.OffPlan.FinalContractPrice)

	return StrategyOutcome{
		Strategy: StrategyOffPlan,
		OffPlan: &OffPlanOutcome{
			TotalCash: finite(totalCash),
			Profit:    finite(profit),
			ROI:       percent(profit, totalCash),
		},
	}
}

// headlineReturn is the annual return a strategy is judged by against the
// investor's target
func (o StrategyOutcome) headlineReturn(metrics ReturnMetrics, holdingYears float64) float64 {
	switch {
	case o.Flip != nil:
		return o.Flip.AnnualizedROI
	case o.OffPlan != nil:
		if holdingYears <= 0 {
			return o.OffPlan.ROI
		}
		return safeDiv(o.OffPlan.ROI, holdingYears)
	default:
		return metrics.CashOnCashReturn
	}
}
