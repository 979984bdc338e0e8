package analysis

// ReturnMetrics are the headline ratios of a deal. All percentages are plain
// numbers; none of them is ever NaN or Inf.
type ReturnMetrics struct {
	CashOnCashReturn    float64 `json:"cash_on_cash_return"`
	CapRate             float64 `json:"cap_rate"`
	GrossRentMultiplier float64 `json:"gross_rent_multiplier"`
	OnePercentRule      float64 `json:"one_percent_rule"`
	TotalROI            float64 `json:"total_roi"`
}

// CalculateMetrics derives the return ratios from a taxed cash flow
func CalculateMetrics(in InvestmentInput, cf CashFlowBreakdown) ReturnMetrics {
	return ReturnMetrics{
		CashOnCashReturn:    percent(cf.CashFlowAfterTax, in.DownPayment()),
		CapRate:             percent(cf.NOI, in.PropertyPrice),
		GrossRentMultiplier: safeDiv(in.PropertyPrice, cf.GrossAnnualRent),
		OnePercentRule:      percent(in.MonthlyRent, in.PropertyPrice),
		TotalROI:            percent(cf.CashFlowAfterTax, in.TotalInvestment()),
	}
}
