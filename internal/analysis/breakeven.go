package analysis

// BreakEvenResult compares the rent needed to cover costs with the actual rent
type BreakEvenResult struct {
	MonthlyCosts      float64 `json:"monthly_costs"`
	BreakEvenRent     float64 `json:"break_even_rent"`
	CurrentRent       float64 `json:"current_rent"`
	RentCushion       float64 `json:"rent_cushion"`
	CushionPercentage float64 `json:"cushion_percentage"`
}

// AnalyzeBreakEven finds the minimum monthly rent that covers operating costs
// and loan payments at the assumed vacancy rate. A vacancy rate of 100% or
// more leaves no occupied months to gross up, so costs are used as-is.
func AnalyzeBreakEven(in InvestmentInput, cf CashFlowBreakdown) BreakEvenResult {
	monthlyCosts := (cf.OperatingExpenses + cf.AnnualLoanPayment) / 12

	breakEven := monthlyCosts
	if in.VacancyRate < 100 {
		breakEven = monthlyCosts / (1 - in.VacancyRate/100)
	}
	breakEven = finite(breakEven)
	cushion := in.MonthlyRent - breakEven

	return BreakEvenResult{
		MonthlyCosts:      finite(monthlyCosts),
		BreakEvenRent:     breakEven,
		CurrentRent:       in.MonthlyRent,
		RentCushion:       finite(cushion),
		CushionPercentage: percent(cushion, breakEven),
	}
}
