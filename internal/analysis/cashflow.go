package analysis

// CashFlowBreakdown is the annual cash flow of an income-producing deal
type CashFlowBreakdown struct {
	GrossAnnualRent   float64 `json:"gross_annual_rent"`
	VacancyLoss       float64 `json:"vacancy_loss"`
	NetAnnualRent     float64 `json:"net_annual_rent"`
	OperatingExpenses float64 `json:"operating_expenses"`
	NOI               float64 `json:"noi"`
	AnnualLoanPayment float64 `json:"annual_loan_payment"`
	CashFlowBeforeTax float64 `json:"cash_flow_before_tax"`
	TaxLiability      float64 `json:"tax_liability"`
	CashFlowAfterTax  float64 `json:"cash_flow_after_tax"`
}

// OperatingExpenses is the recurring annual cost of owning the property
func (in InvestmentInput) OperatingExpenses() float64 {
	return in.PropertyTax + in.Insurance + in.Maintenance + in.Management
}

// ProjectCashFlow builds the pre-tax part of the breakdown. Negative cash
// flow is a valid result. Tax fields are filled by ApplyTax.
func ProjectCashFlow(in InvestmentInput, loan LoanSchedule) CashFlowBreakdown {
	gross := in.MonthlyRent * 12
	vacancy := gross * in.VacancyRate / 100
	netRent := gross - vacancy
	expenses := in.OperatingExpenses()
	noi := netRent - expenses

	return CashFlowBreakdown{
		GrossAnnualRent:   finite(gross),
		VacancyLoss:       finite(vacancy),
		NetAnnualRent:     finite(netRent),
		OperatingExpenses: finite(expenses),
		NOI:               finite(noi),
		AnnualLoanPayment: loan.AnnualPayment,
		CashFlowBeforeTax: finite(noi - loan.AnnualPayment),
		CashFlowAfterTax:  finite(noi - loan.AnnualPayment),
	}
}

// ApplyTax returns a copy of the breakdown with the tax liability deducted
func (cf CashFlowBreakdown) ApplyTax(tax TaxEstimate) CashFlowBreakdown {
	cf.TaxLiability = tax.TaxLiability
	cf.CashFlowAfterTax = finite(cf.CashFlowBeforeTax - tax.TaxLiability)
	return cf
}
