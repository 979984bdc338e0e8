package analysis

import (
	"math"
	"time"
)

// LoanSchedule summarises a fixed-payment loan
type LoanSchedule struct {
	Principal      float64 `json:"principal"`
	AnnualRate     float64 `json:"annual_rate"`
	TermYears      float64 `json:"term_years"`
	MonthlyPayment float64 `json:"monthly_payment"`
	AnnualPayment  float64 `json:"annual_payment"`
	TotalInterest  float64 `json:"total_interest"`
	TotalPaid      float64 `json:"total_paid"`
}

// AmortizationEntry is one monthly period of a loan schedule
type AmortizationEntry struct {
	Period           int       `json:"period"`
	DueDate          time.Time `json:"due_date"`
	Payment          float64   `json:"payment"`
	Interest         float64   `json:"interest"`
	Principal        float64   `json:"principal"`
	RemainingBalance float64   `json:"remaining_balance"`
}

// Amortize computes the fixed monthly payment for a loan of principal at
// annualRate percent over termYears. Any zero input yields a zero schedule.
//
//	i = annualRate / 100 / 12
//	N = termYears * 12
//	payment = P * i(1+i)^N / ((1+i)^N - 1)
func Amortize(principal, annualRate, termYears float64) LoanSchedule {
	schedule := LoanSchedule{
		Principal:  principal,
		AnnualRate: annualRate,
		TermYears:  termYears,
	}
	if principal <= 0 || annualRate <= 0 || termYears <= 0 {
		return schedule
	}

	i := annualRate / 100 / 12
	n := termYears * 12
	growth := math.Pow(1+i, n)
	denominator := growth - 1
	if denominator <= 0 || math.IsInf(growth, 0) {
		return schedule
	}

	monthly := round2(finite(principal * i * growth / denominator))
	if monthly <= 0 {
		return schedule
	}

	schedule.MonthlyPayment = monthly
	schedule.AnnualPayment = round2(monthly * 12)
	schedule.TotalPaid = round2(monthly * n)
	schedule.TotalInterest = math.Max(0, round2(schedule.TotalPaid-principal))
	return schedule
}

// Entries expands the schedule into monthly periods starting one month after
// start. The final period absorbs rounding so the balance ends at zero.
func (s LoanSchedule) Entries(start time.Time) []AmortizationEntry {
	if s.MonthlyPayment <= 0 {
		return nil
	}

	periods := int(math.Round(s.TermYears * 12))
	rate := s.AnnualRate / 100 / 12
	remaining := s.Principal
	entries := make([]AmortizationEntry, 0, periods)

	for period := 1; period <= periods; period++ {
		interest := round2(remaining * rate)
		principalPart := round2(s.MonthlyPayment - interest)
		if period == periods || principalPart > remaining {
			principalPart = round2(remaining)
		}
		remaining = math.Max(0, round2(remaining-principalPart))

		entries = append(entries, AmortizationEntry{
			Period:           period,
			DueDate:          start.AddDate(0, period, 0),
			Payment:          round2(principalPart + interest),
			Interest:         interest,
			Principal:        principalPart,
			RemainingBalance: remaining,
		})
		if remaining == 0 {
			break
		}
	}

	return entries
}
