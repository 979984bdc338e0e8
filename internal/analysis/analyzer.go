package analysis

import (
	"io"

	"github.com/sirupsen/logrus"
)

// AnalysisResult is everything the engine derives from one input
type AnalysisResult struct {
	Input           InvestmentInput   `json:"input"`
	TotalInvestment float64           `json:"total_investment"`
	DownPayment     float64           `json:"down_payment"`
	CashFlow        CashFlowBreakdown `json:"cash_flow"`
	Metrics         ReturnMetrics     `json:"metrics"`
	Loan            LoanSchedule      `json:"loan"`
	Tax             TaxEstimate       `json:"tax"`
	BreakEven       BreakEvenResult   `json:"break_even"`
	Scenarios       ScenarioSet       `json:"scenarios"`
	Score           InvestmentScore   `json:"score"`
	Strategy        StrategyOutcome   `json:"strategy"`
	Goal            GoalAssessment    `json:"goal"`
}

// GoalAssessment compares the deal with the investor's target
type GoalAssessment struct {
	TargetReturn    float64 `json:"target_return"`
	ProjectedReturn float64 `json:"projected_return"`
	MeetsTarget     bool    `json:"meets_target"`
	HoldingYears    float64 `json:"holding_years"`
	HoldingCashFlow float64 `json:"holding_cash_flow"`
}

// Analyzer runs the full pipeline with a fixed set of assumptions. It holds no
// mutable state and is safe for concurrent use.
type Analyzer struct {
	assumptions Assumptions
	logger      *logrus.Logger
}

// NewAnalyzer creates an analyzer. A nil logger discards output.
func NewAnalyzer(assumptions Assumptions, logger *logrus.Logger) *Analyzer {
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	return &Analyzer{
		assumptions: assumptions,
		logger:      logger,
	}
}

// Assumptions returns the constants this analyzer runs with
func (a *Analyzer) Assumptions() Assumptions {
	return a.assumptions
}

// WithAssumptions returns an analyzer sharing the logger but using different
// constants
func (a *Analyzer) WithAssumptions(assumptions Assumptions) *Analyzer {
	return &Analyzer{
		assumptions: assumptions,
		logger:      a.logger,
	}
}

// Analyze computes the full result for a deal. It never fails: missing or
// invalid numbers are treated as zero and yield degenerate results.
func (a *Analyzer) Analyze(raw InvestmentInput) AnalysisResult {
	in := Normalize(raw)

	loan := Amortize(in.LoanAmount, in.InterestRate, in.LoanTermYears)
	metrics, cashFlow, tax := project(in, loan, a.assumptions)
	breakEven := AnalyzeBreakEven(in, cashFlow)
	outcome := StrategyFor(in.Strategy).Evaluate(in, loan)
	projected := outcome.headlineReturn(metrics, in.HoldingYears)

	result := AnalysisResult{
		Input:           in,
		TotalInvestment: in.TotalInvestment(),
		DownPayment:     in.DownPayment(),
		CashFlow:        cashFlow,
		Metrics:         metrics,
		Loan:            loan,
		Tax:             tax,
		BreakEven:       breakEven,
		Scenarios:       RunScenarios(in, loan, metrics, a.assumptions),
		Score:           Score(metrics, breakEven),
		Strategy:        outcome,
		Goal: GoalAssessment{
			TargetReturn:    in.TargetReturn,
			ProjectedReturn: projected,
			MeetsTarget:     in.TargetReturn > 0 && projected >= in.TargetReturn,
			HoldingYears:    in.HoldingYears,
			HoldingCashFlow: finite(cashFlow.CashFlowAfterTax * in.HoldingYears),
		},
	}

	a.logger.WithFields(logrus.Fields{
		"strategy": in.Strategy,
		"score":    result.Score.Score,
		"grade":    result.Score.Grade,
	}).Debug("Analyzed deal")

	return result
}

var defaultAnalyzer = NewAnalyzer(DefaultAssumptions(), nil)

// Analyze runs the pipeline with the default assumptions
func Analyze(in InvestmentInput) AnalysisResult {
	return defaultAnalyzer.Analyze(in)
}

// project runs cash flow, tax and return metrics for one input
func project(in InvestmentInput, loan LoanSchedule, a Assumptions) (ReturnMetrics, CashFlowBreakdown, TaxEstimate) {
	cashFlow := ProjectCashFlow(in, loan)
	tax := EstimateTax(in, cashFlow, a)
	cashFlow = cashFlow.ApplyTax(tax)
	return CalculateMetrics(in, cashFlow), cashFlow, tax
}
