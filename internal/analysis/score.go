package analysis

// Grade is the letter band of an investment score
type Grade string

const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
)

// InvestmentScore is a 0-100 rating derived only from return metrics and the
// break-even cushion
type InvestmentScore struct {
	Score          int            `json:"score"`
	Grade          Grade          `json:"grade"`
	Recommendation string         `json:"recommendation"`
	Breakdown      ScoreBreakdown `json:"breakdown"`
}

// ScoreBreakdown exposes the points awarded by each bucket
type ScoreBreakdown struct {
	CashOnCash     int `json:"cash_on_cash"`
	CapRate        int `json:"cap_rate"`
	OnePercentRule int `json:"one_percent_rule"`
	BreakEven      int `json:"break_even"`
}

type tier struct {
	min    float64
	points int
}

// Tiers are ordered highest first; the first one met wins.
var (
	cashOnCashTiers = []tier{{15, 40}, {10, 30}, {6, 20}, {3, 10}}
	capRateTiers    = []tier{{8, 20}, {6, 15}, {4, 10}, {2, 5}}
	onePercentTiers = []tier{{1, 20}, {0.8, 15}, {0.6, 10}, {0.4, 5}}
	cushionTiers    = []tier{{30, 20}, {20, 15}, {10, 10}, {0, 5}}
)

var gradeBands = []struct {
	min            int
	grade          Grade
	recommendation string
}{
	{80, GradeA, "Excellent investment: strong returns with a comfortable safety margin"},
	{60, GradeB, "Good investment: solid returns, review the weaker metrics"},
	{40, GradeC, "Marginal investment: negotiate the price or improve the rent before committing"},
	{0, GradeD, "Poor investment: returns do not justify the risk"},
}

func points(value float64, tiers []tier) int {
	for _, t := range tiers {
		if value >= t.min {
			return t.points
		}
	}
	return 0
}

// Score rates a deal out of 100
func Score(metrics ReturnMetrics, breakEven BreakEvenResult) InvestmentScore {
	breakdown := ScoreBreakdown{
		CashOnCash:     points(metrics.CashOnCashReturn, cashOnCashTiers),
		CapRate:        points(metrics.CapRate, capRateTiers),
		OnePercentRule: points(metrics.OnePercentRule, onePercentTiers),
		BreakEven:      points(breakEven.CushionPercentage, cushionTiers),
	}
	total := breakdown.CashOnCash + breakdown.CapRate + breakdown.OnePercentRule + breakdown.BreakEven

	result := InvestmentScore{Score: total, Breakdown: breakdown}
	for _, band := range gradeBands {
		if total >= band.min {
			result.Grade = band.grade
			result.Recommendation = band.recommendation
			break
		}
	}
	return result
}
