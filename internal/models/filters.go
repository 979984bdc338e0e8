package models

import "strings"

// DealFilters narrows the list of saved deals
type DealFilters struct {
	MinScore   *int     `form:"min_score" json:"min_score"`
	MaxScore   *int     `form:"max_score" json:"max_score"`
	Grades     []string `form:"grade" json:"grades"`
	Strategies []string `form:"strategy" json:"strategies"`
	City       string   `form:"city" json:"city"`
	Limit      int      `form:"limit" json:"limit"`
}

// IsDealAllowed checks if a deal matches the filter criteria
func (f *DealFilters) IsDealAllowed(deal *Deal) bool {
	if f == nil {
		return true // No filters means allow all
	}

	// Check score range
	if f.MinScore != nil && deal.Score < *f.MinScore {
		return false
	}
	if f.MaxScore != nil && deal.Score > *f.MaxScore {
		return false
	}

	if f.City != "" && !strings.EqualFold(f.City, deal.City) {
		return false
	}

	if len(f.Grades) > 0 && !containsFold(f.Grades, deal.Grade) {
		return false
	}

	if len(f.Strategies) > 0 && !containsFold(f.Strategies, deal.Strategy) {
		return false
	}

	return true
}

// Apply returns the deals matching the filters, capped at Limit when set
func (f *DealFilters) Apply(deals []Deal) []Deal {
	matched := make([]Deal, 0, len(deals))
	for i := range deals {
		if !f.IsDealAllowed(&deals[i]) {
			continue
		}
		matched = append(matched, deals[i])
		if f != nil && f.Limit > 0 && len(matched) == f.Limit {
			break
		}
	}
	return matched
}

func containsFold(values []string, target string) bool {
	for _, v := range values {
		if strings.EqualFold(strings.TrimSpace(v), target) {
			return true
		}
	}
	return false
}
