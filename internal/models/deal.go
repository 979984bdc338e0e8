package models

import (
	"time"

	"github.com/joimopro25-dot/myimomate-crm-sub000/internal/analysis"
)

// Deal is a proposed acquisition saved together with its latest analysis
type Deal struct {
	ID        int64                    `gorm:"primaryKey" json:"id"`
	Name      string                   `json:"name"`
	Street    string                   `json:"street"`
	City      string                   `gorm:"index" json:"city"`
	Latitude  *float64                 `json:"latitude"`
	Longitude *float64                 `json:"longitude"`
	Strategy  string                   `gorm:"index" json:"strategy"`
	Score     int                      `gorm:"index" json:"score"`
	Grade     string                   `gorm:"index" json:"grade"`
	Input     analysis.InvestmentInput `gorm:"serializer:json" json:"input"`
	Result    analysis.AnalysisResult  `gorm:"serializer:json" json:"result"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// DealRequest is the body accepted when analysing or saving a deal
type DealRequest struct {
	Name      string                   `json:"name"`
	Street    string                   `json:"street"`
	City      string                   `json:"city"`
	Latitude  *float64                 `json:"latitude"`
	Longitude *float64                 `json:"longitude"`
	Input     analysis.InvestmentInput `json:"input"`
}

// NewDeal builds an unsaved deal from a request
func NewDeal(req DealRequest) *Deal {
	return &Deal{
		Name:      req.Name,
		Street:    req.Street,
		City:      req.City,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Input:     req.Input,
	}
}

// ApplyResult stores an analysis on the deal and copies the indexed fields
func (d *Deal) ApplyResult(result analysis.AnalysisResult) {
	d.Input = result.Input
	d.Result = result
	d.Strategy = string(result.Input.Strategy)
	d.Score = result.Score.Score
	d.Grade = string(result.Score.Grade)
}

// HasLocation reports whether the deal can be placed on a map
func (d *Deal) HasLocation() bool {
	return d.Latitude != nil && d.Longitude != nil
}

type DealStats struct {
	TotalDeals        int          `json:"total_deals"`
	AverageScore      float64      `json:"average_score"`
	AverageCapRate    float64      `json:"average_cap_rate"`
	AverageCashOnCash float64      `json:"average_cash_on_cash"`
	Grades            []GradeCount `json:"grades"`
}

type GradeCount struct {
	Grade string `json:"grade"`
	Count int    `json:"count"`
}
