package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// ReportEntity is the stored row of an opportunity report.
type ReportEntity struct {
	ID            string    `db:"id"`
	SeedKeyword   string    `db:"seed_keyword"`
	AnalyzedAt    time.Time `db:"analyzed_at"`
	TotalKeywords int       `db:"total_keywords"`
	GapCount      int       `db:"gap_count"`
	Payload       string    `db:"payload"`
}

func (ReportEntity) TableName() string {
	return "opportunity_reports"
}

// ReportSummary is the listing view of a stored report.
type ReportSummary struct {
	ID            string    `json:"id"`
	SeedKeyword   string    `json:"seed_keyword"`
	AnalyzedAt    time.Time `json:"analyzed_at"`
	TotalKeywords int       `json:"total_keywords"`
	GapCount      int       `json:"gap_count"`
}

func ToReportEntity(r *OpportunityReport) (*ReportEntity, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return &ReportEntity{
		ID:            r.ID,
		SeedKeyword:   r.SeedKeyword,
		AnalyzedAt:    r.AnalyzedAt,
		TotalKeywords: r.TotalKeywordsAnalyzed,
		GapCount:      r.Summary.GapOpportunitiesFound,
		Payload:       string(payload),
	}, nil
}

func ToReport(e *ReportEntity) (*OpportunityReport, error) {
	var r OpportunityReport
	if err := json.Unmarshal([]byte(e.Payload), &r); err != nil {
		return nil, fmt.Errorf("failed to decode report %s: %w", e.ID, err)
	}
	r.ID = e.ID
	return &r, nil
}

func ToReportSummary(e *ReportEntity) *ReportSummary {
	return &ReportSummary{
		ID:            e.ID,
		SeedKeyword:   e.SeedKeyword,
		AnalyzedAt:    e.AnalyzedAt,
		TotalKeywords: e.TotalKeywords,
		GapCount:      e.GapCount,
	}
}
