package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// CoverageReportEntity is the stored row of a coverage report.
type CoverageReportEntity struct {
	ID               string    `db:"id"`
	BrandDomain      string    `db:"brand_domain"`
	GeneratedAt      time.Time `db:"generated_at"`
	TotalKeywords    int       `db:"total_keywords"`
	KeywordsWithGaps int       `db:"keywords_with_gaps"`
	AverageGapScore  float64   `db:"average_gap_score"`
	Payload          string    `db:"payload"`
}

func (CoverageReportEntity) TableName() string {
	return "coverage_reports"
}

// CoverageReportSummary is the listing view of a stored report.
type CoverageReportSummary struct {
	ID               string    `json:"id"`
	BrandDomain      string    `json:"brand_domain"`
	GeneratedAt      time.Time `json:"generated_at"`
	TotalKeywords    int       `json:"total_keywords"`
	KeywordsWithGaps int       `json:"keywords_with_gaps"`
	AverageGapScore  float64   `json:"average_gap_score"`
}

// BrandStats aggregates the stored audits of one brand.
type BrandStats struct {
	BrandDomain     string     `json:"brand_domain"`
	TotalReports    int64      `json:"total_reports"`
	ReportsThisWeek int64      `json:"reports_this_week"`
	AverageGapScore float64    `json:"average_gap_score"`
	LastGeneratedAt *time.Time `json:"last_generated_at"`
}

func ToCoverageReportEntity(r *CoverageReport) (*CoverageReportEntity, error) {
	payload, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to encode coverage report: %w", err)
	}
	return &CoverageReportEntity{
		ID:               r.ID,
		BrandDomain:      r.BrandDomain,
		GeneratedAt:      r.GeneratedAt,
		TotalKeywords:    r.TotalKeywordsAnalyzed,
		KeywordsWithGaps: r.KeywordsWithGaps,
		AverageGapScore:  r.AverageGapScore,
		Payload:          string(payload),
	}, nil
}

func ToCoverageReport(e *CoverageReportEntity) (*CoverageReport, error) {
	var r CoverageReport
	if err := json.Unmarshal([]byte(e.Payload), &r); err != nil {
		return nil, fmt.Errorf("failed to decode coverage report %s: %w", e.ID, err)
	}
	r.ID = e.ID
	return &r, nil
}

func ToCoverageReportSummary(e *CoverageReportEntity) *CoverageReportSummary {
	return &CoverageReportSummary{
		ID:               e.ID,
		BrandDomain:      e.BrandDomain,
		GeneratedAt:      e.GeneratedAt,
		TotalKeywords:    e.TotalKeywords,
		KeywordsWithGaps: e.KeywordsWithGaps,
		AverageGapScore:  e.AverageGapScore,
	}
}
