// Package domain defines the opportunity records produced by the analyzer.
package domain

import (
	"encoding/json"
	"time"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

type OpportunityType string

const (
	OpportunityPlatformGap      OpportunityType = "platform_gap"
	OpportunityTrendMigration   OpportunityType = "trend_migration"
	OpportunityPlatformUnique   OpportunityType = "platform_unique"
	OpportunityVolumeDisparity  OpportunityType = "volume_disparity"
	OpportunityBrandCoverageGap OpportunityType = "brand_coverage_gap"
)

// PlatformGapOpportunity is a demand gap between a strategic platform pair.
type PlatformGapOpportunity struct {
	Keyword            string          `json:"keyword"`
	OpportunityType    OpportunityType `json:"opportunity_type"`
	HighVolumePlatform kw.Platform     `json:"high_volume_platform"`
	HighVolume         int64           `json:"high_volume"`
	LowVolumePlatform  kw.Platform     `json:"low_volume_platform"`
	LowVolume          int64           `json:"low_volume"`
	VolumeRatio        float64         `json:"volume_ratio"`
	OpportunityScore   float64         `json:"opportunity_score"`
	Recommendation     string          `json:"recommendation"`
}

// PairLabel renders the pair as "high → low".
func (g PlatformGapOpportunity) PairLabel() string {
	return string(g.HighVolumePlatform) + " → " + string(g.LowVolumePlatform)
}

type UniquenessCategory string

const (
	CategoryFormatDriven     UniquenessCategory = "format_driven"
	CategoryPlatformSlang    UniquenessCategory = "platform_slang"
	CategoryAudienceSpecific UniquenessCategory = "audience_specific"
	CategoryUnknown          UniquenessCategory = "unknown"
)

// UniqueKeyword is a keyword whose demand clears the volume floor on
// exactly one platform.
type UniqueKeyword struct {
	Keyword            string             `json:"keyword"`
	Platform           kw.Platform        `json:"platform"`
	Volume             int64              `json:"volume"`
	UniquenessCategory UniquenessCategory `json:"uniqueness_category"`
	Reason             string             `json:"reason"`
}

// UniquenessMatch tags a keyword with the first pattern it matched on a platform.
type UniquenessMatch struct {
	Category    UniquenessCategory `json:"category"`
	MatchedTerm string             `json:"matched_term"`
}

type TrendAnalysis struct {
	Direction  kw.TrendDirection `json:"direction"`
	GrowthRate float64           `json:"growth_rate"`
}

// PlatformSnapshot is the per-platform view inside a keyword analysis.
type PlatformSnapshot struct {
	Volume         int64             `json:"volume"`
	CPC            *float64          `json:"cpc"`
	Competition    *float64          `json:"competition"`
	TrendDirection kw.TrendDirection `json:"trend_direction"`
}

// KeywordAnalysis is the full single-keyword result.
type KeywordAnalysis struct {
	Keyword                  string                           `json:"keyword"`
	TotalVolume              int64                            `json:"total_volume"`
	PrimaryPlatform          *kw.Platform                     `json:"primary_platform"`
	Platforms                map[kw.Platform]PlatformSnapshot `json:"platforms"`
	PlatformGaps             []PlatformGapOpportunity         `json:"platform_gaps"`
	UniquenessClassification map[kw.Platform]UniquenessMatch  `json:"uniqueness_classification"`
	TrendAnalysis            map[kw.Platform]TrendAnalysis    `json:"trend_analysis"`
	OpportunityScore         float64                          `json:"opportunity_score"`
}

// GapTypeCount counts gaps for one "high → low" pair label.
type GapTypeCount struct {
	Pair  string `json:"pair"`
	Count int    `json:"count"`
}

type OpportunitySummary struct {
	TotalSearchVolumeAnalyzed   int64               `json:"total_search_volume_analyzed"`
	GapOpportunitiesFound       int                 `json:"gap_opportunities_found"`
	TopGapTypes                 []GapTypeCount      `json:"top_gap_types"`
	PrimaryPlatformDistribution map[kw.Platform]int `json:"primary_platform_distribution"`
	HighestOpportunityKeywords  []string            `json:"highest_opportunity_keywords"`
	AverageOpportunityScore     float64             `json:"average_opportunity_score"`
}

// OpportunityReport is the batch result over a list of keywords.
type OpportunityReport struct {
	ID                    string                          `json:"id,omitempty"`
	SeedKeyword           string                          `json:"seed_keyword"`
	AnalyzedAt            time.Time                       `json:"analyzed_at"`
	TotalKeywordsAnalyzed int                             `json:"total_keywords_analyzed"`
	PlatformGaps          []PlatformGapOpportunity        `json:"platform_gaps"`
	UniqueKeywords        map[kw.Platform][]UniqueKeyword `json:"unique_keywords"`
	Summary               OpportunitySummary              `json:"summary"`
}

// TrendMigration flags a keyword growing on social platforms while search
// demand has not caught up yet.
type TrendMigration struct {
	Keyword             string                        `json:"keyword"`
	OpportunityType     OpportunityType               `json:"opportunity_type"`
	Pattern             string                        `json:"pattern"`
	OriginPlatform      kw.Platform                   `json:"origin_platform"`
	DestinationPlatform kw.Platform                   `json:"destination_platform"`
	SocialTrend         map[kw.Platform]TrendAnalysis `json:"social_trend"`
	SearchTrend         *TrendAnalysis                `json:"search_trend"`
	Recommendation      string                        `json:"recommendation"`
}

// MarshalJSON renders a missing search trend as an empty object.
func (m TrendMigration) MarshalJSON() ([]byte, error) {
	type migration TrendMigration
	out := struct {
		migration
		SearchTrend any `json:"search_trend"`
	}{migration: migration(m), SearchTrend: struct{}{}}
	if m.SearchTrend != nil {
		out.SearchTrend = m.SearchTrend
	}
	return json.Marshal(out)
}

// MigrationReport wraps the migrations found for a keyword list.
type MigrationReport struct {
	KeywordsAnalyzed   int              `json:"keywords_analyzed"`
	MigrationsDetected int              `json:"migrations_detected"`
	Migrations         []TrendMigration `json:"migrations"`
}

// PlatformUniqueReport lists the unique keywords found for one platform.
type PlatformUniqueReport struct {
	Platform            kw.Platform     `json:"platform"`
	KeywordsAnalyzed    int             `json:"keywords_analyzed"`
	UniqueKeywordsFound int             `json:"unique_keywords_found"`
	Keywords            []UniqueKeyword `json:"keywords"`
}
