package domain

import "time"

// Coverage flag names.
const (
	CoverageMetaAds         = "meta_ads"
	CoverageGoogleAds       = "google_ads"
	CoverageTikTokAds       = "tiktok_ads"
	CoverageKeywordInMeta   = "keyword_in_meta"
	CoverageKeywordInGoogle = "keyword_in_google"
)

// BrandCoverageAudit compares one keyword's demand with the brand's ad
// presence.
type BrandCoverageAudit struct {
	BrandName          string           `json:"brand_name"`
	Keyword            string           `json:"keyword"`
	Demand             map[string]int64 `json:"demand"`
	Coverage           map[string]bool  `json:"coverage"`
	GapScore           float64          `json:"gap_score"`
	Recommendation     string           `json:"recommendation"`
	TotalDemand        int64            `json:"total_demand"`
	CoveredDemand      int64            `json:"covered_demand"`
	UncoveredPlatforms []string         `json:"uncovered_platforms"`
}

// CoverageReport is a stored brand audit over a keyword set.
type CoverageReport struct {
	ID                    string               `json:"id"`
	BrandName             string               `json:"brand_name"`
	BrandDomain           string               `json:"brand_domain"`
	GeneratedAt           time.Time            `json:"generated_at"`
	AdsByPlatform         map[AdPlatform]int   `json:"ads_by_platform"`
	KeywordAudits         []BrandCoverageAudit `json:"keyword_audits"`
	TotalKeywordsAnalyzed int                  `json:"total_keywords_analyzed"`
	KeywordsWithGaps      int                  `json:"keywords_with_gaps"`
	AverageGapScore       float64              `json:"average_gap_score"`
	TopOpportunities      []string             `json:"top_opportunities"`
}

// CoverageSummary is the demand versus ad presence overview of a brand.
type CoverageSummary struct {
	BrandDomain           string                `json:"brand_domain"`
	KeywordsAnalyzed      int                   `json:"keywords_analyzed"`
	AdPresence            map[AdPlatform]int    `json:"ad_presence"`
	TotalDemandByPlatform map[string]int64      `json:"total_demand_by_platform"`
	CoverageStatus        map[AdPlatform]string `json:"coverage_status"`
	TopDemandPlatform     *string               `json:"top_demand_platform"`
}

// PlatformAds is the per-platform slice of an all-libraries lookup.
type PlatformAds struct {
	Count int          `json:"count"`
	Ads   []AdCreative `json:"ads"`
}

// BrandAds aggregates every ad library for one brand.
type BrandAds struct {
	BrandDomain     string                     `json:"brand_domain"`
	TotalAds        int                        `json:"total_ads"`
	ByPlatform      map[AdPlatform]PlatformAds `json:"by_platform"`
	PlatformsActive []AdPlatform               `json:"platforms_active"`
}
