package auditor

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

func ptr[T any](v T) *T {
	return &v
}

func keyword(name string, volumes map[kw.Platform]int64) kw.CrossPlatformKeyword {
	var metrics []kw.PlatformMetric
	for p, v := range volumes {
		metrics = append(metrics, kw.NewPlatformMetric(p, v, nil))
	}
	return kw.NewCrossPlatformKeyword(name, metrics...)
}

func library(platform domain.AdPlatform, headlines ...string) domain.BrandAdLibrary {
	lib := domain.BrandAdLibrary{BrandName: "Optimum Nutrition", BrandDomain: "optimumnutrition.com"}
	for i, h := range headlines {
		lib.Ads = append(lib.Ads, domain.AdCreative{
			ID:       string(platform) + "_" + string(rune('a'+i)),
			Platform: platform,
			Headline: ptr(h),
		})
	}
	return lib
}

func TestAuditNamesUncoveredHighDemand(t *testing.T) {
	libs := Libraries{
		Meta:   library(domain.AdPlatformMeta, "Gold Standard Whey"),
		Google: library(domain.AdPlatformGoogle, "Vegan Protein Powder - Shop Now"),
	}
	k := keyword("vegan protein powder", map[kw.Platform]int64{
		kw.PlatformGoogle:  74000,
		kw.PlatformYouTube: 89000,
		kw.PlatformTikTok:  245000,
		kw.PlatformAmazon:  156000,
	})

	audit := Audit("optimumnutrition.com", k, libs)

	assert.Equal(t, int64(564000), audit.TotalDemand)
	assert.Equal(t, int64(74000), audit.CoveredDemand)
	assert.Equal(t, 86.9, audit.GapScore)
	assert.Equal(t, []string{"TikTok"}, audit.UncoveredPlatforms)
	assert.Equal(t, "High demand on TikTok (245,000) but no ad presence. Consider expanding paid coverage.", audit.Recommendation)
	assert.Equal(t, map[string]bool{
		domain.CoverageMetaAds:         true,
		domain.CoverageGoogleAds:       true,
		domain.CoverageTikTokAds:       false,
		domain.CoverageKeywordInMeta:   false,
		domain.CoverageKeywordInGoogle: true,
	}, audit.Coverage)
	assert.Equal(t, int64(245000), audit.Demand["tiktok"])
}

func TestAuditUncoveredOrder(t *testing.T) {
	k := keyword("haul", map[kw.Platform]int64{
		kw.PlatformInstagram: 30000,
		kw.PlatformGoogle:    12000,
		kw.PlatformTikTok:    1234567,
	})

	audit := Audit("brand.com", k, Libraries{})

	assert.Equal(t, []string{"TikTok", "Google", "Instagram"}, audit.UncoveredPlatforms)
	assert.Equal(t, "High demand on TikTok (1,234,567), Google (12,000), Instagram (30,000) but no ad presence. Consider expanding paid coverage.", audit.Recommendation)
	assert.Equal(t, 100.0, audit.GapScore)
}

func TestAuditRecommendations(t *testing.T) {
	tests := []struct {
		name     string
		volumes  map[kw.Platform]int64
		libs     Libraries
		wantGap  float64
		wantText string
	}{
		{
			name:     "partial coverage",
			volumes:  map[kw.Platform]int64{kw.PlatformGoogle: 5000, kw.PlatformYouTube: 20000, kw.PlatformTikTok: 8000},
			libs:     Libraries{Google: library(domain.AdPlatformGoogle, "ad")},
			wantGap:  84.8,
			wantText: "Partial coverage. 85% of demand is on platforms without ads.",
		},
		{
			name:     "good coverage",
			volumes:  map[kw.Platform]int64{kw.PlatformGoogle: 50000, kw.PlatformYouTube: 1000},
			libs:     Libraries{Google: library(domain.AdPlatformGoogle, "ad")},
			wantGap:  2.0,
			wantText: "Good coverage across high-demand platforms.",
		},
		{
			name:     "exactly thirty percent is still good",
			volumes:  map[kw.Platform]int64{kw.PlatformGoogle: 7000, kw.PlatformAmazon: 3000},
			libs:     Libraries{Google: library(domain.AdPlatformGoogle, "ad")},
			wantGap:  30.0,
			wantText: "Good coverage across high-demand platforms.",
		},
		{
			name:     "zero demand",
			volumes:  map[kw.Platform]int64{kw.PlatformGoogle: 0},
			wantGap:  0,
			wantText: "Good coverage across high-demand platforms.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			audit := Audit("brand.com", keyword("k", tt.volumes), tt.libs)
			assert.Equal(t, tt.wantGap, audit.GapScore)
			assert.Equal(t, tt.wantText, audit.Recommendation)
			assert.Empty(t, audit.UncoveredPlatforms)
			assert.GreaterOrEqual(t, audit.GapScore, 0.0)
			assert.LessOrEqual(t, audit.GapScore, 100.0)
		})
	}
}

// Meta ad presence covers the instagram demand key, and nothing else.
func TestAuditMetaCoversInstagramOnly(t *testing.T) {
	k := keyword("reels ideas", map[kw.Platform]int64{
		kw.PlatformInstagram: 40000,
		kw.PlatformYouTube:   40000,
	})

	withMeta := Audit("brand.com", k, Libraries{Meta: library(domain.AdPlatformMeta, "x")})
	assert.Equal(t, int64(40000), withMeta.CoveredDemand)
	assert.Equal(t, 50.0, withMeta.GapScore)
	assert.Empty(t, withMeta.UncoveredPlatforms)

	withoutMeta := Audit("brand.com", k, Libraries{})
	assert.Equal(t, int64(0), withoutMeta.CoveredDemand)
	assert.Equal(t, []string{"Instagram"}, withoutMeta.UncoveredPlatforms)
}

func TestAuditKeywordMatchIgnoresCase(t *testing.T) {
	libs := Libraries{
		Meta: domain.BrandAdLibrary{Ads: []domain.AdCreative{
			{ID: "m1", Platform: domain.AdPlatformMeta, BodyText: ptr("Try our WHEY PROTEIN today")},
		}},
	}
	audit := Audit("brand.com", keyword("Whey Protein", map[kw.Platform]int64{kw.PlatformGoogle: 1}), libs)
	assert.True(t, audit.Coverage[domain.CoverageKeywordInMeta])
	assert.False(t, audit.Coverage[domain.CoverageKeywordInGoogle])
}

func TestAuditAllSortsByGap(t *testing.T) {
	libs := Libraries{Google: library(domain.AdPlatformGoogle, "ad")}
	keywords := []kw.CrossPlatformKeyword{
		keyword("covered", map[kw.Platform]int64{kw.PlatformGoogle: 1000}),
		keyword("half", map[kw.Platform]int64{kw.PlatformGoogle: 1000, kw.PlatformAmazon: 1000}),
		keyword("open", map[kw.Platform]int64{kw.PlatformAmazon: 1000}),
		keyword("half too", map[kw.Platform]int64{kw.PlatformGoogle: 500, kw.PlatformAmazon: 500}),
	}

	audits := AuditAll("brand.com", keywords, libs)

	require.Len(t, audits, 4)
	var order []string
	for _, a := range audits {
		order = append(order, a.Keyword)
	}
	assert.Equal(t, []string{"open", "half", "half too", "covered"}, order)
}

func TestBuildReport(t *testing.T) {
	libs := Libraries{
		Meta:   library(domain.AdPlatformMeta, "a", "b"),
		Google: library(domain.AdPlatformGoogle, "c"),
	}
	var keywords []kw.CrossPlatformKeyword
	for _, name := range []string{"k1", "k2", "k3", "k4", "k5", "k6"} {
		keywords = append(keywords, keyword(name, map[kw.Platform]int64{kw.PlatformAmazon: 100}))
	}
	keywords = append(keywords, keyword("k7", map[kw.Platform]int64{kw.PlatformGoogle: 100}))
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	report := BuildReport("brand.com", AuditAll("brand.com", keywords, libs), libs, now)

	assert.Equal(t, "brand.com", report.BrandDomain)
	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, map[domain.AdPlatform]int{domain.AdPlatformMeta: 2, domain.AdPlatformTikTok: 0, domain.AdPlatformGoogle: 1}, report.AdsByPlatform)
	assert.Equal(t, 7, report.TotalKeywordsAnalyzed)
	assert.Equal(t, 6, report.KeywordsWithGaps)
	assert.InDelta(t, 600.0/7, report.AverageGapScore, 1e-9)
	assert.Equal(t, []string{"k1", "k2", "k3", "k4", "k5"}, report.TopOpportunities)
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport("brand.com", nil, Libraries{}, time.Now())

	assert.Equal(t, 0, report.TotalKeywordsAnalyzed)
	assert.Equal(t, 0.0, report.AverageGapScore)
	assert.NotNil(t, report.KeywordAudits)
	assert.NotNil(t, report.TopOpportunities)
}

func TestSummarize(t *testing.T) {
	libs := Libraries{TikTok: library(domain.AdPlatformTikTok, "x")}
	keywords := []kw.CrossPlatformKeyword{
		keyword("a", map[kw.Platform]int64{kw.PlatformGoogle: 100, kw.PlatformTikTok: 300}),
		keyword("b", map[kw.Platform]int64{kw.PlatformGoogle: 200}),
	}

	summary := Summarize("brand.com", keywords, libs)

	assert.Equal(t, 2, summary.KeywordsAnalyzed)
	assert.Equal(t, map[string]int64{"google": 300, "tiktok": 300}, summary.TotalDemandByPlatform)
	require.NotNil(t, summary.TopDemandPlatform)
	assert.Equal(t, "google", *summary.TopDemandPlatform, "ties go to the platform declared first")
	assert.Equal(t, "active", summary.CoverageStatus[domain.AdPlatformTikTok])
	assert.Equal(t, "none", summary.CoverageStatus[domain.AdPlatformMeta])
	assert.Equal(t, 1, summary.AdPresence[domain.AdPlatformTikTok])

	empty := Summarize("brand.com", nil, libs)
	assert.Nil(t, empty.TopDemandPlatform)

	raw, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"top_demand_platform":null`)
}

func TestAllAdsCapsPerPlatform(t *testing.T) {
	headlines := make([]string, 12)
	for i := range headlines {
		headlines[i] = "ad"
	}
	libs := Libraries{Meta: library(domain.AdPlatformMeta, headlines...)}

	all := AllAds("brand.com", libs, 10)

	assert.Equal(t, 12, all.TotalAds)
	assert.Equal(t, 12, all.ByPlatform[domain.AdPlatformMeta].Count)
	assert.Len(t, all.ByPlatform[domain.AdPlatformMeta].Ads, 10)
	assert.NotNil(t, all.ByPlatform[domain.AdPlatformGoogle].Ads)
	assert.Equal(t, []domain.AdPlatform{domain.AdPlatformMeta}, all.PlatformsActive)
}
