package analyzer

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

func keyword(name string, volumes map[kw.Platform]int64) kw.CrossPlatformKeyword {
	metrics := make([]kw.PlatformMetric, 0, len(volumes))
	for p, v := range volumes {
		metrics = append(metrics, kw.NewPlatformMetric(p, v, nil))
	}
	return kw.NewCrossPlatformKeyword(name, metrics...)
}

func flatTrend(first, second int64) []int64 {
	trend := make([]int64, 12)
	for i := range trend {
		if i < 6 {
			trend[i] = first
		} else {
			trend[i] = second
		}
	}
	return trend
}

func findGap(gaps []domain.PlatformGapOpportunity, high, low kw.Platform) (domain.PlatformGapOpportunity, bool) {
	for _, g := range gaps {
		if g.HighVolumePlatform == high && g.LowVolumePlatform == low {
			return g, true
		}
	}
	return domain.PlatformGapOpportunity{}, false
}

func TestFindPlatformGapsRatioClamped(t *testing.T) {
	k := keyword("grwm protein shake", map[kw.Platform]int64{
		kw.PlatformTikTok: 340000,
		kw.PlatformGoogle: 2400,
	})

	gaps := FindPlatformGaps(k)

	g, ok := findGap(gaps, kw.PlatformTikTok, kw.PlatformGoogle)
	require.True(t, ok, "tiktok → google gap missing")
	assert.Equal(t, int64(340000), g.HighVolume)
	assert.Equal(t, int64(2400), g.LowVolume)
	assert.InDelta(t, 141.6667, g.VolumeRatio, 0.001)
	assert.Equal(t, 90.0, g.OpportunityScore)
	assert.Equal(t, domain.OpportunityPlatformGap, g.OpportunityType)
	assert.Equal(t,
		"'grwm protein shake' has 141.7x more searches on tiktok (340,000) vs google (2,400). Opportunity to expand google presence.",
		g.Recommendation)

	// youtube is absent, so tiktok → youtube is a zero-coverage gap.
	z, ok := findGap(gaps, kw.PlatformTikTok, kw.PlatformYouTube)
	require.True(t, ok, "tiktok → youtube gap missing")
	assert.Equal(t, ZeroCoverageRatio, z.VolumeRatio)
	assert.Equal(t, 95.0, z.OpportunityScore)
	assert.Len(t, gaps, 2)
}

func TestFindPlatformGapsZeroCoverage(t *testing.T) {
	k := keyword("mob wife makeup", map[kw.Platform]int64{
		kw.PlatformInstagram: 12000,
		kw.PlatformGoogle:    0,
	})

	gaps := FindPlatformGaps(k)
	require.Len(t, gaps, 1)
	assert.Equal(t, kw.PlatformInstagram, gaps[0].HighVolumePlatform)
	assert.Equal(t, 95.0, gaps[0].OpportunityScore)
	assert.Equal(t,
		"'mob wife makeup' has 12,000 monthly searches on instagram but ZERO on google. Create google content to capture this untapped demand.",
		gaps[0].Recommendation)
}

func TestFindPlatformGapsThresholds(t *testing.T) {
	tests := []struct {
		name      string
		volumes   map[kw.Platform]int64
		wantGaps  int
		wantScore float64
	}{
		{
			name:     "high side below volume floor",
			volumes:  map[kw.Platform]int64{kw.PlatformAmazon: 999},
			wantGaps: 0,
		},
		{
			name:     "ratio below threshold",
			volumes:  map[kw.Platform]int64{kw.PlatformAmazon: 4900, kw.PlatformGoogle: 1000},
			wantGaps: 0,
		},
		{
			name:      "ratio exactly at threshold",
			volumes:   map[kw.Platform]int64{kw.PlatformAmazon: 5000, kw.PlatformGoogle: 1000},
			wantGaps:  1,
			wantScore: 60,
		},
		{
			name:     "non strategic pair ignored",
			volumes:  map[kw.Platform]int64{kw.PlatformEtsy: 900000, kw.PlatformGoogle: 10},
			wantGaps: 0,
		},
		{
			name:     "empty keyword",
			volumes:  map[kw.Platform]int64{},
			wantGaps: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gaps := FindPlatformGaps(keyword("kw", tt.volumes))
			require.Len(t, gaps, tt.wantGaps)
			if tt.wantGaps > 0 {
				assert.Equal(t, tt.wantScore, gaps[0].OpportunityScore)
			}
			for _, g := range gaps {
				assert.GreaterOrEqual(t, g.OpportunityScore, 0.0)
				assert.LessOrEqual(t, g.OpportunityScore, 100.0)
				assert.True(t, IsStrategic(PlatformPair{g.HighVolumePlatform, g.LowVolumePlatform}))
			}
		})
	}
}

func TestFindGapsForPair(t *testing.T) {
	k := keyword("kw", map[kw.Platform]int64{kw.PlatformTikTok: 50000, kw.PlatformGoogle: 100})
	gaps := FindGapsForPair(k, PlatformPair{kw.PlatformTikTok, kw.PlatformYouTube})
	require.Len(t, gaps, 1)
	assert.Equal(t, kw.PlatformYouTube, gaps[0].LowVolumePlatform)
}

func TestFindPlatformUnique(t *testing.T) {
	tests := []struct {
		name         string
		keyword      string
		volumes      map[kw.Platform]int64
		wantOK       bool
		wantPlatform kw.Platform
		wantCategory domain.UniquenessCategory
		wantReason   string
	}{
		{
			name:         "single platform with format term",
			keyword:      "grwm morning routine",
			volumes:      map[kw.Platform]int64{kw.PlatformTikTok: 500000},
			wantOK:       true,
			wantPlatform: kw.PlatformTikTok,
			wantCategory: domain.CategoryFormatDriven,
			wantReason:   "Contains 'grwm' which is tiktok-specific",
		},
		{
			name:         "others below floor still unique",
			keyword:      "Pinterest Moodboard Ideas",
			volumes:      map[kw.Platform]int64{kw.PlatformPinterest: 8000, kw.PlatformGoogle: 999},
			wantOK:       true,
			wantPlatform: kw.PlatformPinterest,
			wantCategory: domain.CategoryFormatDriven,
			wantReason:   "Contains 'pin' which is pinterest-specific",
		},
		{
			name:         "no pattern matches",
			keyword:      "protein powder",
			volumes:      map[kw.Platform]int64{kw.PlatformAmazon: 40000},
			wantOK:       true,
			wantPlatform: kw.PlatformAmazon,
			wantCategory: domain.CategoryUnknown,
			wantReason:   "Platform-specific for unknown reasons",
		},
		{
			name:    "two platforms above floor",
			keyword: "grwm",
			volumes: map[kw.Platform]int64{kw.PlatformTikTok: 5000, kw.PlatformGoogle: 5000},
		},
		{
			name:    "nothing above floor",
			keyword: "grwm",
			volumes: map[kw.Platform]int64{kw.PlatformTikTok: 10},
		},
		{
			name:    "empty",
			keyword: "grwm",
			volumes: map[kw.Platform]int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, ok := FindPlatformUnique(keyword(tt.keyword, tt.volumes))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantPlatform, u.Platform)
			assert.Equal(t, tt.wantCategory, u.UniquenessCategory)
			assert.Equal(t, tt.wantReason, u.Reason)
			assert.Equal(t, tt.volumes[tt.wantPlatform], u.Volume)
		})
	}
}

func TestClassifyUniqueness(t *testing.T) {
	got := ClassifyUniqueness("GRWM morning routine")
	require.Contains(t, got, kw.PlatformTikTok)
	assert.Equal(t, domain.UniquenessMatch{Category: domain.CategoryFormatDriven, MatchedTerm: "grwm"}, got[kw.PlatformTikTok])
	assert.Len(t, got, 1)

	// "aesthetic" is listed for several platforms under different categories.
	multi := ClassifyUniqueness("aesthetic room")
	assert.Equal(t, domain.CategoryAudienceSpecific, multi[kw.PlatformTikTok].Category)
	assert.Equal(t, domain.CategoryPlatformSlang, multi[kw.PlatformInstagram].Category)
	assert.Equal(t, domain.CategoryPlatformSlang, multi[kw.PlatformPinterest].Category)

	// First matching category wins within a platform.
	first := ClassifyUniqueness("tutorial like and subscribe")
	assert.Equal(t, domain.UniquenessMatch{Category: domain.CategoryFormatDriven, MatchedTerm: "tutorial"}, first[kw.PlatformYouTube])

	assert.Empty(t, ClassifyUniqueness("whey"))
}

func TestAnalyzeTrends(t *testing.T) {
	k := kw.NewCrossPlatformKeyword("kw",
		kw.NewPlatformMetric(kw.PlatformTikTok, 5000, flatTrend(100, 150)),
		kw.NewPlatformMetric(kw.PlatformGoogle, 5000, flatTrend(200, 100)),
		kw.NewPlatformMetric(kw.PlatformYouTube, 5000, []int64{1, 2, 3, 4, 5}),
		kw.NewPlatformMetric(kw.PlatformAmazon, 5000, []int64{0, 0, 0, 0, 0, 0, 3}),
	)

	trends := AnalyzeTrends(k)

	assert.NotContains(t, trends, kw.PlatformYouTube)
	assert.Equal(t, domain.TrendAnalysis{Direction: kw.TrendGrowing, GrowthRate: 50.0}, trends[kw.PlatformTikTok])
	assert.Equal(t, domain.TrendAnalysis{Direction: kw.TrendDeclining, GrowthRate: -50.0}, trends[kw.PlatformGoogle])
	// first mean is 0, so the growth denominator floors at 1.
	assert.Equal(t, domain.TrendAnalysis{Direction: kw.TrendGrowing, GrowthRate: 300.0}, trends[kw.PlatformAmazon])
}

func TestOpportunityScore(t *testing.T) {
	tests := []struct {
		name    string
		metrics []kw.PlatformMetric
		want    float64
	}{
		{
			name:    "small volume, no gaps",
			metrics: []kw.PlatformMetric{kw.NewPlatformMetric(kw.PlatformGoogle, 5000, nil)},
			want:    0,
		},
		{
			name:    "mid tier volume",
			metrics: []kw.PlatformMetric{kw.NewPlatformMetric(kw.PlatformGoogle, 10001, nil)},
			want:    10,
		},
		{
			name: "large volume with clamped gap and growth",
			metrics: []kw.PlatformMetric{
				kw.NewPlatformMetric(kw.PlatformTikTok, 1_500_000, flatTrend(100, 130)),
				kw.NewPlatformMetric(kw.PlatformYouTube, 1_000_000, nil),
				kw.NewPlatformMetric(kw.PlatformGoogle, 10_000, nil),
			},
			// 30 volume + 90*0.5 gap + 10 growth
			want: 85,
		},
		{
			name: "growth needs twelve points",
			metrics: []kw.PlatformMetric{
				kw.NewPlatformMetric(kw.PlatformGoogle, 200_000, []int64{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 5}),
			},
			want: 20,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := kw.NewCrossPlatformKeyword("kw", tt.metrics...)
			got := OpportunityScore(k, FindPlatformGaps(k))
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.LessOrEqual(t, got, 100.0)
		})
	}
}

func TestAnalyzeKeyword(t *testing.T) {
	k := kw.NewCrossPlatformKeyword("grwm protein shake",
		kw.NewPlatformMetric(kw.PlatformTikTok, 340000, flatTrend(20000, 40000)),
		kw.NewPlatformMetric(kw.PlatformGoogle, 2400, flatTrend(200, 200)),
	)

	a := New()
	got := a.AnalyzeKeyword(k)

	assert.Equal(t, "grwm protein shake", got.Keyword)
	assert.Equal(t, int64(342400), got.TotalVolume)
	require.NotNil(t, got.PrimaryPlatform)
	assert.Equal(t, kw.PlatformTikTok, *got.PrimaryPlatform)
	assert.Equal(t, kw.TrendGrowing, got.Platforms[kw.PlatformTikTok].TrendDirection)
	assert.Len(t, got.PlatformGaps, 2)
	assert.Contains(t, got.UniquenessClassification, kw.PlatformTikTok)
	assert.Contains(t, got.TrendAnalysis, kw.PlatformGoogle)
	// 20 volume + 95*0.5 gap + 10 growth
	assert.InDelta(t, 77.5, got.OpportunityScore, 1e-9)

	first, err := json.Marshal(got)
	require.NoError(t, err)
	second, err := json.Marshal(a.AnalyzeKeyword(k))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))
}

func TestAnalyzeKeywordEmpty(t *testing.T) {
	got := New().AnalyzeKeyword(kw.NewCrossPlatformKeyword("nothing"))

	assert.Zero(t, got.TotalVolume)
	assert.Nil(t, got.PrimaryPlatform)
	assert.Empty(t, got.PlatformGaps)
	assert.Empty(t, got.TrendAnalysis)
	_, unique := FindPlatformUnique(kw.NewCrossPlatformKeyword("nothing"))
	assert.False(t, unique)
}

func TestBuildReport(t *testing.T) {
	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	a := New(WithClock(func() time.Time { return at }))

	keywords := []kw.CrossPlatformKeyword{
		keyword("whey protein", map[kw.Platform]int64{kw.PlatformAmazon: 60000, kw.PlatformGoogle: 6000}),
		keyword("grwm gym", map[kw.Platform]int64{kw.PlatformTikTok: 80000, kw.PlatformYouTube: 5000, kw.PlatformGoogle: 5000}),
		keyword("protein haul", map[kw.Platform]int64{kw.PlatformYouTube: 30000, kw.PlatformGoogle: 0}),
	}

	report := a.BuildReport(keywords)

	assert.Equal(t, "whey protein", report.SeedKeyword)
	assert.Equal(t, at, report.AnalyzedAt)
	assert.Equal(t, 3, report.TotalKeywordsAnalyzed)

	require.Len(t, report.PlatformGaps, 4)
	// protein haul (95) outranks grwm gym tiktok → google (82) and
	// tiktok → youtube (82, later in input order), then whey protein (70).
	assert.Equal(t, "protein haul", report.PlatformGaps[0].Keyword)
	assert.Equal(t, kw.PlatformGoogle, report.PlatformGaps[1].LowVolumePlatform)
	assert.Equal(t, kw.PlatformYouTube, report.PlatformGaps[2].LowVolumePlatform)
	assert.Equal(t, "whey protein", report.PlatformGaps[3].Keyword)

	assert.Len(t, report.UniqueKeywords, len(kw.Platforms()))
	require.Len(t, report.UniqueKeywords[kw.PlatformYouTube], 1)
	assert.Equal(t, "protein haul", report.UniqueKeywords[kw.PlatformYouTube][0].Keyword)
	assert.Empty(t, report.UniqueKeywords[kw.PlatformTikTok])

	s := report.Summary
	assert.Equal(t, int64(186000), s.TotalSearchVolumeAnalyzed)
	assert.Equal(t, 4, s.GapOpportunitiesFound)
	assert.Equal(t, []string{"protein haul", "grwm gym", "grwm gym", "whey protein"}, s.HighestOpportunityKeywords)
	assert.InDelta(t, (95.0+82+82+70)/4, s.AverageOpportunityScore, 1e-9)
	assert.Equal(t, map[kw.Platform]int{kw.PlatformAmazon: 1, kw.PlatformTikTok: 1, kw.PlatformYouTube: 1}, s.PrimaryPlatformDistribution)
	assert.Equal(t, []domain.GapTypeCount{
		{Pair: "youtube → google", Count: 1},
		{Pair: "tiktok → google", Count: 1},
		{Pair: "tiktok → youtube", Count: 1},
		{Pair: "amazon → google", Count: 1},
	}, s.TopGapTypes)
}

func TestBuildReportTruncatesGaps(t *testing.T) {
	keywords := make([]kw.CrossPlatformKeyword, 0, 30)
	for i := 0; i < 30; i++ {
		keywords = append(keywords, keyword(fmt.Sprintf("fyp trend %d", i), map[kw.Platform]int64{kw.PlatformTikTok: 5000}))
	}
	// one weaker gap at the end must still count in the average
	keywords = append(keywords, keyword("whey", map[kw.Platform]int64{kw.PlatformAmazon: 5000, kw.PlatformGoogle: 1000}))

	report := New().BuildReport(keywords)

	assert.Len(t, report.PlatformGaps, ReportGapLimit)
	assert.Equal(t, 61, report.Summary.GapOpportunitiesFound)
	assert.InDelta(t, (60*95.0+60)/61, report.Summary.AverageOpportunityScore, 1e-9)
	assert.Len(t, report.UniqueKeywords[kw.PlatformTikTok], 30)
	assert.Len(t, report.Summary.HighestOpportunityKeywords, 5)
	require.Len(t, report.Summary.TopGapTypes, 3)
	assert.Equal(t, domain.GapTypeCount{Pair: "tiktok → google", Count: 30}, report.Summary.TopGapTypes[0])
	assert.Equal(t, domain.GapTypeCount{Pair: "tiktok → youtube", Count: 30}, report.Summary.TopGapTypes[1])
}

func TestBuildReportEmpty(t *testing.T) {
	report := New().BuildReport(nil)

	assert.Equal(t, "", report.SeedKeyword)
	assert.Empty(t, report.PlatformGaps)
	assert.Zero(t, report.Summary.AverageOpportunityScore)
	assert.Empty(t, report.Summary.TopGapTypes)
	assert.Empty(t, report.Summary.HighestOpportunityKeywords)
}

func TestDetectMigration(t *testing.T) {
	tests := []struct {
		name       string
		metrics    []kw.PlatformMetric
		wantOK     bool
		wantOrigin kw.Platform
		wantSearch bool
	}{
		{
			name: "tiktok growing, google stable",
			metrics: []kw.PlatformMetric{
				kw.NewPlatformMetric(kw.PlatformTikTok, 9000, flatTrend(100, 300)),
				kw.NewPlatformMetric(kw.PlatformGoogle, 9000, flatTrend(100, 100)),
			},
			wantOK:     true,
			wantOrigin: kw.PlatformTikTok,
			wantSearch: true,
		},
		{
			name: "instagram growing, google absent",
			metrics: []kw.PlatformMetric{
				kw.NewPlatformMetric(kw.PlatformInstagram, 9000, flatTrend(100, 300)),
			},
			wantOK:     true,
			wantOrigin: kw.PlatformInstagram,
		},
		{
			name: "google already growing",
			metrics: []kw.PlatformMetric{
				kw.NewPlatformMetric(kw.PlatformTikTok, 9000, flatTrend(100, 300)),
				kw.NewPlatformMetric(kw.PlatformGoogle, 9000, flatTrend(100, 300)),
			},
		},
		{
			name: "social flat",
			metrics: []kw.PlatformMetric{
				kw.NewPlatformMetric(kw.PlatformTikTok, 9000, flatTrend(100, 100)),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, ok := DetectMigration(kw.NewCrossPlatformKeyword("kw", tt.metrics...))
			require.Equal(t, tt.wantOK, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantOrigin, m.OriginPlatform)
			assert.Equal(t, MigrationPattern, m.Pattern)
			assert.Equal(t, tt.wantSearch, m.SearchTrend != nil)
			assert.Contains(t, m.SocialTrend, tt.wantOrigin)
		})
	}
}
