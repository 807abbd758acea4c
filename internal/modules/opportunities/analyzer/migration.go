package analyzer

import (
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

const (
	MigrationPattern        = "social_to_search_migration"
	migrationRecommendation = "Create SEO content now - this keyword is likely to grow on Google"
)

var (
	socialOrigins  = []kw.Platform{kw.PlatformTikTok, kw.PlatformInstagram}
	socialReported = []kw.Platform{kw.PlatformTikTok, kw.PlatformInstagram, kw.PlatformYouTube}
)

// DetectMigration flags keywords growing on TikTok or Instagram while Google
// demand is stable, declining or not yet measurable.
func DetectMigration(k kw.CrossPlatformKeyword) (domain.TrendMigration, bool) {
	trends := AnalyzeTrends(k)

	var origin kw.Platform
	for _, p := range socialOrigins {
		if t, ok := trends[p]; ok && t.Direction == kw.TrendGrowing {
			origin = p
			break
		}
	}
	if origin == "" {
		return domain.TrendMigration{}, false
	}

	search, hasSearch := trends[kw.PlatformGoogle]
	if hasSearch && search.Direction == kw.TrendGrowing {
		return domain.TrendMigration{}, false
	}

	social := make(map[kw.Platform]domain.TrendAnalysis)
	for _, p := range socialReported {
		if t, ok := trends[p]; ok {
			social[p] = t
		}
	}

	m := domain.TrendMigration{
		Keyword:             k.Keyword,
		OpportunityType:     domain.OpportunityTrendMigration,
		Pattern:             MigrationPattern,
		OriginPlatform:      origin,
		DestinationPlatform: kw.PlatformGoogle,
		SocialTrend:         social,
		Recommendation:      migrationRecommendation,
	}
	if hasSearch {
		m.SearchTrend = &search
	}
	return m, true
}
