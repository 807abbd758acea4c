package analyzer

import (
	"math"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

// AnalyzeTrends reports direction and growth rate for each platform with at
// least six trend points. Shorter trends are left out.
func AnalyzeTrends(k kw.CrossPlatformKeyword) map[kw.Platform]domain.TrendAnalysis {
	out := make(map[kw.Platform]domain.TrendAnalysis)
	for p, m := range k.Platforms {
		first, second, ok := kw.TrendHalves(m.Trend)
		if !ok {
			continue
		}
		growth := (second - first) / math.Max(first, 1) * 100
		out[p] = domain.TrendAnalysis{
			Direction:  kw.ClassifyTrend(first, second),
			GrowthRate: round1(growth),
		}
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
