package analyzer

import (
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

const (
	maxOpportunityScore = 100.0
	gapScoreWeight      = 0.5
	trendBonus          = 10.0
	trendBonusMinPoints = 12
	trendBonusGrowth    = 1.2
)

var volumeTiers = []struct {
	above int64
	bonus float64
}{
	{1_000_000, 30},
	{100_000, 20},
	{10_000, 10},
}

// OpportunityScore combines volume tier, strongest gap and year-over-year
// growth into a 0-100 score.
func OpportunityScore(k kw.CrossPlatformKeyword, gaps []domain.PlatformGapOpportunity) float64 {
	var score float64

	total := k.TotalVolume()
	for _, tier := range volumeTiers {
		if total > tier.above {
			score += tier.bonus
			break
		}
	}

	if len(gaps) > 0 {
		best := gaps[0].OpportunityScore
		for _, g := range gaps[1:] {
			best = max(best, g.OpportunityScore)
		}
		score += best * gapScoreWeight
	}

	for _, m := range k.Platforms {
		if len(m.Trend) >= trendBonusMinPoints && float64(m.Trend[len(m.Trend)-1]) > float64(m.Trend[0])*trendBonusGrowth {
			score += trendBonus
			break
		}
	}

	return min(maxOpportunityScore, score)
}
