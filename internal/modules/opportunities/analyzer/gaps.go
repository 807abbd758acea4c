package analyzer

import (
	"fmt"

	"github.com/dustin/go-humanize"
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

const (
	// MinVolumeThreshold is the monthly volume a platform needs before it
	// counts as having demand.
	MinVolumeThreshold int64 = 1000

	// GapRatioThreshold is the smallest high/low ratio reported as a gap.
	GapRatioThreshold = 5.0

	// ZeroCoverageRatio stands in for an infinite ratio when the low
	// platform has no volume at all.
	ZeroCoverageRatio = 999.0

	zeroCoverageScore = 95.0
	maxRatioScore     = 90.0
	ratioScoreBase    = 50.0
	ratioScoreFactor  = 2.0
)

// PlatformPair is an ordered (high, low) comparison.
type PlatformPair struct {
	High kw.Platform
	Low  kw.Platform
}

func (p PlatformPair) String() string {
	return string(p.High) + " → " + string(p.Low)
}

var strategicPairs = []PlatformPair{
	{kw.PlatformTikTok, kw.PlatformGoogle},
	{kw.PlatformInstagram, kw.PlatformGoogle},
	{kw.PlatformYouTube, kw.PlatformGoogle},
	{kw.PlatformTikTok, kw.PlatformYouTube},
	{kw.PlatformAmazon, kw.PlatformGoogle},
	{kw.PlatformPinterest, kw.PlatformGoogle},
}

// StrategicPairs returns the curated pairs gaps are reported for.
func StrategicPairs() []PlatformPair {
	out := make([]PlatformPair, len(strategicPairs))
	copy(out, strategicPairs)
	return out
}

// IsStrategic reports whether pair is one of the curated pairs.
func IsStrategic(pair PlatformPair) bool {
	for _, p := range strategicPairs {
		if p == pair {
			return true
		}
	}
	return false
}

// FindPlatformGaps returns one gap per strategic pair whose high side clears
// MinVolumeThreshold and whose ratio reaches GapRatioThreshold. Gaps follow
// the strategic pair order.
func FindPlatformGaps(k kw.CrossPlatformKeyword) []domain.PlatformGapOpportunity {
	var gaps []domain.PlatformGapOpportunity

	for _, pair := range strategicPairs {
		high, ok := k.Metric(pair.High)
		if !ok || high.Volume < MinVolumeThreshold {
			continue
		}
		lowVol := k.Volume(pair.Low)

		var ratio, score float64
		switch {
		case lowVol == 0:
			ratio = ZeroCoverageRatio
			score = zeroCoverageScore
		case float64(high.Volume)/float64(lowVol) >= GapRatioThreshold:
			ratio = float64(high.Volume) / float64(lowVol)
			score = min(maxRatioScore, ratioScoreBase+ratio*ratioScoreFactor)
		default:
			continue
		}

		gaps = append(gaps, domain.PlatformGapOpportunity{
			Keyword:            k.Keyword,
			OpportunityType:    domain.OpportunityPlatformGap,
			HighVolumePlatform: pair.High,
			HighVolume:         high.Volume,
			LowVolumePlatform:  pair.Low,
			LowVolume:          lowVol,
			VolumeRatio:        ratio,
			OpportunityScore:   score,
			Recommendation:     gapRecommendation(k.Keyword, pair, high.Volume, lowVol),
		})
	}

	return gaps
}

// FindGapsForPair restricts FindPlatformGaps to a single pair.
func FindGapsForPair(k kw.CrossPlatformKeyword, pair PlatformPair) []domain.PlatformGapOpportunity {
	var out []domain.PlatformGapOpportunity
	for _, g := range FindPlatformGaps(k) {
		if g.HighVolumePlatform == pair.High && g.LowVolumePlatform == pair.Low {
			out = append(out, g)
		}
	}
	return out
}

func gapRecommendation(keyword string, pair PlatformPair, highVol, lowVol int64) string {
	if lowVol == 0 {
		return fmt.Sprintf(
			"'%s' has %s monthly searches on %s but ZERO on %s. Create %s content to capture this untapped demand.",
			keyword, humanize.Comma(highVol), pair.High, pair.Low, pair.Low,
		)
	}
	ratio := float64(highVol) / float64(lowVol)
	return fmt.Sprintf(
		"'%s' has %.1fx more searches on %s (%s) vs %s (%s). Opportunity to expand %s presence.",
		keyword, ratio, pair.High, humanize.Comma(highVol), pair.Low, humanize.Comma(lowVol), pair.Low,
	)
}
