package analyzer

import (
	"fmt"
	"strings"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

const unknownUniquenessReason = "Platform-specific for unknown reasons"

// FindPlatformUnique returns the unique keyword when exactly one platform
// clears MinVolumeThreshold.
func FindPlatformUnique(k kw.CrossPlatformKeyword) (domain.UniqueKeyword, bool) {
	var active []kw.PlatformMetric
	for _, p := range k.OrderedPlatforms() {
		if m := k.Platforms[p]; m.Volume >= MinVolumeThreshold {
			active = append(active, m)
		}
	}
	if len(active) != 1 {
		return domain.UniqueKeyword{}, false
	}

	metric := active[0]
	category, reason := ClassifyPlatformUniqueness(k.Keyword, metric.Platform)
	return domain.UniqueKeyword{
		Keyword:            k.Keyword,
		Platform:           metric.Platform,
		Volume:             metric.Volume,
		UniquenessCategory: category,
		Reason:             reason,
	}, true
}

// ClassifyPlatformUniqueness explains why keyword might belong to platform.
func ClassifyPlatformUniqueness(keyword string, platform kw.Platform) (domain.UniquenessCategory, string) {
	if m, ok := matchPatterns(strings.ToLower(keyword), patternsFor(platform)); ok {
		return m.Category, fmt.Sprintf("Contains '%s' which is %s-specific", m.MatchedTerm, platform)
	}
	return domain.CategoryUnknown, unknownUniquenessReason
}

// ClassifyUniqueness tags the keyword against every platform pattern table,
// independent of volume.
func ClassifyUniqueness(keyword string) map[kw.Platform]domain.UniquenessMatch {
	lower := strings.ToLower(keyword)
	out := make(map[kw.Platform]domain.UniquenessMatch)
	for _, entry := range patternTable {
		if m, ok := matchPatterns(lower, entry.groups); ok {
			out[entry.platform] = m
		}
	}
	return out
}

func matchPatterns(lowerKeyword string, groups []patternGroup) (domain.UniquenessMatch, bool) {
	for _, g := range groups {
		for _, term := range g.terms {
			if strings.Contains(lowerKeyword, term) {
				return domain.UniquenessMatch{Category: g.category, MatchedTerm: term}, true
			}
		}
	}
	return domain.UniquenessMatch{}, false
}
