package analyzer

import (
	"sort"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

const (
	// ReportGapLimit caps the gaps carried in a report payload.
	ReportGapLimit = 50

	topGapTypes        = 5
	topKeywordsInBrief = 5
)

// BuildReport analyzes keywords as one batch. Gaps are ranked by score with
// ties kept in input order; summary statistics use the full gap list even
// though the payload is truncated to ReportGapLimit.
func (a *Analyzer) BuildReport(keywords []kw.CrossPlatformKeyword) domain.OpportunityReport {
	var gaps []domain.PlatformGapOpportunity
	unique := make(map[kw.Platform][]domain.UniqueKeyword, len(kw.Platforms()))
	for _, p := range kw.Platforms() {
		unique[p] = []domain.UniqueKeyword{}
	}

	for _, k := range keywords {
		gaps = append(gaps, FindPlatformGaps(k)...)
		if u, ok := FindPlatformUnique(k); ok {
			unique[u.Platform] = append(unique[u.Platform], u)
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].OpportunityScore > gaps[j].OpportunityScore
	})

	payload := make([]domain.PlatformGapOpportunity, min(len(gaps), ReportGapLimit))
	copy(payload, gaps)

	seed := ""
	if len(keywords) > 0 {
		seed = keywords[0].Keyword
	}

	return domain.OpportunityReport{
		SeedKeyword:           seed,
		AnalyzedAt:            a.now(),
		TotalKeywordsAnalyzed: len(keywords),
		PlatformGaps:          payload,
		UniqueKeywords:        unique,
		Summary:               summarize(keywords, gaps),
	}
}

// summarize expects gaps already sorted by descending score.
func summarize(keywords []kw.CrossPlatformKeyword, gaps []domain.PlatformGapOpportunity) domain.OpportunitySummary {
	var total int64
	distribution := make(map[kw.Platform]int)
	for _, k := range keywords {
		total += k.TotalVolume()
		if p, ok := k.PrimaryPlatform(); ok {
			distribution[p]++
		}
	}

	highest := make([]string, 0, topKeywordsInBrief)
	for _, g := range gaps[:min(len(gaps), topKeywordsInBrief)] {
		highest = append(highest, g.Keyword)
	}

	var average float64
	if len(gaps) > 0 {
		var sum float64
		for _, g := range gaps {
			sum += g.OpportunityScore
		}
		average = sum / float64(len(gaps))
	}

	return domain.OpportunitySummary{
		TotalSearchVolumeAnalyzed:   total,
		GapOpportunitiesFound:       len(gaps),
		TopGapTypes:                 countGapTypes(gaps),
		PrimaryPlatformDistribution: distribution,
		HighestOpportunityKeywords:  highest,
		AverageOpportunityScore:     average,
	}
}

// countGapTypes ranks pair labels by count. Equal counts keep the order in
// which the pair first appeared.
func countGapTypes(gaps []domain.PlatformGapOpportunity) []domain.GapTypeCount {
	counts := []domain.GapTypeCount{}
	index := make(map[string]int)
	for _, g := range gaps {
		label := g.PairLabel()
		i, ok := index[label]
		if !ok {
			i = len(counts)
			index[label] = i
			counts = append(counts, domain.GapTypeCount{Pair: label})
		}
		counts[i].Count++
	}

	sort.SliceStable(counts, func(i, j int) bool {
		return counts[i].Count > counts[j].Count
	})
	return counts[:min(len(counts), topGapTypes)]
}
