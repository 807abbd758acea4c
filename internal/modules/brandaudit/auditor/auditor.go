// Package auditor cross-references keyword demand with a brand's ad
// presence. Every function is pure.
package auditor

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

const (
	// HighDemandThreshold is the volume above which an uncovered platform
	// is named in the recommendation.
	HighDemandThreshold = 10000

	// PartialCoverageThreshold is the gap score above which the
	// recommendation reports the uncovered share.
	PartialCoverageThreshold = 30.0

	// GapKeywordThreshold counts a keyword as having a gap in reports.
	GapKeywordThreshold = 50.0

	TopOpportunityCount = 5
)

// Libraries holds the brand's ad library of each ad platform.
type Libraries struct {
	Meta   domain.BrandAdLibrary
	TikTok domain.BrandAdLibrary
	Google domain.BrandAdLibrary
}

// Get returns the library of one ad platform.
func (l Libraries) Get(p domain.AdPlatform) domain.BrandAdLibrary {
	switch p {
	case domain.AdPlatformMeta:
		return l.Meta
	case domain.AdPlatformTikTok:
		return l.TikTok
	default:
		return l.Google
	}
}

// demandRule ties a demand platform to the ad library that covers it.
// Meta ads cover Instagram demand.
type demandRule struct {
	label    string
	platform kw.Platform
	ads      domain.AdPlatform
}

// demandRules is ordered: uncovered platforms are listed in this order.
var demandRules = []demandRule{
	{label: "TikTok", platform: kw.PlatformTikTok, ads: domain.AdPlatformTikTok},
	{label: "Google", platform: kw.PlatformGoogle, ads: domain.AdPlatformGoogle},
	{label: "Instagram", platform: kw.PlatformInstagram, ads: domain.AdPlatformMeta},
}

// Audit scores how much of one keyword's demand sits on platforms where the
// brand runs no ads.
func Audit(brand string, keyword kw.CrossPlatformKeyword, libs Libraries) domain.BrandCoverageAudit {
	demand := make(map[string]int64, len(keyword.Platforms))
	for p, m := range keyword.Platforms {
		demand[p.String()] = m.Volume
	}
	total := keyword.TotalVolume()

	coverage := map[string]bool{
		domain.CoverageMetaAds:         libs.Meta.HasAds(),
		domain.CoverageGoogleAds:       libs.Google.HasAds(),
		domain.CoverageTikTokAds:       libs.TikTok.HasAds(),
		domain.CoverageKeywordInMeta:   mentioned(libs.Meta, keyword.Keyword),
		domain.CoverageKeywordInGoogle: mentioned(libs.Google, keyword.Keyword),
	}

	var covered int64
	var uncovered, labels []string
	for _, rule := range demandRules {
		volume := keyword.Volume(rule.platform)
		if libs.Get(rule.ads).HasAds() {
			covered += volume
			continue
		}
		if volume > HighDemandThreshold {
			uncovered = append(uncovered, fmt.Sprintf("%s (%s)", rule.label, humanize.Comma(volume)))
			labels = append(labels, rule.label)
		}
	}

	rawGap := float64(total-covered) / float64(max(total, 1)) * 100
	gap := math.Round(rawGap*10) / 10
	gap = min(max(gap, 0), 100)

	if labels == nil {
		labels = []string{}
	}

	return domain.BrandCoverageAudit{
		BrandName:          brand,
		Keyword:            keyword.Keyword,
		Demand:             demand,
		Coverage:           coverage,
		GapScore:           gap,
		Recommendation:     recommend(uncovered, rawGap),
		TotalDemand:        total,
		CoveredDemand:      covered,
		UncoveredPlatforms: labels,
	}
}

func mentioned(lib domain.BrandAdLibrary, keyword string) bool {
	return slices.ContainsFunc(lib.Ads, func(ad domain.AdCreative) bool {
		return ad.Mentions(keyword)
	})
}

func recommend(uncovered []string, gap float64) string {
	switch {
	case len(uncovered) > 0:
		return fmt.Sprintf("High demand on %s but no ad presence. Consider expanding paid coverage.", strings.Join(uncovered, ", "))
	case gap > PartialCoverageThreshold:
		return fmt.Sprintf("Partial coverage. %.0f%% of demand is on platforms without ads.", gap)
	default:
		return "Good coverage across high-demand platforms."
	}
}

// AuditAll audits every keyword and sorts the result by gap score,
// highest first. Equal scores keep input order.
func AuditAll(brand string, keywords []kw.CrossPlatformKeyword, libs Libraries) []domain.BrandCoverageAudit {
	audits := make([]domain.BrandCoverageAudit, 0, len(keywords))
	for _, k := range keywords {
		audits = append(audits, Audit(brand, k, libs))
	}
	slices.SortStableFunc(audits, func(a, b domain.BrandCoverageAudit) int {
		return cmp.Compare(b.GapScore, a.GapScore)
	})
	return audits
}

// BuildReport summarizes sorted audits into a coverage report.
func BuildReport(brandDomain string, audits []domain.BrandCoverageAudit, libs Libraries, now time.Time) domain.CoverageReport {
	report := domain.CoverageReport{
		BrandName:             brandDomain,
		BrandDomain:           brandDomain,
		GeneratedAt:           now,
		AdsByPlatform:         adCounts(libs),
		KeywordAudits:         audits,
		TotalKeywordsAnalyzed: len(audits),
		TopOpportunities:      []string{},
	}
	if report.KeywordAudits == nil {
		report.KeywordAudits = []domain.BrandCoverageAudit{}
	}
	if len(audits) == 0 {
		return report
	}

	var sum float64
	for _, a := range audits {
		sum += a.GapScore
		if a.GapScore > GapKeywordThreshold {
			report.KeywordsWithGaps++
		}
	}
	report.AverageGapScore = sum / float64(len(audits))

	ranked := slices.Clone(audits)
	slices.SortStableFunc(ranked, func(a, b domain.BrandCoverageAudit) int {
		return cmp.Compare(b.GapScore, a.GapScore)
	})
	for _, a := range ranked[:min(TopOpportunityCount, len(ranked))] {
		report.TopOpportunities = append(report.TopOpportunities, a.Keyword)
	}
	return report
}

// Summarize totals demand per platform across keywords and reports which
// ad libraries are active. The top demand platform breaks ties by platform
// declaration order and is nil when no keyword has data.
func Summarize(brandDomain string, keywords []kw.CrossPlatformKeyword, libs Libraries) domain.CoverageSummary {
	totals := map[string]int64{}
	for _, k := range keywords {
		for p, m := range k.Platforms {
			totals[p.String()] += m.Volume
		}
	}

	var top *string
	best := int64(math.MinInt64)
	for _, p := range kw.Platforms() {
		v, ok := totals[p.String()]
		if ok && v > best {
			best = v
			name := p.String()
			top = &name
		}
	}

	status := make(map[domain.AdPlatform]string, 3)
	for _, p := range domain.AdPlatforms() {
		status[p] = "none"
		if libs.Get(p).HasAds() {
			status[p] = "active"
		}
	}

	return domain.CoverageSummary{
		BrandDomain:           brandDomain,
		KeywordsAnalyzed:      len(keywords),
		AdPresence:            adCounts(libs),
		TotalDemandByPlatform: totals,
		CoverageStatus:        status,
		TopDemandPlatform:     top,
	}
}

// AllAds merges the libraries, keeping at most perPlatform ads of each.
func AllAds(brandDomain string, libs Libraries, perPlatform int) domain.BrandAds {
	out := domain.BrandAds{
		BrandDomain:     brandDomain,
		ByPlatform:      make(map[domain.AdPlatform]domain.PlatformAds, 3),
		PlatformsActive: []domain.AdPlatform{},
	}
	for _, p := range domain.AdPlatforms() {
		lib := libs.Get(p)
		ads := lib.Ads
		if len(ads) > perPlatform {
			ads = ads[:perPlatform]
		}
		if ads == nil {
			ads = []domain.AdCreative{}
		}
		out.ByPlatform[p] = domain.PlatformAds{Count: lib.TotalAds(), Ads: ads}
		out.TotalAds += lib.TotalAds()
		if lib.HasAds() {
			out.PlatformsActive = append(out.PlatformsActive, p)
		}
	}
	return out
}

func adCounts(libs Libraries) map[domain.AdPlatform]int {
	counts := make(map[domain.AdPlatform]int, 3)
	for _, p := range domain.AdPlatforms() {
		counts[p] = libs.Get(p).TotalAds()
	}
	return counts
}
