package analyzer

import (
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

// patternGroup is one uniqueness category with its terms. Order matters:
// the first group, then the first term within it, wins.
type patternGroup struct {
	category domain.UniquenessCategory
	terms    []string
}

type platformPatterns struct {
	platform kw.Platform
	groups   []patternGroup
}

var patternTable = []platformPatterns{
	{
		platform: kw.PlatformTikTok,
		groups: []patternGroup{
			{domain.CategoryFormatDriven, []string{"grwm", "pov", "storytime", "ib", "fyp", "greenscreen", "duet", "stitch", "transition", "asmr"}},
			{domain.CategoryPlatformSlang, []string{"viral", "trending", "blew up", "went viral", "for you", "foryoupage", "tiktok made me"}},
			{domain.CategoryAudienceSpecific, []string{"gen z", "aesthetic", "vibe", "core", "coded", "that girl", "clean girl", "mob wife"}},
		},
	},
	{
		platform: kw.PlatformInstagram,
		groups: []patternGroup{
			{domain.CategoryFormatDriven, []string{"reels", "carousel", "story", "feed", "collab"}},
			{domain.CategoryPlatformSlang, []string{"inspo", "ootd", "aesthetic", "flatlay"}},
			{domain.CategoryAudienceSpecific, []string{"influencer", "creator", "ugc"}},
		},
	},
	{
		platform: kw.PlatformYouTube,
		groups: []patternGroup{
			{domain.CategoryFormatDriven, []string{"tutorial", "review", "unboxing", "haul", "vlog", "how to", "compilation", "reaction", "explained"}},
			{domain.CategoryPlatformSlang, []string{"subscribe", "like and subscribe", "watch time"}},
			{domain.CategoryAudienceSpecific, nil},
		},
	},
	{
		platform: kw.PlatformAmazon,
		groups: []patternGroup{
			{domain.CategoryFormatDriven, []string{"best seller", "prime", "review", "vs"}},
			{domain.CategoryPlatformSlang, nil},
			{domain.CategoryAudienceSpecific, []string{"buy", "purchase", "deal", "discount", "coupon"}},
		},
	},
	{
		platform: kw.PlatformPinterest,
		groups: []patternGroup{
			{domain.CategoryFormatDriven, []string{"pin", "board", "idea", "inspiration"}},
			{domain.CategoryPlatformSlang, []string{"aesthetic", "moodboard"}},
			{domain.CategoryAudienceSpecific, []string{"diy", "craft", "recipe"}},
		},
	},
}

func patternsFor(p kw.Platform) []patternGroup {
	for _, entry := range patternTable {
		if entry.platform == p {
			return entry.groups
		}
	}
	return nil
}
