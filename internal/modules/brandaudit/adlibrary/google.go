package adlibrary

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	"github.com/gaborage/total-search/internal/modules/shared/apiclient"
)

const (
	DefaultSearchAPIBaseURL = "https://www.searchapi.io/api/v1/search"
	transparencyEngine      = "google_ads_transparency_center"
	googleMaxResults        = 40
)

// GoogleLibrary reads the Google Ads Transparency Center through SearchAPI,
// looking advertisers up by domain.
type GoogleLibrary struct {
	http    *apiclient.Client
	baseURL string
	apiKey  string
	logger  logger.Logger
}

func NewGoogleLibrary(http *apiclient.Client, baseURL, apiKey string, log logger.Logger) *GoogleLibrary {
	if baseURL == "" {
		baseURL = DefaultSearchAPIBaseURL
	}
	return &GoogleLibrary{
		http:    http,
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  log,
	}
}

func (g *GoogleLibrary) Platform() domain.AdPlatform {
	return domain.AdPlatformGoogle
}

type transparencyCreative struct {
	ID         string `json:"id"`
	Advertiser struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"advertiser"`
	Format             string `json:"format"`
	FirstShownDatetime string `json:"first_shown_datetime"`
	LastShownDatetime  string `json:"last_shown_datetime"`
	TargetDomain       string `json:"target_domain"`
}

type transparencyResponse struct {
	AdCreatives []transparencyCreative `json:"ad_creatives"`
}

// AdsByDomain searches every region; the transparency center does not
// filter creatives by target country.
func (g *GoogleLibrary) AdsByDomain(ctx context.Context, brandDomain, _ string) (domain.BrandAdLibrary, error) {
	query := url.Values{
		"engine":  {transparencyEngine},
		"api_key": {g.apiKey},
		"domain":  {NormalizeDomain(brandDomain)},
		"region":  {"anywhere"},
		"num":     {strconv.Itoa(googleMaxResults)},
	}

	var resp transparencyResponse
	if err := g.http.GetJSON(ctx, g.baseURL, query, &resp); err != nil {
		return domain.BrandAdLibrary{}, fmt.Errorf("google ads transparency center: %w", err)
	}

	lib := domain.BrandAdLibrary{
		BrandName:   BrandName(brandDomain),
		BrandDomain: brandDomain,
		Ads:         make([]domain.AdCreative, 0, len(resp.AdCreatives)),
	}
	for _, c := range resp.AdCreatives {
		lib.Ads = append(lib.Ads, c.toCreative())
	}
	g.logger.Debug().Str("domain", brandDomain).Int("ads", len(lib.Ads)).Msg("Fetched Google ads")
	return lib, nil
}

func (c transparencyCreative) toCreative() domain.AdCreative {
	var landing string
	if c.TargetDomain != "" {
		landing = "https://" + c.TargetDomain
	}
	return domain.AdCreative{
		ID:               c.ID,
		Platform:         domain.AdPlatformGoogle,
		AdvertiserName:   c.Advertiser.Name,
		AdvertiserID:     optional(c.Advertiser.ID),
		AdFormat:         domain.ParseAdFormat(c.Format, domain.AdFormatText),
		FirstShown:       parseTime(c.FirstShownDatetime),
		LastShown:        parseTime(c.LastShownDatetime),
		Status:           "active",
		LandingURL:       optional(landing),
		TargetCountries:  []string{},
		TargetAgeRanges:  []string{},
		TargetGenders:    []string{},
		KeywordsDetected: []string{},
	}
}
