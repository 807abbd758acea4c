package adlibrary

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	"github.com/gaborage/total-search/internal/modules/shared/apiclient"
)

const (
	DefaultTikTokBaseURL = "https://open.tiktokapis.com/v2/research"
	tiktokMaxCount       = 50
	tiktokFields         = "ad.id,ad.first_shown_date,ad.last_shown_date,ad.status,ad.image_urls," +
		"ad.videos,ad.reach,advertiser.business_id,advertiser.business_name,ad_group.targeting_info"
)

// TikTokLibrary queries the TikTok Commercial Content API. The bearer token
// is set on the apiclient.Client.
type TikTokLibrary struct {
	http    *apiclient.Client
	baseURL string
	logger  logger.Logger
}

func NewTikTokLibrary(http *apiclient.Client, baseURL string, log logger.Logger) *TikTokLibrary {
	if baseURL == "" {
		baseURL = DefaultTikTokBaseURL
	}
	return &TikTokLibrary{
		http:    http,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  log,
	}
}

func (t *TikTokLibrary) Platform() domain.AdPlatform {
	return domain.AdPlatformTikTok
}

type tiktokFilter struct {
	FieldName   string   `json:"field_name"`
	Operation   string   `json:"operation"`
	FieldValues []string `json:"field_values"`
}

type tiktokQuery struct {
	MaxCount int    `json:"max_count"`
	Fields   string `json:"fields"`
	Filters  struct {
		And []tiktokFilter `json:"and"`
	} `json:"filters"`
}

// flexString decodes an identifier sent either as a JSON string or number.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = ""
		return nil
	}
	*f = flexString(bytes.Trim(data, `"`))
	return nil
}

type tiktokAd struct {
	Ad struct {
		ID             flexString `json:"id"`
		FirstShownDate flexString `json:"first_shown_date"`
		LastShownDate  flexString `json:"last_shown_date"`
		Status         string     `json:"status"`
		ImageURLs      []string   `json:"image_urls"`
		Videos         []struct {
			URL string `json:"url"`
		} `json:"videos"`
		Reach struct {
			UniqueUsersSeen flexString `json:"unique_users_seen"`
		} `json:"reach"`
	} `json:"ad"`
	Business struct {
		ID   flexString `json:"id"`
		Name string     `json:"name"`
	} `json:"business"`
	AdGroup struct {
		Target struct {
			Country []string        `json:"country"`
			Age     map[string]bool `json:"age"`
		} `json:"target"`
	} `json:"ad_group"`
}

type tiktokResponse struct {
	Data struct {
		Ads []tiktokAd `json:"ads"`
	} `json:"data"`
}

func (t *TikTokLibrary) AdsByDomain(ctx context.Context, brandDomain, country string) (domain.BrandAdLibrary, error) {
	q := tiktokQuery{MaxCount: tiktokMaxCount, Fields: tiktokFields}
	q.Filters.And = []tiktokFilter{
		{FieldName: "business.name", Operation: "CONTAINS", FieldValues: []string{searchTerm(brandDomain)}},
		{FieldName: "ad_group.target.country", Operation: "IN", FieldValues: []string{countryOrDefault(country)}},
	}

	var resp tiktokResponse
	if err := t.http.PostJSON(ctx, t.baseURL+"/adlib/ad/query", q, &resp); err != nil {
		return domain.BrandAdLibrary{}, fmt.Errorf("tiktok ad library: %w", err)
	}

	lib := domain.BrandAdLibrary{
		BrandName:   BrandName(brandDomain),
		BrandDomain: brandDomain,
		Ads:         make([]domain.AdCreative, 0, len(resp.Data.Ads)),
	}
	for _, ad := range resp.Data.Ads {
		lib.Ads = append(lib.Ads, ad.toCreative())
	}
	t.logger.Debug().Str("domain", brandDomain).Int("ads", len(lib.Ads)).Msg("Fetched TikTok ads")
	return lib, nil
}

func (a tiktokAd) toCreative() domain.AdCreative {
	format := domain.AdFormatImage
	var videoURL string
	if len(a.Ad.Videos) > 0 {
		format = domain.AdFormatVideo
		videoURL = a.Ad.Videos[0].URL
	}

	ages := make([]string, 0, len(a.AdGroup.Target.Age))
	for age, targeted := range a.AdGroup.Target.Age {
		if targeted {
			ages = append(ages, age)
		}
	}
	slices.Sort(ages)

	countries := a.AdGroup.Target.Country
	if countries == nil {
		countries = []string{}
	}

	return domain.AdCreative{
		ID:               string(a.Ad.ID),
		Platform:         domain.AdPlatformTikTok,
		AdvertiserName:   a.Business.Name,
		AdvertiserID:     optional(string(a.Business.ID)),
		AdFormat:         format,
		FirstShown:       parseTime(string(a.Ad.FirstShownDate)),
		LastShown:        parseTime(string(a.Ad.LastShownDate)),
		Status:           strings.ToLower(a.Ad.Status),
		ImageURL:         optional(first(a.Ad.ImageURLs)),
		VideoURL:         optional(videoURL),
		ImpressionsRange: optional(string(a.Ad.Reach.UniqueUsersSeen)),
		TargetCountries:  countries,
		TargetAgeRanges:  ages,
		TargetGenders:    []string{},
		KeywordsDetected: []string{},
	}
}
