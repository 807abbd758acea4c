package adlibrary

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	"github.com/gaborage/total-search/internal/modules/shared/apiclient"
)

const (
	DefaultMetaBaseURL = "https://graph.facebook.com/v18.0"
	metaPageSize       = 100
	metaFields         = "id,page_id,page_name,ad_creative_bodies,ad_creative_link_titles," +
		"ad_delivery_start_time,ad_delivery_stop_time,impressions,spend,publisher_platforms"
)

// MetaLibrary queries the Meta Ad Library archive by advertiser name.
type MetaLibrary struct {
	http    *apiclient.Client
	baseURL string
	token   string
	logger  logger.Logger
}

func NewMetaLibrary(http *apiclient.Client, baseURL, token string, log logger.Logger) *MetaLibrary {
	if baseURL == "" {
		baseURL = DefaultMetaBaseURL
	}
	return &MetaLibrary{
		http:    http,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
		logger:  log,
	}
}

func (m *MetaLibrary) Platform() domain.AdPlatform {
	return domain.AdPlatformMeta
}

// flexInt decodes an integer sent either as a JSON number or a string.
type flexInt int64

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.Trim(data, `"`)
	if len(data) == 0 || string(data) == "null" {
		*f = 0
		return nil
	}
	n, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %q: %w", data, err)
	}
	*f = flexInt(n)
	return nil
}

type metaBounds struct {
	LowerBound flexInt `json:"lower_bound"`
	UpperBound flexInt `json:"upper_bound"`
}

type metaAd struct {
	ID                   string      `json:"id"`
	PageID               string      `json:"page_id"`
	PageName             string      `json:"page_name"`
	AdCreativeBodies     []string    `json:"ad_creative_bodies"`
	AdCreativeLinkTitles []string    `json:"ad_creative_link_titles"`
	AdDeliveryStartTime  string      `json:"ad_delivery_start_time"`
	AdDeliveryStopTime   string      `json:"ad_delivery_stop_time"`
	Impressions          *metaBounds `json:"impressions"`
	Spend                *metaBounds `json:"spend"`
}

type metaResponse struct {
	Data []metaAd `json:"data"`
}

func (m *MetaLibrary) AdsByDomain(ctx context.Context, brandDomain, country string) (domain.BrandAdLibrary, error) {
	countries, err := json.Marshal([]string{countryOrDefault(country)})
	if err != nil {
		return domain.BrandAdLibrary{}, err
	}
	query := url.Values{
		"access_token":         {m.token},
		"search_terms":         {searchTerm(brandDomain)},
		"ad_reached_countries": {string(countries)},
		"ad_active_status":     {"ACTIVE"},
		"fields":               {metaFields},
		"limit":                {strconv.Itoa(metaPageSize)},
	}

	var resp metaResponse
	if err := m.http.GetJSON(ctx, m.baseURL+"/ads_archive", query, &resp); err != nil {
		return domain.BrandAdLibrary{}, fmt.Errorf("meta ad library: %w", err)
	}

	lib := domain.BrandAdLibrary{
		BrandName:   BrandName(brandDomain),
		BrandDomain: brandDomain,
		Ads:         make([]domain.AdCreative, 0, len(resp.Data)),
	}
	for _, ad := range resp.Data {
		lib.Ads = append(lib.Ads, ad.toCreative())
	}
	m.logger.Debug().Str("domain", brandDomain).Int("ads", len(lib.Ads)).Msg("Fetched Meta ads")
	return lib, nil
}

func (a metaAd) toCreative() domain.AdCreative {
	status := "active"
	if a.AdDeliveryStopTime != "" {
		status = "inactive"
	}
	return domain.AdCreative{
		ID:               a.ID,
		Platform:         domain.AdPlatformMeta,
		AdvertiserName:   a.PageName,
		AdvertiserID:     optional(a.PageID),
		AdFormat:         domain.AdFormatImage,
		FirstShown:       parseTime(a.AdDeliveryStartTime),
		LastShown:        parseTime(a.AdDeliveryStopTime),
		Status:           status,
		Headline:         optional(first(a.AdCreativeLinkTitles)),
		BodyText:         optional(first(a.AdCreativeBodies)),
		ImpressionsRange: formatBounds(a.Impressions, ""),
		SpendRange:       formatBounds(a.Spend, "$"),
		TargetCountries:  []string{},
		TargetAgeRanges:  []string{},
		TargetGenders:    []string{},
		KeywordsDetected: []string{},
	}
}

// formatBounds renders a range like "1,000-5,000", or nil when absent.
func formatBounds(b *metaBounds, prefix string) *string {
	if b == nil {
		return nil
	}
	s := prefix + humanize.Comma(int64(b.LowerBound)) + "-" + prefix + humanize.Comma(int64(b.UpperBound))
	return &s
}
