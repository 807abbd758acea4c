package adlibrary

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
)

//go:embed demodata/ads_sample.json
var demoJSON []byte

type demoFile struct {
	Brands []demoBrand `json:"brands"`
}

type demoBrand struct {
	Domain string              `json:"domain"`
	Brand  string              `json:"brand"`
	Ads    map[string][]demoAd `json:"ads"`
}

type demoAd struct {
	ID               string   `json:"id"`
	AdvertiserName   string   `json:"advertiser_name"`
	AdFormat         string   `json:"ad_format"`
	FirstShown       string   `json:"first_shown"`
	LastShown        string   `json:"last_shown"`
	Status           string   `json:"status"`
	Headline         string   `json:"headline"`
	BodyText         string   `json:"body_text"`
	ImageURL         string   `json:"image_url"`
	VideoURL         string   `json:"video_url"`
	LandingURL       string   `json:"landing_url"`
	ImpressionsRange string   `json:"impressions_range"`
	SpendRange       string   `json:"spend_range"`
	TargetCountries  []string `json:"target_countries"`
	TargetAgeRanges  []string `json:"target_age_ranges"`
	TargetGenders    []string `json:"target_genders"`
	KeywordsDetected []string `json:"keywords_detected"`
}

func (a demoAd) toCreative(p domain.AdPlatform) domain.AdCreative {
	return domain.AdCreative{
		ID:               a.ID,
		Platform:         p,
		AdvertiserName:   a.AdvertiserName,
		AdFormat:         domain.ParseAdFormat(a.AdFormat, domain.AdFormatImage),
		FirstShown:       parseTime(a.FirstShown),
		LastShown:        parseTime(a.LastShown),
		Status:           a.Status,
		Headline:         optional(a.Headline),
		BodyText:         optional(a.BodyText),
		ImageURL:         optional(a.ImageURL),
		VideoURL:         optional(a.VideoURL),
		LandingURL:       optional(a.LandingURL),
		ImpressionsRange: optional(a.ImpressionsRange),
		SpendRange:       optional(a.SpendRange),
		TargetCountries:  a.TargetCountries,
		TargetAgeRanges:  a.TargetAgeRanges,
		TargetGenders:    a.TargetGenders,
		KeywordsDetected: a.KeywordsDetected,
	}
}

func parseDemoBrands(raw []byte) (map[string]demoBrand, error) {
	var f demoFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("failed to parse demo ad data: %w", err)
	}
	brands := make(map[string]demoBrand, len(f.Brands))
	for _, b := range f.Brands {
		brands[NormalizeDomain(b.Domain)] = b
	}
	return brands, nil
}

var loadDemoBrands = sync.OnceValues(func() (map[string]demoBrand, error) {
	return parseDemoBrands(demoJSON)
})

// DemoLibrary serves the embedded sample ads of one platform. Unknown
// domains have no ads.
type DemoLibrary struct {
	platform domain.AdPlatform
}

func NewDemoLibrary(p domain.AdPlatform) *DemoLibrary {
	return &DemoLibrary{platform: p}
}

func (d *DemoLibrary) Platform() domain.AdPlatform {
	return d.platform
}

func (d *DemoLibrary) AdsByDomain(_ context.Context, brandDomain, _ string) (domain.BrandAdLibrary, error) {
	brands, err := loadDemoBrands()
	if err != nil {
		return domain.BrandAdLibrary{}, err
	}

	lib := domain.BrandAdLibrary{
		BrandName:   BrandName(brandDomain),
		BrandDomain: brandDomain,
		Ads:         []domain.AdCreative{},
	}
	b, ok := brands[NormalizeDomain(brandDomain)]
	if !ok {
		return lib, nil
	}
	lib.BrandName = b.Brand
	for _, ad := range b.Ads[d.platform.String()] {
		lib.Ads = append(lib.Ads, ad.toCreative(d.platform))
	}
	return lib, nil
}
