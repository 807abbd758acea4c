// Package domain holds the ad library and coverage audit model of the
// brand audit module.
package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

var ErrUnknownAdPlatform = errors.New("unknown ad platform")

// AdPlatform is an ad library source.
type AdPlatform string

const (
	AdPlatformMeta   AdPlatform = "meta"
	AdPlatformTikTok AdPlatform = "tiktok"
	AdPlatformGoogle AdPlatform = "google"
)

var adPlatforms = []AdPlatform{AdPlatformMeta, AdPlatformTikTok, AdPlatformGoogle}

// AdPlatforms returns every ad platform in declaration order.
func AdPlatforms() []AdPlatform {
	return slices.Clone(adPlatforms)
}

func ParseAdPlatform(s string) (AdPlatform, error) {
	p := AdPlatform(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(adPlatforms, p) {
		return p, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownAdPlatform, s)
}

func (p AdPlatform) String() string {
	return string(p)
}

type AdFormat string

const (
	AdFormatImage    AdFormat = "image"
	AdFormatVideo    AdFormat = "video"
	AdFormatText     AdFormat = "text"
	AdFormatCarousel AdFormat = "carousel"
)

// ParseAdFormat maps a provider format label to an AdFormat, falling back
// to def for anything unrecognized.
func ParseAdFormat(s string, def AdFormat) AdFormat {
	switch f := AdFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case AdFormatImage, AdFormatVideo, AdFormatText, AdFormatCarousel:
		return f
	default:
		return def
	}
}

// AdCreative is one ad found in an ad library.
type AdCreative struct {
	ID               string     `json:"id"`
	Platform         AdPlatform `json:"platform"`
	AdvertiserName   string     `json:"advertiser_name"`
	AdvertiserID     *string    `json:"advertiser_id"`
	AdFormat         AdFormat   `json:"ad_format"`
	FirstShown       *time.Time `json:"first_shown"`
	LastShown        *time.Time `json:"last_shown"`
	Status           string     `json:"status"`
	Headline         *string    `json:"headline"`
	BodyText         *string    `json:"body_text"`
	ImageURL         *string    `json:"image_url"`
	VideoURL         *string    `json:"video_url"`
	LandingURL       *string    `json:"landing_url"`
	ImpressionsRange *string    `json:"impressions_range"`
	SpendRange       *string    `json:"spend_range"`
	TargetCountries  []string   `json:"target_countries"`
	TargetAgeRanges  []string   `json:"target_age_ranges"`
	TargetGenders    []string   `json:"target_genders"`
	KeywordsDetected []string   `json:"keywords_detected"`
}

// Text is the lower-cased headline and body, used for keyword matching.
func (a AdCreative) Text() (headline, body string) {
	if a.Headline != nil {
		headline = strings.ToLower(*a.Headline)
	}
	if a.BodyText != nil {
		body = strings.ToLower(*a.BodyText)
	}
	return headline, body
}

// Mentions reports whether keyword appears in the headline or body,
// ignoring case.
func (a AdCreative) Mentions(keyword string) bool {
	keyword = strings.ToLower(keyword)
	headline, body := a.Text()
	return strings.Contains(headline, keyword) || strings.Contains(body, keyword)
}

// BrandAdLibrary is the set of ads a brand runs. Aggregates are derived
// from Ads on every call.
type BrandAdLibrary struct {
	BrandName   string
	BrandDomain string
	Ads         []AdCreative
}

func (l BrandAdLibrary) TotalAds() int {
	return len(l.Ads)
}

// HasAds reports whether the brand runs any ad in this library.
func (l BrandAdLibrary) HasAds() bool {
	return len(l.Ads) > 0
}

// PlatformsPresent lists the ad platforms of the ads, in declaration order.
func (l BrandAdLibrary) PlatformsPresent() []AdPlatform {
	out := []AdPlatform{}
	for _, p := range adPlatforms {
		if slices.ContainsFunc(l.Ads, func(a AdCreative) bool { return a.Platform == p }) {
			out = append(out, p)
		}
	}
	return out
}

// KeywordsInAds is the sorted union of detected keywords and lower-cased
// headline tokens.
func (l BrandAdLibrary) KeywordsInAds() []string {
	set := map[string]struct{}{}
	for _, ad := range l.Ads {
		for _, k := range ad.KeywordsDetected {
			set[k] = struct{}{}
		}
		headline, _ := ad.Text()
		for _, token := range strings.Fields(headline) {
			set[token] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	slices.Sort(out)
	return out
}

// ActiveSince is the earliest first-shown date, or nil when no ad has one.
func (l BrandAdLibrary) ActiveSince() *time.Time {
	var earliest *time.Time
	for _, ad := range l.Ads {
		if ad.FirstShown == nil {
			continue
		}
		if earliest == nil || ad.FirstShown.Before(*earliest) {
			t := *ad.FirstShown
			earliest = &t
		}
	}
	return earliest
}

type brandAdLibraryJSON struct {
	BrandName        string       `json:"brand_name"`
	BrandDomain      string       `json:"brand_domain"`
	Ads              []AdCreative `json:"ads"`
	TotalAds         int          `json:"total_ads"`
	PlatformsPresent []AdPlatform `json:"platforms_present"`
	KeywordsInAds    []string     `json:"keywords_in_ads"`
	ActiveSince      *time.Time   `json:"active_since"`
}

// MarshalJSON includes the derived aggregates.
func (l BrandAdLibrary) MarshalJSON() ([]byte, error) {
	ads := l.Ads
	if ads == nil {
		ads = []AdCreative{}
	}
	return json.Marshal(brandAdLibraryJSON{
		BrandName:        l.BrandName,
		BrandDomain:      l.BrandDomain,
		Ads:              ads,
		TotalAds:         l.TotalAds(),
		PlatformsPresent: l.PlatformsPresent(),
		KeywordsInAds:    l.KeywordsInAds(),
		ActiveSince:      l.ActiveSince(),
	})
}

// UnmarshalJSON ignores the derived fields.
func (l *BrandAdLibrary) UnmarshalJSON(data []byte) error {
	var in brandAdLibraryJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	l.BrandName = in.BrandName
	l.BrandDomain = in.BrandDomain
	l.Ads = in.Ads
	return nil
}
