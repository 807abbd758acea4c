package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

type suggestionsRequest struct {
	APIKey          string   `json:"apikey"`
	Keyword         string   `json:"keyword"`
	Country         string   `json:"country"`
	Language        string   `json:"language"`
	Metrics         bool     `json:"metrics"`
	Output          string   `json:"output"`
	MetricsLocation []int    `json:"metrics_location,omitempty"`
	MetricsLanguage []string `json:"metrics_language,omitempty"`
	MetricsNetwork  string   `json:"metrics_network,omitempty"`
}

type volumeRequest struct {
	APIKey          string   `json:"apikey"`
	Keyword         []string `json:"keyword"`
	Output          string   `json:"output"`
	Country         string   `json:"country,omitempty"`
	MetricsLocation []int    `json:"metrics_location,omitempty"`
	MetricsLanguage []string `json:"metrics_language,omitempty"`
	MetricsNetwork  string   `json:"metrics_network,omitempty"`
}

type apiMetrics struct {
	String      string      `json:"string"`
	Volume      *int64      `json:"volume"`
	Trend       trendSeries `json:"trend"`
	CPC         *float64    `json:"cpc"`
	Competition *float64    `json:"competition"`
}

type suggestionsResponse struct {
	Results []apiMetrics `json:"results"`
}

type volumeResponse struct {
	Results map[string]apiMetrics `json:"results"`
}

// trendSeries accepts plain numbers or {"value": n} month objects.
type trendSeries []int64

func (t *trendSeries) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make([]int64, 0, len(raw))
	for _, item := range raw {
		var n float64
		if err := json.Unmarshal(item, &n); err == nil {
			out = append(out, int64(n))
			continue
		}
		var point struct {
			Value float64 `json:"value"`
		}
		if err := json.Unmarshal(item, &point); err != nil {
			return fmt.Errorf("invalid trend point %s: %w", item, err)
		}
		out = append(out, int64(point.Value))
	}
	*t = out
	return nil
}

const (
	defaultCountry  = "us"
	defaultLanguage = "en"
)

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func (c *Client) endpoint(kind string, platform kw.Platform) string {
	return fmt.Sprintf("%s/search/%s/%s", c.cfg.BaseURL, kind, platform.Endpoint())
}

func (c *Client) fetchSuggestions(ctx context.Context, keyword string, platform kw.Platform, country, language string) ([]kw.KeywordSuggestion, error) {
	req := suggestionsRequest{
		APIKey:   c.cfg.APIKey,
		Keyword:  keyword,
		Country:  strings.ToUpper(orDefault(country, c.cfg.Country)),
		Language: orDefault(language, c.cfg.Language),
		Metrics:  true,
		Output:   "json",
	}
	if platform.HasPreciseVolume() {
		req.MetricsLocation = []int{usLocation}
		req.MetricsLanguage = []string{"en"}
		req.MetricsNetwork = "googlesearchnetwork"
	}

	var resp suggestionsResponse
	if err := c.http.PostJSON(ctx, c.endpoint("suggestions", platform), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch %s suggestions: %w", platform, err)
	}

	out := make([]kw.KeywordSuggestion, 0, len(resp.Results))
	for _, item := range resp.Results {
		out = append(out, kw.KeywordSuggestion{
			Keyword:     item.String,
			Platform:    platform,
			Volume:      item.Volume,
			Trend:       []int64(item.Trend),
			CPC:         item.CPC,
			Competition: item.Competition,
		})
	}
	return out, nil
}

func (c *Client) fetchVolumes(ctx context.Context, keywords []string, platform kw.Platform, country string) (map[string]kw.PlatformMetric, error) {
	req := volumeRequest{
		APIKey:  c.cfg.APIKey,
		Keyword: keywords,
		Output:  "json",
	}
	if platform.HasPreciseVolume() {
		req.MetricsLocation = []int{usLocation}
		req.MetricsLanguage = []string{"en"}
		req.MetricsNetwork = "googlesearchnetwork"
	} else {
		req.Country = strings.ToUpper(orDefault(country, c.cfg.Country))
	}

	var resp volumeResponse
	if err := c.http.PostJSON(ctx, c.endpoint("volume", platform), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch %s volume: %w", platform, err)
	}

	out := make(map[string]kw.PlatformMetric, len(resp.Results))
	for keyword, item := range resp.Results {
		out[strings.ToLower(keyword)] = toMetric(platform, item)
	}
	return out, nil
}

func toMetric(platform kw.Platform, item apiMetrics) kw.PlatformMetric {
	var volume int64
	if item.Volume != nil {
		volume = *item.Volume
	}
	m := kw.NewPlatformMetric(platform, volume, []int64(item.Trend))
	m.CPC = item.CPC
	m.Competition = item.Competition
	return m
}
