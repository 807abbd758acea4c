// Package provider fetches keyword demand from KeywordTool.io, or from an
// embedded sample dataset when no API key is configured.
package provider

import (
	"context"
	"strings"

	"github.com/gaborage/go-bricks/logger"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/shared/apiclient"
	"github.com/gaborage/total-search/internal/modules/shared/cache"
)

const (
	// MaxVolumeKeywords is the most keywords a single volume call accepts.
	MaxVolumeKeywords = 1000

	// usLocation is the keyword planner location id for the United States.
	usLocation = 2840
)

// Provider is the keyword data source used by the services.
type Provider interface {
	Suggestions(ctx context.Context, keyword string, platform kw.Platform, country, language string) ([]kw.KeywordSuggestion, error)
	Volumes(ctx context.Context, keywords []string, platform kw.Platform, country string) (map[string]kw.PlatformMetric, error)
	CrossPlatform(ctx context.Context, keyword string, platforms []kw.Platform, country string) (kw.CrossPlatformKeyword, error)
	CrossPlatformBatch(ctx context.Context, keywords []string, platforms []kw.Platform, country string) ([]kw.CrossPlatformKeyword, error)
}

// Config of the KeywordTool client. Country and Language apply when a
// request leaves them empty and default to "us" and "en".
type Config struct {
	APIKey   string
	BaseURL  string
	Demo     bool
	Country  string
	Language string
}

// Client talks to the KeywordTool API. It serves the sample dataset when
// demo mode is forced or no API key is set.
type Client struct {
	cfg    Config
	http   *apiclient.Client
	cache  cache.Store
	demo   *demoSet
	logger logger.Logger
}

func New(cfg Config, httpClient *apiclient.Client, store cache.Store, log logger.Logger) *Client {
	c := &Client{
		cfg:    cfg,
		http:   httpClient,
		cache:  store,
		logger: log,
	}
	c.cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	c.cfg.Country = orDefault(cfg.Country, defaultCountry)
	c.cfg.Language = orDefault(cfg.Language, defaultLanguage)
	if c.DemoMode() {
		c.demo = loadDemoSet(log)
		log.Info().Int("keywords", c.demo.size()).Msg("Keyword provider running on demo data")
	}
	return c
}

// DemoMode reports whether responses come from the sample dataset.
func (c *Client) DemoMode() bool {
	return c.cfg.Demo || c.cfg.APIKey == ""
}

func (c *Client) Suggestions(ctx context.Context, keyword string, platform kw.Platform, country, language string) ([]kw.KeywordSuggestion, error) {
	if c.DemoMode() {
		return c.demo.suggestions(keyword, platform), nil
	}

	key := cache.Key("suggestions", platform.String(), keyword, country, language)
	var cached []kw.KeywordSuggestion
	if c.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.fetchSuggestions(ctx, keyword, platform, country, language)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, key, out)
	return out, nil
}

// Volumes returns metrics keyed by the lower-cased keyword. Keywords the
// source does not know are absent from the map.
func (c *Client) Volumes(ctx context.Context, keywords []string, platform kw.Platform, country string) (map[string]kw.PlatformMetric, error) {
	if len(keywords) > MaxVolumeKeywords {
		keywords = keywords[:MaxVolumeKeywords]
	}
	if c.DemoMode() {
		return c.demo.volumes(keywords, platform), nil
	}

	key := cache.Key("volume", platform.String(), country, strings.Join(keywords, ","))
	var cached map[string]kw.PlatformMetric
	if c.cacheGet(ctx, key, &cached) {
		return cached, nil
	}

	out, err := c.fetchVolumes(ctx, keywords, platform, country)
	if err != nil {
		return nil, err
	}
	c.cacheSet(ctx, key, out)
	return out, nil
}

func (c *Client) cacheGet(ctx context.Context, key string, out any) bool {
	if c.cache == nil {
		return false
	}
	ok, err := cache.GetJSON(ctx, c.cache, key, out)
	if err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache read failed")
		return false
	}
	return ok
}

func (c *Client) cacheSet(ctx context.Context, key string, v any) {
	if c.cache == nil {
		return
	}
	if err := cache.SetJSON(ctx, c.cache, key, v); err != nil {
		c.logger.Warn().Err(err).Str("key", key).Msg("Cache write failed")
	}
}
