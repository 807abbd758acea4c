package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/brandaudit/adlibrary"
	"github.com/gaborage/total-search/internal/modules/keywords/provider"
	"github.com/gaborage/total-search/internal/modules/shared/apiclient"
	"github.com/gaborage/total-search/internal/modules/shared/cache"
	"github.com/gaborage/total-search/internal/modules/shared/ratelimit"
	"github.com/gaborage/total-search/internal/modules/shared/secrets"
	"github.com/gaborage/total-search/internal/modules/shared/settings"
)

const (
	redisKeyPrefix   = "total-search:"
	redisPingTimeout = 3 * time.Second
)

// adapters are the provider clients shared by every module.
type adapters struct {
	keywords *provider.Client
	ads      adlibrary.Sources
	closers  []io.Closer
}

func (a *adapters) Close(log logger.Logger) {
	for _, c := range a.closers {
		if mem, ok := c.(*cache.MemoryStore); ok {
			logCacheStats(log, mem)
		}
		if err := c.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close adapter")
		}
	}
}

func buildAdapters(ctx context.Context, cfg *settings.Settings, log logger.Logger) (*adapters, error) {
	a := &adapters{}

	store, err := buildCache(ctx, cfg.Cache, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, store)

	creds, err := buildCredentials(ctx, cfg, log)
	if err != nil {
		a.Close(log)
		return nil, err
	}
	if c, ok := creds.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}
	if services, err := secrets.Services(ctx, creds); err != nil {
		log.Warn().Err(err).Msg("Failed to list credential services")
	} else {
		log.Info().Str("services", strings.Join(services, ",")).Msg("Provider credentials available")
	}

	lookup := func(service, key string) string {
		v, err := secrets.Lookup(ctx, creds, service, key)
		if err != nil {
			log.Warn().Err(err).Str("service", service).Msg("Failed to resolve credentials, using demo data")
			return ""
		}
		return v
	}

	httpClient := &http.Client{Timeout: cfg.KeywordTool.Timeout}
	limiter := ratelimit.PerMinute(cfg.KeywordTool.RateLimit)
	log.Info().Int("perMinute", limiter.PerMinuteLimit()).Msg("KeywordTool rate limit configured")
	keywordHTTP := apiclient.New(log,
		apiclient.WithHTTPClient(httpClient),
		apiclient.WithLimiter(limiter),
	)
	a.keywords = provider.New(provider.Config{
		APIKey:   lookup(secrets.ServiceKeywordTool, secrets.KeyAPIKey),
		BaseURL:  cfg.KeywordTool.BaseURL,
		Demo:     cfg.Demo,
		Country:  cfg.Country,
		Language: cfg.Language,
	}, keywordHTTP, store, log)

	a.ads = adlibrary.NewSources(adlibrary.Config{
		Demo:             cfg.Demo,
		MetaToken:        lookup(secrets.ServiceMeta, secrets.KeyAccessToken),
		MetaBaseURL:      cfg.Meta.BaseURL,
		TikTokToken:      lookup(secrets.ServiceTikTok, secrets.KeyAccessToken),
		TikTokBaseURL:    cfg.TikTok.BaseURL,
		SearchAPIKey:     lookup(secrets.ServiceSearchAPI, secrets.KeyAPIKey),
		SearchAPIBaseURL: cfg.SearchAPI.BaseURL,
		ClientOptions:    []apiclient.Option{apiclient.WithHTTPClient(httpClient)},
	}, log)

	return a, nil
}

func logCacheStats(log logger.Logger, s *cache.MemoryStore) {
	m := s.Metrics()
	log.Info().
		Int64("hits", m.Hits).
		Int64("misses", m.Misses).
		Int64("evictions", m.Evictions).
		Int("entries", s.Size()).
		Str("hitRate", fmt.Sprintf("%.1f%%", m.HitRate())).
		Msg("Response cache statistics")
}

type closableStore interface {
	cache.Store
	io.Closer
}

// buildCache prefers Redis when a URL is configured and reachable, and
// falls back to the in-process store otherwise.
func buildCache(ctx context.Context, cfg settings.CacheSettings, log logger.Logger) (closableStore, error) {
	if cfg.RedisURL == "" {
		log.Info().Dur("ttl", cfg.TTL).Int("maxSize", cfg.MaxSize).Msg("Using in-memory response cache")
		return cache.NewMemoryStore(cfg.TTL, cfg.MaxSize), nil
	}

	redisStore, err := cache.NewRedisStore(cfg.RedisURL, redisKeyPrefix, cfg.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to configure redis cache: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingTimeout)
	defer cancel()
	if err := redisStore.Ping(pingCtx); err != nil {
		log.Warn().Err(err).Msg("Redis unreachable, using in-memory response cache")
		_ = redisStore.Close()
		return cache.NewMemoryStore(cfg.TTL, cfg.MaxSize), nil
	}

	log.Info().Dur("ttl", cfg.TTL).Msg("Using redis response cache")
	return redisStore, nil
}

// buildCredentials serves credentials from settings, consulting AWS Secrets
// Manager first when a secrets prefix is configured.
func buildCredentials(ctx context.Context, cfg *settings.Settings, log logger.Logger) (secrets.Store, error) {
	static := secrets.NewStaticStore(log)
	static.Set(secrets.ServiceKeywordTool, secrets.Credentials{secrets.KeyAPIKey: cfg.KeywordTool.APIKey})
	static.Set(secrets.ServiceMeta, secrets.Credentials{secrets.KeyAccessToken: cfg.Meta.Token})
	static.Set(secrets.ServiceTikTok, secrets.Credentials{secrets.KeyAccessToken: cfg.TikTok.Token})
	static.Set(secrets.ServiceSearchAPI, secrets.Credentials{secrets.KeyAPIKey: cfg.SearchAPI.Token})

	if cfg.Secrets.Prefix == "" {
		return static, nil
	}

	awsStore, err := secrets.NewAWSSecretsStore(ctx, log, secrets.AWSSecretsConfig{
		Prefix:      cfg.Secrets.Prefix,
		CacheTTL:    cfg.Secrets.CacheTTL,
		EndpointURL: cfg.Secrets.EndpointURL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to configure AWS secrets store: %w", err)
	}
	log.Info().Str("prefix", cfg.Secrets.Prefix).Msg("Resolving credentials from AWS Secrets Manager")

	return &chainWithCloser{ChainStore: secrets.NewChainStore(awsStore, static), closer: awsStore}, nil
}

type chainWithCloser struct {
	*secrets.ChainStore
	closer io.Closer
}

func (c *chainWithCloser) Close() error {
	return c.closer.Close()
}
