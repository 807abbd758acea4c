// Package settings loads the service's own configuration. go-bricks reads
// app, server and database settings; everything provider specific lives
// here and is layered as defaults, then an optional YAML file, then
// CUSTOM_* environment variables.
package settings

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix marks the environment variables read by Load. A double
	// underscore separates nesting levels: CUSTOM_KEYWORDTOOL__API_KEY.
	EnvPrefix = "CUSTOM_"

	// FileEnv names an optional YAML file layered over the defaults.
	FileEnv = "CUSTOM_SETTINGS_FILE"
)

type Settings struct {
	Demo        bool                `koanf:"demo"`
	Country     string              `koanf:"country"`
	Language    string              `koanf:"language"`
	KeywordTool KeywordToolSettings `koanf:"keywordtool"`
	Meta        AdLibrarySettings   `koanf:"meta"`
	TikTok      AdLibrarySettings   `koanf:"tiktok"`
	SearchAPI   AdLibrarySettings   `koanf:"searchapi"`
	Cache       CacheSettings       `koanf:"cache"`
	Secrets     SecretsSettings     `koanf:"secrets"`
	Watchlist   WatchlistSettings   `koanf:"watchlist"`
}

type KeywordToolSettings struct {
	APIKey    string        `koanf:"api_key"`
	BaseURL   string        `koanf:"base_url"`
	RateLimit int           `koanf:"rate_limit"`
	Timeout   time.Duration `koanf:"timeout"`
}

type AdLibrarySettings struct {
	Token   string `koanf:"token"`
	BaseURL string `koanf:"base_url"`
}

type CacheSettings struct {
	TTL      time.Duration `koanf:"ttl"`
	MaxSize  int           `koanf:"max_size"`
	RedisURL string        `koanf:"redis_url"`
}

type SecretsSettings struct {
	Prefix      string        `koanf:"prefix"`
	EndpointURL string        `koanf:"endpoint_url"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
}

type WatchlistSettings struct {
	Seeds    []string      `koanf:"seeds"`
	Country  string        `koanf:"country"`
	Interval time.Duration `koanf:"interval"`
}

func defaults() map[string]any {
	return map[string]any{
		"demo":                   false,
		"country":                "us",
		"language":               "en",
		"keywordtool.base_url":   "https://api.keywordtool.io/v2",
		"keywordtool.rate_limit": 5,
		"keywordtool.timeout":    "30s",
		"meta.base_url":          "https://graph.facebook.com/v18.0",
		"tiktok.base_url":        "https://open.tiktokapis.com/v2/research",
		"searchapi.base_url":     "https://www.searchapi.io/api/v1/search",
		"cache.ttl":              "1h",
		"cache.max_size":         1000,
		"secrets.cache_ttl":      "5m",
		"watchlist.country":      "us",
		"watchlist.interval":     "24h",
	}
}

// Load builds Settings from defaults, the YAML file at path (or at
// $CUSTOM_SETTINGS_FILE when path is empty) and the environment.
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load default settings: %w", err)
	}

	if path == "" {
		path = os.Getenv(FileEnv)
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load settings file %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read settings file %s: %w", path, err)
		}
	}

	envProvider := env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load settings from environment: %w", err)
	}

	var s Settings
	if err := k.UnmarshalWithConf("", &s, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("failed to decode settings: %w", err)
	}
	s.Watchlist.Seeds = cleanList(s.Watchlist.Seeds)
	return &s, nil
}

// envKey maps CUSTOM_KEYWORDTOOL__API_KEY to keywordtool.api_key. Lists are
// comma separated.
func envKey(k, v string) (string, any) {
	key := strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	key = strings.ReplaceAll(key, "__", ".")
	if key == "watchlist.seeds" {
		return key, strings.Split(v, ",")
	}
	return key, v
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
