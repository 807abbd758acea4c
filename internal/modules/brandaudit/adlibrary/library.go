// Package adlibrary fetches the ads a brand runs from the Meta Ad Library,
// the TikTok Commercial Content API and the Google Ads Transparency Center
// (through SearchAPI). Each source also has an embedded demo dataset.
package adlibrary

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/gaborage/go-bricks/logger"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	"github.com/gaborage/total-search/internal/modules/shared/apiclient"
)

// Library is one ad library source.
type Library interface {
	Platform() domain.AdPlatform
	AdsByDomain(ctx context.Context, brandDomain, country string) (domain.BrandAdLibrary, error)
}

// NormalizeDomain lower-cases d and strips a scheme, a leading "www." and
// any path.
func NormalizeDomain(d string) string {
	d = strings.ToLower(strings.TrimSpace(d))
	if i := strings.Index(d, "://"); i >= 0 {
		d = d[i+3:]
	}
	if i := strings.IndexByte(d, '/'); i >= 0 {
		d = d[:i]
	}
	return strings.TrimPrefix(d, "www.")
}

// searchTerm is the advertiser name guessed from a domain: its first label
// with dashes as spaces.
func searchTerm(brandDomain string) string {
	label, _, _ := strings.Cut(NormalizeDomain(brandDomain), ".")
	return strings.ReplaceAll(label, "-", " ")
}

// BrandName is the display name derived from a domain, e.g.
// "optimum-nutrition.com" becomes "Optimum Nutrition".
func BrandName(brandDomain string) string {
	return cases.Title(language.English).String(searchTerm(brandDomain))
}

// Sources bundles one library per ad platform.
type Sources struct {
	Meta   Library
	TikTok Library
	Google Library
}

// Get returns the library of p, or nil.
func (l Sources) Get(p domain.AdPlatform) Library {
	switch p {
	case domain.AdPlatformMeta:
		return l.Meta
	case domain.AdPlatformTikTok:
		return l.TikTok
	case domain.AdPlatformGoogle:
		return l.Google
	default:
		return nil
	}
}

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"20060102",
}

// parseTime accepts the date formats the three ad libraries return. An
// empty or unparseable value yields nil.
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func countryOrDefault(country string) string {
	if country == "" {
		return "US"
	}
	return strings.ToUpper(country)
}

// Config selects and configures the ad library sources.
type Config struct {
	Demo             bool
	MetaToken        string
	MetaBaseURL      string
	TikTokToken      string
	TikTokBaseURL    string
	SearchAPIKey     string
	SearchAPIBaseURL string
	ClientOptions    []apiclient.Option
}

// NewSources builds one library per platform. A platform without a
// credential, or any platform in demo mode, is served from sample data.
func NewSources(cfg Config, log logger.Logger) Sources {
	var s Sources
	if cfg.Demo || cfg.MetaToken == "" {
		s.Meta = NewDemoLibrary(domain.AdPlatformMeta)
	} else {
		s.Meta = NewMetaLibrary(apiclient.New(log, cfg.ClientOptions...), cfg.MetaBaseURL, cfg.MetaToken, log)
	}
	if cfg.Demo || cfg.TikTokToken == "" {
		s.TikTok = NewDemoLibrary(domain.AdPlatformTikTok)
	} else {
		opts := append(slices.Clone(cfg.ClientOptions), apiclient.WithHeader("Authorization", "Bearer "+cfg.TikTokToken))
		s.TikTok = NewTikTokLibrary(apiclient.New(log, opts...), cfg.TikTokBaseURL, log)
	}
	if cfg.Demo || cfg.SearchAPIKey == "" {
		s.Google = NewDemoLibrary(domain.AdPlatformGoogle)
	} else {
		s.Google = NewGoogleLibrary(apiclient.New(log, cfg.ClientOptions...), cfg.SearchAPIBaseURL, cfg.SearchAPIKey, log)
	}

	for _, p := range domain.AdPlatforms() {
		_, demo := s.Get(p).(*DemoLibrary)
		log.Info().Str("platform", p.String()).Bool("demo", demo).Msg("Ad library configured")
	}
	return s
}
