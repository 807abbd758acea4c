// Package domain holds the keyword demand model shared by every module:
// the closed set of tracked platforms and the per-platform volume records.
package domain

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownPlatform = errors.New("unknown platform")

// Platform identifies one of the search, social, commerce or app-store
// surfaces keyword demand is tracked on.
type Platform string

const (
	PlatformGoogle     Platform = "google"
	PlatformYouTube    Platform = "youtube"
	PlatformTikTok     Platform = "tiktok"
	PlatformInstagram  Platform = "instagram"
	PlatformPinterest  Platform = "pinterest"
	PlatformAmazon     Platform = "amazon"
	PlatformTwitter    Platform = "twitter"
	PlatformBing       Platform = "bing"
	PlatformEbay       Platform = "ebay"
	PlatformAppStore   Platform = "app_store"
	PlatformPlayStore  Platform = "play_store"
	PlatformEtsy       Platform = "etsy"
	PlatformNaver      Platform = "naver"
	PlatformPerplexity Platform = "perplexity"
)

const (
	VolumeSourcePlanner     = "Keyword Planner"
	VolumeSourceClickstream = "Clickstream"
)

type platformInfo struct {
	name          string
	endpoint      string
	preciseVolume bool
}

// platformOrder is the declaration order. It breaks ties wherever a
// single platform has to be picked.
var platformOrder = []Platform{
	PlatformGoogle,
	PlatformYouTube,
	PlatformTikTok,
	PlatformInstagram,
	PlatformPinterest,
	PlatformAmazon,
	PlatformTwitter,
	PlatformBing,
	PlatformEbay,
	PlatformAppStore,
	PlatformPlayStore,
	PlatformEtsy,
	PlatformNaver,
	PlatformPerplexity,
}

var platformTable = map[Platform]platformInfo{
	PlatformGoogle:     {name: "Google", endpoint: "google", preciseVolume: true},
	PlatformYouTube:    {name: "Youtube", endpoint: "youtube"},
	PlatformTikTok:     {name: "Tiktok", endpoint: "tiktok"},
	PlatformInstagram:  {name: "Instagram", endpoint: "instagram"},
	PlatformPinterest:  {name: "Pinterest", endpoint: "pinterest"},
	PlatformAmazon:     {name: "Amazon", endpoint: "amazon"},
	PlatformTwitter:    {name: "Twitter", endpoint: "twitter"},
	PlatformBing:       {name: "Bing", endpoint: "bing", preciseVolume: true},
	PlatformEbay:       {name: "Ebay", endpoint: "ebay"},
	PlatformAppStore:   {name: "App Store", endpoint: "appstore"},
	PlatformPlayStore:  {name: "Play Store", endpoint: "playstore"},
	PlatformEtsy:       {name: "Etsy", endpoint: "etsy"},
	PlatformNaver:      {name: "Naver", endpoint: "naver"},
	PlatformPerplexity: {name: "Perplexity", endpoint: "perplexity"},
}

// defaultPlatforms are fetched when a caller does not name any.
var defaultPlatforms = []Platform{
	PlatformGoogle,
	PlatformYouTube,
	PlatformTikTok,
	PlatformInstagram,
	PlatformAmazon,
	PlatformPinterest,
}

// Platforms returns every platform in declaration order.
func Platforms() []Platform {
	out := make([]Platform, len(platformOrder))
	copy(out, platformOrder)
	return out
}

// DefaultPlatforms returns the platforms queried when none are requested.
func DefaultPlatforms() []Platform {
	out := make([]Platform, len(defaultPlatforms))
	copy(out, defaultPlatforms)
	return out
}

// ParsePlatform accepts a platform id or its API endpoint alias
// (e.g. "appstore"), case-insensitively.
func ParsePlatform(s string) (Platform, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if _, ok := platformTable[Platform(v)]; ok {
		return Platform(v), nil
	}
	for _, p := range platformOrder {
		if platformTable[p].endpoint == v {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPlatform, s)
}

// ParsePlatformList parses a comma separated list. An empty string yields nil.
func ParsePlatformList(s string) ([]Platform, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	var out []Platform
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		p, err := ParsePlatform(part)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (p Platform) String() string {
	return string(p)
}

// Valid reports whether p is one of the tracked platforms.
func (p Platform) Valid() bool {
	_, ok := platformTable[p]
	return ok
}

// Name is the human readable platform name.
func (p Platform) Name() string {
	return platformTable[p].name
}

// Endpoint is the path segment used by the keyword data API.
func (p Platform) Endpoint() string {
	return platformTable[p].endpoint
}

// HasPreciseVolume reports whether volumes come from a keyword planner
// rather than clickstream estimates.
func (p Platform) HasPreciseVolume() bool {
	return platformTable[p].preciseVolume
}

func (p Platform) VolumeSource() string {
	if p.HasPreciseVolume() {
		return VolumeSourcePlanner
	}
	return VolumeSourceClickstream
}

// Index is the declaration position of p, or -1 for unknown values.
func (p Platform) Index() int {
	for i, candidate := range platformOrder {
		if candidate == p {
			return i
		}
	}
	return -1
}
