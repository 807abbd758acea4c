package provider

import (
	_ "embed"
	"encoding/json"
	"strings"

	"github.com/gaborage/go-bricks/logger"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

//go:embed demodata/keywords_sample.json
var demoJSON []byte

type demoFile struct {
	Keywords []demoKeyword `json:"keywords"`
}

type demoKeyword struct {
	Keyword   string                `json:"keyword"`
	Platforms map[string]apiMetrics `json:"platforms"`
}

// demoSet is the parsed sample dataset, in file order.
type demoSet struct {
	keywords []demoKeyword
}

func loadDemoSet(log logger.Logger) *demoSet {
	set, err := parseDemoSet(demoJSON)
	if err != nil {
		log.Error().Err(err).Msg("Failed to parse demo keyword data, serving empty results")
		return &demoSet{}
	}
	return set
}

func parseDemoSet(raw []byte) (*demoSet, error) {
	var f demoFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return &demoSet{keywords: f.Keywords}, nil
}

func (d *demoSet) size() int {
	return len(d.keywords)
}

// suggestions returns every sample keyword containing the seed that has
// data on the platform.
func (d *demoSet) suggestions(seed string, platform kw.Platform) []kw.KeywordSuggestion {
	seed = strings.ToLower(seed)
	out := []kw.KeywordSuggestion{}
	for _, k := range d.keywords {
		if !strings.Contains(strings.ToLower(k.Keyword), seed) {
			continue
		}
		item, ok := k.Platforms[platform.String()]
		if !ok {
			continue
		}
		out = append(out, kw.KeywordSuggestion{
			Keyword:     k.Keyword,
			Platform:    platform,
			Volume:      item.Volume,
			Trend:       []int64(item.Trend),
			CPC:         item.CPC,
			Competition: item.Competition,
		})
	}
	return out
}

func (d *demoSet) volumes(keywords []string, platform kw.Platform) map[string]kw.PlatformMetric {
	wanted := make(map[string]bool, len(keywords))
	for _, k := range keywords {
		wanted[strings.ToLower(k)] = true
	}

	out := map[string]kw.PlatformMetric{}
	for _, k := range d.keywords {
		name := strings.ToLower(k.Keyword)
		if !wanted[name] {
			continue
		}
		if item, ok := k.Platforms[platform.String()]; ok {
			out[name] = toMetric(platform, item)
		}
	}
	return out
}

// crossPlatform returns the sample record restricted to platforms. An
// unknown keyword yields an empty record.
func (d *demoSet) crossPlatform(keyword string, platforms []kw.Platform) kw.CrossPlatformKeyword {
	name := strings.ToLower(keyword)
	for _, k := range d.keywords {
		if strings.ToLower(k.Keyword) != name {
			continue
		}
		var metrics []kw.PlatformMetric
		for _, p := range platforms {
			if item, ok := k.Platforms[p.String()]; ok {
				metrics = append(metrics, toMetric(p, item))
			}
		}
		return kw.NewCrossPlatformKeyword(keyword, metrics...)
	}
	return kw.NewCrossPlatformKeyword(keyword)
}
