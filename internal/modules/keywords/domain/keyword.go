package domain

import (
	"encoding/json"
	"math"
)

// CrossPlatformKeyword is one keyword with at most one metric per platform.
// Totals are derived from the map on every call, so they cannot go stale.
type CrossPlatformKeyword struct {
	Keyword   string
	Platforms map[Platform]PlatformMetric
}

// NewCrossPlatformKeyword indexes metrics by their platform. A later metric
// for the same platform replaces an earlier one.
func NewCrossPlatformKeyword(keyword string, metrics ...PlatformMetric) CrossPlatformKeyword {
	kw := CrossPlatformKeyword{
		Keyword:   keyword,
		Platforms: make(map[Platform]PlatformMetric, len(metrics)),
	}
	for _, m := range metrics {
		kw.Platforms[m.Platform] = m
	}
	return kw
}

// Metric returns the metric recorded for p.
func (k CrossPlatformKeyword) Metric(p Platform) (PlatformMetric, bool) {
	m, ok := k.Platforms[p]
	return m, ok
}

// Volume returns the volume on p, or 0 when p has no metric.
func (k CrossPlatformKeyword) Volume(p Platform) int64 {
	return k.Platforms[p].Volume
}

// TotalVolume sums every platform volume.
func (k CrossPlatformKeyword) TotalVolume() int64 {
	var total int64
	for _, m := range k.Platforms {
		total += m.Volume
	}
	return total
}

// OrderedPlatforms lists the platforms present, in declaration order.
func (k CrossPlatformKeyword) OrderedPlatforms() []Platform {
	out := make([]Platform, 0, len(k.Platforms))
	for _, p := range platformOrder {
		if _, ok := k.Platforms[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

// PrimaryPlatform is the platform with the highest volume. Ties go to the
// platform declared first. ok is false for an empty map.
func (k CrossPlatformKeyword) PrimaryPlatform() (p Platform, ok bool) {
	best := int64(math.MinInt64)
	for _, candidate := range k.OrderedPlatforms() {
		if v := k.Platforms[candidate].Volume; v > best {
			best = v
			p = candidate
			ok = true
		}
	}
	return p, ok
}

type crossPlatformKeywordJSON struct {
	Keyword         string                      `json:"keyword"`
	Platforms       map[Platform]PlatformMetric `json:"platforms"`
	TotalVolume     int64                       `json:"total_volume"`
	PrimaryPlatform *Platform                   `json:"primary_platform"`
}

// MarshalJSON includes the derived totals.
func (k CrossPlatformKeyword) MarshalJSON() ([]byte, error) {
	out := crossPlatformKeywordJSON{
		Keyword:     k.Keyword,
		Platforms:   k.Platforms,
		TotalVolume: k.TotalVolume(),
	}
	if out.Platforms == nil {
		out.Platforms = map[Platform]PlatformMetric{}
	}
	if p, ok := k.PrimaryPlatform(); ok {
		out.PrimaryPlatform = &p
	}
	return json.Marshal(out)
}

// UnmarshalJSON ignores the derived fields; they are recomputed on demand.
func (k *CrossPlatformKeyword) UnmarshalJSON(data []byte) error {
	var in crossPlatformKeywordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	k.Keyword = in.Keyword
	k.Platforms = in.Platforms
	return nil
}
