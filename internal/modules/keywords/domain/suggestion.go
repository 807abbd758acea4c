package domain

import "math"

// KeywordSuggestion is an autocomplete result from a single platform.
type KeywordSuggestion struct {
	Keyword     string   `json:"keyword"`
	Platform    Platform `json:"platform"`
	Volume      *int64   `json:"volume"`
	Trend       []int64  `json:"trend"`
	CPC         *float64 `json:"cpc"`
	Competition *float64 `json:"competition"`
}

// VolumeRatio returns a/b. It is +Inf when only b is zero and 0 when both are.
func VolumeRatio(a, b int64) float64 {
	if b == 0 {
		if a > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return float64(a) / float64(b)
}
