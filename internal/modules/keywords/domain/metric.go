package domain

// TrendDirection classifies how a 12 month trend moved.
type TrendDirection string

const (
	TrendGrowing          TrendDirection = "growing"
	TrendDeclining        TrendDirection = "declining"
	TrendStable           TrendDirection = "stable"
	TrendInsufficientData TrendDirection = "insufficient_data"
)

const (
	// TrendWindow is the number of leading points that form the first half.
	TrendWindow = 6

	growthFactor  = 1.1
	declineFactor = 0.9
)

// PlatformMetric is the demand record of one keyword on one platform.
type PlatformMetric struct {
	Platform    Platform `json:"platform"`
	Volume      int64    `json:"volume"`
	Trend       []int64  `json:"trend"`
	CPC         *float64 `json:"cpc"`
	Competition *float64 `json:"competition"`
	IsEstimated bool     `json:"is_estimated"`
}

// NewPlatformMetric builds a metric, deriving IsEstimated from the platform.
func NewPlatformMetric(p Platform, volume int64, trend []int64) PlatformMetric {
	return PlatformMetric{
		Platform:    p,
		Volume:      volume,
		Trend:       trend,
		IsEstimated: !p.HasPreciseVolume(),
	}
}

// TrendDirection compares the mean of the first six points with the mean
// of the rest.
func (m PlatformMetric) TrendDirection() TrendDirection {
	first, second, ok := TrendHalves(m.Trend)
	if !ok {
		return TrendInsufficientData
	}
	return ClassifyTrend(first, second)
}

// TrendHalves returns the mean of the first TrendWindow points and the mean
// of the remaining points. The second mean is 0 when nothing remains.
func TrendHalves(trend []int64) (first, second float64, ok bool) {
	if len(trend) < TrendWindow {
		return 0, 0, false
	}

	var head int64
	for _, v := range trend[:TrendWindow] {
		head += v
	}

	rest := trend[TrendWindow:]
	var tail int64
	for _, v := range rest {
		tail += v
	}

	return float64(head) / TrendWindow, float64(tail) / float64(max(len(rest), 1)), true
}

func ClassifyTrend(first, second float64) TrendDirection {
	switch {
	case second > first*growthFactor:
		return TrendGrowing
	case second < first*declineFactor:
		return TrendDeclining
	default:
		return TrendStable
	}
}
