// Package analyzer scores cross-platform keyword demand: strategic platform
// gaps, platform-unique keywords, trend direction and batch reports. All
// functions are pure over their inputs and safe for concurrent use.
package analyzer

import (
	"time"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

// Analyzer builds keyword analyses and reports. The clock only stamps
// report timestamps.
type Analyzer struct {
	now func() time.Time
}

type Option func(*Analyzer)

// WithClock overrides the clock used for report timestamps.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		a.now = now
	}
}

func New(opts ...Option) *Analyzer {
	a := &Analyzer{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// AnalyzeKeyword runs every single-keyword analysis on k.
func (a *Analyzer) AnalyzeKeyword(k kw.CrossPlatformKeyword) domain.KeywordAnalysis {
	gaps := FindPlatformGaps(k)
	if gaps == nil {
		gaps = []domain.PlatformGapOpportunity{}
	}

	platforms := make(map[kw.Platform]domain.PlatformSnapshot, len(k.Platforms))
	for p, m := range k.Platforms {
		platforms[p] = domain.PlatformSnapshot{
			Volume:         m.Volume,
			CPC:            m.CPC,
			Competition:    m.Competition,
			TrendDirection: m.TrendDirection(),
		}
	}

	analysis := domain.KeywordAnalysis{
		Keyword:                  k.Keyword,
		TotalVolume:              k.TotalVolume(),
		Platforms:                platforms,
		PlatformGaps:             gaps,
		UniquenessClassification: ClassifyUniqueness(k.Keyword),
		TrendAnalysis:            AnalyzeTrends(k),
		OpportunityScore:         OpportunityScore(k, gaps),
	}
	if p, ok := k.PrimaryPlatform(); ok {
		analysis.PrimaryPlatform = &p
	}
	return analysis
}
