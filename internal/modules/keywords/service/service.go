package service

import (
	"context"
	"fmt"

	"github.com/gaborage/go-bricks/logger"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/keywords/provider"
	"github.com/gaborage/total-search/internal/modules/shared/validation"
)

const (
	MaxBatchKeywords  = 50
	MaxVolumeKeywords = 100
)

// VolumeResult is the per-keyword demand on one platform.
type VolumeResult struct {
	Platform kw.Platform                  `json:"platform"`
	Keywords map[string]kw.PlatformMetric `json:"keywords"`
}

// PlatformInfo describes a tracked platform and where its volumes come from.
type PlatformInfo struct {
	ID               kw.Platform `json:"id"`
	Name             string      `json:"name"`
	HasPreciseVolume bool        `json:"has_precise_volume"`
	VolumeSource     string      `json:"volume_source"`
}

type KeywordService struct {
	provider provider.Provider
	logger   logger.Logger
}

func NewService(p provider.Provider, log logger.Logger) *KeywordService {
	return &KeywordService{
		provider: p,
		logger:   log,
	}
}

// Suggestions returns autocomplete suggestions for keyword on one platform.
func (s *KeywordService) Suggestions(ctx context.Context, keyword, platform, country, language string) ([]kw.KeywordSuggestion, error) {
	if err := validation.Keyword(keyword); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p, err := parseInput(platform, country)
	if err != nil {
		return nil, err
	}

	out, err := s.provider.Suggestions(ctx, keyword, p, country, language)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Str("platform", p.String()).Msg("Failed to fetch suggestions")
		return nil, fmt.Errorf("%w: failed to fetch suggestions: %v", ErrInternal, err)
	}
	return out, nil
}

// CrossPlatform returns one keyword across the comma separated platforms,
// or across the default platforms when none are given.
func (s *KeywordService) CrossPlatform(ctx context.Context, keyword, platforms, country string) (*kw.CrossPlatformKeyword, error) {
	if err := validation.Keyword(keyword); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	list, err := kw.ParsePlatformList(platforms)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid platform: %v", ErrValidation, err)
	}

	record, err := s.provider.CrossPlatform(ctx, keyword, list, country)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("Failed to fetch cross-platform data")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}
	return &record, nil
}

// Batch returns cross-platform records for up to MaxBatchKeywords keywords.
func (s *KeywordService) Batch(ctx context.Context, keywords, platforms []string, country string) ([]kw.CrossPlatformKeyword, error) {
	keywords = validation.CleanKeywords(keywords)
	if err := validation.KeywordList(keywords, MaxBatchKeywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var list []kw.Platform
	for _, raw := range platforms {
		p, err := kw.ParsePlatform(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid platform: %v", ErrValidation, err)
		}
		list = append(list, p)
	}

	records, err := s.provider.CrossPlatformBatch(ctx, keywords, list, country)
	if err != nil {
		s.logger.Error().Err(err).Int("keywords", len(keywords)).Msg("Failed to fetch keyword batch")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}
	return records, nil
}

// Volume returns the demand of up to MaxVolumeKeywords keywords on one
// platform.
func (s *KeywordService) Volume(ctx context.Context, platform string, keywords []string, country string) (*VolumeResult, error) {
	keywords = validation.CleanKeywords(keywords)
	if err := validation.KeywordList(keywords, MaxVolumeKeywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	p, err := parseInput(platform, country)
	if err != nil {
		return nil, err
	}

	volumes, err := s.provider.Volumes(ctx, keywords, p, country)
	if err != nil {
		s.logger.Error().Err(err).Str("platform", p.String()).Int("keywords", len(keywords)).Msg("Failed to fetch volumes")
		return nil, fmt.Errorf("%w: failed to fetch volumes: %v", ErrInternal, err)
	}
	return &VolumeResult{Platform: p, Keywords: volumes}, nil
}

// Platforms lists every tracked platform in declaration order.
func (s *KeywordService) Platforms() []PlatformInfo {
	all := kw.Platforms()
	out := make([]PlatformInfo, 0, len(all))
	for _, p := range all {
		out = append(out, PlatformInfo{
			ID:               p,
			Name:             p.Name(),
			HasPreciseVolume: p.HasPreciseVolume(),
			VolumeSource:     p.VolumeSource(),
		})
	}
	return out
}

func parseInput(platform, country string) (kw.Platform, error) {
	p, err := kw.ParsePlatform(platform)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return p, nil
}
