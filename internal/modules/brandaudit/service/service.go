// Package service orchestrates ad library lookups, keyword demand and the
// coverage auditor.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gaborage/go-bricks/logger"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/gaborage/total-search/internal/modules/brandaudit/adlibrary"
	"github.com/gaborage/total-search/internal/modules/brandaudit/auditor"
	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	"github.com/gaborage/total-search/internal/modules/brandaudit/repository"
	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/shared/validation"
)

const (
	MaxAuditKeywords     = 20
	AdsPerPlatform       = 10
	MaxListedReports     = 100
	DefaultListedReports = 20
)

// KeywordProvider supplies cross-platform demand.
type KeywordProvider interface {
	CrossPlatformBatch(ctx context.Context, keywords []string, platforms []kw.Platform, country string) ([]kw.CrossPlatformKeyword, error)
}

type AuditService struct {
	keywords   KeywordProvider
	libraries  adlibrary.Sources
	repository repository.Repository
	logger     logger.Logger
	now        func() time.Time
}

func NewService(keywords KeywordProvider, libs adlibrary.Sources, repo repository.Repository, log logger.Logger) *AuditService {
	return &AuditService{
		keywords:   keywords,
		libraries:  libs,
		repository: repo,
		logger:     log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// AdsForPlatform returns the brand's ads from one ad library.
func (s *AuditService) AdsForPlatform(ctx context.Context, platform, brandDomain, country string) (*domain.BrandAdLibrary, error) {
	p, err := domain.ParseAdPlatform(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	brandDomain, err = checkDomain(brandDomain, country)
	if err != nil {
		return nil, err
	}

	lib, err := s.libraries.Get(p).AdsByDomain(ctx, brandDomain, country)
	if err != nil {
		s.logger.Error().Err(err).Str("platform", p.String()).Str("domain", brandDomain).Msg("Failed to fetch ad library")
		return nil, fmt.Errorf("%w: failed to fetch %s ads: %v", ErrInternal, p, err)
	}
	return &lib, nil
}

// AllAds queries every ad library and keeps the first AdsPerPlatform ads
// of each.
func (s *AuditService) AllAds(ctx context.Context, brandDomain, country string) (*domain.BrandAds, error) {
	brandDomain, err := checkDomain(brandDomain, country)
	if err != nil {
		return nil, err
	}

	libs, err := s.fetchLibraries(ctx, brandDomain, country)
	if err != nil {
		return nil, err
	}

	ads := auditor.AllAds(brandDomain, libs, AdsPerPlatform)
	return &ads, nil
}

// Coverage audits up to MaxAuditKeywords keywords against the brand's ads
// and stores the report. A storage failure is logged; the report is still
// returned.
func (s *AuditService) Coverage(ctx context.Context, brandDomain string, keywords []string, country string) (*domain.CoverageReport, error) {
	brandDomain, err := checkDomain(brandDomain, country)
	if err != nil {
		return nil, err
	}
	keywords = validation.CleanKeywords(keywords)
	if err := validation.KeywordList(keywords, MaxAuditKeywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	libs, demand, err := s.gather(ctx, brandDomain, keywords, country)
	if err != nil {
		return nil, err
	}

	// Audits are keyed by domain; the display name lives on the report only.
	audits := auditor.AuditAll(brandDomain, demand, libs)
	report := auditor.BuildReport(brandDomain, audits, libs, s.now())
	report.ID = uuid.New().String()
	report.BrandName = brandName(libs, brandDomain)

	if err := s.repository.Save(ctx, &report); err != nil {
		s.logger.Warn().Err(err).Str("reportID", report.ID).Msg("Failed to store coverage report")
	} else {
		s.logger.Info().
			Str("reportID", report.ID).
			Str("domain", brandDomain).
			Int("keywords", report.TotalKeywordsAnalyzed).
			Int("gaps", report.KeywordsWithGaps).
			Msg("Coverage report stored")
	}

	return &report, nil
}

// Summary totals demand across the first MaxAuditKeywords keywords and
// reports the brand's presence in each ad library.
func (s *AuditService) Summary(ctx context.Context, brandDomain string, keywords []string, country string) (*domain.CoverageSummary, error) {
	brandDomain, err := checkDomain(brandDomain, country)
	if err != nil {
		return nil, err
	}
	keywords = validation.CleanKeywords(keywords)
	if len(keywords) > MaxAuditKeywords {
		keywords = keywords[:MaxAuditKeywords]
	}
	if err := validation.KeywordList(keywords, MaxAuditKeywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	libs, demand, err := s.gather(ctx, brandDomain, keywords, country)
	if err != nil {
		return nil, err
	}

	summary := auditor.Summarize(brandDomain, demand, libs)
	return &summary, nil
}

func (s *AuditService) GetReport(ctx context.Context, id string) (*domain.CoverageReport, error) {
	report, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCoverageReportNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("reportID", id).Msg("Failed to get coverage report")
		return nil, fmt.Errorf("%w: failed to get coverage report: %v", ErrInternal, err)
	}
	return report, nil
}

// ListReports returns a brand's stored reports, newest first. A zero limit
// means DefaultListedReports.
func (s *AuditService) ListReports(ctx context.Context, brandDomain string, limit int) ([]*domain.CoverageReportSummary, error) {
	brandDomain, err := checkDomain(brandDomain, "")
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		limit = DefaultListedReports
	}
	if err := validation.Limit(limit, MaxListedReports); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	summaries, err := s.repository.ListByDomain(ctx, brandDomain, limit)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", brandDomain).Msg("Failed to list coverage reports")
		return nil, fmt.Errorf("%w: failed to list coverage reports: %v", ErrInternal, err)
	}
	return summaries, nil
}

func (s *AuditService) Stats(ctx context.Context, brandDomain string) (*domain.BrandStats, error) {
	brandDomain, err := checkDomain(brandDomain, "")
	if err != nil {
		return nil, err
	}

	stats, err := s.repository.Stats(ctx, brandDomain)
	if err != nil {
		s.logger.Error().Err(err).Str("domain", brandDomain).Msg("Failed to get brand stats")
		return nil, fmt.Errorf("%w: failed to get brand stats: %v", ErrInternal, err)
	}
	return stats, nil
}

// gather fetches the ad libraries and the keyword demand concurrently.
func (s *AuditService) gather(ctx context.Context, brandDomain string, keywords []string, country string) (auditor.Libraries, []kw.CrossPlatformKeyword, error) {
	var (
		libs   auditor.Libraries
		demand []kw.CrossPlatformKeyword
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		libs, err = s.fetchLibraries(gctx, brandDomain, country)
		return err
	})
	g.Go(func() error {
		var err error
		demand, err = s.keywords.CrossPlatformBatch(gctx, keywords, nil, country)
		if err != nil {
			s.logger.Error().Err(err).Int("keywords", len(keywords)).Msg("Failed to fetch keyword batch")
			return fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return auditor.Libraries{}, nil, err
	}
	return libs, demand, nil
}

// fetchLibraries queries the three ad libraries in parallel. Any failure
// fails the whole lookup.
func (s *AuditService) fetchLibraries(ctx context.Context, brandDomain, country string) (auditor.Libraries, error) {
	var libs auditor.Libraries
	targets := map[domain.AdPlatform]*domain.BrandAdLibrary{
		domain.AdPlatformMeta:   &libs.Meta,
		domain.AdPlatformTikTok: &libs.TikTok,
		domain.AdPlatformGoogle: &libs.Google,
	}

	g, gctx := errgroup.WithContext(ctx)
	for p, dst := range targets {
		source := s.libraries.Get(p)
		g.Go(func() error {
			lib, err := source.AdsByDomain(gctx, brandDomain, country)
			if err != nil {
				s.logger.Error().Err(err).Str("platform", p.String()).Str("domain", brandDomain).Msg("Failed to fetch ad library")
				return fmt.Errorf("%w: failed to fetch %s ads: %v", ErrInternal, p, err)
			}
			*dst = lib
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return auditor.Libraries{}, err
	}
	return libs, nil
}

// brandName prefers the name an ad library resolved over the domain.
func brandName(libs auditor.Libraries, brandDomain string) string {
	for _, p := range domain.AdPlatforms() {
		if name := libs.Get(p).BrandName; name != "" {
			return name
		}
	}
	return adlibrary.BrandName(brandDomain)
}

func checkDomain(brandDomain, country string) (string, error) {
	brandDomain = adlibrary.NormalizeDomain(brandDomain)
	if err := validation.Domain(brandDomain); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return "", fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return brandDomain, nil
}
