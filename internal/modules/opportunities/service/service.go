package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/gaborage/go-bricks/logger"
	"github.com/google/uuid"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/analyzer"
	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/repository"
	"github.com/gaborage/total-search/internal/modules/shared/validation"
)

const (
	MaxReportKeywords    = 20
	MaxScanKeywords      = 20
	MaxListedReports     = 100
	DefaultListedReports = 20
)

// KeywordProvider supplies cross-platform demand.
type KeywordProvider interface {
	CrossPlatform(ctx context.Context, keyword string, platforms []kw.Platform, country string) (kw.CrossPlatformKeyword, error)
	CrossPlatformBatch(ctx context.Context, keywords []string, platforms []kw.Platform, country string) ([]kw.CrossPlatformKeyword, error)
}

// GapQuery selects the gaps of one keyword, optionally for a single pair.
type GapQuery struct {
	Keyword      string
	HighPlatform string
	LowPlatform  string
	Country      string
}

// GapResult lists the gaps found for a keyword.
type GapResult struct {
	Keyword string                          `json:"keyword"`
	Pair    string                          `json:"pair,omitempty"`
	Gaps    []domain.PlatformGapOpportunity `json:"gaps"`
}

type OpportunityService struct {
	keywords   KeywordProvider
	analyzer   *analyzer.Analyzer
	repository repository.Repository
	logger     logger.Logger
}

func NewService(keywords KeywordProvider, a *analyzer.Analyzer, repo repository.Repository, log logger.Logger) *OpportunityService {
	return &OpportunityService{
		keywords:   keywords,
		analyzer:   a,
		repository: repo,
		logger:     log,
	}
}

// AnalyzeKeyword fetches demand for one keyword across the default
// platforms and runs the full analysis on it.
func (s *OpportunityService) AnalyzeKeyword(ctx context.Context, keyword, country string) (*domain.KeywordAnalysis, error) {
	if err := validateInput(keyword, country); err != nil {
		return nil, err
	}

	data, err := s.keywords.CrossPlatform(ctx, keyword, kw.DefaultPlatforms(), country)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", keyword).Msg("Failed to fetch keyword data")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}

	analysis := s.analyzer.AnalyzeKeyword(data)
	return &analysis, nil
}

// GenerateReport analyzes up to MaxReportKeywords seeds as one batch and
// stores the result. A storage failure is logged; the report is still
// returned.
func (s *OpportunityService) GenerateReport(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error) {
	seeds = validation.CleanKeywords(seeds)
	if err := validation.KeywordList(seeds, MaxReportKeywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	data, err := s.keywords.CrossPlatformBatch(ctx, seeds, kw.DefaultPlatforms(), country)
	if err != nil {
		s.logger.Error().Err(err).Int("keywords", len(seeds)).Msg("Failed to fetch keyword batch")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}

	report := s.analyzer.BuildReport(data)
	report.ID = uuid.New().String()

	if err := s.repository.Save(ctx, &report); err != nil {
		s.logger.Warn().Err(err).Str("reportID", report.ID).Msg("Failed to store opportunity report")
	} else {
		s.logger.Info().
			Str("reportID", report.ID).
			Int("keywords", report.TotalKeywordsAnalyzed).
			Int("gaps", report.Summary.GapOpportunitiesFound).
			Msg("Opportunity report stored")
	}

	return &report, nil
}

// GetReport loads a stored report.
func (s *OpportunityService) GetReport(ctx context.Context, id string) (*domain.OpportunityReport, error) {
	report, err := s.repository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrReportNotFound) {
			return nil, err
		}
		s.logger.Error().Err(err).Str("reportID", id).Msg("Failed to get report")
		return nil, fmt.Errorf("%w: failed to get report: %v", ErrInternal, err)
	}
	return report, nil
}

// ListReports returns the newest stored reports. A zero limit means
// DefaultListedReports.
func (s *OpportunityService) ListReports(ctx context.Context, limit int) ([]*domain.ReportSummary, error) {
	if limit == 0 {
		limit = DefaultListedReports
	}
	if err := validation.Limit(limit, MaxListedReports); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	summaries, err := s.repository.List(ctx, limit)
	if err != nil {
		s.logger.Error().Err(err).Int("limit", limit).Msg("Failed to list reports")
		return nil, fmt.Errorf("%w: failed to list reports: %v", ErrInternal, err)
	}
	return summaries, nil
}

// FindGaps returns the gaps of one keyword. When both platforms of q are
// set only that pair is evaluated, and it must be a strategic pair.
func (s *OpportunityService) FindGaps(ctx context.Context, q GapQuery) (*GapResult, error) {
	if err := validateInput(q.Keyword, q.Country); err != nil {
		return nil, err
	}

	pair, filtered, err := parsePair(q.HighPlatform, q.LowPlatform)
	if err != nil {
		return nil, err
	}

	platforms := kw.DefaultPlatforms()
	if filtered {
		platforms = []kw.Platform{pair.High, pair.Low}
	}

	data, err := s.keywords.CrossPlatform(ctx, q.Keyword, platforms, q.Country)
	if err != nil {
		s.logger.Error().Err(err).Str("keyword", q.Keyword).Msg("Failed to fetch keyword data")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}

	result := &GapResult{Keyword: q.Keyword}
	if filtered {
		result.Pair = pair.String()
		result.Gaps = analyzer.FindGapsForPair(data, pair)
	} else {
		result.Gaps = analyzer.FindPlatformGaps(data)
	}
	if result.Gaps == nil {
		result.Gaps = []domain.PlatformGapOpportunity{}
	}
	return result, nil
}

// FindTrendingMigrations scans the first MaxScanKeywords keywords for
// social demand that has not reached search yet.
func (s *OpportunityService) FindTrendingMigrations(ctx context.Context, keywords []string, country string) (*domain.MigrationReport, error) {
	keywords, err := scanList(keywords, country)
	if err != nil {
		return nil, err
	}

	data, err := s.keywords.CrossPlatformBatch(ctx, keywords, kw.DefaultPlatforms(), country)
	if err != nil {
		s.logger.Error().Err(err).Int("keywords", len(keywords)).Msg("Failed to fetch keyword batch")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}

	report := &domain.MigrationReport{
		KeywordsAnalyzed: len(keywords),
		Migrations:       []domain.TrendMigration{},
	}
	for _, k := range data {
		if m, ok := analyzer.DetectMigration(k); ok {
			report.Migrations = append(report.Migrations, m)
		}
	}
	report.MigrationsDetected = len(report.Migrations)

	return report, nil
}

// FindPlatformUnique returns the seeds whose demand is concentrated on the
// given platform.
func (s *OpportunityService) FindPlatformUnique(ctx context.Context, platform string, seeds []string, country string) (*domain.PlatformUniqueReport, error) {
	p, err := kw.ParsePlatform(platform)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	seeds, err = scanList(seeds, country)
	if err != nil {
		return nil, err
	}

	platforms := kw.DefaultPlatforms()
	if !containsPlatform(platforms, p) {
		platforms = append(platforms, p)
	}

	data, err := s.keywords.CrossPlatformBatch(ctx, seeds, platforms, country)
	if err != nil {
		s.logger.Error().Err(err).Str("platform", p.String()).Msg("Failed to fetch keyword batch")
		return nil, fmt.Errorf("%w: failed to fetch keyword data: %v", ErrInternal, err)
	}

	report := &domain.PlatformUniqueReport{
		Platform:         p,
		KeywordsAnalyzed: len(seeds),
		Keywords:         []domain.UniqueKeyword{},
	}
	for _, k := range data {
		if u, ok := analyzer.FindPlatformUnique(k); ok && u.Platform == p {
			report.Keywords = append(report.Keywords, u)
		}
	}
	report.UniqueKeywordsFound = len(report.Keywords)

	return report, nil
}

func validateInput(keyword, country string) error {
	if err := validation.Keyword(keyword); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// scanList keeps the first MaxScanKeywords keywords; longer lists are not
// an error for the scanning endpoints.
func scanList(keywords []string, country string) ([]string, error) {
	keywords = validation.CleanKeywords(keywords)
	if len(keywords) > MaxScanKeywords {
		keywords = keywords[:MaxScanKeywords]
	}
	if err := validation.KeywordList(keywords, MaxScanKeywords); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	if err := validation.Country(country); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return keywords, nil
}

func parsePair(high, low string) (analyzer.PlatformPair, bool, error) {
	if high == "" && low == "" {
		return analyzer.PlatformPair{}, false, nil
	}
	if high == "" || low == "" {
		return analyzer.PlatformPair{}, false, fmt.Errorf("%w: high_platform and low_platform must be given together", ErrValidation)
	}

	h, err := kw.ParsePlatform(high)
	if err != nil {
		return analyzer.PlatformPair{}, false, fmt.Errorf("%w: %v", ErrValidation, err)
	}
	l, err := kw.ParsePlatform(low)
	if err != nil {
		return analyzer.PlatformPair{}, false, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	pair := analyzer.PlatformPair{High: h, Low: l}
	if !analyzer.IsStrategic(pair) {
		return analyzer.PlatformPair{}, false, fmt.Errorf("%w: %s is not a tracked platform pair", ErrValidation, pair)
	}
	return pair, true, nil
}

func containsPlatform(platforms []kw.Platform, p kw.Platform) bool {
	for _, candidate := range platforms {
		if candidate == p {
			return true
		}
	}
	return false
}
