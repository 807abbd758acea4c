// Package handlers provides HTTP handlers for the opportunities module.
package handlers

import (
	"context"
	"errors"

	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/server"

	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
	"github.com/gaborage/total-search/internal/modules/opportunities/repository"
	"github.com/gaborage/total-search/internal/modules/opportunities/service"
	"github.com/gaborage/total-search/internal/modules/shared/validation"
)

type AnalyzeRequest struct {
	Keyword string `query:"keyword" binding:"required"`
	Country string `query:"country"`
}

type ReportRequest struct {
	SeedKeywords []string `json:"seed_keywords" binding:"required"`
	Country      string   `json:"country"`
}

type GetReportRequest struct {
	ID string `param:"id" binding:"required"`
}

type ListReportsRequest struct {
	Limit int `query:"limit"`
}

type GapsRequest struct {
	Keyword      string `query:"keyword" binding:"required"`
	HighPlatform string `query:"high_platform"`
	LowPlatform  string `query:"low_platform"`
	Country      string `query:"country"`
}

type MigrationsRequest struct {
	Keywords string `query:"keywords" binding:"required"`
	Country  string `query:"country"`
}

type PlatformUniqueRequest struct {
	Platform     string `query:"platform" binding:"required"`
	SeedKeywords string `query:"seed_keywords" binding:"required"`
	Country      string `query:"country"`
}

type ListReportsResponse struct {
	Reports []*domain.ReportSummary `json:"reports"`
	Count   int                     `json:"count"`
}

// OpportunityServiceInterface defines the service contract for handlers
type OpportunityServiceInterface interface {
	AnalyzeKeyword(ctx context.Context, keyword, country string) (*domain.KeywordAnalysis, error)
	GenerateReport(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error)
	GetReport(ctx context.Context, id string) (*domain.OpportunityReport, error)
	ListReports(ctx context.Context, limit int) ([]*domain.ReportSummary, error)
	FindGaps(ctx context.Context, q service.GapQuery) (*service.GapResult, error)
	FindTrendingMigrations(ctx context.Context, keywords []string, country string) (*domain.MigrationReport, error)
	FindPlatformUnique(ctx context.Context, platform string, seeds []string, country string) (*domain.PlatformUniqueReport, error)
}

type OpportunityHandler struct {
	service OpportunityServiceInterface
	logger  logger.Logger
}

func NewOpportunityHandler(s OpportunityServiceInterface, l logger.Logger) *OpportunityHandler {
	return &OpportunityHandler{
		service: s,
		logger:  l,
	}
}

func (h *OpportunityHandler) Analyze(req AnalyzeRequest, ctx server.HandlerContext) (*domain.KeywordAnalysis, server.IAPIError) {
	analysis, err := h.service.AnalyzeKeyword(ctx.Echo.Request().Context(), req.Keyword, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to analyze keyword")
	}
	return analysis, nil
}

func (h *OpportunityHandler) GenerateReport(req ReportRequest, ctx server.HandlerContext) (server.Result[*domain.OpportunityReport], server.IAPIError) {
	report, err := h.service.GenerateReport(ctx.Echo.Request().Context(), req.SeedKeywords, req.Country)
	if err != nil {
		return server.Result[*domain.OpportunityReport]{}, h.apiError(err, "Failed to generate report")
	}
	return server.Created(report), nil
}

func (h *OpportunityHandler) GetReport(req GetReportRequest, ctx server.HandlerContext) (*domain.OpportunityReport, server.IAPIError) {
	report, err := h.service.GetReport(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		return nil, h.apiError(err, "Failed to retrieve report")
	}
	return report, nil
}

func (h *OpportunityHandler) ListReports(req ListReportsRequest, ctx server.HandlerContext) (*ListReportsResponse, server.IAPIError) {
	reports, err := h.service.ListReports(ctx.Echo.Request().Context(), req.Limit)
	if err != nil {
		return nil, h.apiError(err, "Failed to list reports")
	}
	return &ListReportsResponse{Reports: reports, Count: len(reports)}, nil
}

func (h *OpportunityHandler) FindGaps(req GapsRequest, ctx server.HandlerContext) (*service.GapResult, server.IAPIError) {
	result, err := h.service.FindGaps(ctx.Echo.Request().Context(), service.GapQuery{
		Keyword:      req.Keyword,
		HighPlatform: req.HighPlatform,
		LowPlatform:  req.LowPlatform,
		Country:      req.Country,
	})
	if err != nil {
		return nil, h.apiError(err, "Failed to find platform gaps")
	}
	return result, nil
}

func (h *OpportunityHandler) TrendingMigrations(req MigrationsRequest, ctx server.HandlerContext) (*domain.MigrationReport, server.IAPIError) {
	keywords := validation.SplitKeywords(req.Keywords)
	report, err := h.service.FindTrendingMigrations(ctx.Echo.Request().Context(), keywords, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to detect trend migrations")
	}
	return report, nil
}

func (h *OpportunityHandler) PlatformUnique(req PlatformUniqueRequest, ctx server.HandlerContext) (*domain.PlatformUniqueReport, server.IAPIError) {
	seeds := validation.SplitKeywords(req.SeedKeywords)
	report, err := h.service.FindPlatformUnique(ctx.Echo.Request().Context(), req.Platform, seeds, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to find platform-unique keywords")
	}
	return report, nil
}

func (h *OpportunityHandler) apiError(err error, msg string) server.IAPIError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return server.NewBadRequestError(err.Error())
	case errors.Is(err, repository.ErrReportNotFound):
		return server.NewNotFoundError("Report")
	default:
		h.logger.Error().Err(err).Msg(msg)
		return server.NewInternalServerError(msg)
	}
}

// RegisterRoutes registers opportunity-related HTTP routes
func (h *OpportunityHandler) RegisterRoutes(hr *server.HandlerRegistry, r server.RouteRegistrar) {
	server.GET(hr, r, "/opportunities/analyze", h.Analyze, server.WithTags("opportunities"))
	server.POST(hr, r, "/opportunities/report", h.GenerateReport, server.WithTags("opportunities"))
	server.GET(hr, r, "/opportunities/reports", h.ListReports, server.WithTags("opportunities"))
	server.GET(hr, r, "/opportunities/reports/:id", h.GetReport, server.WithTags("opportunities"))
	server.GET(hr, r, "/opportunities/gaps", h.FindGaps, server.WithTags("opportunities"))
	server.GET(hr, r, "/opportunities/trending-migrations", h.TrendingMigrations, server.WithTags("opportunities"))
	server.GET(hr, r, "/opportunities/platform-unique", h.PlatformUnique, server.WithTags("opportunities"))
}
