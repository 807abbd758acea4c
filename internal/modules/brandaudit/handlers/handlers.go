// Package handlers provides HTTP handlers for the brand audit module.
package handlers

import (
	"context"
	"errors"

	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/server"

	"github.com/gaborage/total-search/internal/modules/brandaudit/domain"
	"github.com/gaborage/total-search/internal/modules/brandaudit/repository"
	"github.com/gaborage/total-search/internal/modules/brandaudit/service"
	"github.com/gaborage/total-search/internal/modules/shared/validation"
)

type PlatformAdsRequest struct {
	Platform string `param:"platform" binding:"required"`
	Domain   string `query:"domain" binding:"required"`
	Country  string `query:"country"`
}

type AllAdsRequest struct {
	Domain  string `query:"domain" binding:"required"`
	Country string `query:"country"`
}

type CoverageRequest struct {
	Domain   string   `json:"domain" binding:"required"`
	Keywords []string `json:"keywords" binding:"required"`
	Country  string   `json:"country"`
}

type SummaryRequest struct {
	Domain   string `query:"domain" binding:"required"`
	Keywords string `query:"keywords" binding:"required"`
	Country  string `query:"country"`
}

type GetReportRequest struct {
	ID string `param:"id" binding:"required"`
}

type ListReportsRequest struct {
	Domain string `query:"domain" binding:"required"`
	Limit  int    `query:"limit"`
}

type StatsRequest struct {
	Domain string `query:"domain" binding:"required"`
}

type ListReportsResponse struct {
	Reports []*domain.CoverageReportSummary `json:"reports"`
	Count   int                             `json:"count"`
}

// AuditServiceInterface defines the service contract for handlers
type AuditServiceInterface interface {
	AdsForPlatform(ctx context.Context, platform, brandDomain, country string) (*domain.BrandAdLibrary, error)
	AllAds(ctx context.Context, brandDomain, country string) (*domain.BrandAds, error)
	Coverage(ctx context.Context, brandDomain string, keywords []string, country string) (*domain.CoverageReport, error)
	Summary(ctx context.Context, brandDomain string, keywords []string, country string) (*domain.CoverageSummary, error)
	GetReport(ctx context.Context, id string) (*domain.CoverageReport, error)
	ListReports(ctx context.Context, brandDomain string, limit int) ([]*domain.CoverageReportSummary, error)
	Stats(ctx context.Context, brandDomain string) (*domain.BrandStats, error)
}

type AuditHandler struct {
	service AuditServiceInterface
	logger  logger.Logger
}

func NewAuditHandler(s AuditServiceInterface, l logger.Logger) *AuditHandler {
	return &AuditHandler{
		service: s,
		logger:  l,
	}
}

func (h *AuditHandler) PlatformAds(req PlatformAdsRequest, ctx server.HandlerContext) (*domain.BrandAdLibrary, server.IAPIError) {
	lib, err := h.service.AdsForPlatform(ctx.Echo.Request().Context(), req.Platform, req.Domain, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to fetch ads")
	}
	return lib, nil
}

func (h *AuditHandler) AllAds(req AllAdsRequest, ctx server.HandlerContext) (*domain.BrandAds, server.IAPIError) {
	ads, err := h.service.AllAds(ctx.Echo.Request().Context(), req.Domain, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to fetch ads")
	}
	return ads, nil
}

func (h *AuditHandler) Coverage(req CoverageRequest, ctx server.HandlerContext) (server.Result[*domain.CoverageReport], server.IAPIError) {
	report, err := h.service.Coverage(ctx.Echo.Request().Context(), req.Domain, req.Keywords, req.Country)
	if err != nil {
		return server.Result[*domain.CoverageReport]{}, h.apiError(err, "Failed to audit brand coverage")
	}
	return server.Created(report), nil
}

func (h *AuditHandler) Summary(req SummaryRequest, ctx server.HandlerContext) (*domain.CoverageSummary, server.IAPIError) {
	keywords := validation.SplitKeywords(req.Keywords)
	summary, err := h.service.Summary(ctx.Echo.Request().Context(), req.Domain, keywords, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to summarize brand coverage")
	}
	return summary, nil
}

func (h *AuditHandler) GetReport(req GetReportRequest, ctx server.HandlerContext) (*domain.CoverageReport, server.IAPIError) {
	report, err := h.service.GetReport(ctx.Echo.Request().Context(), req.ID)
	if err != nil {
		return nil, h.apiError(err, "Failed to retrieve coverage report")
	}
	return report, nil
}

func (h *AuditHandler) ListReports(req ListReportsRequest, ctx server.HandlerContext) (*ListReportsResponse, server.IAPIError) {
	reports, err := h.service.ListReports(ctx.Echo.Request().Context(), req.Domain, req.Limit)
	if err != nil {
		return nil, h.apiError(err, "Failed to list coverage reports")
	}
	return &ListReportsResponse{Reports: reports, Count: len(reports)}, nil
}

func (h *AuditHandler) Stats(req StatsRequest, ctx server.HandlerContext) (*domain.BrandStats, server.IAPIError) {
	stats, err := h.service.Stats(ctx.Echo.Request().Context(), req.Domain)
	if err != nil {
		return nil, h.apiError(err, "Failed to get brand stats")
	}
	return stats, nil
}

func (h *AuditHandler) apiError(err error, msg string) server.IAPIError {
	switch {
	case errors.Is(err, service.ErrValidation):
		return server.NewBadRequestError(err.Error())
	case errors.Is(err, repository.ErrCoverageReportNotFound):
		return server.NewNotFoundError("Coverage report")
	default:
		h.logger.Error().Err(err).Msg(msg)
		return server.NewInternalServerError(msg)
	}
}

// RegisterRoutes registers brand audit HTTP routes
func (h *AuditHandler) RegisterRoutes(hr *server.HandlerRegistry, r server.RouteRegistrar) {
	server.GET(hr, r, "/brand-audit/ads", h.AllAds, server.WithTags("brand-audit"))
	server.GET(hr, r, "/brand-audit/ads/:platform", h.PlatformAds, server.WithTags("brand-audit"))
	server.POST(hr, r, "/brand-audit/coverage", h.Coverage, server.WithTags("brand-audit"))
	server.GET(hr, r, "/brand-audit/summary", h.Summary, server.WithTags("brand-audit"))
	server.GET(hr, r, "/brand-audit/reports", h.ListReports, server.WithTags("brand-audit"))
	server.GET(hr, r, "/brand-audit/reports/:id", h.GetReport, server.WithTags("brand-audit"))
	server.GET(hr, r, "/brand-audit/stats", h.Stats, server.WithTags("brand-audit"))
}
