// Package handlers provides HTTP handlers for the keywords module.
package handlers

import (
	"context"
	"errors"

	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/server"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
	"github.com/gaborage/total-search/internal/modules/keywords/service"
	"github.com/gaborage/total-search/internal/modules/shared/validation"
)

type SuggestionsRequest struct {
	Platform string `param:"platform" binding:"required"`
	Keyword  string `query:"keyword" binding:"required"`
	Country  string `query:"country"`
	Language string `query:"language"`
}

type CrossPlatformRequest struct {
	Keyword   string `query:"keyword" binding:"required"`
	Platforms string `query:"platforms"`
	Country   string `query:"country"`
}

type BatchRequest struct {
	Keywords  []string `json:"keywords" binding:"required"`
	Platforms []string `json:"platforms"`
	Country   string   `json:"country"`
}

type VolumeRequest struct {
	Platform string `param:"platform" binding:"required"`
	Keywords string `query:"keywords" binding:"required"`
	Country  string `query:"country"`
}

type PlatformsRequest struct{}

type SuggestionsResponse struct {
	Suggestions []kw.KeywordSuggestion `json:"suggestions"`
	Count       int                    `json:"count"`
}

type BatchResponse struct {
	Keywords []kw.CrossPlatformKeyword `json:"keywords"`
	Count    int                       `json:"count"`
}

type PlatformsResponse struct {
	Platforms []service.PlatformInfo `json:"platforms"`
}

// KeywordServiceInterface defines the service contract for handlers
type KeywordServiceInterface interface {
	Suggestions(ctx context.Context, keyword, platform, country, language string) ([]kw.KeywordSuggestion, error)
	CrossPlatform(ctx context.Context, keyword, platforms, country string) (*kw.CrossPlatformKeyword, error)
	Batch(ctx context.Context, keywords, platforms []string, country string) ([]kw.CrossPlatformKeyword, error)
	Volume(ctx context.Context, platform string, keywords []string, country string) (*service.VolumeResult, error)
	Platforms() []service.PlatformInfo
}

type KeywordHandler struct {
	service KeywordServiceInterface
	logger  logger.Logger
}

func NewKeywordHandler(s KeywordServiceInterface, l logger.Logger) *KeywordHandler {
	return &KeywordHandler{
		service: s,
		logger:  l,
	}
}

func (h *KeywordHandler) Suggestions(req SuggestionsRequest, ctx server.HandlerContext) (*SuggestionsResponse, server.IAPIError) {
	suggestions, err := h.service.Suggestions(ctx.Echo.Request().Context(), req.Keyword, req.Platform, req.Country, req.Language)
	if err != nil {
		return nil, h.apiError(err, "Failed to fetch suggestions")
	}
	return &SuggestionsResponse{Suggestions: suggestions, Count: len(suggestions)}, nil
}

func (h *KeywordHandler) CrossPlatform(req CrossPlatformRequest, ctx server.HandlerContext) (*kw.CrossPlatformKeyword, server.IAPIError) {
	record, err := h.service.CrossPlatform(ctx.Echo.Request().Context(), req.Keyword, req.Platforms, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to fetch keyword data")
	}
	return record, nil
}

func (h *KeywordHandler) Batch(req BatchRequest, ctx server.HandlerContext) (*BatchResponse, server.IAPIError) {
	records, err := h.service.Batch(ctx.Echo.Request().Context(), req.Keywords, req.Platforms, req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to fetch keyword batch")
	}
	return &BatchResponse{Keywords: records, Count: len(records)}, nil
}

func (h *KeywordHandler) Volume(req VolumeRequest, ctx server.HandlerContext) (*service.VolumeResult, server.IAPIError) {
	result, err := h.service.Volume(ctx.Echo.Request().Context(), req.Platform, validation.SplitKeywords(req.Keywords), req.Country)
	if err != nil {
		return nil, h.apiError(err, "Failed to fetch volumes")
	}
	return result, nil
}

// Platforms lists the tracked platforms. The route is registered raw so
// clients receive the bare {"platforms": [...]} document.
func (h *KeywordHandler) Platforms(_ PlatformsRequest, _ server.HandlerContext) (*PlatformsResponse, server.IAPIError) {
	return &PlatformsResponse{Platforms: h.service.Platforms()}, nil
}

func (h *KeywordHandler) apiError(err error, msg string) server.IAPIError {
	if errors.Is(err, service.ErrValidation) {
		return server.NewBadRequestError(err.Error())
	}
	h.logger.Error().Err(err).Msg(msg)
	return server.NewInternalServerError(msg)
}

// RegisterRoutes registers keyword-related HTTP routes
func (h *KeywordHandler) RegisterRoutes(hr *server.HandlerRegistry, r server.RouteRegistrar) {
	server.GET(hr, r, "/keywords/suggestions/:platform", h.Suggestions, server.WithTags("keywords"))
	server.GET(hr, r, "/keywords/cross-platform", h.CrossPlatform, server.WithTags("keywords"))
	server.POST(hr, r, "/keywords/batch", h.Batch, server.WithTags("keywords"))
	server.GET(hr, r, "/keywords/volume/:platform", h.Volume, server.WithTags("keywords"))
	server.GET(hr, r, "/keywords/platforms", h.Platforms,
		server.WithRawResponse(),
		server.WithTags("keywords"),
	)
}
