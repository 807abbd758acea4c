package provider

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	kw "github.com/gaborage/total-search/internal/modules/keywords/domain"
)

// batchConcurrency bounds the keywords fetched at once by CrossPlatformBatch.
const batchConcurrency = 4

// CrossPlatform fetches the keyword on every platform in parallel. A
// platform that fails is logged and left out of the record. Nil platforms
// means the default set.
func (c *Client) CrossPlatform(ctx context.Context, keyword string, platforms []kw.Platform, country string) (kw.CrossPlatformKeyword, error) {
	if len(platforms) == 0 {
		platforms = kw.DefaultPlatforms()
	}
	if c.DemoMode() {
		return c.demo.crossPlatform(keyword, platforms), nil
	}

	var (
		mu      sync.Mutex
		metrics []kw.PlatformMetric
	)
	lookup := strings.ToLower(keyword)

	g, gctx := errgroup.WithContext(ctx)
	for _, p := range platforms {
		g.Go(func() error {
			result, err := c.Volumes(gctx, []string{keyword}, p, country)
			if err != nil {
				c.logger.Warn().Err(err).Str("platform", p.String()).Str("keyword", keyword).Msg("Platform fetch failed, omitting")
				return nil
			}
			if m, ok := result[lookup]; ok {
				mu.Lock()
				metrics = append(metrics, m)
				mu.Unlock()
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return kw.CrossPlatformKeyword{}, err
	}
	if err := ctx.Err(); err != nil {
		return kw.CrossPlatformKeyword{}, err
	}

	return kw.NewCrossPlatformKeyword(keyword, metrics...), nil
}

// CrossPlatformBatch fetches each keyword with CrossPlatform, keeping the
// input order.
func (c *Client) CrossPlatformBatch(ctx context.Context, keywords []string, platforms []kw.Platform, country string) ([]kw.CrossPlatformKeyword, error) {
	out := make([]kw.CrossPlatformKeyword, len(keywords))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i, keyword := range keywords {
		g.Go(func() error {
			record, err := c.CrossPlatform(gctx, keyword, platforms, country)
			if err != nil {
				return err
			}
			out[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
