package job

import (
	"context"
	"errors"
	"testing"

	"github.com/gaborage/go-bricks/config"
	"github.com/gaborage/go-bricks/database/types"
	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/messaging"

	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

// fakeJobContext implements scheduler.JobContext over a plain context.
type fakeJobContext struct {
	context.Context
}

func (fakeJobContext) JobID() string { return "watchlist-report" }
func (fakeJobContext) TriggerType() string { return "manual" }
func (fakeJobContext) Logger() logger.Logger { return logger.New("info", false) }
func (fakeJobContext) DB() types.Interface { return nil }
func (fakeJobContext) Messaging() messaging.Client { return nil }
func (fakeJobContext) Config() *config.Config { return nil }

type mockGenerator struct {
	generateFunc func(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error)
}

func (m *mockGenerator) GenerateReport(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error) {
	return m.generateFunc(ctx, seeds, country)
}

func TestWatchlistRun(t *testing.T) {
	ctx := context.Background()

	t.Run("generates report for seeds", func(t *testing.T) {
		var gotSeeds []string
		var gotCountry string
		gen := &mockGenerator{
			generateFunc: func(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error) {
				gotSeeds, gotCountry = seeds, country
				return &domain.OpportunityReport{ID: "report-1"}, nil
			},
		}

		job := NewWatchlistReportJob(gen, []string{"protein shake", "creatine"}, "us")
		report, err := job.run(ctx)
		if err != nil {
			t.Fatalf("run() unexpected error = %v", err)
		}
		if report.ID != "report-1" {
			t.Errorf("run() id = %v, want %v", report.ID, "report-1")
		}
		if len(gotSeeds) != 2 || gotCountry != "us" {
			t.Errorf("run() called with %v/%v, want 2 seeds/us", gotSeeds, gotCountry)
		}
	})

	t.Run("empty watchlist", func(t *testing.T) {
		job := NewWatchlistReportJob(&mockGenerator{}, nil, "us")
		if _, err := job.run(ctx); !errors.Is(err, errEmptyWatchlist) {
			t.Errorf("run() error = %v, want %v", err, errEmptyWatchlist)
		}
	})

	t.Run("generator failure", func(t *testing.T) {
		gen := &mockGenerator{
			generateFunc: func(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error) {
				return nil, errors.New("upstream down")
			},
		}
		job := NewWatchlistReportJob(gen, []string{"kw"}, "us")
		if _, err := job.run(ctx); err == nil {
			t.Error("run() expected error, got nil")
		}
	})
}

func TestWatchlistExecute(t *testing.T) {
	t.Run("stores report", func(t *testing.T) {
		gen := &mockGenerator{
			generateFunc: func(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error) {
				if _, ok := ctx.Deadline(); !ok {
					t.Error("Execute() expected a run deadline")
				}
				return &domain.OpportunityReport{ID: "report-1"}, nil
			},
		}
		job := NewWatchlistReportJob(gen, []string{"protein shake"}, "us")
		if err := job.Execute(fakeJobContext{context.Background()}); err != nil {
			t.Errorf("Execute() unexpected error = %v", err)
		}
	})

	t.Run("honours scheduler cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		var gotErr error
		gen := &mockGenerator{
			generateFunc: func(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error) {
				gotErr = ctx.Err()
				return nil, ctx.Err()
			},
		}
		job := NewWatchlistReportJob(gen, []string{"protein shake"}, "us")
		err := job.Execute(fakeJobContext{ctx})
		if !errors.Is(gotErr, context.Canceled) {
			t.Errorf("Execute() run context error = %v, want %v", gotErr, context.Canceled)
		}
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Execute() error = %v, want %v", err, context.Canceled)
		}
	})
}
