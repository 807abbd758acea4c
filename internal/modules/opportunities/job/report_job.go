package job

import (
	"context"
	"errors"
	"time"

	"github.com/gaborage/go-bricks/scheduler"

	"github.com/gaborage/total-search/internal/modules/opportunities/domain"
)

const defaultRunTimeout = 2 * time.Minute

var errEmptyWatchlist = errors.New("watchlist has no seed keywords")

// ReportGenerator builds and stores an opportunity report.
type ReportGenerator interface {
	GenerateReport(ctx context.Context, seeds []string, country string) (*domain.OpportunityReport, error)
}

// WatchlistReportJob regenerates the opportunity report for a fixed set of
// seed keywords on every tick.
type WatchlistReportJob struct {
	reports ReportGenerator
	seeds   []string
	country string
	timeout time.Duration
}

func NewWatchlistReportJob(reports ReportGenerator, seeds []string, country string) *WatchlistReportJob {
	return &WatchlistReportJob{
		reports: reports,
		seeds:   seeds,
		country: country,
		timeout: defaultRunTimeout,
	}
}

// Execute implements scheduler.Job
func (j *WatchlistReportJob) Execute(ctx scheduler.JobContext) error {
	log := ctx.Logger()
	log.Info().
		Str("jobID", ctx.JobID()).
		Int("seeds", len(j.seeds)).
		Msg("Refreshing watchlist opportunity report")

	runCtx, cancel := context.WithTimeout(ctx, j.timeout)
	defer cancel()

	report, err := j.run(runCtx)
	if err != nil {
		log.Error().Err(err).Str("jobID", ctx.JobID()).Msg("Watchlist report failed")
		return err
	}

	log.Info().
		Str("jobID", ctx.JobID()).
		Str("reportID", report.ID).
		Int("gaps", report.Summary.GapOpportunitiesFound).
		Msg("Watchlist report refreshed")
	return nil
}

func (j *WatchlistReportJob) run(ctx context.Context) (*domain.OpportunityReport, error) {
	if len(j.seeds) == 0 {
		return nil, errEmptyWatchlist
	}
	return j.reports.GenerateReport(ctx, j.seeds, j.country)
}
