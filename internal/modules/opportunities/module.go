// Package opportunities finds cross-platform keyword opportunities and
// keeps a history of generated reports.
package opportunities

import (
	"context"
	"time"

	"github.com/gaborage/go-bricks/app"
	"github.com/gaborage/go-bricks/database"
	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/messaging"
	"github.com/gaborage/go-bricks/server"

	"github.com/gaborage/total-search/internal/modules/opportunities/analyzer"
	"github.com/gaborage/total-search/internal/modules/opportunities/handlers"
	"github.com/gaborage/total-search/internal/modules/opportunities/job"
	"github.com/gaborage/total-search/internal/modules/opportunities/repository"
	"github.com/gaborage/total-search/internal/modules/opportunities/service"
)

const watchlistJobName = "watchlist-report"

// Watchlist is the seed set refreshed by the scheduled report job.
type Watchlist struct {
	Seeds    []string
	Country  string
	Interval time.Duration
}

// Enabled reports whether the watchlist job should be scheduled.
func (w Watchlist) Enabled() bool {
	return len(w.Seeds) > 0 && w.Interval > 0
}

type Module struct {
	keywords  service.KeywordProvider
	watchlist Watchlist
	service   *service.OpportunityService
	handler   *handlers.OpportunityHandler
	repo      *repository.ReportRepository
	logger    logger.Logger
	getDB     func(context.Context) (database.Interface, error)
}

func NewModule(keywords service.KeywordProvider, watchlist Watchlist) *Module {
	return &Module{
		keywords:  keywords,
		watchlist: watchlist,
	}
}

func (m *Module) Name() string {
	return "opportunities"
}

// Init wires getDB → ReportRepository → OpportunityService → OpportunityHandler.
func (m *Module) Init(deps *app.ModuleDeps) error {
	m.logger = deps.Logger.WithFields(map[string]any{
		"module": "opportunities",
	})

	m.getDB = deps.DB

	m.logger.Info().Msg("Initializing opportunities module")

	m.repo = repository.NewSQLReportRepository(m.getDB)
	m.service = service.NewService(m.keywords, analyzer.New(), m.repo, m.logger)
	m.handler = handlers.NewOpportunityHandler(m.service, m.logger)

	m.logger.Info().Msg("Opportunities module initialized successfully")

	return nil
}

func (m *Module) RegisterRoutes(hr *server.HandlerRegistry, r server.RouteRegistrar) {
	m.handler.RegisterRoutes(hr, r)
}

func (m *Module) DeclareMessaging(_ *messaging.Declarations) {
	// No messaging needed for opportunities module.
}

// RegisterJobs schedules the watchlist refresh when seeds are configured.
func (m *Module) RegisterJobs(scheduler app.JobRegistrar) error {
	if !m.watchlist.Enabled() {
		m.logger.Info().Msg("Watchlist is empty, report job disabled")
		return nil
	}

	m.logger.Info().
		Int("seeds", len(m.watchlist.Seeds)).
		Dur("interval", m.watchlist.Interval).
		Msg("Scheduling watchlist report job")

	reportJob := job.NewWatchlistReportJob(m.service, m.watchlist.Seeds, m.watchlist.Country)
	return scheduler.FixedRate(watchlistJobName, reportJob, m.watchlist.Interval)
}

func (m *Module) Shutdown() error {
	return nil
}
