// Package brandaudit compares a brand's ad presence on Meta, TikTok and
// Google with keyword demand across platforms. Audit history lives in the
// named "analytics" database.
package brandaudit

import (
	"context"

	"github.com/gaborage/go-bricks/app"
	"github.com/gaborage/go-bricks/database"
	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/messaging"
	"github.com/gaborage/go-bricks/server"

	"github.com/gaborage/total-search/internal/modules/brandaudit/adlibrary"
	"github.com/gaborage/total-search/internal/modules/brandaudit/handlers"
	"github.com/gaborage/total-search/internal/modules/brandaudit/repository"
	"github.com/gaborage/total-search/internal/modules/brandaudit/service"
)

// analyticsDBName is the key under "databases:" in the config files.
const analyticsDBName = "analytics"

type Module struct {
	keywords  service.KeywordProvider
	libraries adlibrary.Sources
	service   *service.AuditService
	handler   *handlers.AuditHandler
	repo      repository.Repository
	logger    logger.Logger

	getAnalyticsDB func(context.Context) (database.Interface, error)
}

func NewModule(keywords service.KeywordProvider, libs adlibrary.Sources) *Module {
	return &Module{
		keywords:  keywords,
		libraries: libs,
	}
}

func (m *Module) Name() string {
	return "brandaudit"
}

func (m *Module) Init(deps *app.ModuleDeps) error {
	m.logger = deps.Logger.WithFields(map[string]any{
		"module": "brandaudit",
	})

	m.logger.Info().Msg("Initializing brand audit module")

	m.getAnalyticsDB = func(ctx context.Context) (database.Interface, error) {
		return deps.DBByName(ctx, analyticsDBName)
	}

	m.repo = repository.NewCoverageRepository(m.getAnalyticsDB)
	m.service = service.NewService(m.keywords, m.libraries, m.repo, m.logger)
	m.handler = handlers.NewAuditHandler(m.service, m.logger)

	m.logger.Info().
		Str("database", analyticsDBName).
		Msg("Brand audit module initialized successfully")

	return nil
}

func (m *Module) RegisterRoutes(hr *server.HandlerRegistry, r server.RouteRegistrar) {
	m.handler.RegisterRoutes(hr, r)
}

func (m *Module) DeclareMessaging(_ *messaging.Declarations) {
	// No messaging needed for brand audit module.
}

func (m *Module) RegisterJobs(_ app.JobRegistrar) error {
	return nil
}

func (m *Module) Shutdown() error {
	m.logger.Info().Msg("Shutting down brand audit module")
	return nil
}
