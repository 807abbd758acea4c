// Package keywords serves per-platform keyword demand: autocomplete
// suggestions, volumes and cross-platform records.
package keywords

import (
	"github.com/gaborage/go-bricks/app"
	"github.com/gaborage/go-bricks/logger"
	"github.com/gaborage/go-bricks/messaging"
	"github.com/gaborage/go-bricks/server"

	"github.com/gaborage/total-search/internal/modules/keywords/handlers"
	"github.com/gaborage/total-search/internal/modules/keywords/provider"
	"github.com/gaborage/total-search/internal/modules/keywords/service"
)

type Module struct {
	provider provider.Provider
	service  *service.KeywordService
	handler  *handlers.KeywordHandler
	logger   logger.Logger
}

// NewModule creates the keywords module on top of a shared provider.
func NewModule(p provider.Provider) *Module {
	return &Module{provider: p}
}

func (m *Module) Name() string {
	return "keywords"
}

func (m *Module) Init(deps *app.ModuleDeps) error {
	m.logger = deps.Logger.WithFields(map[string]any{
		"module": "keywords",
	})

	m.logger.Info().Msg("Initializing keywords module")

	m.service = service.NewService(m.provider, m.logger)
	m.handler = handlers.NewKeywordHandler(m.service, m.logger)

	m.logger.Info().Msg("Keywords module initialized successfully")

	return nil
}

func (m *Module) RegisterRoutes(hr *server.HandlerRegistry, r server.RouteRegistrar) {
	m.handler.RegisterRoutes(hr, r)
}

func (m *Module) DeclareMessaging(_ *messaging.Declarations) {
	// No messaging needed for keywords module.
}

func (m *Module) RegisterJobs(_ app.JobRegistrar) error {
	return nil
}

func (m *Module) Shutdown() error {
	return nil
}
