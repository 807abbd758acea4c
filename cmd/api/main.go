// Package main is the entry point for the total-search API.
package main

import (
	"context"

	"github.com/gaborage/go-bricks/app"
	"github.com/gaborage/go-bricks/logger"

	"github.com/gaborage/total-search/internal/modules/brandaudit"
	"github.com/gaborage/total-search/internal/modules/keywords"
	"github.com/gaborage/total-search/internal/modules/opportunities"
	"github.com/gaborage/total-search/internal/modules/shared/settings"
)

func main() {
	// go-bricks reads app, server and database configuration
	application, log, err := app.New()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	cfg, err := settings.Load("")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load settings")
	}

	shared, err := buildAdapters(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build provider adapters")
	}
	defer shared.Close(log)

	if err := registerModules(application, getModulesToLoad(cfg, shared), log); err != nil {
		log.Fatal().Err(err).Msg("Failed to register modules")
	}

	if err := application.Run(); err != nil {
		log.Error().Err(err).Msg("Application stopped with error")
	}
}

type ModuleConfig struct {
	Name    string
	Enabled bool
	Module  app.Module
}

func getModulesToLoad(cfg *settings.Settings, shared *adapters) []ModuleConfig {
	watchlist := opportunities.Watchlist{
		Seeds:    cfg.Watchlist.Seeds,
		Country:  cfg.Watchlist.Country,
		Interval: cfg.Watchlist.Interval,
	}
	return []ModuleConfig{
		{
			Name:    "keywords",
			Enabled: true,
			Module:  keywords.NewModule(shared.keywords),
		},
		{
			Name:    "opportunities",
			Enabled: true,
			Module:  opportunities.NewModule(shared.keywords, watchlist),
		},
		{
			Name:    "brandaudit",
			Enabled: true,
			Module:  brandaudit.NewModule(shared.keywords, shared.ads),
		},
	}
}

func registerModules(appInstance *app.App, modules []ModuleConfig, log logger.Logger) error {
	for _, mod := range modules {
		if !mod.Enabled {
			log.Info().Str("module", mod.Name).Msg("Module is disabled, skipping registration")
			continue
		}

		log.Info().Str("module", mod.Name).Msg("Registering module")
		if err := appInstance.RegisterModule(mod.Module); err != nil {
			return err
		}
		log.Info().Str("module", mod.Name).Msg("Module registered successfully")
	}

	return nil
}
