package config_fx

import (
	"time"

	"go.uber.org/fx"
	"tripplanner/internal/config"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(provideConfig, provideLocation)

func provideConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	utils.ExposeErrorDetails = cfg.App.ExposeErrorDetails
	return cfg, nil
}

func provideLocation(cfg *config.Config) *time.Location {
	return utils.LoadLocation(cfg.Planner.Timezone)
}
