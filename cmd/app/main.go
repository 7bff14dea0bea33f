package main

import (
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"tripplanner/cmd/fx/config_fx"
	"tripplanner/cmd/fx/controllers_fx"
	"tripplanner/cmd/fx/crew_fx"
	"tripplanner/cmd/fx/db_fx"
	"tripplanner/cmd/fx/jobs_fx"
	"tripplanner/cmd/fx/logger_fx"
	"tripplanner/cmd/fx/memcache_fx"
	"tripplanner/cmd/fx/trip_plan_fx"
)

func main() {
	app := fx.New(
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		config_fx.Module,
		logger_fx.Module,
		db_fx.Module,
		memcache_fx.Module,
		crew_fx.Module,
		trip_plan_fx.Module,
		controllers_fx.Module,
		jobs_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}
