package jobs_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/config"
	"tripplanner/internal/services"
)

var Module = fx.Options(
	fx.Provide(providePlanCleanupScheduler),
	fx.Invoke(startPlanCleanup))

func providePlanCleanupScheduler(svc services.TripPlanServiceInterface, cfg *config.Config, log *zap.Logger) *services.PlanCleanupScheduler {
	return services.NewPlanCleanupScheduler(svc, cfg.Planner.PurgeSchedule, cfg.Planner.HistoryRetention, log)
}

func startPlanCleanup(lc fx.Lifecycle, scheduler *services.PlanCleanupScheduler) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return scheduler.Start()
		},
		OnStop: func(ctx context.Context) error {
			return scheduler.Stop(ctx)
		},
	})
}
