package trip_plan_fx

import (
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/config"
	"tripplanner/internal/crew"
	"tripplanner/internal/repositories"
	"tripplanner/internal/services"
)

var Module = fx.Provide(
	provideTripPlanService, provideExportService)

func provideTripPlanService(
	runner crew.Runner,
	store repositories.SessionPlanStore,
	repo repositories.TripPlanRepository,
	log *zap.Logger,
	cfg *config.Config,
	loc *time.Location,
) services.TripPlanServiceInterface {
	return services.NewTripPlanService(runner, store, repo, log, services.TripPlanServiceConfig{
		CrewTimeout: cfg.Planner.CrewTimeout,
		Location:    loc,
	})
}

func provideExportService(loc *time.Location) services.PlanExportServiceInterface {
	return services.NewPlanExportService(loc)
}
