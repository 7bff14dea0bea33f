package db_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"tripplanner/internal/config"
	"tripplanner/internal/infra"
	"tripplanner/internal/repositories"
)

var Module = fx.Provide(
	provideDB, provideTripPlanRepo)

func provideDB(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	db, err := infra.InitPostgresql(cfg.Database, log)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			infra.ClosePostgresql(db, log)
			return nil
		},
	})
	return db, nil
}

func provideTripPlanRepo(db *gorm.DB) repositories.TripPlanRepository {
	return repositories.NewTripPlanRepository(db)
}
