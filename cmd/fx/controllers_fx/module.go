package controllers_fx

import (
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"tripplanner/internal/api/controllers"
	"tripplanner/internal/config"
)

var Module = fx.Options(
	fx.Provide(controllers.NewTripPlanController),
	fx.Provide(provideHealthController))

func provideHealthController(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) *controllers.HealthController {
	return controllers.NewHealthController(cfg.App.Version, db, redisClient)
}
