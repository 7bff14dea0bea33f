package memcache_fx

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/config"
	"tripplanner/internal/infra"
	"tripplanner/internal/repositories"
	mem "tripplanner/pkg/memcache"
)

var Module = fx.Provide(
	provideRedisClient, provideSessionPlanStore, provideGenerateLimiters)

// provideRedisClient returns nil when REDIS_URL is unset.
func provideRedisClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (*redis.Client, error) {
	if cfg.Redis.URL == "" {
		log.Info("REDIS_URL not set, session plans are kept in memory")
		return nil, nil
	}

	client, err := infra.InitRedis(context.Background(), cfg.Redis.URL)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return client, nil
}

func provideSessionPlanStore(cfg *config.Config, client *redis.Client) repositories.SessionPlanStore {
	if client == nil {
		return repositories.NewMemorySessionPlanStore(cfg.Planner.PlanTTL)
	}
	return repositories.NewRedisSessionPlanStore(client, cfg.Planner.PlanTTL)
}

func provideGenerateLimiters(cfg *config.Config) mem.LimiterStore {
	return mem.NewClientLimiters(cfg.Server.GenerateRatePerMin, cfg.Server.GenerateBurst, 10*time.Minute)
}
