package crew_fx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"tripplanner/internal/config"
	"tripplanner/internal/crew"
	"tripplanner/pkg/utils"
)

var Module = fx.Provide(
	ProvideTextGenerationClient,
	ProvideCrewDefinition,
	ProvideCrew)

// ProvideTextGenerationClient builds the configured LLM client behind a
// shared rate limiter.
func ProvideTextGenerationClient(lc fx.Lifecycle, cfg *config.Config, log *zap.Logger) (utils.TextGenerationClientInterface, error) {
	log.Info("initializing text generation client",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model))

	client, err := utils.NewTextGenerationClient(context.Background(), utils.LLMConfig{
		Provider: cfg.LLM.Provider,
		APIKey:   cfg.LLM.APIKey,
		Model:    cfg.LLM.Model,
		BaseURL:  cfg.LLM.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	limited := utils.NewRateLimitedTextClient(client, cfg.LLM.RequestsPerSec, cfg.LLM.Burst)
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return limited.Close()
		},
	})
	return limited, nil
}

func ProvideCrewDefinition() (*crew.Definition, error) {
	return crew.DefaultDefinition()
}

func ProvideCrew(def *crew.Definition, llm utils.TextGenerationClientInterface, log *zap.Logger) crew.Runner {
	return crew.New(def, llm, log)
}
