package services

import (
	"context"
	"log/slog"

	"jkauppila.dev/internal/cache"
	"jkauppila.dev/internal/cms"
	"jkauppila.dev/internal/config"
	"jkauppila.dev/internal/fallback"
)

// NewOrchestratorFromConfig builds the fetch pipeline described by cfg.
// The returned close function releases the Redis connection, if any.
func NewOrchestratorFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Orchestrator, func(), error) {
	policy, err := ParsePolicy(cfg.GraphQL.Policy)
	if err != nil {
		return nil, nil, err
	}

	opts := OrchestratorOptions{
		Fallback: fallback.Default(),
		Policy:   policy,
		Logger:   logger,
	}
	closeFn := func() {}

	if cfg.GraphQL.Enabled() {
		opts.Endpoint = cfg.GraphQL.Endpoint
		opts.Client = cms.NewClient(cfg.GraphQL.Endpoint, cfg.GraphQL.Token, cms.WithTimeout(cfg.GraphQL.Timeout))

		if cfg.Cache.RedisURL != "" {
			client, err := cache.Connect(ctx, cfg.Cache.RedisURL)
			if err != nil {
				return nil, nil, err
			}
			opts.Cache = cache.NewRedisCache(client, cfg.Cache.TTL)
			closeFn = func() {
				if err := client.Close(); err != nil {
					logger.Warn("close redis", "error", err)
				}
			}
		}
	}

	logger.Info("content source configured",
		"graphql", cfg.GraphQL,
		"cache", cfg.Cache.RedisURL != "" && cfg.GraphQL.Enabled(),
	)

	return NewOrchestrator(opts), closeFn, nil
}
