// Package session provides the server-side session store.
package session

import (
	"context"
	"log/slog"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"medistore/config"
	"medistore/internal/domain/service"
)

// StoreParams holds dependencies for SessionStore, injected by Fx
type StoreParams struct {
	fx.In

	Lc     fx.Lifecycle
	Config *config.Config
	Logger *slog.Logger
}

// NewSessionStore returns a redis-backed store when redis is configured and an
// in-memory store otherwise.
func NewSessionStore(params StoreParams) (service.SessionStore, error) {
	cfg := params.Config.Redis
	logger := params.Logger

	if cfg == nil || cfg.Addr == "" {
		logger.Warn("Redis not configured, keeping sessions in memory")

		return NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	params.Lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				return errors.Wrap(err, "failed to ping redis")
			}
			logger.Info("Redis session store connected", slog.String("addr", cfg.Addr))

			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Closing redis session store")

			return errors.WithStack(client.Close())
		},
	})

	return NewRedisStore(client, cfg.KeyPrefix), nil
}

// Module provides the session store FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(NewSessionStore),
)
