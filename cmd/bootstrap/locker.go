package bootstrap

import (
	"context"
	"log/slog"

	"couponkeeper/internal/pkg/config"
	"couponkeeper/internal/pkg/joblock"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var LockerModule = fx.Module("locker",
	fx.Provide(
		NewJobLocker,
	),
)

// NewJobLocker wires the sweep lock against Redis when an address is
// configured. Without Redis the lock is a no-op and the scheduler is
// responsible for not firing overlapping sweeps.
func NewJobLocker(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) joblock.Locker {
	if cfg.Redis.Addr == "" {
		logger.Warn("REDIS_ADDR not set, job locking disabled")
		return joblock.NopLocker{}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})

	return joblock.NewRedisLocker(client)
}
