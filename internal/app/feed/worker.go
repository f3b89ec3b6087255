package feed

import (
	"context"
	"time"

	"restaurant-admin/internal/common/config"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/microservices/notificator"
)

type Config struct {
	Rabbit   config.MQ
	Prefetch int
}

// Run consumes the order event feed and logs each event until ctx ends.
func Run(ctx context.Context, cfg Config, lg *logger.Logger) error {
	client, err := rabbitmq.DialWithRetry(ctx, cfg.Rabbit, 10, 2*time.Second)
	if err != nil {
		return err
	}
	defer client.Close()

	if cfg.Prefetch <= 0 {
		cfg.Prefetch = 10
	}
	return notificator.Start(ctx, client, cfg.Prefetch, lg)
}
