package notificator

import (
	"context"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/microservices/notificator/service"
)

// Start declares the order feed topology and logs events until ctx ends.
func Start(ctx context.Context, rmqClient *rabbitmq.Client, prefetch int, lg *logger.Logger) error {
	if err := rmqClient.DeclareTopology(); err != nil {
		return err
	}
	svc := service.New(rmqClient, lg)
	return svc.NotificatorService.Notify(ctx, prefetch)
}
