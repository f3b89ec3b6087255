package report

import (
	"github.com/gorilla/mux"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/report/handlers"
	"restaurant-admin/internal/microservices/report/service"
)

// Mount registers the read-only reporting endpoints.
func Mount(api *mux.Router, orders service.OrderLister, lg *logger.Logger) *service.Service {
	svc := service.New(orders)
	handlers.Routes(api, handlers.New(svc, lg))
	return svc
}
