package order

import (
	"database/sql"

	"github.com/gorilla/mux"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/order/handlers"
	"restaurant-admin/internal/microservices/order/repository"
	"restaurant-admin/internal/microservices/order/service"
)

// Mount wires the order stack onto the api router and returns the service
// for the components that read orders.
func Mount(api *mux.Router, db *sql.DB, pub service.Publisher, lg *logger.Logger) *service.Service {
	repo := repository.New(db)
	svc := service.New(repo, pub, lg)
	handlers.Routes(api, handlers.New(svc, lg))
	return svc
}
