package tables

import (
	"database/sql"

	"github.com/gorilla/mux"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/tables/handlers"
	"restaurant-admin/internal/microservices/tables/repository"
	"restaurant-admin/internal/microservices/tables/service"
)

// Mount wires the table registry onto the api router. Occupancy is read
// from orders.
func Mount(api *mux.Router, db *sql.DB, orders service.OpenOrders, lg *logger.Logger) *service.Service {
	svc := service.New(repository.New(db), orders)
	handlers.Routes(api, handlers.New(svc, lg))
	return svc
}
