package catalog

import (
	"database/sql"

	"github.com/gorilla/mux"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/catalog/handlers"
	"restaurant-admin/internal/microservices/catalog/repository"
	"restaurant-admin/internal/microservices/catalog/service"
)

// Mount wires the catalog stack onto the api router.
func Mount(api *mux.Router, db *sql.DB, pics service.PictureStore, maxUpload int64, lg *logger.Logger) *service.Service {
	repo := repository.New(db)
	svc := service.New(repo, pics, lg)
	handlers.Routes(api, handlers.New(svc, maxUpload, lg))
	return svc
}
