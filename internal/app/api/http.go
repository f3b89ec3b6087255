package api

import (
	"context"
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"restaurant-admin/internal/common/config"
	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/connections/rabbitmq"
	"restaurant-admin/internal/microservices/catalog"
	"restaurant-admin/internal/microservices/order"
	orderservice "restaurant-admin/internal/microservices/order/service"
	"restaurant-admin/internal/microservices/report"
	"restaurant-admin/internal/microservices/tables"
	"restaurant-admin/internal/pictures"
)

// Run connects storage and the broker, mounts every component under /api
// and serves until ctx is done.
func Run(ctx context.Context, cfg config.App, lg *logger.Logger) error {
	db, err := database.ConnectDB(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	version, err := database.Migrate(cfg.Database.MigrateURL())
	if err != nil {
		return err
	}
	lg.Info("db_connected", map[string]any{"host": cfg.Database.Host, "schema_version": version})

	var pub orderservice.Publisher = orderservice.NopPublisher{}
	var rmq *rabbitmq.Client
	if cfg.Rabbit.Enabled() {
		rmq, err = rabbitmq.DialWithRetry(ctx, cfg.Rabbit, 10, 2*time.Second)
		if err != nil {
			return err
		}
		defer rmq.Close()
		if err := rmq.DeclareTopology(); err != nil {
			return err
		}
		pub = orderservice.NewRabbitPublisher(rmq)
		lg.Info("rabbitmq_connected", map[string]any{"host": cfg.Rabbit.Host, "exchange": rabbitmq.OrdersExchange})
	} else {
		lg.Warn("rabbitmq_disabled", map[string]any{"reason": "RABBITMQ_HOST is empty, order events are dropped"})
	}

	pics, err := pictures.NewStore(cfg.Uploads.Dir, cfg.Uploads.MaxBytes)
	if err != nil {
		return err
	}

	h := NewRouter(db, pub, pics, rmq, cfg, lg)
	srv := httpx.New(":"+strconv.Itoa(cfg.HTTP.Port), h)
	lg.Info("http_listening", map[string]any{"port": cfg.HTTP.Port})
	return srv.Run(ctx)
}

// NewRouter builds the full handler chain. rmq may be nil.
func NewRouter(db *sql.DB, pub orderservice.Publisher, pics *pictures.Store,
	rmq *rabbitmq.Client, cfg config.App, lg *logger.Logger) http.Handler {

	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	catalog.Mount(api, db, pics, cfg.Uploads.MaxBytes, lg)
	orders := order.Mount(api, db, pub, lg)
	tables.Mount(api, db, orders.OrderService, lg)
	report.Mount(api, orders.OrderService, lg)

	r.HandleFunc("/health", health(db, rmq)).Methods(http.MethodGet)
	r.PathPrefix("/" + pictures.URLPrefix + "/").Handler(
		http.StripPrefix("/"+pictures.URLPrefix+"/", http.FileServer(http.Dir(pics.Dir()))))

	var h http.Handler = r
	h = httpx.WithLogging(lg, cfg.HTTP.RequestTimeout)(h)
	h = httpx.CORS(cfg.HTTP.CORSOrigin)(h)
	return h
}

func health(db *sql.DB, rmq *rabbitmq.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		body := map[string]any{"status": "ok", "database": "ok", "rabbitmq": "disabled"}
		code := http.StatusOK
		if err := db.PingContext(ctx); err != nil {
			body["database"] = err.Error()
			body["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		if rmq != nil {
			body["rabbitmq"] = "ok"
			if err := rmq.Ping(); err != nil {
				body["rabbitmq"] = err.Error()
				body["status"] = "degraded"
				code = http.StatusServiceUnavailable
			}
		}
		httpx.WriteJSON(w, code, body)
	}
}
