package handlers

import (
	"net/http"

	"restaurant-admin/internal/common/httpx"
	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/report/service"
)

type ReportHandler struct {
	service service.ReportServiceInterface
	lg      *logger.Logger
}

func NewReportHandler(s service.ReportServiceInterface, lg *logger.Logger) *ReportHandler {
	return &ReportHandler{service: s, lg: lg}
}

func (rh *ReportHandler) PaidOrders(w http.ResponseWriter, r *http.Request) {
	rows, err := rh.service.PaidOrders(r.Context())
	if err != nil {
		httpx.WriteError(w, r, rh.lg, "paid_orders", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rows)
}

func (rh *ReportHandler) Revenue(w http.ResponseWriter, r *http.Request) {
	q, err := revenueQuery(r)
	if err != nil {
		httpx.WriteError(w, r, rh.lg, "revenue_report", err)
		return
	}
	rev, err := rh.service.Revenue(r.Context(), q)
	if err != nil {
		httpx.WriteError(w, r, rh.lg, "revenue_report", err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, rev)
}

func revenueQuery(r *http.Request) (service.RevenueQuery, error) {
	var (
		q   service.RevenueQuery
		err error
	)
	if q.From, err = httpx.QueryDate(r, "from", false); err != nil {
		return q, err
	}
	if q.To, err = httpx.QueryDate(r, "to", true); err != nil {
		return q, err
	}
	if q.TableID, err = httpx.QueryUUID(r, "table_id"); err != nil {
		return q, err
	}
	if q.CategoryID, err = httpx.QueryUUID(r, "category_id"); err != nil {
		return q, err
	}
	if q.DishID, err = httpx.QueryUUID(r, "dish_id"); err != nil {
		return q, err
	}
	return q, nil
}
