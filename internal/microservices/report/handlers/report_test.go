package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-admin/internal/common/logger"
	"restaurant-admin/internal/microservices/report/service"
)

type stubReports struct {
	q service.RevenueQuery
}

func (s *stubReports) PaidOrders(ctx context.Context) ([]service.PaidOrderRow, error) {
	return []service.PaidOrderRow{{ID: uuid.New(), TableNumber: "5", Items: "2x Soup", Total: 16}}, nil
}

func (s *stubReports) Revenue(ctx context.Context, q service.RevenueQuery) (service.Revenue, error) {
	s.q = q
	return service.Revenue{}, nil
}

func get(s *stubReports, target string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	Routes(r, &Handler{ReportHandler: NewReportHandler(s, logger.NewWithWriter("test", io.Discard))})
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestPaidOrdersEndpoint(t *testing.T) {
	rec := get(&stubReports{}, "/paid-orders")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"items":"2x Soup"`)
	assert.Contains(t, rec.Body.String(), `"table_number":"5"`)
}

func TestRevenueQueryParsing(t *testing.T) {
	s := &stubReports{}
	dish := uuid.New()
	rec := get(s, "/reports/revenue?from=2024-03-01&to=2024-03-31&dish_id="+dish.String())
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, s.q.From)
	require.NotNil(t, s.q.DishID)
	assert.Equal(t, dish, *s.q.DishID)
	assert.Nil(t, s.q.TableID)

	for _, q := range []string{"from=march", "table_id=1", "category_id=abc"} {
		rec := get(&stubReports{}, "/reports/revenue?"+q)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
	}
}
