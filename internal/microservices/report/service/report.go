package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
)

type PaidOrderRow struct {
	ID          uuid.UUID `json:"id"`
	Date        time.Time `json:"date"`
	TableNumber string    `json:"table_number"`
	Items       string    `json:"items"`
	Total       float64   `json:"total"`
}

type RevenueQuery struct {
	From       *time.Time
	To         *time.Time
	TableID    *uuid.UUID
	CategoryID *uuid.UUID
	DishID     *uuid.UUID
}

type Bucket struct {
	Key    string  `json:"key"`
	Orders int     `json:"orders"`
	Total  float64 `json:"total"`
}

type Revenue struct {
	Orders  int      `json:"orders"`
	Total   float64  `json:"total"`
	Daily   []Bucket `json:"daily"`
	Weekly  []Bucket `json:"weekly"`
	Monthly []Bucket `json:"monthly"`
}

type ReportServiceInterface interface {
	PaidOrders(ctx context.Context) ([]PaidOrderRow, error)
	Revenue(ctx context.Context, q RevenueQuery) (Revenue, error)
}

type ReportService struct {
	orders OrderLister
}

func NewReportService(orders OrderLister) ReportServiceInterface {
	return &ReportService{orders: orders}
}

var paidOnly = []domain.OrderStatus{domain.StatusPaid}

// PaidOrders lists paid orders newest first.
func (s *ReportService) PaidOrders(ctx context.Context) ([]PaidOrderRow, error) {
	orders, err := s.orders.ListOrders(ctx, domain.OrderFilter{Statuses: paidOnly})
	if err != nil {
		return nil, err
	}
	rows := make([]PaidOrderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, PaidOrderRow{
			ID:          o.ID,
			Date:        paidAt(o),
			TableNumber: o.Table.Number,
			Items:       ItemsSummary(o.Items),
			Total:       o.Total,
		})
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Date.After(rows[j].Date) })
	return rows, nil
}

func paidAt(o domain.Order) time.Time {
	if o.PaidAt != nil {
		return *o.PaidAt
	}
	return o.UpdatedAt
}

// ItemsSummary renders lines as "2x Soup, 1x Tea".
func ItemsSummary(items []domain.OrderItem) string {
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%dx %s", it.Quantity, it.Dish.Name))
	}
	return strings.Join(parts, ", ")
}

// Revenue sums paid orders into day, week and month buckets keyed on the
// order's creation time. Buckets between the first and last order are
// present even when empty.
func (s *ReportService) Revenue(ctx context.Context, q RevenueQuery) (Revenue, error) {
	if q.From != nil && q.To != nil && q.To.Before(*q.From) {
		return Revenue{}, domain.ValidationError{Field: "to", Message: "must not be before from"}
	}
	orders, err := s.orders.ListOrders(ctx, domain.OrderFilter{
		Statuses:   paidOnly,
		TableID:    q.TableID,
		CategoryID: q.CategoryID,
		DishID:     q.DishID,
		From:       q.From,
		To:         q.To,
		Ascending:  true,
	})
	if err != nil {
		return Revenue{}, err
	}

	rev := Revenue{Daily: []Bucket{}, Weekly: []Bucket{}, Monthly: []Bucket{}}
	if len(orders) == 0 {
		return rev, nil
	}

	first, last := orders[0].CreatedAt.UTC(), orders[0].CreatedAt.UTC()
	for _, o := range orders {
		at := o.CreatedAt.UTC()
		if at.Before(first) {
			first = at
		}
		if at.After(last) {
			last = at
		}
		rev.Orders++
		rev.Total += o.Total
	}
	rev.Total = domain.RoundMoney(rev.Total)

	rev.Daily = bucketize(orders, first, last, dayStart, func(t time.Time) time.Time { return t.AddDate(0, 0, 1) }, time.DateOnly)
	rev.Weekly = bucketize(orders, first, last, weekStart, func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }, time.DateOnly)
	rev.Monthly = bucketize(orders, first, last, monthStart, func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }, "2006-01")
	return rev, nil
}

func dayStart(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// weekStart returns the Sunday that opens t's week.
func weekStart(t time.Time) time.Time {
	d := dayStart(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

func monthStart(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, time.UTC)
}

func bucketize(orders []domain.Order, first, last time.Time,
	start func(time.Time) time.Time, next func(time.Time) time.Time, layout string) []Bucket {

	sums := map[time.Time]*Bucket{}
	for _, o := range orders {
		k := start(o.CreatedAt.UTC())
		b, ok := sums[k]
		if !ok {
			b = &Bucket{Key: k.Format(layout)}
			sums[k] = b
		}
		b.Orders++
		b.Total += o.Total
	}

	out := []Bucket{}
	end := start(last)
	for k := start(first); !k.After(end); k = next(k) {
		if b, ok := sums[k]; ok {
			b.Total = domain.RoundMoney(b.Total)
			out = append(out, *b)
			continue
		}
		out = append(out, Bucket{Key: k.Format(layout)})
	}
	return out
}
