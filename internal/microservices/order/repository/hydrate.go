package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurant-admin/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

const orderSelect = `
	SELECT o.id, o.status, o.created_at, o.updated_at, o.paid_at,
	       t.id, t.number, t.capacity
	FROM orders o
	JOIN dining_tables t ON t.id = o.table_id`

func scanOrder(s interface{ Scan(...any) error }) (domain.Order, error) {
	var (
		o      domain.Order
		status string
		paidAt sql.NullTime
	)
	if err := s.Scan(&o.ID, &status, &o.CreatedAt, &o.UpdatedAt, &paidAt,
		&o.Table.ID, &o.Table.Number, &o.Table.Capacity); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.OrderStatus(status)
	o.CreatedAt = o.CreatedAt.UTC()
	o.UpdatedAt = o.UpdatedAt.UTC()
	if paidAt.Valid {
		t := paidAt.Time.UTC()
		o.PaidAt = &t
	}
	return o, nil
}

// queryOrders runs an orderSelect-based query and attaches items and
// derived totals.
func queryOrders(ctx context.Context, q querier, query string, args ...any) ([]domain.Order, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := attachItems(ctx, q, out); err != nil {
		return nil, err
	}
	return out, nil
}

func getOrder(ctx context.Context, q querier, id uuid.UUID) (domain.Order, error) {
	orders, err := queryOrders(ctx, q, orderSelect+` WHERE o.id = $1`, id)
	if err != nil {
		return domain.Order{}, domain.StorageError{Op: "get order", Err: err}
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.NotFoundError{Entity: "order", ID: id.String()}
	}
	return orders[0], nil
}

func attachItems(ctx context.Context, q querier, orders []domain.Order) error {
	if len(orders) == 0 {
		return nil
	}
	idx := make(map[uuid.UUID]int, len(orders))
	ids := make([]string, 0, len(orders))
	for i, o := range orders {
		idx[o.ID] = i
		ids = append(ids, o.ID.String())
	}

	rows, err := q.QueryContext(ctx, `
		SELECT oi.order_id, oi.quantity,
		       d.id, d.name, d.category_id, d.ingredients, d.price::float8, d.picture
		FROM order_items oi
		JOIN dishes d ON d.id = oi.dish_id
		WHERE oi.order_id = ANY(string_to_array($1, ',')::uuid[])
		ORDER BY oi.order_id, oi.position
	`, strings.Join(ids, ","))
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID uuid.UUID
			it      domain.OrderItem
		)
		if err := rows.Scan(&orderID, &it.Quantity,
			&it.Dish.ID, &it.Dish.Name, &it.Dish.CategoryID, &it.Dish.Ingredients, &it.Dish.Price, &it.Dish.Picture); err != nil {
			return err
		}
		i := idx[orderID]
		orders[i].Items = append(orders[i].Items, it)
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i := range orders {
		if orders[i].Items == nil {
			orders[i].Items = []domain.OrderItem{}
		}
		orders[i].Reprice()
	}
	return nil
}

func insertItems(ctx context.Context, q querier, orderID uuid.UUID, items []domain.ItemInput) error {
	for pos, it := range items {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO order_items (order_id, position, dish_id, quantity)
			VALUES ($1, $2, $3, $4)
		`, orderID, pos, it.DishID, it.Quantity); err != nil {
			return err
		}
	}
	return nil
}

func logStatus(ctx context.Context, q querier, orderID uuid.UUID, status string, at time.Time) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO order_status_log (order_id, status, changed_at)
		VALUES ($1, $2, $3)
	`, orderID, status, at)
	return err
}

// checkRefs turns dangling table and dish references into validation
// errors that name the offending field.
func checkRefs(ctx context.Context, q querier, tableID *uuid.UUID, items []domain.ItemInput) error {
	if tableID != nil {
		var one int
		err := q.QueryRowContext(ctx, `SELECT 1 FROM dining_tables WHERE id = $1`, *tableID).Scan(&one)
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ValidationError{Field: "table_id", Message: fmt.Sprintf("table %s does not exist", *tableID)}
		}
		if err != nil {
			return err
		}
	}
	if len(items) == 0 {
		return nil
	}

	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.DishID.String())
	}
	rows, err := q.QueryContext(ctx, `
		SELECT id FROM dishes WHERE id = ANY(string_to_array($1, ',')::uuid[])
	`, strings.Join(ids, ","))
	if err != nil {
		return err
	}
	defer rows.Close()

	found := map[uuid.UUID]bool{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return err
		}
		found[id] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}
	for i, it := range items {
		if !found[it.DishID] {
			return domain.ValidationError{
				Field:   fmt.Sprintf("items[%d].dish_id", i),
				Message: fmt.Sprintf("dish %s does not exist", it.DishID),
			}
		}
	}
	return nil
}
