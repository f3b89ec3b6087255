package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

type OrderRepositoryInterface interface {
	Create(ctx context.Context, o domain.Order, items []domain.ItemInput) error
	Get(ctx context.Context, id uuid.UUID) (domain.Order, error)
	LatestOpenForTable(ctx context.Context, tableID uuid.UUID) (domain.Order, error)
	List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error)

	// Update and Transition lock the order row, so concurrent writers see
	// each other's status. statusChanged is false for replays.
	Update(ctx context.Context, id uuid.UUID, patch domain.OrderPatch, at time.Time) (statusChanged bool, err error)
	Transition(ctx context.Context, id uuid.UUID, to domain.OrderStatus, at time.Time) (changed bool, err error)
	Delete(ctx context.Context, id uuid.UUID, at time.Time) (domain.Order, error)

	Timeline(ctx context.Context, id uuid.UUID, limit, offset int) ([]domain.StatusLogEntry, error)
}

type OrderRepository struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepositoryInterface {
	return &OrderRepository{db: db}
}

const openOrderConflict = "table already has an open order"

// translate maps constraint failures onto domain errors and wraps the rest.
func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var (
		verr domain.ValidationError
		nf   domain.NotFoundError
		cf   domain.ConflictError
	)
	if errors.As(err, &verr) || errors.As(err, &nf) || errors.As(err, &cf) {
		return err
	}
	if name, ok := database.UniqueViolation(err); ok && name == "orders_one_open_per_table" {
		return domain.ConflictError{Message: openOrderConflict}
	}
	if name, ok := database.ForeignKeyViolation(err); ok {
		switch {
		case strings.Contains(name, "table"):
			return domain.ValidationError{Field: "table_id", Message: "table does not exist"}
		case strings.Contains(name, "dish"):
			return domain.ValidationError{Field: "items", Message: "dish does not exist"}
		}
	}
	var se domain.StorageError
	if errors.As(err, &se) {
		return err
	}
	return domain.StorageError{Op: op, Err: err}
}

func (r *OrderRepository) Create(ctx context.Context, o domain.Order, items []domain.ItemInput) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return translate("begin", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = checkRefs(ctx, tx, &o.Table.ID, items); err != nil {
		return translate("create order", err)
	}

	// 1. order row
	if _, err = tx.ExecContext(ctx, `
		INSERT INTO orders (id, table_id, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
	`, o.ID, o.Table.ID, string(o.Status), o.CreatedAt); err != nil {
		return translate("insert order", err)
	}

	// 2. items
	if err = insertItems(ctx, tx, o.ID, items); err != nil {
		return translate("insert order items", err)
	}

	// 3. status log
	if err = logStatus(ctx, tx, o.ID, string(o.Status), o.CreatedAt); err != nil {
		return translate("insert order status log", err)
	}

	if err = tx.Commit(); err != nil {
		return translate("commit", err)
	}
	return nil
}

func (r *OrderRepository) Get(ctx context.Context, id uuid.UUID) (domain.Order, error) {
	return getOrder(ctx, r.db, id)
}

func (r *OrderRepository) LatestOpenForTable(ctx context.Context, tableID uuid.UUID) (domain.Order, error) {
	orders, err := queryOrders(ctx, r.db, orderSelect+`
		WHERE o.table_id = $1 AND o.status IN ('active', 'served')
		ORDER BY o.created_at DESC
		LIMIT 1
	`, tableID)
	if err != nil {
		return domain.Order{}, translate("latest open order", err)
	}
	if len(orders) == 0 {
		return domain.Order{}, domain.NotFoundError{Entity: "open order for table", ID: tableID.String()}
	}
	return orders[0], nil
}

func (r *OrderRepository) List(ctx context.Context, f domain.OrderFilter) ([]domain.Order, error) {
	query, args := buildListQuery(f)
	orders, err := queryOrders(ctx, r.db, query, args...)
	if err != nil {
		return nil, translate("list orders", err)
	}
	return orders, nil
}

func buildListQuery(f domain.OrderFilter) (string, []any) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, v any) {
		args = append(args, v)
		where = append(where, fmt.Sprintf(cond, len(args)))
	}

	if len(f.Statuses) > 0 {
		ss := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			ss = append(ss, string(s))
		}
		add("o.status = ANY(string_to_array($%d, ','))", strings.Join(ss, ","))
	}
	if f.TableID != nil {
		add("o.table_id = $%d", *f.TableID)
	}
	if f.From != nil {
		add("o.created_at >= $%d", *f.From)
	}
	if f.To != nil {
		add("o.created_at <= $%d", *f.To)
	}
	if f.DishID != nil {
		add(`EXISTS (SELECT 1 FROM order_items fi
			WHERE fi.order_id = o.id AND fi.dish_id = $%d)`, *f.DishID)
	}
	if f.CategoryID != nil {
		add(`EXISTS (SELECT 1 FROM order_items fi JOIN dishes fd ON fd.id = fi.dish_id
			WHERE fi.order_id = o.id AND fd.category_id = $%d)`, *f.CategoryID)
	}

	q := orderSelect
	if len(where) > 0 {
		q += "\n\tWHERE " + strings.Join(where, "\n\t  AND ")
	}
	if f.Ascending {
		q += "\n\tORDER BY o.created_at ASC, o.id"
	} else {
		q += "\n\tORDER BY o.created_at DESC, o.id"
	}
	return q, args
}

// lockStatus reads the current status with FOR UPDATE.
func lockStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID) (domain.OrderStatus, uuid.UUID, error) {
	var (
		status  string
		tableID uuid.UUID
	)
	err := tx.QueryRowContext(ctx, `SELECT status, table_id FROM orders WHERE id = $1 FOR UPDATE`, id).Scan(&status, &tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", uuid.Nil, domain.NotFoundError{Entity: "order", ID: id.String()}
	}
	if err != nil {
		return "", uuid.Nil, err
	}
	return domain.OrderStatus(status), tableID, nil
}

func setStatus(ctx context.Context, tx *sql.Tx, id uuid.UUID, to domain.OrderStatus, at time.Time) error {
	var paidAt any
	if to == domain.StatusPaid {
		paidAt = at
	}
	if _, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = $2, updated_at = $3, paid_at = COALESCE($4, paid_at)
		WHERE id = $1
	`, id, string(to), at, paidAt); err != nil {
		return err
	}
	return logStatus(ctx, tx, id, string(to), at)
}

func (r *OrderRepository) Update(ctx context.Context, id uuid.UUID, patch domain.OrderPatch, at time.Time) (statusChanged bool, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, translate("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, tableID, err := lockStatus(ctx, tx, id)
	if err != nil {
		return false, translate("lock order", err)
	}
	if cur == domain.StatusPaid {
		if patch.Alters(tableID, cur) {
			return false, domain.ConflictError{Message: "paid orders cannot be modified"}
		}
		return false, translate("commit", tx.Commit())
	}

	noop := true
	if patch.Status != nil {
		if noop, err = domain.CheckTransition(cur, *patch.Status); err != nil {
			return false, err
		}
	}

	var newTable *uuid.UUID
	if patch.TableID != nil && *patch.TableID != tableID {
		newTable = patch.TableID
	}
	if err = checkRefs(ctx, tx, newTable, patch.Items); err != nil {
		return false, translate("update order", err)
	}

	if newTable != nil {
		if _, err = tx.ExecContext(ctx, `UPDATE orders SET table_id = $2 WHERE id = $1`, id, *newTable); err != nil {
			return false, translate("move order", err)
		}
	}
	if patch.Items != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, id); err != nil {
			return false, translate("clear order items", err)
		}
		if err = insertItems(ctx, tx, id, patch.Items); err != nil {
			return false, translate("insert order items", err)
		}
	}
	if !noop {
		if err = setStatus(ctx, tx, id, *patch.Status, at); err != nil {
			return false, translate("set status", err)
		}
	} else if _, err = tx.ExecContext(ctx, `UPDATE orders SET updated_at = $2 WHERE id = $1`, id, at); err != nil {
		return false, translate("touch order", err)
	}

	if err = tx.Commit(); err != nil {
		return false, translate("commit", err)
	}
	return !noop, nil
}

func (r *OrderRepository) Transition(ctx context.Context, id uuid.UUID, to domain.OrderStatus, at time.Time) (bool, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, translate("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, _, err := lockStatus(ctx, tx, id)
	if err != nil {
		return false, translate("lock order", err)
	}
	noop, err := domain.CheckTransition(cur, to)
	if err != nil {
		return false, err
	}
	if noop {
		return false, tx.Commit()
	}
	if err := setStatus(ctx, tx, id, to, at); err != nil {
		return false, translate("set status", err)
	}
	if err := tx.Commit(); err != nil {
		return false, translate("commit", err)
	}
	return true, nil
}

// Delete removes an unpaid order and returns its last state. A "cancelled"
// row stays behind in the status log.
func (r *OrderRepository) Delete(ctx context.Context, id uuid.UUID, at time.Time) (domain.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Order{}, translate("begin", err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, _, err := lockStatus(ctx, tx, id)
	if err != nil {
		return domain.Order{}, translate("lock order", err)
	}
	if cur == domain.StatusPaid {
		return domain.Order{}, domain.ConflictError{Message: "paid orders cannot be cancelled"}
	}

	snapshot, err := getOrder(ctx, tx, id)
	if err != nil {
		return domain.Order{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id); err != nil {
		return domain.Order{}, translate("delete order", err)
	}
	if err := logStatus(ctx, tx, id, domain.EventCancelled, at); err != nil {
		return domain.Order{}, translate("insert order status log", err)
	}
	if err := tx.Commit(); err != nil {
		return domain.Order{}, translate("commit", err)
	}
	return snapshot, nil
}

func (r *OrderRepository) Timeline(ctx context.Context, id uuid.UUID, limit, offset int) ([]domain.StatusLogEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT order_id, status, changed_at
		FROM order_status_log
		WHERE order_id = $1
		ORDER BY changed_at ASC, id ASC
		LIMIT $2 OFFSET $3
	`, id, limit, offset)
	if err != nil {
		return nil, translate("timeline", err)
	}
	defer rows.Close()

	out := []domain.StatusLogEntry{}
	for rows.Next() {
		var e domain.StatusLogEntry
		if err := rows.Scan(&e.OrderID, &e.Status, &e.ChangedAt); err != nil {
			return nil, translate("scan timeline", err)
		}
		e.ChangedAt = e.ChangedAt.UTC()
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, translate("timeline", err)
	}
	return out, nil
}
