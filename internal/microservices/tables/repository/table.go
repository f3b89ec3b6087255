package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

type TableRepositoryInterface interface {
	List(ctx context.Context) ([]domain.Table, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Table, error)
	Insert(ctx context.Context, t domain.Table) error
	Update(ctx context.Context, t domain.Table) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type TableRepository struct {
	db *sql.DB
}

func NewTableRepository(db *sql.DB) TableRepositoryInterface {
	return &TableRepository{db: db}
}

func numberTaken(t domain.Table) error {
	return domain.ConflictError{Message: fmt.Sprintf("table number %s already exists", t.Number)}
}

func (r *TableRepository) List(ctx context.Context) ([]domain.Table, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, number, capacity FROM dining_tables
		ORDER BY length(number), number
	`)
	if err != nil {
		return nil, domain.StorageError{Op: "list tables", Err: err}
	}
	defer rows.Close()

	out := []domain.Table{}
	for rows.Next() {
		var t domain.Table
		if err := rows.Scan(&t.ID, &t.Number, &t.Capacity); err != nil {
			return nil, domain.StorageError{Op: "scan table", Err: err}
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.StorageError{Op: "list tables", Err: err}
	}
	return out, nil
}

func (r *TableRepository) Get(ctx context.Context, id uuid.UUID) (domain.Table, error) {
	var t domain.Table
	err := r.db.QueryRowContext(ctx, `SELECT id, number, capacity FROM dining_tables WHERE id = $1`, id).
		Scan(&t.ID, &t.Number, &t.Capacity)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Table{}, domain.NotFoundError{Entity: "table", ID: id.String()}
	}
	if err != nil {
		return domain.Table{}, domain.StorageError{Op: "get table", Err: err}
	}
	return t, nil
}

func (r *TableRepository) Insert(ctx context.Context, t domain.Table) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dining_tables (id, number, capacity) VALUES ($1, $2, $3)
	`, t.ID, t.Number, t.Capacity)
	if _, ok := database.UniqueViolation(err); ok {
		return numberTaken(t)
	}
	if err != nil {
		return domain.StorageError{Op: "insert table", Err: err}
	}
	return nil
}

func (r *TableRepository) Update(ctx context.Context, t domain.Table) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dining_tables SET number = $2, capacity = $3 WHERE id = $1
	`, t.ID, t.Number, t.Capacity)
	if _, ok := database.UniqueViolation(err); ok {
		return numberTaken(t)
	}
	if err != nil {
		return domain.StorageError{Op: "update table", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Entity: "table", ID: t.ID.String()}
	}
	return nil
}

func (r *TableRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dining_tables WHERE id = $1`, id)
	if _, ok := database.ForeignKeyViolation(err); ok {
		return domain.ConflictError{Message: "table has orders and cannot be deleted"}
	}
	if err != nil {
		return domain.StorageError{Op: "delete table", Err: err}
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Entity: "table", ID: id.String()}
	}
	return nil
}
