package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

type CategoryRepositoryInterface interface {
	List(ctx context.Context) ([]domain.Category, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Category, error)
	Insert(ctx context.Context, c domain.Category) error
	Update(ctx context.Context, c domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepositoryInterface {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description, picture
		FROM categories
		ORDER BY name, created_at
	`)
	if err != nil {
		return nil, storageErr("list categories", err)
	}
	defer rows.Close()

	out := []domain.Category{}
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Picture); err != nil {
			return nil, storageErr("scan category", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list categories", err)
	}
	return out, nil
}

func (r *CategoryRepository) Get(ctx context.Context, id uuid.UUID) (domain.Category, error) {
	var c domain.Category
	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description, picture FROM categories WHERE id = $1
	`, id).Scan(&c.ID, &c.Name, &c.Description, &c.Picture)
	if noRows(err) {
		return domain.Category{}, domain.NotFoundError{Entity: "category", ID: id.String()}
	}
	if err != nil {
		return domain.Category{}, storageErr("get category", err)
	}
	return c, nil
}

func (r *CategoryRepository) Insert(ctx context.Context, c domain.Category) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, picture)
		VALUES ($1, $2, $3, $4)
	`, c.ID, c.Name, c.Description, c.Picture)
	if err != nil {
		return storageErr("insert category", err)
	}
	return nil
}

func (r *CategoryRepository) Update(ctx context.Context, c domain.Category) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE categories SET name = $2, description = $3, picture = $4
		WHERE id = $1
	`, c.ID, c.Name, c.Description, c.Picture)
	if err != nil {
		return storageErr("update category", err)
	}
	return affectedOrNotFound(res, "category", c.ID.String())
}

func (r *CategoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if _, ok := database.ForeignKeyViolation(err); ok {
		return domain.ConflictError{Message: "category still has dishes"}
	}
	if err != nil {
		return storageErr("delete category", err)
	}
	return affectedOrNotFound(res, "category", id.String())
}
