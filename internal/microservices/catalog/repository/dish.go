package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"restaurant-admin/internal/connections/database"
	"restaurant-admin/internal/domain"
)

type DishRepositoryInterface interface {
	List(ctx context.Context, categoryID *uuid.UUID) ([]domain.Dish, error)
	Get(ctx context.Context, id uuid.UUID) (domain.Dish, error)
	Insert(ctx context.Context, d domain.Dish) error
	Update(ctx context.Context, d domain.Dish) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type DishRepository struct {
	db *sql.DB
}

func NewDishRepository(db *sql.DB) DishRepositoryInterface {
	return &DishRepository{db: db}
}

const dishSelect = `
	SELECT d.id, d.name, d.category_id, d.ingredients, d.price::float8, d.picture,
	       c.id, c.name, c.description, c.picture
	FROM dishes d
	JOIN categories c ON c.id = d.category_id`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDish(s rowScanner) (domain.Dish, error) {
	var (
		d domain.Dish
		c domain.Category
	)
	if err := s.Scan(&d.ID, &d.Name, &d.CategoryID, &d.Ingredients, &d.Price, &d.Picture,
		&c.ID, &c.Name, &c.Description, &c.Picture); err != nil {
		return domain.Dish{}, err
	}
	d.Category = &c
	return d, nil
}

func (r *DishRepository) List(ctx context.Context, categoryID *uuid.UUID) ([]domain.Dish, error) {
	q := dishSelect
	var args []any
	if categoryID != nil {
		q += ` WHERE d.category_id = $1`
		args = append(args, *categoryID)
	}
	q += ` ORDER BY d.name, d.created_at`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr("list dishes", err)
	}
	defer rows.Close()

	out := []domain.Dish{}
	for rows.Next() {
		d, err := scanDish(rows)
		if err != nil {
			return nil, storageErr("scan dish", err)
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("list dishes", err)
	}
	return out, nil
}

func (r *DishRepository) Get(ctx context.Context, id uuid.UUID) (domain.Dish, error) {
	d, err := scanDish(r.db.QueryRowContext(ctx, dishSelect+` WHERE d.id = $1`, id))
	if noRows(err) {
		return domain.Dish{}, domain.NotFoundError{Entity: "dish", ID: id.String()}
	}
	if err != nil {
		return domain.Dish{}, storageErr("get dish", err)
	}
	return d, nil
}

func (r *DishRepository) Insert(ctx context.Context, d domain.Dish) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dishes (id, name, category_id, ingredients, price, picture)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, d.ID, d.Name, d.CategoryID, d.Ingredients, d.Price, d.Picture)
	if _, ok := database.ForeignKeyViolation(err); ok {
		return domain.ValidationError{Field: "category", Message: "category does not exist"}
	}
	if err != nil {
		return storageErr("insert dish", err)
	}
	return nil
}

func (r *DishRepository) Update(ctx context.Context, d domain.Dish) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE dishes
		SET name = $2, category_id = $3, ingredients = $4, price = $5, picture = $6
		WHERE id = $1
	`, d.ID, d.Name, d.CategoryID, d.Ingredients, d.Price, d.Picture)
	if _, ok := database.ForeignKeyViolation(err); ok {
		return domain.ValidationError{Field: "category", Message: "category does not exist"}
	}
	if err != nil {
		return storageErr("update dish", err)
	}
	return affectedOrNotFound(res, "dish", d.ID.String())
}

func (r *DishRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM dishes WHERE id = $1`, id)
	if _, ok := database.ForeignKeyViolation(err); ok {
		return domain.ConflictError{Message: "dish is referenced by existing orders"}
	}
	if err != nil {
		return storageErr("delete dish", err)
	}
	return affectedOrNotFound(res, "dish", id.String())
}
