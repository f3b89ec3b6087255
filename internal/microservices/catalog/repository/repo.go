package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"restaurant-admin/internal/domain"
)

type Repository struct {
	CategoryRepo CategoryRepositoryInterface
	DishRepo     DishRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		CategoryRepo: NewCategoryRepository(db),
		DishRepo:     NewDishRepository(db),
	}
}

func storageErr(op string, err error) error {
	return domain.StorageError{Op: op, Err: err}
}

// affectedOrNotFound turns a zero-row write into a NotFoundError.
func affectedOrNotFound(res sql.Result, entity, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func noRows(err error) bool { return errors.Is(err, sql.ErrNoRows) }
