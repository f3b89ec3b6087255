package repository

import "database/sql"

type Repository struct {
	TableRepo TableRepositoryInterface
}

func New(db *sql.DB) *Repository {
	return &Repository{
		TableRepo: NewTableRepository(db),
	}
}
