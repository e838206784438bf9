package repository

import (
	"github.com/jackc/pgx/v4/pgxpool"
)

type Repository struct {
	db   *pgxpool.Pool
	Blog BlogRepository
}

// NewRepository wires repositories over the pool owned by startup. No
// repository opens its own connection.
func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db:   db,
		Blog: NewBlogRepository(db),
	}
}
