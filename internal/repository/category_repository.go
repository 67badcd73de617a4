package repository

import (
	"context"
	"database/sql"
	"errors"

	"course-compass/internal/database"
	"course-compass/internal/domain/catalog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCategoryNotFound = errors.New("category not found")

type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (catalog.Category, error)
	FindByName(ctx context.Context, name string) (catalog.Category, error)
}

type PostgresCategoryRepository struct {
	db database.DB
}

func NewPostgresCategoryRepository(db database.DB) *PostgresCategoryRepository {
	return &PostgresCategoryRepository{db: db}
}

func (r *PostgresCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (catalog.Category, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, description FROM categories WHERE id = $1`,
		id,
	)
	return scanCategory(row)
}

func (r *PostgresCategoryRepository) FindByName(ctx context.Context, name string) (catalog.Category, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, description FROM categories WHERE name = $1`,
		name,
	)
	return scanCategory(row)
}

func scanCategory(row database.Row) (catalog.Category, error) {
	var c catalog.Category
	if err := row.Scan(&c.ID, &c.Name, &c.Description); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return catalog.Category{}, ErrCategoryNotFound
		}
		return catalog.Category{}, err
	}
	return c, nil
}
