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

var ErrLearningPathNotFound = errors.New("learning path not found")

type PathCandidateFilter struct {
	ExcludeIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	Level       string
	Status      string
	Limit       int
}

type LearningPathRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (catalog.LearningPath, error)
	ListCandidates(ctx context.Context, f PathCandidateFilter) ([]catalog.LearningPath, error)
}

type PostgresLearningPathRepository struct {
	db database.DB
}

func NewPostgresLearningPathRepository(db database.DB) *PostgresLearningPathRepository {
	return &PostgresLearningPathRepository{db: db}
}

const pathColumns = `id, title, category_id, COALESCE(level, ''), COALESCE(popularity, 0), COALESCE(estimated_hours, 0), COALESCE(status, ''), created_at`

func (r *PostgresLearningPathRepository) FindByID(ctx context.Context, id uuid.UUID) (catalog.LearningPath, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+pathColumns+` FROM learning_paths WHERE id = $1`,
		id,
	)

	var p catalog.LearningPath
	if err := scanPath(row.Scan, &p); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return catalog.LearningPath{}, ErrLearningPathNotFound
		}
		return catalog.LearningPath{}, err
	}
	return p, nil
}

func (r *PostgresLearningPathRepository) ListCandidates(ctx context.Context, f PathCandidateFilter) ([]catalog.LearningPath, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 5
	}

	excludeIDs := f.ExcludeIDs
	if excludeIDs == nil {
		excludeIDs = []uuid.UUID{}
	}
	categoryIDs := f.CategoryIDs
	if categoryIDs == nil {
		categoryIDs = []uuid.UUID{}
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+pathColumns+`
		 FROM learning_paths
		 WHERE NOT (id = ANY($1))
		   AND category_id = ANY($2)
		   AND level = $3
		   AND status = $4
		 ORDER BY created_at DESC
		 LIMIT $5`,
		excludeIDs, categoryIDs, f.Level, f.Status, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.LearningPath, 0)
	for rows.Next() {
		var p catalog.LearningPath
		if err := scanPath(rows.Scan, &p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanPath(scan func(dest ...any) error, p *catalog.LearningPath) error {
	return scan(
		&p.ID,
		&p.Title,
		&p.CategoryID,
		&p.Level,
		&p.Popularity,
		&p.EstimatedHours,
		&p.Status,
		&p.CreatedAt,
	)
}
