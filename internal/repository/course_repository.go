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

var ErrCourseNotFound = errors.New("course not found")

// CourseCandidateFilter narrows the candidate query for recommendations.
// The limit is applied at the query level, before scoring.
type CourseCandidateFilter struct {
	ExcludeIDs  []uuid.UUID
	CategoryIDs []uuid.UUID
	Status      string
	Limit       int
}

type CourseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (catalog.Course, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Course, error)
	ListCandidates(ctx context.Context, f CourseCandidateFilter) ([]catalog.Course, error)
	EnrolledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	Enroll(ctx context.Context, userID, courseID uuid.UUID) error
}

type PostgresCourseRepository struct {
	db database.DB
}

func NewPostgresCourseRepository(db database.DB) *PostgresCourseRepository {
	return &PostgresCourseRepository{db: db}
}

const courseColumns = `id, title, category_id, instructor_name, instructor_rating, COALESCE(students_enrolled, 0), COALESCE(status, ''), created_at`

func (r *PostgresCourseRepository) FindByID(ctx context.Context, id uuid.UUID) (catalog.Course, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = $1`,
		id,
	)

	var c catalog.Course
	if err := scanCourse(row.Scan, &c); err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return catalog.Course{}, ErrCourseNotFound
		}
		return catalog.Course{}, err
	}
	return c, nil
}

func (r *PostgresCourseRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.Course, error) {
	if len(ids) == 0 {
		return []catalog.Course{}, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+courseColumns+` FROM courses WHERE id = ANY($1)`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCourses(rows)
}

func (r *PostgresCourseRepository) ListCandidates(ctx context.Context, f CourseCandidateFilter) ([]catalog.Course, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = 10
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
		`SELECT `+courseColumns+`
		 FROM courses
		 WHERE NOT (id = ANY($1))
		   AND category_id = ANY($2)
		   AND status = $3
		 ORDER BY created_at DESC
		 LIMIT $4`,
		excludeIDs, categoryIDs, f.Status, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectCourses(rows)
}

func (r *PostgresCourseRepository) EnrolledCourseIDs(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx,
		`SELECT course_id FROM enrollments WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresCourseRepository) Enroll(ctx context.Context, userID, courseID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO enrollments (id, user_id, course_id)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, course_id) DO NOTHING`,
		uuid.New(), userID, courseID,
	)
	return err
}

func scanCourse(scan func(dest ...any) error, c *catalog.Course) error {
	return scan(
		&c.ID,
		&c.Title,
		&c.CategoryID,
		&c.InstructorName,
		&c.InstructorRating,
		&c.StudentsEnrolled,
		&c.Status,
		&c.CreatedAt,
	)
}

func collectCourses(rows database.Rows) ([]catalog.Course, error) {
	out := make([]catalog.Course, 0)
	for rows.Next() {
		var c catalog.Course
		if err := scanCourse(rows.Scan, &c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
