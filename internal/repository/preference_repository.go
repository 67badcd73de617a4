package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"course-compass/internal/database"
	"course-compass/internal/domain/preference"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var (
	ErrPreferenceNotFound     = errors.New("preference not found")
	ErrPathEnrollmentNotFound = errors.New("path enrollment not found")
)

type PreferenceRepository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (preference.Profile, error)
	Create(ctx context.Context, p preference.Profile) (preference.Profile, error)
	SetInterestWeight(ctx context.Context, userID, categoryID uuid.UUID, weight float64) error
	UpdateSettings(ctx context.Context, userID uuid.UUID, level, style string, hoursPerWeek float64, careerGoals []string) error
	UpsertPathEnrollment(ctx context.Context, userID uuid.UUID, pe preference.PathEnrollment) error
	SetPathProgress(ctx context.Context, userID, pathID uuid.UUID, progress float64, lastActivity time.Time) error
}

type PostgresPreferenceRepository struct {
	db database.DB
}

func NewPostgresPreferenceRepository(db database.DB) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

func (r *PostgresPreferenceRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (preference.Profile, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, user_id, COALESCE(preferred_level, ''), COALESCE(learning_style, ''),
		        COALESCE(available_hours_per_week, 0), COALESCE(career_goals, '{}'), created_at, updated_at
		 FROM user_preferences
		 WHERE user_id = $1`,
		userID,
	)

	var p preference.Profile
	err := row.Scan(&p.ID, &p.UserID, &p.PreferredLevel, &p.LearningStyle, &p.AvailableHoursPerWeek, &p.CareerGoals, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows || errors.Is(err, pgx.ErrNoRows) {
			return preference.Profile{}, ErrPreferenceNotFound
		}
		return preference.Profile{}, err
	}

	p.Interests, err = r.interests(ctx, userID)
	if err != nil {
		return preference.Profile{}, err
	}
	p.LearningPaths, err = r.pathEnrollments(ctx, userID)
	if err != nil {
		return preference.Profile{}, err
	}
	return p, nil
}

// Create persists a new profile with its initial interests. When a
// concurrent request created the row first, the existing profile wins and
// is returned as-is; the unique index on user_id is the authority.
func (r *PostgresPreferenceRepository) Create(ctx context.Context, p preference.Profile) (preference.Profile, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return preference.Profile{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	affected, err := tx.Exec(ctx,
		`INSERT INTO user_preferences (id, user_id, preferred_level, learning_style, available_hours_per_week, career_goals)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id) DO NOTHING`,
		p.ID, p.UserID, p.PreferredLevel, p.LearningStyle, p.AvailableHoursPerWeek, p.CareerGoals,
	)
	if err != nil {
		return preference.Profile{}, err
	}
	if affected == 0 {
		return r.FindByUserID(ctx, p.UserID)
	}

	for _, in := range p.Interests {
		_, err := tx.Exec(ctx,
			`INSERT INTO user_interests (id, user_id, category_id, weight)
			 VALUES ($1, $2, $3, $4)
			 ON CONFLICT (user_id, category_id) DO UPDATE SET weight = EXCLUDED.weight`,
			uuid.New(), p.UserID, in.CategoryID, in.Weight,
		)
		if err != nil {
			return preference.Profile{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return preference.Profile{}, err
	}

	return r.FindByUserID(ctx, p.UserID)
}

func (r *PostgresPreferenceRepository) SetInterestWeight(ctx context.Context, userID, categoryID uuid.UUID, weight float64) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_interests (id, user_id, category_id, weight)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, category_id) DO UPDATE SET weight = EXCLUDED.weight`,
		uuid.New(), userID, categoryID, weight,
	)
	if err != nil {
		return err
	}
	return r.touch(ctx, userID)
}

func (r *PostgresPreferenceRepository) UpdateSettings(ctx context.Context, userID uuid.UUID, level, style string, hoursPerWeek float64, careerGoals []string) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE user_preferences
		 SET preferred_level = $1, learning_style = $2, available_hours_per_week = $3, career_goals = $4, updated_at = now()
		 WHERE user_id = $5`,
		level, style, hoursPerWeek, careerGoals, userID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPreferenceNotFound
	}
	return nil
}

func (r *PostgresPreferenceRepository) UpsertPathEnrollment(ctx context.Context, userID uuid.UUID, pe preference.PathEnrollment) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO user_path_enrollments (id, user_id, path_id, progress, is_active, started_at, last_activity)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (user_id, path_id) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			last_activity = EXCLUDED.last_activity`,
		uuid.New(), userID, pe.PathID, pe.Progress, pe.IsActive, pe.StartedAt, pe.LastActivity,
	)
	if err != nil {
		return err
	}
	return r.touch(ctx, userID)
}

func (r *PostgresPreferenceRepository) SetPathProgress(ctx context.Context, userID, pathID uuid.UUID, progress float64, lastActivity time.Time) error {
	affected, err := r.db.Exec(ctx,
		`UPDATE user_path_enrollments
		 SET progress = $1, last_activity = $2
		 WHERE user_id = $3 AND path_id = $4`,
		progress, lastActivity, userID, pathID,
	)
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPathEnrollmentNotFound
	}
	return r.touch(ctx, userID)
}

func (r *PostgresPreferenceRepository) touch(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx,
		`UPDATE user_preferences SET updated_at = now() WHERE user_id = $1`,
		userID,
	)
	return err
}

func (r *PostgresPreferenceRepository) interests(ctx context.Context, userID uuid.UUID) ([]preference.Interest, error) {
	rows, err := r.db.Query(ctx,
		`SELECT category_id, COALESCE(weight, 0)
		 FROM user_interests
		 WHERE user_id = $1
		 ORDER BY weight DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]preference.Interest, 0)
	for rows.Next() {
		var in preference.Interest
		if err := rows.Scan(&in.CategoryID, &in.Weight); err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresPreferenceRepository) pathEnrollments(ctx context.Context, userID uuid.UUID) ([]preference.PathEnrollment, error) {
	rows, err := r.db.Query(ctx,
		`SELECT path_id, COALESCE(progress, 0), COALESCE(is_active, false), started_at, last_activity
		 FROM user_path_enrollments
		 WHERE user_id = $1
		 ORDER BY started_at ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]preference.PathEnrollment, 0)
	for rows.Next() {
		var pe preference.PathEnrollment
		if err := rows.Scan(&pe.PathID, &pe.Progress, &pe.IsActive, &pe.StartedAt, &pe.LastActivity); err != nil {
			return nil, err
		}
		out = append(out, pe)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
