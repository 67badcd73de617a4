package seeder

import (
	"context"
	"fmt"

	"course-compass/internal/database"
)

type LearningPathsSeeder struct{}

func (LearningPathsSeeder) Name() string { return "learning_paths" }

func (LearningPathsSeeder) Run(ctx context.Context, db database.DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Title          string
		Category       string
		Level          string
		Popularity     int
		EstimatedHours float64
	}{
		{Title: "Frontend Developer Path", Category: "Web Development", Level: "Beginner", Popularity: 1840, EstimatedHours: 120},
		{Title: "Backend Developer Path", Category: "Web Development", Level: "Intermediate", Popularity: 1260, EstimatedHours: 140},
		{Title: "Data Scientist Path", Category: "Data Science", Level: "Intermediate", Popularity: 980, EstimatedHours: 180},
		{Title: "Mobile Engineer Path", Category: "Mobile Development", Level: "Beginner", Popularity: 540, EstimatedHours: 100},
		{Title: "Cloud Architect Path", Category: "Cloud Computing", Level: "Advanced", Popularity: 720, EstimatedHours: 160},
		{Title: "Security Analyst Path", Category: "Cybersecurity", Level: "Intermediate", Popularity: 410, EstimatedHours: 130},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO learning_paths (id, title, category_id, level, popularity, estimated_hours, status)
			 SELECT gen_random_uuid(), $1, c.id, $2, $3, $4, 'Published'
			 FROM categories c
			 WHERE c.name = $5
			   AND NOT EXISTS (SELECT 1 FROM learning_paths WHERE title = $1)`,
			it.Title,
			it.Level,
			it.Popularity,
			it.EstimatedHours,
			it.Category,
		)
		if err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
