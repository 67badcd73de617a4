package seeder

import (
	"context"
	"fmt"

	"course-compass/internal/database"
)

type CategoriesSeeder struct{}

func (CategoriesSeeder) Name() string { return "categories" }

func (CategoriesSeeder) Run(ctx context.Context, db database.DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Name        string
		Description string
	}{
		{Name: "Web Development", Description: "Frontend and backend web technologies"},
		{Name: "Data Science", Description: "Statistics, analysis, and machine learning"},
		{Name: "Mobile Development", Description: "iOS and Android application development"},
		{Name: "DevOps", Description: "Infrastructure, CI/CD, and operations"},
		{Name: "Cloud Computing", Description: "Cloud platforms and distributed systems"},
		{Name: "Cybersecurity", Description: "Application and network security"},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO categories (id, name, description) VALUES (gen_random_uuid(), $1, $2) ON CONFLICT (name) DO NOTHING`,
			it.Name,
			it.Description,
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
