package seeder

import (
	"context"
	"fmt"
	"log"

	"course-compass/internal/database"
)

type Runner struct {
	Seeders []Seeder
}

func (r Runner) Run(ctx context.Context, db database.DB) error {
	if db == nil {
		return fmt.Errorf("nil db")
	}
	for _, s := range r.Seeders {
		if s == nil {
			continue
		}
		if err := s.Run(ctx, db); err != nil {
			return fmt.Errorf("seed %s: %w", s.Name(), err)
		}
	}
	return nil
}

// Run executes the default seeders in dependency order. Every seeder is
// idempotent, so re-running on an already seeded database is a no-op.
func Run(ctx context.Context, db database.DB, logger *log.Logger) error {
	r := Runner{Seeders: []Seeder{
		CategoriesSeeder{},
		CoursesSeeder{},
		LearningPathsSeeder{},
	}}

	if err := r.Run(ctx, db); err != nil {
		return err
	}
	if logger != nil {
		logger.Printf("[Seed] Completed seeders=%d", len(r.Seeders))
	}
	return nil
}
