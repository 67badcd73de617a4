package seeder

import (
	"context"
	"fmt"

	"course-compass/internal/database"
)

type CoursesSeeder struct{}

func (CoursesSeeder) Name() string { return "courses" }

func (CoursesSeeder) Run(ctx context.Context, db database.DB) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	items := []struct {
		Title            string
		Category         string
		Instructor       string
		InstructorRating float64
		Students         int
	}{
		{Title: "Modern JavaScript from Scratch", Category: "Web Development", Instructor: "Ava Torres", InstructorRating: 4.7, Students: 12840},
		{Title: "Building REST APIs with Go", Category: "Web Development", Instructor: "Daniel Okafor", InstructorRating: 4.8, Students: 9310},
		{Title: "React in Practice", Category: "Web Development", Instructor: "Mei Lin", InstructorRating: 4.5, Students: 15720},
		{Title: "Python for Data Analysis", Category: "Data Science", Instructor: "Sofia Marino", InstructorRating: 4.6, Students: 21050},
		{Title: "Practical Machine Learning", Category: "Data Science", Instructor: "Jonas Weber", InstructorRating: 4.4, Students: 8460},
		{Title: "Flutter Crash Course", Category: "Mobile Development", Instructor: "Priya Nair", InstructorRating: 4.3, Students: 6230},
		{Title: "Kubernetes for Developers", Category: "DevOps", Instructor: "Tomás Silva", InstructorRating: 4.6, Students: 7140},
		{Title: "AWS Solutions Architecture", Category: "Cloud Computing", Instructor: "Hannah Cole", InstructorRating: 4.7, Students: 11890},
		{Title: "Web Application Security Basics", Category: "Cybersecurity", Instructor: "Liam Byrne", InstructorRating: 4.2, Students: 4380},
	}

	for _, it := range items {
		_, err := tx.Exec(
			ctx,
			`INSERT INTO courses (id, title, category_id, instructor_name, instructor_rating, students_enrolled, status)
			 SELECT gen_random_uuid(), $1, c.id, $2, $3, $4, 'Published'
			 FROM categories c
			 WHERE c.name = $5
			   AND NOT EXISTS (SELECT 1 FROM courses WHERE title = $1)`,
			it.Title,
			it.Instructor,
			it.InstructorRating,
			it.Students,
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
