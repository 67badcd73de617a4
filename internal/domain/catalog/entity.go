package catalog

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusDraft     = "Draft"
	StatusPublished = "Published"
)

type Category struct {
	ID          uuid.UUID
	Name        string
	Description *string
}

type Course struct {
	ID               uuid.UUID
	Title            string
	CategoryID       uuid.UUID
	InstructorName   *string
	InstructorRating *float64
	StudentsEnrolled int
	Status           string
	CreatedAt        time.Time
}

type LearningPath struct {
	ID             uuid.UUID
	Title          string
	CategoryID     uuid.UUID
	Level          string
	Popularity     int
	EstimatedHours float64
	Status         string
	CreatedAt      time.Time
}
