package dto

import (
	"time"

	"github.com/google/uuid"

	"course-compass/internal/domain/catalog"
	"course-compass/internal/domain/preference"
)

type LearningPathResponse struct {
	PathID         uuid.UUID `json:"path_id"`
	Title          string    `json:"title"`
	CategoryID     uuid.UUID `json:"category_id"`
	Level          string    `json:"level"`
	Popularity     int       `json:"popularity"`
	EstimatedHours float64   `json:"estimated_hours"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewLearningPathResponse(p catalog.LearningPath) LearningPathResponse {
	return LearningPathResponse{
		PathID:         p.ID,
		Title:          p.Title,
		CategoryID:     p.CategoryID,
		Level:          p.Level,
		Popularity:     p.Popularity,
		EstimatedHours: p.EstimatedHours,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
}

func NewLearningPathResponseList(paths []catalog.LearningPath) []LearningPathResponse {
	out := make([]LearningPathResponse, 0, len(paths))
	for _, p := range paths {
		out = append(out, NewLearningPathResponse(p))
	}
	return out
}

type PathEnrollmentResponse struct {
	PathID       uuid.UUID `json:"path_id"`
	Progress     float64   `json:"progress"`
	IsActive     bool      `json:"is_active"`
	StartedAt    time.Time `json:"started_at"`
	LastActivity time.Time `json:"last_activity"`
}

func NewPathEnrollmentResponse(pe preference.PathEnrollment) PathEnrollmentResponse {
	return PathEnrollmentResponse{
		PathID:       pe.PathID,
		Progress:     pe.Progress,
		IsActive:     pe.IsActive,
		StartedAt:    pe.StartedAt,
		LastActivity: pe.LastActivity,
	}
}
