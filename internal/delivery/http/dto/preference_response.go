package dto

import (
	"time"

	"github.com/google/uuid"

	"course-compass/internal/domain/preference"
)

type InterestResponse struct {
	CategoryID uuid.UUID `json:"category_id"`
	Weight     float64   `json:"weight"`
}

type PreferenceResponse struct {
	UserID                uuid.UUID                `json:"user_id"`
	Interests             []InterestResponse       `json:"interests"`
	PreferredLevel        string                   `json:"preferred_level"`
	CareerGoals           []string                 `json:"career_goals"`
	LearningPaths         []PathEnrollmentResponse `json:"learning_paths"`
	LearningStyle         string                   `json:"learning_style"`
	AvailableHoursPerWeek float64                  `json:"available_hours_per_week"`
	UpdatedAt             time.Time                `json:"updated_at"`
}

func NewPreferenceResponse(p *preference.Profile) PreferenceResponse {
	interests := make([]InterestResponse, 0, len(p.Interests))
	for _, in := range p.Interests {
		interests = append(interests, InterestResponse{CategoryID: in.CategoryID, Weight: in.Weight})
	}

	paths := make([]PathEnrollmentResponse, 0, len(p.LearningPaths))
	for _, pe := range p.LearningPaths {
		paths = append(paths, NewPathEnrollmentResponse(pe))
	}

	goals := p.CareerGoals
	if goals == nil {
		goals = []string{}
	}

	return PreferenceResponse{
		UserID:                p.UserID,
		Interests:             interests,
		PreferredLevel:        p.PreferredLevel,
		CareerGoals:           goals,
		LearningPaths:         paths,
		LearningStyle:         p.LearningStyle,
		AvailableHoursPerWeek: p.AvailableHoursPerWeek,
		UpdatedAt:             p.UpdatedAt,
	}
}
