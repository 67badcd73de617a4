package dto

import (
	"time"

	"github.com/google/uuid"

	"course-compass/internal/domain/catalog"
)

type CourseResponse struct {
	CourseID         uuid.UUID `json:"course_id"`
	Title            string    `json:"title"`
	CategoryID       uuid.UUID `json:"category_id"`
	InstructorName   *string   `json:"instructor_name,omitempty"`
	InstructorRating *float64  `json:"instructor_rating,omitempty"`
	StudentsEnrolled int       `json:"students_enrolled"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

func NewCourseResponse(c catalog.Course) CourseResponse {
	return CourseResponse{
		CourseID:         c.ID,
		Title:            c.Title,
		CategoryID:       c.CategoryID,
		InstructorName:   c.InstructorName,
		InstructorRating: c.InstructorRating,
		StudentsEnrolled: c.StudentsEnrolled,
		Status:           c.Status,
		CreatedAt:        c.CreatedAt,
	}
}

func NewCourseResponseList(courses []catalog.Course) []CourseResponse {
	out := make([]CourseResponse, 0, len(courses))
	for _, c := range courses {
		out = append(out, NewCourseResponse(c))
	}
	return out
}
