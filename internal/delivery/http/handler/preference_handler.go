package handler

import (
	"errors"

	"course-compass/internal/delivery/http/dto"
	"course-compass/internal/delivery/http/middleware"
	"course-compass/internal/pkg/response"
	"course-compass/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type PreferenceHandler struct {
	uc usecase.PreferenceUsecase
}

type updatePreferencesRequest struct {
	PreferredLevel string   `json:"preferred_level"`
	LearningStyle  string   `json:"learning_style"`
	HoursPerWeek   float64  `json:"available_hours_per_week"`
	CareerGoals    []string `json:"career_goals"`
}

type trackActivityRequest struct {
	CourseID string `json:"course_id"`
	Action   string `json:"action"`
}

func NewPreferenceHandler(uc usecase.PreferenceUsecase) *PreferenceHandler {
	return &PreferenceHandler{uc: uc}
}

func (h *PreferenceHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/preferences")
	grp.Get("", h.GetPreferences)
	grp.Put("", h.UpdatePreferences)

	r.Post("/activity", h.TrackActivity)
}

func (h *PreferenceHandler) GetPreferences(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	prof, err := h.uc.GetProfile(c.Context(), userID)
	if err != nil {
		return mapPreferenceUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPreferenceResponse(&prof))
}

func (h *PreferenceHandler) UpdatePreferences(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req updatePreferencesRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	prof, err := h.uc.UpdateSettings(c.Context(), userID, usecase.PreferenceSettingsInput{
		PreferredLevel: req.PreferredLevel,
		LearningStyle:  req.LearningStyle,
		HoursPerWeek:   req.HoursPerWeek,
		CareerGoals:    req.CareerGoals,
	})
	if err != nil {
		return mapPreferenceUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPreferenceResponse(&prof))
}

func (h *PreferenceHandler) TrackActivity(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req trackActivityRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	courseID, err := uuid.Parse(req.CourseID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid course id", nil, err)
	}

	interest, err := h.uc.TrackActivity(c.Context(), userID, courseID, req.Action)
	if err != nil {
		return mapPreferenceUsecaseError(err)
	}

	data := dto.InterestResponse{CategoryID: interest.CategoryID, Weight: interest.Weight}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func mapPreferenceUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrCourseNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course not found", nil, err)
	case errors.Is(err, usecase.ErrPreferenceNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Preferences not found", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
