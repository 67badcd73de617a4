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

type LearningPathHandler struct {
	uc usecase.LearningPathUsecase
}

type updateProgressRequest struct {
	Progress float64 `json:"progress"`
}

func NewLearningPathHandler(uc usecase.LearningPathUsecase) *LearningPathHandler {
	return &LearningPathHandler{uc: uc}
}

func (h *LearningPathHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/learning-paths")
	grp.Post("/:id/enroll", h.Enroll)
	grp.Put("/:id/progress", h.UpdateProgress)
}

func (h *LearningPathHandler) Enroll(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid learning path id", nil, err)
	}

	pe, err := h.uc.Enroll(c.Context(), userID, pathID)
	if err != nil {
		return mapLearningPathUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPathEnrollmentResponse(pe))
}

func (h *LearningPathHandler) UpdateProgress(c fiber.Ctx) error {
	userID, ok := c.Locals(middleware.CtxUserIDKey).(uuid.UUID)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	pathID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid learning path id", nil, err)
	}

	var req updateProgressRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	pe, err := h.uc.UpdateProgress(c.Context(), userID, pathID, req.Progress)
	if err != nil {
		return mapLearningPathUsecaseError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPathEnrollmentResponse(pe))
}

func mapLearningPathUsecaseError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	case errors.Is(err, usecase.ErrLearningPathNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Learning path not found", nil, err)
	case errors.Is(err, usecase.ErrNotEnrolledInPath):
		return middleware.NewAppError(fiber.StatusConflict, "Not enrolled in learning path", nil, err)
	case errors.Is(err, usecase.ErrCourseNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Course not found", nil, err)
	case errors.Is(err, usecase.ErrInternal):
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
